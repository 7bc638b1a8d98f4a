package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediamingle/mingle/internal/config"
	"github.com/mediamingle/mingle/internal/httpclient"
	"github.com/mediamingle/mingle/internal/kvstore"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Incorrect email or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"jwt-abc","token_type":"bearer","user":{"id":1,"email":"a@b.c","username":"ana"}}`))
	})
	r.Post("/signup", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["username"] == "ana" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"Email or username already registered"}`))
			return
		}
		assert.Equal(t, "b@b.c", body["email"])
		assert.Equal(t, "hunter2", body["password"])
		_, _ = w.Write([]byte(`{"access_token":"jwt-abc","token_type":"bearer","user":{"id":2,"email":"b@b.c","username":"` + body["username"] + `"}}`))
	})
	r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer jwt-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"email":"a@b.c","username":"ana"}`))
	})
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func newManager(t *testing.T, store kvstore.Store) *Manager {
	t.Helper()
	server := newBackend(t)
	m := NewManager(store, "test", config.NullLogger())
	m.Bind(httpclient.NewClient(httpclient.ClientConfig{BaseURL: server.URL, Tokens: m}))
	return m
}

func TestLoginPersistsAndMe(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	m := newManager(t, store)

	assert.False(t, m.Authenticated())
	_, err := m.Me(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	user, err := m.Login(ctx, "a@b.c", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)
	assert.True(t, m.Authenticated())

	me, err := m.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, me.ID)

	// a second manager over the same store picks the session up
	restored := NewManager(store, "test", config.NullLogger())
	require.NoError(t, restored.Load(ctx))
	assert.True(t, restored.Authenticated())
	assert.Equal(t, "ana", restored.User().Username)
}

func TestLoginFailure(t *testing.T) {
	m := newManager(t, kvstore.NewMemory())

	_, err := m.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, httpclient.ErrUnauthorized)
	assert.False(t, m.Authenticated())
}

func TestSignupPersists(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	m := newManager(t, store)

	user, err := m.Signup(ctx, "b@b.c", "bea", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "bea", user.Username)
	assert.True(t, m.Authenticated())

	restored := NewManager(store, "test", config.NullLogger())
	require.NoError(t, restored.Load(ctx))
	assert.True(t, restored.Authenticated())
	assert.Equal(t, 2, restored.User().ID)
}

func TestSignupTakenUsername(t *testing.T) {
	m := newManager(t, kvstore.NewMemory())

	_, err := m.Signup(context.Background(), "a@b.c", "ana", "hunter2")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpclient.StatusCode(err))
	assert.Contains(t, err.Error(), "already registered")
	assert.False(t, m.Authenticated())
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	m := newManager(t, store)

	_, err := m.Login(ctx, "a@b.c", "hunter2")
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))

	assert.False(t, m.Authenticated())
	_, err = store.Get(ctx, kvstore.Key("test", "session"))
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestLoadIgnoresCorruptEntry(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	require.NoError(t, store.Set(ctx, kvstore.Key("test", "session"), "{not json"))

	m := NewManager(store, "test", config.NullLogger())
	require.NoError(t, m.Load(ctx))
	assert.False(t, m.Authenticated())
}

func TestStaticToken(t *testing.T) {
	m := NewManager(kvstore.NewMemory(), "test", config.NullLogger())
	m.UseStaticToken("from-config")

	tok, err := m.Token()
	require.NoError(t, err)
	assert.Equal(t, "from-config", tok.AccessToken)
	require.NoError(t, m.Load(context.Background()))
	assert.True(t, m.Authenticated())
}
