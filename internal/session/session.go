// Package session owns the bearer token every authenticated request carries.
// The token is persisted in the key/value store so a login survives restarts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/oauth2"

	"github.com/mediamingle/mingle/internal/httpclient"
	"github.com/mediamingle/mingle/internal/kvstore"
)

const sessionKey = "session"

// ErrNoSession is returned by Token when nobody is signed in
var ErrNoSession = errors.New("not signed in")

// User is the account the session belongs to
type User struct {
	ID        int             `json:"id" yaml:"id"`
	Email     string          `json:"email" yaml:"email"`
	Username  string          `json:"username" yaml:"username"`
	CreatedAt httpclient.Time `json:"created_at" yaml:"created_at"`
}

// API is the slice of the HTTP client the session needs
type API interface {
	Get(ctx context.Context, path string, params map[string]string, result any) error
	Post(ctx context.Context, path string, body, result any) error
}

// stored is the persisted form of a session
type stored struct {
	Token *oauth2.Token `json:"token"`
	User  *User         `json:"user,omitempty"`
}

// Manager holds the current token and implements oauth2.TokenSource
type Manager struct {
	store  kvstore.Store
	key    string
	api    API
	logger *slog.Logger

	mu     sync.RWMutex
	token  *oauth2.Token
	user   *User
	static bool
}

// NewManager creates a manager persisting under "{namespace}:session"
func NewManager(store kvstore.Store, namespace string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		key:    kvstore.Key(namespace, sessionKey),
		logger: logger,
	}
}

// Bind attaches the API used by Login and Me. The API's own token source is
// usually this manager, so binding happens after both exist.
func (m *Manager) Bind(api API) {
	m.api = api
}

// UseStaticToken installs a configured token that is never persisted
func (m *Manager) UseStaticToken(access string) {
	if access == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = &oauth2.Token{AccessToken: access, TokenType: "bearer"}
	m.static = true
}

// Load restores a persisted session. A missing or corrupt entry leaves the
// manager signed out.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.static {
		return nil
	}

	value, err := m.store.Get(ctx, m.key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	var s stored
	if err := json.Unmarshal([]byte(value), &s); err != nil {
		m.logger.Warn("discarding unreadable session", "error", err)
		return nil
	}
	m.token = s.Token
	m.user = s.User
	return nil
}

// Token implements oauth2.TokenSource
func (m *Manager) Token() (*oauth2.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == nil || !m.token.Valid() {
		return nil, ErrNoSession
	}
	return m.token, nil
}

// Authenticated reports whether a usable token is held
func (m *Manager) Authenticated() bool {
	_, err := m.Token()
	return err == nil
}

// User returns the signed-in user if known
func (m *Manager) User() *User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// Login exchanges credentials for a bearer token and persists it
func (m *Manager) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	user, err := m.authenticate(ctx, "/login", body)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	m.logger.Info("signed in", "username", user.Username)
	return user, nil
}

// Signup registers a new account and signs it in
func (m *Manager) Signup(ctx context.Context, email, username, password string) (*User, error) {
	body := map[string]string{"email": email, "username": username, "password": password}
	user, err := m.authenticate(ctx, "/signup", body)
	if err != nil {
		return nil, fmt.Errorf("sign up failed: %w", err)
	}
	m.logger.Info("account created", "username", user.Username)
	return user, nil
}

// authenticate posts body to path, which answers with a token and the user,
// and makes that the persisted session
func (m *Manager) authenticate(ctx context.Context, path string, body map[string]string) (*User, error) {
	if m.api == nil {
		return nil, fmt.Errorf("session has no API bound")
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		User        User   `json:"user"`
	}
	if err := m.api.Post(ctx, path, body, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("no token in response")
	}

	token := &oauth2.Token{AccessToken: resp.AccessToken, TokenType: resp.TokenType}
	user := resp.User

	if err := m.save(ctx, stored{Token: token, User: &user}); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.token = token
	m.user = &user
	m.static = false
	m.mu.Unlock()
	return &user, nil
}

// Logout forgets the token locally and in the store
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.token = nil
	m.user = nil
	m.static = false
	m.mu.Unlock()

	if err := m.store.Delete(ctx, m.key); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// Me fetches the signed-in user from the backend
func (m *Manager) Me(ctx context.Context) (*User, error) {
	if !m.Authenticated() {
		return nil, ErrNoSession
	}
	if m.api == nil {
		return nil, fmt.Errorf("session has no API bound")
	}

	var user User
	if err := m.api.Get(ctx, "/me", nil, &user); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()
	return &user, nil
}

func (m *Manager) save(ctx context.Context, s stored) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := m.store.Set(ctx, m.key, string(data)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}
