package userdata

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mediamingle/mingle/internal/config"
	"github.com/mediamingle/mingle/internal/httpclient"
)

// fakeBackend is an in-memory stand-in for the user data API
type fakeBackend struct {
	mu        sync.Mutex
	nextID    int
	favorites []map[string]any
	history   []map[string]any
	ratings   []map[string]any

	calls        atomic.Int32
	failDeletes  atomic.Bool
	unauthorized atomic.Bool
}

type fakeSession struct{ ok bool }

func (s fakeSession) Authenticated() bool { return s.ok }

type alerts struct {
	mu   sync.Mutex
	msgs []string
}

func (a *alerts) Alert(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.msgs = append(a.msgs, msg)
}

func (a *alerts) all() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.msgs...)
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httpclient.Client) {
	t.Helper()
	b := &fakeBackend{nextID: 1}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b.calls.Add(1)
			if b.unauthorized.Load() {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
				return
			}
			if b.failDeletes.Load() && r.Method == http.MethodDelete {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/favorites", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, b.favorites)
	})
	r.Post("/favorites", func(w http.ResponseWriter, r *http.Request) {
		rec := decode(r)
		b.mu.Lock()
		rec["id"] = b.nextID
		rec["added_at"] = "2025-01-02T03:04:05.000001"
		b.nextID++
		b.favorites = append(b.favorites, rec)
		b.mu.Unlock()
		writeJSON(w, rec)
	})
	r.Delete("/favorites/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.favorites = without(b.favorites, chi.URLParam(r, "id"))
		b.mu.Unlock()
		writeJSON(w, map[string]string{"message": "Removed from favorites"})
	})
	r.Get("/favorites/check/{type}/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, f := range b.favorites {
			if f["content_type"] == chi.URLParam(r, "type") && f["content_id"] == chi.URLParam(r, "id") {
				writeJSON(w, map[string]any{"is_favorite": true, "favorite_id": f["id"]})
				return
			}
		}
		writeJSON(w, map[string]any{"is_favorite": false})
	})

	r.Get("/history", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, b.history)
	})
	r.Post("/history", func(w http.ResponseWriter, r *http.Request) {
		rec := decode(r)
		b.mu.Lock()
		rec["id"] = b.nextID
		b.nextID++
		b.history = append([]map[string]any{rec}, b.history...)
		b.mu.Unlock()
		writeJSON(w, rec)
	})
	r.Delete("/history/all", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.history = nil
		b.mu.Unlock()
		writeJSON(w, map[string]string{"message": "cleared"})
	})
	r.Delete("/history/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.history = without(b.history, chi.URLParam(r, "id"))
		b.mu.Unlock()
		writeJSON(w, map[string]string{"message": "deleted"})
	})

	r.Get("/ratings", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, b.ratings)
	})
	r.Post("/ratings", func(w http.ResponseWriter, r *http.Request) {
		rec := decode(r)
		b.mu.Lock()
		rec["id"] = b.nextID
		b.nextID++
		b.ratings = append(b.ratings, rec)
		b.mu.Unlock()
		writeJSON(w, rec)
	})
	r.Get("/ratings/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"total_ratings":  2,
			"average_rating": 7.5,
			"highest_rated":  map[string]any{"title": "Dune", "rating": 9},
			"lowest_rated":   map[string]any{"title": "Cats", "rating": 6},
		})
	})
	r.Get("/ratings/{type}/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"has_rating": true, "rating": 8, "rating_id": 42, "rated_at": "2025-02-01T10:00:00"})
	})
	r.Put("/ratings/{id}", func(w http.ResponseWriter, r *http.Request) {
		upd := decode(r)
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, rec := range b.ratings {
			if strconv.Itoa(toInt(rec["id"])) == chi.URLParam(r, "id") {
				rec["rating"] = upd["rating"]
				rec["review"] = upd["review"]
				writeJSON(w, rec)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})
	r.Delete("/ratings/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.ratings = without(b.ratings, chi.URLParam(r, "id"))
		b.mu.Unlock()
		writeJSON(w, map[string]string{"message": "Rating deleted successfully"})
	})

	r.Get("/users/{username}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "username") != "ana" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"User not found"}`))
			return
		}
		writeJSON(w, map[string]any{"id": 1, "username": "ana", "created_at": "2024-06-01T12:00:00", "followers_count": 3, "following_count": 1, "ratings_count": 12})
	})
	r.Get("/users/{username}/ratings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{"id": 9, "content_type": "anime", "content_id": "21", "title": "One Piece", "rating": 10}})
	})
	r.Post("/follow/{username}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"message": "Now following", "is_following": true})
	})
	r.Delete("/follow/{username}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"message": "Unfollowed", "is_following": false})
	})
	r.Get("/follow/check/{username}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"is_following": true})
	})
	r.Get("/followers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{"id": 2, "username": "bo", "followed_at": "2025-01-01T00:00:00"}})
	})
	r.Get("/feed", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{"id": 5, "username": "bo", "activity_type": "rating", "content_title": "Dune", "rating_value": 9, "created_at": "2025-01-01T00:00:00"}})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return b, httpclient.NewClient(httpclient.ClientConfig{BaseURL: server.URL, Logger: config.NullLogger()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if v == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request) map[string]any {
	var m map[string]any
	_ = json.NewDecoder(r.Body).Decode(&m)
	if m == nil {
		m = map[string]any{}
	}
	return m
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func without(list []map[string]any, id string) []map[string]any {
	var out []map[string]any
	for _, rec := range list {
		if strconv.Itoa(toInt(rec["id"])) != id {
			out = append(out, rec)
		}
	}
	return out
}
