// Package userdata keeps the client's copy of the signed-in user's favorites,
// watch history and ratings in step with the backend, plus the social reads
// (profiles and follows) built on the same API.
package userdata

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/httpclient"
)

var (
	// ErrNotAuthenticated is returned without any network call when no
	// session is held
	ErrNotAuthenticated = errors.New("sign in required")
	// ErrInvalidRating rejects ratings outside (0, 10] and over-long reviews
	ErrInvalidRating = errors.New("invalid rating")
)

// API is the HTTP surface the stores call; *httpclient.Client satisfies it
type API interface {
	Get(ctx context.Context, path string, params map[string]string, result any) error
	Post(ctx context.Context, path string, body, result any) error
	Put(ctx context.Context, path string, body, result any) error
	Delete(ctx context.Context, path string, result any) error
}

// Session reports whether authenticated calls may be made
type Session interface {
	Authenticated() bool
}

// Alerter receives user-facing messages for failed destructive operations
type Alerter interface {
	Alert(message string)
}

// AlertFunc adapts a function to Alerter
type AlertFunc func(message string)

func (f AlertFunc) Alert(message string) { f(message) }

type nopAlerter struct{}

func (nopAlerter) Alert(string) {}

// Record is the denormalized content reference the backend stores with every
// favorite, history entry and rating
type Record struct {
	ContentType string  `json:"content_type" yaml:"content_type"`
	ContentID   string  `json:"content_id" yaml:"content_id"`
	Title       string  `json:"title" yaml:"title"`
	PosterURL   *string `json:"poster_url" yaml:"poster_url,omitempty"`
}

// Kind maps the stored content_type back to a media kind
func (r Record) Kind() content.MediaKind {
	kind, err := content.ParseKind(r.ContentType)
	if err != nil {
		return content.MediaKind(r.ContentType)
	}
	return kind
}

// Key is the "{kind}-{id}" membership key
func (r Record) Key() string {
	return content.Key(r.Kind(), r.ContentID)
}

// Item rebuilds a minimal content item for display and menu targets
func (r Record) Item() content.ContentItem {
	return content.ContentItem{
		ID:        r.ContentID,
		Kind:      r.Kind(),
		Title:     r.Title,
		PosterURL: r.PosterURL,
	}
}

// RecordFor builds the stored reference for an item
func RecordFor(item content.ContentItem) Record {
	return Record{
		ContentType: item.Kind.ContentType(),
		ContentID:   item.ID,
		Title:       item.Title,
		PosterURL:   item.PosterURL,
	}
}

// base carries what every store shares
type base struct {
	api     API
	session Session
	alerter Alerter
	logger  *slog.Logger
}

func newBase(api API, session Session, alerter Alerter, logger *slog.Logger) base {
	if alerter == nil {
		alerter = nopAlerter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return base{api: api, session: session, alerter: alerter, logger: logger}
}

func (b base) authenticated() bool {
	return b.session != nil && b.session.Authenticated()
}

// failed logs err for op. A 401 fails only this call; the session is kept.
func (b base) failed(op string, err error) {
	if errors.Is(err, httpclient.ErrUnauthorized) {
		b.logger.Warn("session rejected, treating as signed out for this call", "op", op)
		return
	}
	b.logger.Error("user data request failed", "op", op, "error", err)
}

// alertMessage picks the text shown for a failed destructive operation
func alertMessage(action string, err error) string {
	if errors.Is(err, httpclient.ErrUnauthorized) {
		return "Please sign in again to " + action + "."
	}
	return "Failed to " + action + ". Please try again."
}
