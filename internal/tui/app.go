package tui

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediamingle/mingle/internal/config"
	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/loader"
	"github.com/mediamingle/mingle/internal/session"
	"github.com/mediamingle/mingle/internal/tui/common"
	"github.com/mediamingle/mingle/internal/userdata"
)

// Catalog is the listing and detail source; *catalog.Client satisfies it
type Catalog interface {
	loader.Catalog
	Detail(ctx context.Context, kind content.MediaKind, id string) (*content.Detail, error)
}

// Auth is the session the App signs in and out of; *session.Manager
// satisfies it
type Auth interface {
	Authenticated() bool
	User() *session.User
	Login(ctx context.Context, email, password string) (*session.User, error)
	Signup(ctx context.Context, email, username, password string) (*session.User, error)
	Logout(ctx context.Context) error
}

// FavoriteStore is satisfied by *userdata.Favorites
type FavoriteStore interface {
	loader.FavoritesSource
	IsFavorite(kind content.MediaKind, id string) bool
	Toggle(ctx context.Context, item content.ContentItem) (bool, error)
	Check(ctx context.Context, kind content.MediaKind, id string) (bool, int, error)
}

// HistoryStore is satisfied by *userdata.History
type HistoryStore interface {
	loader.HistorySource
	List() []userdata.HistoryEntry
	Record(ctx context.Context, item content.ContentItem) error
	DeleteOne(ctx context.Context, id int) error
	ClearAll(ctx context.Context) error
}

// RatingStore is satisfied by *userdata.Ratings
type RatingStore interface {
	Refresh(ctx context.Context, q userdata.RatingQuery) error
	List() []userdata.Rating
	Query() userdata.RatingQuery
	Submit(ctx context.Context, in userdata.RatingInput) (*userdata.Rating, error)
	Update(ctx context.Context, id int, upd userdata.RatingUpdate) (*userdata.Rating, error)
	Delete(ctx context.Context, id int) error
	Lookup(ctx context.Context, kind content.MediaKind, id string) (*userdata.RatingLookup, error)
	Rated(kind content.MediaKind, id string) bool
	Stats(ctx context.Context) (*userdata.Stats, error)
}

// SocialStore is satisfied by *userdata.Social
type SocialStore interface {
	Profile(ctx context.Context, username string) (*userdata.Profile, error)
	UserRatings(ctx context.Context, username string, limit int) ([]userdata.Rating, error)
	Follow(ctx context.Context, username string) (bool, error)
	Unfollow(ctx context.Context, username string) (bool, error)
	IsFollowing(ctx context.Context, username string) (bool, error)
	Followers(ctx context.Context) ([]userdata.Follower, error)
	Following(ctx context.Context) ([]userdata.Follower, error)
	Feed(ctx context.Context, limit int) ([]userdata.Activity, error)
}

// RecentSearches is satisfied by *searchhistory.Cache
type RecentSearches interface {
	Record(ctx context.Context, query string) error
	Clear(ctx context.Context) error
	Suggest(prefix string, n int) []string
}

// Clipboard is satisfied by *clipboard.Service
type Clipboard interface {
	Copy(text, label string) tea.Cmd
}

// Deps is everything the App talks to
type Deps struct {
	Config    *config.Config
	Logger    *slog.Logger
	Catalog   Catalog
	Favorites FavoriteStore
	History   HistoryStore
	Ratings   RatingStore
	Social    SocialStore
	Session   Auth
	Recent    RecentSearches
	Clipboard Clipboard
	// OpenURL opens a link in the system browser
	OpenURL func(url string) error
	// Alerts relays store alerts into the running program; optional
	Alerts *Alerts
	// Clock drives the trending retry delay; nil uses real time
	Clock loader.Clock
}

// Alerts forwards user-facing alerts from the stores to the App. Create it
// before the stores, hand it to them as their Alerter, then pass it in Deps.
type Alerts struct {
	ch chan tea.Msg
}

// NewAlerts creates a relay
func NewAlerts() *Alerts {
	return &Alerts{ch: make(chan tea.Msg, 100)}
}

// Alert implements userdata.Alerter. It never blocks; alerts raised while the
// queue is full are dropped.
func (a *Alerts) Alert(message string) {
	select {
	case a.ch <- common.AlertMsg{Text: message}:
	default:
	}
}

// Start is the entry point for the TUI
func Start(deps Deps) error {
	m := NewApp(deps)
	defer m.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if m.cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
