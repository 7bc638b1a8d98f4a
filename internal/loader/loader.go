// Package loader drives the main grid: it runs one browsing-mode load at a
// time, retries a cold trending endpoint, drops results that were superseded
// and decides which item is featured.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/httpclient"
	"github.com/mediamingle/mingle/internal/userdata"
)

// User-facing status lines
const (
	MsgWakingUp  = "Waking up the server... Please wait."
	MsgTooSlow   = "Server is taking too long to respond. Please refresh."
	MsgLoadError = "Failed to load content. Please check your connection and try again."
	MsgNoResults = "No results found."
)

// Status is the load state machine position
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is what a consumer renders
type State struct {
	// Token identifies the load; later loads have larger tokens
	Token    uint64
	Mode     content.BrowsingMode
	Status   Status
	Items    []content.ContentItem
	Featured *content.ContentItem
	Message  string
	Retrying bool
	Attempt  int // 1-based attempt number while loading
	CanRetry bool
	Err      error
	// Stale is set on results that were superseded or arrived after Detach.
	// They were not published and must not be rendered.
	Stale bool
}

// Catalog is the listing source; *catalog.Client satisfies it
type Catalog interface {
	Trending(ctx context.Context, kind content.MediaKind) ([]content.ContentItem, error)
	Search(ctx context.Context, kind content.MediaKind, query string) ([]content.ContentItem, error)
	Recommend(ctx context.Context, kind content.MediaKind, mood string) ([]content.ContentItem, error)
	DiscoverGenre(ctx context.Context, kind content.MediaKind, label string) ([]content.ContentItem, bool, error)
	Discover(ctx context.Context, kind content.MediaKind, spec content.FilterSpec) ([]content.ContentItem, error)
}

// FavoritesSource is satisfied by *userdata.Favorites
type FavoritesSource interface {
	Refresh(ctx context.Context) error
	Items() []content.ContentItem
}

// HistorySource is satisfied by *userdata.History
type HistorySource interface {
	Refresh(ctx context.Context, limit int) error
	Items() []content.ContentItem
}

// Options configures a Loader
type Options struct {
	Catalog   Catalog
	Favorites FavoritesSource
	History   HistorySource
	Policy    Policy
	Clock     Clock
	// Publish receives every state change of the current load, including
	// intermediate Loading and retry states. It is never called for stale
	// loads and must not call back into the Loader.
	Publish func(State)
	Logger  *slog.Logger
}

// Loader runs browsing-mode loads. Load is safe to call from several
// goroutines; only the most recently started load publishes.
type Loader struct {
	catalog   Catalog
	favorites FavoritesSource
	history   HistorySource
	policy    Policy
	clock     Clock
	publish   func(State)
	logger    *slog.Logger

	mu        sync.Mutex
	token     uint64
	cancel    context.CancelFunc
	detached  bool
	featured  *content.ContentItem
	selection Selection
	last      content.BrowsingMode
}

// New creates a Loader starting on trending movies
func New(opts Options) *Loader {
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.Publish == nil {
		opts.Publish = func(State) {}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Policy == (Policy{}) {
		opts.Policy = DefaultPolicy()
	}

	return &Loader{
		catalog:   opts.Catalog,
		favorites: opts.Favorites,
		history:   opts.History,
		policy:    opts.Policy,
		clock:     opts.Clock,
		publish:   opts.Publish,
		logger:    opts.Logger,
		selection: Selection{Kind: content.KindMovie},
		last:      content.Trending(content.KindMovie),
	}
}

// Load runs mode to completion on the calling goroutine and returns its final
// state. Starting a load cancels the previous one.
func (l *Loader) Load(ctx context.Context, mode content.BrowsingMode) State {
	if mode.Type == content.ModeGenre {
		if _, ok := content.GenreQuery(mode.Kind, mode.Genre); !ok {
			return State{Mode: mode, Status: StatusIdle}
		}
	}

	token, ctx, done := l.begin(ctx, mode)
	defer done()

	l.emit(token, State{Token: token, Mode: mode, Status: StatusLoading, Attempt: 1, Featured: l.Featured()})

	items, err := l.fetch(ctx, token, mode)

	l.mu.Lock()
	defer l.mu.Unlock()

	if token != l.token || l.detached {
		l.logger.Debug("discarding stale load", "mode", mode.String())
		return State{Token: token, Mode: mode, Status: statusFor(err), Items: items, Err: err, Stale: true}
	}

	state := State{Token: token, Mode: mode}
	if err != nil {
		state.Status = StatusFailed
		state.Err = err
		state.Items = []content.ContentItem{}
		state.Message, state.CanRetry = failureMessage(mode, err)
		l.logger.Error("content load failed", "mode", mode.String(), "error", err)
	} else {
		if mode.Gated() {
			items = content.Complete(items)
		}
		state.Status = StatusSuccess
		state.Items = items
		if len(items) == 0 {
			state.Message = MsgNoResults
		}
		l.updateFeatured(mode, items)
	}
	state.Featured = l.featured

	l.publish(state)
	return state
}

// Retry reruns the most recent mode
func (l *Loader) Retry(ctx context.Context) State {
	l.mu.Lock()
	mode := l.last
	l.mu.Unlock()
	return l.Load(ctx, mode)
}

// Featured returns the current hero item
func (l *Loader) Featured() *content.ContentItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.featured
}

// Current returns the most recently started mode
func (l *Loader) Current() content.BrowsingMode {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

// Detach marks the consumer as gone. In-flight loads are cancelled and their
// results discarded without publishing.
func (l *Loader) Detach() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.detached = true
	if l.cancel != nil {
		l.cancel()
	}
}

func (l *Loader) begin(parent context.Context, mode content.BrowsingMode) (uint64, context.Context, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}
	l.token++
	l.last = mode

	ctx, cancel := context.WithCancel(parent)
	l.cancel = cancel
	token := l.token

	return token, ctx, func() {
		cancel()
		l.mu.Lock()
		if l.token == token {
			l.cancel = nil
		}
		l.mu.Unlock()
	}
}

// emit publishes an intermediate state if token is still current
func (l *Loader) emit(token uint64, s State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if token != l.token || l.detached {
		return
	}
	l.publish(s)
}

func (l *Loader) fetch(ctx context.Context, token uint64, mode content.BrowsingMode) ([]content.ContentItem, error) {
	switch mode.Type {
	case content.ModeTrending:
		return l.trending(ctx, token, mode)
	case content.ModeSearch:
		return l.catalog.Search(ctx, mode.Kind, mode.Query)
	case content.ModeMood:
		return l.catalog.Recommend(ctx, mode.Kind, mode.Mood)
	case content.ModeGenre:
		items, _, err := l.catalog.DiscoverGenre(ctx, mode.Kind, mode.Genre)
		return items, err
	case content.ModeFilter:
		return l.catalog.Discover(ctx, mode.Kind, mode.Filter)
	case content.ModeFavorites:
		if l.favorites == nil {
			return nil, fmt.Errorf("favorites unavailable")
		}
		if err := l.favorites.Refresh(ctx); err != nil {
			return nil, err
		}
		return l.favorites.Items(), nil
	case content.ModeHistory:
		if l.history == nil {
			return nil, fmt.Errorf("history unavailable")
		}
		if err := l.history.Refresh(ctx, 0); err != nil {
			return nil, err
		}
		return l.history.Items(), nil
	default:
		return nil, fmt.Errorf("unknown browsing mode %d", mode.Type)
	}
}

// trending retries attempts that time out, waiting Delay between them.
// Any other failure ends the load at once.
func (l *Loader) trending(ctx context.Context, token uint64, mode content.BrowsingMode) ([]content.ContentItem, error) {
	for attempt := 0; ; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, l.policy.AttemptTimeout)
		items, err := l.catalog.Trending(attemptCtx, mode.Kind)
		cancel()

		if err == nil {
			return items, nil
		}
		if ctx.Err() != nil || !isTimeout(err) {
			return nil, err
		}
		if attempt >= l.policy.MaxRetries {
			return nil, fmt.Errorf("trending %s: %d attempts: %w", mode.Kind, attempt+1, err)
		}

		l.logger.Warn("trending request timed out, retrying",
			"kind", mode.Kind, "attempt", attempt+1, "delay", l.policy.Delay)
		l.emit(token, State{
			Token:    token,
			Mode:     mode,
			Status:   StatusLoading,
			Message:  MsgWakingUp,
			Retrying: true,
			Attempt:  attempt + 2,
			Featured: l.Featured(),
		})

		select {
		case <-l.clock.After(l.policy.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// updateFeatured applies the hero rules; callers hold l.mu
func (l *Loader) updateFeatured(mode content.BrowsingMode, items []content.ContentItem) {
	switch {
	case mode.SetsFeatured():
		if len(items) > 0 {
			first := items[0]
			l.featured = &first
		} else {
			l.featured = nil
		}
	case mode.Type == content.ModeFavorites, mode.Type == content.ModeHistory:
		l.featured = nil
	}
}

func isTimeout(err error) bool {
	return errors.Is(err, httpclient.ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

func statusFor(err error) Status {
	if err != nil {
		return StatusFailed
	}
	return StatusSuccess
}

func failureMessage(mode content.BrowsingMode, err error) (string, bool) {
	switch mode.Type {
	case content.ModeTrending:
		if isTimeout(err) {
			return MsgTooSlow, true
		}
		return MsgLoadError, true
	case content.ModeFilter:
		return "Failed to load content with filters", false
	case content.ModeGenre:
		return "Failed to load genre content", false
	case content.ModeFavorites, content.ModeHistory:
		if errors.Is(err, httpclient.ErrUnauthorized) || errors.Is(err, userdata.ErrNotAuthenticated) {
			return "Please sign in to see your " + mode.Type.String() + ".", false
		}
		return "Failed to load your " + mode.Type.String() + ".", false
	default:
		return "Failed to load " + strings.ToLower(mode.Type.String()) + " results", false
	}
}
