package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediamingle/mingle/internal/clipboard"
	"github.com/mediamingle/mingle/internal/config"
	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/httpclient"
	"github.com/mediamingle/mingle/internal/loader"
	"github.com/mediamingle/mingle/internal/menu"
	"github.com/mediamingle/mingle/internal/session"
	"github.com/mediamingle/mingle/internal/tui/common"
	"github.com/mediamingle/mingle/internal/tui/tuitest"
	"github.com/mediamingle/mingle/internal/userdata"
)

func strp(s string) *string    { return &s }
func floatp(f float64) *float64 { return &f }

func item(kind content.MediaKind, id string) content.ContentItem {
	return content.ContentItem{
		ID:        id,
		Kind:      kind,
		Title:     "Title " + id,
		PosterURL: strp("https://img.example/" + id + ".jpg"),
		Rating:    floatp(7.5),
	}
}

type fakeCatalog struct {
	mu       sync.Mutex
	searches []string
}

func (f *fakeCatalog) Trending(_ context.Context, kind content.MediaKind) ([]content.ContentItem, error) {
	incomplete := item(kind, "99")
	incomplete.PosterURL = nil
	return []content.ContentItem{item(kind, "1"), item(kind, "2"), incomplete}, nil
}

func (f *fakeCatalog) Search(_ context.Context, kind content.MediaKind, query string) ([]content.ContentItem, error) {
	f.mu.Lock()
	f.searches = append(f.searches, query)
	f.mu.Unlock()
	return []content.ContentItem{item(kind, "s1")}, nil
}

func (f *fakeCatalog) Recommend(_ context.Context, kind content.MediaKind, _ string) ([]content.ContentItem, error) {
	return []content.ContentItem{item(kind, "m1")}, nil
}

func (f *fakeCatalog) DiscoverGenre(_ context.Context, kind content.MediaKind, _ string) ([]content.ContentItem, bool, error) {
	return []content.ContentItem{item(kind, "g1")}, true, nil
}

func (f *fakeCatalog) Discover(_ context.Context, kind content.MediaKind, _ content.FilterSpec) ([]content.ContentItem, error) {
	return []content.ContentItem{item(kind, "f1")}, nil
}

func (f *fakeCatalog) Detail(_ context.Context, kind content.MediaKind, id string) (*content.Detail, error) {
	return &content.Detail{ContentItem: item(kind, id), Genres: []string{"Drama"}}, nil
}

type fakeAuth struct {
	user *session.User
}

func (f *fakeAuth) Authenticated() bool  { return f.user != nil }
func (f *fakeAuth) User() *session.User { return f.user }

func (f *fakeAuth) Login(_ context.Context, email, _ string) (*session.User, error) {
	f.user = &session.User{ID: 1, Email: email, Username: "ana"}
	return f.user, nil
}

func (f *fakeAuth) Signup(_ context.Context, email, username, _ string) (*session.User, error) {
	if username == "ana" {
		return nil, &httpclient.StatusError{Method: "POST", URL: "/signup", Code: 400, Detail: "Email or username already registered"}
	}
	f.user = &session.User{ID: 2, Email: email, Username: username}
	return f.user, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.user = nil
	return nil
}

type fakeFavorites struct {
	mu      sync.Mutex
	saved   map[string]content.ContentItem
	toggles int
}

func (f *fakeFavorites) Refresh(context.Context) error { return nil }

func (f *fakeFavorites) Items() []content.ContentItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []content.ContentItem
	for _, it := range f.saved {
		out = append(out, it)
	}
	return out
}

func (f *fakeFavorites) IsFavorite(kind content.MediaKind, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.saved[content.Key(kind, id)]
	return ok
}

func (f *fakeFavorites) Toggle(_ context.Context, it content.ContentItem) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggles++
	if _, ok := f.saved[it.Key()]; ok {
		delete(f.saved, it.Key())
		return false, nil
	}
	f.saved[it.Key()] = it
	return true, nil
}

func (f *fakeFavorites) Check(_ context.Context, kind content.MediaKind, id string) (bool, int, error) {
	return f.IsFavorite(kind, id), 0, nil
}

type fakeHistory struct {
	mu       sync.Mutex
	entries  []userdata.HistoryEntry
	recorded []string
	deleted  []int
}

func (f *fakeHistory) Refresh(context.Context, int) error { return nil }

func (f *fakeHistory) Items() []content.ContentItem {
	var out []content.ContentItem
	for _, e := range f.List() {
		out = append(out, e.Item())
	}
	return out
}

func (f *fakeHistory) List() []userdata.HistoryEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]userdata.HistoryEntry(nil), f.entries...)
}

func (f *fakeHistory) Record(_ context.Context, it content.ContentItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, it.Key())
	return nil
}

func (f *fakeHistory) DeleteOne(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeHistory) ClearAll(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = nil
	return nil
}

type fakeRatings struct {
	mu      sync.Mutex
	ratings []userdata.Rating
	deleted []int
	query   userdata.RatingQuery
}

func (f *fakeRatings) Refresh(_ context.Context, q userdata.RatingQuery) error {
	f.mu.Lock()
	f.query = q
	f.mu.Unlock()
	return nil
}

func (f *fakeRatings) List() []userdata.Rating {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]userdata.Rating(nil), f.ratings...)
}

func (f *fakeRatings) Query() userdata.RatingQuery { return f.query }

func (f *fakeRatings) Submit(_ context.Context, in userdata.RatingInput) (*userdata.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := userdata.Rating{ID: len(f.ratings) + 1, Record: userdata.RecordFor(in.Item), Rating: in.Rating}
	f.ratings = append(f.ratings, r)
	return &r, nil
}

func (f *fakeRatings) Update(_ context.Context, id int, upd userdata.RatingUpdate) (*userdata.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.ratings {
		if f.ratings[i].ID == id {
			f.ratings[i].Rating = upd.Rating
			r := f.ratings[i]
			return &r, nil
		}
	}
	return nil, fmt.Errorf("rating %d not found", id)
}

func (f *fakeRatings) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRatings) Lookup(_ context.Context, kind content.MediaKind, id string) (*userdata.RatingLookup, error) {
	for _, r := range f.List() {
		if r.Key() == content.Key(kind, id) {
			return &userdata.RatingLookup{HasRating: true, Rating: r.Rating, RatingID: r.ID}, nil
		}
	}
	return &userdata.RatingLookup{}, nil
}

func (f *fakeRatings) Rated(kind content.MediaKind, id string) bool {
	l, _ := f.Lookup(context.Background(), kind, id)
	return l.HasRating
}

func (f *fakeRatings) Stats(context.Context) (*userdata.Stats, error) {
	return &userdata.Stats{}, nil
}

type fakeSocial struct{}

func (fakeSocial) Profile(_ context.Context, username string) (*userdata.Profile, error) {
	return &userdata.Profile{Username: username}, nil
}

func (fakeSocial) UserRatings(context.Context, string, int) ([]userdata.Rating, error) {
	return nil, nil
}
func (fakeSocial) Follow(context.Context, string) (bool, error)      { return true, nil }
func (fakeSocial) Unfollow(context.Context, string) (bool, error)    { return false, nil }
func (fakeSocial) IsFollowing(context.Context, string) (bool, error) { return false, nil }
func (fakeSocial) Followers(context.Context) ([]userdata.Follower, error) {
	return nil, nil
}
func (fakeSocial) Following(context.Context) ([]userdata.Follower, error) {
	return nil, nil
}
func (fakeSocial) Feed(context.Context, int) ([]userdata.Activity, error) {
	return nil, nil
}

type fakeRecent struct {
	mu      sync.Mutex
	queries []string
}

func (f *fakeRecent) Record(_ context.Context, q string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return nil
}

func (f *fakeRecent) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = nil
	return nil
}

func (f *fakeRecent) Suggest(string, int) []string { return nil }

type fakeClipboard struct {
	mu     sync.Mutex
	copied []string
}

func (f *fakeClipboard) Copy(text, label string) tea.Cmd {
	return func() tea.Msg {
		f.mu.Lock()
		f.copied = append(f.copied, text)
		f.mu.Unlock()
		return clipboard.CopiedMsg{Label: label}
	}
}

type fixture struct {
	app       *App
	catalog   *fakeCatalog
	auth      *fakeAuth
	favorites *fakeFavorites
	history   *fakeHistory
	ratings   *fakeRatings
	recent    *fakeRecent
	clipboard *fakeClipboard
	alerts    *Alerts
	opened    []string
}

func newFixture(t *testing.T, signedIn bool) *fixture {
	t.Helper()

	f := &fixture{
		catalog:   &fakeCatalog{},
		auth:      &fakeAuth{},
		favorites: &fakeFavorites{saved: map[string]content.ContentItem{}},
		history: &fakeHistory{entries: []userdata.HistoryEntry{
			{ID: 11, Record: userdata.RecordFor(item(content.KindMovie, "1"))},
			{ID: 12, Record: userdata.RecordFor(item(content.KindTV, "7"))},
		}},
		ratings:   &fakeRatings{},
		recent:    &fakeRecent{},
		clipboard: &fakeClipboard{},
		alerts:    NewAlerts(),
	}
	if signedIn {
		f.auth.user = &session.User{ID: 1, Username: "ana"}
	}

	f.app = NewApp(Deps{
		Config:    config.DefaultConfig(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Catalog:   f.catalog,
		Favorites: f.favorites,
		History:   f.history,
		Ratings:   f.ratings,
		Social:    fakeSocial{},
		Session:   f.auth,
		Recent:    f.recent,
		Clipboard: f.clipboard,
		OpenURL: func(url string) error {
			f.opened = append(f.opened, url)
			return nil
		},
		Alerts: f.alerts,
	})
	t.Cleanup(f.app.Close)

	f.app.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	f.send(tea.Msg(nil), f.app.startLoad(content.Trending(content.KindMovie)))
	return f
}

// exec runs cmd and returns the messages it produced. Commands that do not
// finish quickly, such as status timers, are dropped.
func exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		switch msg := msg.(type) {
		case nil:
			return nil
		case tea.BatchMsg:
			var out []tea.Msg
			for _, c := range msg {
				out = append(out, exec(c)...)
			}
			return out
		default:
			return []tea.Msg{msg}
		}
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// send delivers msg, when set, then runs the resulting commands to
// completion, feeding every message back into the App
func (f *fixture) send(msg tea.Msg, cmds ...tea.Cmd) {
	if msg != nil {
		_, cmd := f.app.Update(msg)
		cmds = append(cmds, cmd)
	}
	var queue []tea.Msg
	for _, c := range cmds {
		queue = append(queue, exec(c)...)
	}
	for i := 0; len(queue) > 0 && i < 50; i++ {
		next := queue[0]
		queue = queue[1:]
		if _, ok := next.(tea.QuitMsg); ok {
			continue
		}
		_, cmd := f.app.Update(next)
		queue = append(queue, exec(cmd)...)
	}
}

func (f *fixture) key(s string) {
	f.send(keyMsg(s))
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "alt+left":
		return tea.KeyMsg{Type: tea.KeyLeft, Alt: true}
	case "alt+right":
		return tea.KeyMsg{Type: tea.KeyRight, Alt: true}
	case "ctrl+k":
		return tea.KeyMsg{Type: tea.KeyCtrlK}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func click(button tea.MouseButton, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: button, Action: tea.MouseActionPress}
}

// tabX finds a column inside the header tab for s
func (f *fixture) tabX(t *testing.T, s section) int {
	t.Helper()
	for x := 0; x < f.app.width; x++ {
		if got, ok := f.app.tabAt(x); ok && got == s {
			return x
		}
	}
	t.Fatalf("no tab for section %d", s)
	return 0
}

func TestStartupShowsCompleteTrendingItems(t *testing.T) {
	f := newFixture(t, false)

	items := f.app.grid.Items()
	require.Len(t, items, 2, "items without a poster are gated out")
	assert.Equal(t, "1", items[0].ID)
	assert.False(t, f.app.grid.Loading())
	require.NotNil(t, f.app.load.Featured)
	assert.Equal(t, "1", f.app.load.Featured.ID)
}

func TestLoaderStatesApplyInTokenOrder(t *testing.T) {
	f := newFixture(t, false)
	a := f.app
	base := a.loadToken

	newer := []content.ContentItem{item(content.KindTV, "new")}
	older := []content.ContentItem{item(content.KindTV, "old")}

	a.Update(common.LoaderStateMsg{State: loader.State{Token: base + 2, Status: loader.StatusSuccess, Items: newer}, Final: true})
	a.Update(common.LoaderStateMsg{State: loader.State{Token: base + 1, Status: loader.StatusSuccess, Items: older}, Final: true})
	assert.Equal(t, "new", a.grid.Items()[0].ID, "an older load never overwrites a newer one")

	a.Update(common.LoaderStateMsg{State: loader.State{Token: base + 2, Status: loader.StatusLoading}})
	assert.False(t, a.grid.Loading(), "a late intermediate state is ignored after the final one")

	a.Update(common.LoaderStateMsg{State: loader.State{Token: base + 3, Status: loader.StatusSuccess, Items: older, Stale: true}, Final: true})
	assert.Equal(t, "new", a.grid.Items()[0].ID, "stale results are never rendered")
}

func TestRetryBannerAndFailure(t *testing.T) {
	f := newFixture(t, false)
	a := f.app
	token := a.loadToken + 1

	a.Update(common.LoaderStateMsg{State: loader.State{Token: token, Status: loader.StatusLoading, Retrying: true, Message: loader.MsgWakingUp}})
	assert.Contains(t, tuitest.Plain(a.View()), loader.MsgWakingUp)

	a.Update(common.LoaderStateMsg{State: loader.State{Token: token, Status: loader.StatusFailed, Message: loader.MsgTooSlow, CanRetry: true}, Final: true})
	view := tuitest.Plain(a.View())
	assert.Contains(t, view, loader.MsgTooSlow)
	assert.Contains(t, view, "ctrl+r to retry")
}

func TestSignedOutFavoriteToggleMakesNoCall(t *testing.T) {
	f := newFixture(t, false)

	f.key("f")
	assert.Zero(t, f.favorites.toggles)
	assert.Equal(t, "Sign in to save favorites", f.app.statusMsg)
}

func TestFavoriteToggle(t *testing.T) {
	f := newFixture(t, true)

	f.key("f")
	assert.Equal(t, 1, f.favorites.toggles)
	assert.True(t, f.favorites.IsFavorite(content.KindMovie, "1"))
	assert.Contains(t, f.app.statusMsg, "Added Title 1")
}

func TestSearchRecordsRecentQuery(t *testing.T) {
	f := newFixture(t, false)

	f.send(common.SubmitSearchMsg{Query: "  dune "})
	assert.Equal(t, []string{"dune"}, f.catalog.searches)
	assert.Equal(t, []string{"dune"}, f.recent.queries)
	assert.Equal(t, content.ModeSearch, f.app.loader.Current().Type)
	require.Len(t, f.app.grid.Items(), 1)
	assert.Equal(t, "s1", f.app.grid.Items()[0].ID)
}

func TestUnknownGenreKeepsGrid(t *testing.T) {
	f := newFixture(t, false)
	before := f.app.loader.Current()

	f.send(common.SelectGenreMsg{Label: "Nope"})
	assert.Contains(t, f.app.statusMsg, "genre called Nope")
	assert.Equal(t, before, f.app.loader.Current())
	assert.Len(t, f.app.grid.Items(), 2)
}

func TestBackAndForward(t *testing.T) {
	f := newFixture(t, false)
	a := f.app

	f.key("2")
	assert.Equal(t, sectionTV, a.section)
	assert.Equal(t, content.KindTV, a.loader.Current().Kind)

	f.send(common.OpenDetailMsg{Item: item(content.KindTV, "1")})
	assert.Equal(t, detailView, a.state)

	f.key("alt+left")
	assert.Equal(t, browseView, a.state)
	assert.Equal(t, sectionTV, a.section)

	f.key("alt+left")
	assert.Equal(t, sectionMovies, a.section)
	assert.Equal(t, content.KindMovie, a.loader.Current().Kind)

	f.key("alt+right")
	assert.Equal(t, sectionTV, a.section)
	assert.Equal(t, content.KindTV, a.loader.Current().Kind)

	f.key("alt+right")
	assert.Equal(t, detailView, a.state)
	assert.Equal(t, "1", a.detail.Item().ID)
}

func TestBackStackIsBounded(t *testing.T) {
	f := newFixture(t, false)

	for i := 0; i < maxHistoryDepth+10; i++ {
		f.app.navigate(navEntry{state: browseView, section: sectionMovies, mode: content.Trending(content.KindMovie)})
	}
	assert.Len(t, f.app.back, maxHistoryDepth)
}

func TestDetailRecordsHistoryWhenSignedIn(t *testing.T) {
	f := newFixture(t, true)

	f.key("enter")
	assert.Equal(t, detailView, f.app.state)
	assert.Equal(t, []string{"movie-1"}, f.history.recorded)
	require.NotNil(t, f.app.detail.Detail())
}

func TestRatingFlow(t *testing.T) {
	f := newFixture(t, true)
	target := item(content.KindMovie, "1")

	f.send(common.OpenDetailMsg{Item: target})
	f.key("r")
	require.True(t, f.app.ratingModal.IsVisible())

	f.send(common.SubmitRatingMsg{Item: target, Rating: 8})
	require.Len(t, f.ratings.ratings, 1)
	assert.Equal(t, "★ Rating saved", f.app.statusMsg)
	require.NotNil(t, f.app.detail.Rating())
	assert.True(t, f.app.detail.Rating().HasRating)

	f.key("R")
	assert.True(t, f.app.confirm.IsVisible(), "delete asks first")
	assert.Empty(t, f.ratings.deleted)

	f.key("y")
	assert.Equal(t, []int{1}, f.ratings.deleted)
	assert.False(t, f.app.detail.Rating().HasRating)
}

func TestSignedOutRatingsPromptsSignIn(t *testing.T) {
	f := newFixture(t, false)

	f.key("6")
	assert.Equal(t, ratingsView, f.app.state)
	assert.Contains(t, tuitest.Plain(f.app.View()), "Sign in to see your ratings")
}

func TestHistoryRemovalIsOptimistic(t *testing.T) {
	f := newFixture(t, true)
	a := f.app

	f.key("5")
	require.Equal(t, sectionHistory, a.section)
	require.Len(t, a.grid.Items(), 2)

	_, cmd := a.Update(keyMsg("x"))
	msgs := exec(cmd)
	require.Len(t, msgs, 1)

	_, cmd = a.Update(msgs[0])
	assert.Len(t, a.grid.Items(), 1, "card leaves before the backend answers")
	assert.Empty(t, f.history.deleted)

	f.send(nil, cmd)
	assert.Equal(t, []int{11}, f.history.deleted)
}

func TestClearHistoryAsksFirst(t *testing.T) {
	f := newFixture(t, true)

	f.key("5")
	f.key("X")
	require.True(t, f.app.confirm.IsVisible())
	assert.Len(t, f.history.List(), 2)

	f.key("y")
	assert.Empty(t, f.history.List())
	assert.Empty(t, f.app.grid.Items())
}

func TestContextMenu(t *testing.T) {
	t.Run("keyboard opens on the selected card", func(t *testing.T) {
		f := newFixture(t, true)

		f.key("m")
		require.True(t, f.app.menu.IsOpen())
		spec := f.app.menu.Spec()
		assert.Equal(t, menu.TargetCard, spec.Target.Kind)
		assert.Equal(t, "1", spec.Target.Item.ID)
		assert.Contains(t, spec.Labels(), "Add to favorites")

		f.key("esc")
		assert.False(t, f.app.menu.IsOpen())
	})

	t.Run("wheel closes it", func(t *testing.T) {
		f := newFixture(t, false)

		f.send(click(tea.MouseButtonRight, 5, 2))
		require.True(t, f.app.menu.IsOpen())

		f.send(tea.MouseMsg{X: 5, Y: 2, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
		assert.False(t, f.app.menu.IsOpen())
	})

	t.Run("history card offers removal", func(t *testing.T) {
		f := newFixture(t, true)
		f.key("5")

		_, layout := f.app.browseTop()
		f.send(click(tea.MouseButtonRight, 1, layout.gridY+1))
		require.True(t, f.app.menu.IsOpen())
		spec := f.app.menu.Spec()
		assert.Equal(t, menu.TargetHistoryCard, spec.Target.Kind)
		assert.Equal(t, 11, spec.Target.HistoryID)
		assert.Contains(t, spec.Labels(), "Remove from history")
	})

	t.Run("tab gets a sidebar menu", func(t *testing.T) {
		f := newFixture(t, false)

		f.send(click(tea.MouseButtonRight, f.tabX(t, sectionFavorites), 0))
		require.True(t, f.app.menu.IsOpen())
		spec := f.app.menu.Spec()
		assert.Equal(t, menu.TargetSidebarItem, spec.Target.Kind)
		assert.Equal(t, "/favorites", spec.Target.Path)

		entry, ok := spec.Find("Copy link")
		require.True(t, ok)
		f.send(nil, entry.Handler(spec.Target))
		assert.Equal(t, []string{"http://localhost:3000/favorites"}, f.clipboard.copied)
	})
}

func TestLinkActions(t *testing.T) {
	f := newFixture(t, false)

	f.key("y")
	assert.Equal(t, []string{"http://localhost:3000/movies/1"}, f.clipboard.copied)
	assert.Equal(t, "📋 Link copied to clipboard", f.app.statusMsg)

	f.key("o")
	assert.Equal(t, []string{"http://localhost:3000/movies/1"}, f.opened)
}

func TestMouseNavigation(t *testing.T) {
	f := newFixture(t, false)

	f.send(click(tea.MouseButtonLeft, f.tabX(t, sectionAnime), 0))
	assert.Equal(t, sectionAnime, f.app.section)
	require.NotEmpty(t, f.app.grid.Items())

	_, layout := f.app.browseTop()
	f.send(click(tea.MouseButtonLeft, 1, layout.gridY+1))
	assert.Equal(t, detailView, f.app.state)
	assert.Equal(t, content.KindAnime, f.app.detail.Item().Kind)
}

func TestTypingInSearchIsNotAShortcut(t *testing.T) {
	f := newFixture(t, false)

	f.key("ctrl+k")
	require.True(t, f.app.search.Focused())

	for _, r := range "q2m" {
		f.key(string(r))
	}
	assert.Equal(t, "q2m", f.app.search.Value())
	assert.Equal(t, sectionMovies, f.app.section)
	assert.False(t, f.app.menu.IsOpen())
}

func TestLoginAndLogout(t *testing.T) {
	f := newFixture(t, false)

	f.key("L")
	require.True(t, f.app.showLogin)

	f.send(common.LoginMsg{Email: "ana@example.com", Password: "secret"})
	assert.False(t, f.app.showLogin)
	assert.True(t, f.app.signedIn())
	assert.True(t, strings.HasPrefix(f.app.statusMsg, "Signed in as ana"))

	f.key("L")
	assert.False(t, f.app.signedIn())
	assert.Equal(t, "Signed out", f.app.statusMsg)
}

func TestSignupFromLoginForm(t *testing.T) {
	f := newFixture(t, false)

	f.key("L")
	require.True(t, f.app.showLogin)

	f.send(common.SignupMsg{Email: "ana@example.com", Username: "ana", Password: "secret"})
	assert.True(t, f.app.showLogin)
	assert.False(t, f.app.signedIn())
	assert.Contains(t, tuitest.Plain(f.app.View()), "already registered")

	f.send(common.SignupMsg{Email: "bea@example.com", Username: "bea", Password: "secret"})
	assert.False(t, f.app.showLogin)
	assert.True(t, f.app.signedIn())
	assert.Equal(t, "Welcome, bea", f.app.statusMsg)
}

func TestAlertsReachStatusLine(t *testing.T) {
	f := newFixture(t, true)

	f.alerts.Alert("Could not update favorites")
	f.send(nil, f.app.listenForMessages())
	assert.Equal(t, "⚠ Could not update favorites", f.app.statusMsg)
}

func TestHeaderShowsSections(t *testing.T) {
	f := newFixture(t, true)

	header := tuitest.Plain(strings.SplitN(f.app.View(), "\n", 2)[0])
	for _, s := range sections {
		assert.Contains(t, header, s.label)
	}
	assert.Contains(t, header, "ana")
}
