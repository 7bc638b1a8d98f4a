package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediamingle/mingle/internal/clipboard"
	"github.com/mediamingle/mingle/internal/config"
	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/loader"
	"github.com/mediamingle/mingle/internal/menu"
	"github.com/mediamingle/mingle/internal/shortcuts"
	"github.com/mediamingle/mingle/internal/tui/common"
	"github.com/mediamingle/mingle/internal/tui/components/chips"
	"github.com/mediamingle/mingle/internal/tui/components/confirm"
	"github.com/mediamingle/mingle/internal/tui/components/detail"
	"github.com/mediamingle/mingle/internal/tui/components/filterpanel"
	"github.com/mediamingle/mingle/internal/tui/components/grid"
	"github.com/mediamingle/mingle/internal/tui/components/help"
	"github.com/mediamingle/mingle/internal/tui/components/login"
	"github.com/mediamingle/mingle/internal/tui/components/profile"
	"github.com/mediamingle/mingle/internal/tui/components/ratingmodal"
	"github.com/mediamingle/mingle/internal/tui/components/ratings"
	"github.com/mediamingle/mingle/internal/tui/components/searchbar"
)

type sessionState int

const (
	browseView sessionState = iota
	detailView
	ratingsView
	profileView
)

// section is a tab in the header, the terminal's sidebar
type section int

const (
	sectionMovies section = iota
	sectionTV
	sectionAnime
	sectionFavorites
	sectionHistory
	sectionRatings
	sectionProfile
)

var sections = []struct {
	label string
	path  string
}{
	{"Movies", "/movies"},
	{"TV Shows", "/tv"},
	{"Anime", "/anime"},
	{"Favorites", "/favorites"},
	{"History", "/history"},
	{"Ratings", "/ratings"},
	{"Profile", "/profile"},
}

// catalog reports whether the section browses a media kind
func (s section) catalog() bool { return s <= sectionAnime }

func (s section) kind() content.MediaKind {
	switch s {
	case sectionTV:
		return content.KindTV
	case sectionAnime:
		return content.KindAnime
	default:
		return content.KindMovie
	}
}

func sectionFor(kind content.MediaKind) section {
	switch kind {
	case content.KindTV:
		return sectionTV
	case content.KindAnime:
		return sectionAnime
	default:
		return sectionMovies
	}
}

// sectionForMode is the tab that shows mode
func sectionForMode(mode content.BrowsingMode) section {
	switch mode.Type {
	case content.ModeFavorites:
		return sectionFavorites
	case content.ModeHistory:
		return sectionHistory
	default:
		return sectionFor(mode.Kind)
	}
}

// clearStatusMsg expires the status line set at the given time
type clearStatusMsg struct{ at time.Time }

// channelMsg wraps a message that arrived on msgChan
type channelMsg struct{ msg tea.Msg }

// Messages raised by menu actions and confirmations
type (
	refreshMsg               struct{}
	focusSearchMsg           struct{}
	deleteRatingConfirmedMsg struct{ id int }
)

// App is the main application model
type App struct {
	state   sessionState
	section section
	back    []navEntry
	forward []navEntry

	cfg       *config.Config
	logger    *slog.Logger
	catalog   Catalog
	favorites FavoriteStore
	history   HistoryStore
	ratings   RatingStore
	social    SocialStore
	session   Auth
	recent    RecentSearches
	clipboard Clipboard
	openURL   func(string) error

	loader *loader.Loader
	router *shortcuts.Router
	menu   *menu.Dispatcher

	grid        grid.Model
	search      searchbar.Model
	moods       chips.Model
	genres      chips.Model
	detail      detail.Model
	ratingsView ratings.Model
	profileView profile.Model
	ratingModal ratingmodal.Model
	filterPanel filterpanel.Model
	loginForm   login.Model
	confirm     confirm.Model
	help        help.Model
	showLogin   bool

	// load is the latest accepted loader state; loadDone is set once the
	// final state for loadToken has arrived
	load      loader.State
	loadToken uint64
	loadDone  bool

	statusMsg     string
	statusMsgTime time.Time

	width  int
	height int

	msgChan chan tea.Msg
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewApp wires the components around deps
func NewApp(deps Deps) *App {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	msgChan := make(chan tea.Msg, 100)
	if deps.Alerts != nil {
		msgChan = deps.Alerts.ch
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		state:     browseView,
		section:   sectionMovies,
		cfg:       cfg,
		logger:    logger,
		catalog:   deps.Catalog,
		favorites: deps.Favorites,
		history:   deps.History,
		ratings:   deps.Ratings,
		social:    deps.Social,
		session:   deps.Session,
		recent:    deps.Recent,
		clipboard: deps.Clipboard,
		openURL:   deps.OpenURL,
		router:    shortcuts.NewRouter(shortcuts.DefaultKeyMap()),

		grid:        grid.New(cfg.Loader.SkeletonCells, cfg.UI.GridColumns),
		search:      searchbar.New(deps.Recent),
		moods:       chips.New("Mood", func(v string) tea.Msg { return common.SelectMoodMsg{Mood: v} }),
		genres:      chips.New("Genre", func(v string) tea.Msg { return common.SelectGenreMsg{Label: v} }),
		detail:      detail.New(),
		ratingsView: ratings.New(),
		profileView: profile.New(),
		ratingModal: ratingmodal.New(),
		filterPanel: filterpanel.New(),
		loginForm:   login.New(),
		confirm:     confirm.New(),
		help:        help.New(shortcuts.DefaultKeyMap()),

		msgChan: msgChan,
		ctx:     ctx,
		cancel:  cancel,
	}

	a.loader = loader.New(loader.Options{
		Catalog:   deps.Catalog,
		Favorites: deps.Favorites,
		History:   deps.History,
		Policy:    loader.PolicyFromConfig(cfg.Loader),
		Clock:     deps.Clock,
		Publish:   a.publish,
		Logger:    logger.With("component", "loader"),
	})
	a.menu = menu.New(a.menuBuilder())

	a.grid.SetFavoriteCheck(func(item content.ContentItem) bool {
		return a.signedIn() && a.favorites != nil && a.favorites.IsFavorite(item.Kind, item.ID)
	})
	a.setKindChips(content.KindMovie)
	a.syncUser()

	return a
}

// Close detaches the loader and cancels outstanding work
func (a *App) Close() {
	a.loader.Detach()
	a.cancel()
}

// publish receives intermediate loader states. It runs on the loading
// goroutine, so it only queues.
func (a *App) publish(s loader.State) {
	select {
	case a.msgChan <- common.LoaderStateMsg{State: s}:
	default:
		a.logger.Debug("dropped loader update", "token", s.Token, "status", s.Status.String())
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.listenForMessages(),
		a.startLoad(content.Trending(content.KindMovie)),
	)
}

// listenForMessages waits for the next message from background work
func (a *App) listenForMessages() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-a.msgChan:
			return channelMsg{msg}
		case <-a.ctx.Done():
			return nil
		}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := a.update(msg)
	a.layoutGrid()
	return model, cmd
}

func (a *App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case channelMsg:
		_, cmd := a.update(msg.msg)
		return a, tea.Batch(cmd, a.listenForMessages())

	case tea.WindowSizeMsg:
		return a.handleWindowSize(msg)
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)
	case tea.MouseMsg:
		return a.handleMouseMsg(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.loginForm, cmd = a.loginForm.Update(msg)
		return a, cmd

	case common.LoaderStateMsg:
		return a.handleLoaderState(msg)
	case common.AlertMsg:
		return a, a.setStatus("⚠ " + msg.Text)
	case common.StatusMsg:
		return a, a.setStatus(msg.Text)
	case clearStatusMsg:
		return a.handleClearStatusMsg(msg)
	case clipboard.CopiedMsg:
		return a.handleCopiedMsg(msg)
	case common.OpenURLMsg:
		return a.handleOpenURLMsg(msg)
	case common.CancelMsg:
		return a.handleCancelMsg()

	case common.SubmitSearchMsg:
		return a.handleSubmitSearchMsg(msg)
	case common.SearchBlurredMsg:
		a.search.Blur()
		return a, nil
	case common.ClearRecentSearchesMsg:
		return a.handleClearRecentSearchesMsg()
	case common.SelectMoodMsg:
		return a.handleSelectMoodMsg(msg)
	case common.SelectGenreMsg:
		return a.handleSelectGenreMsg(msg)
	case common.ApplyFilterMsg:
		return a.handleApplyFilterMsg(msg)
	case focusSearchMsg:
		return a.focusSearch()
	case refreshMsg:
		return a.refresh()

	case common.OpenDetailMsg:
		return a.navigate(navEntry{state: detailView, section: a.section, item: msg.Item})
	case common.DetailLoadedMsg:
		return a.handleDetailLoadedMsg(msg)
	case common.BackMsg:
		return a.goBack()
	case common.ViewProfileMsg:
		return a.handleViewProfileMsg(msg)

	case common.ToggleFavoriteMsg:
		return a.handleToggleFavoriteMsg(msg)
	case common.FavoriteToggledMsg:
		return a.handleFavoriteToggledMsg(msg)
	case common.OpenRatingMsg:
		return a.handleOpenRatingMsg(msg)
	case common.SubmitRatingMsg:
		return a.handleSubmitRatingMsg(msg)
	case common.RatingSavedMsg:
		return a.handleRatingSavedMsg(msg)
	case common.DeleteRatingMsg:
		a.confirm.Ask("Delete rating", "Remove your rating? This cannot be undone.", "Delete",
			deleteRatingConfirmedMsg{id: msg.ID})
		return a, nil
	case deleteRatingConfirmedMsg:
		return a.handleDeleteRating(msg.id)
	case common.RatingDeletedMsg:
		return a.handleRatingDeletedMsg(msg)
	case ratingLookupMsg:
		return a.handleRatingLookupMsg(msg)
	case common.RatingsLoadedMsg:
		a.ratingsView.SetData(msg)
		return a, nil
	case common.RatingQueryMsg:
		return a.handleRatingQueryMsg(msg)

	case common.RemoveHistoryMsg:
		return a.handleRemoveHistoryMsg(msg)
	case common.HistoryRemovedMsg:
		return a.handleHistoryRemovedMsg(msg)
	case common.ClearHistoryMsg:
		return a.handleClearHistoryMsg()
	case common.HistoryClearedMsg:
		return a.handleHistoryClearedMsg(msg)

	case common.ProfileLoadedMsg:
		a.profileView.SetData(msg)
		return a, nil
	case common.FollowMsg:
		return a.handleFollowMsg(msg)
	case common.FollowedMsg:
		return a.handleFollowedMsg(msg)

	case common.LoginMsg:
		return a.handleLoginMsg(msg)
	case common.SignupMsg:
		return a.handleSignupMsg(msg)
	case common.LoginResultMsg:
		return a.handleLoginResultMsg(msg)
	case common.LoggedOutMsg:
		return a.handleLoggedOutMsg()

	case common.LinkMsg:
		return a, a.itemLink(msg.Item, msg.Action)
	case common.OpenTrailerMsg:
		return a, a.open(msg.URL)
	}

	return a, nil
}

func (a *App) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height

	a.search.SetWidth(msg.Width)
	a.detail.SetSize(msg.Width, msg.Height-2)
	a.ratingsView.SetSize(msg.Width, msg.Height-2)
	a.profileView.SetSize(msg.Width, msg.Height-2)
	a.ratingModal.SetSize(msg.Width, msg.Height)
	a.filterPanel.SetSize(msg.Width, msg.Height)
	a.loginForm.SetSize(msg.Width, msg.Height)
	a.confirm.SetSize(msg.Width, msg.Height)

	var cmd tea.Cmd
	a.help, cmd = a.help.Update(msg)
	return a, cmd
}

// layoutGrid gives the grid whatever height the rows above it leave
func (a *App) layoutGrid() {
	if a.width == 0 {
		return
	}
	_, layout := a.browseTop()
	a.grid.SetSize(a.width, max(a.height-layout.gridY-footerHeight, grid.CardHeight))
}

// setStatus shows text in the footer for a few seconds
func (a *App) setStatus(text string) tea.Cmd {
	now := time.Now()
	a.statusMsg = text
	a.statusMsgTime = now
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{at: now}
	})
}

func (a *App) signedIn() bool {
	return a.session != nil && a.session.Authenticated()
}

// syncUser pushes the signed-in state to the components that show it
func (a *App) syncUser() {
	name := ""
	if a.signedIn() {
		if u := a.session.User(); u != nil {
			name = u.Username
		}
	}
	a.help.SetUser(name)
	a.detail.SetSignedIn(a.signedIn())
	a.profileView.SetSignedIn(a.signedIn())
	a.menu.SetBuilder(a.menuBuilder())
}

// inputFocused reports whether a text field owns plain keys
func (a *App) inputFocused() bool {
	switch {
	case a.search.Focused():
		return true
	case a.state == ratingsView && a.ratingsView.IsInputActive():
		return true
	case a.state == profileView && a.profileView.IsInputActive():
		return true
	}
	return false
}

// updateHelpContext points the help panel at the current view
func (a *App) updateHelpContext() {
	switch a.state {
	case detailView:
		a.help.SetContext(help.DetailContext)
	case ratingsView:
		a.help.SetContext(help.RatingsContext)
	case profileView:
		a.help.SetContext(help.ProfileContext)
	default:
		if a.section.catalog() {
			a.help.SetContext(help.BrowseContext)
		} else {
			a.help.SetContext(help.SavedContext)
		}
	}
}
