package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/tui/common"
	"github.com/mediamingle/mingle/internal/tui/components/chips"
)

// maxHistoryDepth bounds the back stack
const maxHistoryDepth = 50

// navEntry is one stop in the back/forward history
type navEntry struct {
	state   sessionState
	section section
	mode    content.BrowsingMode // browse
	item    content.ContentItem  // detail
	user    string               // profile; "" is the signed-in user
}

// current describes where the App is now
func (a *App) current() navEntry {
	e := navEntry{state: a.state, section: a.section}
	switch a.state {
	case browseView:
		e.mode = a.loader.Current()
	case detailView:
		e.item = a.detail.Item()
	case profileView:
		if !a.profileView.Own() {
			e.user = a.profileView.Username()
		}
	}
	return e
}

// navigate records the current view and moves to e
func (a *App) navigate(e navEntry) (tea.Model, tea.Cmd) {
	a.back = append(a.back, a.current())
	if len(a.back) > maxHistoryDepth {
		a.back = a.back[1:]
	}
	a.forward = nil
	return a, a.apply(e)
}

func (a *App) goBack() (tea.Model, tea.Cmd) {
	if len(a.back) == 0 {
		if a.state == browseView {
			return a, nil
		}
		mode := a.loader.Current()
		return a, a.apply(navEntry{state: browseView, section: sectionForMode(mode), mode: mode})
	}
	prev := a.back[len(a.back)-1]
	a.back = a.back[:len(a.back)-1]
	a.forward = append(a.forward, a.current())
	return a, a.apply(prev)
}

func (a *App) goForward() (tea.Model, tea.Cmd) {
	if len(a.forward) == 0 {
		return a, nil
	}
	next := a.forward[len(a.forward)-1]
	a.forward = a.forward[:len(a.forward)-1]
	a.back = append(a.back, a.current())
	return a, a.apply(next)
}

// apply shows e and starts whatever load it needs
func (a *App) apply(e navEntry) tea.Cmd {
	a.menu.Close()
	a.search.Blur()
	a.moods.Blur()
	a.genres.Blur()
	a.state = e.state
	a.section = e.section

	switch e.state {
	case detailView:
		a.detail.Open(e.item)
		a.detail.SetSignedIn(a.signedIn())
		return tea.Batch(a.loadDetail(e.item), a.recordHistory(e.item))

	case ratingsView:
		a.ratingsView.SetLoading()
		return a.loadRatings(a.ratingsView.Query())

	case profileView:
		return a.showProfile(e.user)

	default:
		if e.section.catalog() {
			a.restoreSelection(e.mode)
		}
		return a.startLoad(e.mode)
	}
}

// restoreSelection brings the pickers back in line with mode
func (a *App) restoreSelection(mode content.BrowsingMode) {
	a.loader.SwitchKind(mode.Kind)
	a.setKindChips(mode.Kind)
	a.search.SetValue("")

	switch mode.Type {
	case content.ModeSearch:
		a.loader.SubmitSearch(mode.Query)
		a.search.SetValue(mode.Query)
	case content.ModeMood:
		a.loader.SelectMood(mode.Mood)
		a.moods.SetSelected(mode.Mood)
	case content.ModeGenre:
		a.loader.SelectGenre(mode.Genre)
		a.genres.SetSelected(mode.Genre)
	case content.ModeFilter:
		if _, err := a.loader.ApplyFilter(mode.Filter); err != nil {
			a.logger.Warn("could not restore filter", "error", err)
		}
	}
}

// setKindChips resets the pickers for kind
func (a *App) setKindChips(kind content.MediaKind) {
	a.search.SetKind(kind)

	moods := make([]chips.Chip, 0, len(content.Moods))
	for _, m := range content.Moods {
		moods = append(moods, chips.Chip{Value: m.Value, Label: m.Icon + " " + m.Label})
	}
	a.moods.SetSelected("")
	a.moods.SetChips(moods)

	var genres []chips.Chip
	for _, label := range content.QuickGenres(kind) {
		genres = append(genres, chips.Chip{Value: label, Label: label})
	}
	a.genres.SetSelected("")
	a.genres.SetChips(genres)
}

// switchSection handles the 1-7 keys and tab clicks
func (a *App) switchSection(s section) (tea.Model, tea.Cmd) {
	switch {
	case s.catalog():
		return a.navigate(navEntry{state: browseView, section: s, mode: a.loader.SwitchKind(s.kind())})
	case s == sectionFavorites:
		return a.navigate(navEntry{state: browseView, section: s, mode: content.Favorites()})
	case s == sectionHistory:
		return a.navigate(navEntry{state: browseView, section: s, mode: content.History()})
	case s == sectionRatings:
		return a.navigate(navEntry{state: ratingsView, section: s})
	default:
		if !a.signedIn() {
			return a, a.setStatus("Sign in to see your profile")
		}
		return a.navigate(navEntry{state: profileView, section: s})
	}
}

// browseKind makes sure a catalog grid is showing before a picker is used
func (a *App) browseKind() tea.Cmd {
	if a.state == browseView && a.section.catalog() {
		return nil
	}
	kind := a.loader.Selection().Kind
	_, cmd := a.navigate(navEntry{state: browseView, section: sectionFor(kind), mode: content.Trending(kind)})
	return cmd
}

func (a *App) focusSearch() (tea.Model, tea.Cmd) {
	cmd := a.browseKind()
	a.moods.Blur()
	a.genres.Blur()
	return a, tea.Batch(cmd, a.search.Focus())
}

// refresh reloads the current view; on the grid it is the manual retry
func (a *App) refresh() (tea.Model, tea.Cmd) {
	switch a.state {
	case detailView:
		return a, a.loadDetail(a.detail.Item())
	case ratingsView:
		a.ratingsView.SetLoading()
		return a, a.loadRatings(a.ratingsView.Query())
	case profileView:
		e := a.current()
		return a, a.showProfile(e.user)
	default:
		return a, a.retryLoad()
	}
}

func (a *App) handleSubmitSearchMsg(msg common.SubmitSearchMsg) (tea.Model, tea.Cmd) {
	a.search.Blur()
	mode, ok := a.loader.SubmitSearch(msg.Query)
	if !ok {
		return a, nil
	}
	a.search.SetValue(mode.Query)

	_, cmd := a.navigate(navEntry{state: browseView, section: sectionFor(mode.Kind), mode: mode})
	return a, tea.Batch(cmd, a.recordSearch(mode.Query))
}

func (a *App) handleSelectMoodMsg(msg common.SelectMoodMsg) (tea.Model, tea.Cmd) {
	if !content.ValidMood(msg.Mood) {
		return a, nil
	}
	mode := a.loader.SelectMood(msg.Mood)
	return a.navigate(navEntry{state: browseView, section: sectionFor(mode.Kind), mode: mode})
}

func (a *App) handleSelectGenreMsg(msg common.SelectGenreMsg) (tea.Model, tea.Cmd) {
	mode, ok := a.loader.SelectGenre(msg.Label)
	if !ok {
		a.genres.SetSelected(a.loader.Selection().Genre)
		kind := a.loader.Selection().Kind
		return a, a.setStatus(fmt.Sprintf("No %s genre called %s", kind.Label(), msg.Label))
	}
	return a.navigate(navEntry{state: browseView, section: sectionFor(mode.Kind), mode: mode})
}

func (a *App) handleApplyFilterMsg(msg common.ApplyFilterMsg) (tea.Model, tea.Cmd) {
	mode, err := a.loader.ApplyFilter(msg.Spec)
	if err != nil {
		return a, a.setStatus("✗ " + err.Error())
	}
	return a.navigate(navEntry{state: browseView, section: sectionFor(mode.Kind), mode: mode})
}

// clearSelection drops mood, genre, filter and query
func (a *App) clearSelection() (tea.Model, tea.Cmd) {
	mode := a.loader.ClearSelection()
	return a.navigate(navEntry{state: browseView, section: sectionFor(mode.Kind), mode: mode})
}

// openFilter shows the filter panel seeded with the active filter
func (a *App) openFilter() tea.Cmd {
	cmd := a.browseKind()
	sel := a.loader.Selection()
	a.filterPanel.Open(sel.Kind, sel.Filter)
	return cmd
}

func (a *App) handleViewProfileMsg(msg common.ViewProfileMsg) (tea.Model, tea.Cmd) {
	if msg.Username == "" && !a.signedIn() {
		return a, a.setStatus("Sign in to see your profile")
	}
	if a.signedIn() {
		if u := a.session.User(); u != nil && msg.Username == u.Username {
			msg.Username = ""
		}
	}
	return a.navigate(navEntry{state: profileView, section: sectionProfile, user: msg.Username})
}
