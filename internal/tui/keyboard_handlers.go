package tui

// Key handling runs in layers: open menu, modals, global combos, the focused
// input, then single-key shortcuts of the current view.

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediamingle/mingle/internal/menu"
	"github.com/mediamingle/mingle/internal/shortcuts"
	"github.com/mediamingle/mingle/internal/tui/common"
)

// handleKeyMsg processes all keyboard input. Overlays take the keyboard
// first, then the global shortcuts, then whatever has focus.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		a.Close()
		return a, tea.Quit
	}

	// If help is visible, ONLY allow help navigation keys
	if a.help.IsVisible() {
		switch msg.String() {
		case "?", "esc", "q":
			a.help.Hide()
			return a, nil
		}
		var cmd tea.Cmd
		a.help, cmd = a.help.Update(msg)
		return a, cmd
	}

	if cmd, ok := a.menu.HandleKey(msg); ok {
		return a, cmd
	}

	if handled, cmd := a.handleOverlayKeys(msg); handled {
		return a, cmd
	}

	switch action, _ := a.router.Route(msg, a.inputFocused()); action {
	case shortcuts.FocusSearch:
		return a.focusSearch()
	case shortcuts.Back:
		return a.goBack()
	case shortcuts.Forward:
		return a.goForward()
	}

	if handled, cmd := a.handleFocusedInput(msg); handled {
		return a, cmd
	}

	if handled, cmd := a.handleGlobalKeys(msg); handled {
		return a, cmd
	}

	return a.handleViewKeys(msg)
}

// handleOverlayKeys gives the keyboard to the open modal, if any
func (a *App) handleOverlayKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case a.confirm.IsVisible():
		a.confirm, cmd = a.confirm.Update(msg)
	case a.ratingModal.IsVisible():
		a.ratingModal, cmd = a.ratingModal.Update(msg)
	case a.filterPanel.IsVisible():
		a.filterPanel, cmd = a.filterPanel.Update(msg)
	case a.showLogin:
		a.loginForm, cmd = a.loginForm.Update(msg)
	default:
		return false, nil
	}
	return true, cmd
}

// handleFocusedInput routes keys to a text field or chip row that owns them
func (a *App) handleFocusedInput(msg tea.KeyMsg) (bool, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case a.search.Focused():
		a.search, cmd = a.search.Update(msg)
	case a.moods.Focused():
		a.moods, cmd = a.moods.Update(msg)
	case a.genres.Focused():
		a.genres, cmd = a.genres.Update(msg)
	case a.state == ratingsView && a.ratingsView.IsInputActive():
		a.ratingsView, cmd = a.ratingsView.Update(msg)
	case a.state == profileView && a.profileView.IsInputActive():
		a.profileView, cmd = a.profileView.Update(msg)
	default:
		return false, nil
	}
	return true, cmd
}

// handleGlobalKeys handles the bindings that work in every view
func (a *App) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "?":
		a.updateHelpContext()
		a.help.Show()
		return true, nil
	case "ctrl+r":
		_, cmd := a.refresh()
		return true, cmd
	case "q":
		a.Close()
		return true, tea.Quit
	case "1", "2", "3", "4", "5", "6", "7":
		_, cmd := a.switchSection(section(msg.String()[0] - '1'))
		return true, cmd
	case "L":
		return true, a.toggleLogin()
	case "m":
		return true, a.openMenuAtSelection()
	}
	return false, nil
}

// handleViewKeys handles keys specific to the current view
func (a *App) handleViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.state {
	case detailView:
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd
	case ratingsView:
		a.ratingsView, cmd = a.ratingsView.Update(msg)
		return a, cmd
	case profileView:
		a.profileView, cmd = a.profileView.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "/":
		return a.focusSearch()
	case "M":
		cmd = a.browseKind()
		a.genres.Blur()
		a.moods.Focus()
		return a, cmd
	case "c":
		cmd = a.browseKind()
		a.moods.Blur()
		a.genres.Focus()
		return a, cmd
	case "F":
		return a, a.openFilter()
	case "x":
		if a.section == sectionHistory {
			if id, ok := a.historyIDAt(a.grid.Cursor()); ok {
				return a, func() tea.Msg { return common.RemoveHistoryMsg{ID: id} }
			}
			return a, nil
		}
		if a.section.catalog() {
			return a.clearSelection()
		}
		return a, nil
	case "X":
		if a.section == sectionHistory {
			a.askClearHistory()
		}
		return a, nil
	case "f":
		if item, ok := a.grid.Selected(); ok {
			return a, func() tea.Msg { return common.ToggleFavoriteMsg{Item: item} }
		}
		return a, nil
	case "y", "s", "o":
		if item, ok := a.grid.Selected(); ok {
			return a, a.itemLink(item, linkActionForKey(msg.String()))
		}
		return a, nil
	case "esc", "backspace":
		if len(a.back) > 0 {
			return a.goBack()
		}
		return a, nil
	}

	a.grid, cmd = a.grid.Update(msg)
	return a, cmd
}

func linkActionForKey(k string) common.LinkAction {
	switch k {
	case "s":
		return common.LinkShare
	case "o":
		return common.LinkOpen
	default:
		return common.LinkCopy
	}
}

// openMenuAtSelection opens the context menu for the keyboard, anchored on
// the selected card or the top of the view
func (a *App) openMenuAtSelection() tea.Cmd {
	viewport := menu.Size{Width: a.width, Height: a.height}
	switch a.state {
	case detailView:
		a.menu.Open(menu.Point{X: 2, Y: 2}, menu.Target{Kind: menu.TargetDetail, Item: a.detail.Item()}, viewport)
		return nil
	case browseView:
		if item, ok := a.grid.Selected(); ok {
			_, layout := a.browseTop()
			x, y, _ := a.grid.CardOrigin(a.grid.Cursor())
			a.menu.Open(menu.Point{X: x + 2, Y: layout.gridY + y + 1}, a.cardTarget(a.grid.Cursor(), item), viewport)
			return nil
		}
	}
	a.menu.Open(menu.Point{X: 2, Y: 2}, menu.Target{Kind: menu.TargetPage}, viewport)
	return nil
}
