package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mediamingle/mingle/internal/menu"
	"github.com/mediamingle/mingle/internal/tui/common"
)

// handleMouseMsg routes clicks, wheel and right-clicks. The open menu sees
// every event first and decides whether it is dismissed.
func (a *App) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.help.IsVisible() {
		var cmd tea.Cmd
		a.help, cmd = a.help.Update(msg)
		return a, cmd
	}

	if cmd, consumed := a.menu.HandleMouse(msg); consumed {
		return a, cmd
	}

	if a.confirm.IsVisible() || a.ratingModal.IsVisible() || a.filterPanel.IsVisible() || a.showLogin {
		return a, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return a.scroll(-1)
	case tea.MouseButtonWheelDown:
		return a.scroll(1)
	}
	if msg.Action != tea.MouseActionPress {
		return a, nil
	}

	switch msg.Button {
	case tea.MouseButtonLeft:
		return a.handleLeftClick(msg.X, msg.Y)
	case tea.MouseButtonRight:
		a.openMenuAt(msg.X, msg.Y)
	}
	return a, nil
}

// scroll moves the grid by rows or, elsewhere, the list under the pointer
func (a *App) scroll(rows int) (tea.Model, tea.Cmd) {
	if a.state == browseView {
		a.grid.Scroll(rows)
		return a, nil
	}
	key := tea.KeyMsg{Type: tea.KeyDown}
	if rows < 0 {
		key = tea.KeyMsg{Type: tea.KeyUp}
	}
	return a.handleViewKeys(key)
}

func (a *App) handleLeftClick(x, y int) (tea.Model, tea.Cmd) {
	if y < headerHeight {
		if s, ok := a.tabAt(x); ok {
			return a.switchSection(s)
		}
		return a, nil
	}
	if a.state != browseView {
		return a, nil
	}

	_, layout := a.browseTop()
	switch {
	case y == layout.moodsY:
		if i, ok := a.moods.HitTest(x); ok {
			return a, a.moods.Pick(i)
		}
		return a, nil
	case y == layout.genresY:
		if i, ok := a.genres.HitTest(x); ok {
			return a, a.genres.Pick(i)
		}
		return a, nil
	case y < layout.gridY:
		if y < headerHeight+lipgloss.Height(a.search.View()) {
			return a.focusSearch()
		}
		return a, nil
	}

	if i, ok := a.grid.HitTest(x, y-layout.gridY); ok {
		a.grid.Select(i)
		item := a.grid.Items()[i]
		return a, func() tea.Msg { return common.OpenDetailMsg{Item: item} }
	}
	return a, nil
}

// openMenuAt opens the context menu for whatever is under (x, y)
func (a *App) openMenuAt(x, y int) {
	viewport := menu.Size{Width: a.width, Height: a.height}
	at := menu.Point{X: x, Y: y}

	if y < headerHeight {
		if s, ok := a.tabAt(x); ok {
			a.menu.Open(at, sidebarTarget(s), viewport)
		}
		return
	}

	switch a.state {
	case detailView:
		a.menu.Open(at, menu.Target{Kind: menu.TargetDetail, Item: a.detail.Item()}, viewport)
		return
	case browseView:
		_, layout := a.browseTop()
		if y >= layout.gridY {
			if i, ok := a.grid.HitTest(x, y-layout.gridY); ok {
				a.grid.Select(i)
				a.menu.Open(at, a.cardTarget(i, a.grid.Items()[i]), viewport)
				return
			}
		}
	}
	a.menu.Open(at, menu.Target{Kind: menu.TargetPage}, viewport)
}

