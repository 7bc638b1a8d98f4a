package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/loader"
	"github.com/mediamingle/mingle/internal/tui/common"
)

// startLoad shows the skeleton and runs mode. Intermediate states arrive on
// msgChan; the final one is the command's result.
func (a *App) startLoad(mode content.BrowsingMode) tea.Cmd {
	return a.runLoad(func(ctx context.Context) loader.State {
		return a.loader.Load(ctx, mode)
	})
}

// retryLoad reruns the most recent mode
func (a *App) retryLoad() tea.Cmd {
	return a.runLoad(a.loader.Retry)
}

func (a *App) runLoad(load func(context.Context) loader.State) tea.Cmd {
	a.grid.SetLoading(true)
	a.load.Status = loader.StatusLoading
	a.load.Message = ""
	a.load.CanRetry = false

	ctx := a.ctx
	return func() tea.Msg {
		return common.LoaderStateMsg{State: load(ctx), Final: true}
	}
}

// handleLoaderState applies a loader state unless a newer load has already
// reported. Within one load, nothing after the final state is applied.
func (a *App) handleLoaderState(msg common.LoaderStateMsg) (tea.Model, tea.Cmd) {
	s := msg.State
	if s.Stale || s.Token == 0 {
		return a, nil
	}
	switch {
	case s.Token > a.loadToken:
		a.loadToken = s.Token
		a.loadDone = msg.Final
	case s.Token == a.loadToken && !a.loadDone:
		a.loadDone = msg.Final
	default:
		return a, nil
	}

	a.load = s
	switch s.Status {
	case loader.StatusLoading:
		a.grid.SetLoading(true)
	default:
		a.grid.SetLoading(false)
		a.grid.SetItems(s.Items)
	}
	return a, nil
}

func (a *App) handleClearStatusMsg(msg clearStatusMsg) (tea.Model, tea.Cmd) {
	if msg.at.Equal(a.statusMsgTime) {
		a.statusMsg = ""
	}
	return a, nil
}

// handleCancelMsg closes the overlay that sent it
func (a *App) handleCancelMsg() (tea.Model, tea.Cmd) {
	switch {
	case a.ratingModal.IsVisible():
		a.ratingModal.Close()
	case a.filterPanel.IsVisible():
		a.filterPanel.Close()
	case a.showLogin:
		a.showLogin = false
	}
	return a, nil
}
