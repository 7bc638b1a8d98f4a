package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/menu"
	"github.com/mediamingle/mingle/internal/tui/common"
)

// menuBuilder wires the context menu actions to App messages. Handlers only
// emit messages; the work happens in the normal update path.
func (a *App) menuBuilder() menu.Builder {
	return menu.Builder{
		Auth:      a.session,
		Favorites: a.favorites,
		Ratings:   a.ratings,
		Commands: menu.Commands{
			ViewDetails: func(t menu.Target) tea.Cmd {
				return emit(common.OpenDetailMsg{Item: t.Item})
			},
			ToggleFavorite: func(t menu.Target) tea.Cmd {
				return emit(common.ToggleFavoriteMsg{Item: t.Item})
			},
			CopyLink: func(t menu.Target) tea.Cmd {
				return a.targetLink(t, common.LinkCopy)
			},
			Share: func(t menu.Target) tea.Cmd {
				return a.targetLink(t, common.LinkShare)
			},
			OpenInNewTab: func(t menu.Target) tea.Cmd {
				return a.targetLink(t, common.LinkOpen)
			},
			Rate: func(t menu.Target) tea.Cmd {
				return emit(common.OpenRatingMsg{Item: t.Item})
			},
			RemoveFromHistory: func(t menu.Target) tea.Cmd {
				return emit(common.RemoveHistoryMsg{ID: t.HistoryID})
			},
			GoBack: func(menu.Target) tea.Cmd {
				return emit(common.BackMsg{})
			},
			Refresh: func(menu.Target) tea.Cmd {
				return emit(refreshMsg{})
			},
			FocusSearch: func(menu.Target) tea.Cmd {
				return emit(focusSearchMsg{})
			},
		},
	}
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// targetLink copies, shares or opens the page a menu target points at
func (a *App) targetLink(t menu.Target, action common.LinkAction) tea.Cmd {
	if t.Kind == menu.TargetSidebarItem {
		return a.linkAction(a.webURL(t.Path), action)
	}
	return a.itemLink(t.Item, action)
}

// cardTarget is the menu target for grid card i
func (a *App) cardTarget(i int, item content.ContentItem) menu.Target {
	if a.section == sectionHistory {
		if id, ok := a.historyIDAt(i); ok {
			return menu.Target{Kind: menu.TargetHistoryCard, Item: item, HistoryID: id}
		}
	}
	return menu.Target{Kind: menu.TargetCard, Item: item}
}

// sidebarTarget is the menu target for header tab s
func sidebarTarget(s section) menu.Target {
	return menu.Target{Kind: menu.TargetSidebarItem, Path: sections[s].path, Label: sections[s].label}
}
