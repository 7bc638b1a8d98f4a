// Package menu builds context menus for whatever is under the pointer and
// runs the single open menu: positioning, dismissal and action dispatch.
package menu

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediamingle/mingle/internal/content"
)

// TargetKind says what the menu was opened on
type TargetKind int

const (
	TargetCard TargetKind = iota
	TargetDetail
	TargetHistoryCard
	TargetPage
	TargetSidebarItem
)

// Target is the thing a menu acts on. Handlers receive the Target captured
// when the menu opened, not whatever is selected when they run.
type Target struct {
	Kind      TargetKind
	Item      content.ContentItem // card, detail and history targets
	HistoryID int                 // history targets
	Path      string              // sidebar targets, a web route such as "/tv"
	Label     string              // sidebar targets
}

// Handler runs an action. It returns at once; slow work goes in the tea.Cmd.
type Handler func(Target) tea.Cmd

// Entry is one row of a menu: an action or a divider
type Entry struct {
	Label    string
	Shortcut string
	Danger   bool
	Disabled bool
	Divider  bool
	Handler  Handler
}

// Divider separates groups of actions
func Divider() Entry { return Entry{Divider: true} }

// Selectable reports whether the entry can be invoked
func (e Entry) Selectable() bool {
	return !e.Divider && !e.Disabled && e.Handler != nil
}

// Spec is a built menu
type Spec struct {
	Target  Target
	Entries []Entry
}

// Labels lists action labels in order, dividers as "---"
func (s Spec) Labels() []string {
	out := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		if e.Divider {
			out[i] = "---"
			continue
		}
		out[i] = e.Label
	}
	return out
}

// Find returns the entry with label
func (s Spec) Find(label string) (Entry, bool) {
	for _, e := range s.Entries {
		if !e.Divider && e.Label == label {
			return e, true
		}
	}
	return Entry{}, false
}

// Auth reports whether a user is signed in
type Auth interface {
	Authenticated() bool
}

// FavoriteChecker is satisfied by *userdata.Favorites
type FavoriteChecker interface {
	IsFavorite(kind content.MediaKind, id string) bool
}

// RatingChecker is satisfied by *userdata.Ratings
type RatingChecker interface {
	Rated(kind content.MediaKind, id string) bool
}

// Commands holds the handlers the builder wires into menus. A nil handler
// leaves its action out.
type Commands struct {
	ViewDetails       Handler
	ToggleFavorite    Handler
	CopyLink          Handler
	Share             Handler
	OpenInNewTab      Handler
	Rate              Handler
	RemoveFromHistory Handler
	GoBack            Handler
	Refresh           Handler
	FocusSearch       Handler
}

// Builder computes the action set for a target. It reads auth, favorite and
// rating state at build time, so every Open sees current values.
type Builder struct {
	Auth      Auth
	Favorites FavoriteChecker
	Ratings   RatingChecker
	Commands  Commands
}

// Build returns the menu for t
func (b Builder) Build(t Target) Spec {
	var entries []Entry
	switch t.Kind {
	case TargetCard:
		entries = b.itemEntries(t, false, false)
	case TargetDetail:
		entries = b.itemEntries(t, true, false)
	case TargetHistoryCard:
		entries = b.itemEntries(t, false, true)
	case TargetPage:
		entries = b.pageEntries()
	case TargetSidebarItem:
		entries = compact([]Entry{
			b.action("Open in new tab", "", b.Commands.OpenInNewTab),
			b.action("Copy link", "", b.Commands.CopyLink),
		})
	}
	return Spec{Target: t, Entries: entries}
}

func (b Builder) itemEntries(t Target, detail, history bool) []Entry {
	signedIn := b.Auth != nil && b.Auth.Authenticated()

	entries := []Entry{b.action("View details", "enter", b.Commands.ViewDetails)}

	if history {
		remove := b.action("Remove from history", "x", b.Commands.RemoveFromHistory)
		remove.Danger = true
		entries = append(entries, remove)
	} else {
		label := "Add to favorites"
		if signedIn && b.Favorites != nil && b.Favorites.IsFavorite(t.Item.Kind, t.Item.ID) {
			label = "Remove from favorites"
		}
		fav := b.action(label, "f", b.Commands.ToggleFavorite)
		fav.Disabled = !signedIn
		entries = append(entries, fav)
	}

	if detail {
		label := "Rate"
		if signedIn && b.Ratings != nil && b.Ratings.Rated(t.Item.Kind, t.Item.ID) {
			label = "Update rating"
		}
		rate := b.action(label, "r", b.Commands.Rate)
		rate.Disabled = !signedIn
		entries = append(entries, rate)
	}

	entries = append(entries,
		Divider(),
		b.action("Copy link", "y", b.Commands.CopyLink),
		b.action("Share", "", b.Commands.Share),
		Divider(),
		b.action("Open in new tab", "o", b.Commands.OpenInNewTab),
	)
	return compact(entries)
}

func (b Builder) pageEntries() []Entry {
	return compact([]Entry{
		b.action("Go back", "alt+←", b.Commands.GoBack),
		b.action("Refresh", "ctrl+r", b.Commands.Refresh),
		b.action("Search", "ctrl+k", b.Commands.FocusSearch),
	})
}

func (b Builder) action(label, shortcut string, h Handler) Entry {
	return Entry{Label: label, Shortcut: shortcut, Handler: h}
}

// compact drops actions without handlers and the dividers left dangling
func compact(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Divider && e.Handler == nil {
			continue
		}
		if e.Divider && (len(out) == 0 || out[len(out)-1].Divider) {
			continue
		}
		out = append(out, e)
	}
	for len(out) > 0 && out[len(out)-1].Divider {
		out = out[:len(out)-1]
	}
	return out
}
