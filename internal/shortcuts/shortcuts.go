// Package shortcuts routes the application-wide key combinations. Only
// modifier combinations and Escape are global; plain keys always belong to
// whatever has focus.
package shortcuts

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a global command
type Action int

const (
	None Action = iota
	FocusSearch
	Back
	Forward
	CloseMenu
)

func (a Action) String() string {
	switch a {
	case FocusSearch:
		return "focus-search"
	case Back:
		return "back"
	case Forward:
		return "forward"
	case CloseMenu:
		return "close-menu"
	default:
		return "none"
	}
}

// KeyMap holds the global bindings
type KeyMap struct {
	FocusSearch key.Binding
	Back        key.Binding
	Forward     key.Binding
	CloseMenu   key.Binding
}

// DefaultKeyMap mirrors the browser shortcuts: ctrl+k, alt+arrows and esc
func DefaultKeyMap() KeyMap {
	return KeyMap{
		FocusSearch: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("ctrl+k", "search"),
		),
		Back: key.NewBinding(
			key.WithKeys("alt+left"),
			key.WithHelp("alt+←", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("alt+right"),
			key.WithHelp("alt+→", "forward"),
		),
		CloseMenu: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close menu"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.FocusSearch, k.Back, k.Forward}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.FocusSearch, k.Back, k.Forward, k.CloseMenu}}
}

// Router maps key presses to global actions
type Router struct {
	keys KeyMap
}

// NewRouter creates a router with keys
func NewRouter(keys KeyMap) *Router {
	return &Router{keys: keys}
}

// Keys returns the bindings, for help rendering
func (r *Router) Keys() KeyMap { return r.keys }

// Route reports the global action for msg. A plain printable key never
// routes while an input has focus, so typing is untouched; the default
// bindings all carry a modifier or are Escape.
func (r *Router) Route(msg tea.KeyMsg, inputFocused bool) (Action, bool) {
	if inputFocused && isPlain(msg) {
		return None, false
	}

	switch {
	case key.Matches(msg, r.keys.FocusSearch):
		return FocusSearch, true
	case key.Matches(msg, r.keys.Back):
		return Back, true
	case key.Matches(msg, r.keys.Forward):
		return Forward, true
	case key.Matches(msg, r.keys.CloseMenu):
		return CloseMenu, true
	}
	return None, false
}

// isPlain is true for unmodified printable input
func isPlain(msg tea.KeyMsg) bool {
	return (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) && !msg.Alt
}
