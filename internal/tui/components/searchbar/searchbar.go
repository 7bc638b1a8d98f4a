// Package searchbar is the query field above the grid with its recent-search
// suggestions.
package searchbar

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/tui/common"
	"github.com/mediamingle/mingle/internal/tui/styles"
)

// MaxSuggestions is how many recent searches the dropdown shows
const MaxSuggestions = 5

// Suggester ranks recent queries; *searchhistory.Cache satisfies it
type Suggester interface {
	Suggest(prefix string, n int) []string
}

type Model struct {
	textInput   textinput.Model
	recent      Suggester
	suggestions []string
	cursor      int // -1 while the typed text is selected
	kind        content.MediaKind
	width       int
}

func New(recent Suggester) Model {
	ti := textinput.New()
	ti.Prompt = "⌕ "
	ti.CharLimit = 200
	ti.Width = 60

	ti.PromptStyle = lipgloss.NewStyle().Foreground(styles.OxocarbonPurple)
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.OxocarbonBase05)
	ti.PlaceholderStyle = styles.MutedStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.OxocarbonPurple)

	m := Model{textInput: ti, recent: recent, cursor: -1, kind: content.KindMovie}
	m.SetKind(content.KindMovie)
	return m
}

// SetKind updates the placeholder for the active tab
func (m *Model) SetKind(kind content.MediaKind) {
	m.kind = kind
	m.textInput.Placeholder = "Search " + strings.ToLower(kind.Label()) + "... (ctrl+k)"
}

// SetWidth sets the width available to the bar
func (m *Model) SetWidth(width int) {
	m.width = width
	if width > 10 {
		m.textInput.Width = width - 8
	}
}

// Focus starts editing and shows the recent searches
func (m *Model) Focus() tea.Cmd {
	m.refresh()
	return m.textInput.Focus()
}

// Blur stops editing and hides the suggestions
func (m *Model) Blur() {
	m.textInput.Blur()
	m.suggestions = nil
	m.cursor = -1
}

// Focused reports whether the bar takes key input
func (m Model) Focused() bool {
	return m.textInput.Focused()
}

// SetValue replaces the query text
func (m *Model) SetValue(value string) {
	m.textInput.SetValue(value)
	m.textInput.CursorEnd()
}

// Value returns the query text
func (m Model) Value() string {
	return m.textInput.Value()
}

// Suggestions returns the visible recent searches
func (m Model) Suggestions() []string {
	return m.suggestions
}

// Refresh reloads the suggestions, e.g. after the recent list changed
func (m *Model) Refresh() {
	if m.Focused() {
		m.refresh()
	}
}

func (m *Model) refresh() {
	m.cursor = -1
	if m.recent == nil {
		m.suggestions = nil
		return
	}
	m.suggestions = m.recent.Suggest(m.textInput.Value(), MaxSuggestions)
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles keys while focused
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.Focused() {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "enter":
		query := m.textInput.Value()
		if m.cursor >= 0 && m.cursor < len(m.suggestions) {
			query = m.suggestions[m.cursor]
			m.textInput.SetValue(query)
		}
		m.Blur()
		return m, func() tea.Msg { return common.SubmitSearchMsg{Query: query} }
	case "esc":
		m.Blur()
		return m, func() tea.Msg { return common.SearchBlurredMsg{} }
	case "down", "ctrl+n":
		if m.cursor < len(m.suggestions)-1 {
			m.cursor++
		}
		return m, nil
	case "up", "ctrl+p":
		if m.cursor >= 0 {
			m.cursor--
		}
		return m, nil
	case "ctrl+x":
		m.suggestions = nil
		m.cursor = -1
		return m, func() tea.Msg { return common.ClearRecentSearchesMsg{} }
	}

	before := m.textInput.Value()
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if m.textInput.Value() != before {
		m.refresh()
	}
	return m, cmd
}

func (m Model) View() string {
	style := styles.NormalItemStyle
	if m.Focused() {
		style = styles.SelectedItemStyle
	}
	bar := style.Render(m.textInput.View())
	if !m.Focused() || len(m.suggestions) == 0 {
		return bar
	}

	lines := []string{styles.MutedStyle.Render("  Recent searches")}
	for i, s := range m.suggestions {
		if i == m.cursor {
			lines = append(lines, styles.SelectedItemStyle.Render("↺ "+s))
		} else {
			lines = append(lines, styles.NormalItemStyle.Render("↺ "+s))
		}
	}
	lines = append(lines, styles.HelpStyle.Render("  ↑/↓ pick • enter search • ctrl+x clear recent • esc close"))
	return bar + "\n" + strings.Join(lines, "\n")
}
