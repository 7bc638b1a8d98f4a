// Package chips renders a row of selectable chips, used for the mood and
// quick-genre pickers above the grid.
package chips

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mediamingle/mingle/internal/tui/styles"
)

// Chip is one choice
type Chip struct {
	Value string
	Label string
}

type Model struct {
	title    string
	chips    []Chip
	selected string
	cursor   int
	focused  bool
	onSelect func(value string) tea.Msg
}

// New creates a chip row; onSelect builds the message sent on enter
func New(title string, onSelect func(value string) tea.Msg) Model {
	return Model{title: title, onSelect: onSelect}
}

// SetChips replaces the choices, keeping the selection if it still exists
func (m *Model) SetChips(chips []Chip) {
	m.chips = chips
	m.cursor = 0
	for i, c := range chips {
		if c.Value == m.selected {
			m.cursor = i
		}
	}
}

// SetSelected marks value as the active chip; "" selects none
func (m *Model) SetSelected(value string) { m.selected = value }

// Selected returns the active chip value
func (m Model) Selected() string { return m.selected }

// Focus gives the row the keyboard
func (m *Model) Focus() { m.focused = true }

// Blur returns the keyboard to the grid
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the row has the keyboard
func (m Model) Focused() bool { return m.focused }

// HitTest maps an x offset within the row to a chip index
func (m Model) HitTest(x int) (int, bool) {
	pos := lipgloss.Width(m.renderTitle())
	for i, c := range m.chips {
		w := lipgloss.Width(m.render(i, c))
		if x >= pos && x < pos+w {
			return i, true
		}
		pos += w
	}
	return 0, false
}

// Pick selects chip i and returns its message
func (m *Model) Pick(i int) tea.Cmd {
	if i < 0 || i >= len(m.chips) {
		return nil
	}
	m.cursor = i
	m.selected = m.chips[i].Value
	value, fn := m.selected, m.onSelect
	return func() tea.Msg { return fn(value) }
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused || len(m.chips) == 0 {
		return m, nil
	}

	switch key.String() {
	case "left", "h":
		m.cursor = (m.cursor - 1 + len(m.chips)) % len(m.chips)
	case "right", "l", "tab":
		m.cursor = (m.cursor + 1) % len(m.chips)
	case "enter", " ":
		m.focused = false
		cmd := m.Pick(m.cursor)
		return m, cmd
	case "esc":
		m.focused = false
	}
	return m, nil
}

func (m Model) View() string {
	parts := []string{m.renderTitle()}
	for i, c := range m.chips {
		parts = append(parts, m.render(i, c))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderTitle() string {
	return styles.MutedStyle.Render(m.title + " ")
}

func (m Model) render(i int, c Chip) string {
	style := styles.ChipStyle
	if c.Value == m.selected {
		style = styles.ChipSelectedStyle
	}
	if m.focused && i == m.cursor {
		style = style.Underline(true)
	}
	return style.Render(c.Label)
}
