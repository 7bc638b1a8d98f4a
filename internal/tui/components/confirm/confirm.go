// Package confirm is the yes/no dialog shown before destructive actions.
package confirm

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mediamingle/mingle/internal/tui/common"
	"github.com/mediamingle/mingle/internal/tui/styles"
)

type Model struct {
	title   string
	message string
	confirm string
	onYes   tea.Msg
	yes     bool // focused button
	visible bool
	width   int
	height  int
}

func New() Model {
	return Model{}
}

// Ask opens the dialog; onYes is sent when the user confirms
func (m *Model) Ask(title, message, confirmLabel string, onYes tea.Msg) {
	m.title = title
	m.message = message
	m.confirm = confirmLabel
	m.onYes = onYes
	m.yes = false
	m.visible = true
}

// IsVisible reports whether the dialog is open
func (m Model) IsVisible() bool { return m.visible }

// SetSize sets the screen size the dialog centers in
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !m.visible || !ok {
		return m, nil
	}

	switch key.String() {
	case "left", "right", "h", "l", "tab":
		m.yes = !m.yes
	case "y", "Y":
		return m.answer(true)
	case "n", "N", "esc", "q":
		return m.answer(false)
	case "enter":
		return m.answer(m.yes)
	}
	return m, nil
}

func (m Model) answer(yes bool) (Model, tea.Cmd) {
	m.visible = false
	if !yes {
		return m, func() tea.Msg { return common.CancelMsg{} }
	}
	out := m.onYes
	return m, func() tea.Msg { return out }
}

func (m Model) View() string {
	if !m.visible {
		return ""
	}

	cancel := styles.ChipStyle.Render("Cancel")
	ok := styles.ChipStyle.Render(m.confirm)
	if m.yes {
		ok = lipgloss.NewStyle().Foreground(styles.OxocarbonWhite).Background(styles.OxocarbonRed).Padding(0, 1).Bold(true).Render(m.confirm)
	} else {
		cancel = styles.ChipSelectedStyle.Render("Cancel")
	}

	var b strings.Builder
	b.WriteString(styles.DangerStyle.Bold(true).Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.message)
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cancel, ok))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("y confirm • n/esc cancel"))

	box := styles.DangerPopupStyle.Width(50).Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
