package help

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mediamingle/mingle/internal/shortcuts"
	"github.com/mediamingle/mingle/internal/tui/styles"
)

// HelpContext represents which view the help is being shown in
type HelpContext int

const (
	GlobalContext HelpContext = iota
	BrowseContext
	SavedContext
	DetailContext
	RatingsContext
	ProfileContext
)

// Shortcut represents a keyboard shortcut with its description
type Shortcut struct {
	Key         string
	Description string
	Context     []HelpContext
}

// Model represents the help panel state
type Model struct {
	context      HelpContext
	keys         shortcuts.KeyMap
	width        int
	height       int
	visible      bool
	user         string
	scrollOffset int
}

var allShortcuts = []Shortcut{
	{Key: "↑/↓/←/→ hjkl", Description: "Move", Context: []HelpContext{GlobalContext}},
	{Key: "enter", Description: "Open details", Context: []HelpContext{GlobalContext}},
	{Key: "m", Description: "Context menu (or right click)", Context: []HelpContext{GlobalContext}},
	{Key: "1-7", Description: "Switch section", Context: []HelpContext{GlobalContext}},
	{Key: "L", Description: "Sign in / sign out", Context: []HelpContext{GlobalContext}},
	{Key: "q", Description: "Quit application", Context: []HelpContext{GlobalContext}},
	{Key: "?", Description: "Show/hide this help", Context: []HelpContext{GlobalContext}},

	{Key: "/", Description: "Search", Context: []HelpContext{BrowseContext}},
	{Key: "M", Description: "Pick a mood", Context: []HelpContext{BrowseContext}},
	{Key: "c", Description: "Pick a genre", Context: []HelpContext{BrowseContext}},
	{Key: "F", Description: "Advanced filters", Context: []HelpContext{BrowseContext}},
	{Key: "x", Description: "Clear mood, genre, filter and search", Context: []HelpContext{BrowseContext}},
	{Key: "f", Description: "Toggle favorite", Context: []HelpContext{BrowseContext, SavedContext, DetailContext}},
	{Key: "y", Description: "Copy link", Context: []HelpContext{BrowseContext, SavedContext, DetailContext}},
	{Key: "s", Description: "Share", Context: []HelpContext{BrowseContext, SavedContext, DetailContext}},
	{Key: "o", Description: "Open in browser", Context: []HelpContext{BrowseContext, SavedContext, DetailContext}},
	{Key: "ctrl+r", Description: "Refresh / retry", Context: []HelpContext{BrowseContext, SavedContext, RatingsContext, ProfileContext}},

	{Key: "x", Description: "Remove from history", Context: []HelpContext{SavedContext}},
	{Key: "X", Description: "Clear all history", Context: []HelpContext{SavedContext}},

	{Key: "r", Description: "Rate / update rating", Context: []HelpContext{DetailContext}},
	{Key: "R", Description: "Delete rating", Context: []HelpContext{DetailContext}},
	{Key: "t", Description: "Watch trailer", Context: []HelpContext{DetailContext}},
	{Key: "esc", Description: "Back", Context: []HelpContext{DetailContext, RatingsContext, ProfileContext}},

	{Key: "/", Description: "Filter ratings", Context: []HelpContext{RatingsContext}},
	{Key: "0", Description: "Show all kinds", Context: []HelpContext{RatingsContext}},
	{Key: "a/v/n", Description: "Movies / TV / anime only", Context: []HelpContext{RatingsContext}},
	{Key: "S", Description: "Cycle sort order", Context: []HelpContext{RatingsContext}},
	{Key: "+/-", Description: "Raise/lower minimum rating", Context: []HelpContext{RatingsContext}},
	{Key: "e", Description: "Edit rating", Context: []HelpContext{RatingsContext}},
	{Key: "x", Description: "Delete rating", Context: []HelpContext{RatingsContext}},

	{Key: "tab", Description: "Next section", Context: []HelpContext{ProfileContext}},
	{Key: "u", Description: "Look up a user", Context: []HelpContext{ProfileContext}},
	{Key: "f", Description: "Follow / unfollow", Context: []HelpContext{ProfileContext}},
	{Key: "p", Description: "Back to my profile", Context: []HelpContext{ProfileContext}},
}

// New creates a new help model
func New(keys shortcuts.KeyMap) Model {
	return Model{context: GlobalContext, keys: keys}
}

// SetUser shows who is signed in; empty means signed out
func (m *Model) SetUser(name string) {
	m.user = name
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles size changes and scrolling while visible
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if !m.visible {
			return m, nil
		}
		switch msg.String() {
		case "up", "k":
			if m.scrollOffset > 0 {
				m.scrollOffset--
			}
		case "down", "j":
			m.scrollOffset++
		case "pgup", "b":
			m.scrollOffset = max(0, m.scrollOffset-10)
		case "pgdown", " ":
			m.scrollOffset += 10
		case "home", "g":
			m.scrollOffset = 0
		}
	case tea.MouseMsg:
		if !m.visible {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollOffset = max(0, m.scrollOffset-1)
		case tea.MouseButtonWheelDown:
			m.scrollOffset++
		}
	}
	return m, nil
}

// View renders the help panel
func (m Model) View() string {
	if !m.visible || m.width == 0 || m.height == 0 {
		return ""
	}

	var content strings.Builder

	account := "Not signed in"
	if m.user != "" {
		account = "Signed in as " + m.user
	}
	content.WriteString(lipgloss.NewStyle().Foreground(styles.OxocarbonPurple).Bold(true).Width(60).Align(lipgloss.Center).Render(account))
	content.WriteString("\n")
	content.WriteString(lipgloss.NewStyle().Width(60).Align(lipgloss.Center).Render(
		styles.HelpStyle.Render("↑/↓ j/k scroll • space/b page • esc/? close")))
	content.WriteString("\n")

	content.WriteString(styles.HeaderStyle.Render("Anywhere"))
	content.WriteString("\n")
	for _, group := range m.keys.FullHelp() {
		for _, b := range group {
			content.WriteString(renderShortcutLine(Shortcut{Key: b.Help().Key, Description: b.Help().Desc}))
			content.WriteString("\n")
		}
	}
	for _, sc := range filterBySpecificContext(allShortcuts, GlobalContext) {
		content.WriteString(renderShortcutLine(sc))
		content.WriteString("\n")
	}

	if specific := filterBySpecificContext(allShortcuts, m.context); m.context != GlobalContext && len(specific) > 0 {
		content.WriteString("\n")
		content.WriteString(styles.HeaderStyle.Render(m.contextName() + " Actions"))
		content.WriteString("\n")
		for _, sc := range specific {
			content.WriteString(renderShortcutLine(sc))
			content.WriteString("\n")
		}
	}

	lines := strings.Split(strings.TrimRight(content.String(), "\n"), "\n")

	available := max(m.height-6, 10)
	total := len(lines)
	offset := m.scrollOffset
	if offset > total-available {
		offset = total - available
	}
	if offset < 0 {
		offset = 0
	}
	end := min(offset+available, total)

	scrollInfo := ""
	if total > available {
		scrollInfo = fmt.Sprintf(" (%d-%d/%d)", offset+1, end, total)
	}

	boxWidth := 64
	if m.width < boxWidth+4 {
		boxWidth = max(m.width-4, 40)
	}

	titleBar := lipgloss.NewStyle().
		Foreground(styles.OxocarbonWhite).
		Background(styles.OxocarbonPurple).
		Padding(0, 2).
		Bold(true).
		Width(boxWidth - 4).
		Align(lipgloss.Center).
		Render("KEYBOARD SHORTCUTS" + scrollInfo)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OxocarbonPurple).
		Padding(0, 2).
		Width(boxWidth).
		Render(titleBar + "\n\n" + strings.Join(lines[offset:end], "\n"))

	if lipgloss.Height(box) >= m.height {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// SetContext sets the current help context
func (m *Model) SetContext(ctx HelpContext) {
	m.context = ctx
}

// Toggle toggles the visibility of the help panel
func (m *Model) Toggle() {
	if m.visible {
		m.Hide()
	} else {
		m.Show()
	}
}

// Show shows the help panel
func (m *Model) Show() {
	m.visible = true
	m.scrollOffset = 0
}

// Hide hides the help panel
func (m *Model) Hide() {
	m.visible = false
	m.scrollOffset = 0
}

// IsVisible returns whether the help panel is visible
func (m Model) IsVisible() bool {
	return m.visible
}

func renderShortcutLine(sc Shortcut) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.OxocarbonPurple).
		Bold(true).
		Width(18)
	descStyle := lipgloss.NewStyle().
		Foreground(styles.OxocarbonBase05)
	return "  " + keyStyle.Render(sc.Key) + descStyle.Render(sc.Description)
}

func (m Model) contextName() string {
	switch m.context {
	case BrowseContext:
		return "Browse"
	case SavedContext:
		return "Favorites & History"
	case DetailContext:
		return "Details"
	case RatingsContext:
		return "Ratings"
	case ProfileContext:
		return "Profile"
	default:
		return ""
	}
}

// filterBySpecificContext returns the shortcuts tagged with ctx
func filterBySpecificContext(shortcuts []Shortcut, ctx HelpContext) []Shortcut {
	var filtered []Shortcut
	for _, sc := range shortcuts {
		for _, c := range sc.Context {
			if c == ctx {
				filtered = append(filtered, sc)
				break
			}
		}
	}
	return filtered
}
