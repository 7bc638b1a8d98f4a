// Package grid renders the main card grid, its loading skeleton and the
// featured banner above it.
package grid

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/tui/common"
	"github.com/mediamingle/mingle/internal/tui/styles"
	"github.com/mediamingle/mingle/internal/tui/utils"
)

const (
	// CardHeight is the rendered height of a card including its border
	CardHeight = 6
	minCardWidth = 22
	gap          = 1
)

type Model struct {
	items      []content.ContentItem
	loading    bool
	skeletons  int
	cursor     int
	offset     int // first visible row
	maxColumns int
	width      int
	height     int
	isFavorite func(content.ContentItem) bool
}

// New creates an empty grid. skeletons is how many placeholder cards show
// while loading; columns caps the column count (0 means fit the width).
func New(skeletons, columns int) Model {
	return Model{skeletons: skeletons, maxColumns: columns}
}

// SetSize sets the area the grid may use
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.keepCursorVisible()
}

// SetItems replaces the cards and moves the cursor to the first one
func (m *Model) SetItems(items []content.ContentItem) {
	m.items = items
	m.cursor = 0
	m.offset = 0
}

// SetLoading switches between the skeleton and the cards
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetFavoriteCheck installs the predicate used to mark favorite cards
func (m *Model) SetFavoriteCheck(fn func(content.ContentItem) bool) {
	m.isFavorite = fn
}

// Items returns the cards
func (m Model) Items() []content.ContentItem { return m.items }

// Loading reports whether the skeleton is showing
func (m Model) Loading() bool { return m.loading }

// Cursor returns the selected index
func (m Model) Cursor() int { return m.cursor }

// Selected returns the card under the cursor
func (m Model) Selected() (content.ContentItem, bool) {
	if m.loading || m.cursor < 0 || m.cursor >= len(m.items) {
		return content.ContentItem{}, false
	}
	return m.items[m.cursor], true
}

// Select moves the cursor to i
func (m *Model) Select(i int) {
	if i < 0 || i >= len(m.items) {
		return
	}
	m.cursor = i
	m.keepCursorVisible()
}

// Remove drops card i, keeping the cursor in range
func (m *Model) Remove(i int) {
	if i < 0 || i >= len(m.items) {
		return
	}
	m.items = append(m.items[:i:i], m.items[i+1:]...)
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.keepCursorVisible()
}

// Scroll moves the viewport by rows, dragging the cursor along
func (m *Model) Scroll(rows int) {
	m.offset += rows
	maxOffset := m.rowCount() - m.visibleRows()
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}

	cols := m.Columns()
	row := m.cursor / cols
	switch {
	case row < m.offset:
		m.cursor = m.offset*cols + m.cursor%cols
	case row >= m.offset+m.visibleRows():
		m.cursor = (m.offset+m.visibleRows()-1)*cols + m.cursor%cols
	}
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles grid navigation keys
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.loading || len(m.items) == 0 {
		return m, nil
	}

	cols := m.Columns()
	switch key.String() {
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case "down", "j":
		if m.cursor+cols < len(m.items) {
			m.cursor += cols
		} else if m.cursor/cols < (len(m.items)-1)/cols {
			m.cursor = len(m.items) - 1
		}
	case "pgdown":
		m.cursor = min(len(m.items)-1, m.cursor+cols*m.visibleRows())
	case "pgup":
		m.cursor = max(0, m.cursor-cols*m.visibleRows())
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.items) - 1
	case "enter":
		item := m.items[m.cursor]
		return m, func() tea.Msg { return common.OpenDetailMsg{Item: item} }
	default:
		return m, nil
	}
	m.keepCursorVisible()
	return m, nil
}

// Columns is how many cards fit on a row
func (m Model) Columns() int {
	cols := (m.width + gap) / (minCardWidth + gap)
	if m.maxColumns > 0 && cols > m.maxColumns {
		cols = m.maxColumns
	}
	return max(cols, 1)
}

// CardWidth is the outer width of one card
func (m Model) CardWidth() int {
	cols := m.Columns()
	return max((m.width-(cols-1)*gap)/cols, minCardWidth)
}

// HitTest maps a point relative to the grid's top-left corner to a card
func (m Model) HitTest(x, y int) (int, bool) {
	if m.loading || x < 0 || y < 0 {
		return 0, false
	}
	stride := m.CardWidth() + gap
	if x%stride >= m.CardWidth() {
		return 0, false
	}
	col := x / stride
	if col >= m.Columns() {
		return 0, false
	}
	row := y/CardHeight + m.offset
	if y/CardHeight >= m.visibleRows() {
		return 0, false
	}
	i := row*m.Columns() + col
	if i >= len(m.items) {
		return 0, false
	}
	return i, true
}

// CardOrigin is the top-left corner of card i relative to the grid, for
// anchoring a keyboard-opened menu. ok is false when i is scrolled away.
func (m Model) CardOrigin(i int) (x, y int, ok bool) {
	if i < 0 || i >= len(m.items) {
		return 0, 0, false
	}
	row := i/m.Columns() - m.offset
	if row < 0 || row >= m.visibleRows() {
		return 0, 0, false
	}
	return (i % m.Columns()) * (m.CardWidth() + gap), row * CardHeight, true
}

func (m Model) View() string {
	if m.loading {
		return m.skeletonView()
	}
	if len(m.items) == 0 {
		return ""
	}

	cols := m.Columns()
	var rows []string
	last := min(m.rowCount(), m.offset+m.visibleRows())
	for r := m.offset; r < last; r++ {
		var cards []string
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= len(m.items) {
				break
			}
			if c > 0 {
				cards = append(cards, strings.Repeat(" ", gap))
			}
			cards = append(cards, m.card(i))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	out := strings.Join(rows, "\n")
	if m.rowCount() > m.visibleRows() {
		out += "\n" + styles.MutedStyle.Render(fmt.Sprintf("  %d-%d of %d", m.offset*cols+1, min(last*cols, len(m.items)), len(m.items)))
	}
	return out
}

func (m Model) card(i int) string {
	item := m.items[i]
	inner := m.CardWidth() - 4

	title := styles.CardTitleStyle.Render(utils.Pad(item.Title, inner))

	meta := styles.ScoreStyle.Render("★ "+utils.Score(item.Rating)) + "  "
	if y := item.Year(); y > 0 {
		meta += styles.MetadataStyle.Render(fmt.Sprint(y))
	}

	badge := styles.KindBadge(item.Kind)
	if item.EpisodeCount != nil {
		badge += styles.MutedStyle.Render(fmt.Sprintf(" · %d eps", *item.EpisodeCount))
	}
	if m.isFavorite != nil && m.isFavorite(item) {
		badge += " " + lipgloss.NewStyle().Foreground(styles.OxocarbonPink).Render("♥")
	}

	synopsis := styles.MutedStyle.Render(utils.Pad(item.Synopsis(), inner))

	body := lipgloss.JoinVertical(lipgloss.Left, title, meta, badge, synopsis)
	style := styles.CardStyle
	if i == m.cursor {
		style = styles.CardSelectedStyle
	}
	return style.Width(m.CardWidth() - 2).Height(CardHeight - 2).Render(body)
}

func (m Model) skeletonView() string {
	cols := m.Columns()
	inner := m.CardWidth() - 4
	shades := []int{inner, inner * 2 / 3, inner / 2, inner * 3 / 4}

	var rows []string
	for start := 0; start < m.skeletons; start += cols {
		var cards []string
		for i := start; i < min(start+cols, m.skeletons); i++ {
			if i > start {
				cards = append(cards, strings.Repeat(" ", gap))
			}
			var lines []string
			for j, w := range shades {
				w = max(1, w-(i+j)%3)
				lines = append(lines, styles.SkeletonStyle.Render(strings.Repeat("░", w)))
			}
			cards = append(cards, styles.CardStyle.Width(m.CardWidth()-2).Height(CardHeight-2).Render(strings.Join(lines, "\n")))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
		if len(rows) >= m.visibleRows() {
			break
		}
	}
	return strings.Join(rows, "\n")
}

func (m Model) rowCount() int {
	cols := m.Columns()
	return (len(m.items) + cols - 1) / cols
}

func (m Model) visibleRows() int {
	return max(m.height/CardHeight, 1)
}

func (m *Model) keepCursorVisible() {
	if len(m.items) == 0 {
		return
	}
	row := m.cursor / m.Columns()
	if row < m.offset {
		m.offset = row
	}
	if row >= m.offset+m.visibleRows() {
		m.offset = row - m.visibleRows() + 1
	}
}

// Featured renders the hero banner for item
func Featured(item *content.ContentItem, width int) string {
	if item == nil || width < 20 {
		return ""
	}
	inner := width - 6

	label := styles.FeaturedLabelStyle.Render("FEATURED " + strings.ToUpper(featuredNoun(item.Kind)))
	title := styles.CardTitleStyle.Render(utils.TruncateWithWidth(item.Title, inner-lipgloss.Width(label)-1))

	meta := styles.ScoreStyle.Render("★ " + utils.Score(item.Rating))
	if y := item.Year(); y > 0 {
		meta += styles.MetadataStyle.Render(fmt.Sprintf("  %d", y))
	}
	if item.EpisodeCount != nil {
		meta += styles.MetadataStyle.Render(fmt.Sprintf("  %d episodes", *item.EpisodeCount))
	}

	body := []string{label + " " + title, meta}
	if s := item.Synopsis(); s != "" {
		body = append(body, styles.SynopsisStyle.Render(utils.TruncateToLines(s, 2, inner)))
	}
	return styles.FeaturedStyle.Width(width - 2).Render(strings.Join(body, "\n"))
}

func featuredNoun(kind content.MediaKind) string {
	switch kind {
	case content.KindMovie:
		return "Movie"
	case content.KindTV:
		return "Show"
	default:
		return "Anime"
	}
}
