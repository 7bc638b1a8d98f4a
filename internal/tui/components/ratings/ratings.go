// Package ratings is the overview of the signed-in user's ratings: stats,
// kind filter, sort order and a fuzzy title filter.
package ratings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/tui/common"
	"github.com/mediamingle/mingle/internal/tui/styles"
	"github.com/mediamingle/mingle/internal/tui/utils"
	"github.com/mediamingle/mingle/internal/userdata"
)

var sortOrder = []string{userdata.SortRatedAt, userdata.SortRating, userdata.SortTitle}

// Model represents the ratings overview
type Model struct {
	ratings      []userdata.Rating
	stats        *userdata.Stats
	query        userdata.RatingQuery
	currentIndex int
	ready        bool
	err          error

	width  int
	height int

	fuzzy *common.FuzzyFilter
	keys  KeyMap
}

// KeyMap defines keybindings for the ratings view
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Back       key.Binding
	Filter     key.Binding
	AllKinds   key.Binding
	Movies     key.Binding
	TV         key.Binding
	Anime      key.Binding
	CycleSort  key.Binding
	MoreStars  key.Binding
	FewerStars key.Binding
	Edit       key.Binding
	Delete     key.Binding
}

// DefaultKeyMap returns default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Back:       key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		AllKinds:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "all")),
		Movies:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "movies")),
		TV:         key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "tv")),
		Anime:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "anime")),
		CycleSort:  key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sort")),
		MoreStars:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "min rating up")),
		FewerStars: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "min rating down")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:     key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
	}
}

// New creates an empty overview
func New() Model {
	return Model{
		query: userdata.RatingQuery{SortBy: userdata.SortRatedAt},
		fuzzy: common.NewFuzzyFilter(),
		keys:  DefaultKeyMap(),
	}
}

// SetSize sets the view area
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetLoading marks the list as reloading
func (m *Model) SetLoading() {
	m.ready = false
}

// SetData applies a finished load
func (m *Model) SetData(msg common.RatingsLoadedMsg) {
	m.ready = true
	m.err = msg.Err
	if msg.Err != nil {
		return
	}
	m.ratings = msg.Ratings
	if msg.Stats != nil {
		m.stats = msg.Stats
	}
	if m.currentIndex >= len(m.Filtered()) {
		m.currentIndex = max(len(m.Filtered())-1, 0)
	}
}

// SetQuery records the query the next load uses
func (m *Model) SetQuery(q userdata.RatingQuery) {
	m.query = q
}

// Query returns the active kind filter and sort order
func (m Model) Query() userdata.RatingQuery { return m.query }

// Filtered returns the ratings matching the fuzzy filter, best match first
func (m Model) Filtered() []userdata.Rating {
	titles := make([]string, len(m.ratings))
	for i, r := range m.ratings {
		titles[i] = r.Title
	}
	idx := m.fuzzy.Filter(titles)
	out := make([]userdata.Rating, len(idx))
	for i, j := range idx {
		out[i] = m.ratings[j]
	}
	return out
}

// Selected returns the rating under the cursor
func (m Model) Selected() (userdata.Rating, bool) {
	filtered := m.Filtered()
	if m.currentIndex < 0 || m.currentIndex >= len(filtered) {
		return userdata.Rating{}, false
	}
	return filtered[m.currentIndex], true
}

// IsInputActive reports whether typing goes to the filter
func (m Model) IsInputActive() bool {
	return m.fuzzy.Editing()
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.fuzzy.Editing() {
		switch keyMsg.String() {
		case "esc", "enter":
			m.fuzzy.Lock()
			return m, nil
		}
		before := m.fuzzy.Query()
		cmd := m.fuzzy.Update(msg)
		if m.fuzzy.Query() != before {
			m.currentIndex = 0
		}
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.currentIndex > 0 {
			m.currentIndex--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.currentIndex < len(m.Filtered())-1 {
			m.currentIndex++
		}
	case key.Matches(keyMsg, m.keys.Select):
		if r, ok := m.Selected(); ok {
			item := r.Item()
			return m, func() tea.Msg { return common.OpenDetailMsg{Item: item} }
		}
	case key.Matches(keyMsg, m.keys.Back):
		if m.fuzzy.IsActive() {
			m.fuzzy.Deactivate()
			m.currentIndex = 0
			return m, nil
		}
		return m, func() tea.Msg { return common.BackMsg{} }
	case key.Matches(keyMsg, m.keys.Filter):
		return m, m.fuzzy.Activate()
	case key.Matches(keyMsg, m.keys.AllKinds):
		return m, m.requery(func(q *userdata.RatingQuery) { q.Kind = "" })
	case key.Matches(keyMsg, m.keys.Movies):
		return m, m.requery(func(q *userdata.RatingQuery) { q.Kind = content.KindMovie })
	case key.Matches(keyMsg, m.keys.TV):
		return m, m.requery(func(q *userdata.RatingQuery) { q.Kind = content.KindTV })
	case key.Matches(keyMsg, m.keys.Anime):
		return m, m.requery(func(q *userdata.RatingQuery) { q.Kind = content.KindAnime })
	case key.Matches(keyMsg, m.keys.CycleSort):
		return m, m.requery(func(q *userdata.RatingQuery) { q.SortBy = nextSort(q.SortBy) })
	case key.Matches(keyMsg, m.keys.MoreStars):
		return m, m.requery(func(q *userdata.RatingQuery) { q.MinRating = min(q.MinRating+1, 10) })
	case key.Matches(keyMsg, m.keys.FewerStars):
		return m, m.requery(func(q *userdata.RatingQuery) { q.MinRating = max(q.MinRating-1, 0) })
	case key.Matches(keyMsg, m.keys.Edit):
		if r, ok := m.Selected(); ok {
			item := r.Item()
			return m, func() tea.Msg { return common.OpenRatingMsg{Item: item} }
		}
	case key.Matches(keyMsg, m.keys.Delete):
		if r, ok := m.Selected(); ok {
			id := r.ID
			return m, func() tea.Msg { return common.DeleteRatingMsg{ID: id} }
		}
	}
	return m, nil
}

func (m *Model) requery(change func(*userdata.RatingQuery)) tea.Cmd {
	q := m.query
	change(&q)
	if q == m.query {
		return nil
	}
	m.query = q
	m.currentIndex = 0
	return func() tea.Msg { return common.RatingQueryMsg{Query: q} }
}

func nextSort(current string) string {
	for i, s := range sortOrder {
		if s == current {
			return sortOrder[(i+1)%len(sortOrder)]
		}
	}
	return sortOrder[0]
}

// View renders the overview
func (m Model) View() string {
	var content strings.Builder

	content.WriteString(styles.TitleStyle.Render("  My Ratings  "))
	content.WriteString("\n")
	content.WriteString(m.statsLine())
	content.WriteString("\n")
	content.WriteString(styles.MetadataStyle.Render("  " + m.queryLine()))
	content.WriteString("\n")

	if m.fuzzy.IsActive() {
		content.WriteString("\n  " + m.fuzzy.View() + "\n")
	}
	content.WriteString("\n")

	filtered := m.Filtered()
	switch {
	case !m.ready:
		content.WriteString(styles.MutedStyle.Render("  Loading ratings..."))
	case errors.Is(m.err, userdata.ErrNotAuthenticated):
		content.WriteString(styles.SubtitleStyle.Render("  Sign in to see your ratings. Press L to sign in."))
	case m.err != nil:
		content.WriteString(styles.DangerStyle.Render("  Failed to load ratings. Press ctrl+r to retry."))
	case len(filtered) == 0 && m.fuzzy.Query() != "":
		content.WriteString(styles.SubtitleStyle.Render("  No ratings match your filter."))
	case len(filtered) == 0:
		content.WriteString(styles.SubtitleStyle.Render("  You have not rated anything yet. Open a title and press r."))
	default:
		start, end := m.visibleRange(len(filtered))
		for i := start; i < end; i++ {
			content.WriteString(m.renderRating(filtered[i], i == m.currentIndex))
			content.WriteString("\n")
		}
	}

	help := "  ↑/↓ nav • enter details • e edit • x delete • / filter • 0/a/v/n kind • S sort • +/- min • esc back"
	if m.fuzzy.Editing() {
		help = "  Type to filter • enter/esc lock"
	}
	return content.String() + "\n" + styles.HelpStyle.Render(help)
}

func (m Model) statsLine() string {
	if m.stats == nil {
		return ""
	}
	parts := []string{
		fmt.Sprintf("%d rated", m.stats.TotalRatings),
		fmt.Sprintf("avg %.1f", m.stats.AverageRating),
	}
	if h := m.stats.HighestRated; h != nil {
		parts = append(parts, fmt.Sprintf("best %s (%.0f)", h.Title, h.Rating))
	}
	if l := m.stats.LowestRated; l != nil {
		parts = append(parts, fmt.Sprintf("lowest %s (%.0f)", l.Title, l.Rating))
	}
	return styles.SubtitleStyle.Render("  " + strings.Join(parts, " • "))
}

func (m Model) queryLine() string {
	kind := "All kinds"
	if m.query.Kind != "" {
		kind = m.query.Kind.Label()
	}
	sortText := map[string]string{
		userdata.SortRatedAt: "Recently rated",
		userdata.SortRating:  "Highest rating",
		userdata.SortTitle:   "Title",
	}[m.query.SortBy]
	line := kind + " • " + sortText
	if m.query.MinRating > 0 {
		line += fmt.Sprintf(" • %.0f+", m.query.MinRating)
	}
	return line
}

func (m Model) visibleRange(total int) (int, int) {
	maxVisible := 5
	if m.height > 0 {
		maxVisible = max((m.height-10)/3, 1)
	}
	if total <= maxVisible {
		return 0, total
	}

	start := max(m.currentIndex-maxVisible/2, 0)
	end := start + maxVisible
	if end > total {
		end = total
		start = max(end-maxVisible, 0)
	}
	return start, end
}

func (m Model) renderRating(r userdata.Rating, selected bool) string {
	style := styles.NormalItemStyle
	titleStyle := styles.CardTitleStyle
	if selected {
		style = styles.SelectedItemStyle
		titleStyle = titleStyle.Foreground(styles.OxocarbonPurple)
	}

	width := max(m.width-10, 30)
	title := titleStyle.Render(utils.TruncateWithWidth(r.Title, width))
	meta := utils.Stars(r.Rating) + styles.MetadataStyle.Render(fmt.Sprintf(" %.0f/10 • ", r.Rating)) +
		styles.KindBadge(r.Kind())
	if !r.RatedAt.IsZero() {
		meta += styles.MutedStyle.Render(" • " + humanize.Time(r.RatedAt.Time))
	}

	lines := []string{title, meta}
	if r.Review != nil && *r.Review != "" {
		lines = append(lines, styles.MutedStyle.Render(utils.TruncateWithWidth("“"+*r.Review+"”", width)))
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
