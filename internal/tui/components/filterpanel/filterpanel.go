// Package filterpanel is the advanced filter popup: year range, minimum
// rating, language, sort order, genres and (for anime) season.
package filterpanel

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/tui/common"
	"github.com/mediamingle/mingle/internal/tui/styles"
)

const (
	minYear    = 1900
	ratingStep = 0.5
)

type field int

const (
	fieldYearMin field = iota
	fieldYearMax
	fieldRating
	fieldLanguage
	fieldSeason
	fieldSort
	fieldGenres
)

type Model struct {
	kind        content.MediaKind
	spec        content.FilterSpec
	fields      []field
	cursor      int
	genres      []content.GenreOption
	genreCursor int
	errText     string
	visible     bool
	width       int
	height      int
}

func New() Model {
	return Model{}
}

// Open shows the panel for kind starting from spec, or the defaults if nil
func (m *Model) Open(kind content.MediaKind, spec *content.FilterSpec) {
	m.kind = kind
	if spec != nil {
		m.spec = *spec
		m.spec.Genres = slices.Clone(spec.Genres)
	} else {
		m.spec = content.DefaultFilter(kind)
	}
	m.genres = content.FilterGenres(kind)
	m.fields = []field{fieldYearMin, fieldYearMax, fieldRating}
	if kind == content.KindAnime {
		m.fields = append(m.fields, fieldSeason)
	} else {
		m.fields = append(m.fields, fieldLanguage)
	}
	m.fields = append(m.fields, fieldSort, fieldGenres)
	m.cursor = 0
	m.genreCursor = 0
	m.errText = ""
	m.visible = true
}

// Close hides the panel
func (m *Model) Close() { m.visible = false }

// IsVisible reports whether the panel is open
func (m Model) IsVisible() bool { return m.visible }

// Spec returns the edited filter
func (m Model) Spec() content.FilterSpec { return m.spec }

// SetSize sets the screen size the panel centers in
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !m.visible || !ok {
		return m, nil
	}

	m.errText = ""
	switch key.String() {
	case "esc":
		m.Close()
		return m, func() tea.Msg { return common.CancelMsg{} }
	case "up", "k", "shift+tab":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j", "tab":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
	case "left", "h":
		m.adjust(-1)
	case "right", "l":
		m.adjust(1)
	case " ", "space":
		if m.fields[m.cursor] == fieldGenres {
			m.toggleGenre()
		}
	case "r":
		m.spec = content.DefaultFilter(m.kind)
	case "enter":
		if err := m.spec.Validate(); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		spec := m.spec
		m.Close()
		return m, func() tea.Msg { return common.ApplyFilterMsg{Spec: spec} }
	}
	return m, nil
}

func (m *Model) adjust(delta int) {
	thisYear := time.Now().Year()
	switch m.fields[m.cursor] {
	case fieldYearMin:
		m.spec.YearMin = clamp(m.spec.YearMin+delta, minYear, thisYear)
	case fieldYearMax:
		m.spec.YearMax = clamp(m.spec.YearMax+delta, minYear, thisYear)
	case fieldRating:
		m.spec.RatingMin = min(10, max(0, m.spec.RatingMin+float64(delta)*ratingStep))
	case fieldLanguage:
		m.spec.Language = cycle(content.Languages, m.spec.Language, delta)
	case fieldSeason:
		m.spec.Season = cycle(content.Seasons, m.spec.Season, delta)
	case fieldSort:
		m.spec.SortBy = cycle(content.SortOptions(m.kind), m.spec.SortBy, delta)
	case fieldGenres:
		m.genreCursor = clamp(m.genreCursor+delta, 0, len(m.genres)-1)
	}
}

// toggleGenre flips the genre under the cursor. Anime filters by a single
// label, so picking one replaces the others.
func (m *Model) toggleGenre() {
	if len(m.genres) == 0 {
		return
	}
	g := m.genres[m.genreCursor]
	value := g.ID
	if m.kind == content.KindAnime {
		value = g.Label
	}

	if i := slices.Index(m.spec.Genres, value); i >= 0 {
		m.spec.Genres = slices.Delete(m.spec.Genres, i, i+1)
		return
	}
	if m.kind == content.KindAnime {
		m.spec.Genres = []string{value}
		return
	}
	m.spec.Genres = append(m.spec.Genres, value)
}

func (m Model) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(" Filters · " + m.kind.Label() + " "))
	b.WriteString("\n\n")

	for i, f := range m.fields {
		label, value := m.row(f)
		line := fmt.Sprintf("%-12s %s", label, value)
		if i == m.cursor {
			b.WriteString(styles.SelectedItemStyle.Render("▸ " + line))
		} else {
			b.WriteString(styles.NormalItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
		if f == fieldGenres {
			b.WriteString(m.genreChips(i == m.cursor))
			b.WriteString("\n")
		}
	}

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerStyle.Render(m.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("↑/↓ field • ←/→ change • space toggle genre • r reset • enter apply • esc cancel"))

	box := styles.PopupStyle.Width(min(max(m.width-8, 50), 90)).Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) row(f field) (string, string) {
	switch f {
	case fieldYearMin:
		return "From year", fmt.Sprint(m.spec.YearMin)
	case fieldYearMax:
		return "To year", fmt.Sprint(m.spec.YearMax)
	case fieldRating:
		return "Min rating", fmt.Sprintf("%.1f", m.spec.RatingMin)
	case fieldLanguage:
		return "Language", label(content.Languages, m.spec.Language)
	case fieldSeason:
		return "Season", label(content.Seasons, m.spec.Season)
	case fieldSort:
		return "Sort by", label(content.SortOptions(m.kind), m.spec.SortBy)
	default:
		return "Genres", fmt.Sprintf("%d selected", len(m.spec.Genres))
	}
}

func (m Model) genreChips(focused bool) string {
	var chips []string
	for i, g := range m.genres {
		value := g.ID
		if m.kind == content.KindAnime {
			value = g.Label
		}
		style := styles.ChipStyle
		if slices.Contains(m.spec.Genres, value) {
			style = styles.ChipSelectedStyle
		}
		text := g.Label
		if focused && i == m.genreCursor {
			text = "›" + text
		}
		chips = append(chips, style.Render(text))
	}

	width := min(max(m.width-14, 44), 84)
	var lines []string
	var line []string
	used := 0
	for _, c := range chips {
		w := lipgloss.Width(c)
		if used+w > width && len(line) > 0 {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, line...))
			line, used = nil, 0
		}
		line = append(line, c)
		used += w
	}
	if len(line) > 0 {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}
	return "    " + strings.Join(lines, "\n    ")
}

func cycle(opts []content.Option, current string, delta int) string {
	if len(opts) == 0 {
		return current
	}
	i := slices.IndexFunc(opts, func(o content.Option) bool { return o.Value == current })
	if i < 0 {
		i = 0
	}
	i = (i + delta + len(opts)) % len(opts)
	return opts[i].Value
}

func label(opts []content.Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
