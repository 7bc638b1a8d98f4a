// Package detail renders a single title with the signed-in user's favorite
// and rating state.
package detail

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/tui/common"
	"github.com/mediamingle/mingle/internal/tui/styles"
	"github.com/mediamingle/mingle/internal/tui/utils"
	"github.com/mediamingle/mingle/internal/userdata"
)

type Model struct {
	item     content.ContentItem
	detail   *content.Detail
	loading  bool
	err      error
	favorite bool
	rating   *userdata.RatingLookup
	signedIn bool
	width    int
	height   int
	scroll   int
}

func New() Model {
	return Model{}
}

// Open shows item while its details load
func (m *Model) Open(item content.ContentItem) {
	*m = Model{item: item, loading: true, signedIn: m.signedIn, width: m.width, height: m.height}
}

// Loaded applies a finished fetch
func (m *Model) Loaded(msg common.DetailLoadedMsg) {
	if msg.Item.Key() != m.item.Key() {
		return
	}
	m.loading = false
	m.err = msg.Err
	m.detail = msg.Detail
	if msg.Detail != nil {
		m.item = msg.Detail.ContentItem
	}
	m.favorite = msg.Favorite
	m.rating = msg.Rating
}

// Item returns the title being shown
func (m Model) Item() content.ContentItem { return m.item }

// Detail returns the loaded details, if any
func (m Model) Detail() *content.Detail { return m.detail }

// Rating returns the user's rating for the title, if known
func (m Model) Rating() *userdata.RatingLookup { return m.rating }

// SetFavorite updates the heart after a toggle
func (m *Model) SetFavorite(fav bool) { m.favorite = fav }

// SetRating updates the user's rating after a change; nil clears it
func (m *Model) SetRating(r *userdata.RatingLookup) { m.rating = r }

// SetSignedIn toggles the account-only actions
func (m *Model) SetSignedIn(ok bool) { m.signedIn = ok }

// SetSize sets the view area
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles the detail actions
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	item := m.item
	switch key.String() {
	case "up", "k":
		if m.scroll > 0 {
			m.scroll--
		}
	case "down", "j":
		m.scroll++
	case "f":
		return m, func() tea.Msg { return common.ToggleFavoriteMsg{Item: item} }
	case "r":
		if !m.signedIn {
			return m, status("Sign in to rate titles")
		}
		return m, func() tea.Msg { return common.OpenRatingMsg{Item: item} }
	case "R":
		if m.rating == nil || !m.rating.HasRating {
			return m, status("You have not rated this title")
		}
		id := m.rating.RatingID
		return m, func() tea.Msg { return common.DeleteRatingMsg{ID: id} }
	case "t":
		if m.detail == nil || m.detail.Trailer == nil {
			return m, status("No trailer available")
		}
		url := m.detail.Trailer.URL()
		return m, func() tea.Msg { return common.OpenTrailerMsg{URL: url} }
	case "y":
		return m, link(item, common.LinkCopy)
	case "s":
		return m, link(item, common.LinkShare)
	case "o":
		return m, link(item, common.LinkOpen)
	case "esc", "backspace":
		return m, func() tea.Msg { return common.BackMsg{} }
	}
	return m, nil
}

func (m Model) View() string {
	width := max(m.width-4, 30)
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(" " + m.item.Title + " "))
	b.WriteString("  " + styles.KindBadge(m.item.Kind))
	if m.favorite {
		b.WriteString("  " + lipgloss.NewStyle().Foreground(styles.OxocarbonPink).Render("♥ In favorites"))
	}
	b.WriteString("\n\n")

	var meta []string
	if y := m.item.Year(); y > 0 {
		meta = append(meta, fmt.Sprint(y))
	}
	if m.detail != nil && m.detail.Runtime != nil && *m.detail.Runtime > 0 {
		meta = append(meta, fmt.Sprintf("%dh %02dm", *m.detail.Runtime/60, *m.detail.Runtime%60))
	}
	if m.item.EpisodeCount != nil {
		meta = append(meta, fmt.Sprintf("%d episodes", *m.item.EpisodeCount))
	}
	if m.detail != nil && m.detail.Status != "" {
		meta = append(meta, m.detail.Status)
	}
	b.WriteString(styles.ScoreStyle.Render("★ "+utils.Score(m.item.Rating)) + "  ")
	b.WriteString(styles.MetadataStyle.Render(strings.Join(meta, " • ")))
	b.WriteString("\n")

	if m.detail != nil && len(m.detail.Genres) > 0 {
		var chips []string
		for _, g := range m.detail.Genres {
			chips = append(chips, styles.ChipStyle.Render(g))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, chips...))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(styles.MutedStyle.Render("Loading details..."))
		b.WriteString("\n\n")
	case m.err != nil:
		b.WriteString(styles.ErrorBannerStyle.Render("Failed to load details"))
		b.WriteString("\n\n")
	}

	if s := m.item.Synopsis(); s != "" {
		lines := utils.WrapText(s, width)
		maxLines := max(m.height-16, 3)
		scroll := min(m.scroll, max(len(lines)-maxLines, 0))
		end := min(scroll+maxLines, len(lines))
		b.WriteString(styles.SynopsisStyle.Render(strings.Join(lines[scroll:end], "\n")))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.HeaderStyle.Render("Your rating"))
	b.WriteString("\n")
	switch {
	case !m.signedIn:
		b.WriteString(styles.MutedStyle.Render("Sign in (L) to rate and save titles"))
	case m.rating != nil && m.rating.HasRating:
		b.WriteString(utils.Stars(m.rating.Rating) + styles.MetadataStyle.Render(fmt.Sprintf(" %.0f/10", m.rating.Rating)))
		if !m.rating.RatedAt.IsZero() {
			b.WriteString(styles.MutedStyle.Render("  rated " + humanize.Time(m.rating.RatedAt.Time)))
		}
		if m.rating.Review != nil && *m.rating.Review != "" {
			b.WriteString("\n")
			b.WriteString(styles.SynopsisStyle.Render(utils.TruncateToLines("“"+*m.rating.Review+"”", 3, width)))
		}
	default:
		b.WriteString(styles.MutedStyle.Render("Not rated yet"))
	}
	b.WriteString("\n\n")

	if m.detail != nil && m.detail.Trailer != nil {
		b.WriteString(styles.URLStyle.Render("Trailer: " + m.detail.Trailer.URL()))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.HelpStyle.Render(m.helpLine()))
	return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
}

func (m Model) helpLine() string {
	parts := []string{"f favorite"}
	if m.signedIn {
		if m.rating != nil && m.rating.HasRating {
			parts = append(parts, "r update rating", "R delete rating")
		} else {
			parts = append(parts, "r rate")
		}
	}
	if m.detail != nil && m.detail.Trailer != nil {
		parts = append(parts, "t trailer")
	}
	parts = append(parts, "y copy link", "s share", "o open", "m menu", "esc back")
	return strings.Join(parts, " • ")
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return common.StatusMsg{Text: text} }
}

func link(item content.ContentItem, action common.LinkAction) tea.Cmd {
	return func() tea.Msg { return common.LinkMsg{Item: item, Action: action} }
}
