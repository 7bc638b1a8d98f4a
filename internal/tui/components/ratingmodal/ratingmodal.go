// Package ratingmodal is the popup that creates or updates a rating.
package ratingmodal

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/tui/common"
	"github.com/mediamingle/mingle/internal/tui/styles"
	"github.com/mediamingle/mingle/internal/tui/utils"
	"github.com/mediamingle/mingle/internal/userdata"
)

// ErrNoRating is shown when submitting without choosing a value
const ErrNoRating = "Please select a rating!"

type focus int

const (
	focusStars focus = iota
	focusReview
)

type Model struct {
	item    content.ContentItem
	id      int // existing rating, 0 for a new one
	rating  float64
	review  textarea.Model
	focus   focus
	errText string
	visible bool
	width   int
	height  int
}

func New() Model {
	ta := textarea.New()
	ta.Placeholder = "Share your thoughts (optional)"
	ta.CharLimit = userdata.MaxReviewLength
	ta.ShowLineNumbers = false
	ta.SetWidth(50)
	ta.SetHeight(4)
	return Model{review: ta}
}

// Open shows the modal for item, prefilled from an existing rating
func (m *Model) Open(item content.ContentItem, existing *userdata.RatingLookup) {
	m.item = item
	m.id = 0
	m.rating = 0
	m.errText = ""
	m.focus = focusStars
	m.review.Reset()
	m.review.Blur()
	if existing != nil && existing.HasRating {
		m.id = existing.RatingID
		m.rating = existing.Rating
		if existing.Review != nil {
			m.review.SetValue(*existing.Review)
		}
	}
	m.visible = true
}

// Close hides the modal
func (m *Model) Close() {
	m.visible = false
	m.review.Blur()
}

// IsVisible reports whether the modal is open
func (m Model) IsVisible() bool { return m.visible }

// Editing reports whether the modal updates an existing rating
func (m Model) Editing() bool { return m.id != 0 }

// Rating returns the selected value
func (m Model) Rating() float64 { return m.rating }

// SetError shows a submit failure
func (m *Model) SetError(text string) { m.errText = text }

// SetSize sets the screen size the modal centers in
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "esc":
		m.Close()
		return m, func() tea.Msg { return common.CancelMsg{} }
	case "ctrl+s":
		return m.submit()
	case "tab", "shift+tab":
		if m.focus == focusStars {
			m.focus = focusReview
			return m, m.review.Focus()
		}
		m.focus = focusStars
		m.review.Blur()
		return m, nil
	}

	if m.focus == focusReview {
		var cmd tea.Cmd
		m.review, cmd = m.review.Update(msg)
		return m, cmd
	}

	switch s := key.String(); s {
	case "left", "h", "-":
		m.rating = max(0, m.rating-1)
	case "right", "l", "+", "=":
		m.rating = min(10, m.rating+1)
	case "[", "]":
		// whole stars
		n := userdata.StarsForRating(m.rating)
		if s == "[" {
			n = max(0, n-1)
		} else {
			n = min(userdata.StarCount, n+1)
		}
		m.rating = float64(n) * userdata.PointsPerStar
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.rating = float64(s[0] - '0')
	case "0":
		m.rating = 10
	case "enter":
		return m.submit()
	default:
		return m, nil
	}
	m.errText = ""
	return m, nil
}

// submit validates and emits the rating. Zero never leaves the modal.
func (m Model) submit() (Model, tea.Cmd) {
	review := strings.TrimSpace(m.review.Value())
	if m.rating <= 0 {
		m.errText = ErrNoRating
		return m, nil
	}
	if err := userdata.ValidateRating(m.rating, review); err != nil {
		m.errText = err.Error()
		return m, nil
	}

	out := common.SubmitRatingMsg{Item: m.item, ID: m.id, Rating: m.rating, Review: review}
	m.Close()
	return m, func() tea.Msg { return out }
}

func (m Model) View() string {
	if !m.visible {
		return ""
	}

	title := "Rate " + m.item.Title
	button := "Submit Rating"
	if m.Editing() {
		title = "Update Rating · " + m.item.Title
		button = "Update Rating"
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(" " + utils.TruncateWithWidth(title, 48) + " "))
	b.WriteString("\n\n")

	stars := utils.Stars(m.rating) + styles.MetadataStyle.Render(fmt.Sprintf("  %.0f/10", m.rating))
	if m.focus == focusStars {
		stars = styles.SelectedItemStyle.Render("▸ ") + stars
	} else {
		stars = "  " + stars
	}
	b.WriteString(stars)
	b.WriteString("\n")
	b.WriteString(styles.MutedStyle.Render("  ←/→ or 1-9, 0 for 10, [/] whole stars"))
	b.WriteString("\n\n")

	b.WriteString(m.review.View())
	b.WriteString("\n")
	count := utf8.RuneCountInString(m.review.Value())
	b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("%d/%d", count, userdata.MaxReviewLength)))
	b.WriteString("\n\n")

	if m.errText != "" {
		b.WriteString(styles.DangerStyle.Render(m.errText))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.TabActiveStyle.Render(button))
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("enter/ctrl+s submit • tab review • esc cancel"))

	box := styles.PopupStyle.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
