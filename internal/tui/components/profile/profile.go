// Package profile shows a user's public profile and, for the signed-in user,
// followers, following and the activity feed.
package profile

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/tui/common"
	"github.com/mediamingle/mingle/internal/tui/styles"
	"github.com/mediamingle/mingle/internal/tui/utils"
	"github.com/mediamingle/mingle/internal/userdata"
)

// Section is a tab of the profile page
type Section int

const (
	SectionRatings Section = iota
	SectionFollowers
	SectionFollowing
	SectionFeed
)

func (s Section) String() string {
	switch s {
	case SectionFollowers:
		return "Followers"
	case SectionFollowing:
		return "Following"
	case SectionFeed:
		return "Feed"
	default:
		return "Ratings"
	}
}

type Model struct {
	data     common.ProfileLoadedMsg
	loading  bool
	signedIn bool
	section  Section
	cursor   int
	lookup   textinput.Model
	looking  bool
	width    int
	height   int
}

func New() Model {
	ti := textinput.New()
	ti.Prompt = "@"
	ti.Placeholder = "username"
	ti.CharLimit = 50
	ti.PromptStyle = styles.SubtitleStyle
	return Model{lookup: ti}
}

// SetLoading shows the loading state for username
func (m *Model) SetLoading(username string) {
	m.loading = true
	m.data = common.ProfileLoadedMsg{Username: username}
	m.section = SectionRatings
	m.cursor = 0
}

// SetData applies a finished load
func (m *Model) SetData(msg common.ProfileLoadedMsg) {
	m.loading = false
	m.data = msg
	m.cursor = 0
	if !m.sectionAvailable(m.section) {
		m.section = SectionRatings
	}
}

// SetFollowing updates the follow button after a change
func (m *Model) SetFollowing(username string, following bool) {
	if m.data.Username != username {
		return
	}
	if m.data.Profile != nil && m.data.Following != following {
		if following {
			m.data.Profile.FollowersCount++
		} else {
			m.data.Profile.FollowersCount = max(m.data.Profile.FollowersCount-1, 0)
		}
	}
	m.data.Following = following
}

// SetSignedIn toggles follow actions
func (m *Model) SetSignedIn(ok bool) { m.signedIn = ok }

// SetSize sets the view area
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Username returns the profile being shown
func (m Model) Username() string { return m.data.Username }

// Own reports whether the profile belongs to the signed-in user
func (m Model) Own() bool { return m.data.Own }

// Section returns the active tab
func (m Model) Section() Section { return m.section }

// IsInputActive reports whether the user lookup field has focus
func (m Model) IsInputActive() bool { return m.looking }

func (m Model) sectionAvailable(s Section) bool {
	return s == SectionRatings || m.data.Own
}

func (m Model) rows() int {
	switch m.section {
	case SectionFollowers:
		return len(m.data.Followers)
	case SectionFollowing:
		return len(m.data.Followees)
	case SectionFeed:
		return len(m.data.Feed)
	default:
		return len(m.data.Ratings)
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.looking {
		switch keyMsg.String() {
		case "esc":
			m.looking = false
			m.lookup.Blur()
			return m, nil
		case "enter":
			name := strings.TrimSpace(m.lookup.Value())
			m.looking = false
			m.lookup.Blur()
			if name == "" {
				return m, nil
			}
			return m, func() tea.Msg { return common.ViewProfileMsg{Username: name} }
		}
		var cmd tea.Cmd
		m.lookup, cmd = m.lookup.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "tab":
		for next := (m.section + 1) % 4; next != m.section; next = (next + 1) % 4 {
			if m.sectionAvailable(next) {
				m.section = next
				m.cursor = 0
				break
			}
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.rows()-1 {
			m.cursor++
		}
	case "enter":
		return m, m.open()
	case "u":
		m.looking = true
		m.lookup.SetValue("")
		return m, m.lookup.Focus()
	case "p":
		return m, func() tea.Msg { return common.ViewProfileMsg{} }
	case "f":
		if m.data.Own || m.data.Profile == nil {
			return m, nil
		}
		if !m.signedIn {
			return m, func() tea.Msg { return common.StatusMsg{Text: "Sign in to follow users"} }
		}
		name, follow := m.data.Username, !m.data.Following
		return m, func() tea.Msg { return common.FollowMsg{Username: name, Follow: follow} }
	case "esc", "backspace":
		return m, func() tea.Msg { return common.BackMsg{} }
	}
	return m, nil
}

func (m Model) open() tea.Cmd {
	if m.cursor >= m.rows() {
		return nil
	}
	switch m.section {
	case SectionFollowers:
		name := m.data.Followers[m.cursor].Username
		return func() tea.Msg { return common.ViewProfileMsg{Username: name} }
	case SectionFollowing:
		name := m.data.Followees[m.cursor].Username
		return func() tea.Msg { return common.ViewProfileMsg{Username: name} }
	case SectionFeed:
		a := m.data.Feed[m.cursor]
		if a.ContentType != nil && a.ContentID != nil {
			rec := userdata.Record{ContentType: *a.ContentType, ContentID: *a.ContentID}
			if a.ContentTitle != nil {
				rec.Title = *a.ContentTitle
			}
			item := rec.Item()
			return func() tea.Msg { return common.OpenDetailMsg{Item: item} }
		}
		name := a.Username
		return func() tea.Msg { return common.ViewProfileMsg{Username: name} }
	default:
		item := m.data.Ratings[m.cursor].Item()
		return func() tea.Msg { return common.OpenDetailMsg{Item: item} }
	}
}

func (m Model) View() string {
	var b strings.Builder

	switch {
	case m.loading:
		b.WriteString(styles.MutedStyle.Render("  Loading profile..."))
		return b.String()
	case m.data.Err != nil:
		b.WriteString(styles.DangerStyle.Render("  Could not load @" + m.data.Username))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("  u look up another user • esc back"))
		return b.String()
	case m.data.Profile == nil:
		b.WriteString(styles.MutedStyle.Render("  Sign in (L) to see your profile, or press u to look someone up."))
		if m.looking {
			b.WriteString("\n\n  " + m.lookup.View())
		}
		return b.String()
	}

	p := m.data.Profile
	b.WriteString(styles.TitleStyle.Render("  @" + p.Username + "  "))
	if !m.data.Own && m.signedIn {
		if m.data.Following {
			b.WriteString("  " + styles.ChipSelectedStyle.Render("Following"))
		} else {
			b.WriteString("  " + styles.ChipStyle.Render("Follow (f)"))
		}
	}
	b.WriteString("\n")
	if p.Bio != nil && *p.Bio != "" {
		b.WriteString(styles.SynopsisStyle.Render("  " + utils.TruncateWithWidth(*p.Bio, max(m.width-4, 20))))
		b.WriteString("\n")
	}
	counts := fmt.Sprintf("  %d ratings • %d followers • %d following", p.RatingsCount, p.FollowersCount, p.FollowingCount)
	if !p.CreatedAt.IsZero() {
		counts += " • joined " + humanize.Time(p.CreatedAt.Time)
	}
	b.WriteString(styles.MetadataStyle.Render(counts))
	b.WriteString("\n\n")

	var tabs []string
	for s := SectionRatings; s <= SectionFeed; s++ {
		if !m.sectionAvailable(s) {
			continue
		}
		if s == m.section {
			tabs = append(tabs, styles.TabActiveStyle.Render(s.String()))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(s.String()))
		}
	}
	b.WriteString("  " + strings.Join(tabs, " "))
	b.WriteString("\n\n")

	lines := m.sectionLines()
	if len(lines) == 0 {
		b.WriteString(styles.MutedStyle.Render("  Nothing here yet."))
		b.WriteString("\n")
	}
	start, end := m.visibleRange(len(lines))
	for i := start; i < end; i++ {
		if i == m.cursor {
			b.WriteString(styles.SelectedItemStyle.Render("▸ " + lines[i]))
		} else {
			b.WriteString(styles.NormalItemStyle.Render("  " + lines[i]))
		}
		b.WriteString("\n")
	}

	if m.looking {
		b.WriteString("\n  " + m.lookup.View() + "\n")
	}

	help := "  ↑/↓ nav • enter open • tab section • u look up • p my profile • esc back"
	if !m.data.Own && m.signedIn {
		help = "  ↑/↓ nav • enter open • f follow • u look up • p my profile • esc back"
	}
	b.WriteString("\n" + styles.HelpStyle.Render(help))
	return b.String()
}

func (m Model) sectionLines() []string {
	var lines []string
	switch m.section {
	case SectionFollowers, SectionFollowing:
		list := m.data.Followers
		if m.section == SectionFollowing {
			list = m.data.Followees
		}
		for _, f := range list {
			line := "@" + f.Username
			if !f.FollowedAt.IsZero() {
				line += styles.MutedStyle.Render(" • since " + humanize.Time(f.FollowedAt.Time))
			}
			lines = append(lines, line)
		}
	case SectionFeed:
		for _, a := range m.data.Feed {
			lines = append(lines, describeActivity(a))
		}
	default:
		for _, r := range m.data.Ratings {
			lines = append(lines, utils.Stars(r.Rating)+" "+r.Title+" "+styles.KindBadge(r.Kind()))
		}
	}
	return lines
}

func describeActivity(a userdata.Activity) string {
	title := ""
	if a.ContentTitle != nil {
		title = *a.ContentTitle
	}

	var text string
	switch a.ActivityType {
	case "rating":
		text = fmt.Sprintf("@%s rated %s", a.Username, title)
		if a.RatingValue != nil {
			text += fmt.Sprintf(" %.0f/10", *a.RatingValue)
		}
	case "favorite":
		text = fmt.Sprintf("@%s favorited %s", a.Username, title)
	case "follow":
		target := ""
		if a.TargetUsername != nil {
			target = *a.TargetUsername
		}
		text = fmt.Sprintf("@%s followed @%s", a.Username, target)
	default:
		text = fmt.Sprintf("@%s %s %s", a.Username, a.ActivityType, title)
	}
	if a.ContentType != nil {
		if kind, err := content.ParseKind(*a.ContentType); err == nil {
			text += " " + styles.KindBadge(kind)
		}
	}
	if !a.CreatedAt.IsZero() {
		text += styles.MutedStyle.Render(" • " + humanize.Time(a.CreatedAt.Time))
	}
	return text
}

func (m Model) visibleRange(total int) (int, int) {
	maxVisible := 10
	if m.height > 0 {
		maxVisible = max(m.height-14, 3)
	}
	if total <= maxVisible {
		return 0, total
	}
	start := max(m.cursor-maxVisible/2, 0)
	end := min(start+maxVisible, total)
	return max(end-maxVisible, 0), end
}
