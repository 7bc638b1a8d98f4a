package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mediamingle/mingle/internal/loader"
	"github.com/mediamingle/mingle/internal/tui/components/grid"
	"github.com/mediamingle/mingle/internal/tui/styles"
	"github.com/mediamingle/mingle/internal/tui/utils"
)

const (
	appTitle     = " mingle "
	headerHeight = 1
	footerHeight = 1
)

// browseLayout holds the rows, counted from the top of the screen, where
// the clickable parts of the browse view start
type browseLayout struct {
	moodsY  int
	genresY int
	gridY   int
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	// modals render full screen, centered
	switch {
	case a.help.IsVisible():
		return a.help.View()
	case a.confirm.IsVisible():
		return a.confirm.View()
	case a.ratingModal.IsVisible():
		return a.ratingModal.View()
	case a.filterPanel.IsVisible():
		return a.filterPanel.View()
	case a.showLogin:
		return a.loginForm.View()
	}

	var body string
	switch a.state {
	case detailView:
		body = a.detail.View()
	case ratingsView:
		body = a.ratingsView.View()
	case profileView:
		body = a.profileView.View()
	default:
		parts, _ := a.browseTop()
		body = strings.Join(append(parts[1:], a.grid.View()), "\n")
	}

	bodyHeight := max(a.height-headerHeight-footerHeight, 0)
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	screen := lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), body, a.renderFooter())

	if a.menu.IsOpen() {
		pos := a.menu.Position()
		screen = utils.Overlay(screen, a.menu.View(), pos.X, pos.Y)
	}
	return screen
}

// browseTop renders the browse view down to the grid: header, search bar,
// pickers and banners. The layout records where each clickable row landed.
func (a *App) browseTop() ([]string, browseLayout) {
	parts := []string{a.renderHeader(), a.search.View()}
	var layout browseLayout
	y := 0
	for _, p := range parts {
		y += lipgloss.Height(p)
	}

	add := func(s string) {
		parts = append(parts, s)
		y += lipgloss.Height(s)
	}

	if a.section.catalog() {
		layout.moodsY = y
		add(a.moods.View())
		layout.genresY = y
		add(a.genres.View())
	} else {
		layout.moodsY, layout.genresY = -1, -1
	}

	if banner := a.renderBanner(); banner != "" {
		add(banner)
	}
	if a.section.catalog() && a.load.Featured != nil && a.load.Status != loader.StatusLoading {
		add(grid.Featured(a.load.Featured, a.width))
	}

	layout.gridY = y
	return parts, layout
}

// renderBanner shows retry progress, failures and empty results
func (a *App) renderBanner() string {
	s := a.load
	switch {
	case s.Status == loader.StatusLoading && s.Retrying:
		return styles.InfoBannerStyle.Render(s.Message)
	case s.Status == loader.StatusFailed:
		text := "✗ " + s.Message
		if s.CanRetry {
			text += "  (ctrl+r to retry)"
		}
		return styles.ErrorBannerStyle.Render(text)
	case s.Status == loader.StatusSuccess && s.Message != "":
		return styles.MutedStyle.Render("  " + s.Message)
	}
	return ""
}

// renderHeader draws the title, the section tabs and who is signed in
func (a *App) renderHeader() string {
	parts := []string{styles.TitleStyle.Render(appTitle)}
	for i, s := range sections {
		style := styles.TabStyle
		if section(i) == a.section {
			style = styles.TabActiveStyle
		}
		parts = append(parts, style.Render(s.label))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, parts...)

	badge := styles.MutedStyle.Render("L sign in")
	if a.signedIn() {
		if u := a.session.User(); u != nil {
			badge = styles.SubtitleStyle.Render("● " + u.Username)
		}
	}

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(badge)
	if gap < 1 {
		return ansi.Truncate(left, a.width, "")
	}
	return left + strings.Repeat(" ", gap) + badge
}

// tabAt maps a column of the header row to a section tab
func (a *App) tabAt(x int) (section, bool) {
	pos := lipgloss.Width(styles.TitleStyle.Render(appTitle))
	for i, s := range sections {
		style := styles.TabStyle
		if section(i) == a.section {
			style = styles.TabActiveStyle
		}
		w := lipgloss.Width(style.Render(s.label))
		if x >= pos && x < pos+w {
			return section(i), true
		}
		pos += w
	}
	return 0, false
}

func (a *App) renderFooter() string {
	width := max(a.width-2, 1)
	text := utils.TruncateWithWidth(a.statusMsg, width)
	if text == "" {
		text = styles.HelpStyle.Render(utils.TruncateWithWidth(a.footerHints(), width))
	}
	return styles.FooterStyle.Width(a.width).MaxHeight(footerHeight).Render(text)
}

func (a *App) footerHints() string {
	switch a.state {
	case detailView:
		return "esc back • m menu • ? help"
	case ratingsView, profileView:
		return "esc back • 1-7 sections • ? help • q quit"
	}
	if a.section == sectionHistory {
		return "enter details • x remove • X clear all • m menu • ? help • q quit"
	}
	return "enter details • / search • M mood • c genre • F filter • m menu • ? help • q quit"
}
