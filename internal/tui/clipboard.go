package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediamingle/mingle/internal/clipboard"
	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/tui/common"
)

var errNoBrowser = errors.New("no browser configured")

// webURL is the public address of path on the web site
func (a *App) webURL(path string) string {
	return strings.TrimRight(a.cfg.API.WebURL, "/") + path
}

// itemLink copies, shares or opens the public page of item
func (a *App) itemLink(item content.ContentItem, action common.LinkAction) tea.Cmd {
	return a.linkAction(a.webURL(item.Kind.WebPath(item.ID)), action)
}

func (a *App) linkAction(url string, action common.LinkAction) tea.Cmd {
	switch action {
	case common.LinkOpen:
		return a.open(url)
	case common.LinkShare:
		return a.copy(url, "Share link")
	default:
		return a.copy(url, "Link")
	}
}

// copy writes text to the clipboard; the result arrives as CopiedMsg
func (a *App) copy(text, label string) tea.Cmd {
	if a.clipboard == nil {
		return func() tea.Msg {
			return clipboard.CopiedMsg{Label: label, Err: errors.New("clipboard unavailable")}
		}
	}
	return a.clipboard.Copy(text, label)
}

// open hands url to the system browser
func (a *App) open(url string) tea.Cmd {
	openURL := a.openURL
	return func() tea.Msg {
		if openURL == nil {
			return common.OpenURLMsg{URL: url, Err: errNoBrowser}
		}
		return common.OpenURLMsg{URL: url, Err: openURL(url)}
	}
}

func (a *App) handleCopiedMsg(msg clipboard.CopiedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.logger.Warn("clipboard write failed", "error", msg.Err)
		return a, a.setStatus("✗ Could not copy " + strings.ToLower(msg.Label) + ": " + msg.Err.Error())
	}
	return a, a.setStatus("📋 " + msg.Label + " copied to clipboard")
}

func (a *App) handleOpenURLMsg(msg common.OpenURLMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.logger.Warn("failed to open browser", "url", msg.URL, "error", msg.Err)
		return a, a.setStatus("✗ Could not open browser: " + msg.URL)
	}
	return a, a.setStatus("Opened " + msg.URL)
}
