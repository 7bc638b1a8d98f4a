package common

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/mediamingle/mingle/internal/tui/styles"
)

// FuzzyFilter narrows a list view by a typed query. While editing it takes
// every key; once locked the query stays applied and action keys work again.
type FuzzyFilter struct {
	input  textinput.Model
	active bool
	locked bool
}

// NewFuzzyFilter creates an inactive filter
func NewFuzzyFilter() *FuzzyFilter {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Prompt = ""
	ti.CharLimit = 100
	ti.TextStyle = styles.MetadataStyle
	ti.PlaceholderStyle = styles.MutedStyle

	return &FuzzyFilter{input: ti}
}

// Activate starts editing an empty query
func (f *FuzzyFilter) Activate() tea.Cmd {
	f.active = true
	f.locked = false
	f.input.SetValue("")
	f.input.Focus()
	return textinput.Blink
}

// Deactivate drops the query
func (f *FuzzyFilter) Deactivate() {
	f.active = false
	f.locked = false
	f.input.Blur()
	f.input.SetValue("")
}

// Lock keeps the query applied and stops editing
func (f *FuzzyFilter) Lock() {
	if f.active {
		f.locked = true
		f.input.Blur()
	}
}

// Editing reports whether keys should go to the filter
func (f *FuzzyFilter) Editing() bool { return f.active && !f.locked }

// IsActive reports whether a query is applied or being typed
func (f *FuzzyFilter) IsActive() bool { return f.active }

// Query returns the current text
func (f *FuzzyFilter) Query() string { return f.input.Value() }

// Update feeds a key to the input while editing
func (f *FuzzyFilter) Update(msg tea.Msg) tea.Cmd {
	if !f.Editing() {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

// View renders the filter line, or nothing when inactive
func (f *FuzzyFilter) View() string {
	if !f.active {
		return ""
	}

	label := styles.MetadataStyle.Render("Filter: ")
	bar := styles.SubtitleStyle.Render("┃")
	if f.locked {
		return label + bar + " " + styles.CardTitleStyle.Render(f.Query()) +
			styles.HelpStyle.Render(" (/ to edit • esc to clear)")
	}
	return label + bar + " " + f.input.View() + styles.HelpStyle.Render(" (enter to apply)")
}

// Filter returns the indices of texts matching the query, best first. With
// no query every index is returned in order.
func (f *FuzzyFilter) Filter(texts []string) []int {
	if !f.active || f.Query() == "" {
		out := make([]int, len(texts))
		for i := range out {
			out[i] = i
		}
		return out
	}

	matches := fuzzy.Find(f.Query(), texts)
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}
