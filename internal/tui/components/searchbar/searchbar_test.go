package searchbar

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediamingle/mingle/internal/tui/common"
)

type fakeRecent []string

func (f fakeRecent) Suggest(prefix string, n int) []string {
	var out []string
	for _, q := range f {
		if strings.HasPrefix(q, prefix) {
			out = append(out, q)
		}
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestFocusShowsRecentSearches(t *testing.T) {
	m := New(fakeRecent{"dune", "dark", "alien"})
	m.Focus()

	assert.Equal(t, []string{"dune", "dark", "alien"}, m.Suggestions())

	m = typeText(m, "d")
	assert.Equal(t, []string{"dune", "dark"}, m.Suggestions())
}

func TestEnterSubmitsTypedQuery(t *testing.T) {
	m := New(fakeRecent{})
	m.Focus()
	m = typeText(m, "matrix")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, common.SubmitSearchMsg{Query: "matrix"}, cmd())
	assert.False(t, m.Focused())
}

func TestEnterOnSuggestionUsesIt(t *testing.T) {
	m := New(fakeRecent{"dune", "dark"})
	m.Focus()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, common.SubmitSearchMsg{Query: "dark"}, cmd())
	assert.Equal(t, "dark", m.Value())
}

func TestEscapeBlurs(t *testing.T) {
	m := New(fakeRecent{"dune"})
	m.Focus()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, common.SearchBlurredMsg{}, cmd())
	assert.False(t, m.Focused())
	assert.Empty(t, m.Suggestions())
}

func TestClearRecentSearches(t *testing.T) {
	m := New(fakeRecent{"dune"})
	m.Focus()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	require.NotNil(t, cmd)
	assert.Equal(t, common.ClearRecentSearchesMsg{}, cmd())
	assert.Empty(t, m.Suggestions())
	assert.True(t, m.Focused())
}
