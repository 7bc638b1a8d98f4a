package detail

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/tui/common"
	"github.com/mediamingle/mingle/internal/tui/tuitest"
	"github.com/mediamingle/mingle/internal/userdata"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func opened(t *testing.T) Model {
	t.Helper()
	overview := "Paul Atreides travels to Arrakis."
	item := content.ContentItem{ID: "42", Kind: content.KindMovie, Title: "Dune", Overview: &overview}

	m := New()
	m.SetSize(100, 40)
	m.SetSignedIn(true)
	m.Open(item)
	m.Loaded(common.DetailLoadedMsg{
		Item: item,
		Detail: &content.Detail{
			ContentItem: item,
			Genres:      []string{"Sci-Fi", "Adventure"},
			Trailer:     &content.Trailer{Key: "abc"},
		},
		Favorite: true,
		Rating:   &userdata.RatingLookup{HasRating: true, Rating: 8, RatingID: 5},
	})
	return m
}

func TestViewShowsUserState(t *testing.T) {
	view := tuitest.Plain(opened(t).View())

	assert.Contains(t, view, "Dune")
	assert.Contains(t, view, "In favorites")
	assert.Contains(t, view, "Sci-Fi")
	assert.Contains(t, view, "8/10")
	assert.Contains(t, view, "https://www.youtube.com/watch?v=abc")
	assert.Contains(t, view, "r update rating")
}

func TestActions(t *testing.T) {
	m := opened(t)

	tests := []struct {
		key  string
		want tea.Msg
	}{
		{"f", common.ToggleFavoriteMsg{Item: m.Item()}},
		{"r", common.OpenRatingMsg{Item: m.Item()}},
		{"R", common.DeleteRatingMsg{ID: 5}},
		{"t", common.OpenTrailerMsg{URL: "https://www.youtube.com/watch?v=abc"}},
		{"y", common.LinkMsg{Item: m.Item(), Action: common.LinkCopy}},
		{"s", common.LinkMsg{Item: m.Item(), Action: common.LinkShare}},
		{"o", common.LinkMsg{Item: m.Item(), Action: common.LinkOpen}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, cmd := m.Update(key(tt.key))
			require.NotNil(t, cmd)
			assert.Equal(t, tt.want, cmd())
		})
	}
}

func TestEscapeGoesBack(t *testing.T) {
	_, cmd := opened(t).Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, common.BackMsg{}, cmd())
}

func TestSignedOutCannotRate(t *testing.T) {
	m := opened(t)
	m.SetSignedIn(false)

	_, cmd := m.Update(key("r"))
	require.NotNil(t, cmd)
	assert.IsType(t, common.StatusMsg{}, cmd())
	assert.Contains(t, tuitest.Plain(m.View()), "Sign in")
}

func TestLateResultForAnotherTitleIsIgnored(t *testing.T) {
	m := opened(t)
	m.Loaded(common.DetailLoadedMsg{Item: content.ContentItem{ID: "7", Kind: content.KindTV}, Err: errors.New("boom")})

	assert.Equal(t, "42", m.Item().ID)
	assert.NotContains(t, tuitest.Plain(m.View()), "Failed to load details")
}

func TestDeleteWithoutRating(t *testing.T) {
	m := opened(t)
	m.SetRating(nil)

	_, cmd := m.Update(key("R"))
	require.NotNil(t, cmd)
	assert.Equal(t, common.StatusMsg{Text: "You have not rated this title"}, cmd())
}
