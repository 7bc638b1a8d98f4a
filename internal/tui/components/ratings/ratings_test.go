package ratings

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/tui/common"
	"github.com/mediamingle/mingle/internal/tui/tuitest"
	"github.com/mediamingle/mingle/internal/userdata"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded() Model {
	m := New()
	m.SetSize(100, 40)
	m.SetData(common.RatingsLoadedMsg{
		Ratings: []userdata.Rating{
			{ID: 1, Record: userdata.Record{ContentType: "movies", ContentID: "42", Title: "Dune"}, Rating: 9},
			{ID: 2, Record: userdata.Record{ContentType: "tv", ContentID: "7", Title: "Dark"}, Rating: 8},
			{ID: 3, Record: userdata.Record{ContentType: "anime", ContentID: "21", Title: "One Piece"}, Rating: 10},
		},
		Stats: &userdata.Stats{TotalRatings: 3, AverageRating: 9, HighestRated: &userdata.RatedTitle{Title: "One Piece", Rating: 10}},
	})
	return m
}

func TestViewShowsStatsAndRatings(t *testing.T) {
	view := tuitest.Plain(loaded().View())

	assert.Contains(t, view, "3 rated")
	assert.Contains(t, view, "avg 9.0")
	assert.Contains(t, view, "best One Piece (10)")
	assert.Contains(t, view, "Dune")
	assert.Contains(t, view, "Recently rated")
}

func TestKindFilterRequeries(t *testing.T) {
	m := loaded()

	m, cmd := m.Update(runes("v"))
	require.NotNil(t, cmd)
	assert.Equal(t, common.RatingQueryMsg{Query: userdata.RatingQuery{Kind: content.KindTV, SortBy: userdata.SortRatedAt}}, cmd())

	_, cmd = m.Update(runes("v"))
	assert.Nil(t, cmd, "same query issues no request")
}

func TestSortCycles(t *testing.T) {
	m := loaded()
	want := []string{userdata.SortRating, userdata.SortTitle, userdata.SortRatedAt}
	for _, sortBy := range want {
		var cmd tea.Cmd
		m, cmd = m.Update(runes("S"))
		require.NotNil(t, cmd)
		assert.Equal(t, sortBy, cmd().(common.RatingQueryMsg).Query.SortBy)
	}
}

func TestMinimumRatingBounds(t *testing.T) {
	m := loaded()
	_, cmd := m.Update(runes("-"))
	assert.Nil(t, cmd)

	m, cmd = m.Update(runes("+"))
	require.NotNil(t, cmd)
	assert.Equal(t, 1.0, m.Query().MinRating)
}

func TestFuzzyFilter(t *testing.T) {
	m := loaded()

	m, _ = m.Update(runes("/"))
	assert.True(t, m.IsInputActive())
	for _, r := range "piece" {
		m, _ = m.Update(runes(string(r)))
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.IsInputActive())

	filtered := m.Filtered()
	require.Len(t, filtered, 1)
	assert.Equal(t, "One Piece", filtered[0].Title)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.Filtered(), 3)
}

func TestActionsOnSelection(t *testing.T) {
	m := loaded()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := m.Update(runes("x"))
	require.NotNil(t, cmd)
	assert.Equal(t, common.DeleteRatingMsg{ID: 2}, cmd())

	_, cmd = m.Update(runes("e"))
	require.NotNil(t, cmd)
	msg := cmd().(common.OpenRatingMsg)
	assert.Equal(t, content.KindTV, msg.Item.Kind)
	assert.Equal(t, "7", msg.Item.ID)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, "Dark", cmd().(common.OpenDetailMsg).Item.Title)
}

func TestEscapeGoesBack(t *testing.T) {
	_, cmd := loaded().Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, common.BackMsg{}, cmd())
}
