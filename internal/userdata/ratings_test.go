package userdata

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediamingle/mingle/internal/config"
	"github.com/mediamingle/mingle/internal/content"
)

func TestValidateRating(t *testing.T) {
	assert.ErrorIs(t, ValidateRating(0, ""), ErrInvalidRating)
	assert.ErrorIs(t, ValidateRating(-2, ""), ErrInvalidRating)
	assert.ErrorIs(t, ValidateRating(10.5, ""), ErrInvalidRating)
	assert.ErrorIs(t, ValidateRating(math.NaN(), ""), ErrInvalidRating)
	assert.ErrorIs(t, ValidateRating(math.Inf(1), ""), ErrInvalidRating)
	assert.ErrorIs(t, ValidateRating(8, strings.Repeat("é", MaxReviewLength+1)), ErrInvalidRating)
	assert.NoError(t, ValidateRating(10, strings.Repeat("é", MaxReviewLength)))
	assert.NoError(t, ValidateRating(0.5, ""))
}

func TestRatings_ZeroRejectedWithoutNetwork(t *testing.T) {
	backend, api := newFakeBackend(t)
	r := NewRatings(api, fakeSession{ok: true}, nil, config.NullLogger())

	_, err := r.Submit(context.Background(), RatingInput{Item: dune, Rating: 0})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = r.Submit(context.Background(), RatingInput{Item: dune, Rating: math.NaN()})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = r.Update(context.Background(), 1, RatingUpdate{Rating: 0})
	assert.ErrorIs(t, err, ErrInvalidRating)
	assert.EqualValues(t, 0, backend.calls.Load())
}

func TestRatings_SubmitUpdateDelete(t *testing.T) {
	ctx := context.Background()
	_, api := newFakeBackend(t)
	r := NewRatings(api, fakeSession{ok: true}, nil, config.NullLogger())

	saved, err := r.Submit(ctx, RatingInput{Item: dune, Rating: 8, Review: "spice"})
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.Len(t, r.List(), 1)
	assert.Equal(t, 8.0, r.List()[0].Rating)
	assert.Equal(t, "movies", r.List()[0].ContentType)
	assert.True(t, r.Rated(dune.Kind, dune.ID))

	_, err = r.Update(ctx, saved.ID, RatingUpdate{Rating: 9.5, Review: "more spice"})
	require.NoError(t, err)
	assert.Equal(t, 9.5, r.List()[0].Rating)
	require.NotNil(t, r.List()[0].Review)
	assert.Equal(t, "more spice", *r.List()[0].Review)

	require.NoError(t, r.Delete(ctx, saved.ID))
	assert.Empty(t, r.List())
	assert.False(t, r.Rated(dune.Kind, dune.ID))
}

func TestRatings_DeleteFailureAlerts(t *testing.T) {
	ctx := context.Background()
	backend, api := newFakeBackend(t)
	a := &alerts{}
	r := NewRatings(api, fakeSession{ok: true}, a, config.NullLogger())

	saved, err := r.Submit(ctx, RatingInput{Item: dune, Rating: 7})
	require.NoError(t, err)

	backend.failDeletes.Store(true)
	require.Error(t, r.Delete(ctx, saved.ID))
	assert.Equal(t, []string{"Failed to delete rating. Please try again."}, a.all())
	assert.Len(t, r.List(), 1)
}

func TestRatings_LookupAndStats(t *testing.T) {
	ctx := context.Background()
	_, api := newFakeBackend(t)
	r := NewRatings(api, fakeSession{ok: true}, nil, config.NullLogger())

	lookup, err := r.Lookup(ctx, content.KindAnime, "21")
	require.NoError(t, err)
	assert.True(t, lookup.HasRating)
	assert.Equal(t, 42, lookup.RatingID)
	assert.Equal(t, 2025, lookup.RatedAt.Year())
	assert.True(t, r.Rated(content.KindAnime, "21"), "lookup result is remembered")

	stats, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRatings)
	assert.Equal(t, 7.5, stats.AverageRating)
	require.NotNil(t, stats.HighestRated)
	assert.Equal(t, "Dune", stats.HighestRated.Title)
}

func TestRatings_RefreshKeepsQuery(t *testing.T) {
	_, api := newFakeBackend(t)
	r := NewRatings(api, fakeSession{ok: true}, nil, config.NullLogger())

	q := RatingQuery{Kind: content.KindTV, MinRating: 7, SortBy: SortRating}
	require.NoError(t, r.Refresh(context.Background(), q))
	assert.Equal(t, q, r.Query())
}

func TestRatings_SignedOut(t *testing.T) {
	backend, api := newFakeBackend(t)
	r := NewRatings(api, fakeSession{ok: false}, nil, config.NullLogger())

	_, err := r.Submit(context.Background(), RatingInput{Item: dune, Rating: 6})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = r.Stats(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.EqualValues(t, 0, backend.calls.Load())
}

func TestStarFill(t *testing.T) {
	tests := []struct {
		rating float64
		want   [StarCount]float64
	}{
		{0, [5]float64{0, 0, 0, 0, 0}},
		{10, [5]float64{100, 100, 100, 100, 100}},
		{5, [5]float64{100, 100, 50, 0, 0}},
		{1, [5]float64{50, 0, 0, 0, 0}},
		{7.5, [5]float64{100, 100, 100, 75, 0}},
		{12, [5]float64{100, 100, 100, 100, 100}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StarFill(tt.rating), "rating %v", tt.rating)
	}

	assert.Equal(t, 4, StarsForRating(8))
	assert.Equal(t, 0, StarsForRating(0))
}
