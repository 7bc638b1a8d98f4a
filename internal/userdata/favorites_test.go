package userdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediamingle/mingle/internal/config"
	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/httpclient"
)

var dune = content.ContentItem{ID: "438631", Kind: content.KindMovie, Title: "Dune"}

func TestFavorites_ToggleRefetches(t *testing.T) {
	ctx := context.Background()
	backend, api := newFakeBackend(t)
	favs := NewFavorites(api, fakeSession{ok: true}, config.NullLogger())

	now, err := favs.Toggle(ctx, dune)
	require.NoError(t, err)
	assert.True(t, now)
	assert.True(t, favs.IsFavorite(content.KindMovie, "438631"))

	list := favs.List()
	require.Len(t, list, 1)
	assert.Equal(t, "movies", list[0].ContentType)
	assert.Equal(t, content.KindMovie, list[0].Kind())
	assert.Equal(t, 2025, list[0].AddedAt.Year())

	// POST then GET
	assert.EqualValues(t, 2, backend.calls.Load())

	now, err = favs.Toggle(ctx, dune)
	require.NoError(t, err)
	assert.False(t, now)
	assert.False(t, favs.IsFavorite(content.KindMovie, "438631"))
	assert.Empty(t, favs.List())
}

func TestFavorites_UnauthenticatedMakesNoCalls(t *testing.T) {
	ctx := context.Background()
	backend, api := newFakeBackend(t)
	favs := NewFavorites(api, fakeSession{ok: false}, config.NullLogger())

	_, err := favs.Toggle(ctx, dune)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, favs.Add(ctx, dune), ErrNotAuthenticated)
	assert.ErrorIs(t, favs.Remove(ctx, 1), ErrNotAuthenticated)
	_, _, err = favs.Check(ctx, content.KindMovie, "1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	assert.EqualValues(t, 0, backend.calls.Load())
	assert.False(t, favs.IsFavorite(content.KindMovie, "438631"))
	assert.Empty(t, favs.List())
}

func TestFavorites_MembershipMatchesList(t *testing.T) {
	ctx := context.Background()
	_, api := newFakeBackend(t)
	favs := NewFavorites(api, fakeSession{ok: true}, config.NullLogger())

	items := []content.ContentItem{
		dune,
		{ID: "1396", Kind: content.KindTV, Title: "Breaking Bad"},
		{ID: "21", Kind: content.KindAnime, Title: "One Piece"},
	}
	for _, item := range items {
		require.NoError(t, favs.Add(ctx, item))
	}

	list := favs.List()
	require.Len(t, list, 3)
	for _, fav := range list {
		id, ok := favs.Lookup(fav.Kind(), fav.ContentID)
		assert.True(t, ok)
		assert.Equal(t, fav.ID, id)
	}

	require.NoError(t, favs.Remove(ctx, list[1].ID))
	assert.Len(t, favs.List(), 2)
	assert.False(t, favs.IsFavorite(content.KindTV, "1396"))
	assert.Len(t, favs.Items(), 2)
}

func TestFavorites_Check(t *testing.T) {
	ctx := context.Background()
	_, api := newFakeBackend(t)
	favs := NewFavorites(api, fakeSession{ok: true}, config.NullLogger())
	require.NoError(t, favs.Add(ctx, dune))

	ok, id, err := favs.Check(ctx, content.KindMovie, "438631")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotZero(t, id)

	ok, _, err = favs.Check(ctx, content.KindTV, "438631")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFavorites_UnauthorizedFailsOnlyTheCall(t *testing.T) {
	ctx := context.Background()
	backend, api := newFakeBackend(t)
	favs := NewFavorites(api, fakeSession{ok: true}, config.NullLogger())
	require.NoError(t, favs.Add(ctx, dune))

	backend.unauthorized.Store(true)
	err := favs.Add(ctx, content.ContentItem{ID: "2", Kind: content.KindMovie})
	require.Error(t, err)
	assert.ErrorIs(t, err, httpclient.ErrUnauthorized)

	// the cached state is untouched
	assert.True(t, favs.IsFavorite(content.KindMovie, "438631"))
}
