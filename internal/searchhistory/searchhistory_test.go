package searchhistory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediamingle/mingle/internal/config"
	"github.com/mediamingle/mingle/internal/kvstore"
)

func newCache(t *testing.T) (*Cache, kvstore.Store) {
	t.Helper()
	store := kvstore.NewMemory()
	c := New(store, "mingle", config.NullLogger())
	c.Load(context.Background())
	return c, store
}

func TestRecord_RepeatMovesToFront(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	require.NoError(t, c.Record(ctx, "x"))
	require.NoError(t, c.Record(ctx, "x"))
	assert.Equal(t, []string{"x"}, c.List())

	require.NoError(t, c.Record(ctx, "dune"))
	require.NoError(t, c.Record(ctx, "arrival"))
	require.NoError(t, c.Record(ctx, "x"))
	assert.Equal(t, []string{"x", "arrival", "dune"}, c.List())
}

func TestRecord_CapsAtTen(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	for i := 1; i <= 11; i++ {
		require.NoError(t, c.Record(ctx, fmt.Sprintf("q%d", i)))
	}

	list := c.List()
	require.Len(t, list, MaxEntries)
	assert.Equal(t, "q11", list[0])
	assert.Equal(t, "q2", list[9])
	assert.NotContains(t, list, "q1")
}

func TestRecord_IgnoresBlankAndTrims(t *testing.T) {
	ctx := context.Background()
	c, store := newCache(t)

	require.NoError(t, c.Record(ctx, ""))
	require.NoError(t, c.Record(ctx, "   \t"))
	assert.Empty(t, c.List())
	_, err := store.Get(ctx, "mingle:search_history")
	assert.ErrorIs(t, err, kvstore.ErrNotFound, "blank queries must not write")

	require.NoError(t, c.Record(ctx, "  dune "))
	assert.Equal(t, []string{"dune"}, c.List())
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, store := newCache(t)
	require.NoError(t, c.Record(ctx, "dune"))
	require.NoError(t, c.Record(ctx, "arrival"))

	raw, err := store.Get(ctx, "mingle:search_history")
	require.NoError(t, err)
	assert.JSONEq(t, `["arrival","dune"]`, raw)

	reloaded := New(store, "mingle", config.NullLogger())
	reloaded.Load(ctx)
	assert.Equal(t, []string{"arrival", "dune"}, reloaded.List())
}

func TestClearRemovesKey(t *testing.T) {
	ctx := context.Background()
	c, store := newCache(t)
	require.NoError(t, c.Record(ctx, "dune"))

	require.NoError(t, c.Clear(ctx))
	assert.Empty(t, c.List())
	_, err := store.Get(ctx, "mingle:search_history")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestLoad_BadValuesReadAsEmpty(t *testing.T) {
	for name, value := range map[string]string{
		"not json":    "{oops",
		"wrong shape": `{"q":"dune"}`,
		"numbers":     `[1,2,3]`,
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := kvstore.NewMemory()
			require.NoError(t, store.Set(ctx, "mingle:search_history", value))

			c := New(store, "mingle", config.NullLogger())
			c.Load(ctx)
			assert.Empty(t, c.List())
		})
	}
}

func TestSuggest(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)
	for _, q := range []string{"dune", "arrival", "dune part two", "blade runner"} {
		require.NoError(t, c.Record(ctx, q))
	}

	assert.Equal(t, []string{"blade runner", "dune part two"}, c.Suggest("", 2))

	assert.Subset(t, c.Suggest("dune", 5), []string{"dune", "dune part two"})
	assert.Equal(t, []string{"dune part two"}, c.Suggest("part", 5))

	assert.Empty(t, c.Suggest("zzz", 5))
}
