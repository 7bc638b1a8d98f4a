package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestComplete(t *testing.T) {
	items := []ContentItem{
		{ID: "1", PosterURL: ptr("p1"), Rating: ptr(7.5)},
		{ID: "2", PosterURL: nil, Rating: ptr(8.0)},
		{ID: "3", PosterURL: ptr("p3"), Rating: nil},
		{ID: "4", PosterURL: ptr("p4"), Rating: ptr(0.0)},
		{ID: "5", PosterURL: ptr("p5"), Rating: ptr(0.1)},
		{ID: "6", PosterURL: ptr("p6"), Rating: ptr(-1.0)},
	}

	out := Complete(items)

	var ids []string
	for _, item := range out {
		ids = append(ids, item.ID)
		assert.True(t, IsComplete(item))
	}
	assert.Equal(t, []string{"1", "5"}, ids)
	assert.Len(t, items, 6, "input must not be modified")
}

func TestComplete_PreservesOrderAsSubsequence(t *testing.T) {
	var items []ContentItem
	for i := 0; i < 50; i++ {
		item := ContentItem{ID: string(rune('a' + i%26))}
		if i%3 != 0 {
			item.PosterURL = ptr("p")
		}
		if i%4 != 0 {
			item.Rating = ptr(float64(i%5) * 2)
		}
		items = append(items, item)
	}

	out := Complete(items)

	j := 0
	for _, kept := range out {
		for j < len(items) && items[j].ID != kept.ID {
			j++
		}
		assert.Less(t, j, len(items), "output item %s not found in order", kept.ID)
		j++
	}
}

func TestComplete_Empty(t *testing.T) {
	assert.Empty(t, Complete(nil))
	assert.NotNil(t, Complete(nil))
}
