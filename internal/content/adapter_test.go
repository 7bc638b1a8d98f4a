package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Anime(t *testing.T) {
	body := []byte(`{"data":[
		{"mal_id":5114,"title":"Fullmetal Alchemist: Brotherhood",
		 "images":{"jpg":{"image_url":"https://cdn/fma.jpg","large_image_url":"https://cdn/fma-l.jpg"}},
		 "score":9.1,"year":2009,"synopsis":"Brothers.","episodes":64},
		{"mal_id":1,"title":"Stub"}
	]}`)

	items, err := Normalize(KindAnime, body)
	require.NoError(t, err)
	require.Len(t, items, 2)

	fma := items[0]
	assert.Equal(t, "5114", fma.ID)
	assert.Equal(t, KindAnime, fma.Kind)
	assert.Equal(t, "Fullmetal Alchemist: Brotherhood", fma.Title)
	assert.Equal(t, "https://cdn/fma.jpg", fma.Poster())
	require.NotNil(t, fma.BackdropURL)
	assert.Equal(t, "https://cdn/fma-l.jpg", *fma.BackdropURL)
	assert.Equal(t, 9.1, fma.Score())
	assert.Equal(t, 2009, fma.Year())
	require.NotNil(t, fma.EpisodeCount)
	assert.Equal(t, 64, *fma.EpisodeCount)

	stub := items[1]
	assert.Nil(t, stub.PosterURL)
	assert.Nil(t, stub.Rating)
	assert.Nil(t, stub.ReleaseYear)
	assert.Nil(t, stub.Overview)
	assert.Nil(t, stub.EpisodeCount)
}

func TestNormalize_TMDb(t *testing.T) {
	t.Run("movie fields", func(t *testing.T) {
		body := []byte(`{"results":[{"id":438631,"title":"Dune","poster_path":"/d5NXSklXo0qyIYkgV94XAgMIckC.jpg",
			"backdrop_path":"/b.jpg","vote_average":7.8,"release_date":"2021-09-15","overview":"Spice."}]}`)

		items, err := Normalize(KindMovie, body)
		require.NoError(t, err)
		require.Len(t, items, 1)

		dune := items[0]
		assert.Equal(t, "438631", dune.ID)
		assert.Equal(t, KindMovie, dune.Kind)
		assert.Equal(t, "https://image.tmdb.org/t/p/w300/d5NXSklXo0qyIYkgV94XAgMIckC.jpg", dune.Poster())
		assert.Equal(t, "https://image.tmdb.org/t/p/original/b.jpg", *dune.BackdropURL)
		assert.Equal(t, 2021, dune.Year())
		assert.Nil(t, dune.EpisodeCount)
		assert.Equal(t, "movie-438631", dune.Key())
	})

	t.Run("tv uses name and first_air_date", func(t *testing.T) {
		body := []byte(`{"results":[{"id":1396,"name":"Breaking Bad","poster_path":"/bb.jpg","vote_average":8.9,"first_air_date":"2008-01-20"}]}`)

		items, err := Normalize(KindTV, body)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Breaking Bad", items[0].Title)
		assert.Equal(t, 2008, items[0].Year())
		assert.Equal(t, "https://image.tmdb.org/t/p/original/bb.jpg", *items[0].BackdropURL)
	})

	t.Run("missing and null fields become nil", func(t *testing.T) {
		body := []byte(`{"results":[{"id":1,"poster_path":null,"vote_average":null,"release_date":"?"}, {"id":2,"poster_path":""}]}`)

		items, err := Normalize(KindMovie, body)
		require.NoError(t, err)
		require.Len(t, items, 2)
		for _, item := range items {
			assert.Nil(t, item.PosterURL)
			assert.Nil(t, item.Rating)
			assert.Nil(t, item.ReleaseYear)
			assert.Equal(t, "", item.Title)
		}
	})

	t.Run("zero rating is kept as zero", func(t *testing.T) {
		items, err := Normalize(KindMovie, []byte(`{"results":[{"id":3,"vote_average":0}]}`))
		require.NoError(t, err)
		require.NotNil(t, items[0].Rating)
		assert.Equal(t, 0.0, *items[0].Rating)
	})
}

func TestNormalize_EmptyAndAbsentLists(t *testing.T) {
	tests := []struct {
		name string
		kind MediaKind
		body string
	}{
		{"empty anime", KindAnime, `{"data":[]}`},
		{"absent anime", KindAnime, `{}`},
		{"null movie", KindMovie, `{"results":null}`},
		{"wrong key for tv", KindTV, `{"data":[{"mal_id":1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Normalize(tt.kind, []byte(tt.body))
			require.NoError(t, err)
			assert.NotNil(t, items)
			assert.Empty(t, items)
		})
	}
}

func TestNormalize_InvalidJSON(t *testing.T) {
	_, err := Normalize(KindMovie, []byte(`<html>502</html>`))
	assert.Error(t, err)
}

func TestNormalizeDetail(t *testing.T) {
	t.Run("movie with trailer", func(t *testing.T) {
		body := []byte(`{"id":27205,"title":"Inception","poster_path":"/i.jpg","vote_average":8.4,
			"release_date":"2010-07-15","runtime":148,"genres":[{"id":28,"name":"Action"}],
			"videos":{"results":[{"key":"teaser1","site":"YouTube","type":"Teaser"},{"key":"YoHD9XEInc0","site":"YouTube","type":"Trailer"}]}}`)

		d, err := NormalizeDetail(KindMovie, body)
		require.NoError(t, err)
		assert.Equal(t, "Inception", d.Title)
		assert.Equal(t, []string{"Action"}, d.Genres)
		require.NotNil(t, d.Trailer)
		assert.Equal(t, "YoHD9XEInc0", d.Trailer.Key)
		assert.Equal(t, "https://www.youtube.com/watch?v=YoHD9XEInc0", d.Trailer.URL())
		require.NotNil(t, d.Runtime)
		assert.Equal(t, 148, *d.Runtime)
	})

	t.Run("anime wrapped in data", func(t *testing.T) {
		body := []byte(`{"data":{"mal_id":21,"title":"One Piece","score":8.7,"trailer":{"youtube_id":"op123"},"genres":[{"name":"Action"},{"name":"Adventure"}]}}`)

		d, err := NormalizeDetail(KindAnime, body)
		require.NoError(t, err)
		assert.Equal(t, "21", d.ID)
		assert.Equal(t, []string{"Action", "Adventure"}, d.Genres)
		require.NotNil(t, d.Trailer)
		assert.Equal(t, "op123", d.Trailer.Key)
	})

	t.Run("anime without data errors", func(t *testing.T) {
		_, err := NormalizeDetail(KindAnime, []byte(`{}`))
		assert.Error(t, err)
	})

	t.Run("no trailer stays nil", func(t *testing.T) {
		d, err := NormalizeDetail(KindTV, []byte(`{"id":1,"name":"Show"}`))
		require.NoError(t, err)
		assert.Nil(t, d.Trailer)
	})
}
