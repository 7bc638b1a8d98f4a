package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediamingle/mingle/internal/config"
	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/httpclient"
)

const movieList = `{"results":[{"id":438631,"title":"Dune","poster_path":"/d.jpg","vote_average":7.8,"release_date":"2021-09-15"}]}`

func newTestCatalog(t *testing.T, r chi.Router) *Client {
	t.Helper()
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	hc := httpclient.NewClient(httpclient.ClientConfig{BaseURL: server.URL, Logger: config.NullLogger()})
	return New(hc, config.NullLogger())
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestTrending(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/trending-movies", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, movieList) })
	r.Get("/trending-anime", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"data":[{"mal_id":1,"title":"Bebop","score":8.8}]}`)
	})
	c := newTestCatalog(t, r)

	items, err := c.Trending(context.Background(), content.KindMovie)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Dune", items[0].Title)

	items, err = c.Trending(context.Background(), content.KindAnime)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Bebop", items[0].Title)
}

func TestSearchAndRecommend(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/search-tv", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "severance", r.URL.Query().Get("query"))
		writeJSON(w, `{"results":[]}`)
	})
	r.Get("/recommend", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "scary", r.URL.Query().Get("mood"))
		assert.Equal(t, "movies", r.URL.Query().Get("content_type"))
		writeJSON(w, movieList)
	})
	c := newTestCatalog(t, r)

	items, err := c.Search(context.Background(), content.KindTV, "severance")
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = c.Recommend(context.Background(), content.KindMovie, "scary")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestDiscoverGenre(t *testing.T) {
	calls := 0
	r := chi.NewRouter()
	r.Get("/discover-movies", func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "27", r.URL.Query().Get("with_genres"))
		writeJSON(w, movieList)
	})
	r.Get("/discover-anime", func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "Shounen", r.URL.Query().Get("genre"))
		writeJSON(w, `{"data":[]}`)
	})
	c := newTestCatalog(t, r)

	_, ok, err := c.DiscoverGenre(context.Background(), content.KindMovie, "Horror")
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = c.DiscoverGenre(context.Background(), content.KindAnime, "Shounen")
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = c.DiscoverGenre(context.Background(), content.KindMovie, "Shounen")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 2, calls)
}

func TestDiscover(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/discover-tv", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2000", q.Get("year_min"))
		assert.Equal(t, "18,80", q.Get("with_genres"))
		writeJSON(w, `{"results":[]}`)
	})
	c := newTestCatalog(t, r)

	spec := content.FilterSpec{YearMin: 2000, YearMax: 2010, SortBy: "popularity.desc", Genres: []string{"18", "80"}}
	_, err := c.Discover(context.Background(), content.KindTV, spec)
	require.NoError(t, err)

	spec.YearMin = 2020
	_, err = c.Discover(context.Background(), content.KindTV, spec)
	assert.ErrorIs(t, err, content.ErrInvalidFilter)
}

func TestDetail(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/movie/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "27205", chi.URLParam(r, "id"))
		writeJSON(w, `{"id":27205,"title":"Inception","genres":[{"name":"Action"}]}`)
	})
	r.Get("/anime/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	c := newTestCatalog(t, r)

	d, err := c.Detail(context.Background(), content.KindMovie, "27205")
	require.NoError(t, err)
	assert.Equal(t, "Inception", d.Title)

	_, err = c.Detail(context.Background(), content.KindAnime, "1")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, httpclient.StatusCode(err))
}
