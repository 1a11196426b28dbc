package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewWithBaseURL("test-key", srv.URL)
}

func TestDetailsMovie(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":603,"title":"The Matrix","overview":"A hacker.","poster_path":"/p.jpg","backdrop_path":"/b.jpg","vote_average":8.2,"release_date":"1999-03-31"}`))
	})

	d, err := c.Details(context.Background(), 603, "movie")
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", d.Title)
	assert.Equal(t, "movie", d.MediaType)
	assert.Equal(t, "1999-03-31", d.ReleaseDate)
	assert.Equal(t, 8.2, d.VoteAverage)
}

func TestDetailsTVFieldMapping(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/1396", r.URL.Path)
		w.Write([]byte(`{"id":1396,"name":"Breaking Bad","first_air_date":"2008-01-20","number_of_seasons":5}`))
	})

	d, err := c.Details(context.Background(), 1396, "tv")
	require.NoError(t, err)
	// TV spells the fields differently; the client normalizes.
	assert.Equal(t, "Breaking Bad", d.Title)
	assert.Equal(t, "2008-01-20", d.ReleaseDate)
	assert.Equal(t, 5, d.NumberOfSeasons)
}

func TestDetailsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.Details(context.Background(), 99999999, "movie")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDetailsRejectsBadMediaType(t *testing.T) {
	c := NewWithBaseURL("test-key", "http://127.0.0.1:1")
	_, err := c.Details(context.Background(), 603, "radio")
	assert.Error(t, err)
}

func TestSearchMulti(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/multi", r.URL.Path)
		assert.Equal(t, "the matrix", r.URL.Query().Get("query"))
		w.Write([]byte(`{"results":[{"id":603,"title":"The Matrix","media_type":"movie"},{"id":1396,"name":"Breaking Bad","media_type":"tv","first_air_date":"2008-01-20"}]}`))
	})

	results, err := c.Search(context.Background(), "the matrix", "multi")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "movie", results[0].MediaType)
	assert.Equal(t, "tv", results[1].MediaType)
	assert.Equal(t, "Breaking Bad", results[1].Title)
}

func TestListTrendingPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trending/movie/week", r.URL.Path)
		w.Write([]byte(`{"results":[{"id":1,"title":"A"}]}`))
	})

	results, err := c.List(context.Background(), "trending", "movie", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestListCategoryPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/top_rated", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{"results":[]}`))
	})

	results, err := c.List(context.Background(), "top_rated", "tv", 2)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSeasons(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/1396", r.URL.Path)
		w.Write([]byte(`{"seasons":[{"id":1,"season_number":1,"name":"Season 1","episode_count":7}]}`))
	})

	seasons, err := c.Seasons(context.Background(), 1396)
	require.NoError(t, err)
	require.Len(t, seasons, 1)
	assert.Equal(t, 7, seasons[0].EpisodeCount)
}

func TestEmptyAPIKey(t *testing.T) {
	c := NewWithBaseURL("", "http://127.0.0.1:1")
	_, err := c.Details(context.Background(), 603, "movie")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/p.jpg", ImageURL("/p.jpg", "w500"))

	placeholder := ImageURL("", "w500")
	assert.True(t, strings.HasPrefix(placeholder, "https://via.placeholder.com/"))
	assert.Contains(t, placeholder, "500x750")
}

func TestImages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603/images", r.URL.Path)
		assert.Equal(t, "en,null", r.URL.Query().Get("include_image_language"))
		w.Write([]byte(`{"logos":[{"file_path":"/l.png","width":800,"height":310}],"backdrops":[{"file_path":"/b.jpg"}],"posters":[]}`))
	})

	set, err := c.Images(context.Background(), 603, "movie")
	require.NoError(t, err)
	require.Len(t, set.Logos, 1)
	assert.Equal(t, "/l.png", set.Logos[0].FilePath)
	require.Len(t, set.Backdrops, 1)
	assert.Empty(t, set.Posters)
}
