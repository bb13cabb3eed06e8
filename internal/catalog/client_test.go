package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviebook/moviebook/internal/model"
)

func listPayload(movies ...map[string]interface{}) []byte {
	bs, _ := json.Marshal(map[string]interface{}{"results": movies})
	return bs
}

func movieRow(id int64, title, poster string) map[string]interface{} {
	return map[string]interface{}{
		"id": id, "title": title, "poster_path": poster,
		"vote_average": 7.1, "genre_ids": []int64{28, 35},
	}
}

func TestRecent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "discover-key", r.URL.Query().Get("api_key"))
		switch r.URL.Path {
		case "/discover/movie":
			// One presentable row, one without a poster that must be filtered.
			_, _ = w.Write(listPayload(
				movieRow(1, "Presentable", "/p1.jpg"),
				movieRow(2, "No Poster", ""),
			))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "discover-key", nil)
	movies, err := c.Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, int64(1), movies[0].ID)
	assert.Equal(t, []string{"Action", "Comedy"}, movies[0].Genres)
}

func TestRecentFallsBackToTrending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/discover/movie":
			_, _ = w.Write(listPayload()) // empty window
		case "/trending/movie/week":
			_, _ = w.Write(listPayload(movieRow(5, "Trending", "/t.jpg")))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", nil)
	movies, err := c.Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Trending", movies[0].Title)
}

func TestRecentUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", nil)
	_, err := c.Recent(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "try later", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(listPayload(movieRow(9, "Eventually", "/e.jpg")))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", nil)
	var resp listResponse
	err := c.get(context.Background(), "/discover/movie", nil, &resp)
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	require.Len(t, resp.Results, 1)
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", nil)
	var resp listResponse
	err := c.get(context.Background(), "/discover/movie", nil, &resp)
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/42", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 42, "title": "The Answer", "poster_path": "/a.jpg",
			"genres": []map[string]interface{}{{"id": 18, "name": "Drama"}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", nil)
	m, err := c.Details(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "The Answer", m.Title)
	assert.Equal(t, []string{"Drama"}, m.Genres)
}

func TestDetailsMismatchedID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 7, "title": "Wrong"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", nil)
	_, err := c.Details(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "blade", r.URL.Query().Get("query"))
		_, _ = w.Write(listPayload(movieRow(11, "Blade Runner", "/b.jpg")))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", nil)
	movies, err := c.Search(context.Background(), "blade")
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Blade Runner", movies[0].Title)
}

func TestGroupByGenre(t *testing.T) {
	movies := []model.Movie{
		{ID: 1, Title: "A", GenreIDs: []int64{28}},
		{ID: 2, Title: "B", GenreIDs: []int64{28, 35}},
		{ID: 3, Title: "C", GenreIDs: []int64{99999}}, // unknown genre
	}
	grouped := GroupByGenre(movies)
	assert.Len(t, grouped["Action"], 2)
	assert.Len(t, grouped["Comedy"], 1)
	assert.NotContains(t, grouped, "99999")
}
