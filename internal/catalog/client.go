// Package catalog fetches movie metadata from the external provider
// (TMDb-compatible API). The service core treats movie IDs from here
// as opaque keys; nothing in the booking flow validates them against
// the provider again.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moviebook/moviebook/internal/model"
	"github.com/moviebook/moviebook/internal/monitoring"
)

// ErrUnavailable is returned when the provider cannot be reached and
// no cached fallback payload exists. Handlers translate it into a
// retry-able 503 for the user.
var ErrUnavailable = errors.New("movie catalog unavailable")

const (
	maxAttempts   = 4
	retryBaseWait = 600 * time.Millisecond
	fallbackTTL   = 24 * time.Hour
)

// Client talks to the metadata provider with bounded retries. When a
// Redis client is configured, the last good payload of each read is
// kept as a fallback so transient provider outages do not blank the
// browse page.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	rdb     *redis.Client // optional; nil disables the fallback cache
}

// NewClient builds a catalog client. rdb may be nil.
func NewClient(baseURL, apiKey string, rdb *redis.Client) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 12 * time.Second},
		rdb:     rdb,
	}
}

// listResponse is the provider's envelope for discover/trending/search.
type listResponse struct {
	Results []model.Movie `json:"results"`
}

// detailsResponse is the provider's movie-details payload; unlike list
// rows it carries resolved genre objects instead of genre_ids.
type detailsResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	Genres      []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

// get performs one provider GET with retry on 429/5xx and network
// errors, honoring ctx cancellation between attempts.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	u := c.baseURL + path + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			wait := retryBaseWait * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", "MovieBook/1.0")

		resp, err := c.httpc.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		switch {
		case resp.StatusCode == http.StatusOK:
			return json.Unmarshal(body, out)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("provider status %d", resp.StatusCode)
			continue
		default:
			return fmt.Errorf("provider status %d", resp.StatusCode)
		}
	}
	return fmt.Errorf("all attempts failed: %w", lastErr)
}

// filterPresentable drops rows missing the fields the browse page needs.
func filterPresentable(movies []model.Movie) []model.Movie {
	out := make([]model.Movie, 0, len(movies))
	for _, m := range movies {
		if m.ID != 0 && m.Title != "" && m.PosterPath != "" {
			m.Genres = GenreNames(m.GenreIDs)
			out = append(out, m)
		}
	}
	return out
}

// Recent returns presentable movies released in the last week, falling
// back first to the weekly trending list and then to the last good
// cached payload. An empty slice with no error means the provider
// answered but had nothing presentable.
func (c *Client) Recent(ctx context.Context) ([]model.Movie, error) {
	today := time.Now().UTC()
	weekAgo := today.AddDate(0, 0, -7)

	params := url.Values{}
	params.Set("language", "en-US")
	params.Set("sort_by", "primary_release_date.desc")
	params.Set("primary_release_date.gte", weekAgo.Format("2006-01-02"))
	params.Set("primary_release_date.lte", today.Format("2006-01-02"))
	params.Set("vote_average.gte", "4")
	params.Set("with_release_type", "2|3")
	params.Set("page", "1")

	var resp listResponse
	if err := c.get(ctx, "/discover/movie", params, &resp); err == nil {
		if movies := filterPresentable(resp.Results); len(movies) > 0 {
			monitoring.CatalogRequest("recent", "ok")
			c.saveFallback(ctx, "catalog:recent", movies)
			return movies, nil
		}
	} else {
		log.Printf("catalog: discover failed: %v", err)
	}

	trendParams := url.Values{}
	trendParams.Set("language", "en-US")
	var trend listResponse
	if err := c.get(ctx, "/trending/movie/week", trendParams, &trend); err == nil {
		if movies := filterPresentable(trend.Results); len(movies) > 0 {
			monitoring.CatalogRequest("recent", "ok")
			c.saveFallback(ctx, "catalog:recent", movies)
			return movies, nil
		}
	} else {
		log.Printf("catalog: trending failed: %v", err)
	}

	var cached []model.Movie
	if c.loadFallback(ctx, "catalog:recent", &cached) {
		monitoring.CatalogRequest("recent", "fallback")
		return cached, nil
	}
	monitoring.CatalogRequest("recent", "error")
	return nil, ErrUnavailable
}

// Details fetches one movie by provider ID, with the cached last good
// payload as fallback.
func (c *Client) Details(ctx context.Context, id int64) (model.Movie, error) {
	key := "catalog:movie:" + strconv.FormatInt(id, 10)
	params := url.Values{}
	params.Set("language", "en-US")

	var resp detailsResponse
	err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10), params, &resp)
	if err == nil && resp.ID == id {
		m := model.Movie{
			ID:          resp.ID,
			Title:       resp.Title,
			Overview:    resp.Overview,
			PosterPath:  resp.PosterPath,
			ReleaseDate: resp.ReleaseDate,
			VoteAverage: resp.VoteAverage,
		}
		for _, g := range resp.Genres {
			m.GenreIDs = append(m.GenreIDs, g.ID)
			m.Genres = append(m.Genres, g.Name)
		}
		monitoring.CatalogRequest("details", "ok")
		c.saveFallback(ctx, key, m)
		return m, nil
	}
	if err != nil {
		log.Printf("catalog: details %d failed: %v", id, err)
	}
	var cached model.Movie
	if c.loadFallback(ctx, key, &cached) {
		monitoring.CatalogRequest("details", "fallback")
		return cached, nil
	}
	monitoring.CatalogRequest("details", "error")
	return model.Movie{}, ErrUnavailable
}

// Search queries the provider for movies matching q. Search results
// are not cached; a miss during an outage is acceptable.
func (c *Client) Search(ctx context.Context, q string) ([]model.Movie, error) {
	params := url.Values{}
	params.Set("query", q)
	var resp listResponse
	if err := c.get(ctx, "/search/movie", params, &resp); err != nil {
		monitoring.CatalogRequest("search", "error")
		return nil, ErrUnavailable
	}
	monitoring.CatalogRequest("search", "ok")
	movies := resp.Results
	for i := range movies {
		movies[i].Genres = GenreNames(movies[i].GenreIDs)
	}
	return movies, nil
}

func (c *Client) saveFallback(ctx context.Context, key string, v interface{}) {
	if c.rdb == nil {
		return
	}
	bs, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.SetEx(ctx, key, bs, fallbackTTL).Err(); err != nil {
		log.Printf("catalog: save fallback %s: %v", key, err)
	}
}

func (c *Client) loadFallback(ctx context.Context, key string, v interface{}) bool {
	if c.rdb == nil {
		return false
	}
	bs, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(bs, v) == nil
}
