package scrape

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestFetcher(t *testing.T, handler http.HandlerFunc) Fetcher {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("FIRECRAWL_API_KEY", "test-key")

	fetcher, err := NewFirecrawlFetcher(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	return fetcher
}

func TestFetch(t *testing.T) {
	assert := assert.New(t)

	var got scrapeRequest

	fetcher := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("/v1/scrape", r.URL.Path)
		assert.Equal("Bearer test-key", r.Header.Get("Authorization"))

		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			assert.Fail(err.Error())
		}

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"markdown": "# Postpartum Recovery\n\nRest is essential.",
				"metadata": map[string]any{
					"title": "Postpartum Recovery Basics",
				},
			},
		})
	})

	result, err := fetcher.Fetch(context.Background(), "https://example.com/recovery")
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal("# Postpartum Recovery\n\nRest is essential.", result.Content)
	assert.Equal("Postpartum Recovery Basics", result.Title)

	assert.Equal("https://example.com/recovery", got.URL)
	assert.Equal([]string{"markdown"}, got.Formats)
	assert.True(got.OnlyMainContent)
}

func TestFetchTitleFallsBackToURL(t *testing.T) {
	assert := assert.New(t)

	fetcher := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"markdown": "Some content without a title.",
			},
		})
	})

	result, err := fetcher.Fetch(context.Background(), "https://example.com/untitled")
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal("https://example.com/untitled", result.Title)
}

func TestFetchNoContent(t *testing.T) {
	assert := assert.New(t)

	fetcher := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{},
		})
	})

	_, err := fetcher.Fetch(context.Background(), "https://example.com/empty")
	assert.ErrorIs(err, ErrNoContent)
}

func TestFetchServerError(t *testing.T) {
	assert := assert.New(t)

	fetcher := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := fetcher.Fetch(context.Background(), "https://example.com/broken")
	assert.ErrorIs(err, ErrScrapeFailed)
}
