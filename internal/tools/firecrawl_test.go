package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *FirecrawlClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewFirecrawlClient(FirecrawlConfig{
		APIKey:  "fc-test-key",
		BaseURL: srv.URL,
	}, zap.NewNop())
}

func TestSearchSuccess(t *testing.T) {
	longDesc := strings.Repeat("x", 1200)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "Bearer fc-test-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "paris weather", body["query"])
		assert.Equal(t, float64(3), body["limit"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{
				{"title": "Paris Forecast", "url": "https://example.com/a", "description": longDesc},
				{"url": "https://example.com/b", "description": "short"},
			},
		})
	})

	out := c.Search(context.Background(), "paris weather", 3)

	require.True(t, out.Succeeded)
	require.Len(t, out.Results, 2)
	assert.Equal(t, "Paris Forecast", out.Results[0].Title)
	assert.Len(t, out.Results[0].Snippet, 300)
	assert.Len(t, out.Results[0].ContentPreview, 1000)
	// Missing titles get a placeholder, order follows the API ranking.
	assert.Equal(t, "No title", out.Results[1].Title)
	assert.Equal(t, "short", out.Results[1].Snippet)
}

func TestSearchMissingAPIKey(t *testing.T) {
	c := NewFirecrawlClient(FirecrawlConfig{}, zap.NewNop())

	out := c.Search(context.Background(), "anything", 3)

	assert.False(t, out.Succeeded)
	assert.Equal(t, "Firecrawl API key not configured", out.Error)
	assert.Empty(t, out.Results)
}

func TestSearchAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	out := c.Search(context.Background(), "anything", 3)

	assert.False(t, out.Succeeded)
	assert.Equal(t, "Firecrawl API error: 429", out.Error)
}

func TestSearchTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	c := NewFirecrawlClient(FirecrawlConfig{APIKey: "fc-test-key", BaseURL: srv.URL}, zap.NewNop())

	out := c.Search(context.Background(), "anything", 3)

	assert.False(t, out.Succeeded)
	assert.Contains(t, out.Error, "Search failed: ")
}

func TestScrapeSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/scrape", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://example.com/article", body["url"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"markdown": "# Article\n\nBody text.",
				"metadata": map[string]string{
					"author":        "J. Writer",
					"publishedTime": "2025-03-01",
				},
			},
		})
	})

	out := c.Scrape(context.Background(), "https://example.com/article")

	require.True(t, out.Succeeded)
	assert.Equal(t, "# Article\n\nBody text.", out.Content)
	assert.Equal(t, "J. Writer", out.Author)
	assert.Equal(t, "2025-03-01", out.PublishedAt)
}

func TestScrapeMissingAPIKey(t *testing.T) {
	c := NewFirecrawlClient(FirecrawlConfig{}, zap.NewNop())

	out := c.Scrape(context.Background(), "https://example.com")

	assert.False(t, out.Succeeded)
	assert.Equal(t, "Firecrawl API key not configured", out.Error)
}

func TestScrapeAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	out := c.Scrape(context.Background(), "https://example.com")

	assert.False(t, out.Succeeded)
	assert.Equal(t, "Firecrawl API error: 403", out.Error)
}

func TestSearchDefaultLimit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(5), body["limit"])
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []map[string]string{}})
	})

	out := c.Search(context.Background(), "anything", 0)
	assert.True(t, out.Succeeded)
}
