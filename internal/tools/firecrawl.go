// Package tools wraps the outbound collaborators: Firecrawl for web search
// and page scraping, SMTP for report delivery. Collaborator failures are
// returned as data in the outcome types, never as Go errors, so callers keep
// running the pipeline on partial results.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultFirecrawlBaseURL = "https://api.firecrawl.dev"
	searchTimeout           = 30 * time.Second
	scrapeTimeout           = 45 * time.Second

	snippetMaxLen = 300
	previewMaxLen = 1000
)

// FirecrawlConfig configures the search/scrape client.
type FirecrawlConfig struct {
	APIKey  string  `mapstructure:"api_key"`
	BaseURL string  `mapstructure:"base_url"`
	// Requests per second against the Firecrawl API, shared by search and
	// scrape. Zero disables throttling.
	RateLimit float64 `mapstructure:"rate_limit"`
}

// FirecrawlClient calls the Firecrawl v1 HTTP API.
type FirecrawlClient struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// SearchResponse mirrors the wire shape consumed by callers.
type SearchResponse struct {
	Succeeded bool
	Results   []SearchResult
	Error     string
}

// SearchResult is one ranked hit from a search call.
type SearchResult struct {
	Title          string
	URL            string
	Snippet        string
	ContentPreview string
}

// ScrapeResponse is the outcome of scraping one URL.
type ScrapeResponse struct {
	Succeeded   bool
	Content     string
	Author      string
	PublishedAt string
	Error       string
}

// NewFirecrawlClient builds a client. An empty API key is allowed: calls
// then return unsucceeded outcomes without touching the network, matching
// the degraded mode the pipeline expects.
func NewFirecrawlClient(cfg FirecrawlConfig, logger *zap.Logger) *FirecrawlClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultFirecrawlBaseURL
	}
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return &FirecrawlClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpc:   &http.Client{Timeout: scrapeTimeout},
		limiter: limiter,
		logger:  logger,
	}
}

// Search runs a web search and returns up to limit ranked results, snippets
// capped at 300 chars and content previews at 1000.
func (c *FirecrawlClient) Search(ctx context.Context, query string, limit int) SearchResponse {
	if c.apiKey == "" {
		return SearchResponse{Error: "Firecrawl API key not configured"}
	}
	if limit <= 0 {
		limit = 5
	}
	if err := c.wait(ctx); err != nil {
		return SearchResponse{Error: fmt.Sprintf("Search failed: %v", err)}
	}

	payload := map[string]interface{}{
		"query": query,
		"limit": limit,
	}
	var wire struct {
		Data []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"data"`
	}
	if err := c.post(ctx, "/v1/search", payload, searchTimeout, &wire); err != nil {
		c.logger.Warn("Firecrawl search failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return SearchResponse{Error: searchError(err)}
	}

	out := SearchResponse{Succeeded: true}
	for _, item := range wire.Data {
		title := item.Title
		if title == "" {
			title = "No title"
		}
		out.Results = append(out.Results, SearchResult{
			Title:          title,
			URL:            item.URL,
			Snippet:        clip(item.Description, snippetMaxLen),
			ContentPreview: clip(item.Description, previewMaxLen),
		})
	}
	return out
}

// Scrape fetches one URL as markdown with publication metadata.
func (c *FirecrawlClient) Scrape(ctx context.Context, url string) ScrapeResponse {
	if c.apiKey == "" {
		return ScrapeResponse{Error: "Firecrawl API key not configured"}
	}
	if err := c.wait(ctx); err != nil {
		return ScrapeResponse{Error: fmt.Sprintf("Scrape failed: %v", err)}
	}

	payload := map[string]interface{}{
		"url":     url,
		"formats": []string{"markdown"},
	}
	var wire struct {
		Data struct {
			Markdown string `json:"markdown"`
			Metadata struct {
				Author        string `json:"author"`
				PublishedTime string `json:"publishedTime"`
			} `json:"metadata"`
		} `json:"data"`
	}
	if err := c.post(ctx, "/v1/scrape", payload, scrapeTimeout, &wire); err != nil {
		c.logger.Warn("Firecrawl scrape failed",
			zap.String("url", url),
			zap.Error(err),
		)
		return ScrapeResponse{Error: scrapeError(err)}
	}

	return ScrapeResponse{
		Succeeded:   true,
		Content:     wire.Data.Markdown,
		Author:      wire.Data.Metadata.Author,
		PublishedAt: wire.Data.Metadata.PublishedTime,
	}
}

func (c *FirecrawlClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// httpStatusError distinguishes API status failures from transport failures
// so outcome messages keep the status code.
type httpStatusError struct{ code int }

func (e *httpStatusError) Error() string { return fmt.Sprintf("HTTP %d", e.code) }

func (c *FirecrawlClient) post(ctx context.Context, path string, payload interface{}, timeout time.Duration, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &httpStatusError{code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func searchError(err error) string {
	if se, ok := err.(*httpStatusError); ok {
		return fmt.Sprintf("Firecrawl API error: %d", se.code)
	}
	return fmt.Sprintf("Search failed: %v", err)
}

func scrapeError(err error) string {
	if se, ok := err.(*httpStatusError); ok {
		return fmt.Sprintf("Firecrawl API error: %d", se.code)
	}
	return fmt.Sprintf("Scrape failed: %v", err)
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
