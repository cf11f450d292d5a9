package activities

import (
	"context"

	"go.temporal.io/sdk/activity"

	"github.com/omnix-ai/orchestrator/internal/metrics"
	"github.com/omnix-ai/orchestrator/internal/models"
	"github.com/omnix-ai/orchestrator/internal/tracing"
)

// SearchInput asks for up to Limit ranked results for Query.
type SearchInput struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// SearchWeb runs one web search. A failed search is returned as data with
// Succeeded=false; the error return stays nil so the workflow is never
// retried into a second billable API call.
func (a *Activities) SearchWeb(ctx context.Context, input SearchInput) (*models.SearchOutcome, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("SearchWeb: starting", "query", input.Query, "limit", input.Limit)

	ctx, span := tracing.StartSpan(ctx, "search_web")
	defer span.End()

	resp := a.search.Search(ctx, input.Query, input.Limit)
	out := &models.SearchOutcome{
		Succeeded: resp.Succeeded,
		Error:     resp.Error,
	}
	for _, r := range resp.Results {
		out.Results = append(out.Results, models.SearchResult{
			Title:          r.Title,
			URL:            r.URL,
			Snippet:        r.Snippet,
			ContentPreview: r.ContentPreview,
		})
	}

	if out.Succeeded {
		metrics.SearchCalls.WithLabelValues("ok").Inc()
		logger.Info("SearchWeb: complete", "results", len(out.Results))
	} else {
		metrics.SearchCalls.WithLabelValues("error").Inc()
		logger.Warn("SearchWeb: failed", "error", out.Error)
	}
	return out, nil
}

// FetchInput names one URL to fetch.
type FetchInput struct {
	URL string `json:"url"`
}

// FetchPage returns the page content for one URL, from the cache when a
// fresh copy exists. Fetch failures are data: the page comes back with
// Succeeded=false and the pipeline analyzes whatever else it has.
func (a *Activities) FetchPage(ctx context.Context, input FetchInput) (*models.FetchedPage, error) {
	logger := activity.GetLogger(ctx)

	if a.pages != nil {
		if page, ok := a.pages.Get(ctx, input.URL); ok {
			logger.Info("FetchPage: cache hit", "url", input.URL)
			metrics.PagesFetched.WithLabelValues("cached").Inc()
			return &page, nil
		}
	}

	ctx, span := tracing.StartHTTPSpan(ctx, "POST", input.URL)
	defer span.End()

	resp := a.scrape.Scrape(ctx, input.URL)
	page := &models.FetchedPage{
		SourceURL:   input.URL,
		Succeeded:   resp.Succeeded,
		Content:     resp.Content,
		Author:      resp.Author,
		PublishedAt: resp.PublishedAt,
		Error:       resp.Error,
	}

	if page.Succeeded {
		metrics.PagesFetched.WithLabelValues("ok").Inc()
		if a.pages != nil {
			a.pages.Put(ctx, *page)
		}
		logger.Info("FetchPage: complete", "url", input.URL, "bytes", len(page.Content))
	} else {
		metrics.PagesFetched.WithLabelValues("error").Inc()
		logger.Warn("FetchPage: failed", "url", input.URL, "error", page.Error)
	}
	return page, nil
}
