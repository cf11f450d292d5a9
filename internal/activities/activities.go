// Package activities implements the Temporal activities of the task
// pipeline: web search, page fetching, report delivery, and execution
// persistence. Collaborator failures are folded into the outcome payloads so
// the workflow keeps running on partial results; an activity error means the
// activity itself could not do its job at all.
package activities

import (
	"context"

	"go.uber.org/zap"

	"github.com/omnix-ai/orchestrator/internal/cache"
	"github.com/omnix-ai/orchestrator/internal/db"
	"github.com/omnix-ai/orchestrator/internal/tools"
)

// Activity names registered on the worker. Workflows refer to activities by
// these strings so tests can register mocks under the same names.
const (
	SearchWebActivity        = "SearchWeb"
	FetchPageActivity        = "FetchPage"
	DeliverReportActivity    = "DeliverReport"
	PersistExecutionActivity = "PersistExecution"
)

// SearchClient runs a ranked web search.
type SearchClient interface {
	Search(ctx context.Context, query string, limit int) tools.SearchResponse
}

// ScrapeClient fetches one page as text with publication metadata.
type ScrapeClient interface {
	Scrape(ctx context.Context, url string) tools.ScrapeResponse
}

// Mailer delivers a rendered report.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) tools.DeliveryResult
}

// Activities holds the collaborator dependencies. Pages and store may be
// nil: the page cache then degrades to always-miss and persistence to a
// logged no-op.
type Activities struct {
	search SearchClient
	scrape ScrapeClient
	mailer Mailer
	pages  *cache.PageCache
	store  *db.Store
	logger *zap.Logger
}

// NewActivities creates an activities instance with dependencies.
func NewActivities(search SearchClient, scrape ScrapeClient, mailer Mailer, pages *cache.PageCache, store *db.Store, logger *zap.Logger) *Activities {
	return &Activities{
		search: search,
		scrape: scrape,
		mailer: mailer,
		pages:  pages,
		store:  store,
		logger: logger,
	}
}
