package workflows

import (
	"github.com/omnix-ai/orchestrator/internal/models"
)

// TaskQueue is the worker queue the orchestrator serves.
const TaskQueue = "omnix-tasks"

// TaskInput starts one task workflow.
type TaskInput struct {
	// TaskID identifies the execution, `exec_<uuid>`. The client wrapper
	// fills it in when empty.
	TaskID string `json:"task_id"`
	// TaskText is the free-text request as the user wrote it.
	TaskText string `json:"task_text"`
	// SourceName overrides the per-domain assistant display name on the
	// report. Optional.
	SourceName string `json:"source_name,omitempty"`
	// MaxResults caps search results and therefore concurrent page
	// fetches. Zero means the default of 3.
	MaxResults int `json:"max_results,omitempty"`
}

// Tool names in invocation order, matching the tools_invoked record column.
const (
	ToolWebSearch       = "web_search"
	ToolContentScraping = "content_scraping"
	ToolSendEmail       = "send_email"
)

// DefaultMaxResults bounds one search, and with it the fetch fan-out.
const DefaultMaxResults = 3

// TaskResult is the execution record returned to the caller. It owns copies
// of the intermediate stage outputs.
type TaskResult struct {
	TaskID          string                  `json:"task_id"`
	Response        string                  `json:"response"`
	Domain          string                  `json:"domain"`
	Query           string                  `json:"query"`
	SourceName      string                  `json:"source_name"`
	ToolsInvoked    []string                `json:"tools_invoked"`
	Steps           int                     `json:"steps"`
	SearchSucceeded bool                    `json:"search_succeeded"`
	Results         []models.SearchResult   `json:"results,omitempty"`
	Pages           []models.FetchedPage    `json:"pages,omitempty"`
	Dispatch        models.DispatchOutcome  `json:"dispatch"`
	ElapsedSeconds  float64                 `json:"elapsed_seconds"`
}
