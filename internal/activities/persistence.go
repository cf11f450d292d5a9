package activities

import (
	"context"
	"time"

	"go.temporal.io/sdk/activity"

	"github.com/omnix-ai/orchestrator/internal/db"
	"github.com/omnix-ai/orchestrator/internal/metrics"
)

// PersistInput is the execution record of one completed task.
type PersistInput struct {
	TaskID            string   `json:"task_id"`
	SourceName        string   `json:"source_name"`
	TaskText          string   `json:"task_text"`
	Domain            string   `json:"domain"`
	Query             string   `json:"query"`
	Destination       string   `json:"destination,omitempty"`
	Response          string   `json:"response"`
	ToolsInvoked      []string `json:"tools_invoked"`
	StepCount         int      `json:"step_count"`
	SearchSucceeded   bool     `json:"search_succeeded"`
	PagesFetched      int      `json:"pages_fetched"`
	DeliveryAttempted bool     `json:"delivery_attempted"`
	DeliverySucceeded bool     `json:"delivery_succeeded"`
	ElapsedSeconds    float64  `json:"elapsed_seconds"`
	CompletedAt       time.Time `json:"completed_at"`
}

// PersistExecution writes the record. Runs after the task result is final;
// without a configured store it logs and succeeds so unpersisted deployments
// behave identically apart from the missing rows.
func (a *Activities) PersistExecution(ctx context.Context, input PersistInput) error {
	logger := activity.GetLogger(ctx)

	if a.store == nil {
		logger.Warn("PersistExecution: no store configured, skipping", "task_id", input.TaskID)
		return nil
	}

	rec := &db.ExecutionRecord{
		TaskID:            input.TaskID,
		SourceName:        input.SourceName,
		TaskText:          input.TaskText,
		Domain:            input.Domain,
		Query:             input.Query,
		Destination:       input.Destination,
		Response:          input.Response,
		ToolsInvoked:      db.JoinTools(input.ToolsInvoked),
		StepCount:         input.StepCount,
		SearchSucceeded:   input.SearchSucceeded,
		PagesFetched:      input.PagesFetched,
		DeliveryAttempted: input.DeliveryAttempted,
		DeliverySucceeded: input.DeliverySucceeded,
		ElapsedSeconds:    input.ElapsedSeconds,
		CreatedAt:         input.CompletedAt,
	}
	if err := a.store.SaveExecution(ctx, rec); err != nil {
		metrics.ExecutionsPersisted.WithLabelValues("error").Inc()
		logger.Error("PersistExecution: save failed", "task_id", input.TaskID, "error", err)
		return err
	}

	metrics.ExecutionsPersisted.WithLabelValues("ok").Inc()
	logger.Info("PersistExecution: complete", "task_id", input.TaskID)
	return nil
}
