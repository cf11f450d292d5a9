package workflows

import (
	"fmt"
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/omnix-ai/orchestrator/internal/activities"
	"github.com/omnix-ai/orchestrator/internal/insights"
	"github.com/omnix-ai/orchestrator/internal/intent"
	"github.com/omnix-ai/orchestrator/internal/models"
	"github.com/omnix-ai/orchestrator/internal/report"
)

// ResearchTaskWorkflow drives one task through the full pipeline: intent
// extraction, search-then-fetch research, insight analysis, report
// synthesis, optional delivery, and fire-and-forget persistence.
//
// Collaborator failures (search, fetch, delivery) arrive as data and the
// pipeline continues past them; a workflow error here means the pipeline
// itself broke, which fails the single task with no partial record.
func ResearchTaskWorkflow(ctx workflow.Context, input TaskInput) (TaskResult, error) {
	logger := workflow.GetLogger(ctx)
	started := workflow.Now(ctx)

	in := intent.Extract(input.TaskText)
	logger.Info("Starting ResearchTaskWorkflow",
		"task_id", input.TaskID,
		"domain", in.Domain.String(),
		"query", in.Query,
		"needs_research", in.NeedsResearch,
	)

	sourceName := input.SourceName
	if sourceName == "" {
		sourceName = in.Domain.DisplayName()
	}
	maxResults := input.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	// Collaborators are never retried: a second attempt would be a second
	// billable API call or a duplicate email.
	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	result := TaskResult{
		TaskID:     input.TaskID,
		Domain:     in.Domain.String(),
		Query:      in.Query,
		SourceName: sourceName,
	}

	search := models.SearchOutcome{}
	if in.NeedsResearch {
		result.Steps++
		if err := workflow.ExecuteActivity(ctx, activities.SearchWebActivity, activities.SearchInput{
			Query: in.Query,
			Limit: maxResults,
		}).Get(ctx, &search); err != nil {
			logger.Error("Search activity failed", "error", err)
			return TaskResult{}, fmt.Errorf("search stage: %w", err)
		}
		result.ToolsInvoked = append(result.ToolsInvoked, ToolWebSearch)
		result.SearchSucceeded = search.Succeeded
		result.Results = search.Results

		if search.Succeeded && len(search.Results) > 0 {
			result.Steps++
			pages, err := fetchPages(ctx, search.Results)
			if err != nil {
				return TaskResult{}, fmt.Errorf("fetch stage: %w", err)
			}
			result.Pages = pages
			result.ToolsInvoked = append(result.ToolsInvoked, ToolContentScraping)
		}
	}

	if in.Destination != "" {
		result.Steps++
		outcome, err := dispatchReport(ctx, input.TaskText, in, sourceName, search, result.Pages)
		if err != nil {
			return TaskResult{}, fmt.Errorf("delivery stage: %w", err)
		}
		result.Dispatch = outcome
		result.ToolsInvoked = append(result.ToolsInvoked, ToolSendEmail)
	}

	result.Response = buildResponse(in, search, result.Pages, result.Dispatch)
	result.ElapsedSeconds = workflow.Now(ctx).Sub(started).Seconds()

	persistResult(ctx, input, in, &result)

	logger.Info("ResearchTaskWorkflow completed",
		"task_id", input.TaskID,
		"tools", strings.Join(result.ToolsInvoked, ","),
		"steps", result.Steps,
	)
	return result, nil
}

// fetchPages retrieves every result URL concurrently. All futures are
// launched before any is awaited, so the fan-out is bounded by the result
// count; collecting in submission order keeps page order aligned with the
// search ranking.
func fetchPages(ctx workflow.Context, results []models.SearchResult) ([]models.FetchedPage, error) {
	futures := make([]workflow.Future, 0, len(results))
	for _, r := range results {
		if r.URL == "" {
			futures = append(futures, nil)
			continue
		}
		futures = append(futures, workflow.ExecuteActivity(ctx, activities.FetchPageActivity, activities.FetchInput{
			URL: r.URL,
		}))
	}

	pages := make([]models.FetchedPage, 0, len(results))
	for i, f := range futures {
		if f == nil {
			pages = append(pages, models.FetchedPage{Error: "no URL in search result"})
			continue
		}
		var page models.FetchedPage
		if err := f.Get(ctx, &page); err != nil {
			return nil, fmt.Errorf("fetch %s: %w", results[i].URL, err)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// dispatchReport analyzes the fetched content, renders the report, and
// sends it. Analysis and synthesis are pure and run inside the workflow;
// workflow.Now keeps the report timestamp replay-safe.
func dispatchReport(ctx workflow.Context, taskText string, in intent.Intent, sourceName string, search models.SearchOutcome, pages []models.FetchedPage) (models.DispatchOutcome, error) {
	subject := sourceName + " - Task Completion Report"
	if search.Succeeded {
		subject = "Comprehensive Research Report: " + in.Query
	}

	bundle := insights.Analyze(pages, in.Domain)
	body := report.Synthesize(report.Input{
		TaskText:        taskText,
		Intent:          in,
		SourceName:      sourceName,
		SearchSucceeded: search.Succeeded,
		Results:         search.Results,
		Pages:           pages,
		Insights:        bundle,
		GeneratedAt:     workflow.Now(ctx),
	})

	var delivery models.DeliveryOutcome
	if err := workflow.ExecuteActivity(ctx, activities.DeliverReportActivity, activities.DeliverInput{
		To:      in.Destination,
		Subject: subject,
		Body:    body,
	}).Get(ctx, &delivery); err != nil {
		return models.DispatchOutcome{}, err
	}

	return models.DispatchOutcome{
		Attempted:   true,
		Succeeded:   delivery.Succeeded,
		Destination: in.Destination,
		Error:       delivery.Error,
	}, nil
}

// buildResponse writes the short caller-facing summary. It distinguishes
// research succeeded / research failed / delivery succeeded / delivery
// failed / delivery not attempted.
func buildResponse(in intent.Intent, search models.SearchOutcome, pages []models.FetchedPage, dispatch models.DispatchOutcome) string {
	var parts []string

	if in.NeedsResearch {
		if search.Succeeded {
			parts = append(parts, fmt.Sprintf(
				"Research completed successfully! Found %d relevant results about '%s'.",
				len(search.Results), in.Query,
			))
			if len(pages) > 0 {
				succeeded := 0
				for _, p := range pages {
					if p.Succeeded {
						succeeded++
					}
				}
				parts = append(parts, fmt.Sprintf(
					"Scraped content from %d pages for comprehensive analysis.", succeeded,
				))
			}
			for i, r := range search.Results {
				if i == 2 {
					break
				}
				title := r.Title
				if title == "" {
					title = "No title"
				}
				snippet := r.Snippet
				if snippet == "" {
					snippet = "No summary"
				}
				parts = append(parts, fmt.Sprintf("\n%d. %s", i+1, title))
				parts = append(parts, "   "+snippet)
			}
		} else {
			errMsg := search.Error
			if errMsg == "" {
				errMsg = "Unknown error"
			}
			parts = append(parts, "Research failed: "+errMsg)
		}
	}

	if dispatch.Attempted {
		if dispatch.Succeeded {
			parts = append(parts, fmt.Sprintf(
				"Comprehensive research report sent successfully to %s!", dispatch.Destination,
			))
		} else {
			errMsg := dispatch.Error
			if errMsg == "" {
				errMsg = "Unknown error"
			}
			parts = append(parts, "Email delivery failed: "+errMsg)
		}
	}

	if len(parts) == 0 {
		parts = append(parts, "Task completed, but no specific actions were identified.")
	}
	return strings.Join(parts, "\n")
}

// persistResult schedules the execution record write without awaiting it.
// The record is written after the result is final; a store failure can only
// lose history, never the task.
func persistResult(ctx workflow.Context, input TaskInput, in intent.Intent, result *TaskResult) {
	detachedCtx, _ := workflow.NewDisconnectedContext(ctx)
	dctx := workflow.WithActivityOptions(detachedCtx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 3},
	})
	workflow.ExecuteActivity(dctx, activities.PersistExecutionActivity,
		buildPersistInput(input, in, result, workflow.Now(ctx)))
}

func buildPersistInput(input TaskInput, in intent.Intent, result *TaskResult, completedAt time.Time) activities.PersistInput {
	return activities.PersistInput{
		TaskID:            input.TaskID,
		SourceName:        result.SourceName,
		TaskText:          input.TaskText,
		Domain:            result.Domain,
		Query:             result.Query,
		Destination:       in.Destination,
		Response:          result.Response,
		ToolsInvoked:      result.ToolsInvoked,
		StepCount:         result.Steps,
		SearchSucceeded:   result.SearchSucceeded,
		PagesFetched:      len(result.Pages),
		DeliveryAttempted: result.Dispatch.Attempted,
		DeliverySucceeded: result.Dispatch.Succeeded,
		ElapsedSeconds:    result.ElapsedSeconds,
		CompletedAt:       completedAt,
	}
}
