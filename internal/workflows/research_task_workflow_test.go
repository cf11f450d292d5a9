package workflows

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"github.com/omnix-ai/orchestrator/internal/activities"
	"github.com/omnix-ai/orchestrator/internal/intent"
	"github.com/omnix-ai/orchestrator/internal/models"
)

// activityStubs wires canned collaborator outcomes into a test environment
// under the production activity names.
type activityStubs struct {
	mu sync.Mutex

	search     models.SearchOutcome
	pages      map[string]models.FetchedPage
	delivery   models.DeliveryOutcome
	persistErr error

	searchCalls  int
	fetchedURLs  []string
	delivered    []activities.DeliverInput
	persisted    []activities.PersistInput
}

func (s *activityStubs) register(env *testsuite.TestWorkflowEnvironment) {
	env.RegisterActivityWithOptions(
		func(ctx context.Context, input activities.SearchInput) (*models.SearchOutcome, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.searchCalls++
			out := s.search
			return &out, nil
		},
		activity.RegisterOptions{Name: activities.SearchWebActivity},
	)
	env.RegisterActivityWithOptions(
		func(ctx context.Context, input activities.FetchInput) (*models.FetchedPage, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.fetchedURLs = append(s.fetchedURLs, input.URL)
			page, ok := s.pages[input.URL]
			if !ok {
				page = models.FetchedPage{SourceURL: input.URL, Error: "not stubbed"}
			}
			return &page, nil
		},
		activity.RegisterOptions{Name: activities.FetchPageActivity},
	)
	env.RegisterActivityWithOptions(
		func(ctx context.Context, input activities.DeliverInput) (*models.DeliveryOutcome, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.delivered = append(s.delivered, input)
			out := s.delivery
			out.To = input.To
			return &out, nil
		},
		activity.RegisterOptions{Name: activities.DeliverReportActivity},
	)
	env.RegisterActivityWithOptions(
		func(ctx context.Context, input activities.PersistInput) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.persisted = append(s.persisted, input)
			return s.persistErr
		},
		activity.RegisterOptions{Name: activities.PersistExecutionActivity},
	)
}

func runWorkflow(t *testing.T, stubs *activityStubs, input TaskInput) (TaskResult, error) {
	t.Helper()
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(ResearchTaskWorkflow)
	stubs.register(env)

	env.ExecuteWorkflow(ResearchTaskWorkflow, input)
	require.True(t, env.IsWorkflowCompleted())

	if err := env.GetWorkflowError(); err != nil {
		return TaskResult{}, err
	}
	var result TaskResult
	require.NoError(t, env.GetWorkflowResult(&result))
	return result, nil
}

func twoResultSearch() models.SearchOutcome {
	return models.SearchOutcome{
		Succeeded: true,
		Results: []models.SearchResult{
			{Title: "Paris Forecast", URL: "https://example.com/a", Snippet: "Rain ahead."},
			{Title: "Weekend Outlook", URL: "https://example.com/b", Snippet: "Clearing later."},
		},
	}
}

func TestResearchTaskFullPipeline(t *testing.T) {
	stubs := &activityStubs{
		search: twoResultSearch(),
		pages: map[string]models.FetchedPage{
			"https://example.com/a": {SourceURL: "https://example.com/a", Succeeded: true, Content: "Heavy rain and wind expected across Paris this weekend with gusty conditions."},
			"https://example.com/b": {SourceURL: "https://example.com/b", Succeeded: true, Content: "The weekly outlook calls for clearing skies by Monday morning."},
		},
		delivery: models.DeliveryOutcome{Succeeded: true},
	}

	result, err := runWorkflow(t, stubs, TaskInput{
		TaskID:   "exec_1",
		TaskText: "What is the weather forecast in Paris? Send results to alice@example.com.",
	})
	require.NoError(t, err)

	assert.Equal(t, "weather", result.Domain)
	assert.Equal(t, "Weather Assistant", result.SourceName)
	assert.Equal(t, []string{ToolWebSearch, ToolContentScraping, ToolSendEmail}, result.ToolsInvoked)
	assert.Equal(t, 3, result.Steps)
	assert.True(t, result.SearchSucceeded)

	// Page order follows the search ranking.
	require.Len(t, result.Pages, 2)
	assert.Equal(t, "https://example.com/a", result.Pages[0].SourceURL)
	assert.Equal(t, "https://example.com/b", result.Pages[1].SourceURL)

	assert.Contains(t, result.Response, "Research completed successfully! Found 2 relevant results about")
	assert.Contains(t, result.Response, "Scraped content from 2 pages for comprehensive analysis.")
	assert.Contains(t, result.Response, "1. Paris Forecast")
	assert.Contains(t, result.Response, "Comprehensive research report sent successfully to alice@example.com!")

	assert.True(t, result.Dispatch.Attempted)
	assert.True(t, result.Dispatch.Succeeded)
	assert.Equal(t, "alice@example.com", result.Dispatch.Destination)

	require.Len(t, stubs.delivered, 1)
	assert.Equal(t, "alice@example.com", stubs.delivered[0].To)
	assert.Contains(t, stubs.delivered[0].Subject, "Comprehensive Research Report: ")
	assert.Contains(t, stubs.delivered[0].Body, "WEATHER INFORMATION REPORT")
	assert.Contains(t, stubs.delivered[0].Body, "DETAILED FINDINGS")
}

func TestResearchTaskSearchFailureContinues(t *testing.T) {
	stubs := &activityStubs{
		search:   models.SearchOutcome{Error: "Firecrawl API error: 429"},
		delivery: models.DeliveryOutcome{Succeeded: true},
	}

	result, err := runWorkflow(t, stubs, TaskInput{
		TaskID:   "exec_2",
		TaskText: "Research machine learning applications in healthcare and send to prof@uni.example.edu",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{ToolWebSearch, ToolSendEmail}, result.ToolsInvoked)
	assert.Equal(t, 2, result.Steps)
	assert.False(t, result.SearchSucceeded)
	assert.Empty(t, result.Pages)
	assert.Empty(t, stubs.fetchedURLs)

	assert.Contains(t, result.Response, "Research failed: Firecrawl API error: 429")
	assert.Contains(t, result.Response, "Comprehensive research report sent successfully to prof@uni.example.edu!")

	// Failed research selects the completion-report subject and the report
	// omits the findings section.
	require.Len(t, stubs.delivered, 1)
	assert.Equal(t, "Academic Researcher - Task Completion Report", stubs.delivered[0].Subject)
	assert.NotContains(t, stubs.delivered[0].Body, "DETAILED FINDINGS")
}

func TestResearchTaskPartialFetchFailure(t *testing.T) {
	stubs := &activityStubs{
		search: twoResultSearch(),
		pages: map[string]models.FetchedPage{
			"https://example.com/a": {SourceURL: "https://example.com/a", Error: "Firecrawl API error: 403"},
			"https://example.com/b": {SourceURL: "https://example.com/b", Succeeded: true, Content: "Clearing skies by Monday."},
		},
	}

	result, err := runWorkflow(t, stubs, TaskInput{
		TaskID:   "exec_3",
		TaskText: "What is the weather forecast in Paris?",
	})
	require.NoError(t, err)

	require.Len(t, result.Pages, 2)
	assert.False(t, result.Pages[0].Succeeded)
	assert.True(t, result.Pages[1].Succeeded)
	// Only successful fetches count in the response summary.
	assert.Contains(t, result.Response, "Scraped content from 1 pages for comprehensive analysis.")

	// No destination: delivery was never attempted.
	assert.False(t, result.Dispatch.Attempted)
	assert.Empty(t, stubs.delivered)
	assert.Equal(t, []string{ToolWebSearch, ToolContentScraping}, result.ToolsInvoked)
}

func TestResearchTaskDeliveryFailureIsRecorded(t *testing.T) {
	stubs := &activityStubs{
		search: twoResultSearch(),
		pages: map[string]models.FetchedPage{
			"https://example.com/a": {SourceURL: "https://example.com/a", Succeeded: true, Content: "Rain expected."},
			"https://example.com/b": {SourceURL: "https://example.com/b", Succeeded: true, Content: "Clearing later."},
		},
		delivery: models.DeliveryOutcome{Error: "SMTP credentials not configured"},
	}

	result, err := runWorkflow(t, stubs, TaskInput{
		TaskID:   "exec_4",
		TaskText: "What is the weather forecast in Paris? Send results to alice@example.com.",
	})
	require.NoError(t, err)

	assert.True(t, result.Dispatch.Attempted)
	assert.False(t, result.Dispatch.Succeeded)
	assert.Equal(t, "SMTP credentials not configured", result.Dispatch.Error)
	assert.Contains(t, result.Response, "Email delivery failed: SMTP credentials not configured")
}

func TestResearchTaskNoActions(t *testing.T) {
	stubs := &activityStubs{}

	result, err := runWorkflow(t, stubs, TaskInput{
		TaskID:   "exec_5",
		TaskText: "hello there",
	})
	require.NoError(t, err)

	assert.Equal(t, "Task completed, but no specific actions were identified.", result.Response)
	assert.Empty(t, result.ToolsInvoked)
	assert.Zero(t, result.Steps)
	assert.Zero(t, stubs.searchCalls)
	assert.False(t, result.Dispatch.Attempted)
}

func TestBuildPersistInput(t *testing.T) {
	result := TaskResult{
		TaskID:          "exec_6",
		SourceName:      "Field Ops Bot",
		Domain:          "weather",
		Query:           "current weather forecast Paris",
		Response:        "done",
		ToolsInvoked:    []string{ToolWebSearch, ToolContentScraping, ToolSendEmail},
		Steps:           3,
		SearchSucceeded: true,
		Pages: []models.FetchedPage{
			{SourceURL: "https://example.com/a", Succeeded: true},
			{SourceURL: "https://example.com/b", Succeeded: true},
		},
		Dispatch: models.DispatchOutcome{
			Attempted:   true,
			Succeeded:   true,
			Destination: "alice@example.com",
		},
		ElapsedSeconds: 1.5,
	}
	completed := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	rec := buildPersistInput(
		TaskInput{TaskID: "exec_6", TaskText: "weather in Paris, to alice@example.com", SourceName: "Field Ops Bot"},
		intent.Intent{Destination: "alice@example.com"},
		&result, completed,
	)

	assert.Equal(t, "exec_6", rec.TaskID)
	assert.Equal(t, "Field Ops Bot", rec.SourceName)
	assert.Equal(t, "weather", rec.Domain)
	assert.Equal(t, []string{ToolWebSearch, ToolContentScraping, ToolSendEmail}, rec.ToolsInvoked)
	assert.Equal(t, 3, rec.StepCount)
	assert.True(t, rec.SearchSucceeded)
	assert.Equal(t, 2, rec.PagesFetched)
	assert.True(t, rec.DeliveryAttempted)
	assert.True(t, rec.DeliverySucceeded)
	assert.Equal(t, "alice@example.com", rec.Destination)
	assert.Equal(t, completed, rec.CompletedAt)
}

func TestResearchTaskSurvivesPersistenceFailure(t *testing.T) {
	stubs := &activityStubs{
		search: twoResultSearch(),
		pages: map[string]models.FetchedPage{
			"https://example.com/a": {SourceURL: "https://example.com/a", Succeeded: true, Content: "Rain."},
			"https://example.com/b": {SourceURL: "https://example.com/b", Succeeded: true, Content: "Sun."},
		},
		persistErr: errors.New("connection refused"),
	}

	// The record write is fire-and-forget; a store outage never fails the
	// task.
	result, err := runWorkflow(t, stubs, TaskInput{
		TaskID:   "exec_7",
		TaskText: "What is the weather forecast in Paris?",
	})
	require.NoError(t, err)
	assert.True(t, result.SearchSucceeded)
}

func TestResearchTaskMaxResultsPassedToSearch(t *testing.T) {
	var gotLimit int
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(ResearchTaskWorkflow)

	env.RegisterActivityWithOptions(
		func(ctx context.Context, input activities.SearchInput) (*models.SearchOutcome, error) {
			gotLimit = input.Limit
			return &models.SearchOutcome{Succeeded: true}, nil
		},
		activity.RegisterOptions{Name: activities.SearchWebActivity},
	)
	env.RegisterActivityWithOptions(
		func(ctx context.Context, input activities.PersistInput) error { return nil },
		activity.RegisterOptions{Name: activities.PersistExecutionActivity},
	)

	env.ExecuteWorkflow(ResearchTaskWorkflow, TaskInput{TaskID: "exec_8", TaskText: "find information about jazz"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	assert.Equal(t, DefaultMaxResults, gotLimit)
}
