// Package temporalx wraps the Temporal client with the narrow surface the
// orchestrator needs: dialing, and running one task to completion.
package temporalx

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/omnix-ai/orchestrator/internal/intent"
	"github.com/omnix-ai/orchestrator/internal/metrics"
	"github.com/omnix-ai/orchestrator/internal/workflows"
)

// Config selects the Temporal deployment and queue.
type Config struct {
	HostPort  string
	Namespace string
	TaskQueue string
}

// Client submits task workflows.
type Client struct {
	tc        client.Client
	taskQueue string
	logger    *zap.Logger
}

// Dial connects to Temporal.
func Dial(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.TaskQueue == "" {
		cfg.TaskQueue = workflows.TaskQueue
	}
	tc, err := client.Dial(client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("dial temporal: %w", err)
	}
	return &Client{tc: tc, taskQueue: cfg.TaskQueue, logger: logger}, nil
}

// RunTask submits one task and blocks until its result. The execution ID is
// generated here so callers can correlate logs, metrics, and the persisted
// record.
func (c *Client) RunTask(ctx context.Context, taskText, sourceName string) (workflows.TaskResult, error) {
	taskID := "exec_" + uuid.NewString()
	input := workflows.TaskInput{
		TaskID:     taskID,
		TaskText:   taskText,
		SourceName: sourceName,
	}
	domain := intent.Extract(taskText).Domain.String()
	metrics.TasksStarted.WithLabelValues(domain).Inc()

	started := time.Now()
	run, err := c.tc.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        "task-" + taskID,
		TaskQueue: c.taskQueue,
	}, workflows.ResearchTaskWorkflow, input)
	if err != nil {
		return workflows.TaskResult{}, fmt.Errorf("start task workflow: %w", err)
	}

	c.logger.Info("Task workflow started",
		zap.String("task_id", taskID),
		zap.String("workflow_id", run.GetID()),
	)

	var result workflows.TaskResult
	if err := run.Get(ctx, &result); err != nil {
		metrics.TasksCompleted.WithLabelValues(domain, "error").Inc()
		return workflows.TaskResult{}, fmt.Errorf("task workflow failed: %w", err)
	}

	metrics.TasksCompleted.WithLabelValues(result.Domain, "ok").Inc()
	metrics.TaskDuration.WithLabelValues(result.Domain).Observe(time.Since(started).Seconds())
	return result, nil
}

// Close releases the underlying connection.
func (c *Client) Close() {
	c.tc.Close()
}
