package activities

import (
	"context"

	"go.temporal.io/sdk/activity"

	"github.com/omnix-ai/orchestrator/internal/metrics"
	"github.com/omnix-ai/orchestrator/internal/models"
	"github.com/omnix-ai/orchestrator/internal/tracing"
)

// DeliverInput is one outbound report.
type DeliverInput struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DeliverReport sends the rendered report. Exactly one send attempt is made
// per task; failures come back as data so the task still completes with the
// failure folded into its response text.
func (a *Activities) DeliverReport(ctx context.Context, input DeliverInput) (*models.DeliveryOutcome, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("DeliverReport: starting", "to", input.To)

	ctx, span := tracing.StartSpan(ctx, "deliver_report")
	defer span.End()

	res := a.mailer.Send(ctx, input.To, input.Subject, input.Body)
	out := &models.DeliveryOutcome{
		Succeeded: res.Succeeded,
		To:        res.To,
		Error:     res.Error,
	}

	if out.Succeeded {
		metrics.ReportsDelivered.WithLabelValues("ok").Inc()
		logger.Info("DeliverReport: complete", "to", input.To)
	} else {
		metrics.ReportsDelivered.WithLabelValues("error").Inc()
		logger.Warn("DeliverReport: failed", "to", input.To, "error", out.Error)
	}
	return out, nil
}
