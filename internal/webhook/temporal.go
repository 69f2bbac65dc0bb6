package webhook

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/logger"
	"github.com/peridotvault/peridot-core/internal/providers/temporal"
)

type temporalDispatcher struct {
	orchestrator temporal.Orchestrator
	taskQueue    string
	clock        adapter.Clock
	closed       atomic.Bool
}

// NewTemporalDispatcher creates a Dispatcher that hands every event to a
// NotifyWebhookClients workflow on taskQueue
func NewTemporalDispatcher(orchestrator temporal.Orchestrator, taskQueue string, clock adapter.Clock) Dispatcher {
	return &temporalDispatcher{
		orchestrator: orchestrator,
		taskQueue:    taskQueue,
		clock:        clock,
	}
}

func (d *temporalDispatcher) Notify(ctx context.Context, event *domain.LedgerEvent) error {
	if d.closed.Load() {
		return ErrDispatcherClosed
	}

	webhookEvent := NewWebhookEvent(event, d.clock.Now())
	options := client.StartWorkflowOptions{
		ID:                    fmt.Sprintf("webhook-notify-%s-%s", webhookEvent.EventType, webhookEvent.EventID),
		TaskQueue:             d.taskQueue,
		WorkflowRunTimeout:    deliveryRunTime,
		WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}

	w := NewWorkflows(nil, Config{})
	run, err := d.orchestrator.ExecuteWorkflow(ctx, options, w.NotifyWebhookClients, webhookEvent)
	if err != nil {
		return fmt.Errorf("failed to start webhook notification workflow: %w", err)
	}

	fields := []zap.Field{
		zap.String("eventID", webhookEvent.EventID),
		zap.String("eventType", webhookEvent.EventType),
	}
	if run != nil {
		fields = append(fields, zap.String("workflowID", run.GetID()), zap.String("runID", run.GetRunID()))
	}
	logger.InfoCtx(ctx, "Webhook notification workflow started", fields...)
	return nil
}

// Close stops accepting events. Started workflows keep running on the worker.
func (d *temporalDispatcher) Close() {
	d.closed.Store(true)
}

// NewWorker creates a Temporal worker on taskQueue running the delivery
// workflows and their activities. The caller starts and stops it.
func NewWorker(c client.Client, taskQueue string, options worker.Options, workflows *Workflows, executor DeliveryExecutor) worker.Worker {
	w := worker.New(c, taskQueue, options)
	w.RegisterWorkflow(workflows.NotifyWebhookClients)
	w.RegisterWorkflow(workflows.DeliverWebhook)
	w.RegisterActivity(executor)
	return w
}
