package webhook

import (
	"fmt"
	"time"

	"go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"

	"github.com/peridotvault/peridot-core/internal/logger"
	"github.com/peridotvault/peridot-core/internal/store/schema"
)

const (
	lookupTimeout   = 10 * time.Second
	deliveryTimeout = 30 * time.Second
	deliveryRunTime = time.Hour
)

// Workflows runs webhook delivery on Temporal. Retries follow the same
// exponential schedule as the in-process dispatcher.
type Workflows struct {
	executor DeliveryExecutor
	config   Config
}

// NewWorkflows creates the workflow set registered on the Temporal worker
func NewWorkflows(executor DeliveryExecutor, cfg Config) *Workflows {
	return &Workflows{executor: executor, config: cfg.withDefaults()}
}

func lookupOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: lookupTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 2,
			InitialInterval: 5 * time.Second,
		},
	}
}

// NotifyWebhookClients starts one DeliverWebhook child per active client
// subscribed to the event type and returns without waiting for them
func (w *Workflows) NotifyWebhookClients(ctx workflow.Context, event WebhookEvent) error {
	activityCtx := workflow.WithActivityOptions(ctx, lookupOptions())

	var clients []*schema.WebhookClient
	err := workflow.ExecuteActivity(activityCtx, w.executor.GetActiveWebhookClientsByEventType, event.EventType).Get(activityCtx, &clients)
	if err != nil {
		return err
	}
	if len(clients) == 0 {
		logger.InfoWf(ctx, "No active webhook clients found for event type", zap.String("eventType", event.EventType))
		return nil
	}

	started := 0
	for _, client := range clients {
		childCtx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{
			WorkflowID:            fmt.Sprintf("webhook-delivery-%s-%s", client.ClientID, event.EventID),
			WorkflowRunTimeout:    deliveryRunTime,
			WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
			ParentClosePolicy:     enums.PARENT_CLOSE_POLICY_ABANDON,
		})

		child := workflow.ExecuteChildWorkflow(childCtx, w.DeliverWebhook, client.ClientID, event)

		var execution workflow.Execution
		if err := child.GetChildWorkflowExecution().Get(ctx, &execution); err != nil {
			logger.WarnWf(ctx, "Failed to start webhook delivery workflow",
				zap.String("clientID", client.ClientID),
				zap.String("eventID", event.EventID),
				zap.Error(err))
			continue
		}
		started++
	}

	logger.InfoWf(ctx, "Webhook deliveries started",
		zap.String("eventID", event.EventID),
		zap.Int("clients", len(clients)),
		zap.Int("started", started))
	return nil
}

// DeliverWebhook delivers event to one client, retrying failed attempts
// up to the client's RetryMaxAttempts
func (w *Workflows) DeliverWebhook(ctx workflow.Context, clientID string, event WebhookEvent) error {
	lookupCtx := workflow.WithActivityOptions(ctx, lookupOptions())

	var client *schema.WebhookClient
	if err := workflow.ExecuteActivity(lookupCtx, w.executor.GetWebhookClientByID, clientID).Get(lookupCtx, &client); err != nil {
		return err
	}
	if client == nil || !client.IsActive {
		logger.InfoWf(ctx, "Webhook client missing or inactive, skipping delivery", zap.String("clientID", clientID))
		return nil
	}

	info := workflow.GetInfo(ctx)
	delivery := &schema.WebhookDelivery{
		ClientID:      client.ClientID,
		EventID:       event.EventID,
		EventType:     event.EventType,
		WorkflowID:    info.WorkflowExecution.ID,
		WorkflowRunID: info.WorkflowExecution.RunID,
	}
	var deliveryID uint64
	if err := workflow.ExecuteActivity(lookupCtx, w.executor.CreateWebhookDeliveryRecord, delivery, event).Get(lookupCtx, &deliveryID); err != nil {
		return err
	}

	maxAttempts := client.RetryMaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	deliveryCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: deliveryTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    w.config.InitialInterval,
			BackoffCoefficient: 2.0,
			MaximumInterval:    w.config.MaxInterval,
			MaximumAttempts:    int32(maxAttempts), //nolint:gosec,G115
		},
	})

	var result DeliveryResult
	if err := workflow.ExecuteActivity(deliveryCtx, w.executor.DeliverWebhookHTTP, client, event, deliveryID).Get(deliveryCtx, &result); err != nil {
		logger.ErrorWf(ctx, err,
			zap.String("message", "Webhook delivery abandoned"),
			zap.String("clientID", clientID),
			zap.String("eventID", event.EventID))
		return err
	}

	logger.InfoWf(ctx, "Webhook delivered successfully",
		zap.String("clientID", clientID),
		zap.String("eventID", event.EventID),
		zap.Int("statusCode", result.StatusCode))
	return nil
}
