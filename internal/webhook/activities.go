package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"go.temporal.io/sdk/temporal"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/store"
	"github.com/peridotvault/peridot-core/internal/store/schema"
)

// ErrorTypeRejected marks a delivery the endpoint refused for good
const ErrorTypeRejected = "WebhookRejected"

// DeliveryExecutor runs the activities of the webhook delivery workflows
//
//go:generate mockgen -source=activities.go -destination=../mocks/webhook_executor.go -package=mocks -mock_names=DeliveryExecutor=MockWebhookDeliveryExecutor
type DeliveryExecutor interface {
	// GetActiveWebhookClientsByEventType lists the active clients subscribed to eventType
	GetActiveWebhookClientsByEventType(ctx context.Context, eventType string) ([]*schema.WebhookClient, error)
	// GetWebhookClientByID returns the client, or nil if it was removed
	GetWebhookClientByID(ctx context.Context, clientID string) (*schema.WebhookClient, error)
	// CreateWebhookDeliveryRecord stores a pending delivery of event and returns its id
	CreateWebhookDeliveryRecord(ctx context.Context, delivery *schema.WebhookDelivery, event WebhookEvent) (uint64, error)
	// DeliverWebhookHTTP performs one delivery attempt and records its outcome.
	// Rejections that retrying cannot fix are returned as non-retryable errors.
	DeliverWebhookHTTP(ctx context.Context, client *schema.WebhookClient, event WebhookEvent, deliveryID uint64) (DeliveryResult, error)
}

type deliveryExecutor struct {
	sender
	store    store.Store
	activity adapter.Activity
}

// NewDeliveryExecutor creates the activity implementation registered on the Temporal worker
func NewDeliveryExecutor(
	st store.Store,
	httpClient adapter.HTTPClient,
	jsonAdapter adapter.JSON,
	clock adapter.Clock,
	activity adapter.Activity,
) DeliveryExecutor {
	return &deliveryExecutor{
		sender:   sender{httpClient: httpClient, json: jsonAdapter, clock: clock},
		store:    st,
		activity: activity,
	}
}

func (e *deliveryExecutor) GetActiveWebhookClientsByEventType(ctx context.Context, eventType string) ([]*schema.WebhookClient, error) {
	return e.store.GetActiveWebhookClientsByEventType(ctx, eventType)
}

func (e *deliveryExecutor) GetWebhookClientByID(ctx context.Context, clientID string) (*schema.WebhookClient, error) {
	return e.store.GetWebhookClientByID(ctx, clientID)
}

func (e *deliveryExecutor) CreateWebhookDeliveryRecord(ctx context.Context, delivery *schema.WebhookDelivery, event WebhookEvent) (uint64, error) {
	payload, err := e.json.Marshal(event)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal webhook event: %w", err)
	}
	delivery.Payload = payload

	if err := e.store.CreateWebhookDelivery(ctx, delivery); err != nil {
		return 0, fmt.Errorf("failed to create webhook delivery record: %w", err)
	}
	return delivery.ID, nil
}

func (e *deliveryExecutor) DeliverWebhookHTTP(ctx context.Context, client *schema.WebhookClient, event WebhookEvent, deliveryID uint64) (DeliveryResult, error) {
	attempt := int(e.activity.GetInfo(ctx).Attempt)

	result, err := e.send(ctx, client, event)
	recordAttempt(ctx, e.store, client, deliveryID, attempt, result, err)
	if err == nil {
		return result, nil
	}

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return result, temporal.NewNonRetryableApplicationError(permanent.Err.Error(), ErrorTypeRejected, permanent.Err)
	}
	return result, err
}
