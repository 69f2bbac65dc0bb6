package webhook

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/peridotvault/peridot-core/internal/domain"
)

// EventTypeWildcard is a special filter that matches all event types
const EventTypeWildcard = "*"

// WebhookEvent represents a webhook event to be delivered to clients
type WebhookEvent struct {
	// EventID is a unique identifier for this event (ULID for time-sortable uniqueness)
	EventID string `json:"event_id"`
	// EventType is the ledger event type (e.g., "purchased")
	EventType string `json:"event_type"`
	// Timestamp is when the event was generated
	Timestamp time.Time `json:"timestamp"`
	// Data is the ledger event as projected
	Data *domain.LedgerEvent `json:"data"`
}

// NewWebhookEvent wraps a ledger event for delivery
func NewWebhookEvent(event *domain.LedgerEvent, now time.Time) WebhookEvent {
	return WebhookEvent{
		EventID:   ulid.MustNewDefault(now).String(),
		EventType: string(event.EventType),
		Timestamp: now.UTC(),
		Data:      event,
	}
}

// DeliveryResult represents the result of a webhook delivery attempt
type DeliveryResult struct {
	// Success indicates whether the delivery was successful
	Success bool
	// StatusCode is the HTTP status code returned by the webhook endpoint
	StatusCode int
	// Body is the response body (limited to 4KB)
	Body string
	// Error contains error details if delivery failed
	Error string
}
