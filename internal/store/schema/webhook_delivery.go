package schema

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookDeliveryStatus is the status of a webhook delivery
type WebhookDeliveryStatus string

const (
	// WebhookDeliveryStatusPending is the status of a webhook delivery that is pending
	WebhookDeliveryStatusPending WebhookDeliveryStatus = "pending"
	// WebhookDeliveryStatusSuccess is the status of a webhook delivery that was successful
	WebhookDeliveryStatusSuccess WebhookDeliveryStatus = "success"
	// WebhookDeliveryStatusFailed is the status of a webhook delivery that failed
	WebhookDeliveryStatusFailed WebhookDeliveryStatus = "failed"
)

// WebhookDelivery represents the webhook_deliveries table - audit log of webhook delivery attempts
type WebhookDelivery struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	ClientID string `gorm:"column:client_id;not null;type:varchar(36);index"`
	// EventID is a unique identifier for this event (ULID for time-sortable uniqueness)
	EventID   string `gorm:"column:event_id;not null;type:varchar(26);index"`
	EventType string `gorm:"column:event_type;not null;type:varchar(50)"`
	// WorkflowID and WorkflowRunID identify the delivery workflow when Temporal runs it
	WorkflowID    string `gorm:"column:workflow_id;type:varchar(255)"`
	WorkflowRunID string `gorm:"column:workflow_run_id;type:varchar(255)"`
	// Payload is the complete webhook event payload as JSON
	Payload        datatypes.JSON        `gorm:"column:payload;not null"`
	DeliveryStatus WebhookDeliveryStatus `gorm:"column:delivery_status;not null;type:varchar(16);default:pending"`
	Attempts       int                   `gorm:"column:attempts;not null;default:0"`
	LastAttemptAt  *time.Time            `gorm:"column:last_attempt_at"`
	ResponseStatus *int                  `gorm:"column:response_status"`
	// ResponseBody is the response body from the webhook endpoint (limited to 4KB)
	ResponseBody string    `gorm:"column:response_body;type:text"`
	ErrorMessage string    `gorm:"column:error_message;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for the WebhookDelivery model
func (WebhookDelivery) TableName() string {
	return "webhook_deliveries"
}
