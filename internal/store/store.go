package store

import (
	"context"

	"gorm.io/datatypes"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/store/schema"
)

// GameFilter narrows ListGames
type GameFilter struct {
	Publisher string
	Active    *bool
	Limit     int
	Offset    int
}

// PurchaseFilter narrows ListPurchases
type PurchaseFilter struct {
	SaleContract string
	Buyer        string
	Limit        int
	Offset       int
}

// CreateWebhookClientInput represents the input for creating a webhook client
type CreateWebhookClientInput struct {
	ClientID         string
	WebhookURL       string
	WebhookSecret    string
	EventFilters     datatypes.JSON
	IsActive         bool
	RetryMaxAttempts int
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	CursorStore

	// RecordEvent projects a ledger event of network into the read model.
	// It returns false when the event was already recorded.
	RecordEvent(ctx context.Context, network domain.NetworkID, event *domain.LedgerEvent) (bool, error)

	// GetGame retrieves a game by id, or nil if it is not projected
	GetGame(ctx context.Context, network domain.NetworkID, gameID string) (*schema.Game, error)
	// GetGameBySale retrieves the game backed by a sale contract, or nil
	GetGameBySale(ctx context.Context, network domain.NetworkID, saleContract string) (*schema.Game, error)
	// ListGames returns games in publication order and the total matching the filter
	ListGames(ctx context.Context, network domain.NetworkID, filter GameFilter) ([]schema.Game, int64, error)

	// ListMetadataVersions returns the history of one metadata head, oldest first
	ListMetadataVersions(ctx context.Context, network domain.NetworkID, saleContract string, kind domain.MetadataKind) ([]schema.MetadataVersion, error)

	// ListPurchases returns purchases newest first and the total matching the filter
	ListPurchases(ctx context.Context, network domain.NetworkID, filter PurchaseFilter) ([]schema.Purchase, int64, error)

	// CreateWebhookClient registers a webhook client
	CreateWebhookClient(ctx context.Context, input CreateWebhookClientInput) (*schema.WebhookClient, error)
	// GetWebhookClientByID retrieves a webhook client by client ID, or nil
	GetWebhookClientByID(ctx context.Context, clientID string) (*schema.WebhookClient, error)
	// GetActiveWebhookClientsByEventType retrieves active clients whose filters match eventType
	GetActiveWebhookClientsByEventType(ctx context.Context, eventType string) ([]*schema.WebhookClient, error)
	// CreateWebhookDelivery creates a new webhook delivery record
	CreateWebhookDelivery(ctx context.Context, delivery *schema.WebhookDelivery) error
	// UpdateWebhookDeliveryStatus updates the status and result of a webhook delivery
	UpdateWebhookDeliveryStatus(ctx context.Context, deliveryID uint64, status schema.WebhookDeliveryStatus, attempts int, responseStatus *int, responseBody, errorMessage string) error
}
