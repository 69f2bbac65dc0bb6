package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/store/schema"
)

const (
	defaultPageSize  = 50
	maxPageSize      = 500
	maxErrorMessage  = 1024
	wildcardEventKey = "*"
)

type sqlStore struct {
	CursorStore
	db *gorm.DB
}

// NewStore creates a store over a postgres or sqlite connection
func NewStore(db *gorm.DB) Store {
	return &sqlStore{CursorStore: NewCursorStore(db), db: db}
}

func pageSize(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	return min(limit, maxPageSize)
}

// =============================================================================
// Projection
// =============================================================================

func (s *sqlStore) RecordEvent(ctx context.Context, network domain.NetworkID, event *domain.LedgerEvent) (bool, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return false, fmt.Errorf("failed to marshal event: %w", err)
	}

	recorded := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := schema.LedgerEvent{
			NetworkID:   string(network),
			TxHash:      event.TxHash,
			LogIndex:    event.LogIndex,
			BlockNumber: event.BlockNumber,
			Contract:    event.Contract,
			EventType:   string(event.EventType),
			Raw:         raw,
			Timestamp:   event.Timestamp,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return fmt.Errorf("failed to record ledger event: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		recorded = true
		return project(tx, network, event)
	})
	if err != nil {
		return false, err
	}
	return recorded, nil
}

func project(tx *gorm.DB, network domain.NetworkID, event *domain.LedgerEvent) error {
	switch event.EventType {
	case domain.EventTypeGamePublished:
		// the sale was initialized before registration, in the same transaction
		price, err := latestSaleAmount(tx, network, event.SaleContract, domain.EventTypePriceUpdated)
		if err != nil {
			return err
		}
		maxSupply, err := latestSaleAmount(tx, network, event.SaleContract, domain.EventTypeMaxSupplyUpdated)
		if err != nil {
			return err
		}
		game := schema.Game{
			NetworkID:       string(network),
			GameID:          event.GameID,
			SaleContract:    event.SaleContract,
			Publisher:       event.Publisher,
			Active:          true,
			Price:           price,
			MaxSupply:       maxSupply,
			PublishedTxHash: event.TxHash,
			PublishedAt:     event.Timestamp,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&game).Error; err != nil {
			return fmt.Errorf("failed to project game: %w", err)
		}
		// metadata published before registration, in the same transaction
		var head schema.MetadataVersion
		err = tx.Where("network_id = ? AND sale_contract = ? AND kind = ?", network, event.SaleContract, domain.MetadataKindGame).
			Order("version DESC").First(&head).Error
		if err == nil {
			return updateGameBySale(tx, network, event.SaleContract, map[string]interface{}{
				"metadata_version": head.Version,
				"metadata_uri":     head.URI,
			})
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to read metadata head: %w", err)
		}
		return nil

	case domain.EventTypeGameActiveSet:
		err := tx.Model(&schema.Game{}).
			Where("network_id = ? AND game_id = ?", network, event.GameID).
			Update("active", event.Active != nil && *event.Active).Error
		if err != nil {
			return fmt.Errorf("failed to project active flag: %w", err)
		}
		return nil

	case domain.EventTypeMetadataPublished, domain.EventTypeContractMetadataPublished:
		kind := domain.MetadataKindGame
		if event.EventType == domain.EventTypeContractMetadataPublished {
			kind = domain.MetadataKindContract
		}
		version := schema.MetadataVersion{
			NetworkID:    string(network),
			SaleContract: event.Contract,
			Kind:         string(kind),
			Version:      event.Version,
			Hash:         event.Hash,
			URI:          event.URI,
			TxHash:       event.TxHash,
			BlockNumber:  event.BlockNumber,
			PublishedAt:  event.Timestamp,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&version).Error; err != nil {
			return fmt.Errorf("failed to project metadata version: %w", err)
		}
		if kind != domain.MetadataKindGame {
			return nil
		}
		err := tx.Model(&schema.Game{}).
			Where("network_id = ? AND sale_contract = ? AND metadata_version < ?", network, event.Contract, event.Version).
			Updates(map[string]interface{}{"metadata_version": event.Version, "metadata_uri": event.URI}).Error
		if err != nil {
			return fmt.Errorf("failed to project metadata head: %w", err)
		}
		return nil

	case domain.EventTypePurchased:
		var game schema.Game
		gameID := ""
		err := tx.Where("network_id = ? AND sale_contract = ?", network, event.Contract).First(&game).Error
		switch {
		case err == nil:
			gameID = game.GameID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to read game: %w", err)
		}

		purchase := schema.Purchase{
			NetworkID:    string(network),
			SaleContract: event.Contract,
			GameID:       gameID,
			Buyer:        event.Account,
			AmountPaid:   event.Amount,
			LicenseID:    event.LicenseID,
			TxHash:       event.TxHash,
			LogIndex:     event.LogIndex,
			BlockNumber:  event.BlockNumber,
			PurchasedAt:  event.Timestamp,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return fmt.Errorf("failed to project purchase: %w", err)
		}
		return updateGameBySale(tx, network, event.Contract, map[string]interface{}{
			"licenses_sold": gorm.Expr("licenses_sold + 1"),
		})

	case domain.EventTypePriceUpdated:
		return updateGameBySale(tx, network, event.Contract, map[string]interface{}{"price": event.Amount})

	case domain.EventTypeMaxSupplyUpdated:
		return updateGameBySale(tx, network, event.Contract, map[string]interface{}{"max_supply": event.Amount})
	}
	return nil
}

// latestSaleAmount returns the amount of the newest recorded event of eventType
// emitted by sale, or "" when there is none
func latestSaleAmount(tx *gorm.DB, network domain.NetworkID, sale string, eventType domain.EventType) (string, error) {
	var row schema.LedgerEvent
	err := tx.Where("network_id = ? AND contract = ? AND event_type = ?", network, sale, eventType).
		Order("block_number DESC, log_index DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s of sale: %w", eventType, err)
	}
	var recorded domain.LedgerEvent
	if err := json.Unmarshal(row.Raw, &recorded); err != nil {
		return "", fmt.Errorf("failed to unmarshal recorded event: %w", err)
	}
	return recorded.Amount, nil
}

func updateGameBySale(tx *gorm.DB, network domain.NetworkID, sale string, updates map[string]interface{}) error {
	err := tx.Model(&schema.Game{}).
		Where("network_id = ? AND sale_contract = ?", network, sale).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	return nil
}

// =============================================================================
// Read model
// =============================================================================

func (s *sqlStore) GetGame(ctx context.Context, network domain.NetworkID, gameID string) (*schema.Game, error) {
	var game schema.Game
	err := s.db.WithContext(ctx).Where("network_id = ? AND game_id = ?", network, gameID).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return &game, nil
}

func (s *sqlStore) GetGameBySale(ctx context.Context, network domain.NetworkID, saleContract string) (*schema.Game, error) {
	var game schema.Game
	err := s.db.WithContext(ctx).Where("network_id = ? AND sale_contract = ?", network, saleContract).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return &game, nil
}

func (s *sqlStore) ListGames(ctx context.Context, network domain.NetworkID, filter GameFilter) ([]schema.Game, int64, error) {
	q := s.db.WithContext(ctx).Model(&schema.Game{}).Where("network_id = ?", network)
	if filter.Publisher != "" {
		q = q.Where("publisher = ?", filter.Publisher)
	}
	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count games: %w", err)
	}

	var games []schema.Game
	err := q.Order("published_at ASC, id ASC").
		Limit(pageSize(filter.Limit)).
		Offset(max(filter.Offset, 0)).
		Find(&games).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list games: %w", err)
	}
	return games, total, nil
}

func (s *sqlStore) ListMetadataVersions(ctx context.Context, network domain.NetworkID, saleContract string, kind domain.MetadataKind) ([]schema.MetadataVersion, error) {
	var versions []schema.MetadataVersion
	err := s.db.WithContext(ctx).
		Where("network_id = ? AND sale_contract = ? AND kind = ?", network, saleContract, kind).
		Order("version ASC").
		Find(&versions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata versions: %w", err)
	}
	return versions, nil
}

func (s *sqlStore) ListPurchases(ctx context.Context, network domain.NetworkID, filter PurchaseFilter) ([]schema.Purchase, int64, error) {
	q := s.db.WithContext(ctx).Model(&schema.Purchase{}).Where("network_id = ?", network)
	if filter.SaleContract != "" {
		q = q.Where("sale_contract = ?", filter.SaleContract)
	}
	if filter.Buyer != "" {
		q = q.Where("buyer = ?", filter.Buyer)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count purchases: %w", err)
	}

	var purchases []schema.Purchase
	err := q.Order("block_number DESC, log_index DESC").
		Limit(pageSize(filter.Limit)).
		Offset(max(filter.Offset, 0)).
		Find(&purchases).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list purchases: %w", err)
	}
	return purchases, total, nil
}

// =============================================================================
// Webhooks
// =============================================================================

func (s *sqlStore) CreateWebhookClient(ctx context.Context, input CreateWebhookClientInput) (*schema.WebhookClient, error) {
	client := &schema.WebhookClient{
		ClientID:         input.ClientID,
		WebhookURL:       input.WebhookURL,
		WebhookSecret:    input.WebhookSecret,
		EventFilters:     input.EventFilters,
		IsActive:         input.IsActive,
		RetryMaxAttempts: input.RetryMaxAttempts,
	}

	// Select("*") writes zero values such as IsActive=false instead of column defaults
	err := s.db.WithContext(ctx).Select("*").Omit("id").Create(client).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook client: %w", err)
	}
	return client, nil
}

func (s *sqlStore) GetWebhookClientByID(ctx context.Context, clientID string) (*schema.WebhookClient, error) {
	var client schema.WebhookClient
	err := s.db.WithContext(ctx).Where("client_id = ?", clientID).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get webhook client: %w", err)
	}
	return &client, nil
}

// GetActiveWebhookClientsByEventType matches filters in Go so that the query
// runs unchanged on postgres and sqlite
func (s *sqlStore) GetActiveWebhookClientsByEventType(ctx context.Context, eventType string) ([]*schema.WebhookClient, error) {
	var clients []*schema.WebhookClient
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("id ASC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to get webhook clients by event type: %w", err)
	}

	matched := make([]*schema.WebhookClient, 0, len(clients))
	for _, client := range clients {
		var filters []string
		if err := json.Unmarshal(client.EventFilters, &filters); err != nil {
			continue
		}
		for _, f := range filters {
			if f == eventType || f == wildcardEventKey {
				matched = append(matched, client)
				break
			}
		}
	}
	return matched, nil
}

func (s *sqlStore) CreateWebhookDelivery(ctx context.Context, delivery *schema.WebhookDelivery) error {
	if err := s.db.WithContext(ctx).Create(delivery).Error; err != nil {
		return fmt.Errorf("failed to create webhook delivery: %w", err)
	}
	return nil
}

func (s *sqlStore) UpdateWebhookDeliveryStatus(ctx context.Context, deliveryID uint64, status schema.WebhookDeliveryStatus, attempts int, responseStatus *int, responseBody, errorMessage string) error {
	updates := map[string]interface{}{
		"delivery_status": status,
		"attempts":        attempts,
		"response_body":   responseBody,
		"last_attempt_at": gorm.Expr("CURRENT_TIMESTAMP"),
	}
	if responseStatus != nil {
		updates["response_status"] = *responseStatus
	}
	if errorMessage != "" {
		if len(errorMessage) > maxErrorMessage {
			errorMessage = errorMessage[:maxErrorMessage]
		}
		updates["error_message"] = errorMessage
	}

	err := s.db.WithContext(ctx).
		Model(&schema.WebhookDelivery{}).
		Where("id = ?", deliveryID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to update webhook delivery status: %w", err)
	}
	return nil
}
