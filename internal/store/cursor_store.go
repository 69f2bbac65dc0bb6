package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/store/schema"
)

// CursorStore defines the interface for storing and retrieving block cursors
type CursorStore interface {
	// GetBlockCursor retrieves the last processed block number of a network, 0 if none
	GetBlockCursor(ctx context.Context, network domain.NetworkID) (uint64, error)
	// SetBlockCursor stores the last processed block number of a network
	SetBlockCursor(ctx context.Context, network domain.NetworkID, blockNumber uint64) error
}

type cursorStore struct {
	db *gorm.DB
}

// NewCursorStore creates a new cursor store
func NewCursorStore(db *gorm.DB) CursorStore {
	return &cursorStore{db: db}
}

func cursorKey(network domain.NetworkID) string {
	return fmt.Sprintf("block_cursor:%s", network)
}

func (s *cursorStore) GetBlockCursor(ctx context.Context, network domain.NetworkID) (uint64, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", cursorKey(network)).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}

	blockNumber, err := strconv.ParseUint(kv.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block cursor: %w", err)
	}
	return blockNumber, nil
}

func (s *cursorStore) SetBlockCursor(ctx context.Context, network domain.NetworkID, blockNumber uint64) error {
	kv := schema.KeyValueStore{
		Key:   cursorKey(network),
		Value: strconv.FormatUint(blockNumber, 10),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set block cursor: %w", err)
	}
	return nil
}
