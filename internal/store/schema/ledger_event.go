package schema

import (
	"time"

	"gorm.io/datatypes"
)

// LedgerEvent represents the ledger_events table - every projected event as
// delivered, used to make projection idempotent and for audit
type LedgerEvent struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	NetworkID   string         `gorm:"column:network_id;not null;type:varchar(128);uniqueIndex:idx_ledger_events_log"`
	TxHash      string         `gorm:"column:tx_hash;not null;type:varchar(66);uniqueIndex:idx_ledger_events_log"`
	LogIndex    uint           `gorm:"column:log_index;not null;uniqueIndex:idx_ledger_events_log"`
	BlockNumber uint64         `gorm:"column:block_number;not null;index"`
	Contract    string         `gorm:"column:contract;not null;type:varchar(42);index"`
	EventType   string         `gorm:"column:event_type;not null;type:varchar(50);index"`
	Raw         datatypes.JSON `gorm:"column:raw;not null"`
	Timestamp   time.Time      `gorm:"column:timestamp;not null"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for the LedgerEvent model
func (LedgerEvent) TableName() string {
	return "ledger_events"
}
