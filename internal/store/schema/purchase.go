package schema

import "time"

// Purchase represents the purchases table - one row per Purchased event
type Purchase struct {
	ID           uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	NetworkID    string `gorm:"column:network_id;not null;type:varchar(128);uniqueIndex:idx_purchases_log"`
	SaleContract string `gorm:"column:sale_contract;not null;type:varchar(42);index"`
	// GameID is empty for sales that are not registered
	GameID      string    `gorm:"column:game_id;type:varchar(66);index"`
	Buyer       string    `gorm:"column:buyer;not null;type:varchar(42);index"`
	AmountPaid  string    `gorm:"column:amount_paid;not null;type:text"`
	LicenseID   string    `gorm:"column:license_id;not null;type:text"`
	TxHash      string    `gorm:"column:tx_hash;not null;type:varchar(66);uniqueIndex:idx_purchases_log"`
	LogIndex    uint      `gorm:"column:log_index;not null;uniqueIndex:idx_purchases_log"`
	BlockNumber uint64    `gorm:"column:block_number;not null"`
	PurchasedAt time.Time `gorm:"column:purchased_at;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for the Purchase model
func (Purchase) TableName() string {
	return "purchases"
}
