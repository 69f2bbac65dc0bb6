package schema

import "time"

// MetadataVersion represents the metadata_versions table - full history of
// both metadata heads of every sale
type MetadataVersion struct {
	ID           uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	NetworkID    string `gorm:"column:network_id;not null;type:varchar(128);uniqueIndex:idx_metadata_versions_head"`
	SaleContract string `gorm:"column:sale_contract;not null;type:varchar(42);uniqueIndex:idx_metadata_versions_head"`
	// Kind is "game" or "contract"
	Kind    string `gorm:"column:kind;not null;type:varchar(16);uniqueIndex:idx_metadata_versions_head"`
	Version uint64 `gorm:"column:version;not null;uniqueIndex:idx_metadata_versions_head"`
	// Hash is the content digest of the document
	Hash        string    `gorm:"column:hash;not null;type:varchar(66)"`
	URI         string    `gorm:"column:uri;type:text"`
	TxHash      string    `gorm:"column:tx_hash;not null;type:varchar(66)"`
	BlockNumber uint64    `gorm:"column:block_number;not null"`
	PublishedAt time.Time `gorm:"column:published_at;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for the MetadataVersion model
func (MetadataVersion) TableName() string {
	return "metadata_versions"
}
