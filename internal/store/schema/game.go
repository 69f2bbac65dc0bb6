package schema

import "time"

// Game represents the games table - one row per registered game and network
type Game struct {
	// ID is an auto-incrementing sequence number
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// NetworkID scopes the row to one ledger instance
	NetworkID string `gorm:"column:network_id;not null;type:varchar(128);uniqueIndex:idx_games_network_game;uniqueIndex:idx_games_network_sale"`
	// GameID is the 0x-prefixed 32-byte game identifier
	GameID string `gorm:"column:game_id;not null;type:varchar(66);uniqueIndex:idx_games_network_game"`
	// SaleContract is the address of the game's license sale
	SaleContract string `gorm:"column:sale_contract;not null;type:varchar(42);uniqueIndex:idx_games_network_sale"`
	// Publisher is the address that published the game
	Publisher string `gorm:"column:publisher;not null;type:varchar(42);index"`
	// Active mirrors the registry discoverability flag
	Active bool `gorm:"column:active;not null;default:true"`
	// Price is the latest known license price in base units
	Price string `gorm:"column:price;type:text"`
	// MaxSupply is the latest known supply cap, "0" for unlimited
	MaxSupply string `gorm:"column:max_supply;type:text"`
	// LicensesSold counts projected purchases
	LicensesSold uint64 `gorm:"column:licenses_sold;not null;default:0"`
	// MetadataVersion is the latest game metadata version
	MetadataVersion uint64 `gorm:"column:metadata_version;not null;default:0"`
	// MetadataURI is the latest game metadata locator
	MetadataURI string `gorm:"column:metadata_uri;type:text"`
	// PublishedTxHash is the transaction that published the game
	PublishedTxHash string `gorm:"column:published_tx_hash;not null;type:varchar(66)"`
	// PublishedAt is the block time of publication
	PublishedAt time.Time `gorm:"column:published_at;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for the Game model
func (Game) TableName() string {
	return "games"
}
