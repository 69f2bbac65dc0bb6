package dto

import (
	"time"

	"github.com/peridotvault/peridot-core/internal/domain"
)

// TxResponse describes a mined transaction
type TxResponse struct {
	TxHash          string                `json:"tx_hash"`
	BlockNumber     uint64                `json:"block_number"`
	From            string                `json:"from"`
	To              string                `json:"to,omitempty"`
	Value           string                `json:"value"`
	Status          uint64                `json:"status"`
	ContractAddress string                `json:"contract_address,omitempty"`
	Error           string                `json:"error,omitempty"`
	Events          []*domain.LedgerEvent `json:"events"`
}

// PublishGameResponse represents the response for publishing a game
type PublishGameResponse struct {
	GameID           string     `json:"game_id"`
	SaleContract     string     `json:"sale_contract"`
	ContractMetaHash string     `json:"contract_metadata_hash"`
	Tx               TxResponse `json:"tx"`
}

// PublishMetadataResponse represents the response for publishing a metadata head
type PublishMetadataResponse struct {
	Kind string     `json:"kind"`
	Hash string     `json:"hash"`
	URI  string     `json:"uri"`
	Tx   TxResponse `json:"tx"`
}

// MetadataHashResponse represents the canonical form and digest of a metadata document
type MetadataHashResponse struct {
	Kind      string `json:"kind"`
	Hash      string `json:"hash"`
	Canonical string `json:"canonical"`
}

// HeadResponse is a metadata head
type HeadResponse struct {
	Version uint64 `json:"version"`
	Hash    string `json:"hash,omitempty"`
	URI     string `json:"uri,omitempty"`
}

// SaleResponse is the live state of a license sale
type SaleResponse struct {
	Address            string       `json:"address"`
	Initialized        bool         `json:"initialized"`
	Owner              string       `json:"owner"`
	GameID             string       `json:"game_id"`
	PaymentToken       string       `json:"payment_token"`
	Price              string       `json:"price"`
	MaxSupply          uint64       `json:"max_supply"`
	TotalMinted        uint64       `json:"total_minted"`
	TreasuryRouter     string       `json:"treasury_router"`
	DeveloperRecipient string       `json:"developer_recipient"`
	PlatformFeeBps     uint16       `json:"platform_fee_bps"`
	TokenURITemplate   string       `json:"token_uri_template"`
	LicenseURI         string       `json:"license_uri"`
	ContractMetaHead   HeadResponse `json:"contract_metadata_head"`
	MetadataHead       HeadResponse `json:"metadata_head"`
}

// FactoryResponse is the live configuration of the publish factory
type FactoryResponse struct {
	Address          string `json:"address"`
	Owner            string `json:"owner"`
	Implementation   string `json:"implementation"`
	Registry         string `json:"registry"`
	FeeRecipient     string `json:"fee_recipient"`
	FeeToken         string `json:"fee_token"`
	PublishFee       string `json:"publish_fee"`
	PlatformFeeBps   uint16 `json:"platform_fee_bps"`
	AllowlistEnabled bool   `json:"allowlist_enabled"`
}

// PublisherStatusResponse reports allowlist membership
type PublisherStatusResponse struct {
	Address          string `json:"address"`
	Allowed          bool   `json:"allowed"`
	AllowlistEnabled bool   `json:"allowlist_enabled"`
	CanPublish       bool   `json:"can_publish"`
}

// RegistryGameResponse is a live registry entry
type RegistryGameResponse struct {
	GameID       string    `json:"game_id"`
	SaleContract string    `json:"sale_contract"`
	Publisher    string    `json:"publisher"`
	CreatedAt    time.Time `json:"created_at"`
	Active       bool      `json:"active"`
}

// GameResponse is a projected game
type GameResponse struct {
	GameID          string    `json:"game_id"`
	SaleContract    string    `json:"sale_contract"`
	Publisher       string    `json:"publisher"`
	Active          bool      `json:"active"`
	Price           string    `json:"price,omitempty"`
	MaxSupply       string    `json:"max_supply,omitempty"`
	LicensesSold    uint64    `json:"licenses_sold"`
	MetadataVersion uint64    `json:"metadata_version"`
	MetadataURI     string    `json:"metadata_uri,omitempty"`
	PublishedTxHash string    `json:"published_tx_hash"`
	PublishedAt     time.Time `json:"published_at"`
}

// MetadataVersionResponse is one entry of a projected metadata history
type MetadataVersionResponse struct {
	Kind        string    `json:"kind"`
	Version     uint64    `json:"version"`
	Hash        string    `json:"hash"`
	URI         string    `json:"uri"`
	TxHash      string    `json:"tx_hash"`
	BlockNumber uint64    `json:"block_number"`
	PublishedAt time.Time `json:"published_at"`
}

// PurchaseResponse is a projected purchase
type PurchaseResponse struct {
	SaleContract string    `json:"sale_contract"`
	GameID       string    `json:"game_id,omitempty"`
	Buyer        string    `json:"buyer"`
	AmountPaid   string    `json:"amount_paid"`
	LicenseID    string    `json:"license_id"`
	TxHash       string    `json:"tx_hash"`
	BlockNumber  uint64    `json:"block_number"`
	PurchasedAt  time.Time `json:"purchased_at"`
}

// ListResponse is a page of items with the total matching count
type ListResponse[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// LicenseBalanceResponse is the license balance of an account
type LicenseBalanceResponse struct {
	SaleContract string `json:"sale_contract"`
	Account      string `json:"account"`
	LicenseID    string `json:"license_id"`
	Balance      string `json:"balance"`
	HasLicense   bool   `json:"has_license"`
}

// TokenResponse is the live state of a payment token, optionally for one account
type TokenResponse struct {
	Address     string `json:"address"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	TotalSupply string `json:"total_supply"`
	Account     string `json:"account,omitempty"`
	Balance     string `json:"balance,omitempty"`
}

// AccountResponse is the native state of an account
type AccountResponse struct {
	Address    string `json:"address"`
	Balance    string `json:"balance"`
	Nonce      uint64 `json:"nonce"`
	IsContract bool   `json:"is_contract"`
}

// StatusResponse describes the node
type StatusResponse struct {
	Network        string `json:"network"`
	Chain          string `json:"chain"`
	LatestBlock    uint64 `json:"latest_block"`
	Implementation string `json:"implementation"`
	Registry       string `json:"registry"`
	Factory        string `json:"factory"`
	ProjectedBlock uint64 `json:"projected_block"`
}

// CreateWebhookClientResponse represents the response for creating a webhook client
type CreateWebhookClientResponse struct {
	ClientID         string    `json:"client_id"`
	WebhookURL       string    `json:"webhook_url"`
	WebhookSecret    string    `json:"webhook_secret"`
	EventFilters     []string  `json:"event_filters"`
	IsActive         bool      `json:"is_active"`
	RetryMaxAttempts int       `json:"retry_max_attempts"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
