package domain

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Chain represents the network identifier using CAIP-2 format
type Chain string

const (
	ChainLocalDevnet  Chain = "eip155:31337"
	ChainBaseSepolia  Chain = "eip155:84532"
	ChainLiskSepolia  Chain = "eip155:4202"
	ChainEthereumMain Chain = "eip155:1"
)

// IsValidChain checks if a chain is an eip155 chain id
func IsValidChain(chain Chain) bool {
	id, ok := strings.CutPrefix(string(chain), "eip155:")
	if !ok || id == "" {
		return false
	}
	_, ok = new(big.Int).SetString(id, 10)
	return ok
}

// ChainNumericID returns the numeric part of an eip155 chain
func (c Chain) ChainNumericID() uint64 {
	id, _ := strings.CutPrefix(string(c), "eip155:")
	n, ok := new(big.Int).SetString(id, 10)
	if !ok || !n.IsUint64() {
		return 0
	}
	return n.Uint64()
}

// NetworkID scopes persisted projections to one ledger instance: chain plus genesis hash
type NetworkID string

// NewNetworkID creates a network id from a chain and a genesis block hash
func NewNetworkID(chain Chain, genesis common.Hash) NetworkID {
	return NetworkID(fmt.Sprintf("%s:%s", chain, genesis.Hex()[2:18]))
}

// GameID is the opaque 32-byte identifier of a game
type GameID = common.Hash

// GameIDFromSlug derives a game id from a human readable slug (e.g. "peridot:studio:my-game")
func GameIDFromSlug(slug string) GameID {
	return crypto.Keccak256Hash([]byte(slug))
}

// ParseGameID parses a 0x-prefixed 32-byte hex game id
func ParseGameID(s string) (GameID, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") || len(s) != 66 {
		return GameID{}, fmt.Errorf("invalid game id %q", s)
	}
	b := common.FromHex(s)
	if len(b) != common.HashLength {
		return GameID{}, fmt.Errorf("invalid game id %q", s)
	}
	return common.BytesToHash(b), nil
}

// ParseAddress parses a hex address and rejects malformed input
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// ParseAmount parses a base-10 non-negative integer amount
func ParseAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return n, nil
}

// IsNative reports whether a payment token address is the native-currency sentinel
func IsNative(token common.Address) bool {
	return token == (common.Address{})
}

// NormalizeAddress normalizes an address to its checksummed form
func NormalizeAddress(address string) string {
	if strings.HasPrefix(address, "0x") {
		return common.HexToAddress(address).Hex()
	}
	return address
}

// Head is the latest version of a piece of off-chain content
type Head struct {
	Version uint64      `json:"version"`
	Hash    common.Hash `json:"hash"`
	URI     string      `json:"uri"`
}

// Published reports whether at least one version exists
func (h Head) Published() bool {
	return h.Version > 0
}

// MetadataKind distinguishes the two independent metadata heads of a sale
type MetadataKind string

const (
	MetadataKindGame     MetadataKind = "game"
	MetadataKindContract MetadataKind = "contract"
)

// IsValidMetadataKind checks if a metadata kind is known
func IsValidMetadataKind(kind MetadataKind) bool {
	return kind == MetadataKindGame || kind == MetadataKindContract
}

// EventType represents the type of ledger event relevant to downstream consumers
type EventType string

const (
	EventTypeGamePublished             EventType = "game_published"
	EventTypeGameActiveSet             EventType = "game_active_set"
	EventTypeMetadataPublished         EventType = "metadata_published"
	EventTypeContractMetadataPublished EventType = "contract_metadata_published"
	EventTypePurchased                 EventType = "purchased"
	EventTypePriceUpdated              EventType = "price_updated"
	EventTypeMaxSupplyUpdated          EventType = "max_supply_updated"
)

// EventTypes lists every event type delivered downstream
var EventTypes = []EventType{
	EventTypeGamePublished,
	EventTypeGameActiveSet,
	EventTypeMetadataPublished,
	EventTypeContractMetadataPublished,
	EventTypePurchased,
	EventTypePriceUpdated,
	EventTypeMaxSupplyUpdated,
}

// IsValidEventType checks if an event type is delivered downstream
func IsValidEventType(eventType string) bool {
	for _, t := range EventTypes {
		if string(t) == eventType {
			return true
		}
	}
	return false
}

// LedgerEvent represents a decoded ledger event
// This is the standard format published to NATS and delivered to webhooks
type LedgerEvent struct {
	Chain        Chain     `json:"chain"`                   // e.g., "eip155:31337"
	Contract     string    `json:"contract"`                // emitting contract address
	EventType    EventType `json:"event_type"`              // see EventType constants
	GameID       string    `json:"game_id,omitempty"`       // game id (registry and factory events)
	Publisher    string    `json:"publisher,omitempty"`     // publisher address
	SaleContract string    `json:"sale_contract,omitempty"` // license sale address
	Account      string    `json:"account,omitempty"`       // buyer for purchases
	Amount       string    `json:"amount,omitempty"`        // amount paid, new price or new max supply
	LicenseID    string    `json:"license_id,omitempty"`    // license token class
	Version      uint64    `json:"version,omitempty"`       // metadata head version
	Hash         string    `json:"hash,omitempty"`          // metadata content digest
	URI          string    `json:"uri,omitempty"`           // metadata locator
	Active       *bool     `json:"active,omitempty"`        // discoverability flag
	TxHash       string    `json:"tx_hash"`                 // transaction hash
	BlockNumber  uint64    `json:"block_number"`            // block number
	LogIndex     uint      `json:"log_index"`               // log index within the block
	Timestamp    time.Time `json:"timestamp"`               // block timestamp
}

// Valid checks the fields required by each event type
func (e *LedgerEvent) Valid() bool {
	if !common.IsHexAddress(e.Contract) || e.TxHash == "" {
		return false
	}

	switch e.EventType {
	case EventTypeGamePublished:
		return e.GameID != "" && common.IsHexAddress(e.SaleContract) && common.IsHexAddress(e.Publisher)
	case EventTypeGameActiveSet:
		return e.GameID != "" && e.Active != nil
	case EventTypeMetadataPublished, EventTypeContractMetadataPublished:
		return e.Version > 0 && e.Hash != ""
	case EventTypePurchased:
		return common.IsHexAddress(e.Account) && e.Amount != "" && e.LicenseID != ""
	case EventTypePriceUpdated, EventTypeMaxSupplyUpdated:
		return e.Amount != ""
	default:
		return false
	}
}

// ID returns a stable identifier for the event within a network
func (e *LedgerEvent) ID() string {
	return fmt.Sprintf("%s:%d", e.TxHash, e.LogIndex)
}
