package domain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidChain(t *testing.T) {
	tests := []struct {
		name     string
		chain    Chain
		expected bool
	}{
		{name: "local devnet", chain: ChainLocalDevnet, expected: true},
		{name: "base sepolia", chain: ChainBaseSepolia, expected: true},
		{name: "empty chain", chain: Chain(""), expected: false},
		{name: "missing id", chain: Chain("eip155:"), expected: false},
		{name: "tezos chain", chain: Chain("tezos:mainnet"), expected: false},
		{name: "non numeric id", chain: Chain("eip155:abc"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidChain(tt.chain))
		})
	}
}

func TestChain_ChainNumericID(t *testing.T) {
	assert.Equal(t, uint64(31337), ChainLocalDevnet.ChainNumericID())
	assert.Equal(t, uint64(4202), ChainLiskSepolia.ChainNumericID())
	assert.Equal(t, uint64(0), Chain("tezos:mainnet").ChainNumericID())
}

func TestGameIDFromSlug(t *testing.T) {
	id := GameIDFromSlug("peridot:studio:my-game")
	assert.Equal(t, crypto.Keccak256Hash([]byte("peridot:studio:my-game")), id)
	assert.NotEqual(t, GameIDFromSlug("peridot:studio:other-game"), id)
}

func TestParseGameID(t *testing.T) {
	id := GameIDFromSlug("peridot:studio:game-1")

	parsed, err := ParseGameID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseGameID("0x1234")
	assert.Error(t, err)

	_, err = ParseGameID(id.Hex()[2:])
	assert.Error(t, err)
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x396343362be2A4dA1cE0C1C210945346fb82Aa49")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x396343362be2A4dA1cE0C1C210945346fb82Aa49"), addr)

	_, err = ParseAddress("0xnot-an-address")
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	n, err := ParseAmount("1000000000000000000000")
	require.NoError(t, err)
	expected, _ := new(big.Int).SetString("1000000000000000000000", 10)
	assert.Equal(t, 0, expected.Cmp(n))

	n, err = ParseAmount("")
	require.NoError(t, err)
	assert.Equal(t, 0, n.Sign())

	_, err = ParseAmount("-1")
	assert.Error(t, err)

	_, err = ParseAmount("1.5")
	assert.Error(t, err)
}

func TestIsNative(t *testing.T) {
	assert.True(t, IsNative(common.HexToAddress(ETHEREUM_ZERO_ADDRESS)))
	assert.False(t, IsNative(common.HexToAddress("0x0000000000000000000000000000000000000001")))
}

func TestLedgerEvent_Valid(t *testing.T) {
	contract := "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	account := "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	active := true

	tests := []struct {
		name     string
		event    LedgerEvent
		expected bool
	}{
		{
			name: "valid game published",
			event: LedgerEvent{
				Contract:     contract,
				EventType:    EventTypeGamePublished,
				GameID:       GameIDFromSlug("g").Hex(),
				Publisher:    account,
				SaleContract: contract,
				TxHash:       "0xtx",
			},
			expected: true,
		},
		{
			name: "game published without sale contract",
			event: LedgerEvent{
				Contract:  contract,
				EventType: EventTypeGamePublished,
				GameID:    GameIDFromSlug("g").Hex(),
				Publisher: account,
				TxHash:    "0xtx",
			},
			expected: false,
		},
		{
			name: "valid active set",
			event: LedgerEvent{
				Contract:  contract,
				EventType: EventTypeGameActiveSet,
				GameID:    GameIDFromSlug("g").Hex(),
				Active:    &active,
				TxHash:    "0xtx",
			},
			expected: true,
		},
		{
			name: "metadata with zero version",
			event: LedgerEvent{
				Contract:  contract,
				EventType: EventTypeMetadataPublished,
				Hash:      "0xabc",
				TxHash:    "0xtx",
			},
			expected: false,
		},
		{
			name: "valid purchase",
			event: LedgerEvent{
				Contract:  contract,
				EventType: EventTypePurchased,
				Account:   account,
				Amount:    "1000000",
				LicenseID: "1",
				TxHash:    "0xtx",
			},
			expected: true,
		},
		{
			name: "unknown event type",
			event: LedgerEvent{
				Contract:  contract,
				EventType: EventType("transfer"),
				TxHash:    "0xtx",
			},
			expected: false,
		},
		{
			name: "missing tx hash",
			event: LedgerEvent{
				Contract:  contract,
				EventType: EventTypePriceUpdated,
				Amount:    "1",
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.Valid())
		})
	}
}

func TestNewNetworkID(t *testing.T) {
	genesis := common.HexToHash("0xabcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789")
	assert.Equal(t, NetworkID("eip155:31337:abcdef0123456789"), NewNetworkID(ChainLocalDevnet, genesis))
}
