package domain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestNewDID(t *testing.T) {
	tests := []struct {
		name     string
		address  common.Address
		chain    Chain
		expected DID
	}{
		{
			name:     "local devnet address",
			address:  common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb0"),
			chain:    ChainLocalDevnet,
			expected: DID("did:pkh:eip155:31337:0x742d35cc6634c0532925a3b844bc9e7595f0beb0"),
		},
		{
			name:     "base sepolia address uppercase",
			address:  common.HexToAddress("0x396343362be2A4dA1cE0C1C210945346fb82Aa49"),
			chain:    ChainBaseSepolia,
			expected: DID("did:pkh:eip155:84532:0x396343362be2a4da1ce0c1c210945346fb82aa49"),
		},
		{
			name:     "zero address",
			address:  common.Address{},
			chain:    ChainLiskSepolia,
			expected: DID("did:pkh:eip155:4202:" + ETHEREUM_ZERO_ADDRESS),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewDID(tt.address, tt.chain))
		})
	}
}
