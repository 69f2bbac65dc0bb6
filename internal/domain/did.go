package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// DID represents a Decentralized Identifier (W3C standard)
type DID string

// NewDID creates a did:pkh identifier for an account on a chain
// Reference: https://github.com/w3c-ccg/did-pkh
func NewDID(address common.Address, chain Chain) DID {
	return DID(fmt.Sprintf("did:pkh:%s:%s", strings.ToLower(string(chain)), strings.ToLower(address.Hex())))
}

// String returns the string representation of the DID
func (d DID) String() string {
	return string(d)
}
