package metadata

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/peridotvault/peridot-core/internal/adapter"
)

// Hasher computes the content hash published on-chain for a metadata document
//
//go:generate mockgen -source=hasher.go -destination=../mocks/metadata_hasher.go -package=mocks -mock_names=Hasher=MockMetadataHasher
type Hasher interface {
	// Canonicalize returns the RFC 8785 form of a JSON document
	Canonicalize(doc []byte) ([]byte, error)

	// Hash returns keccak256 over the canonical form of doc, so documents that
	// differ only in whitespace or key order share a hash
	Hash(doc []byte) (common.Hash, error)
}

type hasher struct {
	jcs adapter.JCS
}

// NewHasher creates a Hasher canonicalizing with jcs
func NewHasher(jcs adapter.JCS) Hasher {
	return &hasher{jcs: jcs}
}

func (h *hasher) Canonicalize(doc []byte) ([]byte, error) {
	canonical, err := h.jcs.Transform(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize metadata: %w", err)
	}
	return canonical, nil
}

func (h *hasher) Hash(doc []byte) (common.Hash, error) {
	canonical, err := h.Canonicalize(doc)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(canonical), nil
}

// URIHash is the development fallback digest: keccak256 of the URI string
// itself, for documents that are not available locally
func URIHash(uri string) common.Hash {
	return crypto.Keccak256Hash([]byte(uri))
}
