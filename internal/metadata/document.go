package metadata

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/peridotvault/peridot-core/internal/domain"
)

// Document is a validated metadata document ready to be published
type Document struct {
	Kind      domain.MetadataKind
	Canonical []byte
	Hash      common.Hash
}

// Prepare validates doc against its kind and computes its publish hash
func Prepare(v Validator, h Hasher, kind domain.MetadataKind, doc []byte) (*Document, error) {
	if err := v.Validate(kind, doc); err != nil {
		return nil, err
	}
	canonical, err := h.Canonicalize(doc)
	if err != nil {
		return nil, err
	}
	hash, err := h.Hash(canonical)
	if err != nil {
		return nil, err
	}
	return &Document{Kind: kind, Canonical: canonical, Hash: hash}, nil
}
