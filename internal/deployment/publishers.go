package deployment

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/domain"
)

// PublisherChainConfig lists a publisher's addresses on one chain
type PublisherChainConfig struct {
	Addresses []string `json:"addresses"`
}

// PublisherInfo is one studio entry of the publishers file
type PublisherInfo struct {
	Name   string                          `json:"name"`
	URL    string                          `json:"url"`
	Chains map[string]PublisherChainConfig `json:"chains"` // key is a chain id like "eip155:84532"
}

// PublishersData is the structure of the publishers JSON file
type PublishersData struct {
	Version    int             `json:"version"`
	Publishers []PublisherInfo `json:"publishers"`
}

// PublisherList answers allowlist questions about the publishers file
type PublisherList interface {
	// Addresses returns every publisher address configured for chain
	Addresses(chain domain.Chain) []common.Address

	// Lookup returns the publisher owning address on chain
	Lookup(chain domain.Chain, address common.Address) *PublisherInfo
}

type publisherList struct {
	byChain map[string][]common.Address
	owners  map[string]*PublisherInfo
}

// PublisherListLoader loads publisher lists from files
//
//go:generate mockgen -source=publishers.go -destination=../mocks/publisher_list.go -package=mocks -mock_names=PublisherListLoader=MockPublisherListLoader
type PublisherListLoader interface {
	Load(filePath string) (PublisherList, error)
}

type publisherListLoader struct {
	fs   adapter.FileSystem
	json adapter.JSON
}

// NewPublisherListLoader creates a PublisherListLoader with injected dependencies
func NewPublisherListLoader(fs adapter.FileSystem, json adapter.JSON) PublisherListLoader {
	return &publisherListLoader{fs: fs, json: json}
}

// Load reads and indexes a publishers file. Invalid addresses are rejected.
func (l *publisherListLoader) Load(filePath string) (PublisherList, error) {
	data, err := l.fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read publishers file: %w", err)
	}

	var parsed PublishersData
	if err := l.json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse publishers JSON: %w", err)
	}

	list := &publisherList{
		byChain: make(map[string][]common.Address),
		owners:  make(map[string]*PublisherInfo),
	}
	for i := range parsed.Publishers {
		publisher := &parsed.Publishers[i]
		for chainID, chainConfig := range publisher.Chains {
			chain := strings.ToLower(chainID)
			for _, raw := range chainConfig.Addresses {
				addr, err := domain.ParseAddress(raw)
				if err != nil {
					return nil, fmt.Errorf("publisher %q: %w", publisher.Name, err)
				}
				key := chain + ":" + strings.ToLower(addr.Hex())
				if _, dup := list.owners[key]; dup {
					continue
				}
				list.owners[key] = publisher
				list.byChain[chain] = append(list.byChain[chain], addr)
			}
		}
	}
	return list, nil
}

func (p *publisherList) Addresses(chain domain.Chain) []common.Address {
	addrs := p.byChain[strings.ToLower(string(chain))]
	out := make([]common.Address, len(addrs))
	copy(out, addrs)
	return out
}

func (p *publisherList) Lookup(chain domain.Chain, address common.Address) *PublisherInfo {
	return p.owners[strings.ToLower(string(chain))+":"+strings.ToLower(address.Hex())]
}

// ResolvePublishers returns configured followed by the publishers file's
// addresses for chain, without duplicates. An empty file skips the loader.
func ResolvePublishers(loader PublisherListLoader, chain domain.Chain, file string, configured []common.Address) ([]common.Address, error) {
	seen := make(map[common.Address]bool, len(configured))
	out := make([]common.Address, 0, len(configured))
	add := func(addrs []common.Address) {
		for _, addr := range addrs {
			if !seen[addr] {
				seen[addr] = true
				out = append(out, addr)
			}
		}
	}

	add(configured)
	if file == "" {
		return out, nil
	}

	list, err := loader.Load(file)
	if err != nil {
		return nil, err
	}
	add(list.Addresses(chain))
	return out, nil
}
