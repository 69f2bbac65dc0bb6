package deployment

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/ledger"
)

// PaymentTokenArtifact records a deployed payment token
type PaymentTokenArtifact struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
}

// Artifact is the persisted record of one deployment target
type Artifact struct {
	NetworkName string           `json:"networkName"`
	ChainID     uint64           `json:"chainId"`
	NetworkID   domain.NetworkID `json:"networkId"`
	Deployer    string           `json:"deployer"`

	Implementation string `json:"implementation"`
	Registry       string `json:"registry"`
	Factory        string `json:"factory"`

	TreasuryRouter   string `json:"treasuryRouter"`
	FeeToken         string `json:"feeToken"`
	PublishFeeWei    string `json:"publishFeeWei"`
	PlatformFeeBps   uint16 `json:"platformFeeBps"`
	AllowlistEnabled bool   `json:"allowlistEnabled"`

	PaymentTokens []PaymentTokenArtifact `json:"paymentTokens,omitempty"`

	DeployedAt time.Time `json:"deployedAt"`
}

// NewArtifact describes sys as deployed on l
func NewArtifact(l *ledger.Ledger, clock adapter.Clock, opts Options, sys *System) (*Artifact, error) {
	info, err := sys.Factory.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to read factory: %w", err)
	}

	a := &Artifact{
		NetworkName:      opts.NetworkName,
		ChainID:          l.ChainID().Uint64(),
		NetworkID:        l.NetworkID(),
		Deployer:         opts.Deployer.Hex(),
		Implementation:   sys.Implementation.Hex(),
		Registry:         sys.Registry.Address().Hex(),
		Factory:          sys.Factory.Address().Hex(),
		TreasuryRouter:   info.FeeRecipient.Hex(),
		FeeToken:         info.FeeToken.Hex(),
		PublishFeeWei:    info.PublishFee.String(),
		PlatformFeeBps:   info.PlatformFeeBps,
		AllowlistEnabled: info.AllowlistEnabled,
		DeployedAt:       clock.Now().UTC(),
	}
	for _, t := range sys.PaymentTokens {
		ti, err := t.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to read payment token: %w", err)
		}
		a.PaymentTokens = append(a.PaymentTokens, PaymentTokenArtifact{
			Symbol:   ti.Symbol,
			Address:  ti.Address.Hex(),
			Decimals: ti.Decimals,
		})
	}
	return a, nil
}

// ArtifactStore persists deployment artifacts under a base directory as
// <dir>/<network>/<chainId>.json
//
//go:generate mockgen -source=artifact.go -destination=../mocks/artifact_store.go -package=mocks -mock_names=ArtifactStore=MockArtifactStore
type ArtifactStore interface {
	// Write stores the artifact and returns its path. Readers never observe a
	// partially written file.
	Write(a *Artifact) (string, error)

	// Read loads the artifact of a network and chain
	Read(networkName string, chainID uint64) (*Artifact, error)
}

type artifactStore struct {
	dir  string
	fs   adapter.FileSystem
	json adapter.JSON
}

// NewArtifactStore creates an ArtifactStore rooted at dir
func NewArtifactStore(dir string, fs adapter.FileSystem, json adapter.JSON) ArtifactStore {
	return &artifactStore{dir: dir, fs: fs, json: json}
}

func (s *artifactStore) path(networkName string, chainID uint64) string {
	return filepath.Join(s.dir, networkName, strconv.FormatUint(chainID, 10)+".json")
}

func (s *artifactStore) Write(a *Artifact) (string, error) {
	if a.NetworkName == "" {
		return "", fmt.Errorf("artifact has no network name")
	}

	data, err := s.json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal artifact: %w", err)
	}

	path := s.path(a.NetworkName, a.ChainID)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := s.fs.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return "", fmt.Errorf("failed to move artifact into place: %w", err)
	}
	return path, nil
}

func (s *artifactStore) Read(networkName string, chainID uint64) (*Artifact, error) {
	data, err := s.fs.ReadFile(s.path(networkName, chainID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no artifact for %s/%d", domain.ErrConfiguration, networkName, chainID)
		}
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var a Artifact
	if err := s.json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse artifact: %w", err)
	}
	return &a, nil
}
