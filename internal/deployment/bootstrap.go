package deployment

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/factory"
	"github.com/peridotvault/peridot-core/internal/ledger"
	"github.com/peridotvault/peridot-core/internal/logger"
	"github.com/peridotvault/peridot-core/internal/registry"
	"github.com/peridotvault/peridot-core/internal/sale"
	"github.com/peridotvault/peridot-core/internal/token"
)

// TokenOptions describes a fungible payment token deployed with the system
type TokenOptions struct {
	Name          string
	Symbol        string
	Decimals      uint8
	InitialSupply *big.Int
}

// Options configure a bootstrap run
type Options struct {
	NetworkName      string
	Deployer         common.Address
	TreasuryRouter   common.Address
	FeeToken         common.Address // zero address = native currency
	PublishFee       *big.Int
	PlatformFeeBps   uint16
	AllowlistEnabled bool
	Publishers       []common.Address
	PaymentTokens    []TokenOptions
}

// System holds clients bound to a deployed set of contracts
type System struct {
	Implementation common.Address
	Registry       *registry.Client
	Factory        *factory.Client
	PaymentTokens  []*token.Client
}

// Bootstrap deploys the sale implementation, the registry and the factory,
// wires them together and applies the fee and allowlist settings. The
// returned artifact describes the deployment.
func Bootstrap(ctx context.Context, l *ledger.Ledger, clock adapter.Clock, opts Options) (*System, *Artifact, error) {
	log := logger.With(zap.String("network", opts.NetworkName), zap.String("deployer", opts.Deployer.Hex()))
	log.Info("Deploying peridot contracts", zap.String("chain", string(l.Chain())))

	impl, _, err := sale.DeployImplementation(ctx, l, opts.Deployer)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to deploy sale implementation: %w", err)
	}
	log.Info("Deployed sale implementation", zap.String("address", impl.Hex()))

	reg, _, err := registry.Deploy(ctx, l, opts.Deployer)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to deploy registry: %w", err)
	}
	log.Info("Deployed registry", zap.String("address", reg.Address().Hex()))

	fac, _, err := factory.Deploy(ctx, l, opts.Deployer, factory.Config{
		Implementation: impl,
		FeeRecipient:   opts.TreasuryRouter,
		FeeToken:       opts.FeeToken,
		PublishFee:     opts.PublishFee,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to deploy factory: %w", err)
	}
	log.Info("Deployed factory", zap.String("address", fac.Address().Hex()))

	sys := &System{Implementation: impl, Registry: reg, Factory: fac}
	if err := Wire(ctx, sys, opts); err != nil {
		return nil, nil, err
	}

	for _, t := range opts.PaymentTokens {
		tc, _, err := token.Deploy(ctx, l, opts.Deployer, t.Name, t.Symbol, t.Decimals, t.InitialSupply)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to deploy payment token %s: %w", t.Symbol, err)
		}
		log.Info("Deployed payment token", zap.String("symbol", t.Symbol), zap.String("address", tc.Address().Hex()))
		sys.PaymentTokens = append(sys.PaymentTokens, tc)
	}

	artifact, err := NewArtifact(l, clock, opts, sys)
	if err != nil {
		return nil, nil, err
	}
	return sys, artifact, nil
}

// Deploy runs Bootstrap and records the artifact in artifacts, replacing
// the one of an earlier run on the same network and chain. It returns the
// artifact path.
func Deploy(ctx context.Context, l *ledger.Ledger, clock adapter.Clock, opts Options, artifacts ArtifactStore) (*System, *Artifact, string, error) {
	sys, artifact, err := Bootstrap(ctx, l, clock, opts)
	if err != nil {
		return nil, nil, "", err
	}

	previous, err := artifacts.Read(artifact.NetworkName, artifact.ChainID)
	if err != nil && !errors.Is(err, domain.ErrConfiguration) {
		return nil, nil, "", err
	}
	if previous != nil && previous.NetworkID != artifact.NetworkID {
		logger.InfoCtx(ctx, "Replacing deployment artifact of an earlier run",
			zap.String("previous", string(previous.NetworkID)),
			zap.String("current", string(artifact.NetworkID)))
	}

	path, err := artifacts.Write(artifact)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to record deployment: %w", err)
	}
	return sys, artifact, path, nil
}

// Wire brings an existing deployment in line with opts. Every setting is
// read first and only written when it differs, so Wire can be rerun safely.
func Wire(ctx context.Context, sys *System, opts Options) error {
	from := opts.Deployer

	currentFactory, err := sys.Registry.Factory()
	if err != nil {
		return fmt.Errorf("failed to read registry factory: %w", err)
	}
	if currentFactory != sys.Factory.Address() {
		if _, err := sys.Registry.SetFactory(ctx, from, sys.Factory.Address()); err != nil {
			return fmt.Errorf("failed to set registry factory: %w", err)
		}
		logger.InfoCtx(ctx, "Registry factory set", zap.String("factory", sys.Factory.Address().Hex()))
	} else {
		logger.InfoCtx(ctx, "Registry factory already set")
	}

	info, err := sys.Factory.Info()
	if err != nil {
		return fmt.Errorf("failed to read factory: %w", err)
	}

	if info.Registry != sys.Registry.Address() {
		if _, err := sys.Factory.SetRegistry(ctx, from, sys.Registry.Address()); err != nil {
			return fmt.Errorf("failed to set factory registry: %w", err)
		}
		logger.InfoCtx(ctx, "Factory registry set", zap.String("registry", sys.Registry.Address().Hex()))
	} else {
		logger.InfoCtx(ctx, "Factory registry already set")
	}

	if info.PlatformFeeBps != opts.PlatformFeeBps {
		if _, err := sys.Factory.SetPlatformFeeBps(ctx, from, opts.PlatformFeeBps); err != nil {
			return fmt.Errorf("failed to set platform fee: %w", err)
		}
		logger.InfoCtx(ctx, "Platform fee set", zap.Uint16("platformFeeBps", opts.PlatformFeeBps))
	}

	if info.AllowlistEnabled != opts.AllowlistEnabled {
		if _, err := sys.Factory.SetAllowlistEnabled(ctx, from, opts.AllowlistEnabled); err != nil {
			return fmt.Errorf("failed to set allowlist enforcement: %w", err)
		}
		logger.InfoCtx(ctx, "Allowlist enforcement set", zap.Bool("enabled", opts.AllowlistEnabled))
	}

	for _, publisher := range opts.Publishers {
		listed, err := sys.Factory.IsPublisher(publisher)
		if err != nil {
			return fmt.Errorf("failed to read allowlist: %w", err)
		}
		if listed {
			continue
		}
		if _, err := sys.Factory.SetPublisher(ctx, from, publisher, true); err != nil {
			return fmt.Errorf("failed to allowlist publisher %s: %w", publisher.Hex(), err)
		}
		logger.InfoCtx(ctx, "Publisher allowlisted", zap.String("publisher", publisher.Hex()))
	}

	return nil
}
