package factory

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/events"
	"github.com/peridotvault/peridot-core/internal/ledger"
	"github.com/peridotvault/peridot-core/internal/registry"
	"github.com/peridotvault/peridot-core/internal/sale"
	"github.com/peridotvault/peridot-core/internal/token"
)

// PublishParams are the sale fields a publisher chooses for a new game
type PublishParams struct {
	TokenURITemplate   string
	ContractMetaHash   common.Hash
	ContractMetaURI    string
	GameID             domain.GameID
	PaymentToken       common.Address
	Price              *big.Int
	MaxSupply          uint64
	TreasuryRouter     common.Address
	DeveloperRecipient common.Address
	// PlatformFeeBps overrides the factory default when set
	PlatformFeeBps *uint16
}

// PublishGame clones the sale implementation for a new game, initializes it
// with the caller as owner and registers it. The publish fee is collected
// first when paid in a token; a native fee is forwarded to the fee recipient
// only after the game is registered, with any excess refunded. Every step
// shares the caller's transaction and fails together.
func (f *PublishFactory) PublishGame(c *ledger.Call, p PublishParams) (common.Address, error) {
	publisher := c.Sender

	if err := f.checkConfiguration(c); err != nil {
		return common.Address{}, err
	}
	if f.allowlistEnabled && !f.allowlist[publisher] {
		return common.Address{}, fmt.Errorf("%w: %s", ErrNotAllowlisted, publisher.Hex())
	}
	if err := f.checkFee(c, publisher); err != nil {
		return common.Address{}, err
	}

	registered, err := registry.IsRegisteredAt(c, f.registry, p.GameID)
	if err != nil {
		return common.Address{}, err
	}
	if registered {
		return common.Address{}, fmt.Errorf("%w: %s", registry.ErrAlreadyRegistered, p.GameID.Hex())
	}

	fee := new(big.Int).Set(f.publishFee)
	native := domain.IsNative(f.feeToken)
	if !native {
		if err := token.TransferFrom(c, f.feeToken, publisher, f.feeRecipient, fee); err != nil {
			return common.Address{}, fmt.Errorf("failed to collect publish fee: %w", err)
		}
	}

	clone, err := c.Clone(f.implementation)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to clone sale implementation: %w", err)
	}

	bps := f.platformFeeBps
	if p.PlatformFeeBps != nil {
		bps = *p.PlatformFeeBps
	}
	err = sale.InitializeAt(c, clone, sale.InitParams{
		TokenURITemplate:   p.TokenURITemplate,
		ContractMetaHash:   p.ContractMetaHash,
		ContractMetaURI:    p.ContractMetaURI,
		GameID:             p.GameID,
		PaymentToken:       p.PaymentToken,
		Price:              p.Price,
		MaxSupply:          p.MaxSupply,
		TreasuryRouter:     p.TreasuryRouter,
		DeveloperRecipient: p.DeveloperRecipient,
		PlatformFeeBps:     bps,
		Owner:              publisher,
	})
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to initialize sale: %w", err)
	}

	if err := registry.RegisterAt(c, f.registry, p.GameID, clone, publisher); err != nil {
		return common.Address{}, fmt.Errorf("failed to register game: %w", err)
	}
	if err := events.Emit(c, events.GamePublished, p.GameID, publisher, clone); err != nil {
		return common.Address{}, err
	}

	if native {
		if err := c.Transfer(f.feeRecipient, fee); err != nil {
			return common.Address{}, fmt.Errorf("failed to forward publish fee: %w", err)
		}
		if refund := new(big.Int).Sub(c.Value, fee); refund.Sign() > 0 {
			if err := c.Transfer(publisher, refund); err != nil {
				return common.Address{}, fmt.Errorf("failed to refund publisher: %w", err)
			}
		}
	}
	return clone, nil
}

func (f *PublishFactory) checkConfiguration(c *ledger.Call) error {
	if f.implementation == (common.Address{}) || !c.IsContract(f.implementation) {
		return fmt.Errorf("%w: %s", ErrImplementationNotSet, f.implementation.Hex())
	}
	if f.registry == (common.Address{}) || !c.IsContract(f.registry) {
		return fmt.Errorf("%w: %s", ErrRegistryNotSet, f.registry.Hex())
	}
	return nil
}

// checkFee rejects an uncovered publish fee before anything is written
func (f *PublishFactory) checkFee(c *ledger.Call, publisher common.Address) error {
	if domain.IsNative(f.feeToken) {
		if c.Value.Cmp(f.publishFee) < 0 {
			return fmt.Errorf("%w: sent %s, publish fee %s", domain.ErrInsufficientPayment, c.Value, f.publishFee)
		}
		return nil
	}

	if c.Value.Sign() > 0 {
		return fmt.Errorf("%w: native value sent with a fee payable in %s", domain.ErrInvariantViolation, f.feeToken.Hex())
	}
	if f.publishFee.Sign() == 0 {
		return nil
	}
	t, err := ledger.At[*token.Token](c, f.feeToken)
	if err != nil {
		return fmt.Errorf("failed to resolve fee token: %w", err)
	}
	if allowance := t.Allowance(publisher, c.Self); allowance.Cmp(f.publishFee) < 0 {
		return fmt.Errorf("%w: allowed %s, publish fee %s", token.ErrInsufficientAllowance, allowance, f.publishFee)
	}
	if balance := t.BalanceOf(publisher); balance.Cmp(f.publishFee) < 0 {
		return fmt.Errorf("%w: has %s, publish fee %s", token.ErrInsufficientBalance, balance, f.publishFee)
	}
	return nil
}
