package sale

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/events"
	"github.com/peridotvault/peridot-core/internal/ledger"
	"github.com/peridotvault/peridot-core/internal/token"
)

// Split divides price into the platform fee, rounded down, and the developer
// remainder. fee + remainder == price for every input.
func Split(price *big.Int, bps uint16) (fee, remainder *big.Int) {
	fee = new(big.Int).Mul(price, big.NewInt(int64(bps)))
	fee.Quo(fee, big.NewInt(domain.MAX_BPS))
	remainder = new(big.Int).Sub(price, fee)
	return fee, remainder
}

// Buy sells one license to the caller. Native sales are paid with the call
// value and any excess is refunded; token sales pull price from the caller's
// allowance. All accounting is written before any funds leave the contract.
func (s *LicenseSale) Buy(c *ledger.Call) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if !s.metadataHead.Published() {
		return ErrMetadataNotPublished
	}
	if s.maxSupply != 0 && s.totalMinted >= s.maxSupply {
		return fmt.Errorf("%w: %d of %d minted", domain.ErrSupplyExhausted, s.totalMinted, s.maxSupply)
	}

	buyer := c.Sender
	price := new(big.Int).Set(s.price)
	native := domain.IsNative(s.paymentToken)

	if native {
		if c.Value.Cmp(price) < 0 {
			return fmt.Errorf("%w: sent %s, price %s", domain.ErrInsufficientPayment, c.Value, price)
		}
	} else if c.Value.Sign() > 0 {
		return fmt.Errorf("%w: native value sent to a sale priced in %s", domain.ErrInvariantViolation, s.paymentToken.Hex())
	}

	licenseID := domain.LicenseTokenID()
	ledger.Set(c, &s.totalMinted, s.totalMinted+1)
	if err := s.mint(c, buyer, licenseID, big.NewInt(1)); err != nil {
		return err
	}
	if err := events.Emit(c, events.Purchased, buyer, price, licenseID); err != nil {
		return err
	}
	if err := s.checkReceiver(c, buyer, common.Address{}, buyer, licenseID, big.NewInt(1)); err != nil {
		return err
	}

	fee, remainder := Split(price, s.platformFeeBps)
	if native {
		return s.payNative(c, buyer, price, fee, remainder)
	}
	return s.payToken(c, buyer, fee, remainder)
}

func (s *LicenseSale) payNative(c *ledger.Call, buyer common.Address, price, fee, remainder *big.Int) error {
	if err := c.Transfer(s.treasuryRouter, fee); err != nil {
		return fmt.Errorf("failed to pay treasury: %w", err)
	}
	if err := c.Transfer(s.developerRecipient, remainder); err != nil {
		return fmt.Errorf("failed to pay developer: %w", err)
	}
	if refund := new(big.Int).Sub(c.Value, price); refund.Sign() > 0 {
		if err := c.Transfer(buyer, refund); err != nil {
			return fmt.Errorf("failed to refund buyer: %w", err)
		}
	}
	return nil
}

func (s *LicenseSale) payToken(c *ledger.Call, buyer common.Address, fee, remainder *big.Int) error {
	if err := token.TransferFrom(c, s.paymentToken, buyer, s.treasuryRouter, fee); err != nil {
		return fmt.Errorf("failed to pay treasury: %w", err)
	}
	if err := token.TransferFrom(c, s.paymentToken, buyer, s.developerRecipient, remainder); err != nil {
		return fmt.Errorf("failed to pay developer: %w", err)
	}
	return nil
}
