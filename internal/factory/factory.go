package factory

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/events"
	"github.com/peridotvault/peridot-core/internal/ledger"
)

var (
	// ErrNotOwner is returned when a non-owner calls an owner-only entry point
	ErrNotOwner = fmt.Errorf("%w: caller is not the factory owner", domain.ErrUnauthorized)
	// ErrNotAllowlisted is returned when an unlisted publisher publishes while
	// the allowlist is enforced
	ErrNotAllowlisted = fmt.Errorf("%w: publisher is not allowlisted", domain.ErrUnauthorized)
	// ErrImplementationNotSet is returned when the sale implementation is missing
	ErrImplementationNotSet = fmt.Errorf("%w: sale implementation not set", domain.ErrConfiguration)
	// ErrRegistryNotSet is returned when the game registry is missing
	ErrRegistryNotSet = fmt.Errorf("%w: game registry not set", domain.ErrConfiguration)
)

// Config is the construction-time configuration of a factory
type Config struct {
	Implementation common.Address
	Registry       common.Address // may be wired later with SetRegistry
	FeeRecipient   common.Address
	FeeToken       common.Address // zero address = native currency
	PublishFee     *big.Int
	PlatformFeeBps uint16
}

// PublishFactory deploys one LicenseSale clone per game and registers it.
type PublishFactory struct {
	owner          common.Address
	implementation common.Address
	registry       common.Address

	feeRecipient common.Address
	feeToken     common.Address
	publishFee   *big.Int

	platformFeeBps   uint16
	allowlistEnabled bool
	allowlist        map[common.Address]bool
}

// New returns unconstructed factory storage
func New() *PublishFactory {
	return &PublishFactory{
		publishFee: new(big.Int),
		allowlist:  make(map[common.Address]bool),
	}
}

// Construct stores the configuration and makes the deployer the owner.
// The allowlist starts enforced and empty.
func (f *PublishFactory) Construct(c *ledger.Call, cfg Config) error {
	if cfg.Implementation == (common.Address{}) {
		return ErrImplementationNotSet
	}
	if err := validateFeeBps(cfg.PlatformFeeBps); err != nil {
		return err
	}
	if err := validateFeeConfig(cfg.FeeRecipient, cfg.PublishFee); err != nil {
		return err
	}

	ledger.Set(c, &f.owner, c.Sender)
	ledger.Set(c, &f.implementation, cfg.Implementation)
	ledger.Set(c, &f.registry, cfg.Registry)
	ledger.Set(c, &f.feeRecipient, cfg.FeeRecipient)
	ledger.Set(c, &f.feeToken, cfg.FeeToken)
	ledger.Set(c, &f.publishFee, amountOrZero(cfg.PublishFee))
	ledger.Set(c, &f.platformFeeBps, cfg.PlatformFeeBps)
	ledger.Set(c, &f.allowlistEnabled, true)

	return events.Emit(c, events.OwnershipTransferred, common.Address{}, c.Sender)
}

// SetRegistry points the factory at a game registry; owner only. Setting the
// current registry again is a no-op.
func (f *PublishFactory) SetRegistry(c *ledger.Call, registry common.Address) error {
	if err := f.onlyOwner(c); err != nil {
		return err
	}
	if registry == (common.Address{}) {
		return fmt.Errorf("%w: registry is the zero address", domain.ErrInvariantViolation)
	}
	if registry == f.registry {
		return nil
	}
	ledger.Set(c, &f.registry, registry)
	return events.Emit(c, events.RegistrySet, registry)
}

// SetPublisher adds or removes a publisher from the allowlist; owner only
func (f *PublishFactory) SetPublisher(c *ledger.Call, publisher common.Address, allowed bool) error {
	if err := f.onlyOwner(c); err != nil {
		return err
	}
	if allowed {
		ledger.Put(c, f.allowlist, publisher, true)
	} else {
		ledger.Delete(c, f.allowlist, publisher)
	}
	return events.Emit(c, events.PublisherSet, publisher, allowed)
}

// SetAllowlistEnabled turns allowlist enforcement on or off; owner only
func (f *PublishFactory) SetAllowlistEnabled(c *ledger.Call, enabled bool) error {
	if err := f.onlyOwner(c); err != nil {
		return err
	}
	ledger.Set(c, &f.allowlistEnabled, enabled)
	return events.Emit(c, events.AllowlistEnabledSet, enabled)
}

// SetPlatformFeeBps changes the fee stamped into future games; owner only.
// Existing sales keep their own value.
func (f *PublishFactory) SetPlatformFeeBps(c *ledger.Call, bps uint16) error {
	if err := f.onlyOwner(c); err != nil {
		return err
	}
	if err := validateFeeBps(bps); err != nil {
		return err
	}
	ledger.Set(c, &f.platformFeeBps, bps)
	return events.Emit(c, events.PlatformFeeBpsUpdated, bps)
}

// SetFeeConfig changes the publish fee; owner only
func (f *PublishFactory) SetFeeConfig(c *ledger.Call, recipient, feeToken common.Address, fee *big.Int) error {
	if err := f.onlyOwner(c); err != nil {
		return err
	}
	if err := validateFeeConfig(recipient, fee); err != nil {
		return err
	}
	fee = amountOrZero(fee)
	ledger.Set(c, &f.feeRecipient, recipient)
	ledger.Set(c, &f.feeToken, feeToken)
	ledger.Set(c, &f.publishFee, fee)
	return events.Emit(c, events.FeeConfigSet, recipient, feeToken, fee)
}

// TransferOwnership hands administrative rights to newOwner; owner only
func (f *PublishFactory) TransferOwnership(c *ledger.Call, newOwner common.Address) error {
	if err := f.onlyOwner(c); err != nil {
		return err
	}
	if newOwner == (common.Address{}) {
		return fmt.Errorf("%w: new owner is the zero address", domain.ErrInvariantViolation)
	}
	previous := f.owner
	ledger.Set(c, &f.owner, newOwner)
	return events.Emit(c, events.OwnershipTransferred, previous, newOwner)
}

func (f *PublishFactory) onlyOwner(c *ledger.Call) error {
	if c.Sender != f.owner {
		return fmt.Errorf("%w: %s", ErrNotOwner, c.Sender.Hex())
	}
	return nil
}

func validateFeeBps(bps uint16) error {
	if bps > domain.MAX_BPS {
		return fmt.Errorf("%w: platform fee %d bps exceeds %d", domain.ErrInvariantViolation, bps, domain.MAX_BPS)
	}
	return nil
}

func validateFeeConfig(recipient common.Address, fee *big.Int) error {
	if fee == nil {
		return nil
	}
	if fee.Sign() < 0 {
		return fmt.Errorf("%w: negative publish fee", domain.ErrInvariantViolation)
	}
	if fee.Sign() > 0 && recipient == (common.Address{}) {
		return fmt.Errorf("%w: publish fee without a recipient", domain.ErrInvariantViolation)
	}
	return nil
}

func amountOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

// Owner returns the administrative owner
func (f *PublishFactory) Owner() common.Address { return f.owner }

// Implementation returns the sale every game is cloned from
func (f *PublishFactory) Implementation() common.Address { return f.implementation }

func (f *PublishFactory) Registry() common.Address { return f.registry }

func (f *PublishFactory) FeeRecipient() common.Address { return f.feeRecipient }

func (f *PublishFactory) FeeToken() common.Address { return f.feeToken }

func (f *PublishFactory) PublishFee() *big.Int { return new(big.Int).Set(f.publishFee) }

func (f *PublishFactory) PlatformFeeBps() uint16 { return f.platformFeeBps }

func (f *PublishFactory) AllowlistEnabled() bool { return f.allowlistEnabled }

// IsPublisher reports allowlist membership
func (f *PublishFactory) IsPublisher(addr common.Address) bool { return f.allowlist[addr] }
