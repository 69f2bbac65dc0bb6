package factory

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/peridotvault/peridot-core/internal/ledger"
)

// Info is a snapshot of the factory configuration
type Info struct {
	Address          common.Address
	Owner            common.Address
	Implementation   common.Address
	Registry         common.Address
	FeeRecipient     common.Address
	FeeToken         common.Address
	PublishFee       *big.Int
	PlatformFeeBps   uint16
	AllowlistEnabled bool
}

// Client submits transactions to and reads from a factory on a ledger
type Client struct {
	ledger  *ledger.Ledger
	address common.Address
}

// NewClient binds a client to the factory at address
func NewClient(l *ledger.Ledger, address common.Address) *Client {
	return &Client{ledger: l, address: address}
}

// Deploy deploys a factory owned by from
func Deploy(ctx context.Context, l *ledger.Ledger, from common.Address, cfg Config) (*Client, *ledger.Receipt, error) {
	f := New()
	addr, receipt, err := l.Deploy(ctx, from, f, func(c *ledger.Call) error {
		return f.Construct(c, cfg)
	})
	if err != nil {
		return nil, receipt, err
	}
	return NewClient(l, addr), receipt, nil
}

// Address returns the factory address
func (k *Client) Address() common.Address {
	return k.address
}

func (k *Client) transact(ctx context.Context, from common.Address, value *big.Int, fn func(c *ledger.Call, f *PublishFactory) error) (*ledger.Receipt, error) {
	return k.ledger.Transact(ctx, from, k.address, value, func(c *ledger.Call) error {
		f, err := ledger.This[*PublishFactory](c)
		if err != nil {
			return err
		}
		return fn(c, f)
	})
}

// PublishGame publishes a game as from, paying value in native currency.
// The sale address is zero when the transaction failed.
func (k *Client) PublishGame(ctx context.Context, from common.Address, value *big.Int, params PublishParams) (common.Address, *ledger.Receipt, error) {
	var clone common.Address
	receipt, err := k.transact(ctx, from, value, func(c *ledger.Call, f *PublishFactory) error {
		var err error
		clone, err = f.PublishGame(c, params)
		return err
	})
	if err != nil {
		return common.Address{}, receipt, err
	}
	return clone, receipt, nil
}

// SetRegistry points the factory at registry
func (k *Client) SetRegistry(ctx context.Context, from, registry common.Address) (*ledger.Receipt, error) {
	return k.transact(ctx, from, nil, func(c *ledger.Call, f *PublishFactory) error {
		return f.SetRegistry(c, registry)
	})
}

// SetPublisher updates allowlist membership of publisher
func (k *Client) SetPublisher(ctx context.Context, from, publisher common.Address, allowed bool) (*ledger.Receipt, error) {
	return k.transact(ctx, from, nil, func(c *ledger.Call, f *PublishFactory) error {
		return f.SetPublisher(c, publisher, allowed)
	})
}

// SetAllowlistEnabled toggles allowlist enforcement
func (k *Client) SetAllowlistEnabled(ctx context.Context, from common.Address, enabled bool) (*ledger.Receipt, error) {
	return k.transact(ctx, from, nil, func(c *ledger.Call, f *PublishFactory) error {
		return f.SetAllowlistEnabled(c, enabled)
	})
}

// SetPlatformFeeBps changes the default platform fee of future games
func (k *Client) SetPlatformFeeBps(ctx context.Context, from common.Address, bps uint16) (*ledger.Receipt, error) {
	return k.transact(ctx, from, nil, func(c *ledger.Call, f *PublishFactory) error {
		return f.SetPlatformFeeBps(c, bps)
	})
}

// SetFeeConfig changes the publish fee
func (k *Client) SetFeeConfig(ctx context.Context, from, recipient, feeToken common.Address, fee *big.Int) (*ledger.Receipt, error) {
	return k.transact(ctx, from, nil, func(c *ledger.Call, f *PublishFactory) error {
		return f.SetFeeConfig(c, recipient, feeToken, fee)
	})
}

// TransferOwnership hands the factory to newOwner
func (k *Client) TransferOwnership(ctx context.Context, from, newOwner common.Address) (*ledger.Receipt, error) {
	return k.transact(ctx, from, nil, func(c *ledger.Call, f *PublishFactory) error {
		return f.TransferOwnership(c, newOwner)
	})
}

// Info returns a snapshot of the factory configuration
func (k *Client) Info() (*Info, error) {
	var out *Info
	err := ledger.View(k.ledger, k.address, func(f *PublishFactory) error {
		out = &Info{
			Address:          k.address,
			Owner:            f.Owner(),
			Implementation:   f.Implementation(),
			Registry:         f.Registry(),
			FeeRecipient:     f.FeeRecipient(),
			FeeToken:         f.FeeToken(),
			PublishFee:       f.PublishFee(),
			PlatformFeeBps:   f.PlatformFeeBps(),
			AllowlistEnabled: f.AllowlistEnabled(),
		}
		return nil
	})
	return out, err
}

// IsPublisher reports allowlist membership of addr
func (k *Client) IsPublisher(addr common.Address) (bool, error) {
	var out bool
	err := ledger.View(k.ledger, k.address, func(f *PublishFactory) error {
		out = f.IsPublisher(addr)
		return nil
	})
	return out, err
}
