package registry

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/ledger"
)

// Game is a registry entry together with its id
type Game struct {
	GameID domain.GameID
	Entry
}

// Client submits transactions to and reads from a registry on a ledger
type Client struct {
	ledger  *ledger.Ledger
	address common.Address
}

// NewClient binds a client to the registry at address
func NewClient(l *ledger.Ledger, address common.Address) *Client {
	return &Client{ledger: l, address: address}
}

// Deploy deploys a registry owned by from
func Deploy(ctx context.Context, l *ledger.Ledger, from common.Address) (*Client, *ledger.Receipt, error) {
	r := New()
	addr, receipt, err := l.Deploy(ctx, from, r, r.Construct)
	if err != nil {
		return nil, receipt, err
	}
	return NewClient(l, addr), receipt, nil
}

// IsRegisteredAt reads the registry at addr from inside a running call
func IsRegisteredAt(c *ledger.Call, addr common.Address, gameID domain.GameID) (bool, error) {
	r, err := ledger.At[*GameRegistry](c, addr)
	if err != nil {
		return false, err
	}
	return r.IsRegistered(gameID), nil
}

// RegisterAt calls Register on the registry at addr from inside a running call
func RegisterAt(c *ledger.Call, addr common.Address, gameID domain.GameID, sale, publisher common.Address) error {
	return c.Call(addr, nil, func(sub *ledger.Call) error {
		r, err := ledger.This[*GameRegistry](sub)
		if err != nil {
			return err
		}
		return r.Register(sub, gameID, sale, publisher)
	})
}

// Address returns the registry address
func (k *Client) Address() common.Address {
	return k.address
}

func (k *Client) transact(ctx context.Context, from common.Address, fn func(c *ledger.Call, r *GameRegistry) error) (*ledger.Receipt, error) {
	return k.ledger.Transact(ctx, from, k.address, nil, func(c *ledger.Call) error {
		r, err := ledger.This[*GameRegistry](c)
		if err != nil {
			return err
		}
		return fn(c, r)
	})
}

// SetFactory points the registry at factory
func (k *Client) SetFactory(ctx context.Context, from, factory common.Address) (*ledger.Receipt, error) {
	return k.transact(ctx, from, func(c *ledger.Call, r *GameRegistry) error {
		return r.SetFactory(c, factory)
	})
}

// Register registers a game directly; only succeeds when from is the factory
func (k *Client) Register(ctx context.Context, from common.Address, gameID domain.GameID, sale, publisher common.Address) (*ledger.Receipt, error) {
	return k.transact(ctx, from, func(c *ledger.Call, r *GameRegistry) error {
		return r.Register(c, gameID, sale, publisher)
	})
}

// SetActive flips the active flag of a game
func (k *Client) SetActive(ctx context.Context, from common.Address, gameID domain.GameID, active bool) (*ledger.Receipt, error) {
	return k.transact(ctx, from, func(c *ledger.Call, r *GameRegistry) error {
		return r.SetActive(c, gameID, active)
	})
}

// TransferOwnership hands the registry to newOwner
func (k *Client) TransferOwnership(ctx context.Context, from, newOwner common.Address) (*ledger.Receipt, error) {
	return k.transact(ctx, from, func(c *ledger.Call, r *GameRegistry) error {
		return r.TransferOwnership(c, newOwner)
	})
}

// Owner returns the registry owner
func (k *Client) Owner() (common.Address, error) {
	var out common.Address
	err := ledger.View(k.ledger, k.address, func(r *GameRegistry) error {
		out = r.Owner()
		return nil
	})
	return out, err
}

// Factory returns the configured factory
func (k *Client) Factory() (common.Address, error) {
	var out common.Address
	err := ledger.View(k.ledger, k.address, func(r *GameRegistry) error {
		out = r.Factory()
		return nil
	})
	return out, err
}

// Game returns the entry of gameID, or ErrGameNotFound
func (k *Client) Game(gameID domain.GameID) (*Game, error) {
	var out *Game
	err := ledger.View(k.ledger, k.address, func(r *GameRegistry) error {
		if !r.IsRegistered(gameID) {
			return domain.ErrGameNotFound
		}
		out = &Game{GameID: gameID, Entry: r.Games(gameID)}
		return nil
	})
	return out, err
}

// IsRegistered reports whether gameID is registered
func (k *Client) IsRegistered(gameID domain.GameID) (bool, error) {
	var out bool
	err := ledger.View(k.ledger, k.address, func(r *GameRegistry) error {
		out = r.IsRegistered(gameID)
		return nil
	})
	return out, err
}

// List returns up to limit games in registration order starting at offset.
// A non-positive limit returns every remaining game.
func (k *Client) List(offset, limit int) ([]Game, int, error) {
	var out []Game
	var total int
	err := ledger.View(k.ledger, k.address, func(r *GameRegistry) error {
		ids := r.GameIDs()
		total = len(ids)
		if offset < 0 {
			offset = 0
		}
		if offset >= total {
			return nil
		}
		ids = ids[offset:]
		if limit > 0 && limit < len(ids) {
			ids = ids[:limit]
		}
		out = make([]Game, 0, len(ids))
		for _, id := range ids {
			out = append(out, Game{GameID: id, Entry: r.Games(id)})
		}
		return nil
	})
	return out, total, err
}
