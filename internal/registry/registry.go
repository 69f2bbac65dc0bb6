package registry

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/events"
	"github.com/peridotvault/peridot-core/internal/ledger"
)

var (
	// ErrFactoryNotSet is returned by Register before a factory is configured
	ErrFactoryNotSet = fmt.Errorf("%w: registry factory not set", domain.ErrConfiguration)
	// ErrNotFactory is returned when anyone but the factory registers a game
	ErrNotFactory = fmt.Errorf("%w: caller is not the registry factory", domain.ErrUnauthorized)
	// ErrNotOwner is returned when a non-owner calls an owner-only entry point
	ErrNotOwner = fmt.Errorf("%w: caller is not the registry owner", domain.ErrUnauthorized)
	// ErrAlreadyRegistered is returned for a second registration of a game id
	ErrAlreadyRegistered = fmt.Errorf("%w: game already registered", domain.ErrInvariantViolation)
)

// Entry is the registry record of one game
type Entry struct {
	SaleContract common.Address
	Publisher    common.Address
	CreatedAt    uint64 // block timestamp, unix seconds
	Active       bool
}

// Registered reports whether the entry refers to a registered game
func (e Entry) Registered() bool {
	return e.SaleContract != (common.Address{})
}

// GameRegistry maps game ids to their sale contracts. Only the configured
// factory can register games and a game id is registered at most once.
type GameRegistry struct {
	owner   common.Address
	factory common.Address

	games   map[domain.GameID]Entry
	gameIDs []domain.GameID
}

// New returns empty registry storage
func New() *GameRegistry {
	return &GameRegistry{
		games: make(map[domain.GameID]Entry),
	}
}

// Construct makes the deployer the owner
func (r *GameRegistry) Construct(c *ledger.Call) error {
	ledger.Set(c, &r.owner, c.Sender)
	return events.Emit(c, events.OwnershipTransferred, common.Address{}, c.Sender)
}

// SetFactory points the registry at the factory allowed to register games.
// Setting the current factory again is a no-op.
func (r *GameRegistry) SetFactory(c *ledger.Call, factory common.Address) error {
	if err := r.onlyOwner(c); err != nil {
		return err
	}
	if factory == (common.Address{}) {
		return fmt.Errorf("%w: factory is the zero address", domain.ErrInvariantViolation)
	}
	if factory == r.factory {
		return nil
	}
	ledger.Set(c, &r.factory, factory)
	return events.Emit(c, events.FactorySet, factory)
}

// Register records a new game; factory only. The entry starts active.
func (r *GameRegistry) Register(c *ledger.Call, gameID domain.GameID, sale, publisher common.Address) error {
	if r.factory == (common.Address{}) {
		return ErrFactoryNotSet
	}
	if c.Sender != r.factory {
		return fmt.Errorf("%w: %s", ErrNotFactory, c.Sender.Hex())
	}
	if _, ok := r.games[gameID]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, gameID.Hex())
	}
	if sale == (common.Address{}) || publisher == (common.Address{}) {
		return fmt.Errorf("%w: zero sale contract or publisher", domain.ErrInvariantViolation)
	}

	entry := Entry{
		SaleContract: sale,
		Publisher:    publisher,
		CreatedAt:    uint64(c.Now().Unix()),
		Active:       true,
	}
	ledger.Put(c, r.games, gameID, entry)
	ledger.Append(c, &r.gameIDs, gameID)
	return events.Emit(c, events.GameRegistered, gameID, sale, publisher, entry.CreatedAt)
}

// SetActive flips the active flag of a game; its publisher or the owner only
func (r *GameRegistry) SetActive(c *ledger.Call, gameID domain.GameID, active bool) error {
	entry, ok := r.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrGameNotFound, gameID.Hex())
	}
	if c.Sender != entry.Publisher && c.Sender != r.owner {
		return fmt.Errorf("%w: %s may not change game %s", domain.ErrUnauthorized, c.Sender.Hex(), gameID.Hex())
	}
	entry.Active = active
	ledger.Put(c, r.games, gameID, entry)
	return events.Emit(c, events.GameActiveSet, gameID, active)
}

// TransferOwnership hands administrative rights to newOwner; owner only
func (r *GameRegistry) TransferOwnership(c *ledger.Call, newOwner common.Address) error {
	if err := r.onlyOwner(c); err != nil {
		return err
	}
	if newOwner == (common.Address{}) {
		return fmt.Errorf("%w: new owner is the zero address", domain.ErrInvariantViolation)
	}
	previous := r.owner
	ledger.Set(c, &r.owner, newOwner)
	return events.Emit(c, events.OwnershipTransferred, previous, newOwner)
}

func (r *GameRegistry) onlyOwner(c *ledger.Call) error {
	if c.Sender != r.owner {
		return fmt.Errorf("%w: %s", ErrNotOwner, c.Sender.Hex())
	}
	return nil
}

// Owner returns the administrative owner
func (r *GameRegistry) Owner() common.Address { return r.owner }

// Factory returns the factory allowed to register games
func (r *GameRegistry) Factory() common.Address { return r.factory }

// Games returns the entry of gameID, the zero Entry when it is not registered
func (r *GameRegistry) Games(gameID domain.GameID) Entry {
	return r.games[gameID]
}

func (r *GameRegistry) IsRegistered(gameID domain.GameID) bool {
	_, ok := r.games[gameID]
	return ok
}

// GameIDs returns registered game ids in registration order
func (r *GameRegistry) GameIDs() []domain.GameID {
	out := make([]domain.GameID, len(r.gameIDs))
	copy(out, r.gameIDs)
	return out
}

func (r *GameRegistry) GameCount() int {
	return len(r.gameIDs)
}
