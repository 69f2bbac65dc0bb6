package ledger

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// MaxCallDepth bounds nested calls within one transaction
const MaxCallDepth = 64

// Contract is any value deployed in the contract arena
type Contract interface{}

// Template is implemented by contracts that can be deployed as clones.
// Clone returns fresh, uninitialized storage running the same code.
type Template interface {
	Clone() Contract
}

// Receiver is implemented by contracts that accept native value sent
// without a method call. Receive runs inside its own nested call frame.
type Receiver interface {
	Receive(c *Call) error
}

// Resolver resolves contract code at an address. Both *Call (inside a
// transaction) and *State (inside a read-only view) implement it.
type Resolver interface {
	contract(addr common.Address) (Contract, bool)
}

// At returns the contract deployed at addr as T
func At[T any](r Resolver, addr common.Address) (T, error) {
	var zero T
	code, ok := r.contract(addr)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrNoContract, addr.Hex())
	}
	t, ok := code.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s holds %T", ErrWrongContract, addr.Hex(), code)
	}
	return t, nil
}

// This returns the contract executing the call as T
func This[T any](c *Call) (T, error) {
	return At[T](c, c.Self)
}

// Call is one execution frame. Sender is the immediate caller, Self the
// executing contract and Value the native amount already credited to Self.
type Call struct {
	ledger *Ledger
	Sender common.Address
	Self   common.Address
	Value  *big.Int
	depth  int
}

func (c *Call) contract(addr common.Address) (Contract, bool) {
	code, ok := c.ledger.contracts[addr]
	return code, ok
}

// Origin is the externally owned account that signed the transaction
func (c *Call) Origin() common.Address {
	return c.ledger.tx.from
}

// TxHash is the hash of the running transaction
func (c *Call) TxHash() common.Hash {
	return c.ledger.tx.hash
}

// Now is the timestamp of the block the transaction is mined into
func (c *Call) Now() time.Time {
	return c.ledger.tx.time
}

// BlockNumber is the number of the block the transaction is mined into
func (c *Call) BlockNumber() uint64 {
	return c.ledger.tx.number
}

// IsContract reports whether code is deployed at addr
func (c *Call) IsContract(addr common.Address) bool {
	_, ok := c.ledger.contracts[addr]
	return ok
}

// BalanceOf returns the native balance of addr
func (c *Call) BalanceOf(addr common.Address) *big.Int {
	return c.ledger.balanceOf(addr)
}

// Emit appends an event log attributed to the executing contract
func (c *Call) Emit(topics []common.Hash, data []byte) {
	l := c.ledger
	n := len(l.pending)
	l.journal.record(func() { l.pending = l.pending[:n] })
	l.pending = append(l.pending, &types.Log{
		Address: c.Self,
		Topics:  topics,
		Data:    data,
	})
}

// Call invokes fn as a nested frame on contract to, moving value from Self
// first. A nil fn is a plain native transfer that runs the recipient's
// Receive hook when to is a contract. All effects of a failing frame are
// reverted before the error is returned to the caller.
func (c *Call) Call(to common.Address, value *big.Int, fn func(sub *Call) error) error {
	if c.depth+1 > MaxCallDepth {
		return ErrCallDepth
	}
	if value == nil {
		value = new(big.Int)
	}

	l := c.ledger
	cp := l.journal.checkpoint()
	sub := &Call{ledger: l, Sender: c.Self, Self: to, Value: value, depth: c.depth + 1}

	err := func() error {
		if err := l.move(c.Self, to, value); err != nil {
			return err
		}
		if fn == nil {
			return l.receive(sub)
		}
		if !c.IsContract(to) {
			return fmt.Errorf("%w: %s", ErrNoContract, to.Hex())
		}
		return fn(sub)
	}()
	if err != nil {
		l.journal.revert(cp)
	}
	return err
}

// Transfer sends native value from Self to to
func (c *Call) Transfer(to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	return c.Call(to, amount, nil)
}

// Clone deploys a copy of the code at implementation. The clone address is
// derived from Self and its nonce, like CREATE.
func (c *Call) Clone(implementation common.Address) (common.Address, error) {
	code, ok := c.contract(implementation)
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s", ErrNoContract, implementation.Hex())
	}
	tpl, ok := code.(Template)
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s", ErrNotCloneable, implementation.Hex())
	}

	l := c.ledger
	addr := crypto.CreateAddress(c.Self, l.nonces[c.Self])
	put(&l.journal, l.nonces, c.Self, l.nonces[c.Self]+1)
	if err := l.place(addr, tpl.Clone()); err != nil {
		return common.Address{}, err
	}
	return addr, nil
}
