package token

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/events"
	"github.com/peridotvault/peridot-core/internal/ledger"
)

var (
	// ErrInsufficientBalance is returned when a holder cannot cover a transfer
	ErrInsufficientBalance = fmt.Errorf("%w: insufficient token balance", domain.ErrInsufficientPayment)
	// ErrInsufficientAllowance is returned when a spender exceeds its approval
	ErrInsufficientAllowance = fmt.Errorf("%w: insufficient token allowance", domain.ErrInsufficientPayment)
	// ErrZeroAddress is returned for transfers to or approvals of the zero address
	ErrZeroAddress = fmt.Errorf("%w: zero address", domain.ErrInvariantViolation)
)

type allowanceKey struct {
	owner   common.Address
	spender common.Address
}

// Token is a fungible payment token with ERC-20 semantics. The deployer is
// the minter and receives the initial supply.
type Token struct {
	name     string
	symbol   string
	decimals uint8

	minter      common.Address
	totalSupply *big.Int
	balances    map[common.Address]*big.Int
	allowances  map[allowanceKey]*big.Int
}

// New creates undeployed token storage
func New(name, symbol string, decimals uint8) *Token {
	return &Token{
		name:        name,
		symbol:      symbol,
		decimals:    decimals,
		totalSupply: new(big.Int),
		balances:    make(map[common.Address]*big.Int),
		allowances:  make(map[allowanceKey]*big.Int),
	}
}

// Construct sets the minter and mints the initial supply to it
func (t *Token) Construct(c *ledger.Call, initialSupply *big.Int) error {
	ledger.Set(c, &t.minter, c.Sender)
	if initialSupply == nil || initialSupply.Sign() == 0 {
		return nil
	}
	return t.mint(c, c.Sender, initialSupply)
}

// Transfer moves amount from the caller to to
func (t *Token) Transfer(c *ledger.Call, to common.Address, amount *big.Int) error {
	return t.transfer(c, c.Sender, to, amount)
}

// Approve sets the allowance of spender over the caller's balance
func (t *Token) Approve(c *ledger.Call, spender common.Address, amount *big.Int) error {
	if spender == (common.Address{}) {
		return ErrZeroAddress
	}
	ledger.Put(c, t.allowances, allowanceKey{owner: c.Sender, spender: spender}, new(big.Int).Set(amount))
	return events.Emit(c, events.Approval, c.Sender, spender, amount)
}

// TransferFrom moves amount from from to to, spending the caller's allowance
func (t *Token) TransferFrom(c *ledger.Call, from, to common.Address, amount *big.Int) error {
	key := allowanceKey{owner: from, spender: c.Sender}
	allowance := t.allowance(key)
	if allowance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s allowed %s, needs %s", ErrInsufficientAllowance, c.Sender.Hex(), allowance, amount)
	}
	ledger.Put(c, t.allowances, key, new(big.Int).Sub(allowance, amount))
	return t.transfer(c, from, to, amount)
}

// Mint creates new tokens; minter only
func (t *Token) Mint(c *ledger.Call, to common.Address, amount *big.Int) error {
	if c.Sender != t.minter {
		return fmt.Errorf("%w: only the minter can mint", domain.ErrUnauthorized)
	}
	return t.mint(c, to, amount)
}

func (t *Token) mint(c *ledger.Call, to common.Address, amount *big.Int) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	ledger.Set(c, &t.totalSupply, new(big.Int).Add(t.totalSupply, amount))
	ledger.Put(c, t.balances, to, new(big.Int).Add(t.BalanceOf(to), amount))
	return events.Emit(c, events.Transfer, common.Address{}, to, amount)
}

func (t *Token) transfer(c *ledger.Call, from, to common.Address, amount *big.Int) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("%w: negative amount", domain.ErrInvariantViolation)
	}

	balance := t.BalanceOf(from)
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, from.Hex(), balance, amount)
	}

	ledger.Put(c, t.balances, from, new(big.Int).Sub(balance, amount))
	ledger.Put(c, t.balances, to, new(big.Int).Add(t.BalanceOf(to), amount))
	return events.Emit(c, events.Transfer, from, to, amount)
}

func (t *Token) allowance(key allowanceKey) *big.Int {
	if v, ok := t.allowances[key]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

// BalanceOf returns the token balance of account
func (t *Token) BalanceOf(account common.Address) *big.Int {
	if v, ok := t.balances[account]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

// Allowance returns how much spender may move on behalf of owner
func (t *Token) Allowance(owner, spender common.Address) *big.Int {
	return t.allowance(allowanceKey{owner: owner, spender: spender})
}

// TotalSupply returns the amount of tokens in existence
func (t *Token) TotalSupply() *big.Int {
	return new(big.Int).Set(t.totalSupply)
}

func (t *Token) Name() string { return t.name }

func (t *Token) Symbol() string { return t.symbol }

func (t *Token) Decimals() uint8 { return t.decimals }

// Minter returns the account allowed to mint
func (t *Token) Minter() common.Address { return t.minter }

// TransferFrom calls transferFrom on the token at tokenAddr from inside a
// running contract call
func TransferFrom(c *ledger.Call, tokenAddr, from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	return c.Call(tokenAddr, nil, func(sub *ledger.Call) error {
		t, err := ledger.This[*Token](sub)
		if err != nil {
			return err
		}
		return t.TransferFrom(sub, from, to, amount)
	})
}
