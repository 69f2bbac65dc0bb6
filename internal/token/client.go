package token

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/peridotvault/peridot-core/internal/ledger"
)

// Info describes a deployed token
type Info struct {
	Address     common.Address
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply *big.Int
}

// Client submits transactions to and reads from a token deployed on a ledger
type Client struct {
	ledger  *ledger.Ledger
	address common.Address
}

// NewClient binds a client to the token at address
func NewClient(l *ledger.Ledger, address common.Address) *Client {
	return &Client{ledger: l, address: address}
}

// Deploy deploys a new token, minting initialSupply to from
func Deploy(ctx context.Context, l *ledger.Ledger, from common.Address, name, symbol string, decimals uint8, initialSupply *big.Int) (*Client, *ledger.Receipt, error) {
	t := New(name, symbol, decimals)
	addr, receipt, err := l.Deploy(ctx, from, t, func(c *ledger.Call) error {
		return t.Construct(c, initialSupply)
	})
	if err != nil {
		return nil, receipt, err
	}
	return NewClient(l, addr), receipt, nil
}

// Address returns the token address
func (k *Client) Address() common.Address {
	return k.address
}

func (k *Client) transact(ctx context.Context, from common.Address, fn func(c *ledger.Call, t *Token) error) (*ledger.Receipt, error) {
	return k.ledger.Transact(ctx, from, k.address, nil, func(c *ledger.Call) error {
		t, err := ledger.This[*Token](c)
		if err != nil {
			return err
		}
		return fn(c, t)
	})
}

// Transfer sends amount from from to to
func (k *Client) Transfer(ctx context.Context, from, to common.Address, amount *big.Int) (*ledger.Receipt, error) {
	return k.transact(ctx, from, func(c *ledger.Call, t *Token) error {
		return t.Transfer(c, to, amount)
	})
}

// Approve lets spender move up to amount of from's tokens
func (k *Client) Approve(ctx context.Context, from, spender common.Address, amount *big.Int) (*ledger.Receipt, error) {
	return k.transact(ctx, from, func(c *ledger.Call, t *Token) error {
		return t.Approve(c, spender, amount)
	})
}

// Mint mints amount to to; from must be the minter
func (k *Client) Mint(ctx context.Context, from, to common.Address, amount *big.Int) (*ledger.Receipt, error) {
	return k.transact(ctx, from, func(c *ledger.Call, t *Token) error {
		return t.Mint(c, to, amount)
	})
}

// BalanceOf returns the committed balance of account
func (k *Client) BalanceOf(account common.Address) (*big.Int, error) {
	var out *big.Int
	err := ledger.View(k.ledger, k.address, func(t *Token) error {
		out = t.BalanceOf(account)
		return nil
	})
	return out, err
}

// Allowance returns the committed allowance of spender over owner's tokens
func (k *Client) Allowance(owner, spender common.Address) (*big.Int, error) {
	var out *big.Int
	err := ledger.View(k.ledger, k.address, func(t *Token) error {
		out = t.Allowance(owner, spender)
		return nil
	})
	return out, err
}

// Info returns the token description
func (k *Client) Info() (*Info, error) {
	var out *Info
	err := ledger.View(k.ledger, k.address, func(t *Token) error {
		out = &Info{
			Address:     k.address,
			Name:        t.Name(),
			Symbol:      t.Symbol(),
			Decimals:    t.Decimals(),
			TotalSupply: t.TotalSupply(),
		}
		return nil
	})
	return out, err
}
