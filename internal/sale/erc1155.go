package sale

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/events"
	"github.com/peridotvault/peridot-core/internal/ledger"
)

type balanceKey struct {
	id      common.Hash
	account common.Address
}

type approvalKey struct {
	account  common.Address
	operator common.Address
}

// LicenseReceiver is implemented by contracts that accept license tokens.
// License tokens sent to a contract without it are rejected.
type LicenseReceiver interface {
	OnLicenseReceived(c *ledger.Call, operator, from common.Address, id, amount *big.Int) error
}

// ErrNotReceiver is returned when licenses are sent to a contract that does not accept them
var ErrNotReceiver = fmt.Errorf("%w: recipient contract does not accept licenses", domain.ErrTransferFailed)

func idKey(id *big.Int) common.Hash {
	return common.BigToHash(id)
}

// BalanceOf returns how many units of license id account holds
func (s *LicenseSale) BalanceOf(account common.Address, id *big.Int) *big.Int {
	if v, ok := s.balances[balanceKey{id: idKey(id), account: account}]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

// BalanceOfBatch returns balances for pairs of accounts and ids
func (s *LicenseSale) BalanceOfBatch(accounts []common.Address, ids []*big.Int) ([]*big.Int, error) {
	if len(accounts) != len(ids) {
		return nil, fmt.Errorf("%w: %d accounts for %d ids", domain.ErrInvariantViolation, len(accounts), len(ids))
	}
	out := make([]*big.Int, len(accounts))
	for i := range accounts {
		out[i] = s.BalanceOf(accounts[i], ids[i])
	}
	return out, nil
}

// IsApprovedForAll reports whether operator may move all of account's licenses
func (s *LicenseSale) IsApprovedForAll(account, operator common.Address) bool {
	return s.operatorApprovals[approvalKey{account: account, operator: operator}]
}

// SetApprovalForAll grants or revokes operator rights over the caller's licenses
func (s *LicenseSale) SetApprovalForAll(c *ledger.Call, operator common.Address, approved bool) error {
	if operator == c.Sender {
		return fmt.Errorf("%w: cannot approve self as operator", domain.ErrInvariantViolation)
	}
	ledger.Put(c, s.operatorApprovals, approvalKey{account: c.Sender, operator: operator}, approved)
	return events.Emit(c, events.ApprovalForAll, c.Sender, operator, approved)
}

// SafeTransferFrom moves licenses between accounts. The caller must be the
// holder or an approved operator.
func (s *LicenseSale) SafeTransferFrom(c *ledger.Call, from, to common.Address, id, amount *big.Int) error {
	if c.Sender != from && !s.IsApprovedForAll(from, c.Sender) {
		return fmt.Errorf("%w: %s is not owner nor approved", domain.ErrUnauthorized, c.Sender.Hex())
	}
	if to == (common.Address{}) {
		return fmt.Errorf("%w: transfer to the zero address", domain.ErrInvariantViolation)
	}
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("%w: invalid amount", domain.ErrInvariantViolation)
	}

	balance := s.BalanceOf(from, id)
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s holds %s of license %s", domain.ErrInsufficientPayment, from.Hex(), balance, id)
	}

	ledger.Put(c, s.balances, balanceKey{id: idKey(id), account: from}, new(big.Int).Sub(balance, amount))
	ledger.Put(c, s.balances, balanceKey{id: idKey(id), account: to}, new(big.Int).Add(s.BalanceOf(to, id), amount))
	if err := events.Emit(c, events.TransferSingle, c.Sender, from, to, id, amount); err != nil {
		return err
	}
	return s.checkReceiver(c, c.Sender, from, to, id, amount)
}

// URI returns the metadata URI template shared by all license ids
func (s *LicenseSale) URI(_ *big.Int) string {
	return s.tokenURITemplate
}

// ResolvedURI substitutes {id} with the lowercase 64-digit hex id
func (s *LicenseSale) ResolvedURI(id *big.Int) string {
	return strings.ReplaceAll(s.tokenURITemplate, "{id}", fmt.Sprintf("%064x", id))
}

func (s *LicenseSale) mint(c *ledger.Call, to common.Address, id, amount *big.Int) error {
	ledger.Put(c, s.balances, balanceKey{id: idKey(id), account: to}, new(big.Int).Add(s.BalanceOf(to, id), amount))
	return events.Emit(c, events.TransferSingle, c.Sender, common.Address{}, to, id, amount)
}

// checkReceiver runs the acceptance hook when licenses land on a contract
func (s *LicenseSale) checkReceiver(c *ledger.Call, operator, from, to common.Address, id, amount *big.Int) error {
	if !c.IsContract(to) {
		return nil
	}
	return c.Call(to, nil, func(sub *ledger.Call) error {
		receiver, err := ledger.This[LicenseReceiver](sub)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrNotReceiver, to.Hex())
		}
		return receiver.OnLicenseReceived(sub, operator, from, id, amount)
	})
}
