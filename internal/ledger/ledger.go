package ledger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/logger"
)

// Genesis describes the initial state of a ledger
type Genesis struct {
	Time  time.Time
	Alloc map[common.Address]*big.Int
	// Extra salts the genesis hash
	Extra []byte
	// BootID tells apart runs of the same genesis; empty draws a random one.
	// It is part of the network id and of every transaction hash.
	BootID []byte
}

// Ledger is a transaction-serial state machine. Each transaction executes
// under one lock against journaled state and is mined into its own block,
// whether it commits or reverts.
type Ledger struct {
	mu sync.Mutex

	chain   domain.Chain
	chainID *big.Int
	clock   adapter.Clock
	bootID  []byte

	balances  map[common.Address]*big.Int
	nonces    map[common.Address]uint64
	contracts map[common.Address]Contract

	journal journal
	pending []*types.Log
	tx      *pendingTx

	blocks   []*Block
	receipts map[common.Hash]*Receipt

	notifyMu sync.Mutex
	notify   chan struct{}
}

type pendingTx struct {
	hash   common.Hash
	from   common.Address
	to     *common.Address
	value  *big.Int
	number uint64
	time   time.Time
}

// New creates a ledger with a mined genesis block
func New(chain domain.Chain, genesis Genesis, clock adapter.Clock) *Ledger {
	l := &Ledger{
		chain:     chain,
		chainID:   new(big.Int).SetUint64(chain.ChainNumericID()),
		clock:     clock,
		balances:  make(map[common.Address]*big.Int),
		nonces:    make(map[common.Address]uint64),
		contracts: make(map[common.Address]Contract),
		receipts:  make(map[common.Hash]*Receipt),
		notify:    make(chan struct{}),
	}

	l.bootID = append([]byte(nil), genesis.BootID...)
	if len(l.bootID) == 0 {
		id := uuid.New()
		l.bootID = id[:]
	}

	addrs := make([]common.Address, 0, len(genesis.Alloc))
	for addr, amount := range genesis.Alloc {
		l.balances[addr] = new(big.Int).Set(amount)
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Cmp(addrs[j]) < 0 })

	ts := genesis.Time
	if ts.IsZero() {
		ts = clock.Now()
	}
	ts = time.Unix(ts.Unix(), 0).UTC()

	parts := [][]byte{l.chainID.Bytes(), uint64Bytes(uint64(ts.Unix())), genesis.Extra}
	for _, addr := range addrs {
		parts = append(parts, addr.Bytes(), genesis.Alloc[addr].Bytes())
	}

	l.blocks = append(l.blocks, &Block{
		Number: 0,
		Hash:   crypto.Keccak256Hash(parts...),
		Time:   ts,
	})

	return l
}

// Chain returns the CAIP-2 chain of the ledger
func (l *Ledger) Chain() domain.Chain {
	return l.chain
}

// ChainID returns the numeric chain id
func (l *Ledger) ChainID() *big.Int {
	return new(big.Int).Set(l.chainID)
}

// GenesisHash returns the hash of block 0
func (l *Ledger) GenesisHash() common.Hash {
	return l.blocks[0].Hash
}

// NetworkID identifies this ledger run for persisted projections. Two runs
// of the same genesis get distinct ids, so a restarted in-memory ledger never
// resumes another run's cursor or collides with its events.
func (l *Ledger) NetworkID() domain.NetworkID {
	return domain.NewNetworkID(l.chain, crypto.Keccak256Hash(l.GenesisHash().Bytes(), l.bootID))
}

// Transact executes fn as a call from the externally owned account from to
// contract to, crediting value first. A nil fn sends value to to, running the
// Receive hook if to is a contract. The returned receipt is non-nil whenever
// the transaction was mined; on failure it carries status 0 and no logs, and
// the execution error is returned alongside it.
func (l *Ledger) Transact(ctx context.Context, from, to common.Address, value *big.Int, fn func(c *Call) error) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.begin(from, &to, value)
	root := &Call{ledger: l, Sender: from, Self: from}
	err := root.Call(to, value, fn)

	return l.finish(ctx, err, common.Address{}), err
}

// Send transfers native value between accounts
func (l *Ledger) Send(ctx context.Context, from, to common.Address, value *big.Int) (*Receipt, error) {
	return l.Transact(ctx, from, to, value, nil)
}

// Deploy places contract at an address derived from from and its nonce and
// runs init inside the creating call. A failing init leaves nothing deployed.
func (l *Ledger) Deploy(ctx context.Context, from common.Address, contract Contract, init func(c *Call) error) (common.Address, *Receipt, error) {
	if err := ctx.Err(); err != nil {
		return common.Address{}, nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	nonce := l.nonces[from]
	l.begin(from, nil, nil)
	addr := crypto.CreateAddress(from, nonce)

	err := func() error {
		if err := l.place(addr, contract); err != nil {
			return err
		}
		if init == nil {
			return nil
		}
		return init(&Call{ledger: l, Sender: from, Self: addr, Value: new(big.Int), depth: 1})
	}()

	receipt := l.finish(ctx, err, addr)
	if err != nil {
		return common.Address{}, receipt, err
	}
	return addr, receipt, nil
}

// State is a read-only view of the ledger, valid only inside Read
type State struct {
	l *Ledger
}

func (s *State) contract(addr common.Address) (Contract, bool) {
	code, ok := s.l.contracts[addr]
	return code, ok
}

// BalanceOf returns the native balance of addr
func (s *State) BalanceOf(addr common.Address) *big.Int {
	return s.l.balanceOf(addr)
}

// IsContract reports whether code is deployed at addr
func (s *State) IsContract(addr common.Address) bool {
	_, ok := s.l.contracts[addr]
	return ok
}

// Read runs fn against a consistent view of committed state. fn must not
// mutate contract storage.
func (l *Ledger) Read(fn func(s *State) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(&State{l: l})
}

// View resolves the contract at addr as T and runs fn against it
func View[T any](l *Ledger, addr common.Address, fn func(contract T) error) error {
	return l.Read(func(s *State) error {
		contract, err := At[T](s, addr)
		if err != nil {
			return err
		}
		return fn(contract)
	})
}

// BalanceOf returns the committed native balance of addr
func (l *Ledger) BalanceOf(addr common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceOf(addr)
}

// NonceOf returns the number of transactions sent by addr
func (l *Ledger) NonceOf(addr common.Address) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nonces[addr]
}

// IsContract reports whether code is deployed at addr
func (l *Ledger) IsContract(addr common.Address) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.contracts[addr]
	return ok
}

// LatestBlock returns the most recently mined block
func (l *Ledger) LatestBlock() *Block {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.blocks[len(l.blocks)-1]
}

// BlockByNumber returns a mined block
func (l *Ledger) BlockByNumber(number uint64) (*Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if number >= uint64(len(l.blocks)) {
		return nil, fmt.Errorf("%w: %d", ErrBlockNotFound, number)
	}
	return l.blocks[number], nil
}

// BlocksFrom returns up to limit blocks starting at number
func (l *Ledger) BlocksFrom(number uint64, limit int) []*Block {
	l.mu.Lock()
	defer l.mu.Unlock()
	if number >= uint64(len(l.blocks)) {
		return nil
	}
	end := uint64(len(l.blocks))
	if limit > 0 && number+uint64(limit) < end {
		end = number + uint64(limit)
	}
	out := make([]*Block, end-number)
	copy(out, l.blocks[number:end])
	return out
}

// Receipt returns the receipt of a mined transaction
func (l *Ledger) Receipt(txHash common.Hash) (*Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.receipts[txHash]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrReceiptNotFound, txHash.Hex())
	}
	return r, nil
}

// FilterLogs returns committed logs matching q in log order
func (l *Ledger) FilterLogs(q LogQuery) []types.Log {
	l.mu.Lock()
	defer l.mu.Unlock()

	to := uint64(len(l.blocks) - 1)
	if q.ToBlock != 0 && q.ToBlock < to {
		to = q.ToBlock
	}

	var out []types.Log
	for n := q.FromBlock; n <= to && n < uint64(len(l.blocks)); n++ {
		for _, lg := range l.blocks[n].Logs {
			if q.matches(lg) {
				out = append(out, *lg)
			}
		}
	}
	return out
}

// Changes returns a channel that is closed when the next block is mined
func (l *Ledger) Changes() <-chan struct{} {
	l.notifyMu.Lock()
	defer l.notifyMu.Unlock()
	return l.notify
}

func (l *Ledger) balanceOf(addr common.Address) *big.Int {
	if b, ok := l.balances[addr]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (l *Ledger) begin(from common.Address, to *common.Address, value *big.Int) {
	if value == nil {
		value = new(big.Int)
	}

	nonce := l.nonces[from]
	l.nonces[from] = nonce + 1

	parent := l.blocks[len(l.blocks)-1]
	ts := time.Unix(l.clock.Now().Unix(), 0).UTC()
	if ts.Before(parent.Time) {
		ts = parent.Time
	}

	var toBytes []byte
	if to != nil {
		toBytes = to.Bytes()
	}

	l.tx = &pendingTx{
		hash:   crypto.Keccak256Hash(l.bootID, l.chainID.Bytes(), from.Bytes(), uint64Bytes(nonce), toBytes, value.Bytes()),
		from:   from,
		to:     to,
		value:  new(big.Int).Set(value),
		number: parent.Number + 1,
		time:   ts,
	}
	l.journal.reset()
	l.pending = nil
}

func (l *Ledger) finish(ctx context.Context, execErr error, created common.Address) *Receipt {
	tx := l.tx
	status := ReceiptStatusSuccessful
	if execErr != nil {
		l.journal.revert(0)
		l.pending = nil
		status = ReceiptStatusFailed
		created = common.Address{}
	}
	l.journal.reset()

	parent := l.blocks[len(l.blocks)-1]
	block := &Block{
		Number:     tx.number,
		ParentHash: parent.Hash,
		Time:       tx.time,
		TxHash:     tx.hash,
		Logs:       l.pending,
	}
	block.Hash = crypto.Keccak256Hash(parent.Hash.Bytes(), uint64Bytes(block.Number), tx.hash.Bytes(), uint64Bytes(uint64(tx.time.Unix())))

	for i, lg := range block.Logs {
		lg.BlockNumber = block.Number
		lg.BlockHash = block.Hash
		lg.TxHash = tx.hash
		lg.TxIndex = 0
		lg.Index = uint(i)
	}

	receipt := &Receipt{
		TxHash:          tx.hash,
		BlockNumber:     block.Number,
		BlockHash:       block.Hash,
		From:            tx.from,
		To:              tx.to,
		Value:           tx.value,
		ContractAddress: created,
		Status:          status,
		Logs:            block.Logs,
	}
	if execErr != nil {
		receipt.Error = execErr.Error()
	}

	l.blocks = append(l.blocks, block)
	l.receipts[tx.hash] = receipt
	l.pending = nil
	l.tx = nil

	if execErr != nil {
		logger.DebugCtx(ctx, "Transaction reverted",
			zap.String("txHash", tx.hash.Hex()),
			zap.Uint64("block", block.Number),
			zap.Error(execErr))
	} else {
		logger.DebugCtx(ctx, "Transaction committed",
			zap.String("txHash", tx.hash.Hex()),
			zap.Uint64("block", block.Number),
			zap.Int("logs", len(block.Logs)))
	}

	l.notifyMu.Lock()
	close(l.notify)
	l.notify = make(chan struct{})
	l.notifyMu.Unlock()

	return receipt
}

// move transfers native value, journaling both balances
func (l *Ledger) move(from, to common.Address, value *big.Int) error {
	if value == nil || value.Sign() == 0 {
		return nil
	}
	if value.Sign() < 0 {
		return errors.New("negative transfer amount")
	}

	bal := l.balanceOf(from)
	if bal.Cmp(value) < 0 {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientFunds, from.Hex(), bal, value)
	}

	put(&l.journal, l.balances, from, new(big.Int).Sub(bal, value))
	put(&l.journal, l.balances, to, new(big.Int).Add(l.balanceOf(to), value))
	return nil
}

// receive runs the Receive hook of a contract recipient
func (l *Ledger) receive(c *Call) error {
	code, ok := l.contracts[c.Self]
	if !ok {
		return nil
	}
	r, ok := code.(Receiver)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotReceivable, c.Self.Hex())
	}
	return r.Receive(c)
}

// place puts code at addr, failing on collision
func (l *Ledger) place(addr common.Address, contract Contract) error {
	if _, ok := l.contracts[addr]; ok {
		return fmt.Errorf("%w: address %s already holds a contract", domain.ErrInvariantViolation, addr.Hex())
	}
	put(&l.journal, l.contracts, addr, contract)
	put(&l.journal, l.nonces, addr, 1)
	return nil
}

func uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
