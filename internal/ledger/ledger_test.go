package ledger

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/domain"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")

	topicIncremented = crypto.Keccak256Hash([]byte("Incremented(uint64)"))
	errBoom          = errors.New("boom")
)

// counter is a minimal contract exercising the journal helpers
type counter struct {
	count    uint64
	history  []uint64
	tags     map[string]bool
	received *big.Int
	// onReceive lets tests hook into native receipt
	onReceive func(c *Call) error
}

func newCounter() *counter {
	return &counter{tags: make(map[string]bool), received: new(big.Int)}
}

func (k *counter) Clone() Contract {
	return newCounter()
}

func (k *counter) Receive(c *Call) error {
	Set(c, &k.received, new(big.Int).Add(k.received, c.Value))
	if k.onReceive != nil {
		return k.onReceive(c)
	}
	return nil
}

func (k *counter) increment(c *Call, tag string) {
	Set(c, &k.count, k.count+1)
	Append(c, &k.history, k.count)
	Put(c, k.tags, tag, true)
	c.Emit([]common.Hash{topicIncremented}, common.LeftPadBytes(new(big.Int).SetUint64(k.count).Bytes(), 32))
}

// sink is a contract without a receive hook
type sink struct{}

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(domain.ChainLocalDevnet, Genesis{
		Time: time.Unix(1_700_000_000, 0),
		Alloc: map[common.Address]*big.Int{
			alice: big.NewInt(1_000_000),
			bob:   big.NewInt(1_000),
		},
	}, adapter.NewFixedClock(time.Unix(1_700_000_100, 0)))
}

func deployCounter(t *testing.T, l *Ledger) (common.Address, *counter) {
	t.Helper()
	k := newCounter()
	addr, receipt, err := l.Deploy(context.Background(), alice, k, nil)
	require.NoError(t, err)
	require.True(t, receipt.Succeeded())
	return addr, k
}

func TestNew_Genesis(t *testing.T) {
	l := newTestLedger(t)

	assert.Equal(t, big.NewInt(1_000_000), l.BalanceOf(alice))
	assert.Equal(t, uint64(0), l.LatestBlock().Number)
	assert.Equal(t, big.NewInt(31337), l.ChainID())

	again := newTestLedger(t)
	assert.Equal(t, l.GenesisHash(), again.GenesisHash())

	salted := New(domain.ChainLocalDevnet, Genesis{Time: time.Unix(1_700_000_000, 0), Extra: []byte("run-2")}, adapter.NewClock())
	assert.NotEqual(t, l.GenesisHash(), salted.GenesisHash())
	assert.NotEqual(t, l.NetworkID(), salted.NetworkID())
}

func TestNew_BootID(t *testing.T) {
	genesis := func(boot string) Genesis {
		return Genesis{
			Time:   time.Unix(1_700_000_000, 0),
			Alloc:  map[common.Address]*big.Int{alice: big.NewInt(1_000_000)},
			Extra:  []byte("fixed-salt"),
			BootID: []byte(boot),
		}
	}
	clock := adapter.NewFixedClock(time.Unix(1_700_000_100, 0))

	first := New(domain.ChainLocalDevnet, genesis("boot-1"), clock)
	second := New(domain.ChainLocalDevnet, genesis("boot-2"), clock)
	replay := New(domain.ChainLocalDevnet, genesis("boot-1"), clock)
	random := New(domain.ChainLocalDevnet, genesis(""), clock)

	// same genesis block, distinct runs
	assert.Equal(t, first.GenesisHash(), second.GenesisHash())
	assert.NotEqual(t, first.NetworkID(), second.NetworkID())
	assert.NotEqual(t, first.NetworkID(), random.NetworkID())
	assert.Equal(t, first.NetworkID(), replay.NetworkID())

	send := func(l *Ledger) common.Hash {
		receipt, err := l.Send(context.Background(), alice, bob, big.NewInt(10))
		require.NoError(t, err)
		return receipt.TxHash
	}
	firstTx, secondTx, replayTx := send(first), send(second), send(replay)
	assert.NotEqual(t, firstTx, secondTx)
	assert.Equal(t, firstTx, replayTx)
}

func TestDeploy_AddressFromNonce(t *testing.T) {
	l := newTestLedger(t)

	addr, _ := deployCounter(t, l)
	assert.Equal(t, crypto.CreateAddress(alice, 0), addr)
	assert.Equal(t, uint64(1), l.NonceOf(alice))
	assert.True(t, l.IsContract(addr))

	receipt, err := l.Receipt(l.LatestBlock().TxHash)
	require.NoError(t, err)
	assert.Equal(t, addr, receipt.ContractAddress)
	assert.Nil(t, receipt.To)
}

func TestDeploy_FailedInitLeavesNothing(t *testing.T) {
	l := newTestLedger(t)

	addr, receipt, err := l.Deploy(context.Background(), alice, newCounter(), func(c *Call) error {
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, common.Address{}, addr)
	require.NotNil(t, receipt)
	assert.False(t, receipt.Succeeded())
	assert.False(t, l.IsContract(crypto.CreateAddress(alice, 0)))
	// the nonce is consumed even though the deployment reverted
	assert.Equal(t, uint64(1), l.NonceOf(alice))
}

func TestTransact_Commit(t *testing.T) {
	l := newTestLedger(t)
	addr, k := deployCounter(t, l)

	receipt, err := l.Transact(context.Background(), bob, addr, big.NewInt(10), func(c *Call) error {
		assert.Equal(t, bob, c.Sender)
		assert.Equal(t, addr, c.Self)
		assert.Equal(t, big.NewInt(10), c.Value)
		assert.Equal(t, bob, c.Origin())

		self, err := This[*counter](c)
		require.NoError(t, err)
		self.increment(c, "first")
		return nil
	})
	require.NoError(t, err)
	assert.True(t, receipt.Succeeded())

	assert.Equal(t, uint64(1), k.count)
	assert.Equal(t, []uint64{1}, k.history)
	assert.True(t, k.tags["first"])
	assert.Equal(t, big.NewInt(990), l.BalanceOf(bob))
	assert.Equal(t, big.NewInt(10), l.BalanceOf(addr))

	require.Len(t, receipt.Logs, 1)
	lg := receipt.Logs[0]
	assert.Equal(t, addr, lg.Address)
	assert.Equal(t, receipt.BlockNumber, lg.BlockNumber)
	assert.Equal(t, receipt.TxHash, lg.TxHash)
	assert.Equal(t, uint(0), lg.Index)

	block := l.LatestBlock()
	assert.Equal(t, uint64(2), block.Number)
	assert.Equal(t, receipt.BlockHash, block.Hash)
}

func TestTransact_RevertRestoresState(t *testing.T) {
	l := newTestLedger(t)
	addr, k := deployCounter(t, l)

	_, err := l.Transact(context.Background(), alice, addr, nil, func(c *Call) error {
		self, _ := This[*counter](c)
		self.increment(c, "kept")
		return nil
	})
	require.NoError(t, err)

	receipt, err := l.Transact(context.Background(), bob, addr, big.NewInt(500), func(c *Call) error {
		self, _ := This[*counter](c)
		self.increment(c, "dropped")
		self.increment(c, "dropped-too")
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	require.NotNil(t, receipt)
	assert.False(t, receipt.Succeeded())
	assert.Equal(t, errBoom.Error(), receipt.Error)
	assert.Empty(t, receipt.Logs)

	assert.Equal(t, uint64(1), k.count)
	assert.Equal(t, []uint64{1}, k.history)
	assert.False(t, k.tags["dropped"])
	assert.Len(t, k.tags, 1)
	assert.Equal(t, big.NewInt(1_000), l.BalanceOf(bob))
	assert.Equal(t, 0, l.BalanceOf(addr).Sign())

	// the failed transaction is still mined
	assert.Equal(t, receipt.BlockNumber, l.LatestBlock().Number)
	assert.Empty(t, l.LatestBlock().Logs)
}

func TestCall_NestedFailureIsIsolated(t *testing.T) {
	l := newTestLedger(t)
	outerAddr, outer := deployCounter(t, l)
	innerAddr, inner := deployCounter(t, l)

	var nestedErr error
	receipt, err := l.Transact(context.Background(), alice, outerAddr, big.NewInt(100), func(c *Call) error {
		self, _ := This[*counter](c)
		self.increment(c, "outer")

		nestedErr = c.Call(innerAddr, big.NewInt(40), func(sub *Call) error {
			assert.Equal(t, outerAddr, sub.Sender)
			k, _ := This[*counter](sub)
			k.increment(sub, "inner")
			return errBoom
		})
		return nil
	})
	require.NoError(t, err)
	require.ErrorIs(t, nestedErr, errBoom)

	assert.Equal(t, uint64(1), outer.count)
	assert.Equal(t, uint64(0), inner.count)
	assert.Equal(t, big.NewInt(100), l.BalanceOf(outerAddr))
	assert.Equal(t, 0, l.BalanceOf(innerAddr).Sign())
	assert.Len(t, receipt.Logs, 1)
}

func TestCall_TransferRunsReceiveHook(t *testing.T) {
	l := newTestLedger(t)
	payerAddr, _ := deployCounter(t, l)
	payeeAddr, payee := deployCounter(t, l)

	var observed uint64
	payee.onReceive = func(c *Call) error {
		assert.Equal(t, payerAddr, c.Sender)
		payer, err := At[*counter](c, payerAddr)
		require.NoError(t, err)
		observed = payer.count
		return nil
	}

	_, err := l.Transact(context.Background(), alice, payerAddr, big.NewInt(50), func(c *Call) error {
		self, _ := This[*counter](c)
		self.increment(c, "before-transfer")
		return c.Transfer(payeeAddr, big.NewInt(30))
	})
	require.NoError(t, err)

	// state written before the transfer is visible to the recipient
	assert.Equal(t, uint64(1), observed)
	assert.Equal(t, big.NewInt(30), payee.received)
	assert.Equal(t, big.NewInt(30), l.BalanceOf(payeeAddr))
	assert.Equal(t, big.NewInt(20), l.BalanceOf(payerAddr))
}

func TestCall_TransferFailures(t *testing.T) {
	l := newTestLedger(t)
	payerAddr, _ := deployCounter(t, l)
	sinkAddr, _, err := l.Deploy(context.Background(), alice, &sink{}, nil)
	require.NoError(t, err)

	_, err = l.Transact(context.Background(), alice, payerAddr, big.NewInt(50), func(c *Call) error {
		return c.Transfer(sinkAddr, big.NewInt(10))
	})
	assert.ErrorIs(t, err, ErrNotReceivable)
	assert.ErrorIs(t, err, domain.ErrTransferFailed)

	_, err = l.Transact(context.Background(), alice, payerAddr, big.NewInt(5), func(c *Call) error {
		return c.Transfer(bob, big.NewInt(10))
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, big.NewInt(1_000), l.BalanceOf(bob))
}

func TestSend(t *testing.T) {
	l := newTestLedger(t)

	receipt, err := l.Send(context.Background(), alice, bob, big.NewInt(250))
	require.NoError(t, err)
	assert.True(t, receipt.Succeeded())
	assert.Equal(t, big.NewInt(1_250), l.BalanceOf(bob))

	_, err = l.Send(context.Background(), bob, alice, big.NewInt(1_000_000))
	assert.ErrorIs(t, err, domain.ErrInsufficientPayment)
	assert.Equal(t, big.NewInt(1_250), l.BalanceOf(bob))
}

func TestTransact_NoContract(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.Transact(context.Background(), alice, bob, nil, func(c *Call) error { return nil })
	assert.ErrorIs(t, err, ErrNoContract)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestTransact_CanceledContext(t *testing.T) {
	l := newTestLedger(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	receipt, err := l.Send(ctx, alice, bob, big.NewInt(1))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, receipt)
	assert.Equal(t, uint64(0), l.LatestBlock().Number)
}

func TestCall_Clone(t *testing.T) {
	l := newTestLedger(t)
	implAddr, impl := deployCounter(t, l)
	factoryAddr, _ := deployCounter(t, l)

	var clones []common.Address
	_, err := l.Transact(context.Background(), alice, factoryAddr, nil, func(c *Call) error {
		for i := 0; i < 2; i++ {
			addr, err := c.Clone(implAddr)
			if err != nil {
				return err
			}
			clones = append(clones, addr)
			if err := c.Call(addr, nil, func(sub *Call) error {
				k, err := This[*counter](sub)
				if err != nil {
					return err
				}
				k.increment(sub, "init")
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	// contract nonces start at 1
	assert.Equal(t, crypto.CreateAddress(factoryAddr, 1), clones[0])
	assert.Equal(t, crypto.CreateAddress(factoryAddr, 2), clones[1])

	for _, addr := range clones {
		require.NoError(t, View(l, addr, func(k *counter) error {
			assert.Equal(t, uint64(1), k.count)
			return nil
		}))
	}
	assert.Equal(t, uint64(0), impl.count)

	sinkAddr, _, err := l.Deploy(context.Background(), alice, &sink{}, nil)
	require.NoError(t, err)
	_, err = l.Transact(context.Background(), alice, factoryAddr, nil, func(c *Call) error {
		_, err := c.Clone(sinkAddr)
		return err
	})
	assert.ErrorIs(t, err, ErrNotCloneable)
}

func TestCall_CloneRevertedWithTransaction(t *testing.T) {
	l := newTestLedger(t)
	implAddr, _ := deployCounter(t, l)
	factoryAddr, _ := deployCounter(t, l)

	var clone common.Address
	_, err := l.Transact(context.Background(), alice, factoryAddr, nil, func(c *Call) error {
		var err error
		clone, err = c.Clone(implAddr)
		require.NoError(t, err)
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	assert.False(t, l.IsContract(clone))

	// the factory nonce was rolled back, so the next clone reuses the address
	var again common.Address
	_, err = l.Transact(context.Background(), alice, factoryAddr, nil, func(c *Call) error {
		var err error
		again, err = c.Clone(implAddr)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, clone, again)
}

func TestView_WrongType(t *testing.T) {
	l := newTestLedger(t)
	addr, _ := deployCounter(t, l)

	err := View(l, addr, func(s *sink) error { return nil })
	assert.ErrorIs(t, err, ErrWrongContract)

	err = View(l, bob, func(k *counter) error { return nil })
	assert.ErrorIs(t, err, ErrNoContract)
}

func TestJournal_Delete(t *testing.T) {
	l := newTestLedger(t)
	addr, k := deployCounter(t, l)

	_, err := l.Transact(context.Background(), alice, addr, nil, func(c *Call) error {
		self, _ := This[*counter](c)
		self.increment(c, "a")
		return nil
	})
	require.NoError(t, err)

	_, err = l.Transact(context.Background(), alice, addr, nil, func(c *Call) error {
		self, _ := This[*counter](c)
		Delete(c, self.tags, "a")
		Delete(c, self.tags, "missing")
		assert.Empty(t, self.tags)
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	assert.True(t, k.tags["a"])
}

func TestFilterLogsAndBlocks(t *testing.T) {
	l := newTestLedger(t)
	first, _ := deployCounter(t, l)
	second, _ := deployCounter(t, l)

	for _, addr := range []common.Address{first, second, first} {
		_, err := l.Transact(context.Background(), alice, addr, nil, func(c *Call) error {
			self, _ := This[*counter](c)
			self.increment(c, "x")
			return nil
		})
		require.NoError(t, err)
	}

	assert.Len(t, l.FilterLogs(LogQuery{}), 3)
	assert.Len(t, l.FilterLogs(LogQuery{Addresses: []common.Address{first}}), 2)
	assert.Len(t, l.FilterLogs(LogQuery{FromBlock: 4}), 2)
	assert.Len(t, l.FilterLogs(LogQuery{FromBlock: 3, ToBlock: 3}), 1)

	other := crypto.Keccak256Hash([]byte("Other()"))
	assert.Empty(t, l.FilterLogs(LogQuery{Topic0: &other}))

	blocks := l.BlocksFrom(1, 2)
	require.Len(t, blocks, 2)
	assert.Equal(t, uint64(1), blocks[0].Number)
	assert.Equal(t, blocks[0].Hash, blocks[1].ParentHash)
	assert.Nil(t, l.BlocksFrom(100, 0))

	_, err := l.BlockByNumber(100)
	assert.ErrorIs(t, err, ErrBlockNotFound)
	_, err = l.Receipt(common.Hash{})
	assert.ErrorIs(t, err, ErrReceiptNotFound)
}

func TestChanges(t *testing.T) {
	l := newTestLedger(t)
	changes := l.Changes()

	select {
	case <-changes:
		t.Fatal("channel closed before a block was mined")
	default:
	}

	_, err := l.Send(context.Background(), alice, bob, big.NewInt(1))
	require.NoError(t, err)

	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("expected notification after mining")
	}
	assert.NotEqual(t, changes, l.Changes())
}

func TestBlockTimestamps(t *testing.T) {
	clock := adapter.NewFixedClock(time.Unix(1_700_000_100, 0))
	l := New(domain.ChainLocalDevnet, Genesis{
		Time:  time.Unix(1_700_000_000, 0),
		Alloc: map[common.Address]*big.Int{alice: big.NewInt(10)},
	}, clock)

	var now time.Time
	var number uint64
	_, err := l.Transact(context.Background(), alice, alice, nil, nil)
	require.NoError(t, err)

	addr, _ := deployCounter(t, l)
	clock.Advance(12 * time.Second)
	_, err = l.Transact(context.Background(), alice, addr, nil, func(c *Call) error {
		now = c.Now()
		number = c.BlockNumber()
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, time.Unix(1_700_000_112, 0).UTC(), now)
	assert.Equal(t, uint64(3), number)
	assert.Equal(t, now, l.LatestBlock().Time)
}
