package emitter_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/emitter"
	"github.com/peridotvault/peridot-core/internal/logger"
	"github.com/peridotvault/peridot-core/internal/messaging"
	"github.com/peridotvault/peridot-core/internal/mocks"
)

const testNetwork = domain.NetworkID("eip155:31337:0a1b2c3d4e5f6071")

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testEmitterMocks contains all the mocks needed for testing the emitter
type testEmitterMocks struct {
	ctrl       *gomock.Controller
	subscriber *mocks.MockSubscriber
	publisher  *mocks.MockPublisher
	store      *mocks.MockStore
	clock      *mocks.MockClock
}

func setupTestEmitter(t *testing.T) *testEmitterMocks {
	ctrl := gomock.NewController(t)
	return &testEmitterMocks{
		ctrl:       ctrl,
		subscriber: mocks.NewMockSubscriber(ctrl),
		publisher:  mocks.NewMockPublisher(ctrl),
		store:      mocks.NewMockStore(ctrl),
		clock:      mocks.NewMockClock(ctrl),
	}
}

func tearDownTestEmitter(m *testEmitterMocks) {
	m.ctrl.Finish()
}

func (m *testEmitterMocks) newEmitter(cfg emitter.Config) emitter.Emitter {
	cfg.NetworkID = testNetwork
	return emitter.NewEmitter(m.subscriber, m.publisher, m.store, cfg, m.clock)
}

func (m *testEmitterMocks) frozenClock(elapsed time.Duration) {
	m.clock.EXPECT().Now().Return(time.Unix(1_700_000_000, 0)).AnyTimes()
	m.clock.EXPECT().Since(gomock.Any()).Return(elapsed).AnyTimes()
}

func purchaseEvent(block uint64) *domain.LedgerEvent {
	return &domain.LedgerEvent{
		Chain:        domain.ChainLocalDevnet,
		Contract:     "0x00000000000000000000000000000000000000c1",
		EventType:    domain.EventTypePurchased,
		SaleContract: "0x00000000000000000000000000000000000000c1",
		Account:      "0x00000000000000000000000000000000000000b1",
		Amount:       "1000",
		LicenseID:    "1",
		TxHash:       "0x0000000000000000000000000000000000000000000000000000000000000abc",
		BlockNumber:  block,
		Timestamp:    time.Unix(1_700_000_000, 0).UTC(),
	}
}

func TestEmitter_Run_WithStartBlock(t *testing.T) {
	mocks := setupTestEmitter(t)
	defer tearDownTestEmitter(mocks)
	mocks.frozenClock(0)

	e := mocks.newEmitter(emitter.Config{
		StartBlock:      1000,
		CursorSaveFreq:  1,
		CursorSaveDelay: 5 * time.Second,
	})

	event := purchaseEvent(1001)
	mocks.subscriber.
		EXPECT().
		SubscribeBlocks(gomock.Any(), uint64(1000), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fromBlock uint64, handler messaging.BlockHandler) error {
			return handler(&messaging.Block{Number: 1001, Events: []*domain.LedgerEvent{event}})
		})

	gomock.InOrder(
		mocks.publisher.EXPECT().PublishEvent(gomock.Any(), event).Return(nil),
		mocks.store.EXPECT().SetBlockCursor(gomock.Any(), testNetwork, uint64(1001)).Return(nil),
	)

	err := e.Run(context.Background())
	assert.NoError(t, err)
}

func TestEmitter_Run_StartingBlock(t *testing.T) {
	tests := []struct {
		name   string
		cursor uint64
		latest uint64
		from   uint64
	}{
		{name: "resumes after cursor", cursor: 500, latest: 800, from: 501},
		{name: "cursor at head resumes after it", cursor: 500, latest: 500, from: 501},
		{name: "cursor ahead of ledger starts at genesis", cursor: 12, latest: 9, from: 0},
		{name: "no cursor starts at genesis", cursor: 0, from: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := setupTestEmitter(t)
			defer tearDownTestEmitter(mocks)
			mocks.frozenClock(0)

			e := mocks.newEmitter(emitter.Config{CursorSaveFreq: 10, CursorSaveDelay: 5 * time.Second})

			mocks.store.
				EXPECT().
				GetBlockCursor(gomock.Any(), testNetwork).
				Return(tt.cursor, nil)
			if tt.cursor > 0 {
				mocks.subscriber.
					EXPECT().
					GetLatestBlock(gomock.Any()).
					Return(tt.latest, nil)
			}
			mocks.subscriber.
				EXPECT().
				SubscribeBlocks(gomock.Any(), tt.from, gomock.Any()).
				Return(nil)

			assert.NoError(t, e.Run(context.Background()))
		})
	}
}

func TestEmitter_Run_CursorSaveByBlockFrequency(t *testing.T) {
	mocks := setupTestEmitter(t)
	defer tearDownTestEmitter(mocks)
	mocks.frozenClock(0)

	e := mocks.newEmitter(emitter.Config{CursorSaveFreq: 10, CursorSaveDelay: time.Hour})

	mocks.store.EXPECT().GetBlockCursor(gomock.Any(), testNetwork).Return(uint64(0), nil)
	mocks.subscriber.
		EXPECT().
		SubscribeBlocks(gomock.Any(), uint64(0), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fromBlock uint64, handler messaging.BlockHandler) error {
			for n := uint64(0); n <= 25; n++ {
				if err := handler(&messaging.Block{Number: n}); err != nil {
					return err
				}
			}
			return nil
		})

	// empty blocks still advance the cursor
	mocks.store.EXPECT().SetBlockCursor(gomock.Any(), testNetwork, uint64(10)).Return(nil).Times(1)
	mocks.store.EXPECT().SetBlockCursor(gomock.Any(), testNetwork, uint64(20)).Return(nil).Times(1)

	assert.NoError(t, e.Run(context.Background()))
}

func TestEmitter_Run_CursorSaveByDelay(t *testing.T) {
	mocks := setupTestEmitter(t)
	defer tearDownTestEmitter(mocks)
	mocks.frozenClock(10 * time.Second)

	e := mocks.newEmitter(emitter.Config{StartBlock: 5, CursorSaveFreq: 1000, CursorSaveDelay: 5 * time.Second})

	mocks.subscriber.
		EXPECT().
		SubscribeBlocks(gomock.Any(), uint64(5), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fromBlock uint64, handler messaging.BlockHandler) error {
			_ = handler(&messaging.Block{Number: 5})
			return handler(&messaging.Block{Number: 6})
		})
	mocks.store.EXPECT().SetBlockCursor(gomock.Any(), testNetwork, uint64(5)).Return(nil)
	mocks.store.EXPECT().SetBlockCursor(gomock.Any(), testNetwork, uint64(6)).Return(nil)

	assert.NoError(t, e.Run(context.Background()))
}

func TestEmitter_Run_GetBlockCursorError(t *testing.T) {
	mocks := setupTestEmitter(t)
	defer tearDownTestEmitter(mocks)

	e := mocks.newEmitter(emitter.Config{CursorSaveFreq: 10})

	mocks.store.
		EXPECT().
		GetBlockCursor(gomock.Any(), testNetwork).
		Return(uint64(0), errors.New("database error"))

	err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get block cursor")
}

func TestEmitter_Run_SubscribeBlocksError(t *testing.T) {
	mocks := setupTestEmitter(t)
	defer tearDownTestEmitter(mocks)
	mocks.frozenClock(0)

	e := mocks.newEmitter(emitter.Config{StartBlock: 1, CursorSaveFreq: 10})

	mocks.subscriber.
		EXPECT().
		SubscribeBlocks(gomock.Any(), uint64(1), gomock.Any()).
		Return(errors.New("subscription error"))

	err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscription error")
}

func TestEmitter_Run_PublishEventError(t *testing.T) {
	mocks := setupTestEmitter(t)
	defer tearDownTestEmitter(mocks)
	mocks.frozenClock(time.Hour)

	e := mocks.newEmitter(emitter.Config{StartBlock: 7, CursorSaveFreq: 1, CursorSaveDelay: time.Second})

	event := purchaseEvent(7)
	mocks.subscriber.
		EXPECT().
		SubscribeBlocks(gomock.Any(), uint64(7), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fromBlock uint64, handler messaging.BlockHandler) error {
			return handler(&messaging.Block{Number: 7, Events: []*domain.LedgerEvent{event}})
		})
	mocks.publisher.
		EXPECT().
		PublishEvent(gomock.Any(), event).
		Return(errors.New("publish error"))
	// the cursor must not move past an unpublished block
	mocks.store.EXPECT().SetBlockCursor(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish event")
	assert.Contains(t, err.Error(), event.ID())
}

func TestEmitter_Run_CursorSaveErrorIsNotFatal(t *testing.T) {
	mocks := setupTestEmitter(t)
	defer tearDownTestEmitter(mocks)
	mocks.frozenClock(0)

	e := mocks.newEmitter(emitter.Config{StartBlock: 3, CursorSaveFreq: 1, CursorSaveDelay: time.Hour})

	mocks.subscriber.
		EXPECT().
		SubscribeBlocks(gomock.Any(), uint64(3), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fromBlock uint64, handler messaging.BlockHandler) error {
			if err := handler(&messaging.Block{Number: 4}); err != nil {
				return err
			}
			return handler(&messaging.Block{Number: 5})
		})
	mocks.store.EXPECT().SetBlockCursor(gomock.Any(), testNetwork, uint64(4)).Return(errors.New("locked"))
	// the failed save leaves lastSavedBlock at 3, so block 5 saves again
	mocks.store.EXPECT().SetBlockCursor(gomock.Any(), testNetwork, uint64(5)).Return(nil)

	assert.NoError(t, e.Run(context.Background()))
}

func TestEmitter_Run_ContextCanceled(t *testing.T) {
	mocks := setupTestEmitter(t)
	defer tearDownTestEmitter(mocks)
	mocks.frozenClock(0)

	e := mocks.newEmitter(emitter.Config{StartBlock: 1, CursorSaveFreq: 10})

	ctx, cancel := context.WithCancel(context.Background())
	mocks.subscriber.
		EXPECT().
		SubscribeBlocks(gomock.Any(), uint64(1), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fromBlock uint64, handler messaging.BlockHandler) error {
			cancel()
			<-ctx.Done()
			return ctx.Err()
		})

	err := e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmitter_Close(t *testing.T) {
	mocks := setupTestEmitter(t)
	defer tearDownTestEmitter(mocks)

	e := mocks.newEmitter(emitter.Config{})
	mocks.subscriber.EXPECT().Close()

	e.Close()
}

func TestEmitter_Run_GetLatestBlockError(t *testing.T) {
	mocks := setupTestEmitter(t)
	defer tearDownTestEmitter(mocks)

	e := mocks.newEmitter(emitter.Config{CursorSaveFreq: 10})

	mocks.store.EXPECT().GetBlockCursor(gomock.Any(), testNetwork).Return(uint64(40), nil)
	mocks.subscriber.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(0), errors.New("ledger closed"))

	err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get latest block")
}
