package ledgerlog

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/events"
	"github.com/peridotvault/peridot-core/internal/ledger"
	"github.com/peridotvault/peridot-core/internal/logger"
	"github.com/peridotvault/peridot-core/internal/messaging"
)

const DEFAULT_BATCH_SIZE = 100

// Config holds the configuration for following a ledger
type Config struct {
	BatchSize int // blocks read per lock acquisition
}

type subscriber struct {
	ledger    *ledger.Ledger
	chain     domain.Chain
	batchSize int

	closeOnce sync.Once
	closed    chan struct{}
}

// NewSubscriber creates a subscriber that follows the event log of l
func NewSubscriber(cfg Config, l *ledger.Ledger) messaging.Subscriber {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = DEFAULT_BATCH_SIZE
	}
	return &subscriber{
		ledger:    l,
		chain:     l.Chain(),
		batchSize: batch,
		closed:    make(chan struct{}),
	}
}

// SubscribeBlocks replays mined blocks from fromBlock, then waits for new ones
func (s *subscriber) SubscribeBlocks(ctx context.Context, fromBlock uint64, handler messaging.BlockHandler) error {
	next := fromBlock
	for {
		// taken before reading so that a block mined in between still wakes us
		changed := s.ledger.Changes()

		blocks := s.ledger.BlocksFrom(next, s.batchSize)
		for _, b := range blocks {
			if err := handler(s.convert(ctx, b)); err != nil {
				return fmt.Errorf("failed to handle block %d: %w", b.Number, err)
			}
			next = b.Number + 1
		}
		if len(blocks) == s.batchSize {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.closed:
			return nil
		case <-changed:
		}
	}
}

func (s *subscriber) convert(ctx context.Context, b *ledger.Block) *messaging.Block {
	out := &messaging.Block{Number: b.Number, Time: b.Time}
	for _, lg := range b.Logs {
		event, err := events.ToLedgerEvent(s.chain, *lg, b.Time)
		if err != nil {
			logger.ErrorCtx(ctx, err,
				zap.String("message", "Error decoding log"),
				zap.Uint64("block", b.Number),
				zap.Uint("logIndex", lg.Index))
			continue
		}
		if event == nil {
			continue
		}
		out.Events = append(out.Events, event)
	}
	return out
}

// GetLatestBlock returns the latest block number
func (s *subscriber) GetLatestBlock(ctx context.Context) (uint64, error) {
	return s.ledger.LatestBlock().Number, nil
}

// Close ends any running subscription
func (s *subscriber) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		logger.Info("Ledger subscription closed", zap.String("chain", string(s.chain)))
	})
}
