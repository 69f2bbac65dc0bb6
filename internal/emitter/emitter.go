package emitter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/logger"
	"github.com/peridotvault/peridot-core/internal/messaging"
	"github.com/peridotvault/peridot-core/internal/store"
)

// Config holds the configuration for the event emitter
type Config struct {
	NetworkID       domain.NetworkID
	StartBlock      uint64
	CursorSaveFreq  uint64        // Save cursor every N blocks
	CursorSaveDelay time.Duration // Or save cursor every N seconds
}

// Emitter defines the interface for the event emitter
type Emitter interface {
	// Run follows the ledger and publishes its events until ctx is done
	Run(ctx context.Context) error
	// Close closes the emitter and cleans up resources
	Close()
}

type emitter struct {
	subscriber messaging.Subscriber
	publisher  messaging.Publisher
	cursors    store.CursorStore
	config     Config
	clock      adapter.Clock
}

// NewEmitter creates a new event emitter
func NewEmitter(
	sub messaging.Subscriber,
	pub messaging.Publisher,
	cursors store.CursorStore,
	cfg Config,
	clock adapter.Clock,
) Emitter {
	return &emitter{
		subscriber: sub,
		publisher:  pub,
		cursors:    cursors,
		config:     cfg,
		clock:      clock,
	}
}

func (e *emitter) startBlock(ctx context.Context) (uint64, error) {
	network := zap.String("network", string(e.config.NetworkID))
	if e.config.StartBlock > 0 {
		logger.InfoCtx(ctx, "Starting from configured block", network, zap.Uint64("block", e.config.StartBlock))
		return e.config.StartBlock, nil
	}

	lastBlock, err := e.cursors.GetBlockCursor(ctx, e.config.NetworkID)
	if err != nil {
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}
	if lastBlock > 0 {
		latest, err := e.subscriber.GetLatestBlock(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to get latest block: %w", err)
		}
		if lastBlock > latest {
			// the cursor belongs to a longer chain than the one being followed
			logger.WarnCtx(ctx, "Block cursor is ahead of the ledger, starting from genesis",
				network, zap.Uint64("cursor", lastBlock), zap.Uint64("latest", latest))
			return 0, nil
		}
		logger.InfoCtx(ctx, "Resuming from last processed block", network, zap.Uint64("block", lastBlock+1))
		return lastBlock + 1, nil
	}

	logger.InfoCtx(ctx, "Starting from genesis", network)
	return 0, nil
}

// Run starts the event emitter
func (e *emitter) Run(ctx context.Context) error {
	startBlock, err := e.startBlock(ctx)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)

	go func() {
		logger.InfoCtx(ctx, "Starting event subscription", zap.String("network", string(e.config.NetworkID)))

		lastSavedBlock := startBlock
		lastSaveTime := e.clock.Now()

		handler := func(block *messaging.Block) error {
			for _, event := range block.Events {
				if err := e.publisher.PublishEvent(ctx, event); err != nil {
					return fmt.Errorf("failed to publish event %s: %w", event.ID(), err)
				}
			}

			// Save cursor periodically (every N blocks or N seconds)
			shouldSave := block.Number-lastSavedBlock >= e.config.CursorSaveFreq ||
				e.clock.Since(lastSaveTime) >= e.config.CursorSaveDelay
			if !shouldSave {
				return nil
			}

			if err := e.cursors.SetBlockCursor(ctx, e.config.NetworkID, block.Number); err != nil {
				logger.WarnCtx(ctx, "Failed to save block cursor", zap.Uint64("block", block.Number), zap.Error(err))
				return nil
			}
			lastSavedBlock = block.Number
			lastSaveTime = e.clock.Now()
			return nil
		}

		errCh <- e.subscriber.SubscribeBlocks(ctx, startBlock, handler)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the emitter and cleans up resources
func (e *emitter) Close() {
	e.subscriber.Close()
}
