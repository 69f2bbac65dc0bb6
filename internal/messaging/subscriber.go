package messaging

import (
	"context"
	"time"

	"github.com/peridotvault/peridot-core/internal/domain"
)

// Block is one mined block and the downstream events of its logs, in log order
type Block struct {
	Number uint64
	Time   time.Time
	Events []*domain.LedgerEvent
}

// BlockHandler is called for every block in order, including blocks without events
type BlockHandler func(block *Block) error

// Subscriber defines the interface for following a ledger's event log
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/subscriber.go -package=mocks -mock_names=Subscriber=MockSubscriber
type Subscriber interface {
	// SubscribeBlocks delivers blocks starting at fromBlock until ctx is done
	// or handler fails
	SubscribeBlocks(ctx context.Context, fromBlock uint64, handler BlockHandler) error

	// GetLatestBlock returns the latest block number
	GetLatestBlock(ctx context.Context) (uint64, error)

	// Close closes the subscription and cleans up resources
	Close()
}
