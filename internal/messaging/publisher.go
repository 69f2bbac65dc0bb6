package messaging

import (
	"context"

	"github.com/peridotvault/peridot-core/internal/domain"
)

// Publisher defines the interface for delivering ledger events downstream
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishEvent delivers a ledger event. Delivery is at least once, so
	// implementations must tolerate redelivery of the same event.
	PublishEvent(ctx context.Context, event *domain.LedgerEvent) error
	// Close releases the publisher's resources
	Close()
}

// Envelope is the wire form of a ledger event on the message stream. It carries
// the network so that consumers can scope the event without knowing the producer.
type Envelope struct {
	Network domain.NetworkID    `json:"network"`
	Event   *domain.LedgerEvent `json:"event"`
}
