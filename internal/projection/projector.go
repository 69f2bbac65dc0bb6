package projection

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/logger"
	"github.com/peridotvault/peridot-core/internal/messaging"
	"github.com/peridotvault/peridot-core/internal/store"
	"github.com/peridotvault/peridot-core/internal/webhook"
)

// ErrInvalidEvent is returned for events missing the fields their type requires.
// Redelivering such an event cannot succeed.
var ErrInvalidEvent = errors.New("invalid ledger event")

// Projector records ledger events into the read model
//
//go:generate mockgen -source=projector.go -destination=../mocks/projector.go -package=mocks -mock_names=Projector=MockProjector
type Projector interface {
	// Project records event under network and notifies webhook clients the
	// first time it is seen. Replays are no-ops.
	Project(ctx context.Context, network domain.NetworkID, event *domain.LedgerEvent) error
	// Close stops webhook delivery
	Close()
}

type projector struct {
	store      store.Store
	dispatcher webhook.Dispatcher
}

// NewProjector creates a projector. dispatcher may be nil.
func NewProjector(st store.Store, dispatcher webhook.Dispatcher) Projector {
	return &projector{
		store:      st,
		dispatcher: dispatcher,
	}
}

func (p *projector) Project(ctx context.Context, network domain.NetworkID, event *domain.LedgerEvent) error {
	if event == nil || !event.Valid() {
		return ErrInvalidEvent
	}

	recorded, err := p.store.RecordEvent(ctx, network, event)
	if err != nil {
		return fmt.Errorf("failed to record event %s: %w", event.ID(), err)
	}
	if !recorded {
		logger.DebugCtx(ctx, "Event already projected", zap.String("eventID", event.ID()))
		return nil
	}

	logger.DebugCtx(ctx, "Event projected",
		zap.String("network", string(network)),
		zap.String("eventID", event.ID()),
		zap.String("eventType", string(event.EventType)),
		zap.Uint64("block", event.BlockNumber))

	if p.dispatcher == nil {
		return nil
	}
	// the projection is committed; a notification failure must not replay it
	if err := p.dispatcher.Notify(ctx, event); err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("message", "Failed to notify webhook clients"),
			zap.String("eventID", event.ID()))
	}
	return nil
}

func (p *projector) Close() {
	if p.dispatcher != nil {
		p.dispatcher.Close()
	}
}

type networkPublisher struct {
	projector Projector
	network   domain.NetworkID
}

// ForNetwork adapts a projector to the emitter's publisher contract for one network
func ForNetwork(p Projector, network domain.NetworkID) messaging.Publisher {
	return &networkPublisher{projector: p, network: network}
}

func (n *networkPublisher) PublishEvent(ctx context.Context, event *domain.LedgerEvent) error {
	return n.projector.Project(ctx, n.network, event)
}

func (n *networkPublisher) Close() {
	n.projector.Close()
}
