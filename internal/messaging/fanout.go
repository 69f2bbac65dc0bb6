package messaging

import (
	"context"
	"fmt"

	"github.com/peridotvault/peridot-core/internal/domain"
)

type fanout struct {
	publishers []Publisher
}

// NewFanout returns a publisher that delivers each event to every publisher in
// order and stops at the first failure
func NewFanout(publishers ...Publisher) Publisher {
	return &fanout{publishers: publishers}
}

func (f *fanout) PublishEvent(ctx context.Context, event *domain.LedgerEvent) error {
	for i, p := range f.publishers {
		if err := p.PublishEvent(ctx, event); err != nil {
			return fmt.Errorf("publisher %d: %w", i, err)
		}
	}
	return nil
}

func (f *fanout) Close() {
	for _, p := range f.publishers {
		p.Close()
	}
}
