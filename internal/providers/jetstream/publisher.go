package jetstream

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/logger"
	"github.com/peridotvault/peridot-core/internal/messaging"
)

const (
	DEFAULT_SUBJECT_PREFIX   = "peridot"
	DEFAULT_DUPLICATE_WINDOW = 2 * time.Minute
	DEFAULT_RETRY_INTERVAL   = 200 * time.Millisecond
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	SubjectPrefix  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string

	// DuplicateWindow is how long the stream remembers message ids
	DuplicateWindow time.Duration
	// PublishRetries bounds how often a failed publish is retried
	PublishRetries uint64
	RetryInterval  time.Duration
}

type publisher struct {
	nc      adapter.NatsConn
	js      adapter.JetStream
	network domain.NetworkID
	prefix  string
	retries uint64
	retryIv time.Duration
	json    adapter.JSON
}

// NewPublisher connects to NATS, makes sure the event stream exists and returns a publisher for it.
// Message ids are scoped by network so the stream can deduplicate replays after a restart.
func NewPublisher(
	ctx context.Context,
	cfg Config,
	network domain.NetworkID,
	natsJS adapter.NatsJetStream,
	jsonAdapter adapter.JSON,
) (messaging.Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = DEFAULT_SUBJECT_PREFIX
	}
	window := cfg.DuplicateWindow
	if window <= 0 {
		window = DEFAULT_DUPLICATE_WINDOW
	}

	err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       cfg.StreamName,
		Subjects:   []string{prefix + ".>"},
		Storage:    jetstream.FileStorage,
		Duplicates: window,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to ensure stream %s: %w", cfg.StreamName, err)
	}

	retryIv := cfg.RetryInterval
	if retryIv <= 0 {
		retryIv = DEFAULT_RETRY_INTERVAL
	}

	return &publisher{
		nc:      nc,
		js:      js,
		network: network,
		prefix:  prefix,
		retries: cfg.PublishRetries,
		retryIv: retryIv,
		json:    jsonAdapter,
	}, nil
}

// PublishEvent publishes a ledger event to NATS JetStream
func (p *publisher) PublishEvent(ctx context.Context, event *domain.LedgerEvent) error {
	logger.DebugCtx(ctx, "Publishing Nats event", zap.String("eventID", event.ID()), zap.String("eventType", string(event.EventType)))

	data, err := p.json.Marshal(messaging.Envelope{Network: p.network, Event: event})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := p.buildSubject(event)
	msgID := fmt.Sprintf("%s:%s", p.network, event.ID())

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.retryIv
	b.MaxInterval = 10 * p.retryIv

	var attempt int
	operation := func() error {
		_, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(msgID))
		return err
	}
	notify := func(err error, next time.Duration) {
		attempt++
		logger.WarnCtx(ctx, "Publish failed, retrying",
			zap.Error(err),
			zap.String("subject", subject),
			zap.Int("attempt", attempt),
			zap.Duration("next_retry_in", next),
		)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, p.retries), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// buildSubject constructs the NATS subject based on the event
func (p *publisher) buildSubject(event *domain.LedgerEvent) string {
	// Format: {prefix}.{chain id}.{event_type}
	// e.g., peridot.31337.purchased
	return fmt.Sprintf("%s.%d.%s", p.prefix, event.Chain.ChainNumericID(), event.EventType)
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
