package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/logger"
	"github.com/peridotvault/peridot-core/internal/messaging"
	"github.com/peridotvault/peridot-core/internal/projection"
)

const DEFAULT_SUBJECT_PREFIX = "peridot"

// Config holds the configuration for the event bridge
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	SubjectPrefix  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
}

// Bridge consumes ledger events from JetStream and projects them
type Bridge interface {
	// Run starts the event bridge
	Run(ctx context.Context) error
	// Close closes the bridge and cleans up resources
	Close()
}

type bridge struct {
	nc        adapter.NatsConn
	js        adapter.JetStream
	projector projection.Projector
	json      adapter.JSON
	config    Config
}

// NewBridge creates a new event bridge
func NewBridge(
	cfg Config,
	natsJS adapter.NatsJetStream,
	projector projection.Projector,
	jsonAdapter adapter.JSON,
) (Bridge, error) {
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

	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = DEFAULT_SUBJECT_PREFIX
	}

	b := &bridge{
		nc:        nc,
		js:        js,
		projector: projector,
		json:      jsonAdapter,
		config:    cfg,
	}

	return b, nil
}

// Run starts the event bridge
func (b *bridge) Run(ctx context.Context) error {
	logger.InfoCtx(ctx, "Starting event bridge", zap.String("stream", b.config.StreamName), zap.String("consumer", b.config.ConsumerName))

	// Create or get consumer
	consumerConfig := jetstream.ConsumerConfig{
		Durable:       b.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       b.config.AckWaitTimeout,
		MaxDeliver:    b.config.MaxDeliver,
		FilterSubject: b.config.SubjectPrefix + ".>",
	}

	consumer, err := b.js.CreateOrUpdateConsumer(ctx, b.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.InfoCtx(ctx, "Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	msgChan := make(chan adapter.Message, 100)
	sub, err := consumer.Consume(func(msg adapter.Message) {
		msgChan <- msg
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	closed := sub.Closed()
	logger.InfoCtx(ctx, "Started consuming messages")

	// Messages are projected one at a time to keep stream order
	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Shutting down event bridge")
			return ctx.Err()
		case <-closed:
			return errors.New("consumer subscription closed")
		case msg := <-msgChan:
			b.handleMessage(ctx, msg)
		}
	}
}

// handleMessage processes a single NATS message
func (b *bridge) handleMessage(ctx context.Context, msg adapter.Message) {
	var delivered uint64
	if metadata, err := msg.Metadata(); err == nil && metadata != nil {
		delivered = metadata.NumDelivered
	}

	var envelope messaging.Envelope
	if err := b.json.Unmarshal(msg.Data(), &envelope); err != nil || envelope.Event == nil || envelope.Network == "" {
		if err == nil {
			err = errors.New("envelope without network or event")
		}
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to unmarshal event"))
		// Terminate message for unparseable data
		if err := msg.Term(); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to terminate message"))
		}
		return
	}
	event := envelope.Event

	logger.InfoCtx(ctx, "Received event",
		zap.String("network", string(envelope.Network)),
		zap.String("eventType", string(event.EventType)),
		zap.String("eventID", event.ID()),
		zap.Uint64("deliveryCount", delivered),
	)

	if err := b.projector.Project(ctx, envelope.Network, event); err != nil {
		if errors.Is(err, projection.ErrInvalidEvent) {
			logger.ErrorCtx(ctx, err, zap.String("message", "Dropping invalid event"), zap.String("eventID", event.ID()))
			if err := msg.Term(); err != nil {
				logger.ErrorCtx(ctx, err, zap.String("message", "Failed to terminate message"))
			}
			return
		}

		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to project event"), zap.String("eventID", event.ID()))
		// NAK to retry
		if err := msg.Nak(); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to NAK message"))
		}
		return
	}

	// ACK message after successful processing
	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to ACK message"))
	}
}

// Close closes the bridge and cleans up resources
func (b *bridge) Close() {
	if b.projector != nil {
		b.projector.Close()
	}
	if b.nc == nil {
		return
	}

	b.nc.Close()
}
