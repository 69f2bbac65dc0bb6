package adapter

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NatsConn is the connection half of a ledger event stream
//
//go:generate mockgen -source=nats.go -destination=../mocks/nats.go -package=mocks -mock_names=NatsConn=MockNatsConn
type NatsConn interface {
	Close()
	LastError() error
	ConnectedUrl() string
}

// JetStream is the stream half: ledger events are published and consumed through it
//
//go:generate mockgen -source=nats.go -destination=../mocks/nats.go -package=mocks -mock_names=JetStream=MockJetStream
type JetStream interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
	CreateOrUpdateStream(ctx context.Context, cfg jetstream.StreamConfig) error
	CreateOrUpdateConsumer(ctx context.Context, stream string, cfg jetstream.ConsumerConfig) (Consumer, error)
	Consumer(ctx context.Context, stream string, consumer string) (Consumer, error)
}

// MessageHandler receives one delivered ledger event message
type MessageHandler func(msg Message)

// Consumer is a durable pull consumer on the ledger event stream
//
//go:generate mockgen -source=nats.go -destination=../mocks/nats.go -package=mocks -mock_names=Consumer=MockNatsConsumer
type Consumer interface {
	Consume(handler MessageHandler, opts ...jetstream.PullConsumeOpt) (ConsumeContext, error)
	Info(ctx context.Context) (*jetstream.ConsumerInfo, error)
}

// ConsumeContext controls a running Consume loop
//
//go:generate mockgen -source=nats.go -destination=../mocks/nats.go -package=mocks -mock_names=ConsumeContext=MockConsumeContext
type ConsumeContext interface {
	Stop()
	Drain()
	Closed() <-chan struct{}
}

// Message is one ledger event as delivered by JetStream. Ack after the
// projection commits, Nak to redeliver, Term for undecodable payloads.
//
//go:generate mockgen -source=nats.go -destination=../mocks/nats.go -package=mocks -mock_names=Message=MockJetStreamMessage
type Message interface {
	Data() []byte
	Metadata() (*jetstream.MsgMetadata, error)
	Ack() error
	Nak() error
	Term() error
}

// NatsJetStream dials NATS and opens JetStream on the connection
//
//go:generate mockgen -source=nats.go -destination=../mocks/nats.go -package=mocks -mock_names=NatsJetStream=MockNatsJetStream
type NatsJetStream interface {
	Connect(url string, options ...nats.Option) (NatsConn, JetStream, error)
}

// RealNatsJetStream implements NatsJetStream on nats.go
type RealNatsJetStream struct{}

// NewNatsJetStream creates a NatsJetStream backed by nats.go
func NewNatsJetStream() NatsJetStream {
	return &RealNatsJetStream{}
}

func (n *RealNatsJetStream) Connect(url string, options ...nats.Option) (NatsConn, JetStream, error) {
	nc, err := nats.Connect(url, options...)
	if err != nil {
		return nil, nil, err
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}

	return nc, newLedgerStream(js), nil
}

// ledgerStream narrows jetstream.JetStream to the calls the ledger event stream needs
type ledgerStream struct {
	js jetstream.JetStream
}

func newLedgerStream(js jetstream.JetStream) *ledgerStream {
	return &ledgerStream{js: js}
}

func (s *ledgerStream) Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	return s.js.Publish(ctx, subject, data, opts...)
}

// CreateOrUpdateStream discards the stream handle; publishers address it by subject
func (s *ledgerStream) CreateOrUpdateStream(ctx context.Context, cfg jetstream.StreamConfig) error {
	_, err := s.js.CreateOrUpdateStream(ctx, cfg)
	return err
}

func (s *ledgerStream) CreateOrUpdateConsumer(ctx context.Context, stream string, cfg jetstream.ConsumerConfig) (Consumer, error) {
	return wrapConsumer(s.js.CreateOrUpdateConsumer(ctx, stream, cfg))
}

func (s *ledgerStream) Consumer(ctx context.Context, stream string, consumer string) (Consumer, error) {
	return wrapConsumer(s.js.Consumer(ctx, stream, consumer))
}

func wrapConsumer(c jetstream.Consumer, err error) (Consumer, error) {
	if err != nil {
		return nil, err
	}
	return &ledgerConsumer{consumer: c}, nil
}

// ledgerConsumer hands jetstream messages to a MessageHandler
type ledgerConsumer struct {
	consumer jetstream.Consumer
}

func (c *ledgerConsumer) Consume(handler MessageHandler, opts ...jetstream.PullConsumeOpt) (ConsumeContext, error) {
	return c.consumer.Consume(func(msg jetstream.Msg) {
		handler(msg)
	}, opts...)
}

func (c *ledgerConsumer) Info(ctx context.Context) (*jetstream.ConsumerInfo, error) {
	return c.consumer.Info(ctx)
}
