package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJetStream struct {
	jetstream.JetStream
	streams   []jetstream.StreamConfig
	consumer  jetstream.Consumer
	streamErr error
	lookupErr error
}

func (f *fakeJetStream) CreateOrUpdateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error) {
	f.streams = append(f.streams, cfg)
	return nil, f.streamErr
}

func (f *fakeJetStream) CreateOrUpdateConsumer(ctx context.Context, stream string, cfg jetstream.ConsumerConfig) (jetstream.Consumer, error) {
	return f.consumer, f.lookupErr
}

func (f *fakeJetStream) Consumer(ctx context.Context, stream string, consumer string) (jetstream.Consumer, error) {
	return f.consumer, f.lookupErr
}

type fakeConsumer struct {
	jetstream.Consumer
	delivered []jetstream.Msg
}

func (f *fakeConsumer) Consume(handler jetstream.MessageHandler, opts ...jetstream.PullConsumeOpt) (jetstream.ConsumeContext, error) {
	for _, msg := range f.delivered {
		handler(msg)
	}
	return nil, nil
}

type fakeMsg struct {
	jetstream.Msg
	data []byte
}

func (f *fakeMsg) Data() []byte { return f.data }

func TestLedgerStream_CreateOrUpdateStream(t *testing.T) {
	js := &fakeJetStream{}
	stream := newLedgerStream(js)

	cfg := jetstream.StreamConfig{Name: "PERIDOT_EVENTS", Subjects: []string{"peridot.>"}}
	require.NoError(t, stream.CreateOrUpdateStream(context.Background(), cfg))
	require.Len(t, js.streams, 1)
	assert.Equal(t, "PERIDOT_EVENTS", js.streams[0].Name)

	js.streamErr = errors.New("insufficient resources")
	assert.EqualError(t, stream.CreateOrUpdateStream(context.Background(), cfg), "insufficient resources")
}

func TestLedgerStream_ConsumerLookup(t *testing.T) {
	js := &fakeJetStream{lookupErr: jetstream.ErrConsumerNotFound}
	stream := newLedgerStream(js)

	c, err := stream.Consumer(context.Background(), "PERIDOT_EVENTS", "bridge")
	assert.ErrorIs(t, err, jetstream.ErrConsumerNotFound)
	assert.Nil(t, c)

	c, err = stream.CreateOrUpdateConsumer(context.Background(), "PERIDOT_EVENTS", jetstream.ConsumerConfig{Durable: "bridge"})
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestLedgerConsumer_ConsumeForwardsMessages(t *testing.T) {
	consumer := &fakeConsumer{delivered: []jetstream.Msg{
		&fakeMsg{data: []byte(`{"eventType":"purchased"}`)},
		&fakeMsg{data: []byte(`{"eventType":"price_updated"}`)},
	}}
	stream := newLedgerStream(&fakeJetStream{consumer: consumer})

	c, err := stream.Consumer(context.Background(), "PERIDOT_EVENTS", "bridge")
	require.NoError(t, err)

	var received []string
	_, err = c.Consume(func(msg Message) {
		received = append(received, string(msg.Data()))
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`{"eventType":"purchased"}`, `{"eventType":"price_updated"}`}, received)
}
