package jetstream_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/messaging"
	"github.com/peridotvault/peridot-core/internal/mocks"
	natspub "github.com/peridotvault/peridot-core/internal/providers/jetstream"
)

const testNetwork = domain.NetworkID("eip155:31337:0a1b2c3d4e5f6071")

type testPublisherMocks struct {
	ctrl   *gomock.Controller
	natsJS *mocks.MockNatsJetStream
	conn   *mocks.MockNatsConn
	js     *mocks.MockJetStream
}

func setupTestPublisher(t *testing.T) *testPublisherMocks {
	ctrl := gomock.NewController(t)
	return &testPublisherMocks{
		ctrl:   ctrl,
		natsJS: mocks.NewMockNatsJetStream(ctrl),
		conn:   mocks.NewMockNatsConn(ctrl),
		js:     mocks.NewMockJetStream(ctrl),
	}
}

func testConfig() natspub.Config {
	return natspub.Config{
		URL:            "nats://localhost:4222",
		StreamName:     "PERIDOT_EVENTS",
		MaxReconnects:  3,
		ReconnectWait:  time.Second,
		ConnectionName: "peridot-node",
		PublishRetries: 2,
		RetryInterval:  time.Millisecond,
	}
}

func sampleEvent() *domain.LedgerEvent {
	return &domain.LedgerEvent{
		Chain:        domain.ChainLocalDevnet,
		Contract:     "0x00000000000000000000000000000000000000c1",
		EventType:    domain.EventTypePurchased,
		SaleContract: "0x00000000000000000000000000000000000000c1",
		Account:      "0x00000000000000000000000000000000000000b1",
		Amount:       "1000",
		LicenseID:    "1",
		TxHash:       "0x0000000000000000000000000000000000000000000000000000000000000abc",
		BlockNumber:  3,
		LogIndex:     0,
		Timestamp:    time.Unix(1_700_000_000, 0).UTC(),
	}
}

func (m *testPublisherMocks) connect(t *testing.T) {
	m.natsJS.EXPECT().
		Connect("nats://localhost:4222", gomock.Any()).
		Return(m.conn, m.js, nil)
	m.js.EXPECT().
		CreateOrUpdateStream(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, cfg jetstream.StreamConfig) error {
			assert.Equal(t, "PERIDOT_EVENTS", cfg.Name)
			assert.Equal(t, []string{"peridot.>"}, cfg.Subjects)
			assert.Equal(t, natspub.DEFAULT_DUPLICATE_WINDOW, cfg.Duplicates)
			return nil
		})
}

func TestNewPublisher_ConnectError(t *testing.T) {
	m := setupTestPublisher(t)
	defer m.ctrl.Finish()

	m.natsJS.EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(nil, nil, errors.New("no servers available"))

	_, err := natspub.NewPublisher(context.Background(), testConfig(), testNetwork, m.natsJS, adapter.NewJSON())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestNewPublisher_StreamError(t *testing.T) {
	m := setupTestPublisher(t)
	defer m.ctrl.Finish()

	m.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(m.conn, m.js, nil)
	m.js.EXPECT().CreateOrUpdateStream(gomock.Any(), gomock.Any()).Return(errors.New("insufficient resources"))
	m.conn.EXPECT().Close()

	_, err := natspub.NewPublisher(context.Background(), testConfig(), testNetwork, m.natsJS, adapter.NewJSON())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PERIDOT_EVENTS")
}

func TestPublishEvent(t *testing.T) {
	m := setupTestPublisher(t)
	defer m.ctrl.Finish()
	m.connect(t)

	pub, err := natspub.NewPublisher(context.Background(), testConfig(), testNetwork, m.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	event := sampleEvent()
	m.js.EXPECT().
		Publish(gomock.Any(), "peridot.31337.purchased", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
			assert.Len(t, opts, 1)
			var decoded messaging.Envelope
			require.NoError(t, adapter.NewJSON().Unmarshal(data, &decoded))
			assert.Equal(t, testNetwork, decoded.Network)
			require.NotNil(t, decoded.Event)
			assert.Equal(t, event.ID(), decoded.Event.ID())
			assert.Equal(t, event.Account, decoded.Event.Account)
			return &jetstream.PubAck{Stream: "PERIDOT_EVENTS", Sequence: 1}, nil
		})

	assert.NoError(t, pub.PublishEvent(context.Background(), event))

	m.conn.EXPECT().Close()
	pub.Close()
}

func TestPublishEvent_Retries(t *testing.T) {
	tests := []struct {
		name     string
		failures int
		wantErr  bool
	}{
		{name: "recovers after transient failures", failures: 2, wantErr: false},
		{name: "gives up after retries are exhausted", failures: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupTestPublisher(t)
			defer m.ctrl.Finish()
			m.connect(t)

			pub, err := natspub.NewPublisher(context.Background(), testConfig(), testNetwork, m.natsJS, adapter.NewJSON())
			require.NoError(t, err)

			calls := 0
			m.js.EXPECT().
				Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
					calls++
					if calls <= tt.failures {
						return nil, errors.New("timeout")
					}
					return &jetstream.PubAck{}, nil
				}).
				MinTimes(1)

			err = pub.PublishEvent(context.Background(), sampleEvent())
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to publish event")
				assert.Equal(t, 3, calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 3, calls)
		})
	}
}

func TestPublishEvent_MarshalError(t *testing.T) {
	m := setupTestPublisher(t)
	defer m.ctrl.Finish()
	m.connect(t)

	json := mocks.NewMockJSON(m.ctrl)
	pub, err := natspub.NewPublisher(context.Background(), testConfig(), testNetwork, m.natsJS, json)
	require.NoError(t, err)

	json.EXPECT().Marshal(gomock.Any()).Return(nil, errors.New("unsupported value"))

	err = pub.PublishEvent(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal event")
}
