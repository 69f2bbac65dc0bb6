package webhook_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/mocks"
	"github.com/peridotvault/peridot-core/internal/store/schema"
	"github.com/peridotvault/peridot-core/internal/webhook"
)

const testSecret = "whsec_test" //nolint:gosec,G101

type statusUpdate struct {
	status   schema.WebhookDeliveryStatus
	attempts int
	code     int
	body     string
	errMsg   string
}

type testDispatcherMocks struct {
	ctrl  *gomock.Controller
	store *mocks.MockStore
	clock *mocks.MockClock

	mu      sync.Mutex
	updates []statusUpdate
}

func setupTestDispatcher(t *testing.T) *testDispatcherMocks {
	ctrl := gomock.NewController(t)
	m := &testDispatcherMocks{
		ctrl:  ctrl,
		store: mocks.NewMockStore(ctrl),
		clock: mocks.NewMockClock(ctrl),
	}
	m.clock.EXPECT().Now().Return(signedAt).AnyTimes()
	return m
}

func (m *testDispatcherMocks) dispatcher() webhook.Dispatcher {
	return webhook.NewDispatcher(
		webhook.Config{Workers: 2, QueueSize: 8, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond},
		m.store,
		adapter.NewHTTPClient(5*time.Second),
		adapter.NewJSON(),
		m.clock,
	)
}

func (m *testDispatcherMocks) client(url string, maxAttempts int) *schema.WebhookClient {
	return &schema.WebhookClient{
		ClientID:         "7d1f3c2e-0000-4000-8000-000000000001",
		WebhookURL:       url,
		WebhookSecret:    testSecret,
		IsActive:         true,
		RetryMaxAttempts: maxAttempts,
	}
}

// expectDelivery records one delivery row with id 42 and captures its status updates
func (m *testDispatcherMocks) expectDelivery(t *testing.T) {
	m.store.EXPECT().
		CreateWebhookDelivery(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, d *schema.WebhookDelivery) error {
			assert.Equal(t, "purchased", d.EventType)
			assert.Len(t, d.EventID, 26)
			assert.NotEmpty(t, d.Payload)
			d.ID = 42
			return nil
		})
	m.store.EXPECT().
		UpdateWebhookDeliveryStatus(gomock.Any(), uint64(42), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, id uint64, status schema.WebhookDeliveryStatus, attempts int, code *int, body, errMsg string) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			u := statusUpdate{status: status, attempts: attempts, body: body, errMsg: errMsg}
			if code != nil {
				u.code = *code
			}
			m.updates = append(m.updates, u)
			return nil
		}).
		AnyTimes()
}

// replayServer answers with the given status codes in order, repeating the last one
func replayServer(t *testing.T, codes ...int) (*httptest.Server, *int32) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&calls, 1))
		code := codes[len(codes)-1]
		if n <= len(codes) {
			code = codes[n-1]
		}

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		ts, err := strconv.ParseInt(r.Header.Get("X-Webhook-Timestamp"), 10, 64)
		assert.NoError(t, err)
		assert.True(t, webhook.Verify(testSecret, ts, r.Header.Get("X-Webhook-Event-ID"), body, r.Header.Get("X-Webhook-Signature")))
		assert.Equal(t, "purchased", r.Header.Get("X-Webhook-Event-Type"))
		assert.Equal(t, "Peridot-Webhook/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.WriteHeader(code)
		_, _ = w.Write([]byte(http.StatusText(code)))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestDispatcher_Notify(t *testing.T) {
	tests := []struct {
		name        string
		codes       []int
		maxAttempts int
		wantCalls   int32
		want        []statusUpdate
	}{
		{
			name:        "delivered on first attempt",
			codes:       []int{http.StatusOK},
			maxAttempts: 3,
			wantCalls:   1,
			want: []statusUpdate{
				{status: schema.WebhookDeliveryStatusSuccess, attempts: 1, code: 200, body: "OK"},
			},
		},
		{
			name:        "server error is retried",
			codes:       []int{http.StatusInternalServerError, http.StatusNoContent},
			maxAttempts: 3,
			wantCalls:   2,
			want: []statusUpdate{
				{status: schema.WebhookDeliveryStatusFailed, attempts: 1, code: 500, body: "Internal Server Error", errMsg: "HTTP 500"},
				{status: schema.WebhookDeliveryStatusSuccess, attempts: 2, code: 204, body: "No Content"},
			},
		},
		{
			name:        "client error is not retried",
			codes:       []int{http.StatusBadRequest},
			maxAttempts: 5,
			wantCalls:   1,
			want: []statusUpdate{
				{status: schema.WebhookDeliveryStatusFailed, attempts: 1, code: 400, body: "Bad Request", errMsg: "HTTP 400"},
			},
		},
		{
			name:        "too many requests is retried until attempts run out",
			codes:       []int{http.StatusTooManyRequests},
			maxAttempts: 2,
			wantCalls:   2,
			want: []statusUpdate{
				{status: schema.WebhookDeliveryStatusFailed, attempts: 1, code: 429, body: "Too Many Requests", errMsg: "HTTP 429"},
				{status: schema.WebhookDeliveryStatusFailed, attempts: 2, code: 429, body: "Too Many Requests", errMsg: "HTTP 429"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupTestDispatcher(t)
			defer m.ctrl.Finish()

			srv, calls := replayServer(t, tt.codes...)
			m.store.EXPECT().
				GetActiveWebhookClientsByEventType(gomock.Any(), "purchased").
				Return([]*schema.WebhookClient{m.client(srv.URL, tt.maxAttempts)}, nil)
			m.expectDelivery(t)

			d := m.dispatcher()
			require.NoError(t, d.Notify(context.Background(), purchaseEvent()))
			d.Close()

			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(calls))
			m.mu.Lock()
			defer m.mu.Unlock()
			assert.Equal(t, tt.want, m.updates)
		})
	}
}

func TestDispatcher_Notify_NoClients(t *testing.T) {
	m := setupTestDispatcher(t)
	defer m.ctrl.Finish()

	m.store.EXPECT().
		GetActiveWebhookClientsByEventType(gomock.Any(), "purchased").
		Return(nil, nil)

	d := m.dispatcher()
	require.NoError(t, d.Notify(context.Background(), purchaseEvent()))
	d.Close()
}

func TestDispatcher_Notify_StoreError(t *testing.T) {
	m := setupTestDispatcher(t)
	defer m.ctrl.Finish()

	m.store.EXPECT().
		GetActiveWebhookClientsByEventType(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	d := m.dispatcher()
	defer d.Close()

	err := d.Notify(context.Background(), purchaseEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get webhook clients")
}

func TestDispatcher_Notify_DeliveryRecordError(t *testing.T) {
	m := setupTestDispatcher(t)
	defer m.ctrl.Finish()

	srv, calls := replayServer(t, http.StatusOK)
	m.store.EXPECT().
		GetActiveWebhookClientsByEventType(gomock.Any(), gomock.Any()).
		Return([]*schema.WebhookClient{m.client(srv.URL, 3)}, nil)
	m.store.EXPECT().
		CreateWebhookDelivery(gomock.Any(), gomock.Any()).
		Return(errors.New("disk full"))

	d := m.dispatcher()
	require.NoError(t, d.Notify(context.Background(), purchaseEvent()))
	d.Close()

	// nothing is sent without an audit row
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestDispatcher_NotifyAfterClose(t *testing.T) {
	m := setupTestDispatcher(t)
	defer m.ctrl.Finish()

	d := m.dispatcher()
	d.Close()

	err := d.Notify(context.Background(), purchaseEvent())
	assert.ErrorIs(t, err, webhook.ErrDispatcherClosed)
}

func TestDispatcher_Notify_TransportErrorIsRetried(t *testing.T) {
	m := setupTestDispatcher(t)
	defer m.ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(m.ctrl)
	client := m.client("https://hooks.example.com/peridot", 3)

	m.store.EXPECT().
		GetActiveWebhookClientsByEventType(gomock.Any(), "purchased").
		Return([]*schema.WebhookClient{client}, nil)
	m.expectDelivery(t)
	gomock.InOrder(
		httpClient.EXPECT().
			PostWithHeaders(gomock.Any(), client.WebhookURL, gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection reset")),
		httpClient.EXPECT().
			PostWithHeaders(gomock.Any(), client.WebhookURL, gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, url string, headers map[string]string, body io.Reader) (*http.Response, error) {
				assert.Equal(t, "purchased", headers["X-Webhook-Event-Type"])
				assert.NotEmpty(t, headers["X-Webhook-Signature"])
				return &http.Response{StatusCode: http.StatusAccepted, Body: io.NopCloser(strings.NewReader("queued"))}, nil
			}),
	)

	d := webhook.NewDispatcher(
		webhook.Config{Workers: 1, QueueSize: 1, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond},
		m.store, httpClient, adapter.NewJSON(), m.clock,
	)
	require.NoError(t, d.Notify(context.Background(), purchaseEvent()))
	d.Close()

	m.mu.Lock()
	defer m.mu.Unlock()
	require.Len(t, m.updates, 2)
	assert.Equal(t, schema.WebhookDeliveryStatusFailed, m.updates[0].status)
	assert.Equal(t, 0, m.updates[0].code)
	assert.Contains(t, m.updates[0].errMsg, "connection reset")
	assert.Equal(t, statusUpdate{status: schema.WebhookDeliveryStatusSuccess, attempts: 2, code: 202, body: "queued"}, m.updates[1])
}
