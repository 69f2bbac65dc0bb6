package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/logger"
	"github.com/peridotvault/peridot-core/internal/store"
	"github.com/peridotvault/peridot-core/internal/store/schema"
)

const (
	DEFAULT_WORKERS          = 4
	DEFAULT_QUEUE_SIZE       = 256
	DEFAULT_INITIAL_INTERVAL = 5 * time.Second
	DEFAULT_MAX_INTERVAL     = 80 * time.Second

	userAgent       = "Peridot-Webhook/1.0"
	maxResponseBody = 4 * 1024
)

// ErrDispatcherClosed is returned by Notify after Close
var ErrDispatcherClosed = errors.New("webhook dispatcher closed")

// Config holds the configuration for webhook delivery
type Config struct {
	Workers   int
	QueueSize int
	// InitialInterval and MaxInterval shape the exponential retry between attempts
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = DEFAULT_WORKERS
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DEFAULT_QUEUE_SIZE
	}
	if c.InitialInterval <= 0 {
		c.InitialInterval = DEFAULT_INITIAL_INTERVAL
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = DEFAULT_MAX_INTERVAL
	}
	return c
}

// Dispatcher fans ledger events out to matching webhook clients
//
//go:generate mockgen -source=dispatcher.go -destination=../mocks/webhook_dispatcher.go -package=mocks -mock_names=Dispatcher=MockWebhookDispatcher
type Dispatcher interface {
	// Notify queues one delivery per active client subscribed to the event type.
	// It returns once the deliveries are queued, not delivered.
	Notify(ctx context.Context, event *domain.LedgerEvent) error
	// Close waits for queued deliveries to finish
	Close()
}

// sender performs signed webhook POSTs
type sender struct {
	httpClient adapter.HTTPClient
	json       adapter.JSON
	clock      adapter.Clock
}

type dispatcher struct {
	sender
	config Config
	store  store.Store

	ctx    context.Context
	cancel context.CancelFunc
	pool   pond.Pool
}

// NewDispatcher creates a webhook dispatcher backed by a worker pool
func NewDispatcher(
	cfg Config,
	st store.Store,
	httpClient adapter.HTTPClient,
	jsonAdapter adapter.JSON,
	clock adapter.Clock,
) Dispatcher {
	cfg = cfg.withDefaults()

	// deliveries outlive the request that triggered them
	ctx, cancel := context.WithCancel(context.Background())

	return &dispatcher{
		sender: sender{httpClient: httpClient, json: jsonAdapter, clock: clock},
		config: cfg,
		store:  st,
		ctx:    ctx,
		cancel: cancel,
		pool: pond.NewPool(
			cfg.Workers,
			pond.WithQueueSize(cfg.QueueSize),
			pond.WithContext(ctx),
		),
	}
}

func (d *dispatcher) Notify(ctx context.Context, event *domain.LedgerEvent) error {
	if d.pool.Stopped() {
		return ErrDispatcherClosed
	}

	clients, err := d.store.GetActiveWebhookClientsByEventType(ctx, string(event.EventType))
	if err != nil {
		return fmt.Errorf("failed to get webhook clients: %w", err)
	}
	if len(clients) == 0 {
		logger.DebugCtx(ctx, "No active webhook clients found for event type",
			zap.String("eventType", string(event.EventType)))
		return nil
	}

	webhookEvent := NewWebhookEvent(event, d.clock.Now())
	for _, client := range clients {
		d.pool.Submit(func() {
			d.deliver(d.ctx, client, webhookEvent)
		})
	}

	logger.InfoCtx(ctx, "Webhook deliveries queued",
		zap.String("eventID", webhookEvent.EventID),
		zap.String("eventType", webhookEvent.EventType),
		zap.Int("clients", len(clients)))

	return nil
}

// deliver records a delivery and attempts it up to client.RetryMaxAttempts times
func (d *dispatcher) deliver(ctx context.Context, client *schema.WebhookClient, event WebhookEvent) {
	payload, err := d.json.Marshal(event)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to marshal webhook event"), zap.String("clientID", client.ClientID))
		return
	}

	delivery := &schema.WebhookDelivery{
		ClientID:  client.ClientID,
		EventID:   event.EventID,
		EventType: event.EventType,
		Payload:   payload,
	}
	if err := d.store.CreateWebhookDelivery(ctx, delivery); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to create webhook delivery record"), zap.String("clientID", client.ClientID))
		return
	}

	maxAttempts := client.RetryMaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.config.InitialInterval
	b.MaxInterval = d.config.MaxInterval
	b.MaxElapsedTime = 0
	b.Multiplier = 2.0

	attempt := 0
	var last DeliveryResult
	operation := func() error {
		attempt++
		result, err := d.send(ctx, client, event)
		last = result
		recordAttempt(ctx, d.store, client, delivery.ID, attempt, result, err)
		return err
	}
	notify := func(err error, next time.Duration) {
		logger.WarnCtx(ctx, "Webhook delivery failed, retrying",
			zap.String("clientID", client.ClientID),
			zap.String("eventID", event.EventID),
			zap.Int("attempt", attempt),
			zap.Duration("next_retry_in", next),
			zap.Error(err))
	}

	//nolint:gosec,G115
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxAttempts-1)), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("message", "Webhook delivery abandoned"),
			zap.String("clientID", client.ClientID),
			zap.String("eventID", event.EventID),
			zap.Int("attempts", attempt))
		return
	}

	logger.InfoCtx(ctx, "Webhook delivered successfully",
		zap.String("clientID", client.ClientID),
		zap.String("eventID", event.EventID),
		zap.Int("statusCode", last.StatusCode))
}

// recordAttempt stores the outcome of one delivery attempt
func recordAttempt(ctx context.Context, st store.Store, client *schema.WebhookClient, deliveryID uint64, attempt int, result DeliveryResult, err error) {
	status := schema.WebhookDeliveryStatusSuccess
	if err != nil {
		status = schema.WebhookDeliveryStatusFailed
	}
	var code *int
	if result.StatusCode != 0 {
		code = &result.StatusCode
	}
	if uerr := st.UpdateWebhookDeliveryStatus(ctx, deliveryID, status, attempt, code, result.Body, result.Error); uerr != nil {
		logger.ErrorCtx(ctx, uerr, zap.String("message", "Failed to update webhook delivery status"), zap.String("clientID", client.ClientID))
	}
}

// send performs one signed POST. Client errors other than 408 and 429 are permanent.
func (s *sender) send(ctx context.Context, client *schema.WebhookClient, event WebhookEvent) (DeliveryResult, error) {
	payload, signature, timestamp, err := GenerateSignedPayload(client.WebhookSecret, event, s.json, s.clock.Now())
	if err != nil {
		return DeliveryResult{Error: err.Error()}, backoff.Permanent(err)
	}

	headers := map[string]string{
		"Content-Type":         "application/json",
		"X-Webhook-Signature":  signature,
		"X-Webhook-Event-ID":   event.EventID,
		"X-Webhook-Event-Type": event.EventType,
		"X-Webhook-Timestamp":  fmt.Sprintf("%d", timestamp),
		"User-Agent":           userAgent,
	}

	resp, err := s.httpClient.PostWithHeaders(ctx, client.WebhookURL, headers, bytes.NewReader(payload))
	if err != nil {
		return DeliveryResult{Error: err.Error()}, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.WarnCtx(ctx, "failed to close response body", zap.Error(err), zap.String("url", client.WebhookURL))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		// an unreadable body does not fail the delivery
		body = []byte{}
	}

	result := DeliveryResult{StatusCode: resp.StatusCode, Body: string(body)}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		result.Success = true
		return result, nil
	}

	err = fmt.Errorf("HTTP %d", resp.StatusCode)
	result.Error = err.Error()
	if resp.StatusCode >= 400 && resp.StatusCode < 500 &&
		resp.StatusCode != http.StatusRequestTimeout && resp.StatusCode != http.StatusTooManyRequests {
		return result, backoff.Permanent(err)
	}
	return result, err
}

func (d *dispatcher) Close() {
	d.pool.StopAndWait()
	d.cancel()
}
