package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/bridge"
	"github.com/peridotvault/peridot-core/internal/config"
	"github.com/peridotvault/peridot-core/internal/logger"
	"github.com/peridotvault/peridot-core/internal/projection"
	"github.com/peridotvault/peridot-core/internal/providers/temporal"
	"github.com/peridotvault/peridot-core/internal/store"
	"github.com/peridotvault/peridot-core/internal/webhook"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadEventBridgeConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "event-bridge",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Event Bridge")

	// Connect to database
	db, err := store.Open(cfg.Database.Driver, cfg.Database.DSN(), cfg.Debug)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("driver", cfg.Database.Driver))
	}
	if err := store.ConfigureConnectionPool(db,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime,
		cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	if err := store.Migrate(db); err != nil {
		logger.FatalCtx(ctx, "Failed to migrate database", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database")

	// Initialize store
	dataStore := store.NewStore(db)

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	natsJS := adapter.NewNatsJetStream()

	// Initialize projection
	deliveryCfg := webhook.Config{
		Workers:         cfg.Webhook.Workers,
		QueueSize:       cfg.Webhook.QueueSize,
		InitialInterval: cfg.Webhook.InitialInterval,
		MaxInterval:     cfg.Webhook.MaxInterval,
	}
	httpClient := adapter.NewHTTPClient(cfg.Webhook.HTTPTimeout)
	var dispatcher webhook.Dispatcher
	if cfg.Temporal.Enabled {
		temporalClient, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
			Logger:    temporal.NewZapLoggerAdapter(logger.Default()),
		})
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to Temporal", zap.Error(err), zap.String("host_port", cfg.Temporal.HostPort))
		}
		defer temporalClient.Close()

		executor := webhook.NewDeliveryExecutor(dataStore, httpClient, jsonAdapter, clockAdapter, adapter.NewActivity())
		temporalWorker := webhook.NewWorker(temporalClient, cfg.Temporal.TaskQueue, worker.Options{
			MaxConcurrentActivityExecutionSize: cfg.Temporal.MaxConcurrentActivityExecutionSize,
			WorkerActivitiesPerSecond:          cfg.Temporal.WorkerActivitiesPerSecond,
		}, webhook.NewWorkflows(executor, deliveryCfg), executor)
		if err := temporalWorker.Start(); err != nil {
			logger.FatalCtx(ctx, "Failed to start Temporal worker", zap.Error(err))
		}
		defer temporalWorker.Stop()
		logger.InfoCtx(ctx, "Temporal webhook worker started", zap.String("taskQueue", cfg.Temporal.TaskQueue))

		dispatcher = webhook.NewTemporalDispatcher(temporalClient, cfg.Temporal.TaskQueue, clockAdapter)
	} else {
		dispatcher = webhook.NewDispatcher(deliveryCfg, dataStore, httpClient, jsonAdapter, clockAdapter)
	}
	projector := projection.NewProjector(dataStore, dispatcher)
	defer projector.Close()

	// Create bridge
	eventBridge, err := bridge.NewBridge(
		bridge.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			ConsumerName:   cfg.NATS.ConsumerName,
			SubjectPrefix:  cfg.NATS.SubjectPrefix,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
			AckWaitTimeout: cfg.NATS.AckWait,
			MaxDeliver:     cfg.NATS.MaxDeliver,
		},
		natsJS,
		projector,
		jsonAdapter,
	)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create event bridge", zap.Error(err))
	}
	defer eventBridge.Close()
	logger.InfoCtx(ctx, "Event bridge created", zap.String("stream", cfg.NATS.StreamName), zap.String("consumer", cfg.NATS.ConsumerName))

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel for bridge errors
	errCh := make(chan error, 1)

	// Start the bridge
	go func() {
		if err := eventBridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "bridge"))
	}
	cancel()

	logger.Info("Event Bridge stopped")
}
