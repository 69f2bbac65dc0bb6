package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/api/middleware"
	"github.com/peridotvault/peridot-core/internal/api/server"
	"github.com/peridotvault/peridot-core/internal/api/shared/executor"
	"github.com/peridotvault/peridot-core/internal/config"
	"github.com/peridotvault/peridot-core/internal/deployment"
	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/emitter"
	"github.com/peridotvault/peridot-core/internal/ledger"
	"github.com/peridotvault/peridot-core/internal/logger"
	"github.com/peridotvault/peridot-core/internal/messaging"
	"github.com/peridotvault/peridot-core/internal/metadata"
	"github.com/peridotvault/peridot-core/internal/projection"
	"github.com/peridotvault/peridot-core/internal/providers/jetstream"
	"github.com/peridotvault/peridot-core/internal/providers/ledgerlog"
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
	cfg, err := config.LoadNodeConfig(*configFile, *envPath)
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
			"service": "peridot-node",
			"chain":   string(cfg.Chain.ChainID),
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Peridot node")

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
	fsAdapter := adapter.NewFileSystem()
	natsJS := adapter.NewNatsJetStream()

	// Start the ledger
	genesis, err := buildGenesis(cfg, clockAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to build genesis", zap.Error(err))
	}
	l := ledger.New(cfg.Chain.ChainID, *genesis, clockAdapter)
	logger.InfoCtx(ctx, "Ledger started",
		zap.String("networkID", string(l.NetworkID())),
		zap.String("genesis", l.GenesisHash().Hex()))

	// Deploy contracts
	opts, err := deploymentOptions(cfg, fsAdapter, jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to read deployment settings", zap.Error(err))
	}
	artifacts := deployment.NewArtifactStore(cfg.Deployment.ArtifactDir, fsAdapter, jsonAdapter)
	sys, artifact, artifactPath, err := deployment.Deploy(ctx, l, clockAdapter, *opts, artifacts)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to deploy contracts", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Contracts deployed",
		zap.String("factory", artifact.Factory),
		zap.String("registry", artifact.Registry),
		zap.String("artifact", artifactPath))

	// Initialize metadata validation
	schemas := metadata.DefaultSchemas()
	if cfg.Metadata.SchemaPath != "" {
		schemas, err = metadata.LoadSchemas(fsAdapter, cfg.Metadata.SchemaPath)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to load metadata schemas", zap.Error(err), zap.String("path", cfg.Metadata.SchemaPath))
		}
	}
	validator, err := metadata.NewValidator(schemas)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to compile metadata schemas", zap.Error(err))
	}
	hasher := metadata.NewHasher(adapter.NewJCS())

	// Initialize the projection pipeline
	dispatcher, stopDispatcher := newWebhookDispatcher(ctx, cfg.Webhook, cfg.Temporal, dataStore, jsonAdapter, clockAdapter)
	defer stopDispatcher()
	projector := projection.NewProjector(dataStore, dispatcher)

	publishers := []messaging.Publisher{projection.ForNetwork(projector, l.NetworkID())}
	if cfg.NATS.Enabled {
		natsPublisher, err := jetstream.NewPublisher(
			ctx,
			jetstream.Config{
				URL:            cfg.NATS.URL,
				StreamName:     cfg.NATS.StreamName,
				SubjectPrefix:  cfg.NATS.SubjectPrefix,
				MaxReconnects:  cfg.NATS.MaxReconnects,
				ReconnectWait:  cfg.NATS.ReconnectWait,
				ConnectionName: cfg.NATS.ConnectionName,
				PublishRetries: cfg.NATS.PublishRetries,
			}, l.NetworkID(), natsJS, jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		publishers = append(publishers, natsPublisher)
		logger.InfoCtx(ctx, "Connected to NATS JetStream", zap.String("stream", cfg.NATS.StreamName))
	}
	publisher := messaging.NewFanout(publishers...)

	eventEmitter := emitter.NewEmitter(
		ledgerlog.NewSubscriber(ledgerlog.Config{BatchSize: cfg.Emitter.BatchSize}, l),
		publisher,
		store.NewCursorStore(db),
		emitter.Config{
			NetworkID:       l.NetworkID(),
			StartBlock:      cfg.Emitter.StartBlock,
			CursorSaveFreq:  cfg.Emitter.CursorSaveFreq,
			CursorSaveDelay: cfg.Emitter.CursorSaveDelay,
		},
		clockAdapter,
	)

	// Publish demo games; the emitter replays them from the cursor
	if cfg.Deployment.SampleGames > 0 {
		samplePublisher := opts.Deployer
		if cfg.Deployment.SamplePublisher != "" {
			samplePublisher = common.HexToAddress(cfg.Deployment.SamplePublisher)
		}
		games, err := deployment.PublishSampleGames(ctx, sys, samplePublisher, cfg.Deployment.SampleGames)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to publish sample games", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Sample games published", zap.Int("count", len(games)))
	}

	// Create API server
	apiServer := server.New(server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		CORSOrigins:  cfg.Server.CORSOrigins,
	}, executor.NewExecutor(l, sys, dataStore, validator, hasher), middleware.AuthConfig{
		JWTPublicKey: cfg.Auth.JWTPublicKey,
		JWTSecret:    cfg.Auth.JWTSecret,
		APIKeys:      cfg.Auth.APIKeys,
	})

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel for component errors
	errCh := make(chan error, 2)

	// Start emitter
	go func() {
		if err := eventEmitter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("emitter: %w", err)
		}
	}()

	// Start server
	go func() {
		if err := apiServer.Start(); err != nil {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()

	logger.InfoCtx(ctx, "Peridot node is running")

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("message", "Peridot node component failed"))
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Error during server shutdown"))
	}

	cancel()
	eventEmitter.Close()
	publisher.Close()

	logger.Info("Peridot node stopped")
}

// buildGenesis prefunds the configured accounts and the deployer
func buildGenesis(cfg *config.NodeConfig, clock adapter.Clock) (*ledger.Genesis, error) {
	alloc, err := cfg.Chain.PrefundWei()
	if err != nil {
		return nil, err
	}
	amount, err := domain.ParseAmount(strings.TrimSpace(cfg.Chain.PrefundAmount))
	if err != nil {
		return nil, err
	}
	for _, account := range []string{cfg.Deployment.Deployer, cfg.Deployment.SamplePublisher} {
		if account == "" {
			continue
		}
		addr := common.HexToAddress(account)
		if _, ok := alloc[addr]; !ok {
			alloc[addr] = new(big.Int).Set(amount)
		}
	}

	genesisTime := clock.Now()
	if cfg.Chain.GenesisTime > 0 {
		genesisTime = time.Unix(cfg.Chain.GenesisTime, 0).UTC()
	}

	salt := []byte(cfg.Chain.Salt)
	if len(salt) == 0 {
		salt = make([]byte, 16)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("failed to generate genesis salt: %w", err)
		}
	}

	return &ledger.Genesis{Time: genesisTime, Alloc: alloc, Extra: salt}, nil
}

// deploymentOptions turns the deployment section into bootstrap options
func deploymentOptions(cfg *config.NodeConfig, fs adapter.FileSystem, json adapter.JSON) (*deployment.Options, error) {
	d := cfg.Deployment
	fee, err := d.PublishFeeWei()
	if err != nil {
		return nil, err
	}

	deployer := common.HexToAddress(d.Deployer)
	treasury := deployer
	if d.TreasuryRouter != "" {
		treasury = common.HexToAddress(d.TreasuryRouter)
	}
	var feeToken common.Address
	if d.FeeToken != "" {
		feeToken = common.HexToAddress(d.FeeToken)
	}

	configured := make([]common.Address, 0, len(d.Publishers)+1)
	for _, p := range d.Publishers {
		configured = append(configured, common.HexToAddress(p))
	}
	if d.SampleGames > 0 {
		if d.SamplePublisher != "" {
			configured = append(configured, common.HexToAddress(d.SamplePublisher))
		} else {
			configured = append(configured, deployer)
		}
	}
	publishers, err := deployment.ResolvePublishers(
		deployment.NewPublisherListLoader(fs, json), cfg.Chain.ChainID, d.PublishersFile, configured)
	if err != nil {
		return nil, err
	}

	tokens := make([]deployment.TokenOptions, 0, len(d.PaymentTokens))
	for _, t := range d.PaymentTokens {
		supply, err := domain.ParseAmount(strings.TrimSpace(t.InitialSupply))
		if err != nil {
			return nil, fmt.Errorf("payment token %s: %w", t.Symbol, err)
		}
		tokens = append(tokens, deployment.TokenOptions{
			Name:          t.Name,
			Symbol:        t.Symbol,
			Decimals:      t.Decimals,
			InitialSupply: supply,
		})
	}

	return &deployment.Options{
		NetworkName:      d.NetworkName,
		Deployer:         deployer,
		TreasuryRouter:   treasury,
		FeeToken:         feeToken,
		PublishFee:       fee,
		PlatformFeeBps:   d.PlatformFeeBps,
		AllowlistEnabled: d.AllowlistEnabled,
		Publishers:       publishers,
		PaymentTokens:    tokens,
	}, nil
}

// newWebhookDispatcher returns the in-process dispatcher, or one backed by a
// Temporal worker when temporal is enabled. The returned func stops the worker.
func newWebhookDispatcher(
	ctx context.Context,
	webhookCfg config.WebhookConfig,
	temporalCfg config.TemporalConfig,
	dataStore store.Store,
	jsonAdapter adapter.JSON,
	clockAdapter adapter.Clock,
) (webhook.Dispatcher, func()) {
	deliveryCfg := webhook.Config{
		Workers:         webhookCfg.Workers,
		QueueSize:       webhookCfg.QueueSize,
		InitialInterval: webhookCfg.InitialInterval,
		MaxInterval:     webhookCfg.MaxInterval,
	}
	httpClient := adapter.NewHTTPClient(webhookCfg.HTTPTimeout)

	if !temporalCfg.Enabled {
		return webhook.NewDispatcher(deliveryCfg, dataStore, httpClient, jsonAdapter, clockAdapter), func() {}
	}

	temporalClient, err := client.Dial(client.Options{
		HostPort:  temporalCfg.HostPort,
		Namespace: temporalCfg.Namespace,
		Logger:    temporal.NewZapLoggerAdapter(logger.Default()),
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Temporal", zap.Error(err), zap.String("host_port", temporalCfg.HostPort))
	}
	logger.InfoCtx(ctx, "Connected to Temporal", zap.String("namespace", temporalCfg.Namespace))

	executor := webhook.NewDeliveryExecutor(dataStore, httpClient, jsonAdapter, clockAdapter, adapter.NewActivity())
	temporalWorker := webhook.NewWorker(temporalClient, temporalCfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize: temporalCfg.MaxConcurrentActivityExecutionSize,
		WorkerActivitiesPerSecond:          temporalCfg.WorkerActivitiesPerSecond,
	}, webhook.NewWorkflows(executor, deliveryCfg), executor)
	if err := temporalWorker.Start(); err != nil {
		logger.FatalCtx(ctx, "Failed to start Temporal worker", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Temporal webhook worker started", zap.String("taskQueue", temporalCfg.TaskQueue))

	dispatcher := webhook.NewTemporalDispatcher(temporalClient, temporalCfg.TaskQueue, clockAdapter)
	return dispatcher, func() {
		temporalWorker.Stop()
		temporalClient.Close()
	}
}
