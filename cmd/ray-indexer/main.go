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

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ray-indexer/internal/adapter"
	"github.com/feral-file/ray-indexer/internal/config"
	"github.com/feral-file/ray-indexer/internal/indexer"
	"github.com/feral-file/ray-indexer/internal/logger"
	"github.com/feral-file/ray-indexer/internal/providers/ethereum"
	"github.com/feral-file/ray-indexer/internal/providers/jetstream"
	"github.com/feral-file/ray-indexer/internal/reconciler"
	"github.com/feral-file/ray-indexer/internal/registry"
	"github.com/feral-file/ray-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadRayIndexerConfig(*configFile, *envPath)
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
		Service:         "ray-indexer",
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting RAY Indexer")

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	fsAdapter := adapter.NewFileSystem()
	natsJS := adapter.NewNatsJetStream()

	// Initialize store
	dataStore := openStore(ctx, cfg, jsonAdapter)

	// Initialize ethereum client
	ethDialer := adapter.NewEthClientDialer()
	ethClient, err := ethDialer.Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Ethereum RPC", zap.Error(err), zap.String("rpc_url", cfg.Ethereum.RPCURL))
	}
	defer ethClient.Close()
	metadataReader := ethereum.NewTokenMetadataReader(ethClient)

	// Load portfolio registry
	portfolios := registry.DefaultPortfolioRegistry()
	if cfg.PortfolioRegistryPath != "" {
		loader := registry.NewPortfolioRegistryLoader(fsAdapter, jsonAdapter)
		portfolios, err = loader.Load(cfg.PortfolioRegistryPath)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to load portfolio registry", zap.Error(err), zap.String("path", cfg.PortfolioRegistryPath))
		}
		logger.InfoCtx(ctx, "Loaded portfolio registry", zap.String("path", cfg.PortfolioRegistryPath))
	}

	// Initialize reconciler
	rec, err := reconciler.New(cfg.Reconciler, dataStore, portfolios, metadataReader, jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create reconciler", zap.Error(err))
	}

	// Initialize decoder
	contracts := make([]common.Address, 0, len(cfg.Ethereum.PortfolioManagerAddresses))
	for _, addr := range cfg.Ethereum.PortfolioManagerAddresses {
		if !common.IsHexAddress(addr) {
			logger.FatalCtx(ctx, "Invalid portfolio manager address", zap.String("address", addr))
		}
		contracts = append(contracts, common.HexToAddress(addr))
	}
	decoder := ethereum.NewDecoder(contracts, clockAdapter)

	// Initialize NATS subscriber
	natsSubscriber, err := jetstream.NewSubscriber(
		jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			ConsumerName:   cfg.NATS.ConsumerName,
			FilterSubject:  cfg.NATS.FilterSubject,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
			AckWaitTimeout: cfg.NATS.AckWait,
			MaxDeliver:     cfg.NATS.MaxDeliver,
		}, natsJS, jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create NATS subscriber", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	logger.InfoCtx(ctx, "Connected to NATS JetStream")

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	rayIndexer := indexer.NewIndexer(
		natsSubscriber,
		decoder,
		rec,
		store.NewCursorStore(dataStore),
		indexer.Config{
			CursorName:           cfg.Indexer.CursorName,
			StartBlock:           cfg.Indexer.StartBlock,
			CursorSaveFreq:       cfg.Indexer.CursorSaveFreq,
			CursorSaveDelay:      cfg.Indexer.CursorSaveDelay,
			RetryInitialInterval: cfg.Indexer.RetryInitialInterval,
			RetryMaxInterval:     cfg.Indexer.RetryMaxInterval,
			RetryMaxElapsedTime:  cfg.Indexer.RetryMaxElapsedTime,
		},
		clockAdapter,
	)
	defer rayIndexer.Close()

	// Channel for indexer errors
	errCh := make(chan error, 1)

	// Start the indexer
	go func() {
		if err := rayIndexer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "indexer"))
		cancel()
	}

	// Give some time for graceful shutdown
	time.Sleep(time.Second)

	// Use non-context logger for final shutdown message since context is already canceled
	logger.Info("RAY Indexer stopped")
}

// openStore opens the configured entity store
func openStore(ctx context.Context, cfg *config.RayIndexerConfig, jsonAdapter adapter.JSON) store.Store {
	if cfg.Store.Driver == config.StoreDriverMemory {
		logger.WarnCtx(ctx, "Using in-memory store, entities are lost on restart")
		return store.NewMemoryStore(jsonAdapter)
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	if cfg.Database.ReadHost != "" {
		if err := store.UseReadReplica(db, postgres.Open(cfg.Database.ReadDSN())); err != nil {
			logger.FatalCtx(ctx, "Failed to configure read replica", zap.Error(err), zap.String("read_host", cfg.Database.ReadHost))
		}
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	return store.NewPGStore(db)
}
