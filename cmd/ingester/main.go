package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/g2b-insight/g2b-indexer/internal/adapter"
	"github.com/g2b-insight/g2b-indexer/internal/api/server"
	"github.com/g2b-insight/g2b-indexer/internal/config"
	"github.com/g2b-insight/g2b-indexer/internal/enrichment"
	"github.com/g2b-insight/g2b-indexer/internal/ingest"
	"github.com/g2b-insight/g2b-indexer/internal/logger"
	"github.com/g2b-insight/g2b-indexer/internal/providers/g2b"
	"github.com/g2b-insight/g2b-indexer/internal/ratelimit"
	"github.com/g2b-insight/g2b-indexer/internal/scheduler"
	"github.com/g2b-insight/g2b-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadIngesterConfig(*configFile, *envPath)
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
			"service": "ingester",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting G2B Ingester")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clock := adapter.NewClock()
	httpClient := adapter.NewHTTPClient(cfg.G2B.HTTPTimeout, cfg.G2B.RetryMaxElapsed)
	limiter := ratelimit.NewLimiter(cfg.G2B.RequestsPerSecond, cfg.G2B.Burst)

	// Initialize the source client and the category walker
	client := g2b.NewClient(httpClient, limiter, clock, cfg.G2B.ServiceKey)
	walker := g2b.NewWalker(client, clock, g2b.WalkerConfig{
		BaseURL:     cfg.G2B.BaseURL,
		PageSize:    cfg.G2B.PageSize,
		MaxPages:    cfg.G2B.MaxPages,
		Concurrency: cfg.G2B.CategoryConcurrency,
	})

	// Initialize the upsert engine and the enrichment post-pass
	engine := ingest.NewEngine(dataStore)
	var enricher ingest.Enricher
	if cfg.Enrichment.Enabled {
		enricher = ingest.NewEnricher(dataStore, engine, enrichment.NewAnalyzer(nil), ingest.EnricherConfig{
			BatchSize:    cfg.Enrichment.BatchSize,
			HistoryLimit: cfg.Enrichment.HistoryLimit,
		})
	} else {
		logger.WarnCtx(ctx, "Enrichment is disabled, notices will stay unenriched")
	}

	orchestrator := ingest.NewOrchestrator(walker, engine, enricher, dataStore, clock)

	// Initialize the periodic trigger
	ingestScheduler := scheduler.NewIngestScheduler(&scheduler.IngestSchedulerConfig{
		Interval:   cfg.Schedule.Interval,
		DaysBack:   cfg.Schedule.DaysBack,
		RunOnStart: cfg.Schedule.RunOnStart,
	}, orchestrator)

	// Initialize the manual trigger server
	srv := server.New(ctx, server.Config{
		Debug:           cfg.Debug,
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:    time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:     time.Duration(cfg.Server.IdleTimeout) * time.Second,
		DefaultDaysBack: cfg.Schedule.DaysBack,
	}, orchestrator)

	// Start the scheduler and the server
	errCh := make(chan error, 2)
	go func() {
		if err := ingestScheduler.Start(ctx); err != nil {
			errCh <- fmt.Errorf("%s: %w", ingestScheduler.Name(), err)
		}
	}()
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err)
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Cancel context so a running ingestion, scheduled or manual, stops between records
	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}

	if err := ingestScheduler.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("Ingester stopped")
}
