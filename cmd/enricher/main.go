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

	"github.com/g2b-insight/g2b-indexer/internal/config"
	"github.com/g2b-insight/g2b-indexer/internal/enrichment"
	"github.com/g2b-insight/g2b-indexer/internal/ingest"
	"github.com/g2b-insight/g2b-indexer/internal/logger"
	"github.com/g2b-insight/g2b-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	limit      = flag.Int("limit", 0, "Maximum number of notices to enrich (0 uses enrichment.batch_size)")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadEnricherConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Stop between notices on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "enricher",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting G2B Enricher", zap.Int("limit", *limit))

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}

	dataStore := store.NewPGStore(db)
	engine := ingest.NewEngine(dataStore)
	enricher := ingest.NewEnricher(dataStore, engine, enrichment.NewAnalyzer(nil), ingest.EnricherConfig{
		BatchSize:    cfg.Enrichment.BatchSize,
		HistoryLimit: cfg.Enrichment.HistoryLimit,
	})

	report, err := enricher.Enrich(ctx, *limit)
	if err != nil {
		logger.FatalCtx(ctx, "Enrichment failed", zap.Error(err))
	}

	logger.InfoCtx(ctx, "Enricher finished",
		zap.Int("selected", report.Selected),
		zap.Int("enriched", report.Enriched),
		zap.Int("failed", report.Failed),
	)
}
