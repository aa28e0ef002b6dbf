package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/g2b-insight/g2b-indexer/internal/ingest"
	"github.com/g2b-insight/g2b-indexer/internal/logger"
)

// IngestSchedulerConfig holds configuration for the periodic ingestion trigger
type IngestSchedulerConfig struct {
	Interval   time.Duration // time between two scheduled runs
	DaysBack   int           // window size of every scheduled run
	RunOnStart bool          // trigger one run as soon as the scheduler starts
}

// ingestScheduler implements the Scheduler interface on top of a cron runner
type ingestScheduler struct {
	config       *IngestSchedulerConfig
	orchestrator ingest.Orchestrator
	cron         *cron.Cron
	running      atomic.Bool
	stopChan     chan struct{}
	stoppedCh    chan struct{}
}

// NewIngestScheduler creates a new periodic ingestion trigger.
// Ticks that fire while a run is still going are skipped.
func NewIngestScheduler(config *IngestSchedulerConfig, orchestrator ingest.Orchestrator) Scheduler {
	cronLogger := NewZapLoggerAdapter(logger.Default())

	return &ingestScheduler{
		config:       config,
		orchestrator: orchestrator,
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(
				cron.Recover(cronLogger),
				cron.SkipIfStillRunning(cronLogger),
			),
		),
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the scheduler's name
func (s *ingestScheduler) Name() string {
	return "ingest-scheduler"
}

// Start registers the periodic job and blocks until the context is canceled or Stop is called
func (s *ingestScheduler) Start(ctx context.Context) error {
	if s.config.Interval <= 0 {
		return fmt.Errorf("invalid schedule interval: %s", s.config.Interval)
	}
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("scheduler already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh) // Signal that we've stopped
	}()

	id, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.config.Interval), func() {
		s.trigger(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to register ingestion job: %w", err)
	}

	logger.InfoCtx(ctx, "Starting ingestion scheduler",
		zap.Duration("interval", s.config.Interval),
		zap.Int("days_back", s.config.DaysBack),
		zap.Bool("run_on_start", s.config.RunOnStart),
	)

	s.cron.Start()

	if s.config.RunOnStart {
		// The wrapped job shares the skip chain with the periodic ticks
		s.cron.Entry(id).WrappedJob.Run()
	}

	select {
	case <-ctx.Done():
		logger.InfoCtx(ctx, "Ingestion scheduler stopping due to context cancellation", zap.Error(ctx.Err()))
	case <-s.stopChan:
		logger.InfoCtx(ctx, "Ingestion scheduler stop requested")
	}

	// Wait for the job in progress
	<-s.cron.Stop().Done()
	return nil
}

// Stop gracefully stops the scheduler with timeout support
func (s *ingestScheduler) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	logger.InfoCtx(ctx, "Stopping ingestion scheduler")

	// Signal stop to the main loop
	close(s.stopChan)

	// Wait for main loop to exit, but respect context cancellation
	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Ingestion scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Ingestion scheduler stop interrupted by context timeout")
		return ctx.Err()
	}
}

// trigger runs one scheduled ingestion. A manual run holding the guard makes the tick a no-op.
func (s *ingestScheduler) trigger(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	report, err := s.orchestrator.Run(ctx, ingest.TriggerSchedule, s.config.DaysBack)
	if err != nil {
		if ingest.IsRunInProgress(err) {
			logger.InfoCtx(ctx, "Scheduled run skipped, another run is in progress")
			return
		}
		logger.ErrorCtx(ctx, fmt.Errorf("scheduled run failed: %w", err))
		return
	}

	logger.InfoCtx(ctx, "Scheduled run finished",
		zap.String("run_id", report.RunID),
		zap.String("status", report.Status()),
	)
}
