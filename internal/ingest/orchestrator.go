package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/g2b-insight/g2b-indexer/internal/adapter"
	"github.com/g2b-insight/g2b-indexer/internal/domain"
	"github.com/g2b-insight/g2b-indexer/internal/logger"
	"github.com/g2b-insight/g2b-indexer/internal/metrics"
	"github.com/g2b-insight/g2b-indexer/internal/providers/g2b"
	"github.com/g2b-insight/g2b-indexer/internal/store"
)

// Orchestrator runs one ingestion: notices, awards, order plans and contracts in that
// order, followed by the enrichment post-pass
//
//go:generate mockgen -source=orchestrator.go -destination=../mocks/ingest_orchestrator.go -package=mocks -mock_names=Orchestrator=MockOrchestrator
type Orchestrator interface {
	// Run executes one ingestion over the last daysBack days.
	// Stage failures are captured in the report; the error is reserved for runs that never started.
	Run(ctx context.Context, trigger Trigger, daysBack int) (*RunReport, error)

	// LastReport returns the report of the latest finished run, nil before the first run
	LastReport(ctx context.Context) (*RunReport, error)

	// Running reports whether a run currently holds the guard
	Running() bool
}

type orchestrator struct {
	running  atomic.Bool
	walker   g2b.Walker
	engine   Engine
	enricher Enricher
	store    store.Store
	clock    adapter.Clock
}

// NewOrchestrator creates a new orchestrator. A nil enricher skips the enrichment post-pass.
func NewOrchestrator(walker g2b.Walker, engine Engine, enricher Enricher, st store.Store, clock adapter.Clock) Orchestrator {
	return &orchestrator{
		walker:   walker,
		engine:   engine,
		enricher: enricher,
		store:    st,
		clock:    clock,
	}
}

// Running reports whether a run currently holds the guard
func (o *orchestrator) Running() bool {
	return o.running.Load()
}

// Run executes one ingestion over the last daysBack days
func (o *orchestrator) Run(ctx context.Context, trigger Trigger, daysBack int) (*RunReport, error) {
	if daysBack < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidDaysBack, daysBack)
	}

	if !o.running.CompareAndSwap(false, true) {
		return nil, domain.ErrRunInProgress
	}
	defer o.running.Store(false)

	metrics.RunInProgress.Set(1)
	defer metrics.RunInProgress.Set(0)

	startedAt := o.clock.Now()
	window, err := domain.NewDateWindow(startedAt, daysBack)
	if err != nil {
		return nil, err
	}

	report := &RunReport{
		RunID:     ulid.MustNewDefault(startedAt).String(),
		Trigger:   trigger,
		DaysBack:  daysBack,
		Window:    window.String(),
		StartedAt: startedAt,
	}
	ctx = logger.WithRunID(ctx, report.RunID)

	logger.InfoCtx(ctx, "Ingestion run started",
		zap.String("trigger", string(trigger)),
		zap.String("window", report.Window),
	)

	for _, kind := range domain.Kinds {
		report.Stages = append(report.Stages, o.runStage(ctx, kind, window))
	}

	if o.enricher != nil {
		report.Enrichment = o.runEnrichment(ctx)
	}

	report.FinishedAt = o.clock.Now()
	report.DurationSeconds = report.FinishedAt.Sub(startedAt).Seconds()

	status := report.Status()
	metrics.RunsTotal.WithLabelValues(string(trigger), status).Inc()
	metrics.RunDuration.Observe(report.DurationSeconds)

	o.persist(ctx, report)

	fetched, stored, failed := report.Totals()
	logger.InfoCtx(ctx, "Ingestion run finished",
		zap.String("status", status),
		zap.String("summary", report.Summary()),
		zap.Int("fetched", fetched),
		zap.Int("stored", stored),
		zap.Int("failed", failed),
		zap.Float64("duration_seconds", report.DurationSeconds),
	)

	return report, nil
}

// runStage fetches and stores one record kind. Errors and panics end the stage, not the run.
func (o *orchestrator) runStage(ctx context.Context, kind domain.Kind, window domain.DateWindow) (stage StageReport) {
	stage.Kind = kind
	start := o.clock.Now()

	defer func() {
		if r := recover(); r != nil {
			stage.Error = fmt.Sprintf("panic: %v", r)
			logger.ErrorCtx(ctx, fmt.Errorf("stage %s panicked: %v", kind, r))
		}
		stage.DurationSeconds = o.clock.Since(start).Seconds()
	}()

	if err := ctx.Err(); err != nil {
		stage.Error = err.Error()
		return stage
	}

	result, err := o.walker.Walk(ctx, kind, window)
	if err != nil {
		stage.Error = err.Error()
		logger.ErrorCtx(ctx, fmt.Errorf("failed to walk %s: %w", kind, err))
		return stage
	}

	stage.Fetched = len(result.Items)
	metrics.RecordsFetchedTotal.WithLabelValues(string(kind)).Add(float64(stage.Fetched))

	for _, outcome := range result.Outcomes {
		if outcome.Err != nil {
			stage.CategoryFailures = append(stage.CategoryFailures, CategoryFailure{
				Category: outcome.Category,
				Error:    outcome.Err.Error(),
			})
		}
		if outcome.Truncated {
			stage.Truncated = append(stage.Truncated, outcome.Category)
		}
	}

	records, err := g2b.Normalize(kind, result.Items)
	if err != nil {
		stage.Error = err.Error()
		logger.ErrorCtx(ctx, fmt.Errorf("failed to normalize %s: %w", kind, err))
		return stage
	}

	batch := o.engine.Upsert(ctx, kind, records)
	stage.Stored = batch.Succeeded
	stage.Failed = len(batch.Failures)
	stage.RecordFailures = batch.Failures

	logger.InfoCtx(ctx, "Stage finished",
		zap.String("kind", string(kind)),
		zap.Int("fetched", stage.Fetched),
		zap.Int("stored", stage.Stored),
		zap.Int("failed", stage.Failed),
		zap.Int("failed_categories", len(stage.CategoryFailures)),
	)

	return stage
}

// runEnrichment runs the post-pass. Its failure never fails the run.
func (o *orchestrator) runEnrichment(ctx context.Context) (report *EnrichmentReport) {
	defer func() {
		if r := recover(); r != nil {
			report = &EnrichmentReport{Error: fmt.Sprintf("panic: %v", r)}
			logger.ErrorCtx(ctx, fmt.Errorf("enrichment panicked: %v", r))
		}
	}()

	report, err := o.enricher.Enrich(ctx, 0)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("enrichment failed: %w", err))
		return &EnrichmentReport{Error: err.Error()}
	}
	return report
}

// persist stores the report as the last run, on a context that survives shutdown
func (o *orchestrator) persist(ctx context.Context, report *RunReport) {
	data, err := json.Marshal(report)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to marshal run report: %w", err))
		return
	}

	if err := o.store.SetKeyValue(context.WithoutCancel(ctx), domain.LAST_RUN_KEY, string(data)); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to persist run report: %w", err))
	}
}

// LastReport returns the report of the latest finished run
func (o *orchestrator) LastReport(ctx context.Context) (*RunReport, error) {
	value, err := o.store.GetKeyValue(ctx, domain.LAST_RUN_KEY)
	if err != nil {
		return nil, fmt.Errorf("failed to load last run report: %w", err)
	}
	if value == "" {
		return nil, nil
	}

	var report RunReport
	if err := json.Unmarshal([]byte(value), &report); err != nil {
		return nil, fmt.Errorf("failed to decode last run report: %w", err)
	}
	return &report, nil
}

// IsRunInProgress reports whether err means another run held the guard
func IsRunInProgress(err error) bool {
	return errors.Is(err, domain.ErrRunInProgress)
}
