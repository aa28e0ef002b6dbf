package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/g2b-insight/g2b-indexer/internal/domain"
	"github.com/g2b-insight/g2b-indexer/internal/logger"
	"github.com/g2b-insight/g2b-indexer/internal/metrics"
	"github.com/g2b-insight/g2b-indexer/internal/store"
)

// ENRICHMENT_BATCH_KIND labels the batch result of an enrichment write-back
const ENRICHMENT_BATCH_KIND domain.Kind = "notice_enrichment"

// Engine is the only writer path into the store
//
//go:generate mockgen -source=engine.go -destination=../mocks/ingest_engine.go -package=mocks -mock_names=Engine=MockEngine
type Engine interface {
	// Upsert merges records of one kind into the store by natural key.
	// Each record is written on its own; a failed record is reported and skipped.
	Upsert(ctx context.Context, kind domain.Kind, records []domain.Record) BatchResult

	// ApplyEnrichment writes derived annotations back onto stored notices, one notice at a time
	ApplyEnrichment(ctx context.Context, enrichments []domain.NoticeEnrichment) BatchResult
}

type upsertEngine struct {
	store store.Store
}

// NewEngine creates a new upsert engine
func NewEngine(st store.Store) Engine {
	return &upsertEngine{store: st}
}

// Upsert merges records of one kind into the store by natural key
func (e *upsertEngine) Upsert(ctx context.Context, kind domain.Kind, records []domain.Record) BatchResult {
	result := upsertBatch(ctx, kind, records,
		func(r domain.Record) string { return r.NaturalKey() },
		func(ctx context.Context, r domain.Record) error { return e.write(ctx, kind, r) },
	)

	metrics.RecordsStoredTotal.WithLabelValues(string(kind)).Add(float64(result.Succeeded))
	metrics.RecordsFailedTotal.WithLabelValues(string(kind)).Add(float64(len(result.Failures)))

	return result
}

// ApplyEnrichment writes derived annotations back onto stored notices
func (e *upsertEngine) ApplyEnrichment(ctx context.Context, enrichments []domain.NoticeEnrichment) BatchResult {
	result := upsertBatch(ctx, ENRICHMENT_BATCH_KIND, enrichments,
		func(en domain.NoticeEnrichment) string { return en.NoticeKey },
		e.store.UpdateNoticeEnrichment,
	)

	metrics.EnrichmentRecordsTotal.WithLabelValues("enriched").Add(float64(result.Succeeded))
	metrics.EnrichmentRecordsTotal.WithLabelValues("failed").Add(float64(len(result.Failures)))

	return result
}

// write validates one record and dispatches it to the store
func (e *upsertEngine) write(ctx context.Context, kind domain.Kind, record domain.Record) error {
	if record.Kind() != kind {
		return fmt.Errorf("record of kind %s in a %s batch", record.Kind(), kind)
	}
	if err := record.Validate(); err != nil {
		return err
	}

	switch r := record.(type) {
	case *domain.Notice:
		return e.store.UpsertNotice(ctx, r)
	case *domain.Award:
		return e.store.UpsertAward(ctx, r)
	case *domain.OrderPlan:
		return e.store.UpsertOrderPlan(ctx, r)
	case *domain.Contract:
		return e.store.UpsertContract(ctx, r)
	default:
		return fmt.Errorf("%w: %T", domain.ErrUnknownKind, record)
	}
}

// upsertBatch writes items one by one with per-item failure isolation.
// Cancellation is checked between items. The write in flight always runs to
// completion on a context that ignores cancellation.
func upsertBatch[T any](
	ctx context.Context,
	kind domain.Kind,
	items []T,
	key func(T) string,
	write func(context.Context, T) error,
) BatchResult {
	result := BatchResult{Kind: kind}
	writeCtx := context.WithoutCancel(ctx)

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			logger.WarnCtx(ctx, "Batch interrupted",
				zap.String("kind", string(kind)),
				zap.Int("written", i),
				zap.Int("remaining", len(items)-i),
				zap.Error(err),
			)
			break
		}

		result.Attempted++
		if err := write(writeCtx, item); err != nil {
			k := key(item)
			result.Failures = append(result.Failures, RecordFailure{Key: k, Reason: err.Error()})
			logger.WarnCtx(ctx, "Failed to write record",
				zap.String("kind", string(kind)),
				zap.String("key", k),
				zap.Error(err),
			)
			continue
		}
		result.Succeeded++
	}

	logger.InfoCtx(ctx, "Batch written",
		zap.String("kind", string(kind)),
		zap.Int("attempted", result.Attempted),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", len(result.Failures)),
	)

	return result
}
