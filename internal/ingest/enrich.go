package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/g2b-insight/g2b-indexer/internal/domain"
	"github.com/g2b-insight/g2b-indexer/internal/enrichment"
	"github.com/g2b-insight/g2b-indexer/internal/logger"
	"github.com/g2b-insight/g2b-indexer/internal/store"
	"github.com/g2b-insight/g2b-indexer/internal/store/schema"
)

// EnricherConfig holds configuration for the enrichment post-pass
type EnricherConfig struct {
	BatchSize    int // notices enriched per pass
	HistoryLimit int // awards sampled per agency
}

// Enricher annotates notices that have not been enriched yet
//
//go:generate mockgen -source=enrich.go -destination=../mocks/ingest_enricher.go -package=mocks -mock_names=Enricher=MockEnricher
type Enricher interface {
	// Enrich runs one pass over up to limit unenriched notices; limit <= 0 uses the configured batch size
	Enrich(ctx context.Context, limit int) (*EnrichmentReport, error)
}

type noticeEnricher struct {
	store    store.Store
	engine   Engine
	analyzer enrichment.Analyzer
	config   EnricherConfig
}

// NewEnricher creates a new enrichment post-pass
func NewEnricher(st store.Store, engine Engine, analyzer enrichment.Analyzer, config EnricherConfig) Enricher {
	if config.BatchSize <= 0 {
		config.BatchSize = 500
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = 50
	}

	return &noticeEnricher{
		store:    st,
		engine:   engine,
		analyzer: analyzer,
		config:   config,
	}
}

// Enrich analyzes unenriched notices and writes the results back through the engine
func (e *noticeEnricher) Enrich(ctx context.Context, limit int) (*EnrichmentReport, error) {
	if limit <= 0 {
		limit = e.config.BatchSize
	}

	notices, err := e.store.GetUnenrichedNotices(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select unenriched notices: %w", err)
	}

	report := &EnrichmentReport{Selected: len(notices)}
	if len(notices) == 0 {
		logger.InfoCtx(ctx, "No notices to enrich")
		return report, nil
	}

	// Award history is shared by every notice of the same agency
	history := make(map[string][]domain.AwardSample)
	enrichments := make([]domain.NoticeEnrichment, 0, len(notices))
	for _, n := range notices {
		if err := ctx.Err(); err != nil {
			break
		}

		samples := e.agencyHistory(ctx, history, n.OrderingAgency)
		result := e.analyzer.Analyze(analysisInput(n), samples)
		enrichments = append(enrichments, domain.NoticeEnrichment{
			NoticeID:         n.ID,
			NoticeKey:        fmt.Sprintf("%s-%s", n.NoticeNumber, n.NoticeOrder),
			Category:         result.Category,
			Tags:             result.Tags,
			CompetitionLevel: result.CompetitionLevel,
		})
	}

	batch := e.engine.ApplyEnrichment(ctx, enrichments)
	report.Enriched = batch.Succeeded
	report.Failed = len(batch.Failures)
	report.Failures = batch.Failures

	logger.InfoCtx(ctx, "Enrichment pass finished",
		zap.Int("selected", report.Selected),
		zap.Int("enriched", report.Enriched),
		zap.Int("failed", report.Failed),
	)

	return report, nil
}

// agencyHistory returns the award samples of an agency, loading them once per pass.
// A lookup failure degrades to an analysis without history.
func (e *noticeEnricher) agencyHistory(ctx context.Context, cache map[string][]domain.AwardSample, agency *string) []domain.AwardSample {
	if agency == nil || *agency == "" {
		return nil
	}
	if samples, ok := cache[*agency]; ok {
		return samples
	}

	samples, err := e.store.GetAwardSamplesByAgency(ctx, *agency, e.config.HistoryLimit)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to load award history", zap.String("agency", *agency), zap.Error(err))
		samples = nil
	}
	cache[*agency] = samples
	return samples
}

func analysisInput(n *schema.Notice) enrichment.Input {
	in := enrichment.Input{
		BudgetAmount: n.BudgetAmount,
		NoticeType:   domain.Category(n.NoticeType),
		NoticeDate:   n.NoticeDate,
		BidCloseDate: n.BidCloseDate,
	}
	if n.Title != nil {
		in.Title = *n.Title
	}
	return in
}
