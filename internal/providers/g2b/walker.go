package g2b

import (
	"context"
	"errors"
	"fmt"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/g2b-insight/g2b-indexer/internal/adapter"
	"github.com/g2b-insight/g2b-indexer/internal/domain"
	"github.com/g2b-insight/g2b-indexer/internal/logger"
	"github.com/g2b-insight/g2b-indexer/internal/metrics"
)

// TaggedItem is a source item labelled with the category of the sub-endpoint it came from
type TaggedItem struct {
	Category domain.Category
	Raw      RawItem
}

// CategoryOutcome summarizes the walk of one sub-endpoint
type CategoryOutcome struct {
	Category  domain.Category
	Endpoint  string
	Pages     int   // pages fetched successfully
	Collected int   // items accumulated
	Declared  int   // totalCount reported by the source
	Truncated bool  // stopped by the page bound before the declared total
	Err       error // fetch failure that ended the walk early, if any
}

// WalkResult is everything a walk over one record kind collected
type WalkResult struct {
	Kind     domain.Kind
	Items    []TaggedItem
	Outcomes []CategoryOutcome
}

// Failures returns the outcomes of sub-endpoints whose walk ended on a fetch failure
func (r *WalkResult) Failures() []CategoryOutcome {
	var failures []CategoryOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failures = append(failures, o)
		}
	}
	return failures
}

// WalkerConfig holds configuration for the category walker
type WalkerConfig struct {
	BaseURL     string
	PageSize    int
	MaxPages    int
	Concurrency int // sub-endpoints walked at once
}

// Walker drives full pagination across the sub-endpoints of a record kind
//
//go:generate mockgen -source=walker.go -destination=../../mocks/g2b_walker.go -package=mocks -mock_names=Walker=MockWalker
type Walker interface {
	// Walk collects every item of the kind within the window.
	// Fetch failures are reported per sub-endpoint in the result; only an unknown kind is an error.
	Walk(ctx context.Context, kind domain.Kind, window domain.DateWindow) (*WalkResult, error)
}

type categoryWalker struct {
	client Client
	clock  adapter.Clock
	config WalkerConfig
}

// NewWalker creates a new category walker
func NewWalker(client Client, clock adapter.Clock, config WalkerConfig) Walker {
	if config.PageSize <= 0 {
		config.PageSize = 100
	}
	if config.MaxPages <= 0 {
		config.MaxPages = 1000
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}

	return &categoryWalker{
		client: client,
		clock:  clock,
		config: config,
	}
}

// Walk collects every item of the kind within the window
func (w *categoryWalker) Walk(ctx context.Context, kind domain.Kind, window domain.DateWindow) (*WalkResult, error) {
	source, err := SourceFor(kind)
	if err != nil {
		return nil, err
	}

	bounds := source.Bounds(window)
	items := make([][]TaggedItem, len(source.SubEndpoints))
	outcomes := make([]CategoryOutcome, len(source.SubEndpoints))

	// Each sub-endpoint is walked by exactly one task, so there is never more
	// than one request in flight per sub-endpoint
	pool := pond.NewPool(w.config.Concurrency)
	for i, sub := range source.SubEndpoints {
		pool.Submit(func() {
			items[i], outcomes[i] = w.walkCategory(ctx, source, sub, PageParams{
				NumOfRows: w.config.PageSize,
				Bounds:    bounds,
			})
		})
	}
	pool.StopAndWait()

	result := &WalkResult{Kind: kind, Outcomes: outcomes}
	for _, categoryItems := range items {
		result.Items = append(result.Items, categoryItems...)
	}

	logger.InfoCtx(ctx, "Category walk finished",
		zap.String("kind", string(kind)),
		zap.String("window", window.String()),
		zap.Int("items", len(result.Items)),
		zap.Int("failed_categories", len(result.Failures())),
	)

	return result, nil
}

// walkCategory pages through one sub-endpoint until the declared total is reached,
// a page comes back empty, a fetch fails or the page bound is hit
func (w *categoryWalker) walkCategory(ctx context.Context, source Source, sub SubEndpoint, params PageParams) ([]TaggedItem, CategoryOutcome) {
	endpoint := source.URL(w.config.BaseURL, sub)
	outcome := CategoryOutcome{Category: sub.Category, Endpoint: endpoint}
	kindLabel := string(source.Kind)
	categoryLabel := string(sub.Category)

	var items []TaggedItem
	for pageNo := 1; pageNo <= w.config.MaxPages; pageNo++ {
		if err := ctx.Err(); err != nil {
			outcome.Err = fmt.Errorf("walk interrupted: %w", err)
			return items, outcome
		}

		params.PageNo = pageNo
		start := w.clock.Now()
		page, err := w.client.FetchPage(ctx, endpoint, params)
		metrics.FetchDuration.WithLabelValues(kindLabel).Observe(w.clock.Since(start).Seconds())

		if err != nil {
			metrics.FetchRequestsTotal.WithLabelValues(kindLabel, categoryLabel, failureLabel(err)).Inc()
			logger.WarnCtx(ctx, "Category walk stopped early",
				zap.String("kind", kindLabel),
				zap.String("category", categoryLabel),
				zap.Int("page_no", pageNo),
				zap.Int("collected", outcome.Collected),
				zap.Error(err),
			)
			outcome.Err = err
			return items, outcome
		}
		metrics.FetchRequestsTotal.WithLabelValues(kindLabel, categoryLabel, "ok").Inc()

		outcome.Pages++
		outcome.Declared = page.TotalCount
		if len(page.Items) == 0 {
			return items, outcome
		}

		for _, raw := range page.Items {
			items = append(items, TaggedItem{Category: sub.Category, Raw: raw})
		}
		outcome.Collected += len(page.Items)

		if outcome.Collected >= page.TotalCount {
			return items, outcome
		}
	}

	outcome.Truncated = true
	logger.WarnCtx(ctx, "Category walk reached the page bound",
		zap.String("kind", kindLabel),
		zap.String("category", categoryLabel),
		zap.Int("max_pages", w.config.MaxPages),
		zap.Int("collected", outcome.Collected),
		zap.Int("declared", outcome.Declared),
	)
	return items, outcome
}

func failureLabel(err error) string {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return string(fetchErr.Kind)
	}
	return "unknown"
}
