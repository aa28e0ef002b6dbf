package ingest_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g2b-insight/g2b-indexer/internal/domain"
	"github.com/g2b-insight/g2b-indexer/internal/ingest"
	"github.com/g2b-insight/g2b-indexer/internal/mocks"
	"github.com/g2b-insight/g2b-indexer/internal/providers/g2b"
)

var testNow = time.Date(2024, 3, 3, 3, 0, 0, 0, time.UTC)

type orchestratorMocks struct {
	walker   *mocks.MockWalker
	engine   *mocks.MockEngine
	enricher *mocks.MockEnricher
	store    *mocks.MockStore
	clock    *mocks.MockClock
}

func setupOrchestrator(t *testing.T) (*orchestratorMocks, ingest.Orchestrator) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := &orchestratorMocks{
		walker:   mocks.NewMockWalker(ctrl),
		engine:   mocks.NewMockEngine(ctrl),
		enricher: mocks.NewMockEnricher(ctrl),
		store:    mocks.NewMockStore(ctrl),
		clock:    mocks.NewMockClock(ctrl),
	}
	m.clock.EXPECT().Now().Return(testNow).AnyTimes()
	m.clock.EXPECT().Since(gomock.Any()).Return(time.Second).AnyTimes()

	return m, ingest.NewOrchestrator(m.walker, m.engine, m.enricher, m.store, m.clock)
}

// walkResult builds a result with n items per category of the kind
func walkResult(kind domain.Kind, field string, n int) *g2b.WalkResult {
	result := &g2b.WalkResult{Kind: kind}
	for _, category := range domain.Categories {
		for i := 0; i < n; i++ {
			result.Items = append(result.Items, g2b.TaggedItem{
				Category: category,
				Raw:      g2b.RawItem{field: fmt.Sprintf("%s-%s-%d", kind, category, i)},
			})
		}
		result.Outcomes = append(result.Outcomes, g2b.CategoryOutcome{
			Category:  category,
			Pages:     1,
			Collected: n,
			Declared:  n,
		})
	}
	return result
}

func succeed(_ context.Context, kind domain.Kind, records []domain.Record) ingest.BatchResult {
	return ingest.BatchResult{Kind: kind, Attempted: len(records), Succeeded: len(records)}
}

func TestOrchestrator_Run(t *testing.T) {
	m, orchestrator := setupOrchestrator(t)
	ctx := context.Background()

	notices := walkResult(domain.KindNotice, "bidNtceNo", 2)
	notices.Outcomes[1].Err = &g2b.FetchError{Kind: g2b.FailureTimeout, URL: "getBidPblancListInfoServc"}

	awards := walkResult(domain.KindAward, "bidNtceNo", 1)
	awards.Outcomes[2].Truncated = true

	contracts := walkResult(domain.KindContract, "untyCntrctNo", 3)

	var stages []domain.Kind
	gomock.InOrder(
		m.walker.EXPECT().Walk(gomock.Any(), domain.KindNotice, gomock.Any()).Return(notices, nil),
		m.walker.EXPECT().Walk(gomock.Any(), domain.KindAward, gomock.Any()).Return(awards, nil),
		m.walker.EXPECT().Walk(gomock.Any(), domain.KindOrderPlan, gomock.Any()).
			DoAndReturn(func(context.Context, domain.Kind, domain.DateWindow) (*g2b.WalkResult, error) {
				panic("nil map")
			}),
		m.walker.EXPECT().Walk(gomock.Any(), domain.KindContract, gomock.Any()).Return(contracts, nil),
	)

	m.engine.EXPECT().
		Upsert(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, kind domain.Kind, records []domain.Record) ingest.BatchResult {
			stages = append(stages, kind)
			if kind == domain.KindContract {
				return ingest.BatchResult{
					Kind:      kind,
					Attempted: len(records),
					Succeeded: len(records) - 1,
					Failures:  []ingest.RecordFailure{{Key: "contract-용역-0/용역", Reason: "duplicate key"}},
				}
			}
			return succeed(ctx, kind, records)
		}).
		Times(3)

	m.enricher.EXPECT().Enrich(gomock.Any(), 0).Return(&ingest.EnrichmentReport{Selected: 6, Enriched: 6}, nil)

	var persisted string
	m.store.EXPECT().
		SetKeyValue(gomock.Any(), domain.LAST_RUN_KEY, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value string) error {
			persisted = value
			return nil
		})

	report, err := orchestrator.Run(ctx, ingest.TriggerManual, 2)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, []domain.Kind{domain.KindNotice, domain.KindAward, domain.KindContract}, stages)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, ingest.TriggerManual, report.Trigger)
	assert.Equal(t, "20240301-20240303", report.Window)
	require.Len(t, report.Stages, 4)

	noticeStage := report.Stages[0]
	assert.Equal(t, domain.KindNotice, noticeStage.Kind)
	assert.Equal(t, 6, noticeStage.Fetched)
	assert.Equal(t, 6, noticeStage.Stored)
	require.Len(t, noticeStage.CategoryFailures, 1)
	assert.Equal(t, domain.CategoryService, noticeStage.CategoryFailures[0].Category)
	assert.False(t, noticeStage.Healthy())

	awardStage := report.Stages[1]
	assert.Equal(t, []domain.Category{domain.CategoryGoods}, awardStage.Truncated)
	assert.True(t, awardStage.Healthy())

	planStage := report.Stages[2]
	assert.Equal(t, domain.KindOrderPlan, planStage.Kind)
	assert.Contains(t, planStage.Error, "panic: nil map")

	contractStage := report.Stages[3]
	assert.Equal(t, 9, contractStage.Fetched)
	assert.Equal(t, 8, contractStage.Stored)
	assert.Equal(t, 1, contractStage.Failed)

	require.NotNil(t, report.Enrichment)
	assert.Equal(t, 6, report.Enrichment.Enriched)

	assert.Equal(t, ingest.RunStatusPartial, report.Status())
	fetched, stored, failed := report.Totals()
	assert.Equal(t, 18, fetched)
	assert.Equal(t, 17, stored)
	assert.Equal(t, 1, failed)

	var saved ingest.RunReport
	require.NoError(t, json.Unmarshal([]byte(persisted), &saved))
	assert.Equal(t, report.RunID, saved.RunID)
	assert.Len(t, saved.Stages, 4)
	assert.False(t, orchestrator.Running())
}

func TestOrchestrator_Run_WindowBounds(t *testing.T) {
	m, orchestrator := setupOrchestrator(t)

	m.walker.EXPECT().
		Walk(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, kind domain.Kind, window domain.DateWindow) (*g2b.WalkResult, error) {
			// 2024-03-03 03:00 UTC is noon in Seoul
			assert.Equal(t, "20240224", window.StartDay())
			assert.Equal(t, "20240303", window.EndDay())
			assert.Equal(t, "202402", window.StartMonth())
			assert.Equal(t, "202403", window.EndMonth())
			return &g2b.WalkResult{Kind: kind}, nil
		}).
		Times(len(domain.Kinds))
	m.engine.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(succeed).Times(len(domain.Kinds))
	m.enricher.EXPECT().Enrich(gomock.Any(), 0).Return(&ingest.EnrichmentReport{}, nil)
	m.store.EXPECT().SetKeyValue(gomock.Any(), domain.LAST_RUN_KEY, gomock.Any()).Return(nil)

	report, err := orchestrator.Run(context.Background(), ingest.TriggerSchedule, 8)
	require.NoError(t, err)
	assert.Equal(t, ingest.RunStatusSuccess, report.Status())
}

func TestOrchestrator_Run_EnrichmentFailureKeepsRun(t *testing.T) {
	m, orchestrator := setupOrchestrator(t)

	m.walker.EXPECT().
		Walk(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, kind domain.Kind, _ domain.DateWindow) (*g2b.WalkResult, error) {
			return &g2b.WalkResult{Kind: kind}, nil
		}).
		Times(len(domain.Kinds))
	m.engine.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(succeed).Times(len(domain.Kinds))
	m.enricher.EXPECT().Enrich(gomock.Any(), 0).Return(nil, errors.New("failed to select unenriched notices"))
	m.store.EXPECT().SetKeyValue(gomock.Any(), domain.LAST_RUN_KEY, gomock.Any()).Return(errors.New("read-only transaction"))

	report, err := orchestrator.Run(context.Background(), ingest.TriggerSchedule, 1)
	require.NoError(t, err)
	require.NotNil(t, report.Enrichment)
	assert.Contains(t, report.Enrichment.Error, "failed to select")
	assert.Equal(t, ingest.RunStatusSuccess, report.Status())
}

func TestOrchestrator_Run_AllStagesFail(t *testing.T) {
	m, orchestrator := setupOrchestrator(t)

	m.walker.EXPECT().
		Walk(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrUnknownKind).
		Times(len(domain.Kinds))
	m.enricher.EXPECT().Enrich(gomock.Any(), 0).Return(&ingest.EnrichmentReport{}, nil)
	m.store.EXPECT().SetKeyValue(gomock.Any(), domain.LAST_RUN_KEY, gomock.Any()).Return(nil)

	report, err := orchestrator.Run(context.Background(), ingest.TriggerSchedule, 1)
	require.NoError(t, err)
	assert.Equal(t, ingest.RunStatusFailed, report.Status())
	for _, stage := range report.Stages {
		assert.Contains(t, stage.Error, domain.ErrUnknownKind.Error())
	}
}

func TestOrchestrator_Run_CanceledMidRunPersistsReport(t *testing.T) {
	m, orchestrator := setupOrchestrator(t)
	ctx, cancel := context.WithCancel(context.Background())

	m.walker.EXPECT().
		Walk(gomock.Any(), domain.KindNotice, gomock.Any()).
		Return(walkResult(domain.KindNotice, "bidNtceNo", 1), nil)
	m.engine.EXPECT().
		Upsert(gomock.Any(), domain.KindNotice, gomock.Any()).
		DoAndReturn(func(ctx context.Context, kind domain.Kind, records []domain.Record) ingest.BatchResult {
			cancel()
			return succeed(ctx, kind, records)
		})
	m.enricher.EXPECT().Enrich(gomock.Any(), 0).Return(nil, context.Canceled)

	var persisted string
	m.store.EXPECT().
		SetKeyValue(gomock.Any(), domain.LAST_RUN_KEY, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, value string) error {
			assert.NoError(t, ctx.Err())
			persisted = value
			return nil
		})

	report, err := orchestrator.Run(ctx, ingest.TriggerManual, 1)
	require.NoError(t, err)
	require.Len(t, report.Stages, len(domain.Kinds))
	assert.Empty(t, report.Stages[0].Error)
	assert.Equal(t, 3, report.Stages[0].Stored)
	for _, stage := range report.Stages[1:] {
		assert.Equal(t, context.Canceled.Error(), stage.Error)
	}
	assert.Equal(t, ingest.RunStatusPartial, report.Status())

	var saved ingest.RunReport
	require.NoError(t, json.Unmarshal([]byte(persisted), &saved))
	assert.Equal(t, report.RunID, saved.RunID)
}

func TestOrchestrator_Run_SingleRunGuard(t *testing.T) {
	m, orchestrator := setupOrchestrator(t)

	entered := make(chan struct{})
	release := make(chan struct{})

	m.walker.EXPECT().
		Walk(gomock.Any(), domain.KindNotice, gomock.Any()).
		DoAndReturn(func(_ context.Context, kind domain.Kind, _ domain.DateWindow) (*g2b.WalkResult, error) {
			close(entered)
			<-release
			return &g2b.WalkResult{Kind: kind}, nil
		})
	m.walker.EXPECT().
		Walk(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, kind domain.Kind, _ domain.DateWindow) (*g2b.WalkResult, error) {
			return &g2b.WalkResult{Kind: kind}, nil
		}).
		Times(len(domain.Kinds) - 1)
	m.engine.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(succeed).Times(len(domain.Kinds))
	m.enricher.EXPECT().Enrich(gomock.Any(), 0).Return(&ingest.EnrichmentReport{}, nil)
	m.store.EXPECT().SetKeyValue(gomock.Any(), domain.LAST_RUN_KEY, gomock.Any()).Return(nil)

	done := make(chan error, 1)
	go func() {
		_, err := orchestrator.Run(context.Background(), ingest.TriggerSchedule, 2)
		done <- err
	}()

	<-entered
	assert.True(t, orchestrator.Running())

	report, err := orchestrator.Run(context.Background(), ingest.TriggerManual, 2)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, domain.ErrRunInProgress))
	assert.True(t, ingest.IsRunInProgress(err))

	close(release)
	require.NoError(t, <-done)
	assert.False(t, orchestrator.Running())
}

func TestOrchestrator_Run_InvalidDaysBack(t *testing.T) {
	_, orchestrator := setupOrchestrator(t)

	report, err := orchestrator.Run(context.Background(), ingest.TriggerManual, -1)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, domain.ErrInvalidDaysBack))
	assert.False(t, orchestrator.Running())
}

func TestOrchestrator_Run_WithoutEnricher(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	walker := mocks.NewMockWalker(ctrl)
	engine := mocks.NewMockEngine(ctrl)
	st := mocks.NewMockStore(ctrl)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(testNow).AnyTimes()
	clock.EXPECT().Since(gomock.Any()).Return(time.Second).AnyTimes()

	walker.EXPECT().
		Walk(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, kind domain.Kind, _ domain.DateWindow) (*g2b.WalkResult, error) {
			return &g2b.WalkResult{Kind: kind}, nil
		}).
		Times(len(domain.Kinds))
	engine.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(succeed).Times(len(domain.Kinds))
	st.EXPECT().SetKeyValue(gomock.Any(), domain.LAST_RUN_KEY, gomock.Any()).Return(nil)

	orchestrator := ingest.NewOrchestrator(walker, engine, nil, st, clock)
	report, err := orchestrator.Run(context.Background(), ingest.TriggerSchedule, 0)
	require.NoError(t, err)
	assert.Nil(t, report.Enrichment)
	assert.Equal(t, "20240303-20240303", report.Window)
}

func TestOrchestrator_LastReport(t *testing.T) {
	m, orchestrator := setupOrchestrator(t)
	ctx := context.Background()

	t.Run("no run yet", func(t *testing.T) {
		m.store.EXPECT().GetKeyValue(ctx, domain.LAST_RUN_KEY).Return("", nil)

		report, err := orchestrator.LastReport(ctx)
		require.NoError(t, err)
		assert.Nil(t, report)
	})

	t.Run("stored report", func(t *testing.T) {
		stored := ingest.RunReport{
			RunID:   "01HQZ8X3C2V4K9M7N5P6R8S0T1",
			Trigger: ingest.TriggerSchedule,
			Window:  "20240301-20240303",
			Stages:  []ingest.StageReport{{Kind: domain.KindNotice, Fetched: 3, Stored: 3}},
		}
		data, err := json.Marshal(stored)
		require.NoError(t, err)
		m.store.EXPECT().GetKeyValue(ctx, domain.LAST_RUN_KEY).Return(string(data), nil)

		report, err := orchestrator.LastReport(ctx)
		require.NoError(t, err)
		require.NotNil(t, report)
		assert.Equal(t, stored.RunID, report.RunID)
		assert.Equal(t, ingest.RunStatusSuccess, report.Status())
	})

	t.Run("corrupt report", func(t *testing.T) {
		m.store.EXPECT().GetKeyValue(ctx, domain.LAST_RUN_KEY).Return("{not json", nil)

		_, err := orchestrator.LastReport(ctx)
		assert.Error(t, err)
	})

	t.Run("store failure", func(t *testing.T) {
		m.store.EXPECT().GetKeyValue(ctx, domain.LAST_RUN_KEY).Return("", errors.New("connection refused"))

		_, err := orchestrator.LastReport(ctx)
		assert.Error(t, err)
	})
}
