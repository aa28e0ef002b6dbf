package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/g2b-insight/g2b-indexer/internal/domain"
	"github.com/g2b-insight/g2b-indexer/internal/ingest"
	"github.com/g2b-insight/g2b-indexer/internal/logger"
	"github.com/g2b-insight/g2b-indexer/internal/mocks"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func makeNotices(n int) []domain.Record {
	records := make([]domain.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, &domain.Notice{
			NoticeNumber: fmt.Sprintf("R24BK%05d", i),
			NoticeOrder:  "000",
			Category:     domain.CategoryService,
		})
	}
	return records
}

func TestEngine_Upsert_IsolatesRecordFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	engine := ingest.NewEngine(mockStore)

	written := 0
	mockStore.EXPECT().
		UpsertNotice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *domain.Notice) error {
			if n.NoticeNumber == "R24BK00041" {
				return errors.New("value too long for type character varying")
			}
			written++
			return nil
		}).
		Times(100)

	result := engine.Upsert(context.Background(), domain.KindNotice, makeNotices(100))

	assert.Equal(t, domain.KindNotice, result.Kind)
	assert.Equal(t, 100, result.Attempted)
	assert.Equal(t, 99, result.Succeeded)
	assert.Equal(t, 99, written)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "R24BK00041-000", result.Failures[0].Key)
	assert.Contains(t, result.Failures[0].Reason, "value too long")
}

func TestEngine_Upsert_InvalidRecordsNeverReachStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	engine := ingest.NewEngine(mockStore)

	records := []domain.Record{
		&domain.Notice{NoticeNumber: "", Category: domain.CategoryGoods},
		&domain.Notice{NoticeNumber: "R24BK00001", Category: domain.Category("기타")},
		&domain.Contract{ContractNumber: "C-1", Category: domain.CategoryGoods},
		&domain.Notice{NoticeNumber: "R24BK00002", Category: domain.CategoryGoods},
	}

	mockStore.EXPECT().
		UpsertNotice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *domain.Notice) error {
			assert.Equal(t, "R24BK00002", n.NoticeNumber)
			return nil
		}).
		Times(1)

	result := engine.Upsert(context.Background(), domain.KindNotice, records)

	assert.Equal(t, 4, result.Attempted)
	assert.Equal(t, 1, result.Succeeded)
	require.Len(t, result.Failures, 3)
	assert.Equal(t, "-", result.Failures[0].Key)
	assert.Contains(t, result.Failures[0].Reason, domain.ErrInvalidNaturalKey.Error())
	assert.Contains(t, result.Failures[1].Reason, domain.ErrUnknownCategory.Error())
	assert.Equal(t, "C-1/물품", result.Failures[2].Key)
	assert.Contains(t, result.Failures[2].Reason, "in a notice batch")
}

func TestEngine_Upsert_DispatchesByKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	engine := ingest.NewEngine(mockStore)

	mockStore.EXPECT().UpsertAward(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	mockStore.EXPECT().UpsertOrderPlan(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	mockStore.EXPECT().UpsertContract(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	ctx := context.Background()
	award := engine.Upsert(ctx, domain.KindAward, []domain.Record{
		&domain.Award{BidNoticeNumber: "R24BK00001", Category: domain.CategoryConstruction},
	})
	plan := engine.Upsert(ctx, domain.KindOrderPlan, []domain.Record{
		&domain.OrderPlan{OrderPlanNumber: "OP-1", Category: domain.CategoryGoods},
	})
	contract := engine.Upsert(ctx, domain.KindContract, []domain.Record{
		&domain.Contract{ContractNumber: "C-1", Category: domain.CategoryService},
	})

	assert.Equal(t, 1, award.Succeeded)
	assert.Equal(t, 1, plan.Succeeded)
	assert.Equal(t, 1, contract.Succeeded)
}

func TestEngine_Upsert_StopsBetweenRecordsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	engine := ingest.NewEngine(mockStore)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	mockStore.EXPECT().
		UpsertNotice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(writeCtx context.Context, _ *domain.Notice) error {
			calls++
			if calls == 2 {
				cancel()
				// the in-flight write is not interrupted
				assert.NoError(t, writeCtx.Err())
			}
			return nil
		}).
		Times(2)

	result := engine.Upsert(ctx, domain.KindNotice, makeNotices(5))

	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 2, result.Succeeded)
	assert.Empty(t, result.Failures)
}

func TestEngine_Upsert_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := ingest.NewEngine(mocks.NewMockStore(ctrl))
	result := engine.Upsert(context.Background(), domain.KindAward, nil)

	assert.Equal(t, ingest.BatchResult{Kind: domain.KindAward}, result)
}

func TestEngine_ApplyEnrichment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	engine := ingest.NewEngine(mockStore)

	enrichments := []domain.NoticeEnrichment{
		{NoticeID: 1, NoticeKey: "R24BK00001-000", Category: "IT", Tags: []string{"중액"}, CompetitionLevel: "중"},
		{NoticeID: 2, NoticeKey: "R24BK00002-000", Category: "기타", Tags: []string{}, CompetitionLevel: "저"},
		{NoticeID: 3, NoticeKey: "R24BK00003-000", Category: "청소", Tags: []string{}, CompetitionLevel: "저"},
	}

	gomock.InOrder(
		mockStore.EXPECT().UpdateNoticeEnrichment(gomock.Any(), enrichments[0]).Return(nil),
		mockStore.EXPECT().UpdateNoticeEnrichment(gomock.Any(), enrichments[1]).
			Return(fmt.Errorf("notice 2: %w", gorm.ErrRecordNotFound)),
		mockStore.EXPECT().UpdateNoticeEnrichment(gomock.Any(), enrichments[2]).Return(nil),
	)

	result := engine.ApplyEnrichment(context.Background(), enrichments)

	assert.Equal(t, ingest.ENRICHMENT_BATCH_KIND, result.Kind)
	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 2, result.Succeeded)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "R24BK00002-000", result.Failures[0].Key)
}
