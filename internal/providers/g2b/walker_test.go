package g2b_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g2b-insight/g2b-indexer/internal/adapter"
	"github.com/g2b-insight/g2b-indexer/internal/domain"
	"github.com/g2b-insight/g2b-indexer/internal/mocks"
	"github.com/g2b-insight/g2b-indexer/internal/providers/g2b"
)

const testBaseURL = "https://apis.data.go.kr/1230000"

func testWindow(t *testing.T) domain.DateWindow {
	t.Helper()
	window, err := domain.NewDateWindow(time.Date(2024, 3, 3, 3, 0, 0, 0, time.UTC), 2)
	require.NoError(t, err)
	return window
}

// makeItems builds n raw notice items numbered from offset
func makeItems(prefix string, offset, n int) []g2b.RawItem {
	items := make([]g2b.RawItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, g2b.RawItem{
			"bidNtceNo":  fmt.Sprintf("%s%05d", prefix, offset+i),
			"bidNtceOrd": "000",
		})
	}
	return items
}

// pagedSource serves totalCount items split into pages of pageSize
type pagedSource struct {
	mu         sync.Mutex
	prefix     string
	totalCount int
	calls      []int
}

func (s *pagedSource) fetch(_ context.Context, _ string, params g2b.PageParams) (*g2b.Page, error) {
	s.mu.Lock()
	s.calls = append(s.calls, params.PageNo)
	s.mu.Unlock()

	offset := (params.PageNo - 1) * params.NumOfRows
	n := s.totalCount - offset
	if n > params.NumOfRows {
		n = params.NumOfRows
	}
	if n < 0 {
		n = 0
	}
	return &g2b.Page{Items: makeItems(s.prefix, offset, n), TotalCount: s.totalCount, PageNo: params.PageNo}, nil
}

func emptyPage(_ context.Context, _ string, params g2b.PageParams) (*g2b.Page, error) {
	return &g2b.Page{TotalCount: 0, PageNo: params.PageNo}, nil
}

func newWalker(client g2b.Client, pageSize, maxPages int) g2b.Walker {
	return g2b.NewWalker(client, adapter.NewClock(), g2b.WalkerConfig{
		BaseURL:     testBaseURL,
		PageSize:    pageSize,
		MaxPages:    maxPages,
		Concurrency: 3,
	})
}

func TestWalker_Walk_FetchesEveryPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockG2BClient(ctrl)
	ctx := context.Background()

	services := &pagedSource{prefix: "S", totalCount: 250}
	client.EXPECT().
		FetchPage(gomock.Any(), testBaseURL+"/ad/BidPublicInfoService/getBidPblancListInfoServc", gomock.Any()).
		DoAndReturn(services.fetch).
		Times(3)
	client.EXPECT().
		FetchPage(gomock.Any(), testBaseURL+"/ad/BidPublicInfoService/getBidPblancListInfoCnstwk", gomock.Any()).
		DoAndReturn(emptyPage).
		Times(1)
	client.EXPECT().
		FetchPage(gomock.Any(), testBaseURL+"/ad/BidPublicInfoService/getBidPblancListInfoThng", gomock.Any()).
		DoAndReturn(emptyPage).
		Times(1)

	result, err := newWalker(client, 100, 1000).Walk(ctx, domain.KindNotice, testWindow(t))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, domain.KindNotice, result.Kind)
	assert.Len(t, result.Items, 250)
	assert.Equal(t, []int{1, 2, 3}, services.calls)
	assert.Empty(t, result.Failures())

	seen := make(map[string]bool)
	for _, item := range result.Items {
		assert.Equal(t, domain.CategoryService, item.Category)
		seen[item.Raw.String("bidNtceNo")] = true
	}
	assert.Len(t, seen, 250)

	require.Len(t, result.Outcomes, 3)
	for _, outcome := range result.Outcomes {
		if outcome.Category == domain.CategoryService {
			assert.Equal(t, 3, outcome.Pages)
			assert.Equal(t, 250, outcome.Collected)
			assert.Equal(t, 250, outcome.Declared)
			assert.False(t, outcome.Truncated)
		}
	}
}

func TestWalker_Walk_PassesWindowBounds(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockG2BClient(ctrl)

	client.EXPECT().
		FetchPage(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, endpoint string, params g2b.PageParams) (*g2b.Page, error) {
			assert.True(t, strings.HasPrefix(endpoint, testBaseURL+"/ao/CntrctInfoService/getCntrctInfoList"))
			assert.Equal(t, 1, params.PageNo)
			assert.Equal(t, 50, params.NumOfRows)
			assert.Equal(t, "2", params.Bounds.Get("inqryDiv"))
			assert.Equal(t, "202403", params.Bounds.Get("inqryBgnDt"))
			assert.Equal(t, "202403", params.Bounds.Get("inqryEndDt"))
			return &g2b.Page{PageNo: 1}, nil
		}).
		Times(3)

	result, err := newWalker(client, 50, 10).Walk(context.Background(), domain.KindContract, testWindow(t))
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

func TestWalker_Walk_CategoryFailureKeepsOtherCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockG2BClient(ctrl)

	construction := &pagedSource{prefix: "C", totalCount: 120}
	goods := &pagedSource{prefix: "G", totalCount: 30}
	fetchErr := &g2b.FetchError{Kind: g2b.FailureHTTP, Status: 503, Message: "unavailable"}

	client.EXPECT().
		FetchPage(gomock.Any(), testBaseURL+"/as/ScsbidInfoService/getOpengResultListInfoCnstwk", gomock.Any()).
		DoAndReturn(construction.fetch).
		Times(2)
	client.EXPECT().
		FetchPage(gomock.Any(), testBaseURL+"/as/ScsbidInfoService/getOpengResultListInfoServc", gomock.Any()).
		Return(nil, fetchErr).
		Times(1)
	client.EXPECT().
		FetchPage(gomock.Any(), testBaseURL+"/as/ScsbidInfoService/getOpengResultListInfoThng", gomock.Any()).
		DoAndReturn(goods.fetch).
		Times(1)

	result, err := newWalker(client, 100, 1000).Walk(context.Background(), domain.KindAward, testWindow(t))
	require.NoError(t, err)

	assert.Len(t, result.Items, 150)

	failures := result.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, domain.CategoryService, failures[0].Category)
	assert.True(t, errors.Is(failures[0].Err, fetchErr))

	// Items are concatenated in category order
	assert.Equal(t, domain.CategoryConstruction, result.Items[0].Category)
	assert.Equal(t, domain.CategoryGoods, result.Items[len(result.Items)-1].Category)
}

func TestWalker_Walk_FailureMidWalkKeepsCollectedPages(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockG2BClient(ctrl)

	source := &pagedSource{prefix: "P", totalCount: 300}
	fetchErr := &g2b.FetchError{Kind: g2b.FailureTimeout, Message: "deadline"}

	gomock.InOrder(
		client.EXPECT().
			FetchPage(gomock.Any(), testBaseURL+"/ao/OrderPlanSttusService/getOrderPlanSttusListThng", gomock.Any()).
			DoAndReturn(source.fetch),
		client.EXPECT().
			FetchPage(gomock.Any(), testBaseURL+"/ao/OrderPlanSttusService/getOrderPlanSttusListThng", gomock.Any()).
			Return(nil, fetchErr),
	)
	client.EXPECT().
		FetchPage(gomock.Any(), testBaseURL+"/ao/OrderPlanSttusService/getOrderPlanSttusListCnstwk", gomock.Any()).
		DoAndReturn(emptyPage)
	client.EXPECT().
		FetchPage(gomock.Any(), testBaseURL+"/ao/OrderPlanSttusService/getOrderPlanSttusListServc", gomock.Any()).
		DoAndReturn(emptyPage)

	result, err := newWalker(client, 100, 1000).Walk(context.Background(), domain.KindOrderPlan, testWindow(t))
	require.NoError(t, err)

	assert.Len(t, result.Items, 100)
	failures := result.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, domain.CategoryGoods, failures[0].Category)
	assert.Equal(t, 1, failures[0].Pages)
	assert.Equal(t, 100, failures[0].Collected)
}

func TestWalker_Walk_StopsAtEmptyPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockG2BClient(ctrl)

	// The source declares more items than it actually serves
	source := &pagedSource{prefix: "S", totalCount: 100}
	client.EXPECT().
		FetchPage(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, endpoint string, params g2b.PageParams) (*g2b.Page, error) {
			if !strings.HasSuffix(endpoint, "Servc") {
				return emptyPage(ctx, endpoint, params)
			}
			page, err := source.fetch(ctx, endpoint, params)
			page.TotalCount = 500
			return page, err
		}).
		AnyTimes()

	result, err := newWalker(client, 100, 1000).Walk(context.Background(), domain.KindNotice, testWindow(t))
	require.NoError(t, err)

	assert.Len(t, result.Items, 100)
	assert.Equal(t, []int{1, 2}, source.calls)
	assert.Empty(t, result.Failures())
}

func TestWalker_Walk_PageBound(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockG2BClient(ctrl)

	source := &pagedSource{prefix: "S", totalCount: 1000}
	client.EXPECT().
		FetchPage(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, endpoint string, params g2b.PageParams) (*g2b.Page, error) {
			if !strings.HasSuffix(endpoint, "Servc") {
				return emptyPage(ctx, endpoint, params)
			}
			return source.fetch(ctx, endpoint, params)
		}).
		AnyTimes()

	result, err := newWalker(client, 100, 3).Walk(context.Background(), domain.KindNotice, testWindow(t))
	require.NoError(t, err)

	assert.Len(t, result.Items, 300)
	assert.Equal(t, []int{1, 2, 3}, source.calls)
	for _, outcome := range result.Outcomes {
		if outcome.Category == domain.CategoryService {
			assert.True(t, outcome.Truncated)
			assert.Equal(t, 1000, outcome.Declared)
			assert.NoError(t, outcome.Err)
		} else {
			assert.False(t, outcome.Truncated)
		}
	}
}

func TestWalker_Walk_CanceledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockG2BClient(ctrl)
	client.EXPECT().FetchPage(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newWalker(client, 100, 10).Walk(ctx, domain.KindNotice, testWindow(t))
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	failures := result.Failures()
	require.Len(t, failures, 3)
	for _, f := range failures {
		assert.True(t, errors.Is(f.Err, context.Canceled))
	}
}

func TestWalker_Walk_UnknownKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockG2BClient(ctrl)

	result, err := newWalker(client, 100, 10).Walk(context.Background(), domain.Kind("unknown"), testWindow(t))
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrUnknownKind))
}
