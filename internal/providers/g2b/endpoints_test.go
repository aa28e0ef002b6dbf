package g2b

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g2b-insight/g2b-indexer/internal/domain"
)

func TestSourceFor(t *testing.T) {
	for _, kind := range domain.Kinds {
		source, err := SourceFor(kind)
		require.NoError(t, err, kind)
		assert.Equal(t, kind, source.Kind)
		require.Len(t, source.SubEndpoints, 3)
		for i, sub := range source.SubEndpoints {
			assert.Equal(t, domain.Categories[i], sub.Category)
		}
	}

	_, err := SourceFor(domain.Kind("tender"))
	assert.True(t, errors.Is(err, domain.ErrUnknownKind))
}

func TestSource_URL(t *testing.T) {
	source, err := SourceFor(domain.KindNotice)
	require.NoError(t, err)

	assert.Equal(t,
		"https://apis.data.go.kr/1230000/ad/BidPublicInfoService/getBidPblancListInfoServc",
		source.URL("https://apis.data.go.kr/1230000/", source.SubEndpoints[1]))
}

func TestSource_Bounds(t *testing.T) {
	window, err := domain.NewDateWindow(time.Date(2024, 3, 15, 3, 0, 0, 0, domain.SeoulLocation), 20)
	require.NoError(t, err)

	tests := []struct {
		kind     domain.Kind
		expected map[string]string
	}{
		{
			kind:     domain.KindNotice,
			expected: map[string]string{"inqryDiv": "1", "inqryBgnDt": "202402240000", "inqryEndDt": "202403152359"},
		},
		{
			kind:     domain.KindAward,
			expected: map[string]string{"inqryDiv": "1", "inqryBgnDt": "202402240000", "inqryEndDt": "202403152359"},
		},
		{
			kind:     domain.KindOrderPlan,
			expected: map[string]string{"inqryDiv": "1", "orderBgnYm": "202402", "orderEndYm": "202403"},
		},
		{
			kind:     domain.KindContract,
			expected: map[string]string{"inqryDiv": "2", "inqryBgnDt": "202402", "inqryEndDt": "202403"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			source, err := SourceFor(tt.kind)
			require.NoError(t, err)

			bounds := source.Bounds(window)
			assert.Len(t, bounds, len(tt.expected))
			for key, value := range tt.expected {
				assert.Equal(t, value, bounds.Get(key), key)
			}
		})
	}
}
