package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/g2b-insight/g2b-indexer/internal/domain"
)

func TestParseDate(t *testing.T) {
	kst := domain.SeoulLocation

	tests := []struct {
		name     string
		input    string
		expected time.Time
		ok       bool
	}{
		{name: "dashed with seconds", input: "2024-03-15 14:30:45", expected: time.Date(2024, 3, 15, 14, 30, 45, 0, kst), ok: true},
		{name: "dashed with minutes", input: "2024-03-15 14:30", expected: time.Date(2024, 3, 15, 14, 30, 0, 0, kst), ok: true},
		{name: "dashed date only", input: "2024-03-15", expected: time.Date(2024, 3, 15, 0, 0, 0, 0, kst), ok: true},
		{name: "compact with seconds", input: "20240315143045", expected: time.Date(2024, 3, 15, 14, 30, 45, 0, kst), ok: true},
		{name: "compact with minutes", input: "202403151430", expected: time.Date(2024, 3, 15, 14, 30, 0, 0, kst), ok: true},
		{name: "compact date only", input: "20240315", expected: time.Date(2024, 3, 15, 0, 0, 0, 0, kst), ok: true},
		{name: "surrounding whitespace", input: "  20240315 ", expected: time.Date(2024, 3, 15, 0, 0, 0, 0, kst), ok: true},
		{name: "leap day", input: "20240229", expected: time.Date(2024, 2, 29, 0, 0, 0, 0, kst), ok: true},
		{name: "empty", input: "", ok: false},
		{name: "garbage", input: "not-a-date", ok: false},
		{name: "invalid month", input: "20241315", ok: false},
		{name: "invalid day", input: "20230229", ok: false},
		{name: "invalid hour", input: "202403152530", ok: false},
		{name: "unknown length", input: "2024031", ok: false},
		{name: "signed field", input: "2024-+3-15", ok: false},
		{name: "slash separated", input: "2024/03/15", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
			} else {
				assert.True(t, got.IsZero())
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
		ok       bool
	}{
		{name: "plain", input: "1500000", expected: 1500000, ok: true},
		{name: "thousands separators", input: "1,500,000", expected: 1500000, ok: true},
		{name: "zero is a real amount", input: "0", expected: 0, ok: true},
		{name: "won suffix", input: "2,000원", expected: 2000, ok: true},
		{name: "decimal truncated", input: "123456.78", expected: 123456, ok: true},
		{name: "trailing zero fraction", input: "100.0", expected: 100, ok: true},
		{name: "whitespace", input: " 42 ", expected: 42, ok: true},
		{name: "empty", input: "", ok: false},
		{name: "blank", input: "   ", ok: false},
		{name: "negative", input: "-100", ok: false},
		{name: "letters", input: "12a4", ok: false},
		{name: "dangling dot", input: "12.", ok: false},
		{name: "overflow", input: "99999999999999999999999", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseAmount_SeparatorsDoNotChangeValue(t *testing.T) {
	for _, raw := range []string{"1", "12", "1234", "1234567", "9876543210", "1000000000000"} {
		withSeparators := addSeparators(raw)
		plain, ok := ParseAmount(raw)
		assert.True(t, ok)
		separated, ok := ParseAmount(withSeparators)
		assert.True(t, ok, withSeparators)
		assert.Equal(t, plain, separated, withSeparators)
	}
}

func addSeparators(s string) string {
	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}

func TestParseInt(t *testing.T) {
	n, ok := ParseInt("12")
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	_, ok = ParseInt("")
	assert.False(t, ok)

	_, ok = ParseInt("99999999999")
	assert.False(t, ok)
}

func TestParseRate(t *testing.T) {
	f, ok := ParseRate("87.745")
	assert.True(t, ok)
	assert.InDelta(t, 87.745, f, 1e-9)

	f, ok = ParseRate("90%")
	assert.True(t, ok)
	assert.InDelta(t, 90.0, f, 1e-9)

	_, ok = ParseRate("")
	assert.False(t, ok)

	_, ok = ParseRate("abc")
	assert.False(t, ok)

	_, ok = ParseRate("NaN")
	assert.False(t, ok)
}

func TestText(t *testing.T) {
	assert.Nil(t, Text(""))
	assert.Nil(t, Text("   "))
	got := Text(" 조달청 ")
	if assert.NotNil(t, got) {
		assert.Equal(t, "조달청", *got)
	}
}

func TestSplitBracketList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single without brackets", input: "조달청", expected: []string{"조달청"}},
		{name: "bracketed entries", input: "[1^1230000^조달청][2^B552584^한국전력]", expected: []string{"1^1230000^조달청", "2^B552584^한국전력"}},
		{name: "empty brackets skipped", input: "[][a]", expected: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitBracketList(tt.input))
		})
	}
}
