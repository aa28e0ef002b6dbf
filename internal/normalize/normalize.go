// Package normalize converts the string encodings used by the procurement
// sources into canonical values. Every function is total: it returns either a
// value or an explicit "not ok", never a silent default.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/g2b-insight/g2b-indexer/internal/domain"
)

// dateLayouts maps the length of a source date string to the layout it is encoded with
var dateLayouts = map[int][]string{
	19: {"2006-01-02 15:04:05"},
	16: {"2006-01-02 15:04"},
	14: {"20060102150405"},
	12: {"200601021504"},
	10: {"2006-01-02"},
	8:  {"20060102"},
}

// ParseDate parses a source timestamp in Seoul time.
// Accepted encodings: YYYY-MM-DD HH:MM:SS, YYYY-MM-DD HH:MM, YYYY-MM-DD,
// YYYYMMDDHHMMSS, YYYYMMDDHHMM and YYYYMMDD.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	layouts, ok := dateLayouts[len(s)]
	if !ok {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if !matchesShape(s, layout) {
			continue
		}
		t, err := time.ParseInLocation(layout, s, domain.SeoulLocation)
		if err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// matchesShape reports whether s has a digit wherever the layout has one.
// time.Parse accepts some non-digit input for numeric fields (a leading sign or
// space), which would let a malformed value through.
func matchesShape(s, layout string) bool {
	for i := 0; i < len(layout); i++ {
		l := layout[i]
		c := s[i]
		if l >= '0' && l <= '9' {
			if c < '0' || c > '9' {
				return false
			}
			continue
		}
		if c != l {
			return false
		}
	}
	return true
}

// ParseAmount parses a non-negative monetary amount.
// Thousands separators, whitespace and a trailing 원 are stripped and a decimal
// fraction is truncated.
func ParseAmount(s string) (int64, bool) {
	digits, ok := cleanNumber(s)
	if !ok {
		return 0, false
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseInt parses a non-negative count such as a participant number
func ParseInt(s string) (int, bool) {
	n, ok := ParseAmount(s)
	if !ok || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

// ParseRate parses a percentage such as "87.745" or "87.745%"
func ParseRate(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

// cleanNumber strips separators and returns the integral digits of s
func cleanNumber(s string) (string, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "원")
	s = strings.NewReplacer(",", "", " ", "").Replace(s)
	if s == "" {
		return "", false
	}

	integral, fraction, hasFraction := strings.Cut(s, ".")
	if integral == "" || !allDigits(integral) {
		return "", false
	}
	if hasFraction && (fraction == "" || !allDigits(fraction)) {
		return "", false
	}
	return integral, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Text trims s and returns nil when nothing is left
func Text(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// SplitBracketList splits the "[entry][entry]" lists used for institution and
// supplier fields. A value without brackets is returned as a single entry.
func SplitBracketList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(s, "[") {
		return []string{s}
	}

	var entries []string
	for _, part := range strings.Split(s, "[") {
		part = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "]"))
		if part != "" {
			entries = append(entries, part)
		}
	}
	return entries
}
