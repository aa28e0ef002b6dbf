package domain

import (
	"fmt"
	"time"
)

// Kind represents a procurement record kind
type Kind string

const (
	KindNotice    Kind = "notice"
	KindAward     Kind = "award"
	KindOrderPlan Kind = "order_plan"
	KindContract  Kind = "contract"
)

// Kinds lists the record kinds in the order an ingestion run processes them
var Kinds = []Kind{KindNotice, KindAward, KindOrderPlan, KindContract}

// IsValidKind checks if a kind is valid
func IsValidKind(kind Kind) bool {
	return kind == KindNotice ||
		kind == KindAward ||
		kind == KindOrderPlan ||
		kind == KindContract
}

// Category is the procurement category a source sub-endpoint is split by
type Category string

const (
	CategoryConstruction Category = "공사"
	CategoryService      Category = "용역"
	CategoryGoods        Category = "물품"
)

// Categories lists the procurement categories
var Categories = []Category{CategoryConstruction, CategoryService, CategoryGoods}

// IsValidCategory checks if a category is valid
func IsValidCategory(category Category) bool {
	return category == CategoryConstruction ||
		category == CategoryService ||
		category == CategoryGoods
}

// Granularity is the resolution of the date-range bounds a source endpoint accepts
type Granularity int

const (
	GranularityDay Granularity = iota
	GranularityMonth
)

// DateWindow is the inclusive range of days an ingestion run collects
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// NewDateWindow builds the window [now - daysBack days, now] in Seoul time
func NewDateWindow(now time.Time, daysBack int) (DateWindow, error) {
	if daysBack < 0 {
		return DateWindow{}, fmt.Errorf("%w: %d", ErrInvalidDaysBack, daysBack)
	}

	end := now.In(SeoulLocation)
	return DateWindow{
		Start: end.AddDate(0, 0, -daysBack),
		End:   end,
	}, nil
}

// StartDay returns the first day of the window as YYYYMMDD
func (w DateWindow) StartDay() string {
	return w.Start.Format(DAY_LAYOUT)
}

// EndDay returns the last day of the window as YYYYMMDD
func (w DateWindow) EndDay() string {
	return w.End.Format(DAY_LAYOUT)
}

// StartMonth returns the first month of the window as YYYYMM
func (w DateWindow) StartMonth() string {
	return w.Start.Format(MONTH_LAYOUT)
}

// EndMonth returns the last month of the window as YYYYMM
func (w DateWindow) EndMonth() string {
	return w.End.Format(MONTH_LAYOUT)
}

func (w DateWindow) String() string {
	return fmt.Sprintf("%s-%s", w.StartDay(), w.EndDay())
}
