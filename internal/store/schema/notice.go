package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Notice represents the notices table - one row per bid notice revision (입찰공고)
type Notice struct {
	// ID is the internal surrogate key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// NoticeNumber is the source notice number (bidNtceNo)
	NoticeNumber string `gorm:"column:notice_number;not null;type:text;uniqueIndex:uq_notices_natural_key"`
	// NoticeOrder is the source revision number (bidNtceOrd), '' when absent
	NoticeOrder string `gorm:"column:notice_order;not null;default:'';type:text;uniqueIndex:uq_notices_natural_key"`
	// NoticeType is the procurement category of the sub-endpoint (공사, 용역, 물품)
	NoticeType string `gorm:"column:notice_type;not null;type:text"`

	Title               *string    `gorm:"column:title;type:text"`
	OrderingAgency      *string    `gorm:"column:ordering_agency;type:text;index:idx_notices_ordering_agency"`
	OrderingAgencyCode  *string    `gorm:"column:ordering_agency_code;type:text"`
	DemandingAgency     *string    `gorm:"column:demanding_agency;type:text"`
	DemandingAgencyCode *string    `gorm:"column:demanding_agency_code;type:text"`
	ContractMethod      *string    `gorm:"column:contract_method;type:text"`
	BiddingMethod       *string    `gorm:"column:bidding_method;type:text"`
	BudgetAmount        *int64     `gorm:"column:budget_amount;type:bigint"`
	EstimatedPrice      *int64     `gorm:"column:estimated_price;type:bigint"`
	NoticeDate          *time.Time `gorm:"column:notice_date;type:timestamptz;index:idx_notices_notice_date"`
	BidCloseDate        *time.Time `gorm:"column:bid_close_date;type:timestamptz"`
	OpeningDate         *time.Time `gorm:"column:opening_date;type:timestamptz"`
	Description         *string    `gorm:"column:description;type:text"`
	BiddingURL          *string    `gorm:"column:bidding_url;type:text"`

	// AICategory is the derived category, NULL until the notice is enriched
	AICategory *string `gorm:"column:ai_category;type:text"`
	// AITags is the derived tag list as a JSON array
	AITags datatypes.JSON `gorm:"column:ai_tags;type:jsonb"`
	// CompetitionLevel is the derived competition estimate (고, 중, 저)
	CompetitionLevel *string `gorm:"column:competition_level;type:text"`

	// CreatedAt is the timestamp when the notice was first stored
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp of the last merge
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Notice model
func (Notice) TableName() string {
	return "notices"
}
