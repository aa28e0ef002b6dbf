package schema

import "time"

// Award represents the awards table - opening results per notice revision and category (개찰결과)
type Award struct {
	ID              int64  `gorm:"column:id;primaryKey;autoIncrement"`
	BidNoticeNumber string `gorm:"column:bid_notice_number;not null;type:text;uniqueIndex:uq_awards_natural_key"`
	BidNoticeOrder  string `gorm:"column:bid_notice_order;not null;default:'';type:text;uniqueIndex:uq_awards_natural_key"`
	NoticeType      string `gorm:"column:notice_type;not null;type:text;uniqueIndex:uq_awards_natural_key"`

	BidClassNumber   *string    `gorm:"column:bid_class_number;type:text"`
	RebidNumber      *string    `gorm:"column:rebid_number;type:text"`
	NoticeName       *string    `gorm:"column:notice_name;type:text"`
	OpeningDate      *time.Time `gorm:"column:opening_date;type:timestamptz;index:idx_awards_opening_date"`
	ParticipantCount *int       `gorm:"column:participant_count;type:integer"`
	// OpeningCorpInfo is the raw winner summary "name^business no^ceo^amount^rate"
	OpeningCorpInfo       *string    `gorm:"column:opening_corp_info;type:text"`
	WinnerName            *string    `gorm:"column:winner_name;type:text"`
	WinnerBusinessNumber  *string    `gorm:"column:winner_business_number;type:text"`
	WinnerCEO             *string    `gorm:"column:winner_ceo;type:text"`
	WinnerAmount          *int64     `gorm:"column:winner_amount;type:bigint"`
	WinnerRate            *float64   `gorm:"column:winner_rate;type:double precision"`
	ProgressStatus        *string    `gorm:"column:progress_status;type:text"`
	NoticeInstitutionCode *string    `gorm:"column:notice_institution_code;type:text"`
	NoticeInstitutionName *string    `gorm:"column:notice_institution_name;type:text;index:idx_awards_notice_institution_name"`
	DemandInstitutionCode *string    `gorm:"column:demand_institution_code;type:text"`
	DemandInstitutionName *string    `gorm:"column:demand_institution_name;type:text"`
	InputDate             *time.Time `gorm:"column:input_date;type:timestamptz"`
	ReservePriceFile      *string    `gorm:"column:reserve_price_file;type:text"`
	OpeningResultNotes    *string    `gorm:"column:opening_result_notes;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Award model
func (Award) TableName() string {
	return "awards"
}
