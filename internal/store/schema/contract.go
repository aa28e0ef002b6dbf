package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Contract represents the contracts table (계약)
type Contract struct {
	ID             int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ContractNumber string `gorm:"column:contract_number;not null;type:text;uniqueIndex:uq_contracts_natural_key"`
	ContractType   string `gorm:"column:contract_type;not null;type:text;uniqueIndex:uq_contracts_natural_key"`

	BusinessDivision        *string    `gorm:"column:business_division;type:text"`
	DecisionContractNumber  *string    `gorm:"column:decision_contract_number;type:text"`
	ContractRefNumber       *string    `gorm:"column:contract_ref_number;type:text"`
	ContractName            *string    `gorm:"column:contract_name;type:text"`
	JointContract           *string    `gorm:"column:joint_contract;type:text"`
	LongTermDivision        *string    `gorm:"column:long_term_division;type:text"`
	ConclusionDate          *time.Time `gorm:"column:conclusion_date;type:timestamptz;index:idx_contracts_conclusion_date"`
	ContractPeriod          *string    `gorm:"column:contract_period;type:text"`
	LegalBasis              *string    `gorm:"column:legal_basis;type:text"`
	TotalAmount             *int64     `gorm:"column:total_amount;type:bigint"`
	CurrentAmount           *int64     `gorm:"column:current_amount;type:bigint"`
	GuaranteeRate           *float64   `gorm:"column:guarantee_rate;type:double precision"`
	PaymentDivision         *string    `gorm:"column:payment_division;type:text"`
	RequestNumber           *string    `gorm:"column:request_number;type:text"`
	NoticeNumber            *string    `gorm:"column:notice_number;type:text"`
	InstitutionCode         *string    `gorm:"column:institution_code;type:text"`
	InstitutionName         *string    `gorm:"column:institution_name;type:text"`
	InstitutionJurisdiction *string    `gorm:"column:institution_jurisdiction;type:text"`
	InstitutionDepartment   *string    `gorm:"column:institution_department;type:text"`
	InstitutionOfficer      *string    `gorm:"column:institution_officer;type:text"`
	InstitutionPhone        *string    `gorm:"column:institution_phone;type:text"`
	InstitutionFax          *string    `gorm:"column:institution_fax;type:text"`
	// DemandInstitutions is the demand institution list as a JSON array of entries
	DemandInstitutions datatypes.JSON `gorm:"column:demand_institutions;type:jsonb"`
	// Suppliers is the supplier list as a JSON array of entries
	Suppliers     datatypes.JSON `gorm:"column:suppliers;type:jsonb"`
	InfoURL       *string        `gorm:"column:info_url;type:text"`
	DetailInfoURL *string        `gorm:"column:detail_info_url;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Contract model
func (Contract) TableName() string {
	return "contracts"
}
