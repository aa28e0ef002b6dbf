package schema

import "time"

// OrderPlan represents the order_plans table (발주계획)
type OrderPlan struct {
	ID              int64  `gorm:"column:id;primaryKey;autoIncrement"`
	OrderPlanNumber string `gorm:"column:order_plan_number;not null;type:text;uniqueIndex:uq_order_plans_natural_key"`
	// Category is the label of the sub-endpoint the plan was collected from
	Category *string `gorm:"column:category;type:text"`

	BusinessName             *string    `gorm:"column:business_name;type:text"`
	OrderInstitution         *string    `gorm:"column:order_institution;type:text"`
	Department               *string    `gorm:"column:department;type:text"`
	Officer                  *string    `gorm:"column:officer;type:text"`
	Phone                    *string    `gorm:"column:phone;type:text"`
	ProcurementMethod        *string    `gorm:"column:procurement_method;type:text"`
	ContractMethod           *string    `gorm:"column:contract_method;type:text"`
	OrderAmount              *int64     `gorm:"column:order_amount;type:bigint"`
	OrderAmountUSD           *int64     `gorm:"column:order_amount_usd;type:bigint"`
	Quantity                 *string    `gorm:"column:quantity;type:text"`
	Unit                     *string    `gorm:"column:unit;type:text"`
	ProductClassNumber       *string    `gorm:"column:product_class_number;type:text"`
	DetailProductClassNumber *string    `gorm:"column:detail_product_class_number;type:text"`
	ProductClassName         *string    `gorm:"column:product_class_name;type:text"`
	DetailProductClassName   *string    `gorm:"column:detail_product_class_name;type:text"`
	Usage                    *string    `gorm:"column:usage;type:text"`
	Specification            *string    `gorm:"column:specification;type:text"`
	Remarks                  *string    `gorm:"column:remarks;type:text"`
	OrderYear                *string    `gorm:"column:order_year;type:text"`
	OrderMonth               *string    `gorm:"column:order_month;type:text"`
	NoticeDate               *time.Time `gorm:"column:notice_date;type:timestamptz"`
	ChangeDate               *time.Time `gorm:"column:change_date;type:timestamptz"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the OrderPlan model
func (OrderPlan) TableName() string {
	return "order_plans"
}
