package domain

import (
	"fmt"
	"strings"
	"time"
)

// Record is a normalized procurement record identified by its natural key
type Record interface {
	// Kind returns the record kind
	Kind() Kind
	// NaturalKey returns a printable form of the record's natural key
	NaturalKey() string
	// Validate checks that every natural key component is present
	Validate() error
}

// Notice is a bid notice (입찰공고)
// Natural key: (NoticeNumber, NoticeOrder)
type Notice struct {
	NoticeNumber string   // bidNtceNo
	NoticeOrder  string   // bidNtceOrd, empty when the source omits it
	Category     Category // sub-endpoint the notice was collected from

	Title               *string
	OrderingAgency      *string
	OrderingAgencyCode  *string
	DemandingAgency     *string
	DemandingAgencyCode *string
	ContractMethod      *string
	BiddingMethod       *string
	BudgetAmount        *int64
	EstimatedPrice      *int64
	NoticeDate          *time.Time
	BidCloseDate        *time.Time
	OpeningDate         *time.Time
	Description         *string
	BiddingURL          *string
}

func (n *Notice) Kind() Kind { return KindNotice }

func (n *Notice) NaturalKey() string {
	return fmt.Sprintf("%s-%s", n.NoticeNumber, n.NoticeOrder)
}

func (n *Notice) Validate() error {
	if strings.TrimSpace(n.NoticeNumber) == "" {
		return fmt.Errorf("%w: notice number is empty", ErrInvalidNaturalKey)
	}
	if !IsValidCategory(n.Category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, n.Category)
	}
	return nil
}

// Award is an opening result (개찰결과)
// Natural key: (BidNoticeNumber, BidNoticeOrder, Category)
type Award struct {
	BidNoticeNumber string
	BidNoticeOrder  string
	Category        Category

	BidClassNumber        *string
	RebidNumber           *string
	NoticeName            *string
	OpeningDate           *time.Time
	ParticipantCount      *int
	OpeningCorpInfo       *string
	WinnerName            *string
	WinnerBusinessNumber  *string
	WinnerCEO             *string
	WinnerAmount          *int64
	WinnerRate            *float64
	ProgressStatus        *string
	NoticeInstitutionCode *string
	NoticeInstitutionName *string
	DemandInstitutionCode *string
	DemandInstitutionName *string
	InputDate             *time.Time
	ReservePriceFile      *string
	OpeningResultNotes    *string
}

func (a *Award) Kind() Kind { return KindAward }

func (a *Award) NaturalKey() string {
	return fmt.Sprintf("%s-%s/%s", a.BidNoticeNumber, a.BidNoticeOrder, a.Category)
}

func (a *Award) Validate() error {
	if strings.TrimSpace(a.BidNoticeNumber) == "" {
		return fmt.Errorf("%w: bid notice number is empty", ErrInvalidNaturalKey)
	}
	if !IsValidCategory(a.Category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, a.Category)
	}
	return nil
}

// OrderPlan is a procurement order plan (발주계획)
// Natural key: OrderPlanNumber
type OrderPlan struct {
	OrderPlanNumber string
	Category        Category

	BusinessName             *string
	OrderInstitution         *string
	Department               *string
	Officer                  *string
	Phone                    *string
	ProcurementMethod        *string
	ContractMethod           *string
	OrderAmount              *int64
	OrderAmountUSD           *int64
	Quantity                 *string
	Unit                     *string
	ProductClassNumber       *string
	DetailProductClassNumber *string
	ProductClassName         *string
	DetailProductClassName   *string
	Usage                    *string
	Specification            *string
	Remarks                  *string
	OrderYear                *string
	OrderMonth               *string
	NoticeDate               *time.Time
	ChangeDate               *time.Time
}

func (p *OrderPlan) Kind() Kind { return KindOrderPlan }

func (p *OrderPlan) NaturalKey() string { return p.OrderPlanNumber }

func (p *OrderPlan) Validate() error {
	if strings.TrimSpace(p.OrderPlanNumber) == "" {
		return fmt.Errorf("%w: order plan number is empty", ErrInvalidNaturalKey)
	}
	return nil
}

// Contract is a concluded contract (계약)
// Natural key: (ContractNumber, Category)
type Contract struct {
	ContractNumber string   // untyCntrctNo
	Category       Category // contract type

	BusinessDivision        *string
	DecisionContractNumber  *string
	ContractRefNumber       *string
	ContractName            *string
	JointContract           *string
	LongTermDivision        *string
	ConclusionDate          *time.Time
	ContractPeriod          *string
	LegalBasis              *string
	TotalAmount             *int64
	CurrentAmount           *int64
	GuaranteeRate           *float64
	PaymentDivision         *string
	RequestNumber           *string
	NoticeNumber            *string
	InstitutionCode         *string
	InstitutionName         *string
	InstitutionJurisdiction *string
	InstitutionDepartment   *string
	InstitutionOfficer      *string
	InstitutionPhone        *string
	InstitutionFax          *string
	DemandInstitutions      []string
	Suppliers               []string
	InfoURL                 *string
	DetailInfoURL           *string
}

func (c *Contract) Kind() Kind { return KindContract }

func (c *Contract) NaturalKey() string {
	return fmt.Sprintf("%s/%s", c.ContractNumber, c.Category)
}

func (c *Contract) Validate() error {
	if strings.TrimSpace(c.ContractNumber) == "" {
		return fmt.Errorf("%w: contract number is empty", ErrInvalidNaturalKey)
	}
	if !IsValidCategory(c.Category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, c.Category)
	}
	return nil
}

// NoticeEnrichment holds the derived annotations written back onto a notice
type NoticeEnrichment struct {
	NoticeID         int64
	NoticeKey        string
	Category         string
	Tags             []string
	CompetitionLevel string
}

// AwardSample is the historical award statistic the enrichment step consumes
type AwardSample struct {
	ParticipantCount int
}
