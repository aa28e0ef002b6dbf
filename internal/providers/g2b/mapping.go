package g2b

import (
	"fmt"
	"strings"
	"time"

	"github.com/g2b-insight/g2b-indexer/internal/domain"
	"github.com/g2b-insight/g2b-indexer/internal/normalize"
)

// fieldRule copies one source field onto a canonical record field
type fieldRule[T any] struct {
	source string
	apply  func(rec *T, value string)
}

// fieldTable is the explicit source field -> canonical field mapping of a kind.
// Source fields missing from the table are ignored.
type fieldTable[T any] []fieldRule[T]

func (t fieldTable[T]) apply(raw RawItem, rec *T) {
	for _, rule := range t {
		if value := raw.String(rule.source); value != "" {
			rule.apply(rec, value)
		}
	}
}

func text[T any](source string, field func(*T) **string) fieldRule[T] {
	return fieldRule[T]{source: source, apply: func(rec *T, value string) {
		*field(rec) = normalize.Text(value)
	}}
}

func amount[T any](source string, field func(*T) **int64) fieldRule[T] {
	return fieldRule[T]{source: source, apply: func(rec *T, value string) {
		if n, ok := normalize.ParseAmount(value); ok {
			*field(rec) = &n
		}
	}}
}

func date[T any](source string, field func(*T) **time.Time) fieldRule[T] {
	return fieldRule[T]{source: source, apply: func(rec *T, value string) {
		if t, ok := normalize.ParseDate(value); ok {
			*field(rec) = &t
		}
	}}
}

func count[T any](source string, field func(*T) **int) fieldRule[T] {
	return fieldRule[T]{source: source, apply: func(rec *T, value string) {
		if n, ok := normalize.ParseInt(value); ok {
			*field(rec) = &n
		}
	}}
}

func rate[T any](source string, field func(*T) **float64) fieldRule[T] {
	return fieldRule[T]{source: source, apply: func(rec *T, value string) {
		if f, ok := normalize.ParseRate(value); ok {
			*field(rec) = &f
		}
	}}
}

func list[T any](source string, field func(*T) *[]string) fieldRule[T] {
	return fieldRule[T]{source: source, apply: func(rec *T, value string) {
		*field(rec) = normalize.SplitBracketList(value)
	}}
}

var noticeFields = fieldTable[domain.Notice]{
	text("bidNtceNm", func(n *domain.Notice) **string { return &n.Title }),
	text("ntceInsttNm", func(n *domain.Notice) **string { return &n.OrderingAgency }),
	text("ntceInsttCd", func(n *domain.Notice) **string { return &n.OrderingAgencyCode }),
	text("dminsttNm", func(n *domain.Notice) **string { return &n.DemandingAgency }),
	text("dminsttCd", func(n *domain.Notice) **string { return &n.DemandingAgencyCode }),
	text("cntrctCnclsMthdNm", func(n *domain.Notice) **string { return &n.ContractMethod }),
	text("bidMethdNm", func(n *domain.Notice) **string { return &n.BiddingMethod }),
	amount("presmptPrce", func(n *domain.Notice) **int64 { return &n.EstimatedPrice }),
	date("bidNtceDt", func(n *domain.Notice) **time.Time { return &n.NoticeDate }),
	date("bidClseDt", func(n *domain.Notice) **time.Time { return &n.BidCloseDate }),
	date("opengDt", func(n *domain.Notice) **time.Time { return &n.OpeningDate }),
	text("bidNtceDtlUrl", func(n *domain.Notice) **string { return &n.Description }),
	text("bidNtceUrl", func(n *domain.Notice) **string { return &n.BiddingURL }),
}

// noticeBudgetFields holds the category-specific budget field: goods notices carry
// the allocated budget, construction and service notices the plain budget
var noticeBudgetFields = map[domain.Category]fieldTable[domain.Notice]{
	domain.CategoryGoods: {
		amount("asignBdgtAmt", func(n *domain.Notice) **int64 { return &n.BudgetAmount }),
	},
	domain.CategoryConstruction: {
		amount("bdgtAmt", func(n *domain.Notice) **int64 { return &n.BudgetAmount }),
	},
	domain.CategoryService: {
		amount("bdgtAmt", func(n *domain.Notice) **int64 { return &n.BudgetAmount }),
	},
}

var awardFields = fieldTable[domain.Award]{
	text("bidClsfcNo", func(a *domain.Award) **string { return &a.BidClassNumber }),
	text("rbidNo", func(a *domain.Award) **string { return &a.RebidNumber }),
	text("bidNtceNm", func(a *domain.Award) **string { return &a.NoticeName }),
	date("opengDt", func(a *domain.Award) **time.Time { return &a.OpeningDate }),
	count("prtcptCnum", func(a *domain.Award) **int { return &a.ParticipantCount }),
	text("opengCorpInfo", func(a *domain.Award) **string { return &a.OpeningCorpInfo }),
	text("progrsDivCdNm", func(a *domain.Award) **string { return &a.ProgressStatus }),
	text("ntceInsttCd", func(a *domain.Award) **string { return &a.NoticeInstitutionCode }),
	text("ntceInsttNm", func(a *domain.Award) **string { return &a.NoticeInstitutionName }),
	text("dminsttCd", func(a *domain.Award) **string { return &a.DemandInstitutionCode }),
	text("dminsttNm", func(a *domain.Award) **string { return &a.DemandInstitutionName }),
	date("inptDt", func(a *domain.Award) **time.Time { return &a.InputDate }),
	text("rsrvtnPrceFileExistnceYn", func(a *domain.Award) **string { return &a.ReservePriceFile }),
	text("opengRsltNtcCntnts", func(a *domain.Award) **string { return &a.OpeningResultNotes }),
}

var orderPlanFields = fieldTable[domain.OrderPlan]{
	text("bizNm", func(p *domain.OrderPlan) **string { return &p.BusinessName }),
	text("orderInsttNm", func(p *domain.OrderPlan) **string { return &p.OrderInstitution }),
	text("deptNm", func(p *domain.OrderPlan) **string { return &p.Department }),
	text("ofclNm", func(p *domain.OrderPlan) **string { return &p.Officer }),
	text("telNo", func(p *domain.OrderPlan) **string { return &p.Phone }),
	text("prcrmntMethd", func(p *domain.OrderPlan) **string { return &p.ProcurementMethod }),
	text("cntrctMthdNm", func(p *domain.OrderPlan) **string { return &p.ContractMethod }),
	amount("sumOrderAmt", func(p *domain.OrderPlan) **int64 { return &p.OrderAmount }),
	amount("sumOrderDolAmt", func(p *domain.OrderPlan) **int64 { return &p.OrderAmountUSD }),
	text("qtyCntnts", func(p *domain.OrderPlan) **string { return &p.Quantity }),
	text("unit", func(p *domain.OrderPlan) **string { return &p.Unit }),
	text("prdctClsfcNo", func(p *domain.OrderPlan) **string { return &p.ProductClassNumber }),
	text("dtilPrdctClsfcNo", func(p *domain.OrderPlan) **string { return &p.DetailProductClassNumber }),
	text("prdctClsfcNoNm", func(p *domain.OrderPlan) **string { return &p.ProductClassName }),
	text("dtilPrdctClsfcNoNm", func(p *domain.OrderPlan) **string { return &p.DetailProductClassName }),
	text("usgCntnts", func(p *domain.OrderPlan) **string { return &p.Usage }),
	text("specCntnts", func(p *domain.OrderPlan) **string { return &p.Specification }),
	text("rmrkCntnts", func(p *domain.OrderPlan) **string { return &p.Remarks }),
	text("orderYear", func(p *domain.OrderPlan) **string { return &p.OrderYear }),
	text("orderMnth", func(p *domain.OrderPlan) **string { return &p.OrderMonth }),
	date("nticeDt", func(p *domain.OrderPlan) **time.Time { return &p.NoticeDate }),
	date("chgDt", func(p *domain.OrderPlan) **time.Time { return &p.ChangeDate }),
}

var contractFields = fieldTable[domain.Contract]{
	text("bsnsDivNm", func(c *domain.Contract) **string { return &c.BusinessDivision }),
	text("dcsnCntrctNo", func(c *domain.Contract) **string { return &c.DecisionContractNumber }),
	text("cntrctRefNo", func(c *domain.Contract) **string { return &c.ContractRefNumber }),
	text("cntrctNm", func(c *domain.Contract) **string { return &c.ContractName }),
	text("cmmnCntrctYn", func(c *domain.Contract) **string { return &c.JointContract }),
	text("lngtrmCtnuDivNm", func(c *domain.Contract) **string { return &c.LongTermDivision }),
	date("cntrctCnclsDate", func(c *domain.Contract) **time.Time { return &c.ConclusionDate }),
	text("cntrctPrd", func(c *domain.Contract) **string { return &c.ContractPeriod }),
	text("baseLawNm", func(c *domain.Contract) **string { return &c.LegalBasis }),
	amount("totCntrctAmt", func(c *domain.Contract) **int64 { return &c.TotalAmount }),
	amount("thtmCntrctAmt", func(c *domain.Contract) **int64 { return &c.CurrentAmount }),
	rate("grntymnyRate", func(c *domain.Contract) **float64 { return &c.GuaranteeRate }),
	text("payDivNm", func(c *domain.Contract) **string { return &c.PaymentDivision }),
	text("reqNo", func(c *domain.Contract) **string { return &c.RequestNumber }),
	text("ntceNo", func(c *domain.Contract) **string { return &c.NoticeNumber }),
	text("cntrctInsttCd", func(c *domain.Contract) **string { return &c.InstitutionCode }),
	text("cntrctInsttNm", func(c *domain.Contract) **string { return &c.InstitutionName }),
	text("cntrctInsttJrsdctnDivNm", func(c *domain.Contract) **string { return &c.InstitutionJurisdiction }),
	text("cntrctInsttChrgDeptNm", func(c *domain.Contract) **string { return &c.InstitutionDepartment }),
	text("cntrctInsttOfclNm", func(c *domain.Contract) **string { return &c.InstitutionOfficer }),
	text("cntrctInsttOfclTelNo", func(c *domain.Contract) **string { return &c.InstitutionPhone }),
	text("cntrctInsttOfclFaxNo", func(c *domain.Contract) **string { return &c.InstitutionFax }),
	list("dminsttList", func(c *domain.Contract) *[]string { return &c.DemandInstitutions }),
	list("corpList", func(c *domain.Contract) *[]string { return &c.Suppliers }),
	text("cntrctInfoUrl", func(c *domain.Contract) **string { return &c.InfoURL }),
	text("cntrctDtlInfoUrl", func(c *domain.Contract) **string { return &c.DetailInfoURL }),
}

// NormalizeNotice maps a tagged notice item onto a Notice
func NormalizeNotice(item TaggedItem) *domain.Notice {
	n := &domain.Notice{
		NoticeNumber: item.Raw.String("bidNtceNo"),
		NoticeOrder:  item.Raw.String("bidNtceOrd"),
		Category:     item.Category,
	}
	noticeFields.apply(item.Raw, n)
	noticeBudgetFields[item.Category].apply(item.Raw, n)
	return n
}

// NormalizeAward maps a tagged award item onto an Award
func NormalizeAward(item TaggedItem) *domain.Award {
	a := &domain.Award{
		BidNoticeNumber: item.Raw.String("bidNtceNo"),
		BidNoticeOrder:  item.Raw.String("bidNtceOrd"),
		Category:        item.Category,
	}
	awardFields.apply(item.Raw, a)

	if a.OpeningCorpInfo != nil {
		applyOpeningCorpInfo(a, *a.OpeningCorpInfo)
	}
	return a
}

// NormalizeOrderPlan maps a tagged order plan item onto an OrderPlan
func NormalizeOrderPlan(item TaggedItem) *domain.OrderPlan {
	p := &domain.OrderPlan{
		OrderPlanNumber: item.Raw.String("orderPlanUntyNo"),
		Category:        item.Category,
	}
	orderPlanFields.apply(item.Raw, p)
	return p
}

// NormalizeContract maps a tagged contract item onto a Contract
func NormalizeContract(item TaggedItem) *domain.Contract {
	c := &domain.Contract{
		ContractNumber: item.Raw.String("untyCntrctNo"),
		Category:       item.Category,
	}
	contractFields.apply(item.Raw, c)
	return c
}

// Normalize maps the items of a walk onto records of the given kind
func Normalize(kind domain.Kind, items []TaggedItem) ([]domain.Record, error) {
	var convert func(TaggedItem) domain.Record
	switch kind {
	case domain.KindNotice:
		convert = func(i TaggedItem) domain.Record { return NormalizeNotice(i) }
	case domain.KindAward:
		convert = func(i TaggedItem) domain.Record { return NormalizeAward(i) }
	case domain.KindOrderPlan:
		convert = func(i TaggedItem) domain.Record { return NormalizeOrderPlan(i) }
	case domain.KindContract:
		convert = func(i TaggedItem) domain.Record { return NormalizeContract(i) }
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownKind, kind)
	}

	records := make([]domain.Record, 0, len(items))
	for _, item := range items {
		records = append(records, convert(item))
	}
	return records, nil
}

// applyOpeningCorpInfo parses the winner summary "name^business no^ceo^amount^rate".
// Missing or unparsable segments leave the matching field absent.
func applyOpeningCorpInfo(a *domain.Award, info string) {
	parts := strings.Split(info, "^")
	segment := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}

	a.WinnerName = normalize.Text(segment(0))
	a.WinnerBusinessNumber = normalize.Text(segment(1))
	a.WinnerCEO = normalize.Text(segment(2))
	if n, ok := normalize.ParseAmount(segment(3)); ok {
		a.WinnerAmount = &n
	}
	if f, ok := normalize.ParseRate(segment(4)); ok {
		a.WinnerRate = &f
	}
}
