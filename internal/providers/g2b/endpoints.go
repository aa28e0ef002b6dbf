package g2b

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/g2b-insight/g2b-indexer/internal/domain"
)

// SubEndpoint is one category-specific operation of a source service
type SubEndpoint struct {
	Category  domain.Category
	Operation string
}

// Source describes the service that serves one record kind
type Source struct {
	Kind         domain.Kind
	Service      string
	Granularity  domain.Granularity
	SubEndpoints []SubEndpoint
}

var sources = map[domain.Kind]Source{
	domain.KindNotice: {
		Kind:        domain.KindNotice,
		Service:     "ad/BidPublicInfoService",
		Granularity: domain.GranularityDay,
		SubEndpoints: []SubEndpoint{
			{Category: domain.CategoryConstruction, Operation: "getBidPblancListInfoCnstwk"},
			{Category: domain.CategoryService, Operation: "getBidPblancListInfoServc"},
			{Category: domain.CategoryGoods, Operation: "getBidPblancListInfoThng"},
		},
	},
	domain.KindAward: {
		Kind:        domain.KindAward,
		Service:     "as/ScsbidInfoService",
		Granularity: domain.GranularityDay,
		SubEndpoints: []SubEndpoint{
			{Category: domain.CategoryConstruction, Operation: "getOpengResultListInfoCnstwk"},
			{Category: domain.CategoryService, Operation: "getOpengResultListInfoServc"},
			{Category: domain.CategoryGoods, Operation: "getOpengResultListInfoThng"},
		},
	},
	domain.KindOrderPlan: {
		Kind:        domain.KindOrderPlan,
		Service:     "ao/OrderPlanSttusService",
		Granularity: domain.GranularityMonth,
		SubEndpoints: []SubEndpoint{
			{Category: domain.CategoryConstruction, Operation: "getOrderPlanSttusListCnstwk"},
			{Category: domain.CategoryService, Operation: "getOrderPlanSttusListServc"},
			{Category: domain.CategoryGoods, Operation: "getOrderPlanSttusListThng"},
		},
	},
	domain.KindContract: {
		Kind:        domain.KindContract,
		Service:     "ao/CntrctInfoService",
		Granularity: domain.GranularityMonth,
		SubEndpoints: []SubEndpoint{
			{Category: domain.CategoryConstruction, Operation: "getCntrctInfoListCnstwk"},
			{Category: domain.CategoryService, Operation: "getCntrctInfoListServc"},
			{Category: domain.CategoryGoods, Operation: "getCntrctInfoListThng"},
		},
	},
}

// SourceFor returns the source definition of a record kind
func SourceFor(kind domain.Kind) (Source, error) {
	source, ok := sources[kind]
	if !ok {
		return Source{}, fmt.Errorf("%w: %s", domain.ErrUnknownKind, kind)
	}
	return source, nil
}

// URL returns the full URL of a sub-endpoint below the API base URL
func (s Source) URL(baseURL string, sub SubEndpoint) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(baseURL, "/"), s.Service, sub.Operation)
}

// Bounds returns the date-range query parameters of the window at the source's granularity
func (s Source) Bounds(window domain.DateWindow) url.Values {
	bounds := url.Values{}

	switch {
	case s.Kind == domain.KindOrderPlan:
		bounds.Set("inqryDiv", "1")
		bounds.Set("orderBgnYm", window.StartMonth())
		bounds.Set("orderEndYm", window.EndMonth())
	case s.Granularity == domain.GranularityMonth:
		bounds.Set("inqryDiv", "2")
		bounds.Set("inqryBgnDt", window.StartMonth())
		bounds.Set("inqryEndDt", window.EndMonth())
	default:
		bounds.Set("inqryDiv", "1")
		bounds.Set("inqryBgnDt", window.StartDay()+"0000")
		bounds.Set("inqryEndDt", window.EndDay()+"2359")
	}

	return bounds
}
