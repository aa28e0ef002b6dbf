// Package enrichment derives a category label, descriptive tags and a competition
// estimate for stored notices. Analysis is pure: it reads only the notice fields
// and the award history passed in.
package enrichment

import (
	"math"
	"strings"
	"time"

	"github.com/g2b-insight/g2b-indexer/internal/domain"
)

// DEFAULT_CATEGORY is the label of a title that matches no keyword
const DEFAULT_CATEGORY = "기타"

// Competition levels
const (
	CompetitionHigh   = "고"
	CompetitionMedium = "중"
	CompetitionLow    = "저"
)

// Tags
const (
	TagHighBudget  = "고액"
	TagMidBudget   = "중액"
	TagSmallBudget = "소액"
	TagUrgent      = "긴급"
	TagQuickClose  = "빠른마감"
	TagMaintenance = "유지보수"
	TagNewBusiness = "신규사업"
	TagReannounced = "재공고"
)

const (
	highBudget     = 1_000_000_000
	upperMidBudget = 500_000_000
	midBudget      = 100_000_000

	urgentDays     = 3
	quickCloseDays = 7

	crowdedBidding   = 10
	contestedBidding = 5
)

// Category is one row of the keyword table used for classification
type Category struct {
	Name     string
	Keywords []string
}

// DefaultCategories is the ordered keyword table. Order matters: on equal scores the
// earlier category wins.
var DefaultCategories = []Category{
	{Name: "IT", Keywords: []string{"소프트웨어", "시스템", "홈페이지", "웹", "앱", "프로그램", "개발", "IT", "전산", "네트워크", "서버", "DB", "데이터베이스", "클라우드"}},
	{Name: "건설", Keywords: []string{"공사", "건축", "토목", "시설", "건설", "보수", "개보수", "증축", "신축", "리모델링"}},
	{Name: "용역", Keywords: []string{"용역", "컨설팅", "자문", "연구", "조사", "분석", "평가", "진단", "관리"}},
	{Name: "물품", Keywords: []string{"구매", "납품", "물품", "제품", "기자재", "장비", "설비", "비품", "소모품"}},
	{Name: "교육", Keywords: []string{"교육", "연수", "훈련", "강의", "세미나", "워크샵", "특강"}},
	{Name: "의료", Keywords: []string{"의료", "병원", "의약", "간호", "치료", "진료", "건강"}},
	{Name: "청소", Keywords: []string{"청소", "환경", "미화", "위생", "방역", "소독"}},
	{Name: "보안", Keywords: []string{"보안", "경비", "방범", "CCTV", "감시", "순찰"}},
	{Name: "인쇄", Keywords: []string{"인쇄", "출판", "제작", "디자인", "편집"}},
	{Name: "운송", Keywords: []string{"운송", "배송", "택배", "이사", "물류", "운반"}},
}

// keywordTags maps title keywords to the tag they trigger, in tag order
var keywordTags = []struct {
	tag      string
	keywords []string
}{
	{TagUrgent, []string{"긴급", "신속", "즉시"}},
	{TagMaintenance, []string{"유지보수", "운영", "관리"}},
	{TagNewBusiness, []string{"신규", "구축", "개발"}},
	{TagReannounced, []string{"재공고", "재입찰"}},
}

// Input is the notice data the analysis reads
type Input struct {
	Title        string
	BudgetAmount *int64
	NoticeType   domain.Category
	NoticeDate   *time.Time
	BidCloseDate *time.Time
}

// Result is the derived annotation of a notice
type Result struct {
	Category         string
	Tags             []string
	CompetitionLevel string
}

// Analyzer derives the enrichment of a notice
type Analyzer interface {
	// Analyze classifies the notice, tags it and estimates its competition from the
	// award history of the same agency
	Analyze(in Input, history []domain.AwardSample) Result
}

type keywordAnalyzer struct {
	categories []Category
}

// NewAnalyzer creates an analyzer over an ordered category keyword table.
// A nil table uses DefaultCategories.
func NewAnalyzer(categories []Category) Analyzer {
	if categories == nil {
		categories = DefaultCategories
	}

	lowered := make([]Category, 0, len(categories))
	for _, c := range categories {
		keywords := make([]string, 0, len(c.Keywords))
		for _, k := range c.Keywords {
			keywords = append(keywords, strings.ToLower(k))
		}
		lowered = append(lowered, Category{Name: c.Name, Keywords: keywords})
	}

	return &keywordAnalyzer{categories: lowered}
}

// Analyze classifies the notice, tags it and estimates its competition
func (a *keywordAnalyzer) Analyze(in Input, history []domain.AwardSample) Result {
	return Result{
		Category:         a.Classify(in.Title),
		Tags:             Tags(in),
		CompetitionLevel: CompetitionLevel(in, history),
	}
}

// Classify returns the category whose keywords overlap the title the most.
// The score of a category is the number of its keywords contained in the title.
func (a *keywordAnalyzer) Classify(title string) string {
	title = strings.ToLower(strings.TrimSpace(title))
	if title == "" {
		return DEFAULT_CATEGORY
	}

	best, bestScore := DEFAULT_CATEGORY, 0
	for _, c := range a.categories {
		score := 0
		for _, k := range c.Keywords {
			if strings.Contains(title, k) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = c.Name, score
		}
	}
	return best
}

// Tags returns the budget tier, urgency and keyword tags of a notice without duplicates
func Tags(in Input) []string {
	tags := tagSet{}

	if in.BudgetAmount != nil && *in.BudgetAmount > 0 {
		switch budget := *in.BudgetAmount; {
		case budget >= highBudget:
			tags.add(TagHighBudget)
		case budget >= midBudget:
			tags.add(TagMidBudget)
		default:
			tags.add(TagSmallBudget)
		}
	}

	if in.NoticeDate != nil && in.BidCloseDate != nil {
		days := int(math.Floor(in.BidCloseDate.Sub(*in.NoticeDate).Hours() / 24))
		switch {
		case days <= urgentDays:
			tags.add(TagUrgent)
		case days <= quickCloseDays:
			tags.add(TagQuickClose)
		}
	}

	title := strings.ToLower(in.Title)
	for _, rule := range keywordTags {
		for _, k := range rule.keywords {
			if strings.Contains(title, k) {
				tags.add(rule.tag)
				break
			}
		}
	}

	return tags.list
}

// CompetitionLevel scores budget tier, notice type and historical participation
func CompetitionLevel(in Input, history []domain.AwardSample) string {
	score := 0

	if in.BudgetAmount != nil {
		switch budget := *in.BudgetAmount; {
		case budget >= highBudget:
			score += 3
		case budget >= upperMidBudget:
			score += 2
		case budget >= midBudget:
			score += 1
		}
	}

	if in.NoticeType == domain.CategoryService || in.NoticeType == domain.CategoryGoods {
		score++
	}

	if avg, ok := averageParticipants(history); ok {
		switch {
		case avg >= crowdedBidding:
			score += 2
		case avg >= contestedBidding:
			score++
		}
	}

	switch {
	case score >= 5:
		return CompetitionHigh
	case score >= 3:
		return CompetitionMedium
	default:
		return CompetitionLow
	}
}

// averageParticipants averages the positive participant counts, false when there are none
func averageParticipants(history []domain.AwardSample) (float64, bool) {
	sum, n := 0, 0
	for _, s := range history {
		if s.ParticipantCount > 0 {
			sum += s.ParticipantCount
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// tagSet keeps tags unique in insertion order
type tagSet struct {
	list []string
}

func (s *tagSet) add(tag string) {
	for _, t := range s.list {
		if t == tag {
			return
		}
	}
	s.list = append(s.list, tag)
}
