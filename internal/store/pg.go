package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/g2b-insight/g2b-indexer/internal/domain"
	"github.com/g2b-insight/g2b-indexer/internal/store/schema"
)

// Columns written by ingestion on conflict. Keys and created_at never change,
// and the enrichment columns belong to the enrichment pass.
var (
	noticeUpdateColumns = []string{
		"notice_type", "title", "ordering_agency", "ordering_agency_code", "demanding_agency",
		"demanding_agency_code", "contract_method", "bidding_method", "budget_amount",
		"estimated_price", "notice_date", "bid_close_date", "opening_date", "description",
		"bidding_url",
	}
	awardUpdateColumns = []string{
		"bid_class_number", "rebid_number", "notice_name", "opening_date", "participant_count",
		"opening_corp_info", "winner_name", "winner_business_number", "winner_ceo",
		"winner_amount", "winner_rate", "progress_status", "notice_institution_code",
		"notice_institution_name", "demand_institution_code", "demand_institution_name",
		"input_date", "reserve_price_file", "opening_result_notes",
	}
	orderPlanUpdateColumns = []string{
		"category", "business_name", "order_institution", "department", "officer", "phone",
		"procurement_method", "contract_method", "order_amount", "order_amount_usd", "quantity",
		"unit", "product_class_number", "detail_product_class_number", "product_class_name",
		"detail_product_class_name", "usage", "specification", "remarks", "order_year",
		"order_month", "notice_date", "change_date",
	}
	contractUpdateColumns = []string{
		"business_division", "decision_contract_number", "contract_ref_number", "contract_name",
		"joint_contract", "long_term_division", "conclusion_date", "contract_period",
		"legal_basis", "total_amount", "current_amount", "guarantee_rate", "payment_division",
		"request_number", "notice_number", "institution_code", "institution_name",
		"institution_jurisdiction", "institution_department", "institution_officer",
		"institution_phone", "institution_fax", "demand_institutions", "suppliers", "info_url",
		"detail_info_url",
	}
)

type pgStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db, now: time.Now}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	// Set defaults if not provided
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// mergeUpdatedAt keeps updated_at strictly increasing even when two merges carry the same clock reading
func mergeUpdatedAt(table string) clause.Assignment {
	return clause.Assignment{
		Column: clause.Column{Name: "updated_at"},
		Value:  gorm.Expr(fmt.Sprintf("GREATEST(EXCLUDED.updated_at, %s.updated_at + interval '1 microsecond')", table)),
	}
}

// upsert runs a single INSERT ... ON CONFLICT (natural key) DO UPDATE statement
func (s *pgStore) upsert(ctx context.Context, table string, model interface{}, keyColumns []string, updateColumns []string) error {
	conflict := make([]clause.Column, 0, len(keyColumns))
	for _, name := range keyColumns {
		conflict = append(conflict, clause.Column{Name: name})
	}

	updates := append(clause.AssignmentColumns(updateColumns), mergeUpdatedAt(table))

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   conflict,
			DoUpdates: updates,
		}).
		Create(model).Error
}

// UpsertNotice inserts a notice or merges it into the row with the same natural key
func (s *pgStore) UpsertNotice(ctx context.Context, notice *domain.Notice) error {
	now := s.now()
	model := schema.Notice{
		NoticeNumber:        notice.NoticeNumber,
		NoticeOrder:         notice.NoticeOrder,
		NoticeType:          string(notice.Category),
		Title:               notice.Title,
		OrderingAgency:      notice.OrderingAgency,
		OrderingAgencyCode:  notice.OrderingAgencyCode,
		DemandingAgency:     notice.DemandingAgency,
		DemandingAgencyCode: notice.DemandingAgencyCode,
		ContractMethod:      notice.ContractMethod,
		BiddingMethod:       notice.BiddingMethod,
		BudgetAmount:        notice.BudgetAmount,
		EstimatedPrice:      notice.EstimatedPrice,
		NoticeDate:          notice.NoticeDate,
		BidCloseDate:        notice.BidCloseDate,
		OpeningDate:         notice.OpeningDate,
		Description:         notice.Description,
		BiddingURL:          notice.BiddingURL,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.upsert(ctx, model.TableName(), &model, []string{"notice_number", "notice_order"}, noticeUpdateColumns); err != nil {
		return fmt.Errorf("failed to upsert notice: %w", err)
	}

	return nil
}

// UpsertAward inserts an award or merges it into the row with the same natural key
func (s *pgStore) UpsertAward(ctx context.Context, award *domain.Award) error {
	now := s.now()
	model := schema.Award{
		BidNoticeNumber:       award.BidNoticeNumber,
		BidNoticeOrder:        award.BidNoticeOrder,
		NoticeType:            string(award.Category),
		BidClassNumber:        award.BidClassNumber,
		RebidNumber:           award.RebidNumber,
		NoticeName:            award.NoticeName,
		OpeningDate:           award.OpeningDate,
		ParticipantCount:      award.ParticipantCount,
		OpeningCorpInfo:       award.OpeningCorpInfo,
		WinnerName:            award.WinnerName,
		WinnerBusinessNumber:  award.WinnerBusinessNumber,
		WinnerCEO:             award.WinnerCEO,
		WinnerAmount:          award.WinnerAmount,
		WinnerRate:            award.WinnerRate,
		ProgressStatus:        award.ProgressStatus,
		NoticeInstitutionCode: award.NoticeInstitutionCode,
		NoticeInstitutionName: award.NoticeInstitutionName,
		DemandInstitutionCode: award.DemandInstitutionCode,
		DemandInstitutionName: award.DemandInstitutionName,
		InputDate:             award.InputDate,
		ReservePriceFile:      award.ReservePriceFile,
		OpeningResultNotes:    award.OpeningResultNotes,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.upsert(ctx, model.TableName(), &model, []string{"bid_notice_number", "bid_notice_order", "notice_type"}, awardUpdateColumns); err != nil {
		return fmt.Errorf("failed to upsert award: %w", err)
	}

	return nil
}

// UpsertOrderPlan inserts an order plan or merges it into the row with the same natural key
func (s *pgStore) UpsertOrderPlan(ctx context.Context, plan *domain.OrderPlan) error {
	now := s.now()
	model := schema.OrderPlan{
		OrderPlanNumber:          plan.OrderPlanNumber,
		BusinessName:             plan.BusinessName,
		OrderInstitution:         plan.OrderInstitution,
		Department:               plan.Department,
		Officer:                  plan.Officer,
		Phone:                    plan.Phone,
		ProcurementMethod:        plan.ProcurementMethod,
		ContractMethod:           plan.ContractMethod,
		OrderAmount:              plan.OrderAmount,
		OrderAmountUSD:           plan.OrderAmountUSD,
		Quantity:                 plan.Quantity,
		Unit:                     plan.Unit,
		ProductClassNumber:       plan.ProductClassNumber,
		DetailProductClassNumber: plan.DetailProductClassNumber,
		ProductClassName:         plan.ProductClassName,
		DetailProductClassName:   plan.DetailProductClassName,
		Usage:                    plan.Usage,
		Specification:            plan.Specification,
		Remarks:                  plan.Remarks,
		OrderYear:                plan.OrderYear,
		OrderMonth:               plan.OrderMonth,
		NoticeDate:               plan.NoticeDate,
		ChangeDate:               plan.ChangeDate,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	if plan.Category != "" {
		category := string(plan.Category)
		model.Category = &category
	}

	if err := s.upsert(ctx, model.TableName(), &model, []string{"order_plan_number"}, orderPlanUpdateColumns); err != nil {
		return fmt.Errorf("failed to upsert order plan: %w", err)
	}

	return nil
}

// UpsertContract inserts a contract or merges it into the row with the same natural key
func (s *pgStore) UpsertContract(ctx context.Context, contract *domain.Contract) error {
	demandInstitutions, err := jsonList(contract.DemandInstitutions)
	if err != nil {
		return fmt.Errorf("failed to encode demand institutions: %w", err)
	}
	suppliers, err := jsonList(contract.Suppliers)
	if err != nil {
		return fmt.Errorf("failed to encode suppliers: %w", err)
	}

	now := s.now()
	model := schema.Contract{
		ContractNumber:          contract.ContractNumber,
		ContractType:            string(contract.Category),
		BusinessDivision:        contract.BusinessDivision,
		DecisionContractNumber:  contract.DecisionContractNumber,
		ContractRefNumber:       contract.ContractRefNumber,
		ContractName:            contract.ContractName,
		JointContract:           contract.JointContract,
		LongTermDivision:        contract.LongTermDivision,
		ConclusionDate:          contract.ConclusionDate,
		ContractPeriod:          contract.ContractPeriod,
		LegalBasis:              contract.LegalBasis,
		TotalAmount:             contract.TotalAmount,
		CurrentAmount:           contract.CurrentAmount,
		GuaranteeRate:           contract.GuaranteeRate,
		PaymentDivision:         contract.PaymentDivision,
		RequestNumber:           contract.RequestNumber,
		NoticeNumber:            contract.NoticeNumber,
		InstitutionCode:         contract.InstitutionCode,
		InstitutionName:         contract.InstitutionName,
		InstitutionJurisdiction: contract.InstitutionJurisdiction,
		InstitutionDepartment:   contract.InstitutionDepartment,
		InstitutionOfficer:      contract.InstitutionOfficer,
		InstitutionPhone:        contract.InstitutionPhone,
		InstitutionFax:          contract.InstitutionFax,
		DemandInstitutions:      demandInstitutions,
		Suppliers:               suppliers,
		InfoURL:                 contract.InfoURL,
		DetailInfoURL:           contract.DetailInfoURL,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	if err := s.upsert(ctx, model.TableName(), &model, []string{"contract_number", "contract_type"}, contractUpdateColumns); err != nil {
		return fmt.Errorf("failed to upsert contract: %w", err)
	}

	return nil
}

// jsonList encodes a list as a JSON array, or NULL when it is empty
func jsonList(list []string) (datatypes.JSON, error) {
	if len(list) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

// first runs the query into dest and maps "not found" to a nil result
func first[T any](query *gorm.DB) (*T, error) {
	var dest T
	if err := query.First(&dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dest, nil
}

// GetNotice retrieves a notice by its natural key
func (s *pgStore) GetNotice(ctx context.Context, noticeNumber, noticeOrder string) (*schema.Notice, error) {
	notice, err := first[schema.Notice](s.db.WithContext(ctx).
		Where("notice_number = ? AND notice_order = ?", noticeNumber, noticeOrder))
	if err != nil {
		return nil, fmt.Errorf("failed to get notice: %w", err)
	}
	return notice, nil
}

// GetAward retrieves an award by its natural key
func (s *pgStore) GetAward(ctx context.Context, bidNoticeNumber, bidNoticeOrder string, category domain.Category) (*schema.Award, error) {
	award, err := first[schema.Award](s.db.WithContext(ctx).
		Where("bid_notice_number = ? AND bid_notice_order = ? AND notice_type = ?", bidNoticeNumber, bidNoticeOrder, string(category)))
	if err != nil {
		return nil, fmt.Errorf("failed to get award: %w", err)
	}
	return award, nil
}

// GetOrderPlan retrieves an order plan by its number
func (s *pgStore) GetOrderPlan(ctx context.Context, orderPlanNumber string) (*schema.OrderPlan, error) {
	plan, err := first[schema.OrderPlan](s.db.WithContext(ctx).
		Where("order_plan_number = ?", orderPlanNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to get order plan: %w", err)
	}
	return plan, nil
}

// GetContract retrieves a contract by its natural key
func (s *pgStore) GetContract(ctx context.Context, contractNumber string, category domain.Category) (*schema.Contract, error) {
	contract, err := first[schema.Contract](s.db.WithContext(ctx).
		Where("contract_number = ? AND contract_type = ?", contractNumber, string(category)))
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return contract, nil
}

// CountRecords returns the number of stored records of a kind
func (s *pgStore) CountRecords(ctx context.Context, kind domain.Kind) (int64, error) {
	var model interface{}
	switch kind {
	case domain.KindNotice:
		model = &schema.Notice{}
	case domain.KindAward:
		model = &schema.Award{}
	case domain.KindOrderPlan:
		model = &schema.OrderPlan{}
	case domain.KindContract:
		model = &schema.Contract{}
	default:
		return 0, fmt.Errorf("%w: %s", domain.ErrUnknownKind, kind)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s records: %w", kind, err)
	}
	return count, nil
}

// GetUnenrichedNotices retrieves up to limit notices without a derived category, oldest first
func (s *pgStore) GetUnenrichedNotices(ctx context.Context, limit int) ([]*schema.Notice, error) {
	var notices []*schema.Notice
	err := s.db.WithContext(ctx).
		Where("ai_category IS NULL").
		Order("id ASC").
		Limit(limit).
		Find(&notices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get unenriched notices: %w", err)
	}
	return notices, nil
}

// GetAwardSamplesByAgency retrieves the participant counts of the latest awards of an agency
func (s *pgStore) GetAwardSamplesByAgency(ctx context.Context, agency string, limit int) ([]domain.AwardSample, error) {
	var counts []int
	err := s.db.WithContext(ctx).
		Model(&schema.Award{}).
		Where("notice_institution_name = ? AND participant_count IS NOT NULL", agency).
		Order("opening_date DESC NULLS LAST").
		Order("id DESC").
		Limit(limit).
		Pluck("participant_count", &counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get award samples: %w", err)
	}

	samples := make([]domain.AwardSample, 0, len(counts))
	for _, c := range counts {
		samples = append(samples, domain.AwardSample{ParticipantCount: c})
	}
	return samples, nil
}

// UpdateNoticeEnrichment writes the derived annotations of a notice.
// Only the enrichment columns and updated_at are touched.
func (s *pgStore) UpdateNoticeEnrichment(ctx context.Context, enrichment domain.NoticeEnrichment) error {
	tags := enrichment.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	result := s.db.WithContext(ctx).
		Model(&schema.Notice{}).
		Where("id = ?", enrichment.NoticeID).
		Updates(map[string]interface{}{
			"ai_category":       enrichment.Category,
			"ai_tags":           datatypes.JSON(tagsJSON),
			"competition_level": enrichment.CompetitionLevel,
			"updated_at":        gorm.Expr("GREATEST(?, updated_at + interval '1 microsecond')", s.now()),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update notice enrichment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update notice enrichment: notice %d: %w", enrichment.NoticeID, gorm.ErrRecordNotFound)
	}

	return nil
}

// SetKeyValue sets a key-value pair in the key-value store
func (s *pgStore) SetKeyValue(ctx context.Context, key string, value string) error {
	now := s.now()
	kv := schema.KeyValueStore{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set key-value: %w", err)
	}

	return nil
}

// GetKeyValue retrieves a value by key from the key-value store
func (s *pgStore) GetKeyValue(ctx context.Context, key string) (string, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get key-value: %w", err)
	}

	return kv.Value, nil
}
