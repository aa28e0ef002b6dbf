package store

import (
	"context"

	"github.com/g2b-insight/g2b-indexer/internal/domain"
	"github.com/g2b-insight/g2b-indexer/internal/store/schema"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// =============================================================================
	// Ingestion
	// =============================================================================

	// UpsertNotice inserts a notice or merges it into the row with the same natural key
	UpsertNotice(ctx context.Context, notice *domain.Notice) error
	// UpsertAward inserts an award or merges it into the row with the same natural key
	UpsertAward(ctx context.Context, award *domain.Award) error
	// UpsertOrderPlan inserts an order plan or merges it into the row with the same natural key
	UpsertOrderPlan(ctx context.Context, plan *domain.OrderPlan) error
	// UpsertContract inserts a contract or merges it into the row with the same natural key
	UpsertContract(ctx context.Context, contract *domain.Contract) error

	// =============================================================================
	// Lookups
	// =============================================================================

	// GetNotice retrieves a notice by its natural key, nil when absent
	GetNotice(ctx context.Context, noticeNumber, noticeOrder string) (*schema.Notice, error)
	// GetAward retrieves an award by its natural key, nil when absent
	GetAward(ctx context.Context, bidNoticeNumber, bidNoticeOrder string, category domain.Category) (*schema.Award, error)
	// GetOrderPlan retrieves an order plan by its number, nil when absent
	GetOrderPlan(ctx context.Context, orderPlanNumber string) (*schema.OrderPlan, error)
	// GetContract retrieves a contract by its natural key, nil when absent
	GetContract(ctx context.Context, contractNumber string, category domain.Category) (*schema.Contract, error)
	// CountRecords returns the number of stored records of a kind
	CountRecords(ctx context.Context, kind domain.Kind) (int64, error)

	// =============================================================================
	// Enrichment
	// =============================================================================

	// GetUnenrichedNotices retrieves up to limit notices without a derived category, oldest first
	GetUnenrichedNotices(ctx context.Context, limit int) ([]*schema.Notice, error)
	// GetAwardSamplesByAgency retrieves the participant counts of the latest awards of an agency
	GetAwardSamplesByAgency(ctx context.Context, agency string, limit int) ([]domain.AwardSample, error)
	// UpdateNoticeEnrichment writes the derived annotations of a notice
	UpdateNoticeEnrichment(ctx context.Context, enrichment domain.NoticeEnrichment) error

	// =============================================================================
	// Key-value state
	// =============================================================================

	// SetKeyValue sets a key-value pair in the key-value store
	SetKeyValue(ctx context.Context, key string, value string) error
	// GetKeyValue retrieves a value by key, "" when absent
	GetKeyValue(ctx context.Context, key string) (string, error)
}
