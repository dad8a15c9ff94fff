package storage

import (
	"context"

	"sales-analytics/internal/domain"
)

// SaleStore provides access to sales storage (raw line items).
type SaleStore interface {
	// InsertBulk adds multiple sales atomically.
	// Fails entire batch with ErrDuplicateKey if any (order_id, product_id) line exists.
	InsertBulk(ctx context.Context, sales []*domain.Sale) error

	// GetAll retrieves all sales ordered by order_date, order_id, product_id ASC.
	GetAll(ctx context.Context) ([]*domain.Sale, error)

	// GetByDateRange retrieves sales with order_date within [from, to] (inclusive, YYYY-MM-DD).
	GetByDateRange(ctx context.Context, from, to string) ([]*domain.Sale, error)

	// Count returns the number of stored sales.
	Count(ctx context.Context) (int, error)
}

// MonthlySummaryStore provides access to monthly_sales_summary storage.
type MonthlySummaryStore interface {
	// Upsert inserts summaries, replacing any existing summary for the same month.
	Upsert(ctx context.Context, summaries []*domain.MonthlySummary) error

	// GetByMonth retrieves the summary for a month. Returns ErrNotFound if not exists.
	GetByMonth(ctx context.Context, month string) (*domain.MonthlySummary, error)

	// GetAll retrieves all summaries ordered by month ASC.
	GetAll(ctx context.Context) ([]*domain.MonthlySummary, error)
}
