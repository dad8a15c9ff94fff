package clickhouse

import (
	"context"
	"fmt"

	"sales-analytics/internal/domain"
	"sales-analytics/internal/storage"
)

// MonthlySummaryStore implements storage.MonthlySummaryStore using ClickHouse.
// Rows live in a ReplacingMergeTree keyed by month; reads use FINAL so the
// latest upsert per month wins even before a background merge.
type MonthlySummaryStore struct {
	conn *Conn
}

// NewMonthlySummaryStore creates a new MonthlySummaryStore.
func NewMonthlySummaryStore(conn *Conn) *MonthlySummaryStore {
	return &MonthlySummaryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MonthlySummaryStore = (*MonthlySummaryStore)(nil)

// Upsert writes summaries as one batch, replacing any existing row for the same month.
func (s *MonthlySummaryStore) Upsert(ctx context.Context, summaries []*domain.MonthlySummary) error {
	if len(summaries) == 0 {
		return nil
	}
	for _, m := range summaries {
		if m == nil || m.Month == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO monthly_sales_summary (
			month, sales, profit, orders, records, shipping_cost
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, m := range summaries {
		err = batch.Append(
			m.Month, m.Sales, m.Profit,
			uint32(m.Orders), uint32(m.Records), m.ShippingCost,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByMonth retrieves the summary for month (YYYY-MM). Returns ErrNotFound if absent.
func (s *MonthlySummaryStore) GetByMonth(ctx context.Context, month string) (*domain.MonthlySummary, error) {
	query := `
		SELECT month, sales, profit, orders, records, shipping_cost
		FROM monthly_sales_summary FINAL
		WHERE month = ?
	`

	rows, err := s.conn.Query(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("query by month: %w", err)
	}
	defer rows.Close()

	summaries, err := scanMonthlySummaries(rows)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, storage.ErrNotFound
	}
	return summaries[0], nil
}

// GetAll retrieves all summaries ordered by month.
func (s *MonthlySummaryStore) GetAll(ctx context.Context) ([]*domain.MonthlySummary, error) {
	query := `
		SELECT month, sales, profit, orders, records, shipping_cost
		FROM monthly_sales_summary FINAL
		ORDER BY month ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all: %w", err)
	}
	defer rows.Close()

	return scanMonthlySummaries(rows)
}

type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanMonthlySummaries(rows chRows) ([]*domain.MonthlySummary, error) {
	var summaries []*domain.MonthlySummary

	for rows.Next() {
		var (
			m               domain.MonthlySummary
			orders, records uint32
		)
		if err := rows.Scan(&m.Month, &m.Sales, &m.Profit, &orders, &records, &m.ShippingCost); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		m.Orders = int(orders)
		m.Records = int(records)
		summaries = append(summaries, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary rows: %w", err)
	}

	return summaries, nil
}
