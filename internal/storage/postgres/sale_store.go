package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"sales-analytics/internal/domain"
	"sales-analytics/internal/storage"
)

// SaleStore implements storage.SaleStore using PostgreSQL.
type SaleStore struct {
	pool *Pool
}

// NewSaleStore creates a new SaleStore.
func NewSaleStore(pool *Pool) *SaleStore {
	return &SaleStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SaleStore = (*SaleStore)(nil)

const saleColumns = `
	order_id, order_date, ship_date,
	customer_id, customer_name, customer_segment,
	product_id, product_name, category, subcategory,
	quantity, sales, discount, profit,
	region, city, state, shipping_cost, payment_type`

// InsertBulk adds multiple sales in one transaction. Fails entire batch on any duplicate.
func (s *SaleStore) InsertBulk(ctx context.Context, sales []*domain.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	for _, sale := range sales {
		if sale == nil || sale.OrderID == "" {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO sales (` + saleColumns + `) VALUES (
		$1, $2, $3,
		$4, $5, $6,
		$7, $8, $9, $10,
		$11, $12, $13, $14,
		$15, $16, $17, $18, $19
	)`

	batch := &pgx.Batch{}
	for _, sale := range sales {
		batch.Queue(query,
			sale.OrderID, sale.OrderDate, sale.ShipDate,
			sale.CustomerID, sale.CustomerName, string(sale.CustomerSegment),
			sale.ProductID, sale.ProductName, string(sale.Category), sale.Subcategory,
			sale.Quantity, sale.Sales, sale.Discount, sale.Profit,
			string(sale.Region), sale.City, sale.State, sale.ShippingCost, string(sale.PaymentType),
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range sales {
		if _, err := results.Exec(); err != nil {
			results.Close()
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert sale in bulk: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetAll retrieves every sale ordered by order_date, order_id, product_id.
func (s *SaleStore) GetAll(ctx context.Context) ([]*domain.Sale, error) {
	query := `SELECT ` + saleColumns + `
		FROM sales
		ORDER BY order_date ASC, order_id ASC, product_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	return scanSales(rows)
}

// GetByDateRange retrieves sales whose order date falls within [from, to] (YYYY-MM-DD, inclusive).
func (s *SaleStore) GetByDateRange(ctx context.Context, from, to string) ([]*domain.Sale, error) {
	query := `SELECT ` + saleColumns + `
		FROM sales
		WHERE left(order_date, 10) >= $1 AND left(order_date, 10) <= $2
		ORDER BY order_date ASC, order_id ASC, product_id ASC`

	rows, err := s.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query sales by date range: %w", err)
	}
	defer rows.Close()

	return scanSales(rows)
}

// Count returns the number of stored sale lines.
func (s *SaleStore) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM sales`).Scan(&n); err != nil {
		if isNotFoundError(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return int(n), nil
}

func scanSales(rows pgx.Rows) ([]*domain.Sale, error) {
	var sales []*domain.Sale

	for rows.Next() {
		var (
			sale                                   domain.Sale
			segment, category, region, paymentType string
		)
		err := rows.Scan(
			&sale.OrderID, &sale.OrderDate, &sale.ShipDate,
			&sale.CustomerID, &sale.CustomerName, &segment,
			&sale.ProductID, &sale.ProductName, &category, &sale.Subcategory,
			&sale.Quantity, &sale.Sales, &sale.Discount, &sale.Profit,
			&region, &sale.City, &sale.State, &sale.ShippingCost, &paymentType,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sale row: %w", err)
		}
		sale.CustomerSegment = domain.CustomerSegment(segment)
		sale.Category = domain.Category(category)
		sale.Region = domain.Region(region)
		sale.PaymentType = domain.PaymentType(paymentType)
		sales = append(sales, &sale)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale rows: %w", err)
	}

	return sales, nil
}
