package memory

import (
	"context"
	"sort"
	"sync"

	"sales-analytics/internal/domain"
	"sales-analytics/internal/storage"
)

// SaleStore is an in-memory implementation of storage.SaleStore.
type SaleStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Sale // keyed by order_id|product_id
}

// NewSaleStore creates a new in-memory sale store.
func NewSaleStore() *SaleStore {
	return &SaleStore{
		data: make(map[string]*domain.Sale),
	}
}

// Compile-time interface check.
var _ storage.SaleStore = (*SaleStore)(nil)

func saleKey(s *domain.Sale) string {
	return s.OrderID + "|" + s.ProductID
}

// InsertBulk adds multiple sales atomically. Fails entire batch on any duplicate.
func (s *SaleStore) InsertBulk(_ context.Context, sales []*domain.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(sales))

	// First pass: check for duplicates (existing + intra-batch)
	for _, sale := range sales {
		if sale == nil || sale.OrderID == "" {
			return storage.ErrInvalidInput
		}
		key := saleKey(sale)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all
	for _, sale := range sales {
		saleCopy := *sale
		s.data[saleKey(sale)] = &saleCopy
	}

	return nil
}

// GetAll retrieves all sales ordered by order_date, order_id, product_id ASC.
func (s *SaleStore) GetAll(_ context.Context) ([]*domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Sale, 0, len(s.data))
	for _, sale := range s.data {
		saleCopy := *sale
		result = append(result, &saleCopy)
	}
	sortSales(result)
	return result, nil
}

// GetByDateRange retrieves sales with order_date within [from, to] (inclusive).
func (s *SaleStore) GetByDateRange(_ context.Context, from, to string) ([]*domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Sale
	for _, sale := range s.data {
		d := dateKey(sale.OrderDate)
		if d >= from && d <= to {
			saleCopy := *sale
			result = append(result, &saleCopy)
		}
	}
	sortSales(result)
	return result, nil
}

// Count returns the number of stored sales.
func (s *SaleStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}

// dateKey returns the YYYY-MM-DD prefix of an ISO-8601 date or timestamp.
func dateKey(date string) string {
	if len(date) > 10 {
		return date[:10]
	}
	return date
}

func sortSales(sales []*domain.Sale) {
	sort.Slice(sales, func(i, j int) bool {
		if sales[i].OrderDate != sales[j].OrderDate {
			return sales[i].OrderDate < sales[j].OrderDate
		}
		if sales[i].OrderID != sales[j].OrderID {
			return sales[i].OrderID < sales[j].OrderID
		}
		return sales[i].ProductID < sales[j].ProductID
	})
}
