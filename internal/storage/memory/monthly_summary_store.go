package memory

import (
	"context"
	"sort"
	"sync"

	"sales-analytics/internal/domain"
	"sales-analytics/internal/storage"
)

// MonthlySummaryStore is an in-memory implementation of storage.MonthlySummaryStore.
type MonthlySummaryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.MonthlySummary // keyed by month
}

// NewMonthlySummaryStore creates a new in-memory monthly summary store.
func NewMonthlySummaryStore() *MonthlySummaryStore {
	return &MonthlySummaryStore{
		data: make(map[string]*domain.MonthlySummary),
	}
}

// Compile-time interface check.
var _ storage.MonthlySummaryStore = (*MonthlySummaryStore)(nil)

// Upsert inserts summaries, replacing existing ones for the same month.
// Validates the whole batch before writing.
func (s *MonthlySummaryStore) Upsert(_ context.Context, summaries []*domain.MonthlySummary) error {
	for _, m := range summaries {
		if m == nil || m.Month == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range summaries {
		mCopy := *m
		s.data[m.Month] = &mCopy
	}
	return nil
}

// GetByMonth retrieves the summary for a month. Returns ErrNotFound if not exists.
func (s *MonthlySummaryStore) GetByMonth(_ context.Context, month string) (*domain.MonthlySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.data[month]
	if !exists {
		return nil, storage.ErrNotFound
	}
	mCopy := *m
	return &mCopy, nil
}

// GetAll retrieves all summaries ordered by month ASC.
func (s *MonthlySummaryStore) GetAll(_ context.Context) ([]*domain.MonthlySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.MonthlySummary, 0, len(s.data))
	for _, m := range s.data {
		mCopy := *m
		result = append(result, &mCopy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result, nil
}
