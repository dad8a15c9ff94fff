package metrics

import (
	"context"
	"errors"
	"sort"

	"sales-analytics/internal/domain"
	"sales-analytics/internal/storage"
)

// ErrNoRecords is returned when no records are available for aggregation.
var ErrNoRecords = errors.New("no records available for aggregation")

// MonthlySummaries rolls records up per order_month, sorted by month ASC.
// Records with an empty order_month are skipped.
func MonthlySummaries(records []domain.SaleFeatures) []*domain.MonthlySummary {
	byMonth := make(map[string]*domain.MonthlySummary)
	orders := make(map[string]map[string]struct{})

	for _, r := range records {
		if r.OrderMonth == "" {
			continue
		}
		s, ok := byMonth[r.OrderMonth]
		if !ok {
			s = &domain.MonthlySummary{Month: r.OrderMonth}
			byMonth[r.OrderMonth] = s
			orders[r.OrderMonth] = make(map[string]struct{})
		}
		s.Sales += r.Sales
		s.Profit += r.Profit
		s.ShippingCost += r.ShippingCost
		s.Records++
		orders[r.OrderMonth][r.OrderID] = struct{}{}
	}

	result := make([]*domain.MonthlySummary, 0, len(byMonth))
	for month, s := range byMonth {
		s.Orders = len(orders[month])
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result
}

// Aggregator computes monthly rollups from feature records and persists them.
type Aggregator struct {
	summaryStore storage.MonthlySummaryStore
}

// NewAggregator creates a new monthly summary aggregator.
func NewAggregator(summaryStore storage.MonthlySummaryStore) *Aggregator {
	return &Aggregator{summaryStore: summaryStore}
}

// ComputeAndStore computes monthly summaries and upserts them.
// Returns ErrNoRecords if no record carries a valid order month.
func (a *Aggregator) ComputeAndStore(ctx context.Context, records []domain.SaleFeatures) ([]*domain.MonthlySummary, error) {
	summaries := MonthlySummaries(records)
	if len(summaries) == 0 {
		return nil, ErrNoRecords
	}

	if err := a.summaryStore.Upsert(ctx, summaries); err != nil {
		return nil, err
	}

	return summaries, nil
}
