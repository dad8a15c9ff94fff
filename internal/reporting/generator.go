package reporting

import (
	"time"

	"github.com/google/uuid"

	"sales-analytics/internal/dataset"
	"sales-analytics/internal/domain"
	"sales-analytics/internal/filter"
	"sales-analytics/internal/metrics"
)

// Generator produces reports from enriched records.
type Generator struct {
	now   func() time.Time // Injectable clock for deterministic output
	newID func() string
	topN  int
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
		topN:  metrics.DefaultTopN,
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithIDFunc sets the report ID generator.
func (g *Generator) WithIDFunc(newID func() string) *Generator {
	g.newID = newID
	return g
}

// WithTopN sets the length of the product and customer rankings.
func (g *Generator) WithTopN(n int) *Generator {
	g.topN = n
	return g
}

// GenerateSnapshot builds a report over snap narrowed by criteria.
func (g *Generator) GenerateSnapshot(snap dataset.Snapshot, criteria filter.Criteria) *Report {
	r := g.Generate(snap.Records, criteria)
	r.SnapshotID = snap.ID
	return r
}

// Generate builds a report over records narrowed by criteria.
// records is not modified.
func (g *Generator) Generate(records []domain.SaleFeatures, criteria filter.Criteria) *Report {
	view := filter.Apply(records, criteria)

	r := &Report{
		ID:          g.newID(),
		GeneratedAt: g.now(),
		Filter:      criteria.Describe(),
		KPIs:        metrics.ComputeKPIs(view),

		AverageDiscount:         metrics.AverageDiscount(view),
		HighDiscountOrders:      metrics.CountHighDiscount(view, metrics.HighDiscountThreshold),
		NegativeProfitOrders:    metrics.CountNegativeProfit(view),
		AverageShippingDuration: metrics.AverageShippingDuration(view),

		RegionSales:  metrics.RegionSales(view),
		Categories:   categoryRows(view),
		MonthlyTrend: metrics.MonthlyTrend(view),
		TopProducts:  metrics.TopProducts(view, g.topN),
		TopCustomers: metrics.TopCustomers(view, g.topN),
	}

	r.TopRegion = leader(metrics.SalesByRegion(view))
	r.TopCategory = leader(metrics.SalesByCategory(view))

	for _, rec := range view {
		if !rec.DateValid {
			r.InvalidDateRecords++
		}
	}

	return r
}

func leader(g metrics.Grouped) metrics.Ranked {
	if top, ok := metrics.TopEntry(g); ok {
		return top
	}
	return metrics.Ranked{Name: NotAvailable}
}

func categoryRows(records []domain.SaleFeatures) []CategoryRow {
	sales := metrics.SalesByCategory(records)
	shipping := metrics.ShippingCostByCategory(records)

	rows := make([]CategoryRow, 0, len(sales))
	for _, e := range sales.Entries() {
		rows = append(rows, CategoryRow{
			Category:     e.Name,
			Sales:        e.Sales,
			ShippingCost: shipping[e.Name],
		})
	}
	return rows
}
