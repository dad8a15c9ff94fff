package reporting

import (
	"time"

	"sales-analytics/internal/metrics"
)

// NotAvailable labels a leader (top region, top category) when no group has positive sales.
const NotAvailable = "N/A"

// Report is the sales report for one filtered view of a snapshot.
type Report struct {
	// Metadata
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generatedAt"`
	SnapshotID  string    `json:"snapshotId,omitempty"`
	Filter      string    `json:"filter"`

	// Summary
	KPIs        metrics.KPIs   `json:"kpis"`
	TopRegion   metrics.Ranked `json:"topRegion"`   // Name is NotAvailable when empty
	TopCategory metrics.Ranked `json:"topCategory"` // Name is NotAvailable when empty

	// Discount impact
	AverageDiscount      float64 `json:"averageDiscount"`
	HighDiscountOrders   int     `json:"highDiscountOrders"` // discount > metrics.HighDiscountThreshold
	NegativeProfitOrders int     `json:"negativeProfitOrders"`

	AverageShippingDuration float64 `json:"averageShippingDuration"`
	InvalidDateRecords      int     `json:"invalidDateRecords"`

	// Breakdowns
	RegionSales  []metrics.Ranked     `json:"regionSales"` // every region, closed-set order
	Categories   []CategoryRow        `json:"categories"`  // sales DESC, name ASC
	MonthlyTrend []metrics.TrendPoint `json:"monthlyTrend"`
	TopProducts  []metrics.Ranked     `json:"topProducts"`
	TopCustomers []metrics.Ranked     `json:"topCustomers"`
}

// CategoryRow is one category's totals.
type CategoryRow struct {
	Category     string  `json:"category"`
	Sales        float64 `json:"sales"`
	ShippingCost float64 `json:"shippingCost"`
}

// HasData reports whether the filtered view contained any records.
func (r *Report) HasData() bool {
	return r.KPIs.TotalRecords > 0
}
