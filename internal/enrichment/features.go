package enrichment

import (
	"fmt"
	"math"
	"time"

	"sales-analytics/internal/domain"
)

// Epsilon is the near-zero sales threshold below which ratios are defined as 0.
const Epsilon = 1e-6

const day = 24 * time.Hour

// dateLayouts are tried in order when parsing order_date and ship_date.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Enrich builds the feature record for a single sale.
//
// Derived fields:
//   - order_month = YYYY-MM of order_date
//   - order_quarter = YYYY-Qn, n = ceil(month/3)
//   - order_year = calendar year of order_date
//   - profit_margin = profit / sales, 0 when sales <= Epsilon
//   - shipping_duration = round((ship_date - order_date) / 24h), may be 0 or negative
//
// Enrich never fails. When a date cannot be parsed the dependent fields keep
// their zero values and DateValid is false.
func Enrich(sale domain.Sale) domain.SaleFeatures {
	f := domain.SaleFeatures{
		Sale:         sale,
		ProfitMargin: ProfitMargin(sale.Profit, sale.Sales),
	}

	orderDate, orderOK := ParseDate(sale.OrderDate)
	shipDate, shipOK := ParseDate(sale.ShipDate)

	if orderOK {
		year, month := orderDate.Year(), int(orderDate.Month())
		f.OrderYear = year
		f.OrderMonth = fmt.Sprintf("%04d-%02d", year, month)
		f.OrderQuarter = fmt.Sprintf("%04d-Q%d", year, (month-1)/3+1)
	}
	if orderOK && shipOK {
		f.ShippingDuration = int(math.Round(float64(shipDate.Sub(orderDate)) / float64(day)))
	}
	f.DateValid = orderOK && shipOK

	return f
}

// EnrichAll enriches sales in input order.
// Returns the feature records and the number of records with unparseable dates.
func EnrichAll(sales []domain.Sale) ([]domain.SaleFeatures, int) {
	result := make([]domain.SaleFeatures, len(sales))
	invalid := 0
	for i, s := range sales {
		result[i] = Enrich(s)
		if !result[i].DateValid {
			invalid++
		}
	}
	return result, invalid
}

// ProfitMargin returns profit / sales, or 0 when sales <= Epsilon.
func ProfitMargin(profit, sales float64) float64 {
	if sales > Epsilon {
		return profit / sales
	}
	return 0
}

// ParseDate parses an ISO-8601 date or timestamp and returns its calendar
// date at UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
