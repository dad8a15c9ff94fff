package metrics

import (
	"sort"
	"strconv"

	"sales-analytics/internal/domain"
)

func sales(r domain.SaleFeatures) float64        { return r.Sales }
func profit(r domain.SaleFeatures) float64       { return r.Profit }
func shippingCost(r domain.SaleFeatures) float64 { return r.ShippingCost }

// SalesByCategory sums sales per category.
func SalesByCategory(records []domain.SaleFeatures) Grouped {
	return GroupSum(records, func(r domain.SaleFeatures) string { return r.Category.String() }, sales)
}

// SalesByRegion sums sales per region.
func SalesByRegion(records []domain.SaleFeatures) Grouped {
	return GroupSum(records, func(r domain.SaleFeatures) string { return r.Region.String() }, sales)
}

// dated drops records whose order or ship date did not parse.
func dated(records []domain.SaleFeatures) []domain.SaleFeatures {
	return keep(records, func(r domain.SaleFeatures) bool { return r.DateValid })
}

// withMonth drops records whose order date did not parse.
func withMonth(records []domain.SaleFeatures) []domain.SaleFeatures {
	return keep(records, func(r domain.SaleFeatures) bool { return r.OrderMonth != "" })
}

func keep(records []domain.SaleFeatures, ok func(domain.SaleFeatures) bool) []domain.SaleFeatures {
	out := make([]domain.SaleFeatures, 0, len(records))
	for _, r := range records {
		if ok(r) {
			out = append(out, r)
		}
	}
	return out
}

// SalesByMonth sums sales per order_month. Records without an order month are skipped.
func SalesByMonth(records []domain.SaleFeatures) Grouped {
	return GroupSum(withMonth(records), func(r domain.SaleFeatures) string { return r.OrderMonth }, sales)
}

// ProfitByMonth sums profit per order_month. Records without an order month are skipped.
func ProfitByMonth(records []domain.SaleFeatures) Grouped {
	return GroupSum(withMonth(records), func(r domain.SaleFeatures) string { return r.OrderMonth }, profit)
}

// SalesByPaymentType sums sales per payment type.
func SalesByPaymentType(records []domain.SaleFeatures) Grouped {
	return GroupSum(records, func(r domain.SaleFeatures) string { return r.PaymentType.String() }, sales)
}

// SalesByShippingDuration sums sales per shipping duration, keyed by the
// decimal day count ("0", "5", "-2"). Undated records are skipped.
func SalesByShippingDuration(records []domain.SaleFeatures) Grouped {
	return GroupSum(dated(records), func(r domain.SaleFeatures) string { return strconv.Itoa(r.ShippingDuration) }, sales)
}

// ShippingCostByCategory sums shipping cost per category.
func ShippingCostByCategory(records []domain.SaleFeatures) Grouped {
	return GroupSum(records, func(r domain.SaleFeatures) string { return r.Category.String() }, shippingCost)
}

// SalesBySubcategory sums sales per subcategory within a single category.
func SalesBySubcategory(records []domain.SaleFeatures, category domain.Category) Grouped {
	result := make(Grouped)
	for _, r := range records {
		if r.Category == category {
			result[r.Subcategory] += r.Sales
		}
	}
	return result
}

// SalesBySegment returns one row per customer segment of the closed set,
// in display order, with 0 for segments without records.
func SalesBySegment(records []domain.SaleFeatures) []Ranked {
	totals := GroupSum(records, func(r domain.SaleFeatures) string { return r.CustomerSegment.String() }, sales)
	segments := domain.AllCustomerSegments()
	result := make([]Ranked, len(segments))
	for i, s := range segments {
		result[i] = Ranked{Name: s.String(), Sales: totals[s.String()]}
	}
	return result
}

// RegionSales returns one row per region of the closed set, in display order,
// with 0 for regions without records.
func RegionSales(records []domain.SaleFeatures) []Ranked {
	totals := SalesByRegion(records)
	regions := domain.AllRegions()
	result := make([]Ranked, len(regions))
	for i, r := range regions {
		result[i] = Ranked{Name: r.String(), Sales: totals[r.String()]}
	}
	return result
}

// TrendPoint is one month of the sales/profit trend.
type TrendPoint struct {
	Month  string  `json:"month"`
	Sales  float64 `json:"sales"`
	Profit float64 `json:"profit"`
}

// MonthlyTrend returns sales and profit per month, sorted by month ASC.
// Records without an order month are skipped.
func MonthlyTrend(records []domain.SaleFeatures) []TrendPoint {
	type acc struct{ sales, profit float64 }
	byMonth := make(map[string]*acc)
	for _, r := range withMonth(records) {
		a, ok := byMonth[r.OrderMonth]
		if !ok {
			a = &acc{}
			byMonth[r.OrderMonth] = a
		}
		a.sales += r.Sales
		a.profit += r.Profit
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	result := make([]TrendPoint, 0, len(months))
	for _, m := range months {
		result = append(result, TrendPoint{Month: m, Sales: byMonth[m].sales, Profit: byMonth[m].profit})
	}
	return result
}
