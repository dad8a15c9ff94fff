package metrics

import "sales-analytics/internal/domain"

// HighDiscountThreshold is the discount above which a record counts as heavily discounted.
const HighDiscountThreshold = 0.3

// AverageDiscount returns the mean discount, 0 for an empty slice.
func AverageDiscount(records []domain.SaleFeatures) float64 {
	if len(records) == 0 {
		return 0
	}
	return SumBy(records, func(r domain.SaleFeatures) float64 { return r.Discount }) / float64(len(records))
}

// AverageShippingDuration returns the mean shipping duration in days over
// dated records, 0 when there are none.
func AverageShippingDuration(records []domain.SaleFeatures) float64 {
	valid := dated(records)
	if len(valid) == 0 {
		return 0
	}
	return SumBy(valid, func(r domain.SaleFeatures) float64 { return float64(r.ShippingDuration) }) / float64(len(valid))
}

// CountHighDiscount counts records with discount strictly above threshold.
func CountHighDiscount(records []domain.SaleFeatures, threshold float64) int {
	n := 0
	for _, r := range records {
		if r.Discount > threshold {
			n++
		}
	}
	return n
}

// CountNegativeProfit counts records with profit below zero.
func CountNegativeProfit(records []domain.SaleFeatures) int {
	n := 0
	for _, r := range records {
		if r.Profit < 0 {
			n++
		}
	}
	return n
}
