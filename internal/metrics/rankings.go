package metrics

import "sales-analytics/internal/domain"

// DefaultTopN is the number of entries returned by rankings when none is requested.
const DefaultTopN = 5

// TopProducts returns the n products with the highest summed sales.
// Ties are ordered by product name ASC. n <= 0 yields an empty slice.
func TopProducts(records []domain.SaleFeatures, n int) []Ranked {
	return topN(GroupSum(records, func(r domain.SaleFeatures) string { return r.ProductName }, sales), n)
}

// TopCustomers returns the n customers with the highest summed sales.
// Ties are ordered by customer name ASC. n <= 0 yields an empty slice.
func TopCustomers(records []domain.SaleFeatures, n int) []Ranked {
	return topN(GroupSum(records, func(r domain.SaleFeatures) string { return r.CustomerName }, sales), n)
}

func topN(g Grouped, n int) []Ranked {
	if n <= 0 {
		return []Ranked{}
	}
	entries := g.Entries()
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries
}

// TopEntry returns the entry with the greatest value, ties broken by key ASC.
// Returns false when no entry has a value greater than 0.
func TopEntry(g Grouped) (Ranked, bool) {
	entries := g.Entries()
	if len(entries) == 0 || entries[0].Sales <= 0 {
		return Ranked{}, false
	}
	return entries[0], true
}
