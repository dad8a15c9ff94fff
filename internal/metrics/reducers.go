package metrics

import "sort"

// Grouped maps a categorical key to a summed value.
// Keys with no matching records are absent, never present with value 0.
type Grouped map[string]float64

// Ranked is a key with its summed value, as returned by rankings.
type Ranked struct {
	Name  string  `json:"name"`
	Sales float64 `json:"sales"`
}

// SumBy sums fn(item) over items, left to right in slice order.
// Returns 0 for an empty slice.
func SumBy[T any](items []T, fn func(T) float64) float64 {
	total := 0.0
	for _, item := range items {
		total += fn(item)
	}
	return total
}

// GroupSum partitions items by key(item) and sums value(item) within each partition.
func GroupSum[T any](items []T, key func(T) string, value func(T) float64) Grouped {
	result := make(Grouped)
	for _, item := range items {
		result[key(item)] += value(item)
	}
	return result
}

// Keys returns the grouping keys sorted ascending.
func (g Grouped) Keys() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total sums all values in key order for reproducible float results.
func (g Grouped) Total() float64 {
	total := 0.0
	for _, k := range g.Keys() {
		total += g[k]
	}
	return total
}

// Entries returns all entries sorted by value DESC, key ASC.
func (g Grouped) Entries() []Ranked {
	entries := make([]Ranked, 0, len(g))
	for k, v := range g {
		entries = append(entries, Ranked{Name: k, Sales: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Sales != entries[j].Sales {
			return entries[i].Sales > entries[j].Sales
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}
