package reporting

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// RenderMonthlyCSV renders the monthly trend as CSV: month,sales,profit.
func RenderMonthlyCSV(r *Report) (string, error) {
	rows := [][]string{{"month", "sales", "profit"}}
	for _, p := range r.MonthlyTrend {
		rows = append(rows, []string{p.Month, formatFloat(p.Sales), formatFloat(p.Profit)})
	}
	return writeCSV(rows)
}

// RenderCategoryCSV renders category totals as CSV: category,sales,shipping_cost.
func RenderCategoryCSV(r *Report) (string, error) {
	rows := [][]string{{"category", "sales", "shipping_cost"}}
	for _, c := range r.Categories {
		rows = append(rows, []string{c.Category, formatFloat(c.Sales), formatFloat(c.ShippingCost)})
	}
	return writeCSV(rows)
}

func writeCSV(rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
