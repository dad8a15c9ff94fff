package reporting

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// formatMoney renders whole dollars with thousands separators: $12,346, -$40.
func formatMoney(v float64) string {
	v = math.Round(v)
	if v == 0 {
		return "$0"
	}
	if v < 0 {
		return "-$" + printer.Sprintf("%.0f", -v)
	}
	return "$" + printer.Sprintf("%.0f", v)
}

// formatCount renders an integer with thousands separators.
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// formatPercent renders a fraction as a percentage with one decimal: 0.1234 -> 12.3%.
func formatPercent(fraction float64) string {
	return printer.Sprintf("%.1f%%", fraction*100)
}
