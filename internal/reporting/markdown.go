package reporting

import (
	"fmt"
	"strings"
	"time"

	"sales-analytics/internal/metrics"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Sales Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.SnapshotID != "" {
		sb.WriteString(fmt.Sprintf("Snapshot: `%s`\n\n", r.SnapshotID))
	}
	sb.WriteString(fmt.Sprintf("Filter: %s\n\n", r.Filter))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Sales | %s |\n", formatMoney(r.KPIs.TotalSales)))
	sb.WriteString(fmt.Sprintf("| Total Profit | %s |\n", formatMoney(r.KPIs.TotalProfit)))
	sb.WriteString(fmt.Sprintf("| Profit Margin | %s |\n", formatPercent(r.KPIs.ProfitMargin)))
	sb.WriteString(fmt.Sprintf("| Orders | %s |\n", formatCount(r.KPIs.TotalOrders)))
	sb.WriteString(fmt.Sprintf("| Line Items | %s |\n", formatCount(r.KPIs.TotalRecords)))
	sb.WriteString(fmt.Sprintf("| Avg Order Value | %s |\n", formatMoney(r.KPIs.AvgOrderValue)))
	sb.WriteString(fmt.Sprintf("| Total Shipping Cost | %s |\n", formatMoney(r.KPIs.TotalShippingCost)))
	sb.WriteString(fmt.Sprintf("| Avg Shipping Duration | %.1f days |\n", r.AverageShippingDuration))
	sb.WriteString(fmt.Sprintf("| Top Region | %s |\n", leaderCell(r.TopRegion)))
	sb.WriteString(fmt.Sprintf("| Top Category | %s |\n", leaderCell(r.TopCategory)))
	sb.WriteString(fmt.Sprintf("| Average Discount | %s |\n", formatPercent(r.AverageDiscount)))
	sb.WriteString("\n")

	if r.InvalidDateRecords > 0 {
		sb.WriteString(fmt.Sprintf("> %d records have unparseable dates and are excluded from date-based views.\n\n",
			r.InvalidDateRecords))
	}

	// Narrative
	sb.WriteString("## Performance Overview\n\n")
	sb.WriteString(fmt.Sprintf(
		"The selected period shows a total of %s orders, generating %s in revenue and %s in profit. "+
			"The profit margin is %s. The top-performing region, %s, contributes significantly to sales, "+
			"while %s leads among product categories.\n\n",
		formatCount(r.KPIs.TotalOrders), formatMoney(r.KPIs.TotalSales), formatMoney(r.KPIs.TotalProfit),
		formatPercent(r.KPIs.ProfitMargin), r.TopRegion.Name, r.TopCategory.Name))

	sb.WriteString("## Discount Impact\n\n")
	sb.WriteString(fmt.Sprintf(
		"Discounts averaging %s have been applied across transactions. %d orders had discounts exceeding %s, "+
			"and %d orders resulted in negative profit. Review discount strategies for high-discount orders "+
			"to protect margins.\n\n",
		formatPercent(r.AverageDiscount), r.HighDiscountOrders, formatPercent(metrics.HighDiscountThreshold),
		r.NegativeProfitOrders))

	sb.WriteString("## Regional Insights\n\n")
	if r.TopRegion.Name == NotAvailable {
		sb.WriteString("No regional data available.\n\n")
	} else {
		sb.WriteString(fmt.Sprintf(
			"%s leads with %s in sales. Other regions may benefit from targeted marketing to boost sales.\n\n",
			r.TopRegion.Name, formatMoney(r.TopRegion.Sales)))
	}

	sb.WriteString("## Recommendations\n\n")
	sb.WriteString(fmt.Sprintf(
		"- Reduce high discounts in underperforming categories and regions.\n"+
			"- Promote top-performing products in %s to maintain sales momentum.\n"+
			"- Expand marketing in underperforming regions to balance the sales distribution.\n\n",
		r.TopCategory.Name))

	// Breakdowns
	sb.WriteString("## Sales by Region\n\n")
	sb.WriteString("| Region | Sales |\n")
	sb.WriteString("|--------|-------|\n")
	for _, row := range r.RegionSales {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", row.Name, formatMoney(row.Sales)))
	}
	sb.WriteString("\n")

	sb.WriteString("## Sales by Category\n\n")
	if len(r.Categories) > 0 {
		sb.WriteString("| Category | Sales | Shipping Cost |\n")
		sb.WriteString("|----------|-------|---------------|\n")
		for _, row := range r.Categories {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
				row.Category, formatMoney(row.Sales), formatMoney(row.ShippingCost)))
		}
	} else {
		sb.WriteString("No category data available.\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Monthly Trend\n\n")
	if len(r.MonthlyTrend) > 0 {
		sb.WriteString("| Month | Sales | Profit |\n")
		sb.WriteString("|-------|-------|--------|\n")
		for _, p := range r.MonthlyTrend {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", p.Month, formatMoney(p.Sales), formatMoney(p.Profit)))
		}
	} else {
		sb.WriteString("No monthly data available.\n")
	}
	sb.WriteString("\n")

	writeRanking(&sb, "Top Products", "Product", r.TopProducts)
	writeRanking(&sb, "Top Customers", "Customer", r.TopCustomers)

	return sb.String()
}

func writeRanking(sb *strings.Builder, title, column string, rows []metrics.Ranked) {
	sb.WriteString(fmt.Sprintf("## %s\n\n", title))
	if len(rows) == 0 {
		sb.WriteString("No data available.\n\n")
		return
	}
	sb.WriteString(fmt.Sprintf("| # | %s | Sales |\n", column))
	sb.WriteString("|---|" + strings.Repeat("-", len(column)+2) + "|-------|\n")
	for i, row := range rows {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s |\n", i+1, escapeCell(row.Name), formatMoney(row.Sales)))
	}
	sb.WriteString("\n")
}

func leaderCell(r metrics.Ranked) string {
	if r.Name == NotAvailable {
		return NotAvailable
	}
	return fmt.Sprintf("%s (%s)", r.Name, formatMoney(r.Sales))
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
