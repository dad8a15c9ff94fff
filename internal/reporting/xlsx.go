package reporting

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetSummary    = "Summary"
	SheetMonthly    = "Monthly"
	SheetCategories = "Categories"
)

// RenderXLSX renders the report as a workbook with Summary, Monthly and Categories sheets.
func RenderXLSX(r *Report) ([]byte, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	defaultSheet := wb.GetSheetName(wb.GetActiveSheetIndex())
	if err := wb.SetSheetName(defaultSheet, SheetSummary); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetMonthly, SheetCategories} {
		if _, err := wb.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	header, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	summary := [][]interface{}{
		{"Metric", "Value"},
		{"Report ID", r.ID},
		{"Generated", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Snapshot", r.SnapshotID},
		{"Filter", r.Filter},
		{"Total Sales", r.KPIs.TotalSales},
		{"Total Profit", r.KPIs.TotalProfit},
		{"Profit Margin", r.KPIs.ProfitMargin},
		{"Orders", r.KPIs.TotalOrders},
		{"Line Items", r.KPIs.TotalRecords},
		{"Avg Order Value", r.KPIs.AvgOrderValue},
		{"Total Shipping Cost", r.KPIs.TotalShippingCost},
		{"Avg Shipping Cost", r.KPIs.AvgShippingCost},
		{"Top Region", r.TopRegion.Name},
		{"Top Category", r.TopCategory.Name},
		{"Average Discount", r.AverageDiscount},
		{"High Discount Orders", r.HighDiscountOrders},
		{"Negative Profit Orders", r.NegativeProfitOrders},
	}
	if err := writeSheet(wb, SheetSummary, summary, header); err != nil {
		return nil, err
	}

	monthly := [][]interface{}{{"Month", "Sales", "Profit"}}
	for _, p := range r.MonthlyTrend {
		monthly = append(monthly, []interface{}{p.Month, p.Sales, p.Profit})
	}
	if err := writeSheet(wb, SheetMonthly, monthly, header); err != nil {
		return nil, err
	}

	categories := [][]interface{}{{"Category", "Sales", "Shipping Cost"}}
	for _, c := range r.Categories {
		categories = append(categories, []interface{}{c.Category, c.Sales, c.ShippingCost})
	}
	if err := writeSheet(wb, SheetCategories, categories, header); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(wb *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}

	if len(rows) > 0 {
		last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return err
		}
		if err := wb.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style %s header: %w", sheet, err)
		}
	}
	return wb.SetColWidth(sheet, "A", "A", 24)
}
