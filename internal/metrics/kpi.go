package metrics

import (
	"sales-analytics/internal/domain"
	"sales-analytics/internal/enrichment"
)

// KPIs holds the headline metrics of a record collection.
type KPIs struct {
	TotalSales        float64 `json:"totalSales"`
	TotalProfit       float64 `json:"totalProfit"`
	AvgOrderValue     float64 `json:"avgOrderValue"`
	ProfitMargin      float64 `json:"profitMargin"`
	TotalOrders       int     `json:"totalOrders"`
	TotalRecords      int     `json:"totalRecords"`
	TotalShippingCost float64 `json:"totalShippingCost"`
	AvgShippingCost   float64 `json:"avgShippingCost"`
}

// ComputeKPIs computes headline metrics in a single pass.
//
//   - TotalOrders counts distinct order_id values
//   - AvgOrderValue = TotalSales / TotalOrders, 0 if no orders
//   - ProfitMargin = TotalProfit / TotalSales, 0 if TotalSales <= Epsilon
//   - AvgShippingCost = TotalShippingCost / TotalRecords (rows, not orders), 0 if empty
func ComputeKPIs(records []domain.SaleFeatures) KPIs {
	var k KPIs
	orders := make(map[string]struct{})

	for _, r := range records {
		k.TotalSales += r.Sales
		k.TotalProfit += r.Profit
		k.TotalShippingCost += r.ShippingCost
		orders[r.OrderID] = struct{}{}
	}

	k.TotalOrders = len(orders)
	k.TotalRecords = len(records)

	if k.TotalOrders > 0 {
		k.AvgOrderValue = k.TotalSales / float64(k.TotalOrders)
	}
	k.ProfitMargin = enrichment.ProfitMargin(k.TotalProfit, k.TotalSales)
	if k.TotalRecords > 0 {
		k.AvgShippingCost = k.TotalShippingCost / float64(k.TotalRecords)
	}

	return k
}
