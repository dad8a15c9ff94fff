package pipeline

import (
	"context"

	"sales-analytics/internal/domain"
	"sales-analytics/internal/storage"
)

// LoadFixtures populates store with SampleSales for demonstration runs.
func LoadFixtures(ctx context.Context, store storage.SaleStore) error {
	sales := SampleSales()
	ptrs := make([]*domain.Sale, len(sales))
	for i := range sales {
		ptrs[i] = &sales[i]
	}
	return store.InsertBulk(ctx, ptrs)
}

// SampleSales returns a small deterministic dataset covering every region,
// three months, a multi-line order, high discounts and negative profit.
func SampleSales() []domain.Sale {
	return []domain.Sale{
		{
			OrderID: "ORD-1001", OrderDate: "2024-01-03", ShipDate: "2024-01-06",
			CustomerID: "C-001", CustomerName: "Alice Moreno", CustomerSegment: domain.SegmentConsumer,
			ProductID: "P-TEC-01", ProductName: "Ultrabook 14", Category: domain.CategoryTechnology, Subcategory: "Laptops",
			Quantity: 1, Sales: 1299.99, Discount: 0.05, Profit: 210.40,
			Region: domain.RegionWest, City: "Seattle", State: "WA", ShippingCost: 18.50, PaymentType: domain.PaymentCredit,
		},
		{
			OrderID: "ORD-1001", OrderDate: "2024-01-03", ShipDate: "2024-01-06",
			CustomerID: "C-001", CustomerName: "Alice Moreno", CustomerSegment: domain.SegmentConsumer,
			ProductID: "P-TEC-07", ProductName: "USB-C Dock", Category: domain.CategoryTechnology, Subcategory: "Accessories",
			Quantity: 2, Sales: 179.98, Discount: 0.05, Profit: 41.20,
			Region: domain.RegionWest, City: "Seattle", State: "WA", ShippingCost: 4.25, PaymentType: domain.PaymentCredit,
		},
		{
			OrderID: "ORD-1002", OrderDate: "2024-01-09", ShipDate: "2024-01-16",
			CustomerID: "C-014", CustomerName: "Brightline LLC", CustomerSegment: domain.SegmentCorporate,
			ProductID: "P-FUR-03", ProductName: "Executive Desk", Category: domain.CategoryFurniture, Subcategory: "Desks",
			Quantity: 1, Sales: 845.00, Discount: 0.35, Profit: -62.75,
			Region: domain.RegionEast, City: "Boston", State: "MA", ShippingCost: 65.00, PaymentType: domain.PaymentTransfer,
		},
		{
			OrderID: "ORD-1003", OrderDate: "2024-01-15", ShipDate: "2024-01-18",
			CustomerID: "C-022", CustomerName: "Marcus Chen", CustomerSegment: domain.SegmentSmallBusiness,
			ProductID: "P-OFF-11", ProductName: "Copy Paper (10 reams)", Category: domain.CategoryOfficeSupplies, Subcategory: "Paper",
			Quantity: 4, Sales: 219.60, Discount: 0.10, Profit: 48.30,
			Region: domain.RegionMidwest, City: "Chicago", State: "IL", ShippingCost: 12.00, PaymentType: domain.PaymentDebit,
		},
		{
			OrderID: "ORD-1004", OrderDate: "2024-01-22", ShipDate: "2024-01-24",
			CustomerID: "C-031", CustomerName: "Priya Natarajan", CustomerSegment: domain.SegmentOnlineOnly,
			ProductID: "P-APP-05", ProductName: "Rain Shell Jacket", Category: domain.CategoryApparel, Subcategory: "Outerwear",
			Quantity: 1, Sales: 129.00, Discount: 0.00, Profit: 38.70,
			Region: domain.RegionSouth, City: "Austin", State: "TX", ShippingCost: 6.99, PaymentType: domain.PaymentPayPal,
		},
		{
			OrderID: "ORD-1005", OrderDate: "2024-02-02", ShipDate: "2024-02-07",
			CustomerID: "C-014", CustomerName: "Brightline LLC", CustomerSegment: domain.SegmentCorporate,
			ProductID: "P-TEC-12", ProductName: "Conference Speakerphone", Category: domain.CategoryTechnology, Subcategory: "Audio",
			Quantity: 3, Sales: 897.00, Discount: 0.20, Profit: 134.55,
			Region: domain.RegionEast, City: "New York", State: "NY", ShippingCost: 21.00, PaymentType: domain.PaymentTransfer,
		},
		{
			OrderID: "ORD-1006", OrderDate: "2024-02-11", ShipDate: "2024-02-13",
			CustomerID: "C-040", CustomerName: "Elena Petrova", CustomerSegment: domain.SegmentConsumer,
			ProductID: "P-HOM-02", ProductName: "Chef Knife Set", Category: domain.CategoryHomeKitchen, Subcategory: "Cutlery",
			Quantity: 1, Sales: 189.50, Discount: 0.15, Profit: 45.10,
			Region: domain.RegionMountain, City: "Denver", State: "CO", ShippingCost: 8.75, PaymentType: domain.PaymentMobilePay,
		},
		{
			OrderID: "ORD-1007", OrderDate: "2024-02-18", ShipDate: "2024-02-25",
			CustomerID: "C-052", CustomerName: "Harbor Retail Group", CustomerSegment: domain.SegmentRetailer,
			ProductID: "P-HEA-04", ProductName: "Vitamin C Serum", Category: domain.CategoryHealthBeauty, Subcategory: "Skincare",
			Quantity: 24, Sales: 552.00, Discount: 0.40, Profit: -18.40,
			Region: domain.RegionSouth, City: "Atlanta", State: "GA", ShippingCost: 14.30, PaymentType: domain.PaymentBNPL,
		},
		{
			OrderID: "ORD-1008", OrderDate: "2024-02-26", ShipDate: "2024-02-28",
			CustomerID: "C-022", CustomerName: "Marcus Chen", CustomerSegment: domain.SegmentSmallBusiness,
			ProductID: "P-FUR-08", ProductName: "Ergonomic Chair", Category: domain.CategoryFurniture, Subcategory: "Chairs",
			Quantity: 2, Sales: 598.00, Discount: 0.10, Profit: 95.68,
			Region: domain.RegionMidwest, City: "Minneapolis", State: "MN", ShippingCost: 32.00, PaymentType: domain.PaymentCredit,
		},
		{
			OrderID: "ORD-1009", OrderDate: "2024-03-04", ShipDate: "2024-03-05",
			CustomerID: "C-061", CustomerName: "Northwind Enterprises", CustomerSegment: domain.SegmentEnterprise,
			ProductID: "P-TEC-01", ProductName: "Ultrabook 14", Category: domain.CategoryTechnology, Subcategory: "Laptops",
			Quantity: 5, Sales: 5849.95, Discount: 0.10, Profit: 877.50,
			Region: domain.RegionWest, City: "San Jose", State: "CA", ShippingCost: 45.00, PaymentType: domain.PaymentTransfer,
		},
		{
			OrderID: "ORD-1010", OrderDate: "2024-03-12", ShipDate: "2024-03-19",
			CustomerID: "C-031", CustomerName: "Priya Natarajan", CustomerSegment: domain.SegmentOnlineOnly,
			ProductID: "P-OFF-03", ProductName: "Gel Pens (24 pack)", Category: domain.CategoryOfficeSupplies, Subcategory: "Writing",
			Quantity: 3, Sales: 44.85, Discount: 0.00, Profit: 13.45,
			Region: domain.RegionSouth, City: "Austin", State: "TX", ShippingCost: 3.50, PaymentType: domain.PaymentCash,
		},
		{
			OrderID: "ORD-1011", OrderDate: "2024-03-20", ShipDate: "2024-03-26",
			CustomerID: "C-040", CustomerName: "Elena Petrova", CustomerSegment: domain.SegmentConsumer,
			ProductID: "P-APP-09", ProductName: "Trail Running Shoes", Category: domain.CategoryApparel, Subcategory: "Footwear",
			Quantity: 1, Sales: 149.99, Discount: 0.32, Profit: -4.20,
			Region: domain.RegionMountain, City: "Boulder", State: "CO", ShippingCost: 7.25, PaymentType: domain.PaymentDebit,
		},
	}
}
