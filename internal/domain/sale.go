package domain

// Sale represents one raw transaction line item.
// One order may span several Sale records sharing the same OrderID.
type Sale struct {
	OrderID         string          `json:"order_id"`
	OrderDate       string          `json:"order_date"` // ISO-8601 calendar date
	ShipDate        string          `json:"ship_date"`  // ISO-8601 calendar date
	CustomerID      string          `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerSegment CustomerSegment `json:"customer_segment"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Category        Category        `json:"category"`
	Subcategory     string          `json:"subcategory"`
	Quantity        int             `json:"quantity"`
	Sales           float64         `json:"sales"`
	Discount        float64         `json:"discount"` // fraction, 0.0-0.4
	Profit          float64         `json:"profit"`   // may be negative
	Region          Region          `json:"region"`
	City            string          `json:"city"`
	State           string          `json:"state"`
	ShippingCost    float64         `json:"shipping_cost"`
	PaymentType     PaymentType     `json:"payment_type"`
}

// SaleFeatures is a Sale with derived fields computed once at ingestion.
// Values are never mutated after construction.
type SaleFeatures struct {
	Sale

	OrderMonth       string  `json:"order_month"`       // YYYY-MM
	OrderQuarter     string  `json:"order_quarter"`     // YYYY-Qn
	OrderYear        int     `json:"order_year"`        // calendar year of order_date
	ProfitMargin     float64 `json:"profit_margin"`     // profit / sales, 0 when sales <= epsilon
	ShippingDuration int     `json:"shipping_duration"` // days between order and ship date

	// DateValid is false when order_date or ship_date could not be parsed.
	// Temporal fields of such records hold zero values.
	DateValid bool `json:"date_valid"`
}

// MonthlySummary is a per-month rollup of sales records.
// Corresponds to monthly_sales_summary table in ClickHouse.
type MonthlySummary struct {
	Month        string  // YYYY-MM
	Sales        float64 // sum of sales
	Profit       float64 // sum of profit
	Orders       int     // distinct order_id count
	Records      int     // line-item count
	ShippingCost float64 // sum of shipping_cost
}
