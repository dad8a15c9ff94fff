package enrichment

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-analytics/internal/domain"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

func sale(orderDate, shipDate string, sales, profit float64) domain.Sale {
	return domain.Sale{
		OrderID:   "A1",
		OrderDate: orderDate,
		ShipDate:  shipDate,
		Sales:     sales,
		Profit:    profit,
		Category:  domain.CategoryTechnology,
		Region:    domain.RegionWest,
	}
}

func TestEnrich_TemporalFields(t *testing.T) {
	tests := []struct {
		name         string
		orderDate    string
		shipDate     string
		wantMonth    string
		wantQuarter  string
		wantYear     int
		wantDuration int
	}{
		{"january", "2024-01-10", "2024-01-15", "2024-01", "2024-Q1", 2024, 5},
		{"february", "2024-02-01", "2024-02-03", "2024-02", "2024-Q1", 2024, 2},
		{"march ends Q1", "2023-03-31", "2023-04-02", "2023-03", "2023-Q1", 2023, 2},
		{"april starts Q2", "2023-04-01", "2023-04-01", "2023-04", "2023-Q2", 2023, 0},
		{"september Q3", "2022-09-15", "2022-09-20", "2022-09", "2022-Q3", 2022, 5},
		{"december Q4 crossing year", "2021-12-30", "2022-01-04", "2021-12", "2021-Q4", 2021, 5},
		{"ship before order", "2024-05-10", "2024-05-07", "2024-05", "2024-Q2", 2024, -3},
		{"leap day", "2024-02-28", "2024-03-01", "2024-02", "2024-Q1", 2024, 2},
		{"timestamps truncated to date", "2024-06-01T23:30:00Z", "2024-06-03T01:00:00Z", "2024-06", "2024-Q2", 2024, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Enrich(sale(tt.orderDate, tt.shipDate, 100, 10))

			assert.True(t, f.DateValid)
			assert.Equal(t, tt.wantMonth, f.OrderMonth)
			assert.Regexp(t, monthPattern, f.OrderMonth)
			assert.Equal(t, tt.wantQuarter, f.OrderQuarter)
			assert.Equal(t, tt.wantYear, f.OrderYear)
			assert.Equal(t, tt.wantDuration, f.ShippingDuration)
		})
	}
}

func TestEnrich_ProfitMargin(t *testing.T) {
	tests := []struct {
		name   string
		sales  float64
		profit float64
		want   float64
	}{
		{"positive", 200, 50, 0.25},
		{"negative profit", 100, -20, -0.2},
		{"zero sales", 0, 15, 0},
		{"zero sales negative profit", 0, -15, 0},
		{"below epsilon", 1e-7, 5, 0},
		{"exactly epsilon", 1e-6, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Enrich(sale("2024-01-01", "2024-01-02", tt.sales, tt.profit))
			assert.Equal(t, tt.want, f.ProfitMargin)
		})
	}
}

func TestEnrich_ProfitMarginMatchesRatioAboveEpsilon(t *testing.T) {
	for _, s := range []float64{2e-6, 0.5, 1, 33.3, 1234.56} {
		for _, p := range []float64{-10, 0, 0.01, 99.9} {
			f := Enrich(sale("2024-01-01", "2024-01-02", s, p))
			assert.Equal(t, p/s, f.ProfitMargin)
		}
	}
}

func TestEnrich_PreservesSale(t *testing.T) {
	in := sale("2024-01-10", "2024-01-15", 200, 50)
	in.Quantity = 3
	in.PaymentType = domain.PaymentBNPL

	f := Enrich(in)
	assert.Equal(t, in, f.Sale)
}

func TestEnrich_Idempotent(t *testing.T) {
	in := sale("2024-07-04", "2024-07-09", 10, 1)
	assert.Equal(t, Enrich(in), Enrich(in))
}

func TestEnrich_MalformedDates(t *testing.T) {
	t.Run("bad order date", func(t *testing.T) {
		f := Enrich(sale("not-a-date", "2024-01-02", 100, 10))
		assert.False(t, f.DateValid)
		assert.Empty(t, f.OrderMonth)
		assert.Empty(t, f.OrderQuarter)
		assert.Zero(t, f.OrderYear)
		assert.Zero(t, f.ShippingDuration)
		assert.Equal(t, 0.1, f.ProfitMargin)
	})

	t.Run("bad ship date keeps order fields", func(t *testing.T) {
		f := Enrich(sale("2024-03-05", "", 100, 10))
		assert.False(t, f.DateValid)
		assert.Equal(t, "2024-03", f.OrderMonth)
		assert.Equal(t, 2024, f.OrderYear)
		assert.Zero(t, f.ShippingDuration)
	})
}

func TestEnrichAll(t *testing.T) {
	sales := []domain.Sale{
		sale("2024-01-10", "2024-01-15", 200, 50),
		sale("garbage", "2024-01-15", 10, 1),
		sale("2024-02-01", "2024-02-03", 100, -20),
	}

	got, invalid := EnrichAll(sales)
	require.Len(t, got, 3)
	assert.Equal(t, 1, invalid)
	assert.Equal(t, "2024-01", got[0].OrderMonth)
	assert.Equal(t, "2024-02", got[2].OrderMonth)

	empty, invalid := EnrichAll(nil)
	assert.Empty(t, empty)
	assert.Zero(t, invalid)
}
