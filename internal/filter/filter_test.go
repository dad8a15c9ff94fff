package filter

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-analytics/internal/domain"
	"sales-analytics/internal/enrichment"
)

func record(orderID, orderDate string, region domain.Region, category domain.Category, payment domain.PaymentType) domain.SaleFeatures {
	return enrichment.Enrich(domain.Sale{
		OrderID:     orderID,
		OrderDate:   orderDate,
		ShipDate:    orderDate,
		Region:      region,
		Category:    category,
		PaymentType: payment,
		Sales:       10,
	})
}

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func sampleRecords() []domain.SaleFeatures {
	return []domain.SaleFeatures{
		record("A1", "2024-01-01", domain.RegionWest, domain.CategoryTechnology, domain.PaymentCredit),
		record("A2", "2024-01-15T18:30:00Z", domain.RegionEast, domain.CategoryTechnology, domain.PaymentCash),
		record("A3", "2024-01-31", domain.RegionWest, domain.CategoryApparel, domain.PaymentCredit),
		record("A4", "2024-02-01", domain.RegionWest, domain.CategoryTechnology, domain.PaymentCredit),
		record("A5", "not-a-date", domain.RegionWest, domain.CategoryTechnology, domain.PaymentCredit),
	}
}

func ids(records []domain.SaleFeatures) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.OrderID
	}
	return out
}

func TestApply(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"zero criteria matches everything", Criteria{}, []string{"A1", "A2", "A3", "A4", "A5"}},
		{"inclusive date range", Criteria{From: date("2024-01-01"), To: date("2024-01-31")}, []string{"A1", "A2", "A3"}},
		{"single day range", Criteria{From: date("2024-01-15"), To: date("2024-01-15")}, []string{"A2"}},
		{"half range ignored", Criteria{From: date("2024-02-01")}, []string{"A1", "A2", "A3", "A4", "A5"}},
		{"region", Criteria{Region: domain.RegionEast}, []string{"A2"}},
		{"category", Criteria{Category: domain.CategoryApparel}, []string{"A3"}},
		{"payment type", Criteria{PaymentType: domain.PaymentCash}, []string{"A2"}},
		{
			"combined",
			Criteria{From: date("2024-01-01"), To: date("2024-02-28"), Region: domain.RegionWest, Category: domain.CategoryTechnology},
			[]string{"A1", "A4"},
		},
		{"no match", Criteria{Region: domain.RegionMountain}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(records, tt.criteria)))
		})
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	before := ids(records)

	out := Apply(records, Criteria{Region: domain.RegionEast})
	require.Len(t, out, 1)
	out[0].OrderID = "changed"

	assert.Equal(t, before, ids(records))
	assert.NotNil(t, Apply(nil, Criteria{}))
}

func TestParseQuery(t *testing.T) {
	c, err := ParseQuery(url.Values{
		"from":         {"2024-01-01"},
		"to":           {"2024-03-31"},
		"region":       {"West"},
		"category":     {"all"},
		"payment_type": {"Mobile Pay"},
	})
	require.NoError(t, err)
	require.True(t, c.HasDateRange())
	assert.Equal(t, "2024-01-01", c.From.Format("2006-01-02"))
	assert.Equal(t, domain.RegionWest, c.Region)
	assert.Empty(t, c.Category)
	assert.Equal(t, domain.PaymentMobilePay, c.PaymentType)

	c, err = ParseQuery(url.Values{"region": {"ALL"}})
	require.NoError(t, err)
	assert.True(t, c.IsZero())
}

func TestParseQuery_Invalid(t *testing.T) {
	tests := []struct {
		name string
		q    url.Values
	}{
		{"unknown region", url.Values{"region": {"Atlantis"}}},
		{"unknown category", url.Values{"category": {"Toys"}}},
		{"unknown payment type", url.Values{"payment_type": {"Barter"}}},
		{"malformed from", url.Values{"from": {"01/02/2024"}, "to": {"2024-02-01"}}},
		{"malformed to", url.Values{"from": {"2024-01-01"}, "to": {"soon"}}},
		{"only from", url.Values{"from": {"2024-01-01"}}},
		{"reversed range", url.Values{"from": {"2024-02-01"}, "to": {"2024-01-01"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuery(tt.q)
			assert.True(t, errors.Is(err, ErrInvalidCriteria), "got %v", err)
		})
	}
}

func TestDescribeAndValues(t *testing.T) {
	assert.Equal(t, "All records", Criteria{}.Describe())

	c := Criteria{From: date("2024-01-01"), To: date("2024-01-31"), Region: domain.RegionSouth, PaymentType: domain.PaymentBNPL}
	assert.Equal(t, "2024-01-01 to 2024-01-31; Region: South; Payment: BNPL", c.Describe())

	round, err := ParseQuery(c.Values())
	require.NoError(t, err)
	assert.Equal(t, c.Describe(), round.Describe())
}
