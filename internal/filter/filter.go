// Package filter narrows a set of feature records the way the dashboard
// sidebar does: by an inclusive order-date range and by region, category
// and payment type.
package filter

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"sales-analytics/internal/domain"
	"sales-analytics/internal/enrichment"
)

// ErrInvalidCriteria is returned when filter parameters cannot be parsed.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// All is the query value that disables a dimension filter.
const All = "all"

const dateLayout = "2006-01-02"

// Criteria selects records. Zero values mean "all".
type Criteria struct {
	From        *time.Time
	To          *time.Time
	Region      domain.Region
	Category    domain.Category
	PaymentType domain.PaymentType
}

// HasDateRange reports whether both ends of the date range are set.
// A half-open range is ignored.
func (c Criteria) HasDateRange() bool {
	return c.From != nil && c.To != nil
}

// IsZero reports whether the criteria match every record.
func (c Criteria) IsZero() bool {
	return !c.HasDateRange() && c.Region == "" && c.Category == "" && c.PaymentType == ""
}

// Match reports whether a single record satisfies the criteria.
// Records whose order_date cannot be parsed never match a date range.
func (c Criteria) Match(r domain.SaleFeatures) bool {
	if c.Region != "" && r.Region != c.Region {
		return false
	}
	if c.Category != "" && r.Category != c.Category {
		return false
	}
	if c.PaymentType != "" && r.PaymentType != c.PaymentType {
		return false
	}
	if c.HasDateRange() {
		d, ok := enrichment.ParseDate(r.OrderDate)
		if !ok {
			return false
		}
		if d.Before(dayOf(*c.From)) || d.After(dayOf(*c.To)) {
			return false
		}
	}
	return true
}

// Apply returns the records matching c in their original order.
// The input slice is never modified; the result is always a new slice.
func Apply(records []domain.SaleFeatures, c Criteria) []domain.SaleFeatures {
	result := make([]domain.SaleFeatures, 0, len(records))
	for _, r := range records {
		if c.Match(r) {
			result = append(result, r)
		}
	}
	return result
}

// Describe renders the criteria as a short human-readable phrase.
func (c Criteria) Describe() string {
	if c.IsZero() {
		return "All records"
	}

	var parts []string
	if c.HasDateRange() {
		parts = append(parts, fmt.Sprintf("%s to %s", c.From.Format(dateLayout), c.To.Format(dateLayout)))
	}
	if c.Region != "" {
		parts = append(parts, "Region: "+c.Region.String())
	}
	if c.Category != "" {
		parts = append(parts, "Category: "+c.Category.String())
	}
	if c.PaymentType != "" {
		parts = append(parts, "Payment: "+c.PaymentType.String())
	}
	return strings.Join(parts, "; ")
}

// Values encodes the criteria as query parameters accepted by ParseQuery.
func (c Criteria) Values() url.Values {
	v := url.Values{}
	if c.HasDateRange() {
		v.Set("from", c.From.Format(dateLayout))
		v.Set("to", c.To.Format(dateLayout))
	}
	if c.Region != "" {
		v.Set("region", c.Region.String())
	}
	if c.Category != "" {
		v.Set("category", c.Category.String())
	}
	if c.PaymentType != "" {
		v.Set("payment_type", c.PaymentType.String())
	}
	return v
}

// ParseQuery builds Criteria from from, to, region, category and payment_type.
// Empty values and "all" disable a dimension. Dates are YYYY-MM-DD and must be
// given together with from <= to.
func ParseQuery(q url.Values) (Criteria, error) {
	var c Criteria

	from, to := strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to"))
	if (from == "") != (to == "") {
		return Criteria{}, fmt.Errorf("%w: from and to must be given together", ErrInvalidCriteria)
	}
	if from != "" {
		f, err := time.Parse(dateLayout, from)
		if err != nil {
			return Criteria{}, fmt.Errorf("%w: from %q: %v", ErrInvalidCriteria, from, err)
		}
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return Criteria{}, fmt.Errorf("%w: to %q: %v", ErrInvalidCriteria, to, err)
		}
		if t.Before(f) {
			return Criteria{}, fmt.Errorf("%w: from %s is after to %s", ErrInvalidCriteria, from, to)
		}
		c.From, c.To = &f, &t
	}

	if v := dimension(q, "region"); v != "" {
		r := domain.Region(v)
		if !r.IsValid() {
			return Criteria{}, fmt.Errorf("%w: unknown region %q", ErrInvalidCriteria, v)
		}
		c.Region = r
	}
	if v := dimension(q, "category"); v != "" {
		cat := domain.Category(v)
		if !cat.IsValid() {
			return Criteria{}, fmt.Errorf("%w: unknown category %q", ErrInvalidCriteria, v)
		}
		c.Category = cat
	}
	if v := dimension(q, "payment_type"); v != "" {
		p := domain.PaymentType(v)
		if !p.IsValid() {
			return Criteria{}, fmt.Errorf("%w: unknown payment type %q", ErrInvalidCriteria, v)
		}
		c.PaymentType = p
	}

	return c, nil
}

func dimension(q url.Values, key string) string {
	v := strings.TrimSpace(q.Get(key))
	if strings.EqualFold(v, All) {
		return ""
	}
	return v
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
