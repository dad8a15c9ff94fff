package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sales-analytics/internal/dataset"
	"sales-analytics/internal/domain"
	"sales-analytics/internal/filter"
	"sales-analytics/internal/metrics"
	"sales-analytics/internal/reporting"
)

// ErrInvalidParam is returned for malformed non-filter query parameters.
var ErrInvalidParam = errors.New("invalid query parameter")

// view is one request's filtered slice of the current snapshot.
type view struct {
	snap     dataset.Snapshot
	criteria filter.Criteria
	records  []domain.SaleFeatures
}

// load parses the filter and loads the snapshot. On failure it writes the
// error response (400 for bad filters, 502 for load failures) and returns false.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (view, bool) {
	criteria, err := filter.ParseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return view{}, false
	}

	snap, err := s.cache.LoadSnapshot(r.Context(), false)
	if err != nil {
		s.logger.Printf("load dataset: %v", err)
		writeError(w, http.StatusBadGateway, err)
		return view{}, false
	}

	return view{
		snap:     snap,
		criteria: criteria,
		records:  filter.Apply(snap.Records, criteria),
	}, true
}

// Envelope wraps every aggregation payload with the snapshot and filter it was computed over.
type Envelope struct {
	SnapshotID string      `json:"snapshotId"`
	Filter     string      `json:"filter"`
	Data       interface{} `json:"data"`
}

func (v view) envelope(data interface{}) Envelope {
	return Envelope{
		SnapshotID: v.snap.ID,
		Filter:     v.criteria.Describe(),
		Data:       data,
	}
}

// KPIResponse is the payload of /api/kpis.
type KPIResponse struct {
	metrics.KPIs
	AverageDiscount         float64 `json:"averageDiscount"`
	AverageShippingDuration float64 `json:"averageShippingDuration"`
	HighDiscountOrders      int     `json:"highDiscountOrders"`
	NegativeProfitOrders    int     `json:"negativeProfitOrders"`
}

func computeKPIResponse(records []domain.SaleFeatures) KPIResponse {
	return KPIResponse{
		KPIs:                    metrics.ComputeKPIs(records),
		AverageDiscount:         metrics.AverageDiscount(records),
		AverageShippingDuration: metrics.AverageShippingDuration(records),
		HighDiscountOrders:      metrics.CountHighDiscount(records, metrics.HighDiscountThreshold),
		NegativeProfitOrders:    metrics.CountNegativeProfit(records),
	}
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	v, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v.envelope(computeKPIResponse(v.records)))
}

// grouped serves a grouped sum as entries ordered by value DESC, key ASC.
func (s *Server) grouped(fn func([]domain.SaleFeatures) metrics.Grouped) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := s.load(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, v.envelope(fn(v.records).Entries()))
	}
}

// chronological serves a grouped sum ordered by key ASC.
func (s *Server) chronological(fn func([]domain.SaleFeatures) metrics.Grouped) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := s.load(w, r)
		if !ok {
			return
		}
		g := fn(v.records)
		out := make([]metrics.Ranked, 0, len(g))
		for _, k := range g.Keys() {
			out = append(out, metrics.Ranked{Name: k, Sales: g[k]})
		}
		writeJSON(w, http.StatusOK, v.envelope(out))
	}
}

func (s *Server) handleSegments(w http.ResponseWriter, r *http.Request) {
	v, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v.envelope(metrics.SalesBySegment(v.records)))
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	v, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v.envelope(metrics.MonthlyTrend(v.records)))
}

// ranking serves a top-N list; n defaults to the server's topN.
func (s *Server) ranking(fn func([]domain.SaleFeatures, int) []metrics.Ranked) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := s.topN
		if raw := r.URL.Query().Get("n"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Errorf("%w: n %q is not an integer", ErrInvalidParam, raw))
				return
			}
			n = parsed
		}

		v, ok := s.load(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, v.envelope(fn(v.records, n)))
	}
}

// RecordsResponse is the payload of /api/records.
type RecordsResponse struct {
	Count   int                   `json:"count"`
	Records []domain.SaleFeatures `json:"records"`
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	v, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v.envelope(RecordsResponse{
		Count:   len(v.records),
		Records: v.records,
	}))
}

// Report formats accepted by /api/report?format=.
const (
	FormatJSON        = "json"
	FormatMarkdown    = "markdown"
	FormatMonthlyCSV  = "csv"
	FormatCategoryCSV = "categories-csv"
	FormatXLSX        = "xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = FormatJSON
	}
	switch format {
	case FormatJSON, FormatMarkdown, FormatMonthlyCSV, FormatCategoryCSV, FormatXLSX:
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: unknown report format %q", ErrInvalidParam, format))
		return
	}

	v, ok := s.load(w, r)
	if !ok {
		return
	}
	report := s.gen.GenerateSnapshot(v.snap, v.criteria)

	var (
		body        []byte
		contentType string
		filename    string
	)
	switch format {
	case FormatJSON:
		s.metrics.RecordReport(format)
		writeJSON(w, http.StatusOK, report)
		return
	case FormatMarkdown:
		body = []byte(reporting.RenderMarkdown(report))
		contentType = "text/markdown; charset=utf-8"
	case FormatMonthlyCSV, FormatCategoryCSV:
		render := reporting.RenderMonthlyCSV
		filename = "monthly.csv"
		if format == FormatCategoryCSV {
			render = reporting.RenderCategoryCSV
			filename = "categories.csv"
		}
		out, err := render(report)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		body = []byte(out)
		contentType = "text/csv; charset=utf-8"
	case FormatXLSX:
		out, err := reporting.RenderXLSX(report)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		body = out
		contentType = xlsxContentType
		filename = "sales_report_" + report.GeneratedAt.Format(time.DateOnly) + ".xlsx"
	}

	s.metrics.RecordReport(format)
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
