// Package api serves the sales dashboard over HTTP: JSON aggregation
// endpoints, report downloads and a websocket KPI feed.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sales-analytics/internal/dataset"
	"sales-analytics/internal/metrics"
	"sales-analytics/internal/observability"
	"sales-analytics/internal/reporting"
)

const (
	DefaultPingInterval = 30 * time.Second
	writeWait           = 10 * time.Second
)

// Server exposes the cached dataset over HTTP.
type Server struct {
	cache        *dataset.Cache
	gen          *reporting.Generator
	metrics      *observability.Metrics
	logger       *log.Logger
	topN         int
	pingInterval time.Duration
	upgrader     websocket.Upgrader
	started      time.Time

	mu          sync.Mutex
	refreshes   int
	lastRefresh time.Time
	lastError   string
}

// Option configures Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithGenerator sets the report generator used by /api/report.
func WithGenerator(g *reporting.Generator) Option {
	return func(s *Server) {
		s.gen = g
	}
}

// WithTopN sets the default ranking length for /api/top/*.
func WithTopN(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithPingInterval sets the websocket keepalive interval.
func WithPingInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.pingInterval = d
		}
	}
}

// NewServer creates an API server over cache.
func NewServer(cache *dataset.Cache, opts ...Option) *Server {
	s := &Server{
		cache:        cache,
		metrics:      observability.DefaultMetrics,
		logger:       log.Default(),
		topN:         metrics.DefaultTopN,
		pingInterval: DefaultPingInterval,
		started:      time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = reporting.NewGenerator().WithTopN(s.topN)
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	return s
}

// Handler returns the HTTP handler with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.route(mux, "GET /health", s.handleHealth)
	s.route(mux, "GET /status", s.handleStatus)
	mux.Handle("GET /metrics", observability.Handler())

	s.route(mux, "GET /api/kpis", s.handleKPIs)
	s.route(mux, "GET /api/sales/by-category", s.grouped(metrics.SalesByCategory))
	s.route(mux, "GET /api/sales/by-region", s.grouped(metrics.SalesByRegion))
	s.route(mux, "GET /api/sales/by-month", s.chronological(metrics.SalesByMonth))
	s.route(mux, "GET /api/sales/by-payment-type", s.grouped(metrics.SalesByPaymentType))
	s.route(mux, "GET /api/sales/by-shipping-duration", s.grouped(metrics.SalesByShippingDuration))
	s.route(mux, "GET /api/sales/by-segment", s.handleSegments)
	s.route(mux, "GET /api/shipping-cost/by-category", s.grouped(metrics.ShippingCostByCategory))
	s.route(mux, "GET /api/trend", s.handleTrend)
	s.route(mux, "GET /api/top/products", s.ranking(metrics.TopProducts))
	s.route(mux, "GET /api/top/customers", s.ranking(metrics.TopCustomers))
	s.route(mux, "GET /api/report", s.handleReport)
	s.route(mux, "GET /api/records", s.handleRecords)
	s.route(mux, "POST /api/refresh", s.handleRefresh)

	// Hijacked connections cannot be wrapped by the status recorder.
	mux.HandleFunc("GET /ws/kpis", s.handleKPIFeed)

	return mux
}

func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, s.instrument(pattern, h))
}

// instrument records request count and latency per route.
func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		s.metrics.RecordHTTPRequest(route, strconv.Itoa(rec.status), time.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// StatusResponse is the JSON response for /status.
type StatusResponse struct {
	Status       string     `json:"status"`
	Uptime       string     `json:"uptime"`
	Started      time.Time  `json:"started"`
	SnapshotID   string     `json:"snapshotId,omitempty"`
	Records      int        `json:"records"`
	InvalidDates int        `json:"invalidDates"`
	LoadedAt     *time.Time `json:"loadedAt,omitempty"`
	Refreshes    int        `json:"refreshes"`
	LastRefresh  *time.Time `json:"lastRefresh,omitempty"`
	LastError    string     `json:"lastError,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status:  "running",
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Started: s.started,
	}

	if snap, ok := s.cache.Snapshot(); ok {
		resp.SnapshotID = snap.ID
		resp.Records = len(snap.Records)
		resp.InvalidDates = snap.InvalidDates
		loadedAt := snap.LoadedAt
		resp.LoadedAt = &loadedAt
	} else {
		resp.Status = "empty"
	}

	s.mu.Lock()
	resp.Refreshes = s.refreshes
	if !s.lastRefresh.IsZero() {
		lastRefresh := s.lastRefresh
		resp.LastRefresh = &lastRefresh
	}
	resp.LastError = s.lastError
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// RefreshResponse is the JSON response for POST /api/refresh.
type RefreshResponse struct {
	SnapshotID   string    `json:"snapshotId"`
	Records      int       `json:"records"`
	InvalidDates int       `json:"invalidDates"`
	LoadedAt     time.Time `json:"loadedAt"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Refresh(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, RefreshResponse{
		SnapshotID:   snap.ID,
		Records:      len(snap.Records),
		InvalidDates: snap.InvalidDates,
		LoadedAt:     snap.LoadedAt,
	})
}

// Refresh forces a dataset reload and records the outcome for /status.
func (s *Server) Refresh(ctx context.Context) (dataset.Snapshot, error) {
	snap, err := s.cache.LoadSnapshot(ctx, true)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshes++
	s.lastRefresh = time.Now()
	if err != nil {
		s.lastError = err.Error()
		s.logger.Printf("refresh failed: %v", err)
		return dataset.Snapshot{}, err
	}
	s.lastError = ""
	return snap, nil
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
