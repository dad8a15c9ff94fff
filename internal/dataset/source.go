// Package dataset loads raw sale records from a Source and owns the
// enriched, in-memory snapshot every aggregation runs against.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"sales-analytics/internal/domain"
	"sales-analytics/internal/observability"
	"sales-analytics/internal/storage"
)

var (
	// ErrFetch is returned when the raw document cannot be retrieved.
	ErrFetch = errors.New("fetch sales data")
	// ErrDecode is returned when the raw document is not a JSON array of sales.
	ErrDecode = errors.New("decode sales data")
)

// Default configuration values.
const (
	DefaultTimeout          = 30 * time.Second
	DefaultMaxDocumentBytes = 64 << 20
)

// Source supplies the complete raw record collection.
type Source interface {
	Fetch(ctx context.Context) ([]domain.Sale, error)
}

// HTTPSource fetches a JSON document over HTTP, bypassing intermediate caches.
type HTTPSource struct {
	url      string
	client   *http.Client
	maxBytes int64
}

// SourceOption configures HTTPSource.
type SourceOption func(*HTTPSource)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) SourceOption {
	return func(s *HTTPSource) {
		s.client.Timeout = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) SourceOption {
	return func(s *HTTPSource) {
		s.client = client
	}
}

// WithMaxDocumentBytes caps the response body size.
func WithMaxDocumentBytes(n int64) SourceOption {
	return func(s *HTTPSource) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// NewHTTPSource creates a source reading the document at url.
func NewHTTPSource(url string, opts ...SourceOption) *HTTPSource {
	s := &HTTPSource{
		url:      url,
		client:   &http.Client{Timeout: DefaultTimeout},
		maxBytes: DefaultMaxDocumentBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch performs GET url with Cache-Control: no-cache.
func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.Sale, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrFetch, err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrFetch, s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: HTTP %d", ErrFetch, s.url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}
	if int64(len(body)) > s.maxBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", ErrFetch, s.maxBytes)
	}

	return Decode(body)
}

// FileSource reads a JSON document from the local filesystem.
type FileSource struct {
	Path string
}

// NewFileSource creates a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Fetch reads and decodes the file. The context is only checked before reading.
func (s *FileSource) Fetch(ctx context.Context) ([]domain.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return Decode(data)
}

// StoreSource reads every stored sale from a SaleStore.
type StoreSource struct {
	store   storage.SaleStore
	backend string
}

// NewStoreSource creates a source over store. backend labels query metrics ("postgres", "memory").
func NewStoreSource(store storage.SaleStore, backend string) *StoreSource {
	return &StoreSource{store: store, backend: backend}
}

// Fetch returns all stored sales ordered by order_date, order_id, product_id.
func (s *StoreSource) Fetch(ctx context.Context) ([]domain.Sale, error) {
	start := time.Now()
	rows, err := s.store.GetAll(ctx)
	observability.RecordDBQuery(s.backend, "get_all_sales", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	sales := make([]domain.Sale, 0, len(rows))
	for _, r := range rows {
		sales = append(sales, *r)
	}
	return sales, nil
}

// Decode parses a JSON array of sales. A JSON null decodes to an empty collection.
func Decode(data []byte) ([]domain.Sale, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || (trimmed[0] != '[' && !bytes.Equal(trimmed, []byte("null"))) {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrDecode)
	}

	var sales []domain.Sale
	if err := json.Unmarshal(trimmed, &sales); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if sales == nil {
		sales = []domain.Sale{}
	}
	return sales, nil
}
