package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"sales-analytics/internal/domain"
	"sales-analytics/internal/enrichment"
	"sales-analytics/internal/metrics"
	"sales-analytics/internal/observability"
	"sales-analytics/internal/storage"
)

// IngestResult summarizes one ingest run.
type IngestResult struct {
	Sales        int
	InvalidDates int
	Summaries    []*domain.MonthlySummary
	Duration     time.Duration
}

// IngestPipeline persists raw sales and refreshes the monthly rollup.
type IngestPipeline struct {
	saleStore  storage.SaleStore
	aggregator *metrics.Aggregator // optional
	metrics    *observability.Metrics
	logger     *log.Logger
	clock      func() time.Time
}

// NewIngestPipeline creates an ingest pipeline writing to saleStore.
func NewIngestPipeline(saleStore storage.SaleStore) *IngestPipeline {
	return &IngestPipeline{
		saleStore: saleStore,
		metrics:   observability.DefaultMetrics,
		logger:    log.Default(),
		clock:     time.Now,
	}
}

// WithAggregator enables the monthly rollup after sales are stored.
func (p *IngestPipeline) WithAggregator(agg *metrics.Aggregator) *IngestPipeline {
	p.aggregator = agg
	return p
}

// WithMetrics sets the metrics sink.
func (p *IngestPipeline) WithMetrics(m *observability.Metrics) *IngestPipeline {
	if m != nil {
		p.metrics = m
	}
	return p
}

// WithLogger sets the pipeline logger.
func (p *IngestPipeline) WithLogger(logger *log.Logger) *IngestPipeline {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// WithClock sets a custom clock function.
func (p *IngestPipeline) WithClock(clock func() time.Time) *IngestPipeline {
	p.clock = clock
	return p
}

// Run inserts sales as one batch, then rolls every stored sale up per month.
// The rollup covers the whole table so months spanning several runs stay complete.
func (p *IngestPipeline) Run(ctx context.Context, sales []domain.Sale) (*IngestResult, error) {
	start := p.clock()

	ptrs := make([]*domain.Sale, len(sales))
	for i := range sales {
		ptrs[i] = &sales[i]
	}
	if err := p.saleStore.InsertBulk(ctx, ptrs); err != nil {
		return nil, fmt.Errorf("insert sales: %w", err)
	}
	p.metrics.RecordRowsIngested("sales", len(sales))
	p.logger.Printf("inserted %d sales", len(sales))

	result := &IngestResult{Sales: len(sales)}

	if p.aggregator != nil {
		stored, err := p.saleStore.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("read sales: %w", err)
		}
		all := make([]domain.Sale, len(stored))
		for i, s := range stored {
			all[i] = *s
		}
		records, invalid := enrichment.EnrichAll(all)
		result.InvalidDates = invalid

		summaries, err := p.aggregator.ComputeAndStore(ctx, records)
		if err != nil && !errors.Is(err, metrics.ErrNoRecords) {
			return nil, fmt.Errorf("aggregate: %w", err)
		}
		result.Summaries = summaries
		p.metrics.RecordRowsIngested("monthly_sales_summary", len(summaries))
		p.logger.Printf("stored %d monthly summaries", len(summaries))
	}

	result.Duration = p.clock().Sub(start)
	return result, nil
}
