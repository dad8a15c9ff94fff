package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"sales-analytics/internal/dataset"
	"sales-analytics/internal/filter"
	"sales-analytics/internal/metrics"
	"sales-analytics/internal/observability"
	"sales-analytics/internal/reporting"
)

// Output file names written by ReportPipeline.
const (
	ReportMarkdownFile = "SALES_REPORT.md"
	ReportXLSXFile     = "SALES_REPORT.xlsx"
	MonthlyCSVFile     = "monthly.csv"
	CategoryCSVFile    = "categories.csv"
)

// ReportPipeline renders a report for one snapshot into an output directory.
type ReportPipeline struct {
	gen        *reporting.Generator
	aggregator *metrics.Aggregator // optional, persists monthly rollups
	metrics    *observability.Metrics
	logger     *log.Logger
	outputDir  string
}

// NewReportPipeline creates a report pipeline writing to outputDir.
func NewReportPipeline(gen *reporting.Generator, outputDir string) *ReportPipeline {
	return &ReportPipeline{
		gen:       gen,
		metrics:   observability.DefaultMetrics,
		logger:    log.Default(),
		outputDir: outputDir,
	}
}

// WithAggregator stores monthly summaries of the filtered view after rendering.
func (p *ReportPipeline) WithAggregator(agg *metrics.Aggregator) *ReportPipeline {
	p.aggregator = agg
	return p
}

// WithMetrics sets the metrics sink.
func (p *ReportPipeline) WithMetrics(m *observability.Metrics) *ReportPipeline {
	if m != nil {
		p.metrics = m
	}
	return p
}

// WithLogger sets the pipeline logger.
func (p *ReportPipeline) WithLogger(logger *log.Logger) *ReportPipeline {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Run executes the pipeline and writes:
//   - SALES_REPORT.md
//   - SALES_REPORT.xlsx
//   - monthly.csv
//   - categories.csv
func (p *ReportPipeline) Run(ctx context.Context, snap dataset.Snapshot, criteria filter.Criteria) (*reporting.Report, error) {
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return nil, err
	}

	report := p.gen.GenerateSnapshot(snap, criteria)

	if err := p.write(ReportMarkdownFile, []byte(reporting.RenderMarkdown(report))); err != nil {
		return nil, err
	}
	p.metrics.RecordReport("markdown")

	monthly, err := reporting.RenderMonthlyCSV(report)
	if err != nil {
		return nil, fmt.Errorf("render monthly csv: %w", err)
	}
	if err := p.write(MonthlyCSVFile, []byte(monthly)); err != nil {
		return nil, err
	}

	categories, err := reporting.RenderCategoryCSV(report)
	if err != nil {
		return nil, fmt.Errorf("render category csv: %w", err)
	}
	if err := p.write(CategoryCSVFile, []byte(categories)); err != nil {
		return nil, err
	}
	p.metrics.RecordReport("csv")

	workbook, err := reporting.RenderXLSX(report)
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	if err := p.write(ReportXLSXFile, workbook); err != nil {
		return nil, err
	}
	p.metrics.RecordReport("xlsx")

	if p.aggregator != nil && report.HasData() {
		summaries, err := p.aggregator.ComputeAndStore(ctx, filter.Apply(snap.Records, criteria))
		if err != nil && !errors.Is(err, metrics.ErrNoRecords) {
			return nil, fmt.Errorf("store monthly summaries: %w", err)
		}
		p.logger.Printf("stored %d monthly summaries", len(summaries))
	}

	p.logger.Printf("report %s written to %s", report.ID, p.outputDir)
	return report, nil
}

func (p *ReportPipeline) write(name string, data []byte) error {
	path := filepath.Join(p.outputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
