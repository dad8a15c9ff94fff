package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sales-analytics/internal/config"
	"sales-analytics/internal/dataset"
	"sales-analytics/internal/domain"
	"sales-analytics/internal/metrics"
	"sales-analytics/internal/pipeline"
	"sales-analytics/internal/storage"
	chstore "sales-analytics/internal/storage/clickhouse"
	"sales-analytics/internal/storage/memory"
	"sales-analytics/internal/storage/migrations"
	pgstore "sales-analytics/internal/storage/postgres"
)

func main() {
	config.LoadEnvFile(".env")

	configPath := flag.String("config", "", "Path to config.toml (default: ./config.toml if present)")
	input := flag.String("input", "", "Path to a JSON sales document")
	sourceURL := flag.String("url", "", "URL of a JSON sales document")
	useFixtures := flag.Bool("use-fixtures", false, "Ingest built-in sample sales")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (default from config)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string; refreshes monthly summaries when set")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of databases (dry run)")
	skipMigrations := flag.Bool("skip-migrations", false, "Do not apply schema migrations before ingesting")
	flag.Parse()

	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *postgresDSN == "" {
		*postgresDSN = cfg.Postgres.DSN
	}
	if *clickhouseDSN == "" {
		*clickhouseDSN = cfg.ClickHouse.DSN
	}

	if !*useMemory && *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn is required")
		fmt.Fprintln(os.Stderr, "Use --use-memory for a dry run without databases")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling ingest", sig)
		cancel()
	}()

	sales, err := readSales(ctx, cfg, *useFixtures, *input, *sourceURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading sales: %v\n", err)
		os.Exit(1)
	}
	logger.Printf("Read %d sales", len(sales))

	var (
		saleStore    storage.SaleStore
		summaryStore storage.MonthlySummaryStore
	)

	if *useMemory {
		saleStore = memory.NewSaleStore()
		summaryStore = memory.NewMonthlySummaryStore()
	} else {
		pool, err := pgstore.NewPool(ctx, *postgresDSN, pgstore.WithMaxConns(int32(cfg.Postgres.MaxConns)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()

		if !*skipMigrations {
			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				fmt.Fprintf(os.Stderr, "Error running postgres migrations: %v\n", err)
				os.Exit(1)
			}
		}
		saleStore = pgstore.NewSaleStore(pool)

		if *clickhouseDSN != "" {
			conn, err := openClickhouse(ctx, *clickhouseDSN, *skipMigrations)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error connecting to clickhouse: %v\n", err)
				os.Exit(1)
			}
			defer conn.Close()
			summaryStore = chstore.NewMonthlySummaryStore(conn)
		}
	}

	p := pipeline.NewIngestPipeline(saleStore).WithLogger(logger)
	if summaryStore != nil {
		p = p.WithAggregator(metrics.NewAggregator(summaryStore))
	}

	result, err := p.Run(ctx, sales)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error ingesting sales: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Ingested %d sales in %s\n", result.Sales, result.Duration)
	if len(result.Summaries) > 0 {
		fmt.Printf("Refreshed %d monthly summaries (%s to %s)\n",
			len(result.Summaries), result.Summaries[0].Month, result.Summaries[len(result.Summaries)-1].Month)
	}
	if result.InvalidDates > 0 {
		fmt.Printf("Warning: %d stored sales have unparseable dates and are excluded from summaries\n", result.InvalidDates)
	}
}

// readSales fetches the input document: --use-fixtures, then --input,
// then --url, then the configured dataset file or URL.
func readSales(ctx context.Context, cfg *config.Config, useFixtures bool, input, sourceURL string) ([]domain.Sale, error) {
	var src dataset.Source

	switch {
	case useFixtures:
		return pipeline.SampleSales(), nil
	case input != "":
		src = dataset.NewFileSource(input)
	case sourceURL != "":
		src = dataset.NewHTTPSource(sourceURL, dataset.WithTimeout(cfg.Dataset.TimeoutDuration()))
	case cfg.Dataset.Source == config.SourceHTTP:
		src = dataset.NewHTTPSource(cfg.Dataset.URL, dataset.WithTimeout(cfg.Dataset.TimeoutDuration()))
	case cfg.Dataset.Source == config.SourceFile:
		src = dataset.NewFileSource(cfg.Dataset.Path)
	default:
		return nil, fmt.Errorf("dataset source %q cannot be ingested; use --input or --url", cfg.Dataset.Source)
	}

	return src.Fetch(ctx)
}

func openClickhouse(ctx context.Context, dsn string, skipMigrations bool) (*chstore.Conn, error) {
	if skipMigrations {
		return chstore.NewConn(ctx, dsn)
	}
	return migrations.RunClickhouseMigrations(ctx, dsn)
}
