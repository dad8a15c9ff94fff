// Package main runs the sales analytics HTTP service:
// - JSON aggregation endpoints and report downloads under /api
// - websocket KPI feed on /ws/kpis
// - /health, /status and Prometheus /metrics
// - optional periodic dataset refresh
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-analytics/internal/api"
	"sales-analytics/internal/config"
	"sales-analytics/internal/dataset"
	"sales-analytics/internal/pipeline"
	"sales-analytics/internal/storage/memory"
	pgstore "sales-analytics/internal/storage/postgres"
)

func main() {
	config.LoadEnvFile(".env")

	configPath := flag.String("config", "", "Path to config.toml (default: ./config.toml if present)")
	addr := flag.String("addr", "", "HTTP listen address (default from config)")
	input := flag.String("input", "", "Path to a JSON sales document")
	sourceURL := flag.String("url", "", "URL of a JSON sales document")
	postgresDSN := flag.String("postgres-dsn", "", "Read sales from PostgreSQL")
	useFixtures := flag.Bool("use-fixtures", false, "Serve built-in sample sales")
	refreshInterval := flag.Duration("refresh-interval", -1, "Forced dataset reload interval, 0 disables (default from config)")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if *addr == "" {
		*addr = cfg.Server.Addr
	}
	if *refreshInterval < 0 {
		*refreshInterval = cfg.Server.RefreshIntervalDuration()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, cleanup, err := createSource(ctx, cfg, *useFixtures, *input, *sourceURL, *postgresDSN)
	if err != nil {
		logger.Fatalf("Failed to create data source: %v", err)
	}
	defer cleanup()

	cache := dataset.NewCache(src, dataset.WithLogger(log.New(os.Stdout, "[dataset] ", log.LstdFlags)))
	server := api.NewServer(cache,
		api.WithLogger(log.New(os.Stdout, "[api] ", log.LstdFlags)),
		api.WithTopN(cfg.Report.TopN),
	)

	httpServer := &http.Server{
		Addr:         *addr,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		// Wait for second signal for immediate shutdown
		sig = <-sigCh
		logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
		os.Exit(1)
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Printf("Starting HTTP server on %s", *addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancelShutdown()
		return httpServer.Shutdown(shutdownCtx)
	})

	// Warm the cache so the first request does not pay for the fetch.
	g.Go(func() error {
		if _, err := cache.LoadSnapshot(gctx, false); err != nil {
			logger.Printf("Initial dataset load failed: %v", err)
		}
		return nil
	})

	if *refreshInterval > 0 {
		g.Go(func() error {
			return runRefreshLoop(gctx, logger, server, *refreshInterval)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// runRefreshLoop forces a dataset reload every interval until ctx is done.
// A failed refresh is logged and the previous snapshot keeps serving.
func runRefreshLoop(ctx context.Context, logger *log.Logger, server *api.Server, interval time.Duration) error {
	logger.Printf("Refreshing dataset every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snap, err := server.Refresh(ctx)
			if err != nil {
				continue
			}
			logger.Printf("Dataset refreshed: snapshot %s, %d records", snap.ID, len(snap.Records))
		}
	}
}

// createSource picks the dataset source. Explicit flags win over config:
// --use-fixtures, then --input, then --url, then --postgres-dsn.
func createSource(ctx context.Context, cfg *config.Config, useFixtures bool, input, sourceURL, postgresDSN string) (dataset.Source, func(), error) {
	noop := func() {}
	timeout := dataset.WithTimeout(cfg.Dataset.TimeoutDuration())

	switch {
	case useFixtures:
		store := memory.NewSaleStore()
		if err := pipeline.LoadFixtures(ctx, store); err != nil {
			return nil, noop, fmt.Errorf("load fixtures: %w", err)
		}
		return dataset.NewStoreSource(store, "memory"), noop, nil
	case input != "":
		return dataset.NewFileSource(input), noop, nil
	case sourceURL != "":
		return dataset.NewHTTPSource(sourceURL, timeout), noop, nil
	case postgresDSN != "":
		return postgresSource(ctx, postgresDSN, cfg.Postgres.MaxConns)
	}

	switch cfg.Dataset.Source {
	case config.SourceHTTP:
		return dataset.NewHTTPSource(cfg.Dataset.URL, timeout), noop, nil
	case config.SourcePostgres:
		return postgresSource(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	default:
		return dataset.NewFileSource(cfg.Dataset.Path), noop, nil
	}
}

func postgresSource(ctx context.Context, dsn string, maxConns int) (dataset.Source, func(), error) {
	pool, err := pgstore.NewPool(ctx, dsn, pgstore.WithMaxConns(int32(maxConns)))
	if err != nil {
		return nil, func() {}, fmt.Errorf("connect to postgres: %w", err)
	}
	return dataset.NewStoreSource(pgstore.NewSaleStore(pool), "postgres"), pool.Close, nil
}
