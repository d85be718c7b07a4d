// Command pipeline runs the full SECMAR ingestion: clean the three raw
// extracts, validate them, and load them into the relational store.
//
// It takes no arguments; all configuration comes from the environment
// (see internal/config). The process exits non-zero on any validation or
// load failure.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"secmar/internal/config"
	"secmar/internal/metrics"
	"secmar/internal/metrics/datadog"
	"secmar/internal/metrics/prompush"
	"secmar/internal/pipeline"
	"secmar/internal/storage"
	"secmar/internal/storage/postgres"
	"secmar/internal/storage/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	switch cfg.MetricsBackend {
	case "pushgateway":
		b, err := prompush.NewBackend(cfg.MetricsJob, cfg.PushgatewayURL)
		if err != nil {
			log.Printf("metrics: pushgateway init failed: %v; metrics disabled", err)
		} else {
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush error: %v", err)
				}
			}()
		}
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{Addr: cfg.DogstatsdAddr, Namespace: "secmar."})
		if err != nil {
			log.Printf("metrics: datadog init failed: %v; metrics disabled", err)
		} else {
			metrics.SetBackend(b)
			defer func() { _ = metrics.Flush() }()
		}
	case "", "none":
		// nop backend remains
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", cfg.MetricsBackend)
	}

	ctx := context.Background()

	var repo storage.Repository
	switch cfg.StorageBackend {
	case "sqlite":
		r, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("%v", err)
		}
		repo = r
	default:
		r, err := postgres.NewRepository(ctx, postgres.Config{DSN: cfg.DatabaseURL})
		if err != nil {
			log.Fatalf("%v", err)
		}
		repo = r
	}
	defer repo.Close()

	start := time.Now()
	if err := pipeline.Run(ctx, cfg.DataDir, repo); err != nil {
		log.Printf("pipeline failed: %v", err)
		os.Exit(1)
	}
	log.Printf("pipeline completed in %s", time.Since(start).Truncate(time.Millisecond))
}
