// Command rawimport bulk-loads the three cleaned CSV files straight into
// Postgres with the COPY protocol. It is the fast path for seeding an
// empty database: no conflict handling, no chunking, just COPY.
//
// Before importing it verifies each file carries the required columns,
// renames the "cross" header to the store's "cross_type", and defaults
// the est_metropolitain flag when the extract does not carry it.
package main

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"secmar/internal/artifact"
	"secmar/internal/config"
	"secmar/internal/schema"
	"secmar/internal/storage/postgres"
	"secmar/pkg/records"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	repo, err := postgres.NewRepository(ctx, postgres.Config{DSN: cfg.DatabaseURL})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer repo.Close()

	type job struct {
		file      string
		contract  schema.Contract
		headerMap map[string]string
		required  []string
		augment   func(records.Record)
	}

	jobs := []job{
		{
			file:      "operations_clean.csv",
			contract:  schema.Operations(),
			headerMap: map[string]string{"cross": "cross_type"},
			required:  []string{"operation_id"},
			augment: func(r records.Record) {
				if _, ok := r["est_metropolitain"]; !ok {
					r["est_metropolitain"] = true
				}
			},
		},
		{
			file:     "flotteurs_clean.csv",
			contract: schema.Flotteurs(),
			required: append([]string{"operation_id", "numero_ordre"}, schema.FlotteurTextColumns...),
		},
		{
			file:     "resultats_humain_clean.csv",
			contract: schema.ResultatsHumain(),
			required: append([]string{"operation_id", "nombre", "dont_nombre_blesse"}, schema.ResultatTextColumns...),
		},
	}

	start := time.Now()
	for _, j := range jobs {
		path := filepath.Join(cfg.DataDir, j.file)
		if err := artifact.CheckStructure(path, j.required); err != nil {
			log.Fatalf("%v", err)
		}

		batch, err := artifact.Read(path, j.contract.TypeMap(), j.contract.DateColumns(), j.headerMap)
		if err != nil {
			log.Fatalf("read %s: %v", path, err)
		}
		if j.augment != nil {
			for _, rec := range batch {
				j.augment(rec)
			}
		}

		cols := j.contract.ColumnNames()
		if j.augment != nil {
			cols = append(cols, "est_metropolitain")
		}
		rows := make([][]any, 0, len(batch))
		for _, rec := range batch {
			row := make([]any, len(cols))
			for i, col := range cols {
				row[i] = rec[col]
			}
			rows = append(rows, row)
		}

		n, err := repo.CopyInto(ctx, j.contract.Table, cols, rows)
		if err != nil {
			log.Fatalf("copy into %s: %v", j.contract.Table, err)
		}
		log.Printf("rawimport: table=%s copied=%d", j.contract.Table, n)
	}
	log.Printf("rawimport completed in %s", time.Since(start).Truncate(time.Millisecond))
}
