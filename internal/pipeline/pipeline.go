// Package pipeline sequences the full ingestion run: extract the three raw
// extracts, clean them, persist the cleaned intermediates, rehydrate them
// with explicit types, validate against the entity contracts, and load
// into the relational store with per-entity conflict policies.
//
// The run is linear and single-threaded; the only fan-out is the fixed
// entity order (operations, flotteurs, resultats_humain). Any validation
// or load failure aborts the run — there is no retry and no partial
// acceptance within an entity.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"secmar/internal/artifact"
	"secmar/internal/cleaner"
	"secmar/internal/metrics"
	"secmar/internal/schema"
	"secmar/internal/storage"
	"secmar/internal/transformer/builtin"
	"secmar/pkg/records"
)

// entity bundles everything the orchestrator needs for one of the three
// batch kinds.
type entity struct {
	name      string
	rawFile   string
	cleanFile string
	clean     func([]records.Record) []records.Record
	contract  schema.Contract
	headerMap map[string]string
	policy    storage.ConflictPolicy
}

func entities() []entity {
	return []entity{
		{
			name:      "operations",
			rawFile:   "operations.csv",
			cleanFile: "operations_clean.csv",
			clean:     cleaner.Operations,
			contract:  schema.Operations(),
			// The extract spells the alerting centre column "cross"; the
			// store and the contract use "cross_type".
			headerMap: map[string]string{"cross": "cross_type"},
			policy:    storage.ConflictPolicy{Columns: []string{"operation_id"}},
		},
		{
			name:      "flotteurs",
			rawFile:   "flotteurs.csv",
			cleanFile: "flotteurs_clean.csv",
			clean:     cleaner.Flotteurs,
			contract:  schema.Flotteurs(),
			policy:    storage.ConflictPolicy{Columns: []string{"operation_id", "numero_ordre"}},
		},
		{
			name:      "resultats_humain",
			rawFile:   "resultats_humain.csv",
			cleanFile: "resultats_humain_clean.csv",
			clean:     cleaner.ResultatsHumain,
			contract:  schema.ResultatsHumain(),
			// No natural key: duplicate detection relies on the store-side
			// composite constraint.
			policy: storage.ConflictPolicy{Constraint: "resultats_humain_unique"},
		},
	}
}

// Run executes the whole pipeline against dataDir and the given repository.
// It returns the first validation or load error; the caller decides the
// process exit status.
func Run(ctx context.Context, dataDir string, repo storage.Repository) error {
	ents := entities()

	// Phase 1: extract, clean and persist all three intermediates.
	for i := range ents {
		if err := cleanAndPersist(dataDir, &ents[i]); err != nil {
			return err
		}
	}

	// Phase 2: rehydrate, validate and load, entity by entity, fail-fast.
	for i := range ents {
		if err := validateAndLoad(ctx, dataDir, repo, &ents[i]); err != nil {
			return err
		}
	}
	return nil
}

func cleanAndPersist(dataDir string, e *entity) error {
	step := func(name string, f func() error) error {
		start := time.Now()
		err := f()
		metrics.RecordStep(e.name, name, err, time.Since(start))
		return err
	}

	var (
		batch  []records.Record
		header []string
	)
	if err := step("extract", func() error {
		var err error
		batch, header, err = artifact.ReadRaw(filepath.Join(dataDir, e.rawFile))
		return err
	}); err != nil {
		return fmt.Errorf("extract %s: %w", e.name, err)
	}
	extracted := len(batch)
	metrics.RecordRows(e.name, "extracted", int64(extracted))

	if err := step("clean", func() error {
		batch = e.clean(batch)
		return nil
	}); err != nil {
		return err
	}
	metrics.RecordRows(e.name, "cleaned", int64(len(batch)))
	log.Printf("pipeline: entity=%s extracted=%d cleaned=%d", e.name, extracted, len(batch))

	if err := step("persist", func() error {
		return artifact.Write(filepath.Join(dataDir, e.cleanFile), header, batch)
	}); err != nil {
		return fmt.Errorf("persist %s: %w", e.name, err)
	}
	return nil
}

func validateAndLoad(ctx context.Context, dataDir string, repo storage.Repository, e *entity) error {
	step := func(name string, f func() error) error {
		start := time.Now()
		err := f()
		metrics.RecordStep(e.name, name, err, time.Since(start))
		return err
	}

	var batch []records.Record
	if err := step("rehydrate", func() error {
		var err error
		batch, err = artifact.Read(
			filepath.Join(dataDir, e.cleanFile),
			e.contract.TypeMap(),
			e.contract.DateColumns(),
			e.headerMap,
		)
		return err
	}); err != nil {
		return fmt.Errorf("rehydrate %s: %w", e.name, err)
	}

	// The CSV round trip can reintroduce naive timestamps; re-apply UTC
	// coercion before validation. The coercion is idempotent so already
	// well-formed instants pass through unchanged.
	if dates := e.contract.DateColumns(); len(dates) > 0 {
		fields := make(map[string]schema.Kind, len(dates))
		for _, d := range dates {
			fields[d] = schema.TimestampUTC
		}
		batch = builtin.Coerce{Fields: fields}.Apply(batch)
	}

	if err := step("validate", func() error {
		valid, verr := e.contract.Validate(batch)
		if verr != nil {
			log.Printf("pipeline: validation failed for schema %q", verr.Schema)
			log.Printf("pipeline: failure cases:\n%s", verr.Table())
			return verr
		}
		batch = valid
		return nil
	}); err != nil {
		return fmt.Errorf("validate %s: %w", e.name, err)
	}
	metrics.RecordRows(e.name, "validated", int64(len(batch)))

	var inserted int64
	if err := step("load", func() error {
		var err error
		inserted, err = storage.Load(ctx, repo, e.contract, batch, e.policy)
		return err
	}); err != nil {
		return fmt.Errorf("load %s: %w", e.name, err)
	}
	metrics.RecordRows(e.name, "inserted", inserted)
	log.Printf("pipeline: entity=%s table=%s rows=%d inserted=%d", e.name, e.contract.Table, len(batch), inserted)
	return nil
}
