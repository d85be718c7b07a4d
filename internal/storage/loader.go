package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"secmar/internal/schema"
	"secmar/pkg/records"
)

// ChunkSize bounds a single insert statement. Each chunk commits in its
// own transaction: a failure partway through leaves prior chunks in place,
// trading whole-batch atomicity for forward progress. Re-runs stay safe
// because every load path is conflict-ignore.
const ChunkSize = 250

// Load writes a validated batch into the contract's table.
//
// An empty batch is a no-op. The target column set is discovered from the
// store and intersected with the contract's columns, so the loader is
// schema-agnostic beyond the columns present in the batch. Before
// submission the batch goes through the boundary casts the target store
// expects: nullable-integer columns become int64, text NULLs become empty
// strings. The validator upstream still sees true nulls; this
// normalization belongs to the store boundary only.
func Load(ctx context.Context, repo Repository, c schema.Contract, batch []records.Record, policy ConflictPolicy) (int64, error) {
	if len(batch) == 0 {
		return 0, nil
	}
	if err := policy.Validate(); err != nil {
		return 0, err
	}

	tableCols, err := repo.Columns(ctx, c.Table)
	if err != nil {
		return 0, fmt.Errorf("discover columns of %s: %w", c.Table, err)
	}
	cols, kinds := intersect(c, tableCols)
	if len(cols) == 0 {
		return 0, fmt.Errorf("table %s shares no columns with schema %s", c.Table, c.Name)
	}

	var (
		total   int64
		chunkNo int
		start   = time.Now()
	)
	for lo := 0; lo < len(batch); lo += ChunkSize {
		hi := min(lo+ChunkSize, len(batch))
		rows := make([][]any, 0, hi-lo)
		for _, rec := range batch[lo:hi] {
			row := make([]any, len(cols))
			for i, col := range cols {
				row[i] = boundaryCast(kinds[i], rec[col])
			}
			rows = append(rows, row)
		}
		n, err := repo.InsertIgnore(ctx, c.Table, cols, rows, policy)
		total += n
		if err != nil {
			return total, fmt.Errorf("load %s chunk %d: %w", c.Table, chunkNo+1, err)
		}
		chunkNo++
		log.Printf("loader: table=%s chunk=%d rows=%d inserted=%d total_inserted=%d elapsed=%s",
			c.Table, chunkNo, len(rows), n, total, time.Since(start).Truncate(time.Millisecond))
	}
	return total, nil
}

// intersect keeps the contract columns that exist in the target table,
// preserving contract order, with the matching kinds alongside.
func intersect(c schema.Contract, tableCols []string) ([]string, []schema.Kind) {
	present := make(map[string]bool, len(tableCols))
	for _, col := range tableCols {
		present[col] = true
	}
	var cols []string
	var kinds []schema.Kind
	for _, col := range c.Columns {
		if present[col.Name] {
			cols = append(cols, col.Name)
			kinds = append(kinds, col.Kind)
		}
	}
	return cols, kinds
}

// boundaryCast applies the store-facing value normalization.
func boundaryCast(kind schema.Kind, v any) any {
	switch kind {
	case schema.Integer, schema.NullableInteger:
		switch t := v.(type) {
		case nil:
			return nil
		case int64:
			return t
		case int:
			return int64(t)
		case float64:
			return int64(t)
		}
		return v
	case schema.Text:
		if v == nil {
			return ""
		}
		return v
	default:
		return v
	}
}
