// Package storage contains the backend-agnostic loading contract and the
// chunked conflict-ignore loader. Concrete repositories live in the
// postgres and sqlite subpackages.
package storage

import (
	"context"
	"errors"
)

// ConflictPolicy names the uniqueness rule an insert must not violate.
// Exactly one of Constraint or Columns is set per call: either a named
// store-side constraint or an explicit key column list. Rows colliding on
// the key are discarded silently — insert-or-ignore, never replace.
type ConflictPolicy struct {
	Constraint string
	Columns    []string
}

// Validate enforces the exactly-one rule.
func (p ConflictPolicy) Validate() error {
	hasConstraint := p.Constraint != ""
	hasColumns := len(p.Columns) > 0
	if hasConstraint == hasColumns {
		return errors.New("conflict policy: exactly one of constraint or key columns must be set")
	}
	return nil
}

// Repository is the minimal sink the loader needs. Implementations run
// each InsertIgnore call in its own transaction; the loader relies on that
// for the per-chunk commit boundary.
type Repository interface {
	// Columns reports the target table's column set in ordinal order,
	// discovered from the store rather than declared statically.
	Columns(ctx context.Context, table string) ([]string, error)

	// InsertIgnore inserts rows (aligned to columns order), skipping rows
	// that collide with existing rows per the policy. It returns the number
	// of rows actually inserted.
	InsertIgnore(ctx context.Context, table string, columns []string, rows [][]any, policy ConflictPolicy) (int64, error)

	Close()
}
