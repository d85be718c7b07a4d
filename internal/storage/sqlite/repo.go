// Package sqlite implements storage.Repository on an embedded SQLite
// database (modernc.org/sqlite, no cgo). It backs local runs and the
// hermetic sink tests; conflict handling maps both policy forms onto
// INSERT OR IGNORE, which skips any uniqueness violation.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"secmar/internal/storage"
)

type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open %s: %w", path, err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() { _ = r.db.Close() }

// DB exposes the handle for setup (table creation in tests and local runs).
func (r *Repository) DB() *sql.DB { return r.db }

// Columns discovers the table's column set via PRAGMA table_info.
func (r *Repository) Columns(ctx context.Context, table string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return cols, nil
}

// InsertIgnore inserts the rows in one transaction with INSERT OR IGNORE.
// SQLite cannot address a named constraint, so both policy forms rely on
// the table's own uniqueness definitions — same skip-on-collision outcome.
func (r *Repository) InsertIgnore(ctx context.Context, table string, columns []string, rows [][]any, policy storage.ConflictPolicy) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if err := policy.Validate(); err != nil {
		return 0, err
	}

	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"
	q := fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES %s",
		quoteIdent(table),
		strings.Join(quoteAll(columns), ","),
		placeholders,
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	var total int64
	for _, row := range rows {
		res, err := stmt.ExecContext(ctx, row...)
		if err != nil {
			_ = tx.Rollback()
			return total, fmt.Errorf("insert into %s: %w", table, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			total += n
		}
	}
	if err := tx.Commit(); err != nil {
		return total, err
	}
	return total, nil
}

func quoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

func quoteAll(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = quoteIdent(c)
	}
	return out
}
