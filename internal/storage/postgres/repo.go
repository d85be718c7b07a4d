// Package postgres implements the storage.Repository contract with pgx v5.
// Inserts use multi-row INSERT ... ON CONFLICT DO NOTHING; the target
// table's shape is discovered from information_schema at load time.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"secmar/internal/storage"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN    string // connection string for pgxpool
	Schema string // table schema; "public" when empty
}

// Repository is the Postgres-backed sink.
type Repository struct {
	pool   *pgxpool.Pool
	schema string
}

// NewRepository connects a pool and returns the repository. Pool sizing and
// acquire timeouts stay whatever the DSN configures; the pipeline does not
// reimplement them.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	sch := cfg.Schema
	if sch == "" {
		sch = "public"
	}
	return &Repository{pool: pool, schema: sch}, nil
}

func (r *Repository) Close() { r.pool.Close() }

// Columns discovers the table's column set in ordinal order.
func (r *Repository) Columns(ctx context.Context, table string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT column_name
		   FROM information_schema.columns
		  WHERE table_schema = $1 AND table_name = $2
		  ORDER BY ordinal_position`,
		r.schema, table,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s.%s not found", r.schema, table)
	}
	return cols, nil
}

// InsertIgnore inserts the rows inside one transaction, skipping conflicts
// per the policy. The returned count is the number of rows the statement
// actually inserted (conflicting rows are not counted).
func (r *Repository) InsertIgnore(ctx context.Context, table string, columns []string, rows [][]any, policy storage.ConflictPolicy) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	sql, args := buildInsert(r.schema, table, columns, rows, policy)

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		_ = tx.Rollback(ctx)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return 0, fmt.Errorf("insert into %s: %s (%s)", table, pgErr.Detail, pgErr.SQLState())
		}
		return 0, fmt.Errorf("insert into %s: %w", table, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CopyInto bulk-loads rows with the COPY protocol, bypassing conflict
// handling entirely. Used by the raw importer against empty tables.
func (r *Repository) CopyInto(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	return r.pool.CopyFrom(ctx, pgx.Identifier{r.schema, table}, columns, pgx.CopyFromRows(rows))
}

func buildInsert(schema, table string, columns []string, rows [][]any, policy storage.ConflictPolicy) (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s.%s (%s) VALUES ",
		pgIdent(schema), pgIdent(table), strings.Join(mapIdent(columns), ","))

	args := make([]any, 0, len(rows)*len(columns))
	ph := 1
	for i, row := range rows {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('(')
		for j, v := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "$%d", ph)
			ph++
			args = append(args, v)
		}
		b.WriteByte(')')
	}

	switch {
	case policy.Constraint != "":
		fmt.Fprintf(&b, " ON CONFLICT ON CONSTRAINT %s DO NOTHING", pgIdent(policy.Constraint))
	case len(policy.Columns) > 0:
		fmt.Fprintf(&b, " ON CONFLICT (%s) DO NOTHING", strings.Join(mapIdent(policy.Columns), ","))
	}
	return b.String(), args
}

// pgIdent safely quotes a single identifier segment.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

func mapIdent(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = pgIdent(c)
	}
	return out
}
