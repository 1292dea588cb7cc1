// Package postgres implements a Postgres storage.Repository using pgx v5.
// Bulk loading uses the COPY protocol via pgx's CopyFrom.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"surveyetl/internal/storage"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg.DSN, cfg.Table)
	})
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool  *pgxpool.Pool
	table string
}

// NewRepository opens a pgx pool for the given DSN.
func NewRepository(ctx context.Context, dsn, table string) (*Repository, error) {
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("postgres: table must not be empty")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	return &Repository{pool: pool, table: table}, nil
}

// Close releases the pool.
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

// EnsureTable creates the destination table from the flattened survey
// columns if it does not already exist.
func (r *Repository) EnsureTable(ctx context.Context, cols []storage.Column) error {
	if len(cols) == 0 {
		return fmt.Errorf("postgres: EnsureTable: at least one column is required")
	}
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = pgIdent(c.Name) + " " + sqlType(c.Kind)
	}
	ddl := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		pgFQN(r.table), strings.Join(defs, ",\n  "),
	)
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: create table %s: %w", r.table, err)
	}
	return nil
}

// CopyFrom streams rows into the table with the COPY protocol and returns
// the count reported by the server.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("postgres: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	ident := make(pgx.Identifier, 0, 2)
	for _, p := range strings.Split(r.table, ".") {
		ident = append(ident, p)
	}

	n, err := r.pool.CopyFrom(ctx, ident, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("postgres: copy into %s: %w", r.table, err)
	}
	return n, nil
}

func sqlType(k storage.ColumnKind) string {
	switch k {
	case storage.KindInt:
		return "BIGINT"
	case storage.KindReal:
		return "DOUBLE PRECISION"
	case storage.KindBool:
		return "BOOLEAN"
	case storage.KindTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

// pgIdent double-quotes a single identifier.
func pgIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// pgFQN quotes each dot-separated segment individually.
func pgFQN(s string) string {
	parts := strings.Split(s, ".")
	for i, p := range parts {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}
