// Package mssql implements a Microsoft SQL Server storage.Repository using
// the go-mssqldb bulk copy API (CopyIn) inside a transaction.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"surveyetl/internal/storage"
)

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg.DSN, cfg.Table)
	})
}

// Repository is an MSSQL-backed implementation of storage.Repository.
type Repository struct {
	db    *sql.DB
	table string
}

// NewRepository opens a connection pool for the given DSN. The DSN is
// validated early to fail fast on obvious mistakes.
func NewRepository(ctx context.Context, dsn, table string) (*Repository, error) {
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("mssql: table must not be empty")
	}
	if _, err := msdsn.Parse(dsn); err != nil {
		return nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Repository{db: db, table: table}, nil
}

// Close releases the connection pool.
func (r *Repository) Close() error { return r.db.Close() }

// EnsureTable creates the destination table from the flattened survey
// columns if it does not already exist.
func (r *Repository) EnsureTable(ctx context.Context, cols []storage.Column) error {
	if len(cols) == 0 {
		return fmt.Errorf("mssql: EnsureTable: at least one column is required")
	}
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = bracketIdent(c.Name) + " " + sqlType(c.Kind)
	}
	ddl := fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (\n  %s\n);",
		strings.ReplaceAll(r.table, "'", "''"),
		bracketFQN(r.table),
		strings.Join(defs, ",\n  "),
	)
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("mssql: create table %s: %w", r.table, err)
	}
	return nil
}

// CopyFrom bulk-inserts rows via the driver's CopyIn statement inside one
// transaction. It returns the number of rows the driver reports flushed.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mssql: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mssql: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(r.table, mssql.BulkOptions{}, columns...))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("mssql: prepare bulk copy: %w", err)
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			_ = stmt.Close()
			_ = tx.Rollback()
			return 0, fmt.Errorf("mssql: row %d has %d values, want %d", i, len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return 0, fmt.Errorf("mssql: bulk row %d: %w", i, err)
		}
	}

	// Final Exec with no arguments flushes the bulk copy.
	res, err := stmt.ExecContext(ctx)
	if err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return 0, fmt.Errorf("mssql: bulk flush: %w", err)
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("mssql: close bulk stmt: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mssql: commit: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		n = int64(len(rows))
	}
	return n, nil
}

func sqlType(k storage.ColumnKind) string {
	switch k {
	case storage.KindInt:
		return "BIGINT"
	case storage.KindReal:
		return "FLOAT"
	case storage.KindBool:
		return "BIT"
	case storage.KindTimestamp:
		return "DATETIME2"
	default:
		return "NVARCHAR(MAX)"
	}
}

// bracketIdent wraps a single identifier in square brackets.
func bracketIdent(s string) string {
	return "[" + strings.ReplaceAll(s, "]", "]]") + "]"
}

// bracketFQN brackets each dot-separated segment individually.
func bracketFQN(s string) string {
	parts := strings.Split(s, ".")
	for i, p := range parts {
		parts[i] = bracketIdent(p)
	}
	return strings.Join(parts, ".")
}
