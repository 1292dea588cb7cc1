// Package storage contains storage-agnostic contracts and utilities for
// persisting a decoded survey table.
//
// Concrete backends (postgres, mssql, sqlite) live in subpackages and
// register a factory for their kind at init time; importing
// surveyetl/internal/storage/all (even blankly) makes every built-in
// backend available. The rest of the application depends only on the
// Repository interface and never imports database drivers directly.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Repository is the minimal sink contract for a survey run.
type Repository interface {
	// EnsureTable creates the destination table from the flattened survey
	// columns if it does not already exist.
	EnsureTable(ctx context.Context, cols []Column) error

	// CopyFrom bulk-inserts rows aligned to the given column names and
	// returns the number of rows reported as inserted. It should cancel
	// promptly when ctx is done.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Close releases the backend's resources.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Kind  string // "postgres", "mssql", or "sqlite"
	DSN   string
	Table string
}

// Factory opens a Repository for one storage kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for a storage kind. It is
// typically called from backend packages' init functions.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind. Backends must have been registered,
// usually by importing surveyetl/internal/storage/all.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no storage backend registered for kind=%q", cfg.Kind)
	}
	return f(ctx, cfg)
}
