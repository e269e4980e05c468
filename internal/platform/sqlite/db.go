// Copyright (c) 2026 Mangata. All rights reserved.

// Package sqlite provides the managed single-file SQLite handle backing
// the Mangata library catalog.
//
// # Architecture
//
// This package is part of the Infrastructure layer. It owns the physical
// database file (creation, pragmas, health checks) and hands a ready
// [*sql.DB] to the repositories defined in the domain layer. The handle is
// constructed once at process start and injected everywhere it is needed,
// so tests can swap in a temp-file instance.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register "sqlite" driver
)

const (
	// busyTimeout is how long a writer waits on a locked database before
	// failing. Concurrent imports of the same folder serialize here.
	busyTimeout = 5 * time.Second

	// pingTimeout is the maximum duration for a health check ping.
	pingTimeout = 2 * time.Second
)

// Open creates (or opens) the catalog database at path and applies the
// connection pragmas the library core depends on:
//
//   - WAL journal mode, so readers never block behind a writer
//   - foreign_keys ON, so deleting a book cascades to its page rows
//   - busy_timeout, so concurrent write transactions queue instead of failing
//
// foreign_keys and busy_timeout are per-connection settings and [sql.DB] is
// a pool, so the pragmas ride in the DSN: the driver replays them on every
// connection it opens, not just the first.
//
// The parent directory is created if missing.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: create data directory: %w", err)
	}

	dsn := fmt.Sprintf(
		"%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)",
		path, busyTimeout.Milliseconds(),
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// Validate that the file is actually usable before serving traffic.
	if err := Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("sqlite catalog opened", slog.String("path", path))
	return db, nil
}

// Ping verifies that the SQLite handle is healthy.
func Ping(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("sqlite: ping failed: %w", err)
	}

	return nil
}
