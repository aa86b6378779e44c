// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

// Package database is the DuckDB-backed catalog store.
//
// Every write the sync engine performs goes through this package and is either
// an idempotent upsert (extensions, cards, image cache entries) or an
// append-only insert (price observations, run audit rows), so any phase can be
// re-run after a partial failure.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver

	"github.com/tomtom215/tcgvault/internal/config"
	"github.com/tomtom215/tcgvault/internal/logging"
)

// DB wraps the DuckDB connection pool.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig

	maxConflictRetries int
}

// New opens (creating if needed) the database at cfg.Path and ensures the
// schema exists. Use ":memory:" for tests.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	if cfg.Path != ":memory:" {
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:               conn,
		cfg:                cfg,
		maxConflictRetries: 3,
	}

	db.configureConnectionPool()

	if err := db.createTables(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Int("threads", numThreads).
		Str("max_memory", cfg.MaxMemory).
		Msg("Catalog database ready")

	return db, nil
}

// Conn exposes the underlying pool for ad-hoc queries in tests and tooling.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close checkpoints and closes the database.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
	}

	return db.conn.Close()
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// ensureContext applies a 30s default timeout when ctx carries no deadline.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, 30*time.Second)
	}
	return ctx, func() {}
}
