// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tcgvault/internal/models"
)

// InsertSyncRun appends the audit row of a completed run.
func (db *DB) InsertSyncRun(ctx context.Context, run *models.SyncRun) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	stats, err := json.Marshal(run.Stats)
	if err != nil {
		return fmt.Errorf("failed to encode run stats: %w", err)
	}

	var runErr sql.NullString
	if run.Error != "" {
		runErr = sql.NullString{String: run.Error, Valid: true}
	}

	_, err = db.conn.ExecContext(ctx, `INSERT INTO sync_runs (id, kind, started_at, finished_at, stats, error)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Kind, run.StartedAt, run.FinishedAt, string(stats), runErr)
	if err != nil {
		return fmt.Errorf("failed to insert sync run %s: %w", run.ID, err)
	}
	return nil
}

// ListSyncRuns returns the most recent runs, newest first.
func (db *DB) ListSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT id, kind, started_at, finished_at, stats, error
		FROM sync_runs
		ORDER BY finished_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	defer closeWithLog(rows, "sync run rows")

	var out []models.SyncRun
	for rows.Next() {
		var (
			run    models.SyncRun
			stats  string
			runErr sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Kind, &run.StartedAt, &run.FinishedAt, &stats, &runErr); err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}
		if err := json.Unmarshal([]byte(stats), &run.Stats); err != nil {
			return nil, fmt.Errorf("failed to decode stats of run %s: %w", run.ID, err)
		}
		run.Error = runErr.String
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sync runs: %w", err)
	}
	return out, nil
}
