// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package database

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"
)

func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// isTransactionConflict reports whether err is a DuckDB optimistic
// concurrency conflict, which is safe to retry.
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Transaction conflict") ||
		strings.Contains(errStr, "Conflict on update") ||
		strings.Contains(errStr, "cannot update a table that has been altered")
}

// withConflictRetry runs fn, retrying transaction conflicts with a short
// exponential backoff (1ms, 2ms, 4ms). Any other error is returned as is.
func (db *DB) withConflictRetry(ctx context.Context, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < db.maxConflictRetries; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return fmt.Errorf("operation timed out or canceled: %w", ctx.Err())
		}
		if !isTransactionConflict(err) {
			return err
		}

		if attempt < db.maxConflictRetries-1 {
			backoff := time.Millisecond * time.Duration(1<<uint(attempt))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
