// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

/*
database_schema.go - Catalog Schema

Tables:
  - extensions: one row per released set, upserted by id
  - cards: one row per card, upserted by id; market_price and
    price_updated_at are maintained only by price inserts
  - price_observations: append-only price history
  - image_cache: locally cached images keyed by (card_id, size)
  - sync_runs: audit rows of completed sync runs

Structured card fields (attacks, abilities, ...) and string lists are stored
as JSON text.

No FOREIGN KEY constraints are declared. DuckDB rejects ON CONFLICT DO UPDATE
on a parent row that is referenced by a foreign key, and the engine already
writes parents before children (extensions, then cards, then prices/images).
Secondary indexes are likewise kept off columns rewritten by upserts.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, q := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", q, err)
		}
	}
	return nil
}

var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS extensions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		localized_name TEXT NOT NULL,
		series TEXT,
		block TEXT,
		release_date TEXT,
		printed_total INTEGER,
		total INTEGER,
		symbol_url TEXT,
		logo_url TEXT,
		legalities TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS cards (
		id TEXT PRIMARY KEY,
		extension_id TEXT NOT NULL,
		name TEXT NOT NULL,
		localized_name TEXT NOT NULL,
		number TEXT,
		supertype TEXT,
		types TEXT,
		subtypes TEXT,
		rarity TEXT,
		localized_rarity TEXT,
		hp TEXT,
		artist TEXT,
		flavor_text TEXT,
		abilities TEXT,
		attacks TEXT,
		weaknesses TEXT,
		resistances TEXT,
		retreat_cost TEXT,
		legalities TEXT,
		image_small_url TEXT,
		image_large_url TEXT,
		market_price DOUBLE,
		price_updated_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS price_observations (
		id TEXT PRIMARY KEY,
		card_id TEXT NOT NULL,
		source TEXT NOT NULL,
		condition TEXT NOT NULL,
		variant TEXT NOT NULL,
		market_price DOUBLE NOT NULL,
		low_price DOUBLE,
		mid_price DOUBLE,
		high_price DOUBLE,
		currency TEXT NOT NULL,
		recorded_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_price_observations_card_source
		ON price_observations (card_id, source, recorded_at)`,

	`CREATE TABLE IF NOT EXISTS image_cache (
		card_id TEXT NOT NULL,
		size TEXT NOT NULL,
		local_path TEXT NOT NULL,
		cached BOOLEAN NOT NULL DEFAULT false,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (card_id, size)
	)`,

	`CREATE TABLE IF NOT EXISTS sync_runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		stats TEXT NOT NULL,
		error TEXT
	)`,
}
