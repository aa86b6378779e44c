// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/tcgvault/internal/models"
)

// InsertPriceObservation appends a price reading and refreshes the card's
// price summary columns in the same transaction. Existing observations are
// never modified. ID and RecordedAt are filled in when empty.
func (db *DB) InsertPriceObservation(ctx context.Context, obs *models.PriceObservation) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if obs.ID == "" {
		obs.ID = uuid.New().String()
	}
	if obs.RecordedAt.IsZero() {
		obs.RecordedAt = time.Now().UTC()
	}

	return db.withConflictRetry(ctx, func(ctx context.Context) error {
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin price transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `INSERT INTO price_observations (
				id, card_id, source, condition, variant,
				market_price, low_price, mid_price, high_price, currency, recorded_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			obs.ID, obs.CardID, obs.Source, obs.Condition, obs.Variant,
			obs.MarketPrice, nullFloat(obs.LowPrice), nullFloat(obs.MidPrice), nullFloat(obs.HighPrice),
			obs.Currency, obs.RecordedAt,
		); err != nil {
			return fmt.Errorf("failed to insert price observation for %s: %w", obs.CardID, err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE cards SET market_price = ?, price_updated_at = ? WHERE id = ?`,
			obs.MarketPrice, obs.RecordedAt, obs.CardID,
		); err != nil {
			return fmt.Errorf("failed to update price summary for %s: %w", obs.CardID, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit price observation for %s: %w", obs.CardID, err)
		}
		return nil
	})
}

// SelectCardsNeedingPrice returns up to limit card ids that have no
// observation from source recorded at or after since, in random order.
func (db *DB) SelectCardsNeedingPrice(ctx context.Context, source string, since time.Time, limit int) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT c.id
		FROM cards c
		WHERE NOT EXISTS (
			SELECT 1 FROM price_observations p
			WHERE p.card_id = c.id
			  AND p.source = ?
			  AND p.recorded_at >= ?
		)
		ORDER BY random()
		LIMIT ?`, source, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select cards needing price: %w", err)
	}
	defer closeWithLog(rows, "price candidate rows")

	ids := make([]string, 0, limit)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan price candidate: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate price candidates: %w", err)
	}
	return ids, nil
}

// LatestPrice returns the most recent observation of a card for a source.
func (db *DB) LatestPrice(ctx context.Context, cardID, source string) (*models.PriceObservation, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var (
		obs            models.PriceObservation
		low, mid, high sql.NullFloat64
	)
	err := db.conn.QueryRowContext(ctx, `SELECT
			id, card_id, source, condition, variant,
			market_price, low_price, mid_price, high_price, currency, recorded_at
		FROM price_observations
		WHERE card_id = ? AND source = ?
		ORDER BY recorded_at DESC
		LIMIT 1`, cardID, source).Scan(
		&obs.ID, &obs.CardID, &obs.Source, &obs.Condition, &obs.Variant,
		&obs.MarketPrice, &low, &mid, &high, &obs.Currency, &obs.RecordedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("price for %s from %s: %w", cardID, source, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest price for %s: %w", cardID, err)
	}

	obs.LowPrice = floatPtr(low)
	obs.MidPrice = floatPtr(mid)
	obs.HighPrice = floatPtr(high)
	return &obs, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
