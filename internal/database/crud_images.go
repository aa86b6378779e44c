// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/tcgvault/internal/models"
)

// UpsertImageCacheEntry records a cached image, keyed by (card_id, size).
func (db *DB) UpsertImageCacheEntry(ctx context.Context, entry *models.ImageCacheEntry) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	const q = `INSERT INTO image_cache (card_id, size, local_path, cached, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (card_id, size) DO UPDATE SET
			local_path = EXCLUDED.local_path,
			cached = EXCLUDED.cached,
			updated_at = EXCLUDED.updated_at`

	return db.withConflictRetry(ctx, func(ctx context.Context) error {
		_, err := db.conn.ExecContext(ctx, q,
			entry.CardID, entry.Size, entry.LocalPath, entry.Cached, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to upsert image cache entry %s/%s: %w", entry.CardID, entry.Size, err)
		}
		return nil
	})
}

// SelectCardsNeedingImages returns up to limit cards that have a source URI
// for a size not yet marked cached, in random order. Sizes that are already
// cached or have no source come back as empty URLs.
func (db *DB) SelectCardsNeedingImages(ctx context.Context, limit int) ([]models.ImageCandidate, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `WITH pending AS (
			SELECT
				c.id,
				CASE WHEN COALESCE(c.image_large_url, '') <> '' AND NOT COALESCE(l.cached, false)
					THEN c.image_large_url ELSE '' END AS large_url,
				CASE WHEN COALESCE(c.image_small_url, '') <> '' AND NOT COALESCE(s.cached, false)
					THEN c.image_small_url ELSE '' END AS small_url
			FROM cards c
			LEFT JOIN image_cache l ON l.card_id = c.id AND l.size = 'large'
			LEFT JOIN image_cache s ON s.card_id = c.id AND s.size = 'small'
		)
		SELECT id, large_url, small_url
		FROM pending
		WHERE large_url <> '' OR small_url <> ''
		ORDER BY random()
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select cards needing images: %w", err)
	}
	defer closeWithLog(rows, "image candidate rows")

	out := make([]models.ImageCandidate, 0, limit)
	for rows.Next() {
		var c models.ImageCandidate
		if err := rows.Scan(&c.CardID, &c.LargeURL, &c.SmallURL); err != nil {
			return nil, fmt.Errorf("failed to scan image candidate: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate image candidates: %w", err)
	}
	return out, nil
}

// ListImageCacheEntries returns the cache entries of one card.
func (db *DB) ListImageCacheEntries(ctx context.Context, cardID string) ([]models.ImageCacheEntry, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT card_id, size, local_path, cached, updated_at
		FROM image_cache WHERE card_id = ? ORDER BY size`, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list image cache entries for %s: %w", cardID, err)
	}
	defer closeWithLog(rows, "image cache rows")

	var out []models.ImageCacheEntry
	for rows.Next() {
		var e models.ImageCacheEntry
		if err := rows.Scan(&e.CardID, &e.Size, &e.LocalPath, &e.Cached, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image cache entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
