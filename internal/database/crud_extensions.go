// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tcgvault/internal/database/query"
	"github.com/tomtom215/tcgvault/internal/models"
)

// ExtensionFilter narrows ListExtensions. Empty fields are ignored.
type ExtensionFilter struct {
	Series string
	Block  string
}

// UpsertExtension inserts the extension or, when the id exists, overwrites
// every mutable field and bumps updated_at.
func (db *DB) UpsertExtension(ctx context.Context, ext *models.ExtensionRecord) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	legalities, err := marshalNullable(ext.Legalities)
	if err != nil {
		return fmt.Errorf("failed to encode legalities for extension %s: %w", ext.ID, err)
	}

	now := time.Now().UTC()
	const q = `INSERT INTO extensions (
			id, name, localized_name, series, block, release_date,
			printed_total, total, symbol_url, logo_url, legalities,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			localized_name = EXCLUDED.localized_name,
			series = EXCLUDED.series,
			block = EXCLUDED.block,
			release_date = EXCLUDED.release_date,
			printed_total = EXCLUDED.printed_total,
			total = EXCLUDED.total,
			symbol_url = EXCLUDED.symbol_url,
			logo_url = EXCLUDED.logo_url,
			legalities = EXCLUDED.legalities,
			updated_at = EXCLUDED.updated_at`

	return db.withConflictRetry(ctx, func(ctx context.Context) error {
		_, err := db.conn.ExecContext(ctx, q,
			ext.ID, ext.Name, ext.LocalizedName, ext.Series, ext.Block, ext.ReleaseDate,
			ext.PrintedTotal, ext.Total, ext.SymbolURL, ext.LogoURL, legalities,
			now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert extension %s: %w", ext.ID, err)
		}
		return nil
	})
}

// ListExtensions returns stored extensions ordered by release date, then id.
func (db *DB) ListExtensions(ctx context.Context, filter ExtensionFilter) ([]models.ExtensionRecord, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := query.NewWhereBuilder().
		AddEquals("series", filter.Series).
		AddEquals("block", filter.Block).
		BuildWithPrefix()

	rows, err := db.conn.QueryContext(ctx, `SELECT
			id, name, localized_name, series, block, release_date,
			printed_total, total, symbol_url, logo_url, legalities, updated_at
		FROM extensions `+where+`
		ORDER BY release_date, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list extensions: %w", err)
	}
	defer closeWithLog(rows, "extension rows")

	var out []models.ExtensionRecord
	for rows.Next() {
		var (
			ext                               models.ExtensionRecord
			series, block, release, sym, logo sql.NullString
			legalities                        sql.NullString
			printedTotal, total               sql.NullInt64
		)
		if err := rows.Scan(
			&ext.ID, &ext.Name, &ext.LocalizedName, &series, &block, &release,
			&printedTotal, &total, &sym, &logo, &legalities, &ext.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan extension: %w", err)
		}
		ext.Series = series.String
		ext.Block = block.String
		ext.ReleaseDate = release.String
		ext.PrintedTotal = int(printedTotal.Int64)
		ext.Total = int(total.Int64)
		ext.SymbolURL = sym.String
		ext.LogoURL = logo.String
		if err := unmarshalNullable(legalities, &ext.Legalities); err != nil {
			return nil, fmt.Errorf("failed to decode legalities for extension %s: %w", ext.ID, err)
		}
		out = append(out, ext)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate extensions: %w", err)
	}
	return out, nil
}

// marshalNullable encodes v as JSON text, storing NULL for nil or empty values.
func marshalNullable(v interface{}) (sql.NullString, error) {
	switch t := v.(type) {
	case nil:
		return sql.NullString{}, nil
	case map[string]string:
		if len(t) == 0 {
			return sql.NullString{}, nil
		}
	case []string:
		if len(t) == 0 {
			return sql.NullString{}, nil
		}
	case json.RawMessage:
		if len(t) == 0 {
			return sql.NullString{}, nil
		}
		return sql.NullString{String: string(t), Valid: true}, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// unmarshalNullable decodes JSON text into dst, leaving dst untouched for NULL.
func unmarshalNullable(s sql.NullString, dst interface{}) error {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), dst)
}
