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

	"github.com/tomtom215/tcgvault/internal/models"
)

// ErrNotFound is returned by single-row lookups with no match.
var ErrNotFound = errors.New("not found")

// UpsertCard inserts the card or, when the id exists, refreshes its
// presentation fields and bumps updated_at.
//
// market_price and price_updated_at are absent from the update clause: they
// belong to the price history and must survive a catalog refresh. The
// extension reference is also kept, since a card id never moves between sets.
func (db *DB) UpsertCard(ctx context.Context, card *models.CardRecord) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	encoded, err := encodeCardBlobs(card)
	if err != nil {
		return fmt.Errorf("failed to encode card %s: %w", card.ID, err)
	}

	now := time.Now().UTC()
	const q = `INSERT INTO cards (
			id, extension_id, name, localized_name, number, supertype,
			types, subtypes, rarity, localized_rarity, hp, artist, flavor_text,
			abilities, attacks, weaknesses, resistances, retreat_cost, legalities,
			image_small_url, image_large_url, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			localized_name = EXCLUDED.localized_name,
			number = EXCLUDED.number,
			supertype = EXCLUDED.supertype,
			types = EXCLUDED.types,
			subtypes = EXCLUDED.subtypes,
			rarity = EXCLUDED.rarity,
			localized_rarity = EXCLUDED.localized_rarity,
			hp = EXCLUDED.hp,
			artist = EXCLUDED.artist,
			flavor_text = EXCLUDED.flavor_text,
			abilities = EXCLUDED.abilities,
			attacks = EXCLUDED.attacks,
			weaknesses = EXCLUDED.weaknesses,
			resistances = EXCLUDED.resistances,
			retreat_cost = EXCLUDED.retreat_cost,
			legalities = EXCLUDED.legalities,
			image_small_url = EXCLUDED.image_small_url,
			image_large_url = EXCLUDED.image_large_url,
			updated_at = EXCLUDED.updated_at`

	return db.withConflictRetry(ctx, func(ctx context.Context) error {
		_, err := db.conn.ExecContext(ctx, q,
			card.ID, card.ExtensionID, card.Name, card.LocalizedName, card.Number, card.Supertype,
			encoded.types, encoded.subtypes, card.Rarity, card.LocalizedRarity, card.HP, card.Artist, card.FlavorText,
			encoded.abilities, encoded.attacks, encoded.weaknesses, encoded.resistances, encoded.retreatCost, encoded.legalities,
			card.ImageSmallURL, card.ImageLargeURL, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert card %s: %w", card.ID, err)
		}
		return nil
	})
}

// GetCard loads one card by id.
func (db *DB) GetCard(ctx context.Context, id string) (*models.CardRecord, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var (
		card                                             models.CardRecord
		number, supertype, rarity, locRarity, hp, artist sql.NullString
		flavor, smallURL, largeURL                       sql.NullString
		types, subtypes, abilities, attacks              sql.NullString
		weaknesses, resistances, retreat, legalities     sql.NullString
	)
	err := db.conn.QueryRowContext(ctx, `SELECT
			id, extension_id, name, localized_name, number, supertype,
			types, subtypes, rarity, localized_rarity, hp, artist, flavor_text,
			abilities, attacks, weaknesses, resistances, retreat_cost, legalities,
			image_small_url, image_large_url, updated_at
		FROM cards WHERE id = ?`, id).Scan(
		&card.ID, &card.ExtensionID, &card.Name, &card.LocalizedName, &number, &supertype,
		&types, &subtypes, &rarity, &locRarity, &hp, &artist, &flavor,
		&abilities, &attacks, &weaknesses, &resistances, &retreat, &legalities,
		&smallURL, &largeURL, &card.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card %s: %w", id, err)
	}

	card.Number = number.String
	card.Supertype = supertype.String
	card.Rarity = rarity.String
	card.LocalizedRarity = locRarity.String
	card.HP = hp.String
	card.Artist = artist.String
	card.FlavorText = flavor.String
	card.ImageSmallURL = smallURL.String
	card.ImageLargeURL = largeURL.String
	if abilities.Valid {
		card.Abilities = []byte(abilities.String)
	}
	if attacks.Valid {
		card.Attacks = []byte(attacks.String)
	}
	if weaknesses.Valid {
		card.Weaknesses = []byte(weaknesses.String)
	}
	if resistances.Valid {
		card.Resistances = []byte(resistances.String)
	}
	if retreat.Valid {
		card.RetreatCost = []byte(retreat.String)
	}
	for _, f := range []struct {
		src sql.NullString
		dst interface{}
	}{
		{types, &card.Types},
		{subtypes, &card.Subtypes},
		{legalities, &card.Legalities},
	} {
		if err := unmarshalNullable(f.src, f.dst); err != nil {
			return nil, fmt.Errorf("failed to decode card %s: %w", id, err)
		}
	}

	return &card, nil
}

type cardBlobs struct {
	types, subtypes, legalities                              sql.NullString
	abilities, attacks, weaknesses, resistances, retreatCost sql.NullString
}

func encodeCardBlobs(card *models.CardRecord) (cardBlobs, error) {
	var (
		out cardBlobs
		err error
	)
	fields := []struct {
		dst *sql.NullString
		src interface{}
	}{
		{&out.types, card.Types},
		{&out.subtypes, card.Subtypes},
		{&out.legalities, card.Legalities},
		{&out.abilities, card.Abilities},
		{&out.attacks, card.Attacks},
		{&out.weaknesses, card.Weaknesses},
		{&out.resistances, card.Resistances},
		{&out.retreatCost, card.RetreatCost},
	}
	for _, f := range fields {
		if *f.dst, err = marshalNullable(f.src); err != nil {
			return cardBlobs{}, err
		}
	}
	return out, nil
}
