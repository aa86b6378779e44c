// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package sync

import (
	"context"
	"fmt"

	"github.com/tomtom215/tcgvault/internal/database"
	"github.com/tomtom215/tcgvault/internal/logging"
	"github.com/tomtom215/tcgvault/internal/models"
	"github.com/tomtom215/tcgvault/internal/upstream"
)

// CardSynchronizer pulls the cards of every stored extension.
//
// Extensions come from the store rather than the provider, so a card phase
// run on its own covers everything the last extension phase persisted.
type CardSynchronizer struct {
	store    Store
	catalog  CatalogClient
	cardGate Limiter
	extGate  Limiter
	pageSize int
	retry    retryPolicy
	stats    *runStats
}

// Run syncs cards extension by extension. Listing extensions from the store
// is phase-fatal; a failing extension or card is counted and skipped.
func (s *CardSynchronizer) Run(ctx context.Context) error {
	exts, err := s.store.ListExtensions(ctx, database.ExtensionFilter{})
	if err != nil {
		s.stats.update(func(st *models.RunStatistics) { st.Cards.Errors++ })
		return fmt.Errorf("failed to list extensions: %w", err)
	}

	logger := logging.Ctx(ctx)
	logger.Info().Int("extensions", len(exts)).Msg("Syncing cards")

	processBatch(ctx, exts, s.extGate,
		func(ctx context.Context, ext models.ExtensionRecord) error {
			return s.syncExtension(ctx, ext)
		},
		func(ext models.ExtensionRecord, err error) {
			s.stats.update(func(st *models.RunStatistics) { st.Cards.Errors++ })
			logger.Warn().Err(err).Str("extension_id", ext.ID).Msg("Failed to sync extension cards")
		},
	)
	return nil
}

func (s *CardSynchronizer) syncExtension(ctx context.Context, ext models.ExtensionRecord) error {
	var cards []upstream.Card
	err := s.retry.do(ctx, func() error {
		var err error
		cards, err = s.catalog.ListCardsBySet(ctx, ext.ID, s.pageSize)
		return err
	})
	if err != nil {
		return err
	}

	logger := logging.Ctx(ctx)
	result := processBatch(ctx, cards, s.cardGate,
		func(ctx context.Context, card upstream.Card) error {
			if err := s.store.UpsertCard(ctx, mapCard(card, ext.ID)); err != nil {
				return err
			}
			s.stats.update(func(st *models.RunStatistics) { st.Cards.Added++ })
			return nil
		},
		func(card upstream.Card, err error) {
			s.stats.update(func(st *models.RunStatistics) { st.Cards.Errors++ })
			logger.Warn().Err(err).Str("card_id", card.ID).Msg("Failed to upsert card")
		},
	)

	logger.Debug().Str("extension_id", ext.ID).Int("upserted", result.Succeeded).Int("failed", result.Failed).Msg("Extension cards synced")
	return nil
}

func mapCard(card upstream.Card, extensionID string) *models.CardRecord {
	return &models.CardRecord{
		ID:              card.ID,
		Name:            card.Name,
		LocalizedName:   localizeCardName(card.Name),
		ExtensionID:     extensionID,
		Number:          card.Number,
		Supertype:       card.Supertype,
		Types:           card.Types,
		Subtypes:        card.Subtypes,
		Rarity:          card.Rarity,
		LocalizedRarity: localizeRarity(card.Rarity),
		HP:              card.HP,
		Artist:          card.Artist,
		FlavorText:      card.FlavorText,
		Abilities:       card.Abilities,
		Attacks:         card.Attacks,
		Weaknesses:      card.Weaknesses,
		Resistances:     card.Resistances,
		RetreatCost:     card.RetreatCost,
		Legalities:      card.Legalities,
		ImageSmallURL:   card.Images.Small,
		ImageLargeURL:   card.Images.Large,
	}
}
