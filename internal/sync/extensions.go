// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package sync

import (
	"context"
	"fmt"

	"github.com/tomtom215/tcgvault/internal/logging"
	"github.com/tomtom215/tcgvault/internal/models"
	"github.com/tomtom215/tcgvault/internal/upstream"
)

// ExtensionSynchronizer mirrors the provider's set list into the store.
type ExtensionSynchronizer struct {
	store   Store
	catalog CatalogClient
	limiter Limiter
	retry   retryPolicy
	stats   *runStats
}

// Run fetches every set and upserts it. A failed list fetch counts one
// error and ends the phase.
func (s *ExtensionSynchronizer) Run(ctx context.Context) error {
	var sets []upstream.Set
	err := s.retry.do(ctx, func() error {
		var err error
		sets, err = s.catalog.ListSets(ctx)
		return err
	})
	if err != nil {
		s.stats.update(func(st *models.RunStatistics) { st.Extensions.Errors++ })
		return fmt.Errorf("failed to list sets: %w", err)
	}

	logger := logging.Ctx(ctx)
	logger.Info().Int("sets", len(sets)).Msg("Syncing extensions")

	processBatch(ctx, sets, s.limiter,
		func(ctx context.Context, set upstream.Set) error {
			if err := s.store.UpsertExtension(ctx, mapExtension(set)); err != nil {
				return err
			}
			s.stats.update(func(st *models.RunStatistics) { st.Extensions.Added++ })
			return nil
		},
		func(set upstream.Set, err error) {
			s.stats.update(func(st *models.RunStatistics) { st.Extensions.Errors++ })
			logger.Warn().Err(err).Str("set_id", set.ID).Msg("Failed to upsert extension")
		},
	)
	return nil
}

func mapExtension(set upstream.Set) *models.ExtensionRecord {
	return &models.ExtensionRecord{
		ID:            set.ID,
		Name:          set.Name,
		LocalizedName: localizeExtensionName(set.Name),
		Series:        set.Series,
		Block:         resolveBlock(set.Series),
		ReleaseDate:   set.ReleaseDate,
		PrintedTotal:  set.PrintedTotal,
		Total:         set.Total,
		SymbolURL:     set.Images.Symbol,
		LogoURL:       set.Images.Logo,
		Legalities:    set.Legalities,
	}
}
