// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/tcgvault/internal/logging"
	"github.com/tomtom215/tcgvault/internal/models"
)

// PriceSynchronizer appends price observations for cards whose latest
// observation from the configured source is missing or stale.
type PriceSynchronizer struct {
	store     Store
	pricing   PricingClient
	limiter   Limiter
	source    string
	condition string
	currency  string
	limit     int
	freshness time.Duration
	stats     *runStats
	now       func() time.Time
}

// Run quotes up to limit stale cards. A quote without a positive market
// price writes nothing and is not an error.
func (s *PriceSynchronizer) Run(ctx context.Context) error {
	since := s.now().Add(-s.freshness)
	ids, err := s.store.SelectCardsNeedingPrice(ctx, s.source, since, s.limit)
	if err != nil {
		s.stats.update(func(st *models.RunStatistics) { st.Prices.Errors++ })
		return fmt.Errorf("failed to select cards needing price: %w", err)
	}

	logger := logging.Ctx(ctx)
	logger.Info().Int("cards", len(ids)).Str("source", s.source).Msg("Syncing prices")

	skipped := 0
	processBatch(ctx, ids, s.limiter,
		func(ctx context.Context, cardID string) error {
			quote, err := s.pricing.GetPrice(ctx, cardID)
			if err != nil {
				return err
			}
			if quote == nil || !quote.Found || quote.MarketPrice <= 0 {
				skipped++
				return nil
			}

			obs := &models.PriceObservation{
				CardID:      cardID,
				Source:      s.source,
				Condition:   s.condition,
				Variant:     quote.Variant,
				MarketPrice: quote.MarketPrice,
				LowPrice:    quote.Low,
				MidPrice:    quote.Mid,
				HighPrice:   quote.High,
				Currency:    s.currency,
				RecordedAt:  s.now().UTC(),
			}
			if err := s.store.InsertPriceObservation(ctx, obs); err != nil {
				return err
			}
			s.stats.update(func(st *models.RunStatistics) { st.Prices.Updated++ })
			return nil
		},
		func(cardID string, err error) {
			s.stats.update(func(st *models.RunStatistics) { st.Prices.Errors++ })
			logger.Warn().Err(err).Str("card_id", cardID).Msg("Failed to sync price")
		},
	)

	if skipped > 0 {
		logger.Debug().Int("skipped", skipped).Msg("Cards without a market price")
	}
	return nil
}
