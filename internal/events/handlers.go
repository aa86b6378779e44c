// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package events

import (
	"context"
	"errors"

	"github.com/tomtom215/tcgvault/internal/logging"
	"github.com/tomtom215/tcgvault/internal/metrics"
)

// RecordRun logs a run summary and updates the run metrics.
func RecordRun(ctx context.Context, evt *SyncCompleted) error {
	var runErr error
	if evt.Error != "" {
		runErr = errors.New(evt.Error)
	}
	metrics.RecordSyncRun(evt.Kind, evt.Stats.TotalErrors(), runErr)

	logger := logging.Ctx(logging.ContextWithRunID(ctx, evt.RunID))
	event := logger.Info()
	if runErr != nil || evt.Stats.TotalErrors() > 0 {
		event = logger.Warn()
	}
	event.
		Str("kind", evt.Kind).
		Dur("duration", evt.Duration()).
		Int("extensions_added", evt.Stats.Extensions.Added).
		Int("cards_added", evt.Stats.Cards.Added).
		Int("prices_updated", evt.Stats.Prices.Updated).
		Int("images_cached", evt.Stats.Images.Cached).
		Int("errors", evt.Stats.TotalErrors()).
		Str("error", evt.Error).
		Msg("Sync run completed")
	return nil
}
