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
)

// retryPolicy retries phase-level listing calls.
type retryPolicy struct {
	attempts int
	delay    time.Duration
}

func (r retryPolicy) do(ctx context.Context, fn func() error) error {
	return retryWithBackoff(ctx, r.attempts, r.delay, fn)
}

// retryWithBackoff executes fn up to attempts times, doubling delay after
// each failure. The context is used for cancellation during backoff waits.
func retryWithBackoff(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = fn()
		if err == nil {
			return nil
		}

		if attempt < attempts-1 {
			logging.Ctx(ctx).Warn().Err(err).Int("attempt", attempt+1).Int("max_attempts", attempts).Dur("delay", delay).Msg("Retry attempt")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}
	}

	return fmt.Errorf("max retry attempts reached: %w", err)
}
