// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package sync

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/tcgvault/internal/config"
)

// Limiter gates calls to an upstream dependency. *rate.Limiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Limiters holds the pacing of each phase.
type Limiters struct {
	Extension    Limiter // between extension upserts
	Card         Limiter // between card upserts
	ExtensionGap Limiter // between extensions in the card phase
	Price        Limiter // between price lookups
	Image        Limiter // between cards in the image phase
}

// NewLimiters builds interval limiters from the sync configuration.
// A zero delay yields an unlimited limiter.
func NewLimiters(cfg *config.SyncConfig) Limiters {
	return Limiters{
		Extension:    newIntervalLimiter(cfg.ExtensionDelay),
		Card:         newIntervalLimiter(cfg.CardDelay),
		ExtensionGap: newIntervalLimiter(cfg.ExtensionGap),
		Price:        newIntervalLimiter(cfg.PriceDelay),
		Image:        newIntervalLimiter(cfg.ImageDelay),
	}
}

// UnlimitedLimiters never wait.
func UnlimitedLimiters() Limiters {
	return Limiters{
		Extension:    rate.NewLimiter(rate.Inf, 1),
		Card:         rate.NewLimiter(rate.Inf, 1),
		ExtensionGap: rate.NewLimiter(rate.Inf, 1),
		Price:        rate.NewLimiter(rate.Inf, 1),
		Image:        rate.NewLimiter(rate.Inf, 1),
	}
}

func newIntervalLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
