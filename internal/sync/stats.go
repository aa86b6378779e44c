// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package sync

import (
	"sync"

	"github.com/tomtom215/tcgvault/internal/models"
)

// runStats holds the counters of the current (or last) run.
type runStats struct {
	mu    sync.RWMutex
	stats models.RunStatistics
}

func (s *runStats) reset() {
	s.mu.Lock()
	s.stats = models.RunStatistics{}
	s.mu.Unlock()
}

// snapshot returns a copy that is safe to read while the run continues.
func (s *runStats) snapshot() models.RunStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *runStats) update(fn func(*models.RunStatistics)) {
	s.mu.Lock()
	fn(&s.stats)
	s.mu.Unlock()
}
