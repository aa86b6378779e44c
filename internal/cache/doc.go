// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

/*
Package cache provides the thread-safe read-through cache that fronts catalog
queries served by the admin API.

# Overview

  - Thread-safe concurrent access (sync.RWMutex)
  - Time-to-live (TTL) expiration, checked lazily on Get and swept by a
    background janitor
  - GetOrLoad for read-through use with a typed loader
  - Clear for wholesale invalidation; the sync coordinator calls it after
    every full run so clients never see a pre-sync catalog for longer than
    one request

# Usage Example

	c := cache.New(5 * time.Minute)
	defer c.Close()

	sets, err := cache.GetOrLoad(c, cache.GenerateKey("extensions", filter),
	    func() ([]models.ExtensionRecord, error) {
	        return db.ListExtensions(ctx, filter)
	    })

Hits, misses and evictions are exported as Prometheus counters in addition to
the in-process Stats snapshot.
*/
package cache
