// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

/*
Package sync keeps the local card catalog in step with the upstream providers.

A run is a fixed sequence of phases, each driven by its own synchronizer:

 1. sets: the extension list from the catalog provider, upserted by id
 2. cards: one catalog request per stored extension, upserted by id
 3. prices: cards without a fresh observation are quoted and an observation
    is appended for every positive market price
 4. images: missing card scans are downloaded, transcoded and cached locally

Key Components:

  - Coordinator: single-run guard, statistics and status, full and
    single-phase runs, cache invalidation and run audit
  - processBatch: generic per-item loop that isolates failures and honours
    both the phase limiter and context cancellation
  - Limiter: pacing between upstream calls; production uses
    golang.org/x/time/rate, tests use rate.Inf

Error Handling:

  - ErrAlreadyRunning: a run was requested while another holds the guard;
    nothing is mutated
  - Phase-fatal failures (the initial listing call of a phase) count one
    error and end that phase; the run continues with the next phase
  - Item failures are counted and the loop moves on
  - Panics inside a phase are recovered and logged like phase-fatal errors

Usage Example:

	coord := sync.NewCoordinator(cfg, sync.Dependencies{
	    Store:      db,
	    Catalog:    upstream.NewCatalogClient(&cfg.Catalog),
	    Pricing:    upstream.NewPricingClient(&cfg.Pricing),
	    Fetcher:    upstream.NewImageFetcher(&cfg.Images),
	    Transcoder: images.NewTranscoder(&cfg.Images),
	    Cache:      apiCache,
	    Publisher:  bus,
	})

	stats, err := coord.StartFullSync(ctx)
	if errors.Is(err, sync.ErrAlreadyRunning) {
	    // report coord.GetStatus() instead
	}

Thread Safety:

All Coordinator methods are safe for concurrent use. GetStatus never blocks
on I/O and can be polled while a run is in progress.
*/
package sync
