// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

/*
coordinator.go - Run Coordinator

The Coordinator serializes runs and owns the run state:
  - running: atomic.Bool set with CompareAndSwap before any phase executes and
    cleared in a deferred release, so no outcome can leave it stuck
  - stats: the counters of the current run, reset at the start of every run
  - lastRun: completion time of the most recent run

Lifecycle of a full run:
 1. acquire the guard or return ErrAlreadyRunning
 2. reset statistics, tag the context with a fresh run id
 3. run sets, cards, prices, images; each phase is isolated (errors and
    panics are logged and the next phase starts)
 4. record completion, flush the read-through cache, persist the audit row,
    publish sync.completed
 5. release the guard

Single-phase runs follow the same steps without the cache flush.
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/tcgvault/internal/config"
	"github.com/tomtom215/tcgvault/internal/events"
	"github.com/tomtom215/tcgvault/internal/logging"
	"github.com/tomtom215/tcgvault/internal/metrics"
	"github.com/tomtom215/tcgvault/internal/models"
)

var (
	// ErrAlreadyRunning is returned when a run is requested while another is active.
	ErrAlreadyRunning = errors.New("sync already running")

	// ErrUnknownPhase is returned by StartPhaseSync for an unrecognized phase name.
	ErrUnknownPhase = errors.New("unknown sync phase")
)

// Phase names accepted by StartPhaseSync.
const (
	PhaseSets   = "sets"
	PhaseCards  = "cards"
	PhasePrices = "prices"
	PhaseImages = "images"

	// KindFull labels a full run in the audit log and events.
	KindFull = "full"
)

var phaseOrder = []string{PhaseSets, PhaseCards, PhasePrices, PhaseImages}

// phaseRunner is one synchronizer.
type phaseRunner interface {
	Run(ctx context.Context) error
}

// Dependencies are the collaborators of a Coordinator. Cache and Publisher
// are optional. Limiters defaults to NewLimiters(&cfg.Sync).
type Dependencies struct {
	Store      Store
	Catalog    CatalogClient
	Pricing    PricingClient
	Fetcher    ImageFetcher
	Transcoder Transcoder
	Cache      CacheInvalidator
	Publisher  EventPublisher
	Limiters   *Limiters
}

// Coordinator runs synchronization phases one run at a time.
type Coordinator struct {
	store     Store
	cache     CacheInvalidator
	publisher EventPublisher
	phases    map[string]phaseRunner

	running atomic.Bool
	stats   *runStats

	mu      sync.RWMutex
	lastRun *time.Time

	now func() time.Time
}

// NewCoordinator wires the four synchronizers from configuration.
func NewCoordinator(cfg *config.Config, deps Dependencies) *Coordinator {
	limiters := NewLimiters(&cfg.Sync)
	if deps.Limiters != nil {
		limiters = *deps.Limiters
	}

	c := &Coordinator{
		store:     deps.Store,
		cache:     deps.Cache,
		publisher: deps.Publisher,
		stats:     &runStats{},
		now:       time.Now,
	}

	retry := retryPolicy{attempts: cfg.Sync.RetryAttempts, delay: cfg.Sync.RetryDelay}
	c.phases = map[string]phaseRunner{
		PhaseSets: &ExtensionSynchronizer{
			store:   deps.Store,
			catalog: deps.Catalog,
			limiter: limiters.Extension,
			retry:   retry,
			stats:   c.stats,
		},
		PhaseCards: &CardSynchronizer{
			store:    deps.Store,
			catalog:  deps.Catalog,
			cardGate: limiters.Card,
			extGate:  limiters.ExtensionGap,
			pageSize: cfg.Catalog.PageSize,
			retry:    retry,
			stats:    c.stats,
		},
		PhasePrices: &PriceSynchronizer{
			store:     deps.Store,
			pricing:   deps.Pricing,
			limiter:   limiters.Price,
			source:    cfg.Pricing.Source,
			condition: cfg.Pricing.Condition,
			currency:  cfg.Pricing.Currency,
			limit:     cfg.Sync.PriceBatchLimit,
			freshness: cfg.Sync.PriceFreshness,
			stats:     c.stats,
			now:       func() time.Time { return c.now() },
		},
		PhaseImages: &ImagePipeline{
			store:      deps.Store,
			fetcher:    deps.Fetcher,
			transcoder: deps.Transcoder,
			limiter:    limiters.Image,
			cacheDir:   cfg.Images.CacheDir,
			limit:      cfg.Sync.ImageBatchLimit,
			stats:      c.stats,
		},
	}

	logging.Info().
		Int("page_size", cfg.Catalog.PageSize).
		Int("price_batch_limit", cfg.Sync.PriceBatchLimit).
		Dur("price_freshness", cfg.Sync.PriceFreshness).
		Int("image_batch_limit", cfg.Sync.ImageBatchLimit).
		Str("price_source", cfg.Pricing.Source).
		Msg("Sync coordinator configured")

	return c
}

// StartFullSync runs every phase in order and returns the final statistics.
// While another run is active it returns ErrAlreadyRunning together with the
// in-progress statistics, which it does not modify.
func (c *Coordinator) StartFullSync(ctx context.Context) (stats models.RunStatistics, err error) {
	if !c.running.CompareAndSwap(false, true) {
		return c.stats.snapshot(), ErrAlreadyRunning
	}
	defer c.release(&stats, &err)

	return c.run(ctx, KindFull, phaseOrder)
}

// StartPhaseSync runs a single phase: sets, cards, prices or images.
// "extensions" is accepted as an alias of "sets".
func (c *Coordinator) StartPhaseSync(ctx context.Context, phase string) (stats models.RunStatistics, err error) {
	name, ok := NormalizePhase(phase)
	if !ok {
		return models.RunStatistics{}, fmt.Errorf("%w: %q", ErrUnknownPhase, phase)
	}
	if !c.running.CompareAndSwap(false, true) {
		return c.stats.snapshot(), ErrAlreadyRunning
	}
	defer c.release(&stats, &err)

	return c.run(ctx, name, []string{name})
}

// GetStatus reports the run state. It has no side effects.
func (c *Coordinator) GetStatus() models.SyncStatus {
	status := models.SyncStatus{
		Running: c.running.Load(),
		Stats:   c.stats.snapshot(),
	}

	c.mu.RLock()
	if c.lastRun != nil {
		t := *c.lastRun
		status.LastRun = &t
	}
	c.mu.RUnlock()

	return status
}

// NormalizePhase maps a user-supplied phase name to its canonical form.
func NormalizePhase(phase string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(phase))
	if name == "extensions" {
		name = PhaseSets
	}
	for _, p := range phaseOrder {
		if p == name {
			return name, true
		}
	}
	return "", false
}

// release clears the guard. A panic escaping the run is converted into the
// returned error.
func (c *Coordinator) release(stats *models.RunStatistics, err *error) {
	if r := recover(); r != nil {
		*stats = c.stats.snapshot()
		*err = fmt.Errorf("sync run aborted: %v", r)
		logging.Error().Interface("panic", r).Msg("Sync run aborted")
	}
	metrics.SetSyncRunning(false)
	c.running.Store(false)
}

func (c *Coordinator) run(ctx context.Context, kind string, phases []string) (models.RunStatistics, error) {
	runID := logging.GenerateRunID()
	ctx = logging.ContextWithRunID(ctx, runID)
	logger := logging.Ctx(ctx)

	c.stats.reset()
	metrics.SetSyncRunning(true)
	started := c.now()
	logger.Info().Str("kind", kind).Strs("phases", phases).Msg("Sync run started")

	for _, name := range phases {
		if ctx.Err() != nil {
			logger.Warn().Str("phase", name).Msg("Sync run cancelled, skipping remaining phases")
			break
		}
		c.runPhase(ctx, name)
	}

	finished := c.now()
	c.mu.Lock()
	c.lastRun = &finished
	c.mu.Unlock()

	if kind == KindFull && c.cache != nil {
		c.cache.Clear()
		logger.Debug().Msg("Read-through cache cleared")
	}

	stats := c.stats.snapshot()
	var runErr error
	if ctx.Err() != nil {
		runErr = fmt.Errorf("sync run cancelled: %w", ctx.Err())
	}

	c.finish(ctx, runID, kind, started, finished, stats, runErr)
	return stats, runErr
}

// runPhase executes one phase. Errors and panics are logged, never returned.
func (c *Coordinator) runPhase(ctx context.Context, name string) {
	logger := logging.Ctx(ctx).With().Str("phase", name).Logger()
	start := time.Now()
	before := c.stats.snapshot()

	defer func() {
		if r := recover(); r != nil {
			c.stats.update(func(st *models.RunStatistics) { countPhaseError(st, name) })
			logger.Error().Interface("panic", r).Msg("Sync phase panicked")
		}
		after := c.stats.snapshot()
		recordPhaseMetrics(name, time.Since(start), before, after)
		logger.Info().Dur("duration", time.Since(start)).Msg("Sync phase finished")
	}()

	logger.Info().Msg("Sync phase started")
	if err := c.phases[name].Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Sync phase failed")
	}
}

// finish persists the audit row and publishes the completion event. Both use
// a context detached from cancellation so an interrupted run is still recorded.
func (c *Coordinator) finish(ctx context.Context, runID, kind string, started, finished time.Time, stats models.RunStatistics, runErr error) {
	ctx = context.WithoutCancel(ctx)
	logger := logging.Ctx(ctx)

	errText := ""
	if runErr != nil {
		errText = runErr.Error()
	}

	run := &models.SyncRun{
		ID:         runID,
		Kind:       kind,
		StartedAt:  started,
		FinishedAt: finished,
		Stats:      stats,
		Error:      errText,
	}
	if err := c.store.InsertSyncRun(ctx, run); err != nil {
		logger.Error().Err(err).Msg("Failed to persist sync run")
	}

	if c.publisher != nil {
		evt := &events.SyncCompleted{
			RunID:      runID,
			Kind:       kind,
			StartedAt:  started,
			FinishedAt: finished,
			Stats:      stats,
			Error:      errText,
		}
		if err := c.publisher.PublishSyncCompleted(ctx, evt); err != nil {
			logger.Warn().Err(err).Msg("Failed to publish sync completion")
		}
	}

	logger.Info().
		Str("kind", kind).
		Dur("duration", finished.Sub(started)).
		Int("errors", stats.TotalErrors()).
		Msg("Sync run finished")
}

func countPhaseError(st *models.RunStatistics, phase string) {
	switch phase {
	case PhaseSets:
		st.Extensions.Errors++
	case PhaseCards:
		st.Cards.Errors++
	case PhasePrices:
		st.Prices.Errors++
	case PhaseImages:
		st.Images.Errors++
	}
}

func recordPhaseMetrics(phase string, d time.Duration, before, after models.RunStatistics) {
	var b, a models.PhaseCounters
	switch phase {
	case PhaseSets:
		b, a = before.Extensions, after.Extensions
	case PhaseCards:
		b, a = before.Cards, after.Cards
	case PhasePrices:
		b, a = before.Prices, after.Prices
	case PhaseImages:
		metrics.RecordImagePhase(d, after.Images.Cached-before.Images.Cached, after.Images.Errors-before.Images.Errors)
		return
	default:
		return
	}
	metrics.RecordPhase(phase, d, a.Added-b.Added, a.Updated-b.Updated, a.Errors-b.Errors)
}
