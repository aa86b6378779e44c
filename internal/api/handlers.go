// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package api

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/tcgvault/internal/cache"
	"github.com/tomtom215/tcgvault/internal/database"
	"github.com/tomtom215/tcgvault/internal/models"
)

// SyncService starts runs and reports their state. Satisfied by
// *sync.Coordinator.
type SyncService interface {
	StartFullSync(ctx context.Context) (models.RunStatistics, error)
	StartPhaseSync(ctx context.Context, phase string) (models.RunStatistics, error)
	GetStatus() models.SyncStatus
}

// CatalogStore is the read side of the database used by the handlers.
// Satisfied by *database.DB.
type CatalogStore interface {
	ListExtensions(ctx context.Context, filter database.ExtensionFilter) ([]models.ExtensionRecord, error)
	ListSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error)
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, lifecycle
//   - handlers_helpers.go: response and parameter helpers
//   - handlers_sync.go: sync trigger, status and audit endpoints
//   - handlers_catalog.go: catalog read endpoints
//   - handlers_health.go: health endpoint
type Handler struct {
	sync      SyncService
	store     CatalogStore
	cache     *cache.Cache
	startTime time.Time

	// background runs outlive the request and stop with Shutdown
	baseCtx context.Context
	cancel  context.CancelFunc
	runs    sync.WaitGroup
}

// NewHandler creates the API handler. cache may be nil to disable response
// caching.
func NewHandler(syncSvc SyncService, store CatalogStore, c *cache.Cache) *Handler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Handler{
		sync:      syncSvc,
		store:     store,
		cache:     c,
		startTime: time.Now(),
		baseCtx:   ctx,
		cancel:    cancel,
	}
}

// Shutdown cancels background runs started by POST triggers and waits for
// them to return or for ctx to end.
func (h *Handler) Shutdown(ctx context.Context) error {
	h.cancel()

	done := make(chan struct{})
	go func() {
		h.runs.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
