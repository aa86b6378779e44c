// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package sync

import (
	"context"
	"time"

	"github.com/tomtom215/tcgvault/internal/database"
	"github.com/tomtom215/tcgvault/internal/events"
	"github.com/tomtom215/tcgvault/internal/models"
	"github.com/tomtom215/tcgvault/internal/upstream"
)

// Store is the subset of the catalog store used by the synchronizers.
// Implemented by *database.DB.
type Store interface {
	UpsertExtension(ctx context.Context, ext *models.ExtensionRecord) error
	ListExtensions(ctx context.Context, filter database.ExtensionFilter) ([]models.ExtensionRecord, error)
	UpsertCard(ctx context.Context, card *models.CardRecord) error
	InsertPriceObservation(ctx context.Context, obs *models.PriceObservation) error
	SelectCardsNeedingPrice(ctx context.Context, source string, since time.Time, limit int) ([]string, error)
	SelectCardsNeedingImages(ctx context.Context, limit int) ([]models.ImageCandidate, error)
	UpsertImageCacheEntry(ctx context.Context, entry *models.ImageCacheEntry) error
	InsertSyncRun(ctx context.Context, run *models.SyncRun) error
}

// CatalogClient lists sets and cards. Implemented by *upstream.CatalogClient.
type CatalogClient interface {
	ListSets(ctx context.Context) ([]upstream.Set, error)
	ListCardsBySet(ctx context.Context, setID string, pageSize int) ([]upstream.Card, error)
}

// PricingClient quotes one card. Implemented by *upstream.PricingClient.
type PricingClient interface {
	GetPrice(ctx context.Context, cardID string) (*upstream.Quote, error)
}

// ImageFetcher downloads image bytes. Implemented by *upstream.ImageFetcher.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Transcoder converts downloaded bytes into the cached format.
// Implemented by *images.Transcoder.
type Transcoder interface {
	Transcode(src []byte) ([]byte, error)
}

// CacheInvalidator flushes the read-through API cache.
// Implemented by *cache.Cache.
type CacheInvalidator interface {
	Clear()
}

// EventPublisher announces finished runs. Implemented by *events.Bus.
type EventPublisher interface {
	PublishSyncCompleted(ctx context.Context, evt *events.SyncCompleted) error
}
