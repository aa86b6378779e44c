// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package sync

import (
	"context"
	"fmt"
	"os"

	"github.com/tomtom215/tcgvault/internal/images"
	"github.com/tomtom215/tcgvault/internal/logging"
	"github.com/tomtom215/tcgvault/internal/models"
)

// ImagePipeline caches card scans on local disk.
type ImagePipeline struct {
	store      Store
	fetcher    ImageFetcher
	transcoder Transcoder
	limiter    Limiter
	cacheDir   string
	limit      int
	stats      *runStats
}

// Run caches the pending sizes of up to limit cards. Each size is
// independent: a failed small image does not undo a cached large one.
func (p *ImagePipeline) Run(ctx context.Context) error {
	if err := os.MkdirAll(p.cacheDir, 0o750); err != nil {
		p.stats.update(func(st *models.RunStatistics) { st.Images.Errors++ })
		return fmt.Errorf("failed to create image cache dir: %w", err)
	}

	candidates, err := p.store.SelectCardsNeedingImages(ctx, p.limit)
	if err != nil {
		p.stats.update(func(st *models.RunStatistics) { st.Images.Errors++ })
		return fmt.Errorf("failed to select cards needing images: %w", err)
	}

	logger := logging.Ctx(ctx)
	logger.Info().Int("cards", len(candidates)).Str("dir", p.cacheDir).Msg("Caching images")

	processBatch(ctx, candidates, p.limiter,
		func(ctx context.Context, c models.ImageCandidate) error {
			p.cacheCard(ctx, c)
			return nil
		},
		func(c models.ImageCandidate, err error) {
			p.stats.update(func(st *models.RunStatistics) { st.Images.Errors++ })
			logger.Warn().Err(err).Str("card_id", c.CardID).Msg("Failed to cache card images")
		},
	)
	return nil
}

func (p *ImagePipeline) cacheCard(ctx context.Context, c models.ImageCandidate) {
	sizes := []struct {
		size string
		url  string
	}{
		{models.ImageSizeLarge, c.LargeURL},
		{models.ImageSizeSmall, c.SmallURL},
	}

	for _, s := range sizes {
		if s.url == "" || ctx.Err() != nil {
			continue
		}
		if err := p.cacheImage(ctx, c.CardID, s.size, s.url); err != nil {
			p.stats.update(func(st *models.RunStatistics) { st.Images.Errors++ })
			logging.Ctx(ctx).Warn().Err(err).Str("card_id", c.CardID).Str("size", s.size).Msg("Failed to cache image")
			continue
		}
		p.stats.update(func(st *models.RunStatistics) { st.Images.Cached++ })
	}
}

// cacheImage downloads, transcodes and writes one image, then records it.
// The entry is written only after the file is in place.
func (p *ImagePipeline) cacheImage(ctx context.Context, cardID, size, url string) error {
	raw, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}

	encoded, err := p.transcoder.Transcode(raw)
	if err != nil {
		return err
	}

	path := images.CachePath(p.cacheDir, cardID, size)
	if err := images.WriteFileAtomic(path, encoded); err != nil {
		return err
	}

	return p.store.UpsertImageCacheEntry(ctx, &models.ImageCacheEntry{
		CardID:    cardID,
		Size:      size,
		LocalPath: path,
		Cached:    true,
	})
}
