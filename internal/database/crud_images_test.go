// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package database

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/tcgvault/internal/models"
)

func TestSelectCardsNeedingImages(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	insertTestCard(t, db, "both-pending", "sv1")
	insertTestCard(t, db, "large-cached", "sv1")
	insertTestCard(t, db, "all-cached", "sv1")
	if err := db.UpsertCard(ctx, &models.CardRecord{ID: "no-images", ExtensionID: "sv1", Name: "x", LocalizedName: "x"}); err != nil {
		t.Fatalf("UpsertCard failed: %v", err)
	}

	for _, e := range []models.ImageCacheEntry{
		{CardID: "large-cached", Size: models.ImageSizeLarge, LocalPath: "/c/large-cached_large.jpg", Cached: true},
		{CardID: "all-cached", Size: models.ImageSizeLarge, LocalPath: "/c/all-cached_large.jpg", Cached: true},
		{CardID: "all-cached", Size: models.ImageSizeSmall, LocalPath: "/c/all-cached_small.jpg", Cached: true},
	} {
		e := e
		if err := db.UpsertImageCacheEntry(ctx, &e); err != nil {
			t.Fatalf("UpsertImageCacheEntry failed: %v", err)
		}
	}

	candidates, err := db.SelectCardsNeedingImages(ctx, 500)
	if err != nil {
		t.Fatalf("SelectCardsNeedingImages failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d: %+v", len(candidates), candidates)
	}

	byID := make(map[string]models.ImageCandidate)
	for _, c := range candidates {
		byID[c.CardID] = c
	}
	if c := byID["both-pending"]; c.LargeURL == "" || c.SmallURL == "" {
		t.Errorf("Expected both sizes pending, got %+v", c)
	}
	if c := byID["large-cached"]; c.LargeURL != "" || c.SmallURL == "" {
		t.Errorf("Expected only small pending, got %+v", c)
	}
}

func TestUpsertImageCacheEntry_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	entry := &models.ImageCacheEntry{CardID: "sv1-1", Size: models.ImageSizeLarge, LocalPath: "/a.jpg", Cached: true}
	for i := 0; i < 2; i++ {
		if err := db.UpsertImageCacheEntry(ctx, entry); err != nil {
			t.Fatalf("UpsertImageCacheEntry failed: %v", err)
		}
	}
	entry.LocalPath = "/b.jpg"
	if err := db.UpsertImageCacheEntry(ctx, entry); err != nil {
		t.Fatalf("UpsertImageCacheEntry failed: %v", err)
	}

	entries, err := db.ListImageCacheEntries(ctx, "sv1-1")
	if err != nil {
		t.Fatalf("ListImageCacheEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].LocalPath != "/b.jpg" || !entries[0].Cached {
		t.Errorf("Unexpected entries: %+v", entries)
	}
}

func TestSyncRuns(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	start := time.Now().UTC().Add(-time.Minute)
	for i, kind := range []string{"full", "prices"} {
		run := &models.SyncRun{
			ID:         []string{"00000000-0000-0000-0000-000000000001", "00000000-0000-0000-0000-000000000002"}[i],
			Kind:       kind,
			StartedAt:  start,
			FinishedAt: start.Add(time.Duration(i+1) * time.Second),
			Stats:      models.RunStatistics{Prices: models.PhaseCounters{Updated: 10 * (i + 1)}},
		}
		if err := db.InsertSyncRun(ctx, run); err != nil {
			t.Fatalf("InsertSyncRun failed: %v", err)
		}
	}

	runs, err := db.ListSyncRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListSyncRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].Kind != "prices" || runs[0].Stats.Prices.Updated != 20 {
		t.Errorf("Expected newest run first with stats, got %+v", runs[0])
	}
}
