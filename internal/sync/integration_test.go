// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package sync

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/tcgvault/internal/config"
	"github.com/tomtom215/tcgvault/internal/database"
	"github.com/tomtom215/tcgvault/internal/upstream"
)

func setupIntegrationDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping DuckDB integration test in short mode")
	}

	db, err := database.New(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
		Threads:   1,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	})
	return db
}

func countRows(t *testing.T, db *database.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.Conn().QueryRowContext(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	return n
}

func TestIntegration_ExtensionRename(t *testing.T) {
	db := setupIntegrationDB(t)
	ctx := context.Background()

	catalog := &mockCatalog{sets: []upstream.Set{
		testSet("sv1", "Scarlet & Violet", "Scarlet & Violet"),
		testSet("swsh12", "Silver Tempest", "Sword & Shield"),
	}}
	c := newTestCoordinator(t, Dependencies{Store: db, Catalog: catalog})

	if _, err := c.StartPhaseSync(ctx, PhaseSets); err != nil {
		t.Fatalf("First sync failed: %v", err)
	}
	exts, err := db.ListExtensions(ctx, database.ExtensionFilter{})
	if err != nil {
		t.Fatalf("ListExtensions failed: %v", err)
	}
	var before time.Time
	for _, ext := range exts {
		if ext.ID == "swsh12" {
			before = ext.UpdatedAt
		}
	}

	catalog.sets[0].Name = "Scarlet & Violet Base"
	if _, err := c.StartPhaseSync(ctx, PhaseSets); err != nil {
		t.Fatalf("Second sync failed: %v", err)
	}

	exts, err = db.ListExtensions(ctx, database.ExtensionFilter{})
	if err != nil {
		t.Fatalf("ListExtensions failed: %v", err)
	}
	if len(exts) != 2 {
		t.Fatalf("Expected 2 extensions, got %d", len(exts))
	}
	for _, ext := range exts {
		switch ext.ID {
		case "sv1":
			if ext.Name != "Scarlet & Violet Base" {
				t.Errorf("Expected renamed sv1, got %q", ext.Name)
			}
		case "swsh12":
			if ext.Name != "Silver Tempest" || ext.Block != "Sword & Shield" {
				t.Errorf("Expected swsh12 unchanged, got %+v", ext)
			}
			if ext.UpdatedAt.Before(before) {
				t.Errorf("Expected updated_at not to move backwards, got %v < %v", ext.UpdatedAt, before)
			}
		default:
			t.Errorf("Unexpected extension %q", ext.ID)
		}
	}
}

func TestIntegration_FullSyncIsIdempotent(t *testing.T) {
	db := setupIntegrationDB(t)
	ctx := context.Background()

	clock := &fakeClock{t: time.Now().UTC()}
	c := newTestCoordinator(t, Dependencies{Store: db, Catalog: fullCatalog(), Pricing: fixedPricing(2.50)})
	c.now = clock.now

	first, err := c.StartFullSync(ctx)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if first.Cards.Added != 3 || first.Prices.Updated != 3 {
		t.Errorf("Expected 3 cards and 3 prices, got %+v", first)
	}

	clock.advance(25 * time.Hour)
	if _, err := c.StartFullSync(ctx); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if n := countRows(t, db, "SELECT COUNT(*) FROM extensions"); n != 2 {
		t.Errorf("Expected 2 extensions, got %d", n)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM cards"); n != 3 {
		t.Errorf("Expected 3 cards, got %d", n)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM price_observations WHERE source = ?", "tcgplayer"); n != 6 {
		t.Errorf("Expected 6 price observations, got %d", n)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM image_cache WHERE cached"); n != 6 {
		t.Errorf("Expected 6 cached images, got %d", n)
	}

	runs, err := db.ListSyncRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListSyncRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("Expected 2 audit rows, got %d", len(runs))
	}

	latest, err := db.LatestPrice(ctx, "sv1-13", "tcgplayer")
	if err != nil {
		t.Fatalf("LatestPrice failed: %v", err)
	}
	if latest.MarketPrice != 2.50 || latest.Condition != "near_mint" {
		t.Errorf("Expected near_mint at 2.50, got %+v", latest)
	}

	card, err := db.GetCard(ctx, "swsh12-1")
	if err != nil {
		t.Fatalf("GetCard failed: %v", err)
	}
	if card.LocalizedName != "Dracaufeu ex" || card.ExtensionID != "swsh12" {
		t.Errorf("Expected localized card in swsh12, got %+v", card)
	}
}
