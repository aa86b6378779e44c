// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/tcgvault/internal/models"
)

func TestInsertPriceObservation_AppendOnly(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	insertTestCard(t, db, "sv1-13", "sv1")

	low := 1.75
	for _, price := range []float64{2.5, 2.75} {
		obs := &models.PriceObservation{
			CardID: "sv1-13", Source: "tcgplayer", Condition: "near_mint",
			Variant: "normal", MarketPrice: price, LowPrice: &low, Currency: "USD",
		}
		if err := db.InsertPriceObservation(ctx, obs); err != nil {
			t.Fatalf("InsertPriceObservation(%v) failed: %v", price, err)
		}
		if obs.ID == "" {
			t.Error("Expected generated observation ID")
		}
		time.Sleep(2 * time.Millisecond)
	}

	if n := countRows(t, db, "price_observations"); n != 2 {
		t.Fatalf("Expected 2 observations, got %d", n)
	}

	latest, err := db.LatestPrice(ctx, "sv1-13", "tcgplayer")
	if err != nil {
		t.Fatalf("LatestPrice failed: %v", err)
	}
	if latest.MarketPrice != 2.75 {
		t.Errorf("Expected latest price 2.75, got %v", latest.MarketPrice)
	}
	if latest.LowPrice == nil || *latest.LowPrice != 1.75 {
		t.Errorf("Expected low price 1.75, got %v", latest.LowPrice)
	}
	if latest.MidPrice != nil {
		t.Errorf("Expected nil mid price, got %v", *latest.MidPrice)
	}

	if _, err := db.LatestPrice(ctx, "sv1-13", "cardmarket"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for other source, got %v", err)
	}
}

func TestSelectCardsNeedingPrice_AntiJoin(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"fresh", "stale", "other-source", "never"} {
		insertTestCard(t, db, id, "sv1")
	}

	now := time.Now().UTC()
	observations := []models.PriceObservation{
		{CardID: "fresh", Source: "tcgplayer", RecordedAt: now.Add(-time.Hour)},
		{CardID: "stale", Source: "tcgplayer", RecordedAt: now.Add(-48 * time.Hour)},
		{CardID: "other-source", Source: "cardmarket", RecordedAt: now.Add(-time.Hour)},
	}
	for i := range observations {
		obs := observations[i]
		obs.Condition, obs.Variant, obs.Currency, obs.MarketPrice = "near_mint", "normal", "USD", 1
		if err := db.InsertPriceObservation(ctx, &obs); err != nil {
			t.Fatalf("InsertPriceObservation failed: %v", err)
		}
	}

	ids, err := db.SelectCardsNeedingPrice(ctx, "tcgplayer", now.Add(-24*time.Hour), 1000)
	if err != nil {
		t.Fatalf("SelectCardsNeedingPrice failed: %v", err)
	}

	got := make(map[string]bool, len(ids))
	for _, id := range ids {
		got[id] = true
	}
	if len(ids) != 3 || got["fresh"] || !got["stale"] || !got["other-source"] || !got["never"] {
		t.Errorf("Unexpected candidates: %v", ids)
	}

	limited, err := db.SelectCardsNeedingPrice(ctx, "tcgplayer", now.Add(-24*time.Hour), 2)
	if err != nil {
		t.Fatalf("SelectCardsNeedingPrice (limit) failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected limit of 2, got %d", len(limited))
	}
}
