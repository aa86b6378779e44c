// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/tcgvault/internal/models"
	"github.com/tomtom215/tcgvault/internal/upstream"
)

func TestExtensionPhase_UpsertsEverySet(t *testing.T) {
	store := newMockStore()
	catalog := &mockCatalog{sets: []upstream.Set{
		testSet("sv1", "Scarlet & Violet", "Scarlet & Violet"),
		testSet("swsh12", "Silver Tempest", "Sword & Shield"),
	}}
	c := newTestCoordinator(t, Dependencies{Store: store, Catalog: catalog})

	stats, err := c.StartPhaseSync(context.Background(), PhaseSets)
	if err != nil {
		t.Fatalf("StartPhaseSync failed: %v", err)
	}
	if stats.Extensions.Added != 2 || stats.Extensions.Errors != 0 {
		t.Errorf("Expected 2 added / 0 errors, got %+v", stats.Extensions)
	}

	sv1 := store.extensions["sv1"]
	if sv1.LocalizedName != "Écarlate et Violet" {
		t.Errorf("Expected localized name, got %q", sv1.LocalizedName)
	}
	if sv1.Block != "Scarlet & Violet" {
		t.Errorf("Expected block Scarlet & Violet, got %q", sv1.Block)
	}
	if sv1.SymbolURL == "" || sv1.LogoURL == "" {
		t.Errorf("Expected image URLs to be mapped, got %+v", sv1)
	}
	if got := store.extensions["swsh12"].LocalizedName; got != "Tempête Argentée" {
		t.Errorf("Expected Tempête Argentée, got %q", got)
	}
}

func TestExtensionPhase_ErrorInjection(t *testing.T) {
	store := newMockStore()
	store.upsertExtensionFn = func(ext *models.ExtensionRecord) error {
		if ext.ID == "s2" {
			return errInjected
		}
		return nil
	}

	var sets []upstream.Set
	for i := 1; i <= 5; i++ {
		sets = append(sets, testSet(fmt.Sprintf("s%d", i), fmt.Sprintf("Set %d", i), "Scarlet & Violet"))
	}
	c := newTestCoordinator(t, Dependencies{Store: store, Catalog: &mockCatalog{sets: sets}})

	stats, err := c.StartPhaseSync(context.Background(), "extensions")
	if err != nil {
		t.Fatalf("StartPhaseSync failed: %v", err)
	}
	if stats.Extensions.Added != 4 {
		t.Errorf("Expected 4 added, got %d", stats.Extensions.Added)
	}
	if stats.Extensions.Errors != 1 {
		t.Errorf("Expected 1 error, got %d", stats.Extensions.Errors)
	}
	if len(store.extensions) != 4 {
		t.Errorf("Expected 4 stored extensions, got %d", len(store.extensions))
	}
}

func TestExtensionPhase_DuplicateIDsCollapse(t *testing.T) {
	store := newMockStore()
	sets := []upstream.Set{
		testSet("sv1", "Scarlet & Violet", "Scarlet & Violet"),
		testSet("sv1", "Scarlet & Violet", "Scarlet & Violet"),
	}
	c := newTestCoordinator(t, Dependencies{Store: store, Catalog: &mockCatalog{sets: sets}})

	if _, err := c.StartPhaseSync(context.Background(), PhaseSets); err != nil {
		t.Fatalf("StartPhaseSync failed: %v", err)
	}
	if len(store.extensions) != 1 {
		t.Errorf("Expected 1 distinct extension, got %d", len(store.extensions))
	}
}

func TestExtensionPhase_ListFailureCountsOneError(t *testing.T) {
	store := newMockStore()
	catalog := &mockCatalog{listSetsFn: func(context.Context) ([]upstream.Set, error) {
		return nil, errInjected
	}}
	c := newTestCoordinator(t, Dependencies{Store: store, Catalog: catalog})

	stats, err := c.StartPhaseSync(context.Background(), PhaseSets)
	if err != nil {
		t.Fatalf("Expected phase failure to be absorbed, got %v", err)
	}
	if stats.Extensions.Errors != 1 || stats.Extensions.Added != 0 {
		t.Errorf("Expected exactly 1 error, got %+v", stats.Extensions)
	}
	if store.extensionUpserts != 0 {
		t.Errorf("Expected no writes, got %d", store.extensionUpserts)
	}
}

func TestCardPhase_IsolatesFailingExtension(t *testing.T) {
	store := newMockStore()
	store.extensions["sv1"] = models.ExtensionRecord{ID: "sv1", Name: "Scarlet & Violet"}
	store.extensions["sv2"] = models.ExtensionRecord{ID: "sv2", Name: "Paldea Evolved"}

	catalog := &mockCatalog{listCardsFn: func(_ context.Context, setID string) ([]upstream.Card, error) {
		if setID == "sv1" {
			return nil, errInjected
		}
		return []upstream.Card{
			testCard("sv2-1", "Sprigatito", "sv2"),
			testCard("sv2-2", "Charizard ex", "sv2"),
		}, nil
	}}
	c := newTestCoordinator(t, Dependencies{Store: store, Catalog: catalog})

	stats, err := c.StartPhaseSync(context.Background(), PhaseCards)
	if err != nil {
		t.Fatalf("StartPhaseSync failed: %v", err)
	}
	if stats.Cards.Added != 2 {
		t.Errorf("Expected 2 cards added, got %d", stats.Cards.Added)
	}
	if stats.Cards.Errors != 1 {
		t.Errorf("Expected 1 error for the failing extension, got %d", stats.Cards.Errors)
	}

	card := store.cards["sv2-2"]
	if card.ExtensionID != "sv2" {
		t.Errorf("Expected extension id sv2, got %q", card.ExtensionID)
	}
	if card.LocalizedName != "Dracaufeu ex" {
		t.Errorf("Expected Dracaufeu ex, got %q", card.LocalizedName)
	}
	if card.LocalizedRarity != "Commune" {
		t.Errorf("Expected Commune, got %q", card.LocalizedRarity)
	}
	if card.ImageLargeURL == "" || card.ImageSmallURL == "" {
		t.Errorf("Expected image URLs to be mapped, got %+v", card)
	}
}

func TestCardPhase_CardUpsertFailure(t *testing.T) {
	store := newMockStore()
	store.extensions["sv1"] = models.ExtensionRecord{ID: "sv1"}
	store.upsertCardFn = func(card *models.CardRecord) error {
		if card.ID == "sv1-2" {
			return errInjected
		}
		return nil
	}
	catalog := &mockCatalog{cards: map[string][]upstream.Card{
		"sv1": {testCard("sv1-1", "Pineco", "sv1"), testCard("sv1-2", "Pikachu", "sv1"), testCard("sv1-3", "Eevee", "sv1")},
	}}
	c := newTestCoordinator(t, Dependencies{Store: store, Catalog: catalog})

	stats, _ := c.StartPhaseSync(context.Background(), PhaseCards)
	if stats.Cards.Added != 2 || stats.Cards.Errors != 1 {
		t.Errorf("Expected 2 added / 1 error, got %+v", stats.Cards)
	}
}

func TestCardPhase_ListExtensionsFailureIsPhaseFatal(t *testing.T) {
	store := newMockStore()
	store.listExtensionsFn = func() ([]models.ExtensionRecord, error) { return nil, errInjected }
	called := false
	catalog := &mockCatalog{listCardsFn: func(context.Context, string) ([]upstream.Card, error) {
		called = true
		return nil, nil
	}}
	c := newTestCoordinator(t, Dependencies{Store: store, Catalog: catalog})

	stats, _ := c.StartPhaseSync(context.Background(), PhaseCards)
	if stats.Cards.Errors != 1 {
		t.Errorf("Expected 1 error, got %d", stats.Cards.Errors)
	}
	if called {
		t.Error("Expected no card listing after extension lookup failed")
	}
}

func TestPricePhase_RecordsObservation(t *testing.T) {
	store := newMockStore()
	store.cards["sv1-1"] = models.CardRecord{ID: "sv1-1", ExtensionID: "sv1"}
	pricing := &mockPricing{getPriceFn: func(_ context.Context, cardID string) (*upstream.Quote, error) {
		return &upstream.Quote{Found: true, Variant: "normal", MarketPrice: 2.50, Low: floatRef(1.99)}, nil
	}}
	c := newTestCoordinator(t, Dependencies{Store: store, Pricing: pricing})

	stats, err := c.StartPhaseSync(context.Background(), PhasePrices)
	if err != nil {
		t.Fatalf("StartPhaseSync failed: %v", err)
	}
	if stats.Prices.Updated != 1 || stats.Prices.Errors != 0 {
		t.Errorf("Expected 1 updated / 0 errors, got %+v", stats.Prices)
	}
	if len(store.prices) != 1 {
		t.Fatalf("Expected 1 observation, got %d", len(store.prices))
	}

	obs := store.prices[0]
	if obs.CardID != "sv1-1" || obs.MarketPrice != 2.50 {
		t.Errorf("Expected sv1-1 at 2.50, got %s at %v", obs.CardID, obs.MarketPrice)
	}
	if obs.Source != "tcgplayer" || obs.Condition != "near_mint" || obs.Currency != "USD" {
		t.Errorf("Expected configured source/condition/currency, got %s/%s/%s", obs.Source, obs.Condition, obs.Currency)
	}
	if obs.Variant != "normal" {
		t.Errorf("Expected variant normal, got %q", obs.Variant)
	}
	if obs.LowPrice == nil || *obs.LowPrice != 1.99 {
		t.Errorf("Expected low price 1.99, got %v", obs.LowPrice)
	}
}

func TestPricePhase_NoPriceWritesNothing(t *testing.T) {
	tests := []struct {
		name  string
		quote *upstream.Quote
	}{
		{"not found", &upstream.Quote{Found: false}},
		{"zero market", &upstream.Quote{Found: true, MarketPrice: 0}},
		{"nil quote", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			store.cards["sv1-1"] = models.CardRecord{ID: "sv1-1"}
			pricing := &mockPricing{getPriceFn: func(context.Context, string) (*upstream.Quote, error) {
				return tt.quote, nil
			}}
			c := newTestCoordinator(t, Dependencies{Store: store, Pricing: pricing})

			stats, err := c.StartPhaseSync(context.Background(), PhasePrices)
			if err != nil {
				t.Fatalf("StartPhaseSync failed: %v", err)
			}
			if stats.Prices.Updated != 0 || stats.Prices.Errors != 0 {
				t.Errorf("Expected no updates and no errors, got %+v", stats.Prices)
			}
			if store.priceCount() != 0 {
				t.Errorf("Expected no observations, got %d", store.priceCount())
			}
		})
	}
}

func TestPricePhase_LookupErrorIsCounted(t *testing.T) {
	store := newMockStore()
	store.cards["a"] = models.CardRecord{ID: "a"}
	store.cards["b"] = models.CardRecord{ID: "b"}
	pricing := &mockPricing{getPriceFn: func(_ context.Context, cardID string) (*upstream.Quote, error) {
		if cardID == "a" {
			return nil, errInjected
		}
		return &upstream.Quote{Found: true, MarketPrice: 4}, nil
	}}
	c := newTestCoordinator(t, Dependencies{Store: store, Pricing: pricing})

	stats, _ := c.StartPhaseSync(context.Background(), PhasePrices)
	if stats.Prices.Errors != 1 || stats.Prices.Updated != 1 {
		t.Errorf("Expected 1 error / 1 updated, got %+v", stats.Prices)
	}
}

func TestPricePhase_SelectionFailureCountsOneError(t *testing.T) {
	store := newMockStore()
	store.selectPriceFn = func() ([]string, error) { return nil, errInjected }
	c := newTestCoordinator(t, Dependencies{Store: store})

	stats, _ := c.StartPhaseSync(context.Background(), PhasePrices)
	if stats.Prices.Errors != 1 {
		t.Errorf("Expected 1 error, got %d", stats.Prices.Errors)
	}
}

func TestPricePhase_SkipsFreshCards(t *testing.T) {
	store := newMockStore()
	store.cards["a"] = models.CardRecord{ID: "a"}
	lookups := 0
	pricing := &mockPricing{getPriceFn: func(context.Context, string) (*upstream.Quote, error) {
		lookups++
		return &upstream.Quote{Found: true, MarketPrice: 1}, nil
	}}
	c := newTestCoordinator(t, Dependencies{Store: store, Pricing: pricing})

	for i := 0; i < 2; i++ {
		if _, err := c.StartPhaseSync(context.Background(), PhasePrices); err != nil {
			t.Fatalf("StartPhaseSync failed: %v", err)
		}
	}
	if lookups != 1 {
		t.Errorf("Expected a fresh card to be skipped on the second run, got %d lookups", lookups)
	}
}

func TestImagePhase_SizesFailIndependently(t *testing.T) {
	store := newMockStore()
	store.cards["sv1-1"] = models.CardRecord{
		ID:            "sv1-1",
		ImageLargeURL: "https://images.example/sv1-1_hires.png",
		ImageSmallURL: "https://images.example/sv1-1.png",
	}
	fetcher := &mockFetcher{fetchFn: func(_ context.Context, url string) ([]byte, error) {
		if strings.HasSuffix(url, "_hires.png") {
			return []byte("large"), nil
		}
		return nil, errInjected
	}}
	c := newTestCoordinator(t, Dependencies{Store: store, Fetcher: fetcher})

	stats, err := c.StartPhaseSync(context.Background(), PhaseImages)
	if err != nil {
		t.Fatalf("StartPhaseSync failed: %v", err)
	}
	if stats.Images.Cached != 1 || stats.Images.Errors != 1 {
		t.Errorf("Expected 1 cached / 1 error, got %+v", stats.Images)
	}

	large, ok := store.images["sv1-1/"+models.ImageSizeLarge]
	if !ok || !large.Cached {
		t.Fatalf("Expected cached large entry, got %+v", large)
	}
	if _, ok := store.images["sv1-1/"+models.ImageSizeSmall]; ok {
		t.Error("Expected no entry for the failed small image")
	}

	data, err := os.ReadFile(large.LocalPath)
	if err != nil {
		t.Fatalf("Expected cached file on disk: %v", err)
	}
	if string(data) != "jpeg:large" {
		t.Errorf("Expected transcoded content, got %q", data)
	}
}

func TestImagePhase_SkipsMissingSource(t *testing.T) {
	store := newMockStore()
	store.cards["a"] = models.CardRecord{ID: "a", ImageSmallURL: "https://images.example/a.png"}
	fetches := 0
	fetcher := &mockFetcher{fetchFn: func(context.Context, string) ([]byte, error) {
		fetches++
		return []byte("x"), nil
	}}
	c := newTestCoordinator(t, Dependencies{Store: store, Fetcher: fetcher})

	stats, _ := c.StartPhaseSync(context.Background(), PhaseImages)
	if fetches != 1 || stats.Images.Cached != 1 {
		t.Errorf("Expected only the small image fetched, got %d fetches, stats %+v", fetches, stats.Images)
	}
}

func TestImagePhase_TranscodeFailure(t *testing.T) {
	store := newMockStore()
	store.cards["a"] = models.CardRecord{ID: "a", ImageLargeURL: "https://images.example/a_hires.png"}
	transcoder := &mockTranscoder{transcodeFn: func([]byte) ([]byte, error) { return nil, errInjected }}
	c := newTestCoordinator(t, Dependencies{Store: store, Transcoder: transcoder})

	stats, _ := c.StartPhaseSync(context.Background(), PhaseImages)
	if stats.Images.Errors != 1 || stats.Images.Cached != 0 {
		t.Errorf("Expected 1 error / 0 cached, got %+v", stats.Images)
	}
	if len(store.images) != 0 {
		t.Errorf("Expected no cache entries, got %d", len(store.images))
	}
}

func TestImagePhase_UnwritableCacheDir(t *testing.T) {
	store := newMockStore()
	store.cards["a"] = models.CardRecord{ID: "a", ImageLargeURL: "https://images.example/a_hires.png"}

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := newTestCoordinator(t, Dependencies{Store: store})
	c.phases[PhaseImages].(*ImagePipeline).cacheDir = filepath.Join(blocker, "images")

	stats, _ := c.StartPhaseSync(context.Background(), PhaseImages)
	if stats.Images.Errors != 1 || stats.Images.Cached != 0 {
		t.Errorf("Expected 1 error / 0 cached, got %+v", stats.Images)
	}
}
