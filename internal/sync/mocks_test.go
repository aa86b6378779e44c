// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package sync

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/tcgvault/internal/config"
	"github.com/tomtom215/tcgvault/internal/database"
	"github.com/tomtom215/tcgvault/internal/events"
	"github.com/tomtom215/tcgvault/internal/models"
	"github.com/tomtom215/tcgvault/internal/upstream"
)

var errInjected = errors.New("injected failure")

// newTestConfig returns a configuration with retries reduced for fast tests.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Catalog: config.CatalogConfig{
			BaseURL:  "http://catalog.invalid",
			Timeout:  time.Second,
			PageSize: 250,
		},
		Pricing: config.PricingConfig{
			BaseURL:           "http://pricing.invalid",
			Source:            "tcgplayer",
			Condition:         "near_mint",
			Currency:          "USD",
			RequestsPerSecond: 100,
			Burst:             1,
			Timeout:           time.Second,
		},
		Images: config.ImagesConfig{
			CacheDir:  t.TempDir(),
			MaxWidth:  200,
			MaxHeight: 280,
			Quality:   85,
			MaxBytes:  1 << 20,
			Timeout:   time.Second,
		},
		Sync: config.SyncConfig{
			PriceBatchLimit: 1000,
			PriceFreshness:  24 * time.Hour,
			ImageBatchLimit: 500,
			RetryAttempts:   1,
			RetryDelay:      time.Millisecond,
		},
	}
}

// newTestCoordinator builds a Coordinator with unlimited pacing. Nil
// collaborators in deps are replaced with empty mocks.
func newTestCoordinator(t *testing.T, deps Dependencies) *Coordinator {
	t.Helper()
	if deps.Store == nil {
		deps.Store = newMockStore()
	}
	if deps.Catalog == nil {
		deps.Catalog = &mockCatalog{}
	}
	if deps.Pricing == nil {
		deps.Pricing = &mockPricing{}
	}
	if deps.Fetcher == nil {
		deps.Fetcher = &mockFetcher{}
	}
	if deps.Transcoder == nil {
		deps.Transcoder = &mockTranscoder{}
	}
	limiters := UnlimitedLimiters()
	deps.Limiters = &limiters
	return NewCoordinator(newTestConfig(t), deps)
}

// mockStore is an in-memory Store. The *Fn fields inject failures; when nil
// the call succeeds against the maps.
type mockStore struct {
	mu         sync.Mutex
	extensions map[string]models.ExtensionRecord
	cards      map[string]models.CardRecord
	prices     []models.PriceObservation
	images     map[string]models.ImageCacheEntry
	runs       []models.SyncRun

	extensionUpserts int
	cardUpserts      int

	upsertExtensionFn   func(ext *models.ExtensionRecord) error
	upsertCardFn        func(card *models.CardRecord) error
	listExtensionsFn    func() ([]models.ExtensionRecord, error)
	insertPriceFn       func(obs *models.PriceObservation) error
	selectPriceFn       func() ([]string, error)
	selectImagesFn      func() ([]models.ImageCandidate, error)
	upsertImageFn       func(entry *models.ImageCacheEntry) error
	insertSyncRunCalled atomic.Int32
}

func newMockStore() *mockStore {
	return &mockStore{
		extensions: make(map[string]models.ExtensionRecord),
		cards:      make(map[string]models.CardRecord),
		images:     make(map[string]models.ImageCacheEntry),
	}
}

func (m *mockStore) UpsertExtension(_ context.Context, ext *models.ExtensionRecord) error {
	if m.upsertExtensionFn != nil {
		if err := m.upsertExtensionFn(ext); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extensionUpserts++
	m.extensions[ext.ID] = *ext
	return nil
}

func (m *mockStore) ListExtensions(_ context.Context, _ database.ExtensionFilter) ([]models.ExtensionRecord, error) {
	if m.listExtensionsFn != nil {
		return m.listExtensionsFn()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ExtensionRecord, 0, len(m.extensions))
	for _, ext := range m.extensions {
		out = append(out, ext)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStore) UpsertCard(_ context.Context, card *models.CardRecord) error {
	if m.upsertCardFn != nil {
		if err := m.upsertCardFn(card); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cardUpserts++
	m.cards[card.ID] = *card
	return nil
}

func (m *mockStore) InsertPriceObservation(_ context.Context, obs *models.PriceObservation) error {
	if m.insertPriceFn != nil {
		if err := m.insertPriceFn(obs); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices = append(m.prices, *obs)
	return nil
}

func (m *mockStore) SelectCardsNeedingPrice(_ context.Context, source string, since time.Time, limit int) ([]string, error) {
	if m.selectPriceFn != nil {
		return m.selectPriceFn()
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	fresh := make(map[string]bool)
	for _, p := range m.prices {
		if p.Source == source && !p.RecordedAt.Before(since) {
			fresh[p.CardID] = true
		}
	}
	var ids []string
	for id := range m.cards {
		if !fresh[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (m *mockStore) SelectCardsNeedingImages(_ context.Context, limit int) ([]models.ImageCandidate, error) {
	if m.selectImagesFn != nil {
		return m.selectImagesFn()
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.ImageCandidate
	for id, card := range m.cards {
		c := models.ImageCandidate{CardID: id}
		if card.ImageLargeURL != "" && !m.images[id+"/"+models.ImageSizeLarge].Cached {
			c.LargeURL = card.ImageLargeURL
		}
		if card.ImageSmallURL != "" && !m.images[id+"/"+models.ImageSizeSmall].Cached {
			c.SmallURL = card.ImageSmallURL
		}
		if c.LargeURL != "" || c.SmallURL != "" {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CardID < out[j].CardID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockStore) UpsertImageCacheEntry(_ context.Context, entry *models.ImageCacheEntry) error {
	if m.upsertImageFn != nil {
		if err := m.upsertImageFn(entry); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[entry.CardID+"/"+entry.Size] = *entry
	return nil
}

func (m *mockStore) InsertSyncRun(_ context.Context, run *models.SyncRun) error {
	m.insertSyncRunCalled.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, *run)
	return nil
}

func (m *mockStore) priceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prices)
}

// mockCatalog serves fixed sets and cards unless a function field overrides.
type mockCatalog struct {
	sets  []upstream.Set
	cards map[string][]upstream.Card

	listSetsFn  func(ctx context.Context) ([]upstream.Set, error)
	listCardsFn func(ctx context.Context, setID string) ([]upstream.Card, error)
}

func (m *mockCatalog) ListSets(ctx context.Context) ([]upstream.Set, error) {
	if m.listSetsFn != nil {
		return m.listSetsFn(ctx)
	}
	return m.sets, nil
}

func (m *mockCatalog) ListCardsBySet(ctx context.Context, setID string, _ int) ([]upstream.Card, error) {
	if m.listCardsFn != nil {
		return m.listCardsFn(ctx, setID)
	}
	return m.cards[setID], nil
}

type mockPricing struct {
	getPriceFn func(ctx context.Context, cardID string) (*upstream.Quote, error)
}

func (m *mockPricing) GetPrice(ctx context.Context, cardID string) (*upstream.Quote, error) {
	if m.getPriceFn != nil {
		return m.getPriceFn(ctx, cardID)
	}
	return &upstream.Quote{}, nil
}

type mockFetcher struct {
	fetchFn func(ctx context.Context, url string) ([]byte, error)
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, url)
	}
	return []byte("raw:" + url), nil
}

type mockTranscoder struct {
	transcodeFn func(src []byte) ([]byte, error)
}

func (m *mockTranscoder) Transcode(src []byte) ([]byte, error) {
	if m.transcodeFn != nil {
		return m.transcodeFn(src)
	}
	return append([]byte("jpeg:"), src...), nil
}

type mockCache struct {
	clears  atomic.Int32
	clearFn func()
}

func (m *mockCache) Clear() {
	m.clears.Add(1)
	if m.clearFn != nil {
		m.clearFn()
	}
}

type mockPublisher struct {
	mu     sync.Mutex
	events []events.SyncCompleted
}

func (m *mockPublisher) PublishSyncCompleted(_ context.Context, evt *events.SyncCompleted) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *evt)
	return nil
}

func (m *mockPublisher) published() []events.SyncCompleted {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.SyncCompleted(nil), m.events...)
}

// testSet returns a provider set in the given series.
func testSet(id, name, series string) upstream.Set {
	return upstream.Set{
		ID:           id,
		Name:         name,
		Series:       series,
		PrintedTotal: 198,
		Total:        258,
		ReleaseDate:  "2023/03/31",
		Images: upstream.SetImages{
			Symbol: "https://images.example/" + id + "/symbol.png",
			Logo:   "https://images.example/" + id + "/logo.png",
		},
	}
}

// testCard returns a provider card with both image sizes.
func testCard(id, name, setID string) upstream.Card {
	return upstream.Card{
		ID:        id,
		Name:      name,
		Supertype: "Pokémon",
		Types:     []string{"Grass"},
		Number:    "1",
		Rarity:    "Common",
		Set:       upstream.CardSet{ID: setID},
		Images: upstream.CardImages{
			Small: "https://images.example/" + id + ".png",
			Large: "https://images.example/" + id + "_hires.png",
		},
	}
}

func floatRef(f float64) *float64 { return &f }
