// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package sync

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/tomtom215/tcgvault/internal/upstream"
)

// fakeClock is advanced explicitly by tests.
type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func fullCatalog() *mockCatalog {
	return &mockCatalog{
		sets: []upstream.Set{
			testSet("sv1", "Scarlet & Violet", "Scarlet & Violet"),
			testSet("swsh12", "Silver Tempest", "Sword & Shield"),
		},
		cards: map[string][]upstream.Card{
			"sv1": {
				testCard("sv1-1", "Pineco", "sv1"),
				testCard("sv1-13", "Sprigatito", "sv1"),
			},
			"swsh12": {
				testCard("swsh12-1", "Charizard ex", "swsh12"),
			},
		},
	}
}

func fixedPricing(price float64) *mockPricing {
	return &mockPricing{getPriceFn: func(context.Context, string) (*upstream.Quote, error) {
		return &upstream.Quote{Found: true, Variant: "normal", MarketPrice: price}, nil
	}}
}

func TestStartFullSync_RunsAllPhases(t *testing.T) {
	store := newMockStore()
	cache := &mockCache{}
	publisher := &mockPublisher{}
	c := newTestCoordinator(t, Dependencies{
		Store:     store,
		Catalog:   fullCatalog(),
		Pricing:   fixedPricing(2.50),
		Cache:     cache,
		Publisher: publisher,
	})

	if status := c.GetStatus(); status.LastRun != nil || status.Running {
		t.Fatalf("Expected idle coordinator with no last run, got %+v", status)
	}

	stats, err := c.StartFullSync(context.Background())
	if err != nil {
		t.Fatalf("StartFullSync failed: %v", err)
	}

	if stats.Extensions.Added != 2 {
		t.Errorf("Expected 2 extensions, got %d", stats.Extensions.Added)
	}
	if stats.Cards.Added != 3 {
		t.Errorf("Expected 3 cards, got %d", stats.Cards.Added)
	}
	if stats.Prices.Updated != 3 {
		t.Errorf("Expected 3 prices, got %d", stats.Prices.Updated)
	}
	if stats.Images.Cached != 6 {
		t.Errorf("Expected 6 cached images, got %d", stats.Images.Cached)
	}
	if stats.TotalErrors() != 0 {
		t.Errorf("Expected no errors, got %+v", stats)
	}

	for key, entry := range store.images {
		if _, err := os.Stat(entry.LocalPath); err != nil {
			t.Errorf("Expected cached file for %s: %v", key, err)
		}
	}

	status := c.GetStatus()
	if status.Running {
		t.Error("Expected running to be false after completion")
	}
	if status.LastRun == nil {
		t.Error("Expected last run to be recorded")
	}
	if status.Stats != stats {
		t.Errorf("Expected status stats %+v, got %+v", stats, status.Stats)
	}

	if got := cache.clears.Load(); got != 1 {
		t.Errorf("Expected cache cleared once, got %d", got)
	}
	if len(store.runs) != 1 || store.runs[0].Kind != KindFull {
		t.Fatalf("Expected one full audit row, got %+v", store.runs)
	}
	evts := publisher.published()
	if len(evts) != 1 {
		t.Fatalf("Expected one completion event, got %d", len(evts))
	}
	if evts[0].RunID != store.runs[0].ID || evts[0].Stats != stats {
		t.Errorf("Expected event to match audit row, got %+v", evts[0])
	}
}

func TestStartFullSync_IdempotentRerun(t *testing.T) {
	store := newMockStore()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := newTestCoordinator(t, Dependencies{Store: store, Catalog: fullCatalog(), Pricing: fixedPricing(1.25)})
	c.now = clock.now

	if _, err := c.StartFullSync(context.Background()); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	clock.advance(25 * time.Hour)
	stats, err := c.StartFullSync(context.Background())
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if len(store.extensions) != 2 || len(store.cards) != 3 {
		t.Errorf("Expected 2 extensions and 3 cards after rerun, got %d and %d", len(store.extensions), len(store.cards))
	}
	if store.priceCount() != 6 {
		t.Errorf("Expected price history to grow to 6 rows, got %d", store.priceCount())
	}
	if stats.Images.Cached != 0 {
		t.Errorf("Expected no images refetched, got %d", stats.Images.Cached)
	}
	if len(store.runs) != 2 {
		t.Errorf("Expected 2 audit rows, got %d", len(store.runs))
	}
}

func TestStartFullSync_ConflictLeavesStateUntouched(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	catalog := fullCatalog()
	sets := catalog.sets
	catalog.listSetsFn = func(context.Context) ([]upstream.Set, error) {
		close(entered)
		<-release
		return sets, nil
	}

	store := newMockStore()
	c := newTestCoordinator(t, Dependencies{Store: store, Catalog: catalog})

	done := make(chan error, 1)
	go func() {
		_, err := c.StartFullSync(context.Background())
		done <- err
	}()
	<-entered

	before := c.GetStatus()
	if !before.Running {
		t.Fatal("Expected running while a phase is blocked")
	}

	stats, err := c.StartFullSync(context.Background())
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Expected ErrAlreadyRunning, got %v", err)
	}
	if stats != before.Stats {
		t.Errorf("Expected in-progress stats %+v, got %+v", before.Stats, stats)
	}

	_, err = c.StartPhaseSync(context.Background(), PhasePrices)
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Expected ErrAlreadyRunning for phase sync, got %v", err)
	}

	after := c.GetStatus()
	if after.Stats != before.Stats || !after.Running {
		t.Errorf("Expected rejected requests to leave status unchanged, got %+v", after)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Blocked run failed: %v", err)
	}
	if c.GetStatus().Running {
		t.Error("Expected running to be false after the blocked run finished")
	}
	if len(store.runs) != 1 {
		t.Errorf("Expected only the first run to be recorded, got %d", len(store.runs))
	}
}

func TestCoordinator_NeverStuckRunning(t *testing.T) {
	tests := []struct {
		name    string
		deps    func() Dependencies
		ctx     func() context.Context
		wantErr bool
	}{
		{
			name: "success",
			deps: func() Dependencies { return Dependencies{Catalog: fullCatalog()} },
		},
		{
			name: "every upstream fails",
			deps: func() Dependencies {
				return Dependencies{Catalog: &mockCatalog{
					listSetsFn: func(context.Context) ([]upstream.Set, error) { return nil, errInjected },
				}}
			},
		},
		{
			name: "phase panics",
			deps: func() Dependencies {
				return Dependencies{Catalog: &mockCatalog{
					listSetsFn: func(context.Context) ([]upstream.Set, error) { panic("catalog exploded") },
				}}
			},
		},
		{
			name: "panic outside phases",
			deps: func() Dependencies {
				return Dependencies{Cache: &mockCache{clearFn: func() { panic("cache exploded") }}}
			},
			wantErr: true,
		},
		{
			name: "cancelled context",
			deps: func() Dependencies { return Dependencies{Catalog: fullCatalog()} },
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCoordinator(t, tt.deps())
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}

			_, err := c.StartFullSync(ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if c.GetStatus().Running {
				t.Error("Expected running to be false")
			}

			if _, err := c.StartPhaseSync(context.Background(), PhaseSets); errors.Is(err, ErrAlreadyRunning) {
				t.Error("Expected a new run to be accepted")
			}
		})
	}
}

func TestStartFullSync_PhasePanicIsCounted(t *testing.T) {
	catalog := &mockCatalog{listSetsFn: func(context.Context) ([]upstream.Set, error) {
		panic("catalog exploded")
	}}
	c := newTestCoordinator(t, Dependencies{Catalog: catalog})

	stats, err := c.StartFullSync(context.Background())
	if err != nil {
		t.Fatalf("Expected panic to be isolated, got %v", err)
	}
	if stats.Extensions.Errors != 1 {
		t.Errorf("Expected 1 extension error, got %d", stats.Extensions.Errors)
	}
}

func TestStartFullSync_CancelledRunIsRecorded(t *testing.T) {
	store := newMockStore()
	publisher := &mockPublisher{}
	c := newTestCoordinator(t, Dependencies{Store: store, Catalog: fullCatalog(), Publisher: publisher})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.StartFullSync(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(store.extensions) != 0 {
		t.Errorf("Expected no phase to run, got %d extensions", len(store.extensions))
	}
	if len(store.runs) != 1 || store.runs[0].Error == "" {
		t.Errorf("Expected an audit row carrying the error, got %+v", store.runs)
	}
	if evts := publisher.published(); len(evts) != 1 || evts[0].Error == "" {
		t.Errorf("Expected a completion event carrying the error, got %+v", evts)
	}
}

func TestStartPhaseSync_UnknownPhase(t *testing.T) {
	store := newMockStore()
	c := newTestCoordinator(t, Dependencies{Store: store})

	_, err := c.StartPhaseSync(context.Background(), "trades")
	if !errors.Is(err, ErrUnknownPhase) {
		t.Errorf("Expected ErrUnknownPhase, got %v", err)
	}
	if c.GetStatus().Running || c.GetStatus().LastRun != nil {
		t.Error("Expected no run to start")
	}
	if len(store.runs) != 0 {
		t.Errorf("Expected no audit row, got %d", len(store.runs))
	}
}

func TestStartPhaseSync_DoesNotClearCache(t *testing.T) {
	cache := &mockCache{}
	store := newMockStore()
	c := newTestCoordinator(t, Dependencies{Store: store, Catalog: fullCatalog(), Cache: cache})

	if _, err := c.StartPhaseSync(context.Background(), PhaseSets); err != nil {
		t.Fatalf("StartPhaseSync failed: %v", err)
	}
	if got := cache.clears.Load(); got != 0 {
		t.Errorf("Expected cache untouched by a single phase, got %d clears", got)
	}
	if len(store.runs) != 1 || store.runs[0].Kind != PhaseSets {
		t.Errorf("Expected one sets audit row, got %+v", store.runs)
	}
}

func TestStartPhaseSync_ResetsStatistics(t *testing.T) {
	c := newTestCoordinator(t, Dependencies{Catalog: fullCatalog()})

	if _, err := c.StartPhaseSync(context.Background(), PhaseSets); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	stats, err := c.StartPhaseSync(context.Background(), PhaseSets)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if stats.Extensions.Added != 2 {
		t.Errorf("Expected counters reset between runs, got %d", stats.Extensions.Added)
	}
}

func TestNormalizePhase(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"sets", PhaseSets, true},
		{"extensions", PhaseSets, true},
		{" Cards ", PhaseCards, true},
		{"PRICES", PhasePrices, true},
		{"images", PhaseImages, true},
		{"full", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizePhase(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizePhase(%q): expected (%q, %v), got (%q, %v)", tt.in, tt.want, tt.wantOK, got, ok)
		}
	}
}
