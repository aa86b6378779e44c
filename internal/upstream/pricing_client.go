// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package upstream

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/time/rate"

	"github.com/tomtom215/tcgvault/internal/config"
)

// variantPreference is the order in which printings are considered when a
// card is quoted for several of them.
var variantPreference = []string{
	"normal",
	"holofoil",
	"reverseHolofoil",
	"1stEditionHolofoil",
	"1stEditionNormal",
}

// Quote is the pricing provider's answer for one card. Found is false when
// the provider has no usable market price, which is not an error.
type Quote struct {
	Found       bool
	Variant     string
	MarketPrice float64
	Low         *float64
	Mid         *float64
	High        *float64
	UpdatedAt   string // provider format YYYY/MM/DD
}

// PricingClient fetches market prices per card.
//
// Requests are paced by a token bucket independent of the sync phase
// limiter, so ad-hoc callers cannot exceed the provider quota either.
type PricingClient struct {
	baseURL     string
	transport   *transport
	breaker     *breaker
	rateLimiter *rate.Limiter
}

// NewPricingClient creates a pricing client from configuration.
func NewPricingClient(cfg *config.PricingConfig) *PricingClient {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &PricingClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		transport:   newTransport("pricing", cfg.APIKey, cfg.Timeout),
		breaker:     newBreaker("pricing-api"),
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
	}
}

// GetPrice returns the current quote for a card.
func (c *PricingClient) GetPrice(ctx context.Context, cardID string) (*Quote, error) {
	if cardID == "" {
		return nil, fmt.Errorf("card id is required")
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + "/cards/" + url.PathEscape(cardID)
	quote, err := castResult[*Quote](c.breaker.execute(func() (interface{}, error) {
		var out priceResponse
		if err := c.transport.getJSON(ctx, reqURL, &out); err != nil {
			if IsNotFound(err) {
				return &Quote{}, nil
			}
			return nil, err
		}
		return selectQuote(out.Data.TCGPlayer), nil
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to get price for %s: %w", cardID, err)
	}
	return quote, nil
}

// selectQuote picks the preferred variant with a positive market price.
func selectQuote(block *tcgplayerBlock) *Quote {
	if block == nil || len(block.Prices) == 0 {
		return &Quote{}
	}

	for _, variant := range variantPreference {
		if q, ok := quoteFor(block, variant); ok {
			return q
		}
	}

	// Remaining variants in a stable order.
	others := make([]string, 0, len(block.Prices))
	for variant := range block.Prices {
		others = append(others, variant)
	}
	sort.Strings(others)
	for _, variant := range others {
		if q, ok := quoteFor(block, variant); ok {
			return q
		}
	}
	return &Quote{}
}

func quoteFor(block *tcgplayerBlock, variant string) (*Quote, bool) {
	p, ok := block.Prices[variant]
	if !ok || p.Market == nil || *p.Market <= 0 {
		return nil, false
	}
	return &Quote{
		Found:       true,
		Variant:     variant,
		MarketPrice: *p.Market,
		Low:         p.Low,
		Mid:         p.Mid,
		High:        p.High,
		UpdatedAt:   block.UpdatedAt,
	}, true
}

// BreakerState reports the pricing circuit breaker state.
func (c *PricingClient) BreakerState() string {
	return c.breaker.State()
}
