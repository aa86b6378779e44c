// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/tcgvault/internal/config"
)

// maxSetPageSize is the largest page the catalog provider serves.
const maxSetPageSize = 250

// CatalogClient reads sets and cards from the catalog provider.
//
// Thread Safety: Safe for concurrent use.
type CatalogClient struct {
	baseURL   string
	transport *transport
	breaker   *breaker
}

// NewCatalogClient creates a catalog client from configuration.
func NewCatalogClient(cfg *config.CatalogConfig) *CatalogClient {
	return &CatalogClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		transport: newTransport("catalog", cfg.APIKey, cfg.Timeout),
		breaker:   newBreaker("catalog-api"),
	}
}

// ListSets returns every set ordered by release date, oldest first.
func (c *CatalogClient) ListSets(ctx context.Context) ([]Set, error) {
	params := url.Values{}
	params.Set("orderBy", "releaseDate")
	params.Set("pageSize", strconv.Itoa(maxSetPageSize))

	var all []Set
	for page := 1; ; page++ {
		params.Set("page", strconv.Itoa(page))
		resp, err := castResult[*listResponse[Set]](c.breaker.execute(func() (interface{}, error) {
			var out listResponse[Set]
			if err := c.transport.getJSON(ctx, c.baseURL+"/sets?"+params.Encode(), &out); err != nil {
				return nil, err
			}
			return &out, nil
		}))
		if err != nil {
			return nil, fmt.Errorf("failed to list sets: %w", err)
		}

		all = append(all, resp.Data...)
		if len(resp.Data) == 0 || resp.TotalCount == 0 || len(all) >= resp.TotalCount {
			return all, nil
		}
	}
}

// ListCardsBySet returns the cards of one set in a single request of up to
// pageSize cards.
func (c *CatalogClient) ListCardsBySet(ctx context.Context, setID string, pageSize int) ([]Card, error) {
	if setID == "" {
		return nil, fmt.Errorf("set id is required")
	}
	if pageSize <= 0 || pageSize > maxSetPageSize {
		pageSize = maxSetPageSize
	}

	params := url.Values{}
	params.Set("q", "set.id:"+setID)
	params.Set("pageSize", strconv.Itoa(pageSize))

	resp, err := castResult[*listResponse[Card]](c.breaker.execute(func() (interface{}, error) {
		var out listResponse[Card]
		if err := c.transport.getJSON(ctx, c.baseURL+"/cards?"+params.Encode(), &out); err != nil {
			return nil, err
		}
		return &out, nil
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to list cards for set %s: %w", setID, err)
	}
	return resp.Data, nil
}

// BreakerState reports the catalog circuit breaker state.
func (c *CatalogClient) BreakerState() string {
	return c.breaker.State()
}
