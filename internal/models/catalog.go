// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// ExtensionRecord is one released set (expansion) of the catalog.
type ExtensionRecord struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	LocalizedName string            `json:"localized_name"`
	Series        string            `json:"series"`
	Block         string            `json:"block"`        // era grouping derived from Series
	ReleaseDate   string            `json:"release_date"` // provider format YYYY/MM/DD
	PrintedTotal  int               `json:"printed_total"`
	Total         int               `json:"total"`
	SymbolURL     string            `json:"symbol_url,omitempty"`
	LogoURL       string            `json:"logo_url,omitempty"`
	Legalities    map[string]string `json:"legalities,omitempty"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// CardRecord is one catalog card. Price columns on the cards table are
// owned by the price history and are not part of this record.
type CardRecord struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	LocalizedName   string            `json:"localized_name"`
	ExtensionID     string            `json:"extension_id"`
	Number          string            `json:"number"`    // ordinal within the extension, may be "TG01"
	Supertype       string            `json:"supertype"` // Pokémon, Trainer, Energy
	Types           []string          `json:"types,omitempty"`
	Subtypes        []string          `json:"subtypes,omitempty"`
	Rarity          string            `json:"rarity,omitempty"`
	LocalizedRarity string            `json:"localized_rarity,omitempty"`
	HP              string            `json:"hp,omitempty"`
	Artist          string            `json:"artist,omitempty"`
	FlavorText      string            `json:"flavor_text,omitempty"`
	Abilities       json.RawMessage   `json:"abilities,omitempty"`
	Attacks         json.RawMessage   `json:"attacks,omitempty"`
	Weaknesses      json.RawMessage   `json:"weaknesses,omitempty"`
	Resistances     json.RawMessage   `json:"resistances,omitempty"`
	RetreatCost     json.RawMessage   `json:"retreat_cost,omitempty"`
	Legalities      map[string]string `json:"legalities,omitempty"`
	ImageSmallURL   string            `json:"image_small_url,omitempty"`
	ImageLargeURL   string            `json:"image_large_url,omitempty"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// PriceObservation is one append-only price reading. The current price of
// a card for a source is its most recent observation.
type PriceObservation struct {
	ID          string    `json:"id"`
	CardID      string    `json:"card_id"`
	Source      string    `json:"source"`
	Condition   string    `json:"condition"`
	Variant     string    `json:"variant"`
	MarketPrice float64   `json:"market_price"`
	LowPrice    *float64  `json:"low_price,omitempty"`
	MidPrice    *float64  `json:"mid_price,omitempty"`
	HighPrice   *float64  `json:"high_price,omitempty"`
	Currency    string    `json:"currency"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// Image size classes.
const (
	ImageSizeLarge = "large"
	ImageSizeSmall = "small"
)

// ImageCacheEntry records a locally cached card image, keyed by (CardID, Size).
type ImageCacheEntry struct {
	CardID    string    `json:"card_id"`
	Size      string    `json:"size"`
	LocalPath string    `json:"local_path"`
	Cached    bool      `json:"cached"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImageCandidate is a card selected by the image pipeline, with the source
// URIs of the sizes that still need caching. An empty URL means the size is
// either already cached or has no source.
type ImageCandidate struct {
	CardID   string
	LargeURL string
	SmallURL string
}
