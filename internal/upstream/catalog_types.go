// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package upstream

import "github.com/goccy/go-json"

// listResponse is the envelope of every catalog list endpoint.
type listResponse[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Count      int `json:"count"`
	TotalCount int `json:"totalCount"`
}

// Set is an extension as returned by the catalog provider.
type Set struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Series       string            `json:"series"`
	PrintedTotal int               `json:"printedTotal"`
	Total        int               `json:"total"`
	Legalities   map[string]string `json:"legalities"`
	PTCGOCode    string            `json:"ptcgoCode,omitempty"`
	ReleaseDate  string            `json:"releaseDate"` // YYYY/MM/DD
	UpdatedAt    string            `json:"updatedAt"`
	Images       SetImages         `json:"images"`
}

// SetImages holds the symbol and logo URIs of a set.
type SetImages struct {
	Symbol string `json:"symbol"`
	Logo   string `json:"logo"`
}

// Card is a card as returned by the catalog provider. Game-mechanics blobs
// are kept raw; they are persisted verbatim.
type Card struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Supertype   string            `json:"supertype"`
	Subtypes    []string          `json:"subtypes"`
	HP          string            `json:"hp"`
	Types       []string          `json:"types"`
	EvolvesFrom string            `json:"evolvesFrom,omitempty"`
	Abilities   json.RawMessage   `json:"abilities,omitempty"`
	Attacks     json.RawMessage   `json:"attacks,omitempty"`
	Weaknesses  json.RawMessage   `json:"weaknesses,omitempty"`
	Resistances json.RawMessage   `json:"resistances,omitempty"`
	RetreatCost json.RawMessage   `json:"retreatCost,omitempty"`
	Set         CardSet           `json:"set"`
	Number      string            `json:"number"`
	Artist      string            `json:"artist"`
	Rarity      string            `json:"rarity"`
	FlavorText  string            `json:"flavorText"`
	Legalities  map[string]string `json:"legalities"`
	Images      CardImages        `json:"images"`
}

// CardSet is the abbreviated set embedded in a card.
type CardSet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CardImages holds the small and large scan URIs of a card.
type CardImages struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

// priceResponse is the single-card envelope used by the pricing provider.
type priceResponse struct {
	Data struct {
		ID        string          `json:"id"`
		TCGPlayer *tcgplayerBlock `json:"tcgplayer"`
	} `json:"data"`
}

type tcgplayerBlock struct {
	URL       string                  `json:"url"`
	UpdatedAt string                  `json:"updatedAt"`
	Prices    map[string]variantPrice `json:"prices"`
}

type variantPrice struct {
	Low       *float64 `json:"low"`
	Mid       *float64 `json:"mid"`
	High      *float64 `json:"high"`
	Market    *float64 `json:"market"`
	DirectLow *float64 `json:"directLow"`
}
