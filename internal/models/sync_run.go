// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package models

import "time"

// PhaseCounters counts outcomes for the extension, card and price phases.
type PhaseCounters struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

// ImageCounters counts outcomes for the image phase.
type ImageCounters struct {
	Cached int `json:"cached"`
	Errors int `json:"errors"`
}

// RunStatistics aggregates the counters of one run.
type RunStatistics struct {
	Extensions PhaseCounters `json:"extensions"`
	Cards      PhaseCounters `json:"cards"`
	Prices     PhaseCounters `json:"prices"`
	Images     ImageCounters `json:"images"`
}

// TotalErrors sums the error counters of every phase.
func (s RunStatistics) TotalErrors() int {
	return s.Extensions.Errors + s.Cards.Errors + s.Prices.Errors + s.Images.Errors
}

// SyncStatus is what status queries return.
type SyncStatus struct {
	Running bool          `json:"running"`
	LastRun *time.Time    `json:"last_run,omitempty"`
	Stats   RunStatistics `json:"stats"`
}

// SyncRun is the persisted audit row of one completed run.
type SyncRun struct {
	ID         string        `json:"id"`
	Kind       string        `json:"kind"` // "full" or a single phase name
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Stats      RunStatistics `json:"stats"`
	Error      string        `json:"error,omitempty"`
}
