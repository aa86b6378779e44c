// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package models

import (
	"time"
)

// APIResponse is the envelope of every admin API response.
//
// Status is "success" (see Data) or "error" (see Error).
//
//	{
//	  "status": "error",
//	  "data": {"running": true, "stats": {...}},
//	  "error": {"code": "SYNC_ALREADY_RUNNING", "message": "a sync run is already in progress"},
//	  "metadata": {"timestamp": "2026-01-10T03:00:02Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing and cache information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a machine-readable error code plus message.
//
// Codes used by the admin API:
//   - VALIDATION_ERROR: bad phase name or query parameter
//   - SYNC_ALREADY_RUNNING: a run is in progress (status is in Data)
//   - SYNC_FAILED: the run returned an unexpected error
//   - DATABASE_ERROR: a read query failed
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
