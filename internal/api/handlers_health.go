// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package api

import (
	"context"
	"net/http"
	"time"
)

const healthPingTimeout = 2 * time.Second

// HealthStatus is the body of GET /healthz.
type HealthStatus struct {
	Status            string     `json:"status"` // "healthy" or "degraded"
	DatabaseConnected bool       `json:"database_connected"`
	SyncRunning       bool       `json:"sync_running"`
	LastSyncTime      *time.Time `json:"last_sync_time,omitempty"`
	Uptime            float64    `json:"uptime_seconds"`
}

// Health handles GET /healthz. A database that does not answer within two
// seconds reports degraded with a 503.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()
	dbConnected := h.store != nil && h.store.Ping(ctx) == nil

	status := h.sync.GetStatus()
	health := HealthStatus{
		Status:            "healthy",
		DatabaseConnected: dbConnected,
		SyncRunning:       status.Running,
		LastSyncTime:      status.LastRun,
		Uptime:            time.Since(h.startTime).Seconds(),
	}

	code := http.StatusOK
	if !dbConnected {
		health.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	respondSuccess(w, code, health, start)
}
