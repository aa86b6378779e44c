// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/tcgvault/internal/logging"
	"github.com/tomtom215/tcgvault/internal/models"
	tcgsync "github.com/tomtom215/tcgvault/internal/sync"
)

// RunsRequest holds the validated parameters of GET /api/v1/sync/runs.
type RunsRequest struct {
	Limit int `validate:"min=1,max=100"`
}

// SyncAccepted is the 202 body of a background trigger.
type SyncAccepted struct {
	Kind    string `json:"kind"`
	Started bool   `json:"started"`
}

// SyncStatus handles GET /api/v1/sync/status.
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, h.sync.GetStatus(), time.Now())
}

// SyncRuns handles GET /api/v1/sync/runs.
func (h *Handler) SyncRuns(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := RunsRequest{Limit: getIntParam(r, "limit", 20)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorWithData(w, http.StatusBadRequest, apiErr, nil, nil)
		return
	}

	runs, err := h.store.ListSyncRuns(r.Context(), req.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list sync runs", err)
		return
	}
	if runs == nil {
		runs = []models.SyncRun{}
	}
	respondSuccess(w, http.StatusOK, runs, start)
}

// TriggerFullSync handles POST /api/v1/sync/full.
func (h *Handler) TriggerFullSync(w http.ResponseWriter, r *http.Request) {
	h.trigger(w, r, "full", h.sync.StartFullSync)
}

// TriggerPhaseSync handles POST /api/v1/sync/{phase}.
func (h *Handler) TriggerPhaseSync(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "phase")
	phase, ok := tcgsync.NormalizePhase(raw)
	if !ok {
		respondErrorWithData(w, http.StatusBadRequest, &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "unknown sync phase",
			Details: map[string]interface{}{
				"phase":   sanitizeLogValue(raw),
				"allowed": []string{tcgsync.PhaseSets, tcgsync.PhaseCards, tcgsync.PhasePrices, tcgsync.PhaseImages},
			},
		}, nil, nil)
		return
	}

	h.trigger(w, r, phase, func(ctx context.Context) (models.RunStatistics, error) {
		return h.sync.StartPhaseSync(ctx, phase)
	})
}

// trigger starts a run on the request (?wait=true) or in the background.
// The background path checks the running flag first so a conflicting
// trigger still gets a 409. A run that wins the guard between the check and
// the start makes the background attempt return ErrAlreadyRunning, which is
// only logged.
func (h *Handler) trigger(w http.ResponseWriter, r *http.Request, kind string, start func(context.Context) (models.RunStatistics, error)) {
	begin := time.Now()

	if getBoolParam(r, "wait") {
		stats, err := start(r.Context())
		if err != nil {
			h.respondRunError(w, err)
			return
		}
		respondSuccess(w, http.StatusOK, stats, begin)
		return
	}

	if status := h.sync.GetStatus(); status.Running {
		h.respondConflict(w, status)
		return
	}

	logger := logging.Ctx(r.Context()).With().Str("kind", kind).Logger()
	h.runs.Add(1)
	go func() {
		defer h.runs.Done()
		if _, err := start(h.baseCtx); err != nil {
			if errors.Is(err, tcgsync.ErrAlreadyRunning) {
				logger.Info().Msg("Triggered sync skipped, a run is already active")
				return
			}
			logger.Error().Err(err).Msg("Triggered sync failed")
		}
	}()

	logger.Info().Msg("Sync triggered")
	respondSuccess(w, http.StatusAccepted, SyncAccepted{Kind: kind, Started: true}, begin)
}

func (h *Handler) respondRunError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tcgsync.ErrAlreadyRunning):
		h.respondConflict(w, h.sync.GetStatus())
	case errors.Is(err, tcgsync.ErrUnknownPhase):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, "SYNC_FAILED", "Sync run failed", err)
	}
}

func (h *Handler) respondConflict(w http.ResponseWriter, status models.SyncStatus) {
	respondErrorWithData(w, http.StatusConflict, &models.APIError{
		Code:    "SYNC_ALREADY_RUNNING",
		Message: "a sync run is already in progress",
	}, status, nil)
}
