// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/tcgvault/internal/cache"
	"github.com/tomtom215/tcgvault/internal/database"
	"github.com/tomtom215/tcgvault/internal/models"
)

// ExtensionsRequest holds the validated filters of GET /api/v1/extensions.
type ExtensionsRequest struct {
	Series string `json:"series" validate:"max=100"`
	Block  string `json:"block" validate:"max=100"`
}

// Extensions handles GET /api/v1/extensions.
//
// Results are cached per filter until the TTL expires or a run completes and
// clears the cache.
func (h *Handler) Extensions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	q := r.URL.Query()
	req := ExtensionsRequest{
		Series: strings.TrimSpace(q.Get("series")),
		Block:  strings.TrimSpace(q.Get("block")),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorWithData(w, http.StatusBadRequest, apiErr, nil, nil)
		return
	}

	cacheKey := cache.GenerateKey("extensions", req)
	if h.cache != nil {
		if cached, found := h.cache.Get(cacheKey); found {
			respondJSON(w, http.StatusOK, &models.APIResponse{
				Status: "success",
				Data:   cached,
				Metadata: models.Metadata{
					Timestamp: time.Now(),
					Cached:    true,
				},
			})
			return
		}
	}

	exts, err := h.store.ListExtensions(r.Context(), database.ExtensionFilter{
		Series: req.Series,
		Block:  req.Block,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list extensions", err)
		return
	}
	if exts == nil {
		exts = []models.ExtensionRecord{}
	}

	if h.cache != nil {
		h.cache.Set(cacheKey, exts)
	}
	respondSuccess(w, http.StatusOK, exts, start)
}
