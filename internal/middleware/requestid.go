// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tomtom215/tcgvault/internal/logging"
)

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds client-supplied identifiers before they reach logs.
const maxRequestIDLen = 128

// RequestID reuses the caller's X-Request-ID or generates a UUID, echoes it
// in the response and stores it in the request context for logging.Ctx.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
