// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/tcgvault/internal/logging"
)

// AccessLog writes one log line per request. Server errors log at warn,
// everything else at debug so health probes stay quiet.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		logger := logging.Ctx(r.Context())
		evt := logger.Debug()
		if rw.status >= http.StatusInternalServerError {
			evt = logger.Warn()
		}
		evt.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Int("bytes", rw.bytes).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}
