// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

/*
Package middleware provides the HTTP middleware of the admin API.

  - RequestID: accepts or generates an X-Request-ID and attaches it to the
    logging context
  - PrometheusMetrics: request count and latency labelled by the chi route
    pattern, so path parameters do not explode label cardinality
  - AccessLog: one structured log line per request

All three have the func(http.Handler) http.Handler shape accepted by chi's
r.Use:

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
