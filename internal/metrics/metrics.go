// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Sync Metrics
	SyncPhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sync_phase_duration_seconds",
			Help:    "Duration of sync phases in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600}, // full catalog pulls take a while
		},
		[]string{"phase"},
	)

	SyncItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_items_total",
			Help: "Total number of items processed by sync phases",
		},
		[]string{"phase", "result"}, // result: "added", "updated", "cached", "error"
	)

	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_runs_total",
			Help: "Total number of coordinator runs",
		},
		[]string{"kind", "result"}, // result: "success", "partial", "failed"
	)

	SyncRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_running",
			Help: "1 while a sync run is in progress",
		},
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_last_success_timestamp",
			Help: "Unix timestamp of last full sync without errors",
		},
	)

	// Upstream Client Metrics
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of requests sent to upstream providers",
		},
		[]string{"client", "status_code"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"client"},
	)

	UpstreamRateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_rate_limited_total",
			Help: "Total number of HTTP 429 responses from upstream providers",
		},
		[]string{"client"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of query cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of query cache misses",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of entries dropped from the query cache",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordUpstreamRequest records one HTTP exchange with an upstream provider.
// A status of 0 means the request never produced a response.
func RecordUpstreamRequest(client string, status int, duration time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	UpstreamRequests.WithLabelValues(client, code).Inc()
	UpstreamRequestDuration.WithLabelValues(client).Observe(duration.Seconds())
	if status == 429 {
		UpstreamRateLimited.WithLabelValues(client).Inc()
	}
}

// RecordPhase records the outcome counters of a finished sync phase.
func RecordPhase(phase string, duration time.Duration, added, updated, errs int) {
	SyncPhaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
	SyncItems.WithLabelValues(phase, "added").Add(float64(added))
	SyncItems.WithLabelValues(phase, "updated").Add(float64(updated))
	SyncItems.WithLabelValues(phase, "error").Add(float64(errs))
}

// RecordImagePhase records the image phase, which counts cached files instead of rows.
func RecordImagePhase(duration time.Duration, cached, errs int) {
	SyncPhaseDuration.WithLabelValues("images").Observe(duration.Seconds())
	SyncItems.WithLabelValues("images", "cached").Add(float64(cached))
	SyncItems.WithLabelValues("images", "error").Add(float64(errs))
}

// RecordSyncRun records a finished coordinator run
func RecordSyncRun(kind string, totalErrors int, err error) {
	result := "success"
	switch {
	case err != nil:
		result = "failed"
	case totalErrors > 0:
		result = "partial"
	}
	SyncRuns.WithLabelValues(kind, result).Inc()
	if kind == "full" && result == "success" {
		SyncLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// SetSyncRunning flips the running gauge
func SetSyncRunning(running bool) {
	if running {
		SyncRunning.Set(1)
	} else {
		SyncRunning.Set(0)
	}
}
