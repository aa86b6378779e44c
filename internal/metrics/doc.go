// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are registered against the default registry through promauto and
exposed at the /metrics endpoint by the admin API:

	curl http://localhost:3857/metrics

# Available Metrics

Sync phases:
  - sync_phase_duration_seconds{phase}: histogram of phase run time
  - sync_items_total{phase,result}: added, updated, cached and error counts
  - sync_runs_total{kind,result}: completed coordinator runs
  - sync_running: 1 while a run holds the coordinator
  - sync_last_success_timestamp: unix time of the last clean full run

Upstream clients:
  - upstream_requests_total{client,status_code}
  - upstream_request_duration_seconds{client}
  - upstream_rate_limited_total{client}: HTTP 429 responses
  - circuit_breaker_*: gobreaker state, requests and transitions

Admin API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}

Cache and database:
  - cache_hits_total, cache_misses_total, cache_evictions_total
  - duckdb_query_duration_seconds{operation,table}
*/
package metrics
