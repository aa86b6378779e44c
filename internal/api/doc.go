// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

/*
Package api provides the admin HTTP API for TCGVault.

The API is deliberately small. It lets operators trigger synchronization runs,
inspect their outcome and read back the stored extension list.

# Routes

	GET  /healthz                 database reachability and sync status
	GET  /metrics                 Prometheus exposition
	GET  /api/v1/sync/status      running flag, last run time, last statistics
	GET  /api/v1/sync/runs        audit history (?limit=1..100, default 20)
	POST /api/v1/sync/full        start a full run
	POST /api/v1/sync/{phase}     start one phase (sets, cards, prices, images)
	GET  /api/v1/extensions       stored extensions (?series=&block=), read-through cached

# Sync Triggers

POST handlers start the run in the background and answer 202 Accepted.
Adding ?wait=true runs it on the request and answers with the statistics.
A trigger while a run is active answers 409 with the current status in data.
"extensions" is accepted as an alias for sets. Unknown phase names answer 400.

# Response Envelope

Every JSON response uses models.APIResponse:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "2026-01-10T03:00:02Z", "cached": true}
	}

# Middleware

Applied to every route, outermost first: request ID, real IP, panic recovery,
access log, Prometheus metrics and CORS. The /api/v1 group is rate limited
per client IP with go-chi/httprate.
*/
package api
