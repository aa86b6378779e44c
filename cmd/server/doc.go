// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

/*
Package main is the entry point for the TCGVault server.

TCGVault mirrors a trading card catalog into DuckDB. It keeps extensions and
cards in sync with the upstream catalog API, records market price
observations, and caches card images on local disk.

# Application Architecture

	RootSupervisor ("tcgvault")
	├── MessagingSupervisor ("messaging-layer")
	│   └── Event bus (watermill, sync.completed consumers)
	├── SchedulingSupervisor ("scheduling-layer")
	│   └── Sync scheduler (full and price cron jobs)
	└── APISupervisor ("api-layer")
	    └── HTTP server (admin API, /healthz, /metrics)

Component initialization order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment variables)
 2. Logging: zerolog with JSON or console output
 3. Database: DuckDB schema creation
 4. Read-through response cache
 5. Event bus with the run-recorder consumer
 6. Sync coordinator with the catalog, pricing and image clients
 7. Scheduler and admin API
 8. Supervisor tree

# Signal Handling

SIGINT and SIGTERM cancel the root context:
  - the HTTP server stops accepting requests
  - an active sync run stops at the next item boundary and is recorded
  - the scheduler and event bus stop
  - the database is closed

# Example Usage

	export POKEMONTCG_API_KEY=your-key
	export PRICING_API_KEY=your-key
	./tcgvault

	curl -X POST 'http://localhost:3857/api/v1/sync/full?wait=true'
	curl http://localhost:3857/api/v1/sync/status
*/
package main
