// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

/*
Package services provides suture.Service wrappers for TCGVault components.

Each wrapper translates a component's own lifecycle into suture's
context-aware Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTPServerService (ListenAndServe pattern):
  - Wraps *http.Server with graceful shutdown
  - Drains the API handler's background sync runs after the listener closes

SchedulerService (Start/Stop pattern):
  - Wraps scheduler.Scheduler, which fires the full and price sync jobs

EventBusService (Run pattern):
  - Wraps events.Bus, the watermill router consuming sync.completed events
  - Router failures are final (suture.ErrDoNotRestart)

# Error Handling

Return values determine supervisor behavior:
  - ctx.Err() after cancellation: normal shutdown
  - any other error: the supervisor restarts the service with backoff
  - an error wrapping suture.ErrDoNotRestart: the service is not restarted
*/
package services
