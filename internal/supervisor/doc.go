// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

/*
Package supervisor provides process supervision for TCGVault using suture v4.

# Overview

Long-running components are grouped into layers so a failure in one does
not restart the others:

	RootSupervisor ("tcgvault")
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventBusService
	├── SchedulingSupervisor ("scheduling-layer")
	│   └── SchedulerService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff. Supervisor events are logged
through sutureslog into the zerolog pipeline (see logging.NewSlogLogger).

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewEventBusService(bus))
	tree.AddSchedulerService(services.NewSchedulerService(sched))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, handler))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)

# Shutdown

Cancelling the context stops every layer. Services that miss the shutdown
timeout are listed by UnstoppedServiceReport.
*/
package supervisor
