// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds supervisor tree configuration. Zero fields take the
// DefaultTreeConfig values.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	FailureThreshold float64

	// FailureDecay is the rate, in seconds, at which failures decay.
	FailureDecay float64

	// FailureBackoff is the wait once the threshold is exceeded.
	FailureBackoff time.Duration

	// ShutdownTimeout bounds how long each service may take to stop.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's own defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// SupervisorTree is the process supervision hierarchy:
//   - messaging: the in-process event bus
//   - scheduling: the cron scheduler that triggers sync runs
//   - api: the admin HTTP server
//
// A scheduler crash does not take the admin API down, and the API can still
// trigger runs while the scheduler is in backoff.
type SupervisorTree struct {
	root       *suture.Supervisor
	messaging  *suture.Supervisor
	scheduling *suture.Supervisor
	api        *suture.Supervisor
	logger     *slog.Logger
	config     TreeConfig
}

// NewSupervisorTree builds the tree. Supervisor events are logged through
// sutureslog.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	defaults := DefaultTreeConfig()
	if config.FailureThreshold == 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.FailureDecay == 0 {
		config.FailureDecay = defaults.FailureDecay
	}
	if config.FailureBackoff == 0 {
		config.FailureBackoff = defaults.FailureBackoff
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	// MustHook has a pointer receiver.
	hook := (&sutureslog.Handler{Logger: logger}).MustHook()

	childSpec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}
	rootSpec := childSpec
	rootSpec.EventHook = hook

	root := suture.New("tcgvault", rootSpec)
	messaging := suture.New("messaging-layer", childSpec)
	scheduling := suture.New("scheduling-layer", childSpec)
	api := suture.New("api-layer", childSpec)

	root.Add(messaging)
	root.Add(scheduling)
	root.Add(api)

	return &SupervisorTree{
		root:       root,
		messaging:  messaging,
		scheduling: scheduling,
		api:        api,
		logger:     logger,
		config:     config,
	}, nil
}

// Root returns the root supervisor.
func (t *SupervisorTree) Root() *suture.Supervisor {
	return t.root
}

// AddMessagingService adds a service to the messaging layer.
func (t *SupervisorTree) AddMessagingService(svc suture.Service) suture.ServiceToken {
	return t.messaging.Add(svc)
}

// AddSchedulerService adds a service to the scheduling layer.
func (t *SupervisorTree) AddSchedulerService(svc suture.Service) suture.ServiceToken {
	return t.scheduling.Add(svc)
}

// AddAPIService adds a service to the API layer.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve runs the tree until ctx is cancelled.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground runs the tree in a goroutine. The channel receives the
// result when the tree stops.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
