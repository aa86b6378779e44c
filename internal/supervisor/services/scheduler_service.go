// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package services

import (
	"context"
	"fmt"
)

// SchedulerManager matches the Start/Stop lifecycle of *scheduler.Scheduler.
type SchedulerManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// SchedulerService adapts the sync scheduler to suture's Serve pattern.
type SchedulerService struct {
	manager SchedulerManager
	name    string
}

// NewSchedulerService creates the wrapper.
//
//	sched, err := scheduler.New(&cfg.Schedule, coordinator)
//	tree.AddSchedulerService(services.NewSchedulerService(sched))
func NewSchedulerService(manager SchedulerManager) *SchedulerService {
	return &SchedulerService{
		manager: manager,
		name:    "sync-scheduler",
	}
}

// Serve starts the scheduler, blocks until ctx is cancelled, then stops it.
// A failed Start is returned so suture restarts the service with backoff.
func (s *SchedulerService) Serve(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("sync scheduler start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("sync scheduler stop failed: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer.
func (s *SchedulerService) String() string {
	return s.name
}
