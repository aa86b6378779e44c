// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

// Package scheduler triggers unattended synchronization runs from cron
// expressions.
//
// Two jobs are registered from configuration:
//   - full-sync: every phase, on schedule.full_sync_cron
//   - price-sync: the price phase only, on schedule.price_sync_cron
//
// The loop wakes every check interval and fires the jobs whose next run time
// has passed. A job that finds a run already active logs it and waits for its
// next slot. Missed slots are not replayed.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tcgvault/internal/config"
	"github.com/tomtom215/tcgvault/internal/logging"
	"github.com/tomtom215/tcgvault/internal/models"
	tcgsync "github.com/tomtom215/tcgvault/internal/sync"
)

// Runner starts synchronization runs. Satisfied by *sync.Coordinator.
type Runner interface {
	StartFullSync(ctx context.Context) (models.RunStatistics, error)
	StartPhaseSync(ctx context.Context, phase string) (models.RunStatistics, error)
}

type job struct {
	name     string
	schedule *Schedule
	run      func(ctx context.Context) (models.RunStatistics, error)
	next     time.Time
}

// Scheduler fires sync runs on cron schedules.
type Scheduler struct {
	jobs     []*job
	loc      *time.Location
	interval time.Duration
	enabled  bool
	logger   zerolog.Logger
	now      func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New parses the configured expressions and timezone.
func New(cfg *config.ScheduleConfig, runner Runner) (*Scheduler, error) {
	loc := time.UTC
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule timezone %q: %w", cfg.Timezone, err)
		}
		loc = l
	}

	full, err := ParseSchedule(cfg.FullSyncCron)
	if err != nil {
		return nil, fmt.Errorf("full sync schedule: %w", err)
	}
	prices, err := ParseSchedule(cfg.PriceSyncCron)
	if err != nil {
		return nil, fmt.Errorf("price sync schedule: %w", err)
	}

	interval := cfg.CheckInterval
	if interval <= 0 {
		interval = time.Minute
	}

	return &Scheduler{
		jobs: []*job{
			{name: "full-sync", schedule: full, run: runner.StartFullSync},
			{name: "price-sync", schedule: prices, run: func(ctx context.Context) (models.RunStatistics, error) {
				return runner.StartPhaseSync(ctx, tcgsync.PhasePrices)
			}},
		},
		loc:      loc,
		interval: interval,
		enabled:  cfg.Enabled,
		logger:   logging.WithComponent("scheduler"),
		now:      time.Now,
	}, nil
}

// Start launches the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	if !s.enabled {
		s.logger.Info().Msg("Sync scheduler disabled")
		go func() {
			defer close(s.doneCh)
			<-s.stopCh
		}()
		return nil
	}

	s.planAll(s.now())
	for _, j := range s.jobs {
		s.logger.Info().
			Str("job", j.name).
			Str("cron", j.schedule.String()).
			Time("next_run", j.next).
			Msg("Scheduled sync job")
	}

	go s.loop(ctx)
	return nil
}

// Stop ends the loop and waits for an in-flight job to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	close(s.stopCh)
	<-s.doneCh

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info().Msg("Sync scheduler stopped")
	return nil
}

// NextRuns reports the next fire time of every job.
func (s *Scheduler) NextRuns() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]time.Time, len(s.jobs))
	for _, j := range s.jobs {
		out[j.name] = j.next
	}
	return out
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runDue(ctx, s.now())
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) planAll(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		j.next = j.schedule.Next(now, s.loc)
	}
}

// runDue fires every job whose next run time is not after now, then plans
// its following slot from the completion time.
func (s *Scheduler) runDue(ctx context.Context, now time.Time) {
	for _, j := range s.jobs {
		s.mu.Lock()
		due := !j.next.IsZero() && !now.Before(j.next)
		s.mu.Unlock()
		if !due || ctx.Err() != nil {
			continue
		}

		s.execute(ctx, j)

		s.mu.Lock()
		j.next = j.schedule.Next(s.now(), s.loc)
		s.mu.Unlock()
	}
}

// execute runs one job. Failures and panics are logged and never propagate
// to the loop.
func (s *Scheduler) execute(ctx context.Context, j *job) {
	logger := s.logger.With().Str("job", j.name).Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Scheduled sync panicked")
		}
	}()

	start := time.Now()
	stats, err := j.run(ctx)
	switch {
	case errors.Is(err, tcgsync.ErrAlreadyRunning):
		logger.Info().Msg("Skipping scheduled sync, a run is already active")
	case err != nil:
		logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("Scheduled sync failed")
	default:
		logger.Info().
			Dur("duration", time.Since(start)).
			Int("errors", stats.TotalErrors()).
			Msg("Scheduled sync completed")
	}
}
