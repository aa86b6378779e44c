// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/thejerf/suture/v4"
)

// EventRouter matches the blocking Run of *events.Bus.
type EventRouter interface {
	Run(ctx context.Context) error
}

// EventBusService runs the in-process event router under supervision.
//
// A watermill router cannot be run twice, so a failure is reported with
// suture.ErrDoNotRestart. Publishing keeps working without consumers; only
// the run-recording subscriber stops.
type EventBusService struct {
	router EventRouter
	name   string
}

// NewEventBusService creates the wrapper.
func NewEventBusService(router EventRouter) *EventBusService {
	return &EventBusService{
		router: router,
		name:   "event-bus",
	}
}

// Serve implements suture.Service.
func (e *EventBusService) Serve(ctx context.Context) error {
	err := e.router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errors.New("router stopped")
	}
	return fmt.Errorf("event bus: %w: %w", err, suture.ErrDoNotRestart)
}

// String implements fmt.Stringer.
func (e *EventBusService) String() string {
	return e.name
}
