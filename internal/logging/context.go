// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	requestIDKey contextKey = "request_id"
)

// GenerateRunID returns a new sync run identifier.
func GenerateRunID() string {
	return uuid.New().String()
}

// ContextWithRunID returns a context carrying the given sync run ID.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the sync run ID, or "" if none is set.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithRequestID returns a context carrying an HTTP request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the HTTP request ID, or "" if none is set.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns the global logger enriched with the run_id and request_id
// found in ctx.
//
//	logging.Ctx(ctx).Info().Msg("Processing extension")
func Ctx(ctx context.Context) *zerolog.Logger {
	logCtx := Logger().With()
	if runID := RunIDFromContext(ctx); runID != "" {
		logCtx = logCtx.Str("run_id", runID)
	}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logCtx = logCtx.Str("request_id", requestID)
	}
	l := logCtx.Logger()
	return &l
}

// WithComponent creates a child logger with a component field.
//
//	schedLogger := logging.WithComponent("scheduler")
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
