// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tcgvault/internal/logging"
	"github.com/tomtom215/tcgvault/internal/metrics"
)

// breaker guards one provider with the circuit breaker pattern.
//
// Configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
//
// Cancelled or expired contexts are not counted as provider failures, so a
// shutdown in the middle of a run does not trip the circuit.
type breaker struct {
	cb   *gobreaker.CircuitBreaker[interface{}]
	name string
}

func newBreaker(name string) *breaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().Str("breaker", name).Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &breaker{cb: cb, name: name}
}

// execute runs fn under the breaker and records the outcome.
func (b *breaker) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Str("breaker", b.name).Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return result, nil
}

// State returns the breaker state as "closed", "half-open" or "open".
func (b *breaker) State() string {
	return stateToString(b.cb.State())
}

// castResult safely type-casts the circuit breaker result
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
