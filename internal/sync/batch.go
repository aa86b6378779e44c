// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package sync

import (
	"context"
	"fmt"
)

// BatchResult counts the outcome of processBatch.
type BatchResult struct {
	Succeeded int
	Failed    int
}

// processBatch applies fn to every item in order, waiting on limiter before
// each one. A failing item (error or panic) is reported to onError and the
// loop continues. Cancellation of ctx stops the loop before the next item;
// items not reached are not counted.
func processBatch[T any](
	ctx context.Context,
	items []T,
	limiter Limiter,
	fn func(context.Context, T) error,
	onError func(T, error),
) BatchResult {
	var result BatchResult

	for _, item := range items {
		if ctx.Err() != nil {
			return result
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return result
			}
		}

		if err := safeCall(ctx, item, fn); err != nil {
			result.Failed++
			if onError != nil {
				onError(item, err)
			}
			continue
		}
		result.Succeeded++
	}

	return result
}

// safeCall runs fn and converts a panic into an error.
func safeCall[T any](ctx context.Context, item T, fn func(context.Context, T) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, item)
}
