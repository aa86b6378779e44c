// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package database

import (
	"io"

	"github.com/tomtom215/tcgvault/internal/logging"
)

// closeWithLog closes a resource and logs a failure without returning it.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource on an error path where the close error is not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
