// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package upstream

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/tomtom215/tcgvault/internal/config"
)

// ImageFetcher downloads card scans from their origin URLs.
type ImageFetcher struct {
	transport *transport
	maxBytes  int64
}

// NewImageFetcher creates a fetcher bounded by the configured body size.
func NewImageFetcher(cfg *config.ImagesConfig) *ImageFetcher {
	t := newTransport("image-origin", "", cfg.Timeout)
	t.accept = "image/*"
	return &ImageFetcher{
		transport: t,
		maxBytes:  cfg.MaxBytes,
	}
}

// Fetch returns the body of rawURL. Non-2xx responses and bodies larger
// than the configured limit are errors.
func (f *ImageFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid image url %q", rawURL)
	}

	resp, err := f.transport.get(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Client:     f.transport.name,
			StatusCode: resp.StatusCode,
			Body:       string(readBodyForError(resp.Body)),
		}
	}

	if resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("image %s exceeds %d bytes", rawURL, f.maxBytes)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("image %s exceeds %d bytes", rawURL, f.maxBytes)
	}
	return body, nil
}
