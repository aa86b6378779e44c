// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

/*
request.go - Shared HTTP Layer for Upstream Providers

Every upstream client (catalog, pricing, image origin) sends its requests
through a transport, which provides:
  - X-Api-Key authentication when a key is configured
  - Automatic HTTP 429 handling with exponential backoff (1s, 2s, 4s, ...)
  - Retry-After support (delta-seconds form)
  - Bounded error bodies (64KB) so a misbehaving origin cannot exhaust memory
  - Per-request Prometheus metrics labelled by client name

Non-2xx responses other than 429 are returned as *StatusError so callers can
tell a 404 from an outage with errors.As.
*/

//nolint:staticcheck // File documentation, not package doc
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tcgvault/internal/metrics"
)

// maxErrorBodySize limits the amount of response body read for error reporting
const maxErrorBodySize = 64 * 1024 // 64KB

const (
	defaultMaxRetries     = 5
	defaultRetryBaseDelay = time.Second
)

// StatusError is returned when a provider answers with an unexpected status.
type StatusError struct {
	Client     string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s request failed with status %d: %s", e.Client, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 from a provider.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// readBodyForError reads the response body for error reporting (max 64KB)
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// transport performs GET requests against one provider.
type transport struct {
	name           string
	apiKey         string
	accept         string
	client         *http.Client
	maxRetries     int           // Maximum retries for rate limiting
	retryBaseDelay time.Duration // Base delay for exponential backoff
}

func newTransport(name, apiKey string, timeout time.Duration) *transport {
	return &transport{
		name:   name,
		apiKey: apiKey,
		accept: "application/json",
		client: &http.Client{
			Timeout: timeout,
		},
		maxRetries:     defaultMaxRetries,
		retryBaseDelay: defaultRetryBaseDelay,
	}
}

// get performs an HTTP GET with automatic rate limit handling.
// The context is used for cancellation during backoff waits.
// The caller owns the returned body.
func (t *transport) get(ctx context.Context, reqURL string) (*http.Response, error) {
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", t.accept)
		if t.apiKey != "" {
			req.Header.Set("X-Api-Key", t.apiKey)
		}

		start := time.Now()
		resp, err := t.client.Do(req)
		if err != nil {
			metrics.RecordUpstreamRequest(t.name, 0, time.Since(start))
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		metrics.RecordUpstreamRequest(t.name, resp.StatusCode, time.Since(start))

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		_ = resp.Body.Close() // retrying anyway

		if attempt == t.maxRetries {
			break
		}

		delay := t.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
				delay = time.Duration(seconds) * time.Second
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("%s: rate limit exceeded after %d retries (HTTP 429)", t.name, t.maxRetries)
}

// getJSON fetches reqURL and decodes a 2xx body into result.
func (t *transport) getJSON(ctx context.Context, reqURL string, result interface{}) error {
	resp, err := t.get(ctx, reqURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Client:     t.name,
			StatusCode: resp.StatusCode,
			Body:       string(readBodyForError(resp.Body)),
		}
	}

	if err := decodeJSONResponse(resp, result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", t.name, err)
	}
	return nil
}

// decodeJSONResponse decodes HTTP response body into the provided result struct
func decodeJSONResponse(resp *http.Response, result interface{}) error {
	return json.NewDecoder(resp.Body).Decode(result)
}
