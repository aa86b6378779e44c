// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPServer matches the *http.Server lifecycle methods.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// Drainer is work that must stop after the listener closes. Satisfied by
// *api.Handler, which owns sync runs started by POST triggers.
type Drainer interface {
	Shutdown(ctx context.Context) error
}

// HTTPServerService wraps an HTTP server as a supervised service.
//
// On context cancellation it shuts the server down, then drains each
// Drainer, all within one shutdown timeout.
//
//	server := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
//	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, handler))
type HTTPServerService struct {
	server          HTTPServer
	drainers        []Drainer
	shutdownTimeout time.Duration
	name            string
}

// NewHTTPServerService creates the wrapper. A non-positive timeout means ten
// seconds.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration, drainers ...Drainer) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		drainers:        drainers,
		shutdownTimeout: shutdownTimeout,
		name:            "http-server",
	}
}

// Serve implements suture.Service. http.ErrServerClosed is not an error.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		// the parent context is already cancelled
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		var errs []error
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown failed: %w", err))
		}
		<-errCh

		for _, d := range h.drainers {
			if err := d.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("drain failed: %w", err))
			}
		}
		if len(errs) > 0 {
			return errors.Join(errs...)
		}
		return ctx.Err()
	}
}

// String implements fmt.Stringer. Suture uses it in log messages.
func (h *HTTPServerService) String() string {
	return h.name
}
