// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/tcgvault/internal/config"
	"github.com/tomtom215/tcgvault/internal/models"
)

// ChiMiddlewareConfig holds configuration for the chi middleware factories.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	CORSMaxAge         int // seconds

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// DefaultChiMiddlewareConfig returns the defaults. CORS origins are empty,
// so cross-origin requests are refused until configured.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSAllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		CORSAllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		CORSMaxAge:         86400,

		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

// ChiMiddlewareConfigFromServer builds the middleware configuration from the
// server section.
func ChiMiddlewareConfigFromServer(cfg *config.ServerConfig) *ChiMiddlewareConfig {
	mc := DefaultChiMiddlewareConfig()
	if len(cfg.CORSOrigins) > 0 {
		mc.CORSAllowedOrigins = cfg.CORSOrigins
	}
	if cfg.RateLimitRequests > 0 {
		mc.RateLimitRequests = cfg.RateLimitRequests
	}
	if cfg.RateLimitWindow > 0 {
		mc.RateLimitWindow = cfg.RateLimitWindow
	}
	return mc
}

// ChiMiddleware provides chi-compatible CORS and rate limiting.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates the factories. A nil config uses the defaults.
func NewChiMiddleware(cfg *ChiMiddlewareConfig) *ChiMiddleware {
	if cfg == nil {
		cfg = DefaultChiMiddlewareConfig()
	}

	return &ChiMiddleware{
		config: cfg,
		cors: cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: cfg.CORSAllowedMethods,
			AllowedHeaders: cfg.CORSAllowedHeaders,
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         cfg.CORSMaxAge,
		}),
	}
}

// CORS returns the go-chi/cors handler.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit limits requests per client IP. Rejected requests get a 429 in
// the standard envelope.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		m.config.RateLimitRequests,
		m.config.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondErrorWithData(w, http.StatusTooManyRequests, &models.APIError{
				Code:    "RATE_LIMITED",
				Message: "too many requests",
			}, nil, nil)
		}),
	)
}
