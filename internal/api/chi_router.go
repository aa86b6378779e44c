// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/tcgvault/internal/middleware"
)

// Router wires the handler and middleware factories into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses the default middleware
// configuration.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.Get("/healthz", router.handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		r.Route("/sync", func(r chi.Router) {
			r.Get("/status", router.handler.SyncStatus)
			r.Get("/runs", router.handler.SyncRuns)
			r.Post("/full", router.handler.TriggerFullSync)
			r.Post("/{phase}", router.handler.TriggerPhaseSync)
		})

		r.Get("/extensions", router.handler.Extensions)
	})

	return r
}
