// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/tcgvault/internal/api"
	"github.com/tomtom215/tcgvault/internal/cache"
	"github.com/tomtom215/tcgvault/internal/config"
	"github.com/tomtom215/tcgvault/internal/database"
	"github.com/tomtom215/tcgvault/internal/events"
	"github.com/tomtom215/tcgvault/internal/images"
	"github.com/tomtom215/tcgvault/internal/logging"
	"github.com/tomtom215/tcgvault/internal/scheduler"
	"github.com/tomtom215/tcgvault/internal/supervisor"
	"github.com/tomtom215/tcgvault/internal/supervisor/services"
	tcgsync "github.com/tomtom215/tcgvault/internal/sync"
	"github.com/tomtom215/tcgvault/internal/upstream"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// config not loaded yet, the default logger is in effect
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("catalog_url", cfg.Catalog.BaseURL).
		Str("pricing_source", cfg.Pricing.Source).
		Str("image_cache_dir", cfg.Images.CacheDir).
		Bool("schedule_enabled", cfg.Schedule.Enabled).
		Msg("Starting TCGVault")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	responseCache := cache.New(cfg.Cache.TTL)
	defer responseCache.Close()

	bus, err := events.NewBus(logging.NewWatermillAdapter())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event bus")
	}
	bus.OnSyncCompleted("run-recorder", events.RecordRun)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	coordinator := tcgsync.NewCoordinator(cfg, tcgsync.Dependencies{
		Store:      db,
		Catalog:    upstream.NewCatalogClient(&cfg.Catalog),
		Pricing:    upstream.NewPricingClient(&cfg.Pricing),
		Fetcher:    upstream.NewImageFetcher(&cfg.Images),
		Transcoder: images.NewTranscoder(&cfg.Images),
		Cache:      responseCache,
		Publisher:  bus,
	})

	sched, err := scheduler.New(&cfg.Schedule, coordinator)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create sync scheduler")
	}

	handler := api.NewHandler(coordinator, db, responseCache)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(&cfg.Server)))
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  shutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddMessagingService(services.NewEventBusService(bus))
	tree.AddSchedulerService(services.NewSchedulerService(sched))
	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout, handler))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Admin API listening")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}

	logging.Info().Msg("TCGVault stopped")
}
