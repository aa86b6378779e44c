// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package config

import (
	"time"
)

// Config holds all application configuration.
//
// Loading order (Koanf v2):
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML config file (CONFIG_PATH or config.yaml)
//  3. Environment variables
//
// Sections:
//   - Catalog, Pricing: upstream provider endpoints and credentials
//   - Images: local image cache location and transcoding bounds
//   - Sync: batch limits, freshness window and per-phase pacing
//   - Schedule: cron expressions for the full and price-only runs
//   - Database, Server, Cache, Logging: infrastructure
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Catalog  CatalogConfig  `koanf:"catalog"`
	Pricing  PricingConfig  `koanf:"pricing"`
	Images   ImagesConfig   `koanf:"images"`
	Sync     SyncConfig     `koanf:"sync"`
	Schedule ScheduleConfig `koanf:"schedule"`
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Cache    CacheConfig    `koanf:"cache"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// CatalogConfig configures the card/extension catalog provider.
//
// An empty APIKey is allowed; the provider throttles anonymous clients hard
// and the resulting failures surface as phase errors.
type CatalogConfig struct {
	BaseURL  string        `koanf:"base_url" validate:"required,http_url"`
	APIKey   string        `koanf:"api_key"`
	Timeout  time.Duration `koanf:"timeout" validate:"gt=0"`
	PageSize int           `koanf:"page_size" validate:"gte=1,lte=250"`
}

// PricingConfig configures the pricing provider and how observations are tagged.
type PricingConfig struct {
	BaseURL           string        `koanf:"base_url" validate:"required,http_url"`
	APIKey            string        `koanf:"api_key"`
	Source            string        `koanf:"source" validate:"required"`
	Condition         string        `koanf:"condition" validate:"required"`
	Currency          string        `koanf:"currency" validate:"required,len=3"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gt=0"`
	Burst             int           `koanf:"burst" validate:"gte=1"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
}

// ImagesConfig configures the local image cache.
type ImagesConfig struct {
	CacheDir  string        `koanf:"cache_dir" validate:"required"`
	MaxWidth  int           `koanf:"max_width" validate:"gte=1"`
	MaxHeight int           `koanf:"max_height" validate:"gte=1"`
	Quality   int           `koanf:"quality" validate:"gte=1,lte=100"`
	MaxBytes  int64         `koanf:"max_bytes" validate:"gte=1024"`
	Timeout   time.Duration `koanf:"timeout" validate:"gt=0"`
}

// SyncConfig controls batch sizes and the pacing between upstream calls.
type SyncConfig struct {
	ExtensionDelay  time.Duration `koanf:"extension_delay" validate:"gte=0"`
	CardDelay       time.Duration `koanf:"card_delay" validate:"gte=0"`
	ExtensionGap    time.Duration `koanf:"extension_gap" validate:"gte=0"`
	PriceDelay      time.Duration `koanf:"price_delay" validate:"gte=0"`
	ImageDelay      time.Duration `koanf:"image_delay" validate:"gte=0"`
	PriceBatchLimit int           `koanf:"price_batch_limit" validate:"gte=1"`
	PriceFreshness  time.Duration `koanf:"price_freshness" validate:"gt=0"`
	ImageBatchLimit int           `koanf:"image_batch_limit" validate:"gte=1"`
	RetryAttempts   int           `koanf:"retry_attempts" validate:"gte=0,lte=10"`
	RetryDelay      time.Duration `koanf:"retry_delay" validate:"gte=0"`
}

// ScheduleConfig holds the cron triggers for unattended runs.
type ScheduleConfig struct {
	Enabled       bool          `koanf:"enabled"`
	FullSyncCron  string        `koanf:"full_sync_cron" validate:"required"`
	PriceSyncCron string        `koanf:"price_sync_cron" validate:"required"`
	Timezone      string        `koanf:"timezone"`
	CheckInterval time.Duration `koanf:"check_interval" validate:"gt=0"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory" validate:"required"`
	Threads   int    `koanf:"threads" validate:"gte=0"`
}

// ServerConfig holds the admin HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout       time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout      time.Duration `koanf:"write_timeout" validate:"gt=0"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// CacheConfig configures the read-through API cache.
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl" validate:"gt=0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, an optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
