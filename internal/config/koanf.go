// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tcgvault/config.yaml",
	"/etc/tcgvault/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. The pacing values match the
// request rates the public catalog and pricing APIs tolerate without keys.
func defaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:  "https://api.pokemontcg.io/v2",
			APIKey:   "",
			Timeout:  30 * time.Second,
			PageSize: 250,
		},
		Pricing: PricingConfig{
			BaseURL:           "https://api.pokemontcg.io/v2",
			APIKey:            "",
			Source:            "tcgplayer",
			Condition:         "near_mint",
			Currency:          "USD",
			RequestsPerSecond: 5,
			Burst:             1,
			Timeout:           15 * time.Second,
		},
		Images: ImagesConfig{
			CacheDir:  "/data/images",
			MaxWidth:  734,
			MaxHeight: 1024,
			Quality:   82,
			MaxBytes:  20 << 20,
			Timeout:   30 * time.Second,
		},
		Sync: SyncConfig{
			ExtensionDelay:  100 * time.Millisecond,
			CardDelay:       50 * time.Millisecond,
			ExtensionGap:    time.Second,
			PriceDelay:      200 * time.Millisecond,
			ImageDelay:      100 * time.Millisecond,
			PriceBatchLimit: 1000,
			PriceFreshness:  24 * time.Hour,
			ImageBatchLimit: 500,
			RetryAttempts:   3,
			RetryDelay:      2 * time.Second,
		},
		Schedule: ScheduleConfig{
			Enabled:       true,
			FullSyncCron:  "0 3 * * *",
			PriceSyncCron: "0 */6 * * *",
			Timezone:      "UTC",
			CheckInterval: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "/data/tcgvault.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              3857,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			CORSOrigins:       []string{"*"},
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration in three layers with precedence
// ENV > file > defaults, then validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// POKEMONTCG_API_KEY -> catalog.api_key, PRICE_SYNC_CRON -> schedule.price_sync_cron
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
// Values that came from YAML are already slices and are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	"catalog_api_url":    "catalog.base_url",
	"pokemontcg_api_key": "catalog.api_key",
	"catalog_timeout":    "catalog.timeout",
	"catalog_page_size":  "catalog.page_size",

	"pricing_api_url":   "pricing.base_url",
	"pricing_api_key":   "pricing.api_key",
	"pricing_source":    "pricing.source",
	"pricing_condition": "pricing.condition",
	"pricing_currency":  "pricing.currency",
	"pricing_rps":       "pricing.requests_per_second",
	"pricing_burst":     "pricing.burst",
	"pricing_timeout":   "pricing.timeout",

	"image_cache_dir":  "images.cache_dir",
	"image_max_width":  "images.max_width",
	"image_max_height": "images.max_height",
	"image_quality":    "images.quality",
	"image_max_bytes":  "images.max_bytes",
	"image_timeout":    "images.timeout",

	"sync_extension_delay": "sync.extension_delay",
	"sync_card_delay":      "sync.card_delay",
	"sync_extension_gap":   "sync.extension_gap",
	"sync_price_delay":     "sync.price_delay",
	"sync_image_delay":     "sync.image_delay",
	"sync_price_limit":     "sync.price_batch_limit",
	"sync_price_freshness": "sync.price_freshness",
	"sync_image_limit":     "sync.image_batch_limit",
	"sync_retry_attempts":  "sync.retry_attempts",
	"sync_retry_delay":     "sync.retry_delay",

	"schedule_enabled":        "schedule.enabled",
	"full_sync_cron":          "schedule.full_sync_cron",
	"price_sync_cron":         "schedule.price_sync_cron",
	"schedule_timezone":       "schedule.timezone",
	"schedule_check_interval": "schedule.check_interval",

	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_read_timeout":   "server.read_timeout",
	"http_write_timeout":  "server.write_timeout",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",
	"cors_origins":        "server.cors_origins",

	"cache_ttl": "cache.ttl",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path,
// returning "" for variables this application does not read.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
