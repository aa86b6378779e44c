// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/tcgvault/internal/validation"
)

// Validate checks struct-tag rules first, then the cross-field rules the
// tags cannot express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateSchedule(); err != nil {
		return err
	}

	return c.validateImages()
}

// validateSchedule checks the cron expressions have five fields and the
// timezone resolves. Full cron parsing happens when the scheduler starts.
func (c *Config) validateSchedule() error {
	for name, expr := range map[string]string{
		"FULL_SYNC_CRON":  c.Schedule.FullSyncCron,
		"PRICE_SYNC_CRON": c.Schedule.PriceSyncCron,
	} {
		if n := len(strings.Fields(expr)); n != 5 {
			return fmt.Errorf("%s must have 5 fields (minute hour day month weekday), got %d", name, n)
		}
	}

	if c.Schedule.Timezone != "" {
		if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
			return fmt.Errorf("SCHEDULE_TIMEZONE %q is invalid: %w", c.Schedule.Timezone, err)
		}
	}
	return nil
}

// validateImages rejects bounds smaller than a thumbnail the UI can use.
func (c *Config) validateImages() error {
	if c.Images.MaxWidth < 64 || c.Images.MaxHeight < 64 {
		return fmt.Errorf("IMAGE_MAX_WIDTH and IMAGE_MAX_HEIGHT must be at least 64, got %dx%d",
			c.Images.MaxWidth, c.Images.MaxHeight)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
