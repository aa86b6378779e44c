// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

// Package logging provides the zerolog-based global logger used across TCGVault.
//
// Initialize once at startup and log with structured fields:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("phase", "cards").Int("errors", n).Msg("Phase complete")
//
// Run-scoped logging carries the sync run ID:
//
//	ctx = logging.ContextWithRunID(ctx, runID)
//	logging.Ctx(ctx).Warn().Err(err).Msg("Card upsert failed")
//
// Environment variables (via config): LOG_LEVEL, LOG_FORMAT, LOG_CALLER.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error, fatal, panic.
	Level string

	// Format is the output format: json or console.
	Format string

	// Caller includes caller file and line number in logs.
	Caller bool

	// Timestamp enables timestamps in log output.
	Timestamp bool

	// Output is the writer for log output. Defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Caller:    false,
		Timestamp: true,
		Output:    os.Stderr,
	}
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

//nolint:gochecknoinits // logging must work before Init() is called
func init() {
	initLogger(DefaultConfig())
}

// Init (re)configures the global logger. Safe to call more than once.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	initLogger(cfg)
}

// initLogger configures the global logger (must be called with mu held).
func initLogger(cfg Config) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"

	output := cfg.Output
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: "15:04:05",
		}
	}

	l := zerolog.New(output)
	if cfg.Timestamp {
		l = l.With().Timestamp().Logger()
	}
	if cfg.Caller {
		l = l.With().Caller().Logger()
	}
	log = l
}

// parseLevel converts a string level to zerolog.Level, defaulting to info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns the global logger instance.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetLogger replaces the global logger instance. Mostly useful in tests.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// With creates a child logger context with additional fields.
//
//	syncLogger := logging.With().Str("component", "sync").Logger()
func With() zerolog.Context {
	mu.RLock()
	defer mu.RUnlock()
	return log.With()
}

// Debug starts a new message with debug level.
func Debug() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Debug()
}

// Info starts a new message with info level.
func Info() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Info()
}

// Warn starts a new message with warning level.
func Warn() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Warn()
}

// Error starts a new message with error level.
func Error() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Error()
}

// Fatal starts a new message with fatal level. os.Exit(1) follows the write.
func Fatal() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Fatal()
}

// Err starts an error level message with the error attached.
func Err(err error) *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Err(err)
}

// SetLevelString updates the global log level from a string.
func SetLevelString(level string) {
	zerolog.SetGlobalLevel(parseLevel(level))
}

// NewTestLogger creates a JSON logger writing to w, for capturing output in tests.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
