// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// SlogHandler is an slog.Handler backed by zerolog. The supervisor tree
// (sutureslog) and the event bus (watermill) log through it, so every
// library writes the same JSON stream.
type SlogHandler struct {
	logger zerolog.Logger
	attrs  []slog.Attr
	prefix string
}

// NewSlogHandler wraps the global zerolog logger.
func NewSlogHandler() *SlogHandler {
	return &SlogHandler{logger: Logger()}
}

// NewSlogLogger returns an *slog.Logger writing through zerolog.
//
//	sup := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
func NewSlogLogger() *slog.Logger {
	return slog.New(NewSlogHandler())
}

// NewWatermillAdapter returns a watermill.LoggerAdapter writing through zerolog.
func NewWatermillAdapter() watermill.LoggerAdapter {
	return watermill.NewSlogLogger(NewSlogLogger())
}

// Enabled reports whether the handler handles records at the given level.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return zerolog.GlobalLevel() <= slogToZerologLevel(level) &&
		h.logger.GetLevel() <= slogToZerologLevel(level)
}

// Handle writes the record as a zerolog event.
//
//nolint:gocritic // slog.Record is passed by value per slog.Handler interface
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	event := h.logger.WithLevel(slogToZerologLevel(record.Level))
	for _, attr := range h.attrs {
		event = addAttr(event, "", attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		event = addAttr(event, h.prefix, attr)
		return true
	})
	event.Msg(record.Message)
	return nil
}

// WithAttrs returns a handler that always adds attrs.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, attr := range attrs {
		attr.Key = h.prefix + attr.Key
		merged = append(merged, attr)
	}
	return &SlogHandler{logger: h.logger, attrs: merged, prefix: h.prefix}
}

// WithGroup returns a handler that prefixes keys with name.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &SlogHandler{logger: h.logger, attrs: h.attrs, prefix: h.prefix + name + "."}
}

func addAttr(event *zerolog.Event, prefix string, attr slog.Attr) *zerolog.Event {
	key := prefix + attr.Key
	v := attr.Value.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return event.Str(key, v.String())
	case slog.KindInt64:
		return event.Int64(key, v.Int64())
	case slog.KindUint64:
		return event.Uint64(key, v.Uint64())
	case slog.KindFloat64:
		return event.Float64(key, v.Float64())
	case slog.KindBool:
		return event.Bool(key, v.Bool())
	case slog.KindDuration:
		return event.Dur(key, v.Duration())
	case slog.KindTime:
		return event.Time(key, v.Time())
	case slog.KindGroup:
		groupPrefix := key + "."
		for _, ga := range v.Group() {
			event = addAttr(event, groupPrefix, ga)
		}
		return event
	default:
		if err, ok := v.Any().(error); ok && strings.EqualFold(attr.Key, "err") {
			return event.AnErr(key, err)
		}
		return event.Interface(key, v.Any())
	}
}

func slogToZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level < slog.LevelDebug:
		return zerolog.TraceLevel
	case level < slog.LevelInfo:
		return zerolog.DebugLevel
	case level < slog.LevelWarn:
		return zerolog.InfoLevel
	case level < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
