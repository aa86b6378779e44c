// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

/*
Package events carries sync run notifications over an in-process Watermill
bus.

The coordinator publishes one SyncCompleted message per finished run on
TopicSyncCompleted. Consumers are registered on a Watermill router with:
  - Recoverer: handler panics become errors instead of crashing the process
  - Retry: up to 3 retries with exponential backoff (100ms initial)

The bus uses the gochannel Pub/Sub, so messages are delivered only to
subscribers that are running at publish time and are not persisted.
*/
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/tcgvault/internal/models"
)

// TopicSyncCompleted is the topic of finished run notifications.
const TopicSyncCompleted = "sync.completed"

// SyncCompleted describes one finished coordinator run.
type SyncCompleted struct {
	RunID      string               `json:"run_id"`
	Kind       string               `json:"kind"` // "full" or a phase name
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Stats      models.RunStatistics `json:"stats"`
	Error      string               `json:"error,omitempty"`
}

// Duration returns how long the run took.
func (e *SyncCompleted) Duration() time.Duration {
	return e.FinishedAt.Sub(e.StartedAt)
}

// Handler consumes one decoded SyncCompleted event.
type Handler func(ctx context.Context, evt *SyncCompleted) error

// Bus is the in-process event bus.
type Bus struct {
	pubsub *gochannel.GoChannel
	router *message.Router
	logger watermill.LoggerAdapter
}

// NewBus creates a bus and its router. Handlers must be added before Run.
func NewBus(logger watermill.LoggerAdapter) (*Bus, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, logger)

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: 10 * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2,
		Logger:          logger,
	}
	router.AddMiddleware(retry.Middleware)

	return &Bus{pubsub: pubsub, router: router, logger: logger}, nil
}

// PublishSyncCompleted publishes a finished run notification.
func (b *Bus) PublishSyncCompleted(ctx context.Context, evt *SyncCompleted) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("serialize sync event: %w", err)
	}

	id := evt.RunID
	if id == "" {
		id = watermill.NewUUID()
	}
	msg := message.NewMessage(id, payload)
	msg.Metadata.Set("kind", evt.Kind)
	msg.SetContext(ctx)

	if err := b.pubsub.Publish(TopicSyncCompleted, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicSyncCompleted, err)
	}
	return nil
}

// OnSyncCompleted registers a named consumer of SyncCompleted events.
func (b *Bus) OnSyncCompleted(name string, handler Handler) {
	b.router.AddConsumerHandler(name, TopicSyncCompleted, b.pubsub, func(msg *message.Message) error {
		var evt SyncCompleted
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			// Malformed payloads cannot succeed on retry.
			b.logger.Error("dropping malformed sync event", err, watermill.LogFields{"uuid": msg.UUID})
			return nil
		}
		return handler(msg.Context(), &evt)
	})
}

// Run starts the router and blocks until ctx is cancelled.
func (b *Bus) Run(ctx context.Context) error {
	return b.router.Run(ctx)
}

// Running is closed once the router's handlers are subscribed.
func (b *Bus) Running() chan struct{} {
	return b.router.Running()
}

// Close stops the router and the Pub/Sub.
func (b *Bus) Close() error {
	if err := b.router.Close(); err != nil {
		return fmt.Errorf("close router: %w", err)
	}
	return b.pubsub.Close()
}
