// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

// Package bus publishes domain events over an in-process Watermill
// pub/sub. Handlers never mutate engine state; the bus exists for
// notifications and activity logging, so losing a message on shutdown
// is acceptable.
package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/campusunite/engine/internal/logging"
	"github.com/campusunite/engine/internal/metrics"
	"github.com/campusunite/engine/internal/models"
)

// Topics carried by the bus.
const (
	TopicEventCreated  = "events.created"
	TopicEventApproved = "events.approved"
	TopicEventDenied   = "events.denied"
	TopicEventDeleted  = "events.deleted"
	TopicEventRSVP     = "events.rsvp"
)

// EventNotice is the payload published on every event topic.
type EventNotice struct {
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	OrganizerID string    `json:"organizer_id"`
	ActorID     string    `json:"actor_id"`
	Detail      string    `json:"detail,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Bus wraps an in-process Watermill channel pub/sub.
type Bus struct {
	pubsub *gochannel.GoChannel
	now    func() time.Time

	mu     sync.Mutex
	closed bool
}

// New creates the in-process bus.
func New() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, newLoggerAdapter()),
		now: time.Now,
	}
}

// Publish emits a notice on the given topic. Publish errors are
// logged, never propagated: a notification failure must not fail the
// operation that caused it.
func (b *Bus) Publish(ctx context.Context, topic string, notice EventNotice) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	if notice.OccurredAt.IsZero() {
		notice.OccurredAt = b.now()
	}

	payload, err := json.Marshal(notice)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("topic", topic).Msg("Failed to encode bus notice")
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("topic", topic)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("topic", topic).Msg("Failed to publish bus notice")
		return
	}
	metrics.BusEventsPublished.WithLabelValues(topic).Inc()
}

// PublishEvent emits a notice derived from an event and the acting user.
func (b *Bus) PublishEvent(ctx context.Context, topic string, event *models.Event, actorID, detail string) {
	b.Publish(ctx, topic, EventNotice{
		EventID:     event.ID,
		Title:       event.Title,
		OrganizerID: event.OrganizerID,
		ActorID:     actorID,
		Detail:      detail,
	})
}

// Subscribe returns a channel of messages for the topic.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	return ch, nil
}

// Close shuts the pub/sub down. Subsequent publishes are dropped.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.pubsub.Close()
}
