// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package bus

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/campusunite/engine/internal/logging"
)

// allTopics lists every topic the listener consumes.
var allTopics = []string{
	TopicEventCreated,
	TopicEventApproved,
	TopicEventDenied,
	TopicEventDeleted,
	TopicEventRSVP,
}

// Listener consumes every domain topic and writes one activity log
// line per notice. It runs as a supervised service; losing it loses
// log lines only, never engine state.
type Listener struct {
	bus    *Bus
	handle func(topic string, notice EventNotice)
}

// NewListener creates the activity-logging listener for the bus.
func NewListener(b *Bus) *Listener {
	return &Listener{bus: b, handle: logNotice}
}

func logNotice(topic string, notice EventNotice) {
	logging.Info().
		Str("component", "bus").
		Str("topic", topic).
		Str("event_id", notice.EventID).
		Str("actor_id", notice.ActorID).
		Str("detail", notice.Detail).
		Time("occurred_at", notice.OccurredAt).
		Msg("Domain event")
}

// Serve implements suture.Service. It subscribes to every topic and
// consumes until the context is canceled.
func (l *Listener) Serve(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, topic := range allTopics {
		ch, err := l.bus.Subscribe(ctx, topic)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func(topic string, ch <-chan *message.Message) {
			defer wg.Done()
			l.consume(topic, ch)
		}(topic, ch)
	}

	<-ctx.Done()
	// Subscriptions share ctx, so cancellation closes every channel.
	wg.Wait()
	return ctx.Err()
}

func (l *Listener) consume(topic string, ch <-chan *message.Message) {
	for msg := range ch {
		var notice EventNotice
		if err := json.Unmarshal(msg.Payload, &notice); err != nil {
			logging.Error().Err(err).Str("topic", topic).Msg("Failed to decode bus notice")
			msg.Ack()
			continue
		}
		l.handle(topic, notice)
		msg.Ack()
	}
}

// String names the service in supervisor logs.
func (l *Listener) String() string {
	return "bus-listener"
}
