// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package bus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/campusunite/engine/internal/models"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Subscribe(ctx, TopicEventCreated)
	if err != nil {
		t.Fatalf("Subscribe() error: %v", err)
	}

	b.Publish(ctx, TopicEventCreated, EventNotice{
		EventID:     "evt-1",
		Title:       "Jazz Night",
		OrganizerID: "org-1",
		ActorID:     "org-1",
	})

	select {
	case msg := <-ch:
		var notice EventNotice
		if err := json.Unmarshal(msg.Payload, &notice); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if notice.EventID != "evt-1" || notice.Title != "Jazz Night" {
			t.Errorf("notice = %+v, want evt-1/Jazz Night", notice)
		}
		if notice.OccurredAt.IsZero() {
			t.Error("OccurredAt not stamped")
		}
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published notice")
	}
}

func TestPublishEventDerivesNotice(t *testing.T) {
	b := New()
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Subscribe(ctx, TopicEventRSVP)
	if err != nil {
		t.Fatalf("Subscribe() error: %v", err)
	}

	event := &models.Event{ID: "evt-2", Title: "Robotics Demo", OrganizerID: "org-2"}
	b.PublishEvent(ctx, TopicEventRSVP, event, "user-7", "joined")

	select {
	case msg := <-ch:
		var notice EventNotice
		if err := json.Unmarshal(msg.Payload, &notice); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if notice.EventID != "evt-2" || notice.ActorID != "user-7" || notice.Detail != "joined" {
			t.Errorf("notice = %+v", notice)
		}
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published notice")
	}
}

func TestTopicsAreIsolated(t *testing.T) {
	b := New()
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	approved, err := b.Subscribe(ctx, TopicEventApproved)
	if err != nil {
		t.Fatalf("Subscribe() error: %v", err)
	}

	b.Publish(ctx, TopicEventDenied, EventNotice{EventID: "evt-3"})

	select {
	case msg := <-approved:
		t.Fatalf("approved subscriber received a denied notice: %s", msg.Payload)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestListenerConsumesEveryTopic(t *testing.T) {
	b := New()
	t.Cleanup(func() { _ = b.Close() })

	var mu sync.Mutex
	seen := make(map[string]EventNotice)
	listener := NewListener(b)
	listener.handle = func(topic string, notice EventNotice) {
		mu.Lock()
		seen[topic] = notice
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- listener.Serve(ctx) }()

	// Give the subscriptions a moment to attach before publishing.
	time.Sleep(50 * time.Millisecond)
	for _, topic := range allTopics {
		b.Publish(ctx, topic, EventNotice{EventID: "evt-" + topic})
	}

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := len(seen)
		mu.Unlock()
		if n == len(allTopics) {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("listener consumed %d of %d topics", n, len(allTopics))
		case <-time.After(10 * time.Millisecond):
		}
	}

	mu.Lock()
	notice := seen[TopicEventCreated]
	mu.Unlock()
	if notice.EventID != "evt-"+TopicEventCreated {
		t.Errorf("created notice = %+v", notice)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop on cancellation")
	}
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	b := New()
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	// Must not panic or block.
	b.Publish(context.Background(), TopicEventCreated, EventNotice{EventID: "evt-4"})

	if err := b.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
}
