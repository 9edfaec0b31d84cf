package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Event interface {
	EventType() string
	EventID() string
	OccurredAt() time.Time
	Payload() interface{}
}

type BaseEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) EventID() string {
	return e.ID
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

func (e BaseEvent) Payload() interface{} {
	return e.Data
}

type Handler func(ctx context.Context, event Event) error

type subscription struct {
	id      uint64
	name    string
	handler Handler
}

// EventBus is an in-process fan-out. Publish runs handlers on their own
// goroutines; Wait blocks until every such goroutine has returned.
type EventBus struct {
	handlers map[string][]subscription
	logger   *slog.Logger
	mu       sync.RWMutex
	nextID   uint64
	inflight sync.WaitGroup
}

func NewEventBus(logger *slog.Logger) *EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventBus{
		handlers: make(map[string][]subscription),
		logger:   logger,
	}
}

// Subscribe registers handler under a descriptive name and returns a
// function that removes it again.
func (eb *EventBus) Subscribe(eventType, name string, handler Handler) func() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextID++
	id := eb.nextID
	eb.handlers[eventType] = append(eb.handlers[eventType], subscription{id: id, name: name, handler: handler})
	eb.logger.Info("event handler registered",
		"event_type", eventType,
		"handler", name,
		"total_handlers", len(eb.handlers[eventType]))

	return func() { eb.unsubscribe(eventType, id) }
}

func (eb *EventBus) unsubscribe(eventType string, id uint64) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subs := eb.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			eb.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

func (eb *EventBus) snapshot(eventType string) []subscription {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	subs := eb.handlers[eventType]
	out := make([]subscription, len(subs))
	copy(out, subs)
	return out
}

func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	subs := eb.snapshot(event.EventType())
	if len(subs) == 0 {
		eb.logger.Debug("no handlers for event type", "event_type", event.EventType())
		return nil
	}

	eb.logger.Debug("publishing event",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"handlers_count", len(subs))

	for _, s := range subs {
		eb.inflight.Add(1)
		go func(s subscription) {
			defer eb.inflight.Done()
			if err := s.handler(ctx, event); err != nil {
				eb.logger.Error("event handler failed",
					"event_type", event.EventType(),
					"event_id", event.EventID(),
					"handler", s.name,
					"error", err)
			}
		}(s)
	}

	return nil
}

func (eb *EventBus) PublishSync(ctx context.Context, event Event) error {
	subs := eb.snapshot(event.EventType())
	if len(subs) == 0 {
		eb.logger.Debug("no handlers for event type", "event_type", event.EventType())
		return nil
	}

	for _, s := range subs {
		if err := s.handler(ctx, event); err != nil {
			eb.logger.Error("event handler failed",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"handler", s.name,
				"error", err)
			return fmt.Errorf("handler %s failed for event %s: %w", s.name, event.EventType(), err)
		}
	}

	return nil
}

// Wait blocks until asynchronously published events have been handled.
func (eb *EventBus) Wait() {
	eb.inflight.Wait()
}
