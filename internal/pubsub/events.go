// Package pubsub provides a generic publish/subscribe event system.
//
// The trigger store publishes container changes on a Broker so the TUI can
// re-render after an asynchronous removal settles off the update loop.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the kind of change being published.
type EventType string

const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"
	DeletedEvent EventType = "deleted"
)

// Event is a published change with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher publishes events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
