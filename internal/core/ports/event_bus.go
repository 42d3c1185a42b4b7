package ports

import (
	"context"

	"orderflow/internal/core/domain/events"
)

// EventPublisher publishes domain events onto the bus with at-least-once
// delivery semantics. Implementations are responsible for serialization and
// routing by event type.
type EventPublisher interface {
	// Publish sends the event. Returns an error when the bus rejects the
	// message or the connection is down; callers decide whether that failure
	// is fatal for the surrounding operation.
	Publish(ctx context.Context, event events.Event) error
}
