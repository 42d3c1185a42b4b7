package amqp

import (
	"context"
	"encoding/json"
	"log/slog"

	"orderflow/internal/core/domain/events"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

var _ ports.EventPublisher = (*EventPublisher)(nil)

// EventPublisher serializes domain events to JSON and publishes them to the
// events exchange, routed by event type.
type EventPublisher struct {
	client *Client
	logger *slog.Logger
}

func NewEventPublisher(client *Client, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{
		client: client,
		logger: logger.With("component", "event_publisher"),
	}
}

func (p *EventPublisher) Publish(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errs.NewProcessingFailureError(event.ID(), err)
	}

	if err := p.client.PublishMessage(ctx, event.Type(), event.ID(), body); err != nil {
		return errs.NewUpstreamUnavailableError("message broker", err)
	}

	p.logger.Debug("event published",
		"event_type", event.Type(),
		"message_id", event.ID(),
	)
	return nil
}
