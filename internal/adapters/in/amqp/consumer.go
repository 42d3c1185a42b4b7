// Package amqp hosts the inbound message consumers. Each queue gets its own
// channel and goroutine; deliveries are acked once the command handler
// succeeds or the message is recognized as consumable noise, nacked with
// requeue on transient failures, and dead-lettered when they can never be
// processed.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"orderflow/internal/adapters/out/amqp"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/events"
	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

const consumerPrefetch = 8

// AssignmentApplier folds an assignment outcome into the order aggregate.
type AssignmentApplier interface {
	Handle(ctx context.Context, cmd commands.ApplyAssignmentCommand) error
}

// FleetAssigner runs the internal matching pass for a pending order.
type FleetAssigner interface {
	Handle(ctx context.Context, cmd commands.AssignFleetCommand) error
}

// LocationRecorder stores courier position reports.
type LocationRecorder interface {
	Handle(ctx context.Context, cmd commands.ReportCourierLocationCommand) error
}

// VehicleStatusChanger applies vehicle state transitions.
type VehicleStatusChanger interface {
	Handle(ctx context.Context, cmd commands.ChangeVehicleStatusCommand) error
}

// Consumer subscribes the command handlers to the broker queues.
type Consumer struct {
	client   *amqp.Client
	applier  AssignmentApplier
	assigner FleetAssigner
	recorder LocationRecorder
	changer  VehicleStatusChanger
	logger   *slog.Logger
}

func NewConsumer(
	client *amqp.Client,
	applier AssignmentApplier,
	assigner FleetAssigner,
	recorder LocationRecorder,
	changer VehicleStatusChanger,
	logger *slog.Logger,
) (*Consumer, error) {
	if client == nil {
		return nil, errors.New("client is required")
	}
	if applier == nil {
		return nil, errors.New("assignment applier is required")
	}
	if assigner == nil {
		return nil, errors.New("fleet assigner is required")
	}
	if recorder == nil {
		return nil, errors.New("location recorder is required")
	}
	if changer == nil {
		return nil, errors.New("vehicle status changer is required")
	}

	return &Consumer{
		client:   client,
		applier:  applier,
		assigner: assigner,
		recorder: recorder,
		changer:  changer,
		logger:   logger.With("component", "amqp_consumer"),
	}, nil
}

// Start opens one consuming channel per queue and dispatches deliveries until
// the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	if err := c.consumeQueue(ctx, amqp.AssignmentQueue, c.handleAssignmentDelivery); err != nil {
		return err
	}
	if err := c.consumeQueue(ctx, amqp.MatchingQueue, c.handleMatchingDelivery); err != nil {
		return err
	}
	if err := c.consumeQueue(ctx, amqp.TelemetryQueue, c.handleTelemetryDelivery); err != nil {
		return err
	}
	return nil
}

func (c *Consumer) consumeQueue(
	ctx context.Context,
	queue string,
	handle func(ctx context.Context, d amqp091.Delivery),
) error {
	ch, err := c.client.NewConsumerChannel(consumerPrefetch)
	if err != nil {
		return err
	}

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		ch.Close()
		return err
	}

	go func() {
		defer ch.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					c.logger.Warn("delivery channel closed", "queue", queue)
					return
				}
				handle(ctx, d)
			}
		}
	}()

	c.logger.Info("consuming queue", "queue", queue)
	return nil
}

func (c *Consumer) handleAssignmentDelivery(ctx context.Context, d amqp091.Delivery) {
	var event events.AssignmentCompleted
	if err := json.Unmarshal(d.Body, &event); err != nil {
		c.logger.Error("malformed assignment message", "error", err)
		_ = d.Nack(false, false)
		return
	}

	cmd, err := commands.NewApplyAssignmentCommandFromStrings(
		event.MessageID,
		event.OrderID,
		event.CourierID,
		event.VehicleID,
		event.OriginService,
	)
	if err != nil {
		c.logger.Error("unprocessable assignment message",
			"message_id", event.MessageID,
			"order_id", event.OrderID,
			"error", err,
		)
		_ = d.Nack(false, false)
		return
	}

	c.finish(d, c.applier.Handle(ctx, cmd), d.RoutingKey, event.MessageID)
}

func (c *Consumer) handleMatchingDelivery(ctx context.Context, d amqp091.Delivery) {
	switch d.RoutingKey {
	case events.TypeOrderCreated:
		var event events.OrderCreated
		if err := json.Unmarshal(d.Body, &event); err != nil {
			c.logger.Error("malformed order created message", "error", err)
			_ = d.Nack(false, false)
			return
		}
		c.runMatching(ctx, d, event.OrderID, "order created", event.MessageID)

	case events.TypeRetryAssignmentRequested:
		var event events.RetryAssignmentRequested
		if err := json.Unmarshal(d.Body, &event); err != nil {
			c.logger.Error("malformed retry message", "error", err)
			_ = d.Nack(false, false)
			return
		}
		reason := event.Reason
		if reason == "" {
			reason = "retry requested"
		}
		c.runMatching(ctx, d, event.OrderID, reason, event.MessageID)

	default:
		c.logger.Warn("unexpected routing key", "routing_key", d.RoutingKey)
		_ = d.Nack(false, false)
	}
}

func (c *Consumer) runMatching(ctx context.Context, d amqp091.Delivery, orderID, reason, messageID string) {
	oid, err := kernel.UUIDFromString(orderID)
	if err != nil {
		c.logger.Error("unprocessable matching message",
			"message_id", messageID,
			"order_id", orderID,
			"error", err,
		)
		_ = d.Nack(false, false)
		return
	}

	cmd, err := commands.NewAssignFleetCommand(oid, reason)
	if err != nil {
		c.logger.Error("unprocessable matching message",
			"message_id", messageID,
			"order_id", orderID,
			"error", err,
		)
		_ = d.Nack(false, false)
		return
	}

	c.finish(d, c.assigner.Handle(ctx, cmd), d.RoutingKey, messageID)
}

func (c *Consumer) handleTelemetryDelivery(ctx context.Context, d amqp091.Delivery) {
	switch d.RoutingKey {
	case events.TypeCourierLocationUpdated:
		var event events.CourierLocationUpdated
		if err := json.Unmarshal(d.Body, &event); err != nil {
			c.logger.Error("malformed location message", "error", err)
			_ = d.Nack(false, false)
			return
		}
		c.recordLocation(ctx, d, event)

	case events.TypeVehicleStatusChanged:
		var event events.VehicleStatusChanged
		if err := json.Unmarshal(d.Body, &event); err != nil {
			c.logger.Error("malformed vehicle status message", "error", err)
			_ = d.Nack(false, false)
			return
		}
		c.changeVehicleStatus(ctx, d, event)

	default:
		c.logger.Warn("unexpected routing key", "routing_key", d.RoutingKey)
		_ = d.Nack(false, false)
	}
}

func (c *Consumer) recordLocation(ctx context.Context, d amqp091.Delivery, event events.CourierLocationUpdated) {
	courierID, err := kernel.UUIDFromString(event.CourierID)
	if err != nil {
		c.logger.Error("unprocessable location message",
			"message_id", event.MessageID,
			"courier_id", event.CourierID,
			"error", err,
		)
		_ = d.Nack(false, false)
		return
	}

	point, err := kernel.NewGeoPoint(event.Latitude, event.Longitude)
	if err != nil {
		c.logger.Error("unprocessable location message",
			"message_id", event.MessageID,
			"courier_id", event.CourierID,
			"error", err,
		)
		_ = d.Nack(false, false)
		return
	}

	cmd, err := commands.NewReportCourierLocationCommand(courierID, point, event.Timestamp)
	if err != nil {
		c.logger.Error("unprocessable location message",
			"message_id", event.MessageID,
			"courier_id", event.CourierID,
			"error", err,
		)
		_ = d.Nack(false, false)
		return
	}

	c.finish(d, c.recorder.Handle(ctx, cmd), d.RoutingKey, event.MessageID)
}

func (c *Consumer) changeVehicleStatus(ctx context.Context, d amqp091.Delivery, event events.VehicleStatusChanged) {
	vehicleID, err := kernel.UUIDFromString(event.VehicleID)
	if err != nil {
		c.logger.Error("unprocessable vehicle status message",
			"message_id", event.MessageID,
			"vehicle_id", event.VehicleID,
			"error", err,
		)
		_ = d.Nack(false, false)
		return
	}

	cmd, err := commands.NewChangeVehicleStatusCommand(vehicleID, courier.VehicleStatus(event.NewStatus))
	if err != nil {
		c.logger.Error("unprocessable vehicle status message",
			"message_id", event.MessageID,
			"vehicle_id", event.VehicleID,
			"error", err,
		)
		_ = d.Nack(false, false)
		return
	}

	c.finish(d, c.changer.Handle(ctx, cmd), d.RoutingKey, event.MessageID)
}

// finish classifies the handler outcome into ack / requeue / dead-letter.
func (c *Consumer) finish(d amqp091.Delivery, err error, eventType, messageID string) {
	switch {
	case err == nil:
		_ = d.Ack(false)

	case errors.Is(err, errs.ErrObjectNotFound):
		// Referenced aggregate does not exist here. Redelivery cannot fix
		// that; log and consume.
		c.logger.Warn("message references unknown aggregate",
			"event_type", eventType,
			"message_id", messageID,
			"error", err,
		)
		_ = d.Ack(false)

	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		c.logger.Error("unprocessable message",
			"event_type", eventType,
			"message_id", messageID,
			"error", err,
		)
		_ = d.Nack(false, false)

	default:
		c.logger.Error("message processing failed, requeueing",
			"event_type", eventType,
			"message_id", messageID,
			"error", err,
		)
		_ = d.Nack(false, true)
	}
}
