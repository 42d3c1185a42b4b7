package commands

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/events"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// ChangeOrderStatusCommandHandler moves an order along its lifecycle.
// The aggregate enforces the transition graph; this handler adds row locking
// for serialization, courier release when an assigned order stops moving, and
// the audit event after commit.
type ChangeOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewChangeOrderStatusCommandHandler creates a handler for lifecycle transitions.
func NewChangeOrderStatusCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "change_order_status"),
	}
}

// Handle processes a lifecycle transition. Concurrent transitions for the
// same order serialize behind the row lock, so exactly one of two racing
// requests wins and the other sees the already-changed state.
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	previous := aggregate.Status()
	wasAssigned := aggregate.IsAssigned()
	courierID := aggregate.CourierID()

	if err = aggregate.ChangeStatus(cmd.NextStatus()); err != nil {
		return err
	}

	// An assigned order entering CANCELLED or FAILED no longer occupies its
	// courier: free the recorded pair and drop the assignment record.
	if wasAssigned && releasesCourier(cmd.NextStatus()) {
		releaseOrderAssignment(ctx, uow.CourierRepository(), aggregate.ID(), courierID, h.logger)
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publishStatusChanged(ctx, aggregate, previous, cmd.Actor())
	return nil
}

func releasesCourier(next order.Status) bool {
	return next == order.Cancelled || next == order.Failed || next == order.Delivered
}

func (h ChangeOrderStatusCommandHandler) publishStatusChanged(
	ctx context.Context,
	aggregate *order.Order,
	previous order.Status,
	actor string,
) {
	event := events.OrderStatusChanged{
		MessageID:      events.NewMessageID(),
		Timestamp:      time.Now().UTC(),
		OrderID:        aggregate.ID().String(),
		PreviousStatus: previous.String(),
		NewStatus:      aggregate.Status().String(),
		Actor:          actor,
	}

	if courierID := aggregate.CourierID(); courierID != nil {
		s := courierID.String()
		event.CourierID = &s
	}
	if vehicleID := aggregate.VehicleID(); vehicleID != nil {
		s := vehicleID.String()
		event.VehicleID = &s
	}

	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("status change event not published",
			"order_id", aggregate.ID().String(), "error", err)
	}
}
