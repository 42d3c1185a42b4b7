package commands

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/events"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
)

// AssignFleetCommandHandler matches a pending order with the local courier
// pool. It does not touch the order itself: it marks the selected courier on
// route and announces the outcome, which the assignment applier then folds
// into the order. Orders that already left PENDING are skipped silently.
type AssignFleetCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	matcher    services.FleetMatcher
	logger     *slog.Logger
}

// NewAssignFleetCommandHandler creates a handler for fleet matching attempts.
func NewAssignFleetCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AssignFleetCommandHandler {
	return AssignFleetCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		matcher:    services.NewFleetMatcher(),
		logger:     logger.With("component", "assign_fleet"),
	}
}

// Handle processes a matching attempt. No capacity is not an error worth
// failing the message for: the attempt ends quietly and a later retry or the
// sweep job picks the order up again. The outcome event goes out only after
// the courier marking is committed; a failed publish is logged, and the
// stale-pending sweep re-announces the still-pending order.
func (h AssignFleetCommandHandler) Handle(ctx context.Context, cmd AssignFleetCommand) error {
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

	aggregate, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if aggregate.Status() != order.Pending {
		h.logger.Info("order no longer pending, skipping match",
			"order_id", aggregate.ID().String(),
			"status", aggregate.Status().String())
		return nil
	}

	courierRepo := uow.CourierRepository()
	couriers, err := courierRepo.GetAllAvailable(ctx)
	if err != nil {
		return err
	}

	selected, err := h.matcher.Match(aggregate.WeightKg(), couriers)
	if err != nil {
		h.logger.Info("no match for pending order",
			"order_id", aggregate.ID().String(),
			"reason", cmd.Reason(),
			"error", err)
		return nil
	}

	if err = selected.MarkOnRoute(); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, selected); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	event := events.AssignmentCompleted{
		MessageID:       events.NewMessageID(),
		Timestamp:       time.Now().UTC(),
		OrderID:         aggregate.ID().String(),
		CourierID:       selected.ID().String(),
		VehicleID:       selected.Vehicle().ID().String(),
		CourierName:     selected.Name(),
		Plate:           selected.Vehicle().Plate(),
		ResultingStatus: order.Assigned.String(),
		OriginService:   originFleetService,
		Reason:          cmd.Reason(),
	}

	if err = h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("assignment outcome not published",
			"order_id", event.OrderID,
			"courier_id", event.CourierID,
			"error", err)
	}
	return nil
}
