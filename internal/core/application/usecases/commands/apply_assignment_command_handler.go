package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/events"
	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// ApplyAssignmentCommandHandler applies an assignment outcome to an order.
// This is the single funnel for both delivery paths, and it is idempotent:
// a message identifier seen before becomes a no-op, and an outcome arriving
// after the order left PENDING frees the offered courier instead of touching
// the order.
type ApplyAssignmentCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewApplyAssignmentCommandHandler creates a handler for assignment outcomes.
func NewApplyAssignmentCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ApplyAssignmentCommandHandler {
	return ApplyAssignmentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "apply_assignment"),
	}
}

// Handle processes an assignment outcome. The ledger check runs first and the
// ledger mark runs last, inside the same transaction as the order change; a
// crash between them leaves the message unrecorded, so the redelivery repeats
// the whole operation against unchanged state.
func (h ApplyAssignmentCommandHandler) Handle(ctx context.Context, cmd ApplyAssignmentCommand) error {
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

	ledger := uow.MessageLedger()
	processed, err := ledger.IsProcessed(ctx, cmd.MessageID())
	if err != nil {
		// Fail open: the unique constraint behind MarkProcessed still
		// guards the race.
		h.logger.Warn("ledger lookup failed, proceeding",
			"message_id", cmd.MessageID(), "error", err)
	}
	if processed {
		return nil
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	previous := aggregate.Status()
	if err = aggregate.AssignFleet(cmd.CourierID(), cmd.VehicleID()); err != nil {
		if errors.Is(err, errs.ErrInvalidStateTransition) {
			return h.consumeLateOutcome(ctx, uow, cmd)
		}
		return err
	}

	if err = h.markCourierOnRoute(ctx, uow.CourierRepository(), cmd); err != nil {
		return err
	}

	if err = h.recordAssignment(ctx, uow.CourierRepository(), cmd); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = ledger.MarkProcessed(ctx, cmd.MessageID(), events.TypeAssignmentCompleted); err != nil {
		if errors.Is(err, errs.ErrDuplicateResource) {
			// Another consumer won the race; its transaction carries the change.
			return nil
		}
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publishStatusChanged(ctx, cmd, previous.String(), aggregate.Status().String())
	return nil
}

// consumeLateOutcome swallows an outcome that arrived after the order already
// moved on: the offered courier goes back to the pool and the message is
// recorded so redeliveries stay silent.
func (h ApplyAssignmentCommandHandler) consumeLateOutcome(
	ctx context.Context,
	uow UoW,
	cmd ApplyAssignmentCommand,
) error {
	h.logger.Info("assignment outcome arrived too late, releasing courier",
		"order_id", cmd.OrderID().String(),
		"courier_id", cmd.CourierID().String(),
		"origin_service", cmd.OriginService())

	releaseCourier(ctx, uow.CourierRepository(), cmd.CourierID(), h.logger)

	err := uow.MessageLedger().MarkProcessed(ctx, cmd.MessageID(), events.TypeAssignmentCompleted)
	if err != nil {
		if errors.Is(err, errs.ErrDuplicateResource) {
			return nil
		}
		return err
	}

	return uow.Commit(ctx)
}

// markCourierOnRoute transitions a locally known courier. Couriers already on
// route (the matcher marked them before publishing) and couriers unknown to
// this service pass through.
func (h ApplyAssignmentCommandHandler) markCourierOnRoute(
	ctx context.Context,
	repo ports.CourierRepository,
	cmd ApplyAssignmentCommand,
) error {
	aggregate, err := repo.Get(ctx, cmd.CourierID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if aggregate.Status() == courier.StatusOnRoute {
		return nil
	}

	if err = aggregate.MarkOnRoute(); err != nil {
		return err
	}

	return repo.Update(ctx, aggregate)
}

func (h ApplyAssignmentCommandHandler) recordAssignment(
	ctx context.Context,
	repo ports.CourierRepository,
	cmd ApplyAssignmentCommand,
) error {
	assignment, err := courier.NewAssignment(cmd.OrderID(), cmd.CourierID(), cmd.VehicleID())
	if err != nil {
		return err
	}

	if err = repo.AddAssignment(ctx, assignment); err != nil && !errors.Is(err, errs.ErrDuplicateResource) {
		return err
	}

	return nil
}

func (h ApplyAssignmentCommandHandler) publishStatusChanged(
	ctx context.Context,
	cmd ApplyAssignmentCommand,
	previous string,
	next string,
) {
	courierID := cmd.CourierID().String()
	vehicleID := cmd.VehicleID().String()

	event := events.OrderStatusChanged{
		MessageID:      events.NewMessageID(),
		Timestamp:      time.Now().UTC(),
		OrderID:        cmd.OrderID().String(),
		PreviousStatus: previous,
		NewStatus:      next,
		Actor:          cmd.OriginService(),
		CourierID:      &courierID,
		VehicleID:      &vehicleID,
	}

	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("status change event not published",
			"order_id", cmd.OrderID().String(), "error", err)
	}
}
