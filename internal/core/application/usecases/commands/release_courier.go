package commands

import (
	"context"
	"errors"
	"log/slog"

	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// releaseOrderAssignment frees the courier/vehicle pair recorded for an order
// and removes the assignment record. The record is authoritative: it names
// exactly the pair that served the order, so a raced re-assignment never
// frees the wrong courier. Orders assigned without a record (the outcome
// arrived but its transaction lost the ledger race) fall back to the courier
// reference on the order itself.
func releaseOrderAssignment(
	ctx context.Context,
	repo ports.CourierRepository,
	orderID kernel.UUID,
	fallbackCourierID *kernel.UUID,
	logger *slog.Logger,
) {
	assignment, err := repo.GetAssignmentByOrder(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		if fallbackCourierID != nil {
			releaseCourier(ctx, repo, *fallbackCourierID, logger)
		}
		return
	}
	if err != nil {
		logger.Warn("assignment lookup failed during release",
			"order_id", orderID.String(), "error", err)
		return
	}

	releaseCourier(ctx, repo, assignment.CourierID(), logger)

	if err = repo.DeleteAssignment(ctx, orderID); err != nil {
		logger.Warn("assignment record not removed",
			"order_id", orderID.String(), "error", err)
	}
}

// releaseCourier returns a courier to the available pool after its order
// stopped needing it. Couriers unknown to this service (synchronous gateway
// outcomes reference the fleet service's own pool) and couriers not on route
// are left alone.
func releaseCourier(ctx context.Context, repo ports.CourierRepository, courierID kernel.UUID, logger *slog.Logger) {
	aggregate, err := repo.Get(ctx, courierID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return
	}
	if err != nil {
		logger.Warn("courier lookup failed during release",
			"courier_id", courierID.String(), "error", err)
		return
	}

	if aggregate.Status() != courier.StatusOnRoute {
		return
	}

	if err = aggregate.MarkAvailable(); err != nil {
		logger.Warn("courier not released",
			"courier_id", courierID.String(), "error", err)
		return
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		logger.Warn("courier release not persisted",
			"courier_id", courierID.String(), "error", err)
	}
}
