package commands

import (
	"context"
	"log/slog"
)

// ChangeVehicleStatusCommandHandler applies vehicle state transitions coming
// from the fleet telemetry stream. Setting a status is idempotent, so
// redelivered messages need no ledger entry.
type ChangeVehicleStatusCommandHandler struct {
	uowFactory CourierUoWFactory
	logger     *slog.Logger
}

// NewChangeVehicleStatusCommandHandler creates a handler for vehicle status
// updates.
func NewChangeVehicleStatusCommandHandler(
	uowFactory CourierUoWFactory,
	logger *slog.Logger,
) ChangeVehicleStatusCommandHandler {
	return ChangeVehicleStatusCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "change_vehicle_status"),
	}
}

// Handle moves the vehicle to the requested status. Resolves the vehicle
// through the courier holding it, so the change persists on the aggregate.
func (h ChangeVehicleStatusCommandHandler) Handle(ctx context.Context, cmd ChangeVehicleStatusCommand) error {
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

	repo := uow.CourierRepository()
	aggregate, err := repo.GetByVehicle(ctx, cmd.VehicleID())
	if err != nil {
		return err
	}

	vehicle := aggregate.Vehicle()
	if vehicle.Status() == cmd.NextStatus() {
		return nil
	}

	previous := vehicle.Status()
	if err = vehicle.ChangeStatus(cmd.NextStatus()); err != nil {
		return err
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.Info("vehicle status changed",
		"vehicle_id", cmd.VehicleID().String(),
		"previous", string(previous),
		"next", string(cmd.NextStatus()))
	return nil
}
