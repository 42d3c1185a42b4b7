package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrChangeVehicleStatusCommandIsNotConstructed = errors.New(
	"ChangeVehicleStatusCommand must be created via NewChangeVehicleStatusCommand constructor",
)

// ChangeVehicleStatusCommand moves a vehicle between operational states.
// Fed by the fleet telemetry stream when a vehicle enters or leaves
// maintenance.
type ChangeVehicleStatusCommand struct { //nolint:recvcheck //using for validation
	vehicleID  kernel.UUID
	nextStatus courier.VehicleStatus

	guard guard.ConstructorGuard
}

// NewChangeVehicleStatusCommand creates a command to change a vehicle's
// operational status.
func NewChangeVehicleStatusCommand(
	vehicleID kernel.UUID,
	nextStatus courier.VehicleStatus,
) (ChangeVehicleStatusCommand, error) {
	cmd := ChangeVehicleStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setVehicleID(vehicleID),
		cmd.setNextStatus(nextStatus),
	); err != nil {
		return ChangeVehicleStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeVehicleStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeVehicleStatusCommandIsNotConstructed)
}

// VehicleID returns the vehicle to update.
func (c ChangeVehicleStatusCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

// NextStatus returns the target operational status.
func (c ChangeVehicleStatusCommand) NextStatus() courier.VehicleStatus {
	return c.nextStatus
}

func (c *ChangeVehicleStatusCommand) setVehicleID(vehicleID kernel.UUID) error {
	if err := vehicleID.Validate(); err != nil {
		return err
	}

	c.vehicleID = vehicleID
	return nil
}

func (c *ChangeVehicleStatusCommand) setNextStatus(nextStatus courier.VehicleStatus) error {
	if err := nextStatus.Validate(); err != nil {
		return err
	}

	c.nextStatus = nextStatus
	return nil
}
