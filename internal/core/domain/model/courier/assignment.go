package courier

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

// ErrAssignmentIsNotConstructed is returned when using an Assignment that was
// not created via NewAssignment or RestoreAssignment.
var ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment or RestoreAssignment")

// Assignment is the explicit link between an order and the courier/vehicle
// pair serving it, persisted at assign time. Releasing an order frees exactly
// the courier recorded here, never an arbitrary busy one.
type Assignment struct {
	orderID   kernel.UUID
	courierID kernel.UUID
	vehicleID kernel.UUID
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewAssignment creates the link for a freshly assigned order.
func NewAssignment(orderID, courierID, vehicleID kernel.UUID) (*Assignment, error) {
	return RestoreAssignment(orderID, courierID, vehicleID, time.Now().UTC())
}

// RestoreAssignment reconstructs an Assignment from persistent storage.
func RestoreAssignment(orderID, courierID, vehicleID kernel.UUID, createdAt time.Time) (*Assignment, error) {
	if err := errors.Join(
		orderID.Validate(),
		courierID.Validate(),
		vehicleID.Validate(),
	); err != nil {
		return nil, err
	}

	return &Assignment{
		orderID:   orderID,
		courierID: courierID,
		vehicleID: vehicleID,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Assignment was properly constructed.
func (a *Assignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

// OrderID returns the linked order identifier.
func (a *Assignment) OrderID() kernel.UUID { return a.orderID }

// CourierID returns the courier serving the order.
func (a *Assignment) CourierID() kernel.UUID { return a.courierID }

// VehicleID returns the vehicle serving the order.
func (a *Assignment) VehicleID() kernel.UUID { return a.vehicleID }

// CreatedAt returns when the pairing was made.
func (a *Assignment) CreatedAt() time.Time { return a.createdAt }
