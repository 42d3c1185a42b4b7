package ports

import (
	"context"

	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates
// and their assignment records.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier,
	// including its bound vehicle.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetByVehicle retrieves the courier a vehicle is bound to.
	// Returns errs.ObjectNotFoundError when no courier holds the vehicle.
	GetByVehicle(ctx context.Context, vehicleID kernel.UUID) (*courier.Courier, error)

	// GetAllAvailable retrieves couriers that can take a new order: active,
	// in AVAILABLE status, with an operational vehicle bound.
	GetAllAvailable(ctx context.Context) ([]*courier.Courier, error)

	// AddAssignment records the link between an order and the courier/vehicle
	// pair serving it.
	AddAssignment(ctx context.Context, assignment *courier.Assignment) error

	// GetAssignmentByOrder retrieves the assignment record for an order.
	// Returns errs.ObjectNotFoundError when the order was never assigned.
	GetAssignmentByOrder(ctx context.Context, orderID kernel.UUID) (*courier.Assignment, error)

	// DeleteAssignment removes the assignment record for an order once the
	// courier/vehicle pair is freed. Deleting a missing record is a no-op.
	DeleteAssignment(ctx context.Context, orderID kernel.UUID) error
}
