package courier

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// Capacity bands per vehicle category, in kilograms. These are configuration
// constants, not per-instance data: a motorcycle may carry up to 30kg, a light
// vehicle up to 1000kg, and anything heavier requires a truck.
const (
	MotorcycleMaxLoadKg = 30.0
	LightMaxLoadKg      = 1000.0
	TruckMaxLoadKg      = 25000.0
)

// ErrVehicleIsNotConstructed is returned when using a Vehicle that was not
// created via NewVehicle or RestoreVehicle.
var ErrVehicleIsNotConstructed = errors.New("Vehicle must be created via NewVehicle or RestoreVehicle")

// VehicleCategory is the tag of the vehicle variant. Category-specific
// behavior (capacity bands, license compatibility) dispatches on this tag
// instead of a type hierarchy, keeping one storage shape for all vehicles.
type VehicleCategory string

const (
	CategoryMotorcycle VehicleCategory = "MOTORCYCLE"
	CategoryLight      VehicleCategory = "LIGHT"
	CategoryTruck      VehicleCategory = "TRUCK"
)

// Validate checks that the category is one of the defined variants.
func (c VehicleCategory) Validate() error {
	switch c {
	case CategoryMotorcycle, CategoryLight, CategoryTruck:
		return nil
	}
	return errs.NewValueIsInvalidError("vehicleCategory")
}

// MaxLoadKg returns the upper capacity bound of the category band.
func (c VehicleCategory) MaxLoadKg() float64 {
	switch c {
	case CategoryMotorcycle:
		return MotorcycleMaxLoadKg
	case CategoryLight:
		return LightMaxLoadKg
	default:
		return TruckMaxLoadKg
	}
}

// MinLoadKg returns the lower capacity bound of the category band.
// Trucks start where light vehicles end.
func (c VehicleCategory) MinLoadKg() float64 {
	if c == CategoryTruck {
		return LightMaxLoadKg
	}
	return 0
}

// VehicleStatus is the operational state of a vehicle.
type VehicleStatus string

const (
	VehicleActive       VehicleStatus = "ACTIVE"
	VehicleMaintenance  VehicleStatus = "MAINTENANCE"
	VehicleOutOfService VehicleStatus = "OUT_OF_SERVICE"
)

// Validate checks that the status is one of the defined states.
func (s VehicleStatus) Validate() error {
	switch s {
	case VehicleActive, VehicleMaintenance, VehicleOutOfService:
		return nil
	}
	return errs.NewValueIsInvalidError("vehicleStatus")
}

// Vehicle is a delivery vehicle. It is modelled as a tagged variant: the
// category tag selects the capacity band and the license class required to
// operate it, while all categories share one shape.
type Vehicle struct {
	id             kernel.UUID
	plate          string
	category       VehicleCategory
	loadCapacityKg float64
	status         VehicleStatus

	guard guard.ConstructorGuard
}

// NewVehicle creates an active Vehicle, validating that the load capacity
// falls within the band configured for the category.
func NewVehicle(id kernel.UUID, plate string, category VehicleCategory, loadCapacityKg float64) (*Vehicle, error) {
	return RestoreVehicle(id, plate, category, loadCapacityKg, VehicleActive)
}

// RestoreVehicle reconstructs a Vehicle from persistent storage.
func RestoreVehicle(
	id kernel.UUID,
	plate string,
	category VehicleCategory,
	loadCapacityKg float64,
	status VehicleStatus,
) (*Vehicle, error) {
	v := &Vehicle{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		v.setID(id),
		v.setPlate(plate),
		v.setCategory(category),
		v.setStatus(status),
	); err != nil {
		return nil, err
	}

	if err := v.setLoadCapacity(loadCapacityKg); err != nil {
		return nil, err
	}

	return v, nil
}

// Validate ensures the Vehicle was properly constructed.
func (v *Vehicle) Validate() error {
	if v == nil {
		return ErrVehicleIsNotConstructed
	}
	return v.guard.Validate(ErrVehicleIsNotConstructed)
}

// ID returns the vehicle's unique identifier.
func (v *Vehicle) ID() kernel.UUID { return v.id }

// Plate returns the unique registration plate.
func (v *Vehicle) Plate() string { return v.plate }

// Category returns the variant tag.
func (v *Vehicle) Category() VehicleCategory { return v.category }

// LoadCapacityKg returns the maximum load of this vehicle in kilograms.
func (v *Vehicle) LoadCapacityKg() float64 { return v.loadCapacityKg }

// Status returns the operational state.
func (v *Vehicle) Status() VehicleStatus { return v.status }

// IsAvailable reports whether the vehicle can take deliveries.
func (v *Vehicle) IsAvailable() bool {
	return v.status == VehicleActive
}

// CanCarry reports whether the vehicle capacity covers the given weight.
func (v *Vehicle) CanCarry(weightKg float64) bool {
	return weightKg > 0 && weightKg <= v.loadCapacityKg
}

// ChangeStatus moves the vehicle to a new operational state.
func (v *Vehicle) ChangeStatus(status VehicleStatus) error {
	return v.setStatus(status)
}

func (v *Vehicle) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	v.id = id
	return nil
}

func (v *Vehicle) setPlate(plate string) error {
	if plate == "" {
		return errs.NewValueIsRequiredError("plate")
	}
	v.plate = plate
	return nil
}

func (v *Vehicle) setCategory(category VehicleCategory) error {
	if err := category.Validate(); err != nil {
		return err
	}
	v.category = category
	return nil
}

func (v *Vehicle) setStatus(status VehicleStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	v.status = status
	return nil
}

func (v *Vehicle) setLoadCapacity(loadCapacityKg float64) error {
	minLoad := v.category.MinLoadKg()
	maxLoad := v.category.MaxLoadKg()
	if loadCapacityKg <= minLoad || loadCapacityKg > maxLoad {
		return errs.NewValueIsOutOfRangeErrorWithCause(
			"loadCapacityKg", loadCapacityKg, minLoad, maxLoad,
			fmt.Errorf("capacity band for category %s", v.category),
		)
	}
	v.loadCapacityKg = loadCapacityKg
	return nil
}
