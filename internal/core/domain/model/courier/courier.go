package courier

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
var ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier")

// CourierStatus is the availability state of a courier.
type CourierStatus string

const (
	StatusAvailable   CourierStatus = "AVAILABLE"
	StatusOnRoute     CourierStatus = "ON_ROUTE"
	StatusMaintenance CourierStatus = "MAINTENANCE"
)

// Validate checks that the status is one of the defined states.
func (s CourierStatus) Validate() error {
	switch s {
	case StatusAvailable, StatusOnRoute, StatusMaintenance:
		return nil
	}
	return errs.NewValueIsInvalidError("courierStatus")
}

// LicenseClass is the driving credential held by a courier.
type LicenseClass string

const (
	LicenseMotorcycle   LicenseClass = "MOTORCYCLE"
	LicenseCar          LicenseClass = "CAR"
	LicenseHeavy        LicenseClass = "HEAVY"
	LicenseProfessional LicenseClass = "PROFESSIONAL"
)

// Validate checks that the license class is one of the defined credentials.
func (l LicenseClass) Validate() error {
	switch l {
	case LicenseMotorcycle, LicenseCar, LicenseHeavy, LicenseProfessional:
		return nil
	}
	return errs.NewValueIsInvalidError("licenseClass")
}

// CanOperate reports whether the license class covers a vehicle category:
// motorcycle licenses for motorcycles, car or heavy for light vehicles,
// heavy or professional for trucks.
func (l LicenseClass) CanOperate(category VehicleCategory) bool {
	switch category {
	case CategoryMotorcycle:
		return l == LicenseMotorcycle
	case CategoryLight:
		return l == LicenseCar || l == LicenseHeavy
	case CategoryTruck:
		return l == LicenseHeavy || l == LicenseProfessional
	}
	return false
}

// Location is a courier position report: coordinates plus the time they
// were observed.
type Location struct {
	Point      kernel.GeoPoint
	ReportedAt time.Time
}

// Courier represents a delivery agent. It is an aggregate root managing the
// courier's availability, license class, zone, and the vehicle bound to them.
//
// Business rules:
//   - A courier is available only when active, AVAILABLE, and bound to a
//     vehicle that is itself available
//   - Only AVAILABLE couriers can go ON_ROUTE, and only ON_ROUTE couriers
//     can be released back to AVAILABLE
//   - License class must be compatible with the bound vehicle's category
type Courier struct {
	id           kernel.UUID
	name         string
	status       CourierStatus
	zone         string
	licenseClass LicenseClass
	vehicle      *Vehicle
	lastLocation *Location
	active       bool

	guard guard.ConstructorGuard
}

// NewCourier creates an active courier in AVAILABLE status, optionally bound
// to a vehicle. The vehicle, when provided, must be operable under the
// courier's license class.
func NewCourier(id kernel.UUID, name, zone string, licenseClass LicenseClass, vehicle *Vehicle) (*Courier, error) {
	return RestoreCourier(id, name, StatusAvailable, zone, licenseClass, vehicle, nil, true)
}

// RestoreCourier reconstructs a Courier aggregate from persistent storage,
// preserving status, vehicle binding, and the last reported location.
func RestoreCourier(
	id kernel.UUID,
	name string,
	status CourierStatus,
	zone string,
	licenseClass LicenseClass,
	vehicle *Vehicle,
	lastLocation *Location,
	active bool,
) (*Courier, error) {
	c := &Courier{
		active:       active,
		lastLocation: lastLocation,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setStatus(status),
		c.setZone(zone),
		c.setLicenseClass(licenseClass),
	); err != nil {
		return nil, err
	}

	if vehicle != nil {
		if err := c.BindVehicle(vehicle); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Validate ensures the Courier was properly constructed.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// IsEqual compares two couriers by their unique identifiers.
func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID { return c.id }

// Name returns the courier's display name.
func (c *Courier) Name() string { return c.name }

// Status returns the availability state.
func (c *Courier) Status() CourierStatus { return c.status }

// Zone returns the coverage zone the courier works in.
func (c *Courier) Zone() string { return c.zone }

// LicenseClass returns the courier's driving credential.
func (c *Courier) LicenseClass() LicenseClass { return c.licenseClass }

// Vehicle returns the bound vehicle, nil when unbound.
func (c *Courier) Vehicle() *Vehicle { return c.vehicle }

// LastLocation returns the most recent position report, nil when never reported.
func (c *Courier) LastLocation() *Location { return c.lastLocation }

// IsActive reports whether the courier is enabled in the fleet.
func (c *Courier) IsActive() bool { return c.active }

// IsAvailable reports whether the courier can take an assignment right now:
// active, AVAILABLE, bound to a vehicle, and that vehicle available.
func (c *Courier) IsAvailable() bool {
	return c.active &&
		c.status == StatusAvailable &&
		c.vehicle != nil &&
		c.vehicle.IsAvailable()
}

// BindVehicle attaches a vehicle to the courier. The courier's license class
// must cover the vehicle category; a mismatch fails closed.
func (c *Courier) BindVehicle(vehicle *Vehicle) error {
	if err := vehicle.Validate(); err != nil {
		return err
	}
	if !c.licenseClass.CanOperate(vehicle.Category()) {
		return errs.NewValueIsInvalidErrorWithCause("vehicle",
			errors.New("license class "+string(c.licenseClass)+" cannot operate category "+string(vehicle.Category())))
	}
	c.vehicle = vehicle
	return nil
}

// MarkOnRoute transitions the courier from AVAILABLE to ON_ROUTE.
func (c *Courier) MarkOnRoute() error {
	if c.status != StatusAvailable {
		return errs.NewInvalidStateTransitionError("courier", string(c.status), string(StatusOnRoute))
	}
	c.status = StatusOnRoute
	return nil
}

// MarkAvailable releases the courier back to AVAILABLE after a route.
func (c *Courier) MarkAvailable() error {
	if c.status != StatusOnRoute {
		return errs.NewInvalidStateTransitionError("courier", string(c.status), string(StatusAvailable))
	}
	c.status = StatusAvailable
	return nil
}

// ReportLocation records a position update for the courier.
func (c *Courier) ReportLocation(point kernel.GeoPoint, reportedAt time.Time) error {
	if err := point.Validate(); err != nil {
		return err
	}
	c.lastLocation = &Location{Point: point, ReportedAt: reportedAt}
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *Courier) setStatus(status CourierStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.status = status
	return nil
}

func (c *Courier) setZone(zone string) error {
	if zone == "" {
		return errs.NewValueIsRequiredError("zone")
	}
	c.zone = zone
	return nil
}

func (c *Courier) setLicenseClass(licenseClass LicenseClass) error {
	if err := licenseClass.Validate(); err != nil {
		return err
	}
	c.licenseClass = licenseClass
	return nil
}
