package services

import (
	"errors"

	"orderflow/internal/core/domain/model/courier"
)

var (
	// ErrNoCouriersAvailable is returned when the fleet holds no active,
	// available couriers at all.
	ErrNoCouriersAvailable = errors.New("no couriers available")

	// ErrNoSuitableVehicle is returned when couriers are available but none
	// of their vehicles can carry the requested weight.
	ErrNoSuitableVehicle = errors.New("no suitable vehicle")
)

// FleetMatcher pairs an order with a courier/vehicle from the available
// fleet. Selection is first-match in the stable order the repository returns
// couriers in; distance or rating based ranking is a future extension.
//
// Example usage:
//
//	matcher := services.NewFleetMatcher()
//	selected, err := matcher.Match(50, couriers)
//	switch {
//	case errors.Is(err, services.ErrNoCouriersAvailable):
//	    // fleet empty, reject assignment
//	case errors.Is(err, services.ErrNoSuitableVehicle):
//	    // nothing can carry the load
//	case err != nil:
//	    // validation failure
//	default:
//	    // selected is ready to go on route
//	}
type FleetMatcher struct{}

// NewFleetMatcher creates a FleetMatcher instance.
func NewFleetMatcher() FleetMatcher {
	return FleetMatcher{}
}

// Match selects the first courier whose vehicle is active, can carry
// weightKg, and is operable under the courier's license class. The candidate
// slice is not mutated; the caller transitions the selected courier.
func (m FleetMatcher) Match(weightKg float64, couriers []*courier.Courier) (*courier.Courier, error) {
	available := make([]*courier.Courier, 0, len(couriers))
	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if c.IsAvailable() {
			available = append(available, c)
		}
	}

	if len(available) == 0 {
		return nil, ErrNoCouriersAvailable
	}

	for _, c := range available {
		vehicle := c.Vehicle()
		if !vehicle.CanCarry(weightKg) {
			continue
		}
		if !c.LicenseClass().CanOperate(vehicle.Category()) {
			continue
		}
		return c, nil
	}

	return nil, ErrNoSuitableVehicle
}
