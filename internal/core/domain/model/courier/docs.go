// Package courier provides domain entities for the fleet side of the system:
// couriers, their vehicles, and the assignment link that pairs them with orders.
//
// The package includes:
//   - Courier: aggregate root managing availability, license class, and vehicle binding
//   - Vehicle: a tagged variant (motorcycle, light, truck) with capacity bands
//   - Assignment: the explicit order-to-courier/vehicle link persisted at assign time
//
// Key business rules:
//   - A courier is available only when active, in AVAILABLE status, and bound to
//     a vehicle that is itself ACTIVE
//   - A courier's license class must be compatible with the vehicle category
//   - Vehicle load capacity must fall within the band configured for its category
//   - Releasing an order frees exactly the courier recorded in its Assignment
package courier
