// Package services contains stateless domain services that coordinate
// behavior across aggregates.
//
// The package includes:
//   - Coverage rules: pure predicates over string-encoded zone patterns that
//     decide whether an order can be served and which delivery types are offered
//   - FleetMatcher: pairs an order's weight with the first suitable
//     courier/vehicle from the available fleet
//
// Domain services hold no state and no infrastructure dependencies; they
// operate purely on domain objects passed in by the application layer.
package services
