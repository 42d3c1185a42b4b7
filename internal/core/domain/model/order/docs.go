// Package order provides domain entities and business logic for delivery orders.
// It implements the Order aggregate root with lifecycle management and state
// transitions.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, properties, and lifecycle
//   - Status: A state machine that enforces valid order status transitions
//   - Modality and DeliveryType: classification value objects driving coverage rules
//
// Key business rules:
//   - Orders must have a valid unique identifier, customer, addresses, and positive weight
//   - Status moves only along the lifecycle graph; DELIVERED, CANCELLED, and RETURNED
//     are terminal and accept no further transitions
//   - Courier and vehicle references are set only at or after assignment
//   - The invoice reference is set at most once
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
