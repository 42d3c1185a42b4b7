package order

import (
	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct business workflow.
//
// State transitions:
//
//	PENDING ──> ASSIGNED ──> {IN_PREPARATION, IN_TRANSIT} ──> IN_DISTRIBUTION ──> DELIVERED
//
// Any non-terminal state may additionally move to CANCELLED, DELIVERED, or
// FAILED. A FAILED order may be RETURNED to the sender. DELIVERED, CANCELLED,
// and RETURNED are terminal: any further transition attempt is rejected with
// an InvalidStateTransitionError and leaves the state unchanged.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status: the order is persisted and waiting
	// for a courier/vehicle assignment.
	Pending

	// Assigned indicates a courier and vehicle have been paired with the order.
	Assigned

	// InPreparation indicates the package is being prepared at origin.
	InPreparation

	// InTransit indicates the package is moving between cities or hubs.
	InTransit

	// InDistribution indicates the package is on the last-mile route.
	InDistribution

	// Delivered is a terminal status: the package reached the recipient.
	Delivered

	// Cancelled is a terminal status: the order was cancelled before delivery.
	Cancelled

	// Returned is a terminal status: a failed order went back to the sender.
	Returned

	// Failed indicates a delivery attempt failed; the order may still be
	// retried, cancelled, or returned.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		Pending:        "PENDING",
		Assigned:       "ASSIGNED",
		InPreparation:  "IN_PREPARATION",
		InTransit:      "IN_TRANSIT",
		InDistribution: "IN_DISTRIBUTION",
		Delivered:      "DELIVERED",
		Cancelled:      "CANCELLED",
		Returned:       "RETURNED",
		Failed:         "FAILED",
	}
}

// allowedTransitions is the lifecycle graph. A status missing from the map
// (or mapped to an empty set) accepts no outgoing transitions.
func allowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:        {Assigned, Cancelled, Delivered, Failed},
		Assigned:       {InPreparation, InTransit, Cancelled, Delivered, Failed},
		InPreparation:  {InTransit, InDistribution, Cancelled, Delivered, Failed},
		InTransit:      {InDistribution, Cancelled, Delivered, Failed},
		InDistribution: {Delivered, Cancelled, Failed},
		Failed:         {Returned, Cancelled, Delivered},
	}
}

// StatusFromString parses the wire representation ("PENDING", "ASSIGNED", ...)
// into a Status. Returns an error for unrecognized values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", errs.NewValueIsInvalidError(s))
}

// Validate checks if the Status value is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidError("status")
	}
	return nil
}

// String returns the wire representation of the status.
// Implements fmt.Stringer and is safe on any value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status accepts no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Returned
}

// CanTransitionTo reports whether moving from s to next is allowed by the
// lifecycle graph without performing the transition.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo validates and performs a transition along the lifecycle graph.
//
// Returns:
//   - (next, nil) when the transition is allowed
//   - (Unknown, *errs.InvalidStateTransitionError) otherwise; terminal states
//     reject every transition
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(next) {
		return Unknown, errs.NewInvalidStateTransitionError("order", s.String(), next.String())
	}
	return next, nil
}
