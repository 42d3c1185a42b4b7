package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var (
	ErrAssignFleetCommandIsNotConstructed = errors.New(
		"AssignFleetCommand must be created via NewAssignFleetCommand constructor",
	)
	ErrReasonIsRequired = errors.New("reason is required")
)

// AssignFleetCommand represents a request to match a pending order with the
// local courier pool. Triggered by order announcements and retry requests on
// the bus.
type AssignFleetCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewAssignFleetCommand creates a command to match an order with a courier.
// The reason records what triggered the attempt.
func NewAssignFleetCommand(orderID kernel.UUID, reason string) (AssignFleetCommand, error) {
	cmd := AssignFleetCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReason(reason),
	); err != nil {
		return AssignFleetCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignFleetCommand) Validate() error {
	return c.guard.Validate(ErrAssignFleetCommandIsNotConstructed)
}

// OrderID returns the order to match.
func (c AssignFleetCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns what triggered the matching attempt.
func (c AssignFleetCommand) Reason() string {
	return c.reason
}

func (c *AssignFleetCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignFleetCommand) setReason(reason string) error {
	if reason == "" {
		return ErrReasonIsRequired
	}

	c.reason = reason
	return nil
}
