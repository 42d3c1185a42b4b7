package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var (
	ErrRetryAssignmentCommandIsNotConstructed = errors.New(
		"RetryAssignmentCommand must be created via NewRetryAssignmentCommand constructor",
	)
	ErrRequesterIsRequired = errors.New("requester is required")
)

// RetryAssignmentCommand represents a request to re-run assignment for an
// order still waiting on a courier.
type RetryAssignmentCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	requester string
	reason    string

	guard guard.ConstructorGuard
}

// NewRetryAssignmentCommand creates a command requesting a new assignment
// attempt. Reason is free text for the audit trail and may be empty.
func NewRetryAssignmentCommand(orderID kernel.UUID, requester, reason string) (RetryAssignmentCommand, error) {
	cmd := RetryAssignmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRequester(requester),
	); err != nil {
		return RetryAssignmentCommand{}, err
	}

	cmd.reason = reason
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RetryAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrRetryAssignmentCommandIsNotConstructed)
}

// OrderID returns the order to retry assignment for.
func (c RetryAssignmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Requester returns who asked for the retry.
func (c RetryAssignmentCommand) Requester() string {
	return c.requester
}

// Reason returns the free-text motivation, if any.
func (c RetryAssignmentCommand) Reason() string {
	return c.reason
}

func (c *RetryAssignmentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RetryAssignmentCommand) setRequester(requester string) error {
	if requester == "" {
		return ErrRequesterIsRequired
	}

	c.requester = requester
	return nil
}
