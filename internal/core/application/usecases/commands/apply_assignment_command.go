package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

// Origin services an assignment outcome can arrive from.
const (
	originSyncGateway  = "sync-gateway"
	originFleetService = "fleet-service"
)

var (
	ErrApplyAssignmentCommandIsNotConstructed = errors.New(
		"ApplyAssignmentCommand must be created via NewApplyAssignmentCommand constructor",
	)
	ErrMessageIDIsRequired     = errors.New("message id is required")
	ErrOriginServiceIsRequired = errors.New("origin service is required")
)

// ApplyAssignmentCommand represents an assignment outcome to apply to an
// order. Both the synchronous gateway path and the asynchronous bus path
// produce this command, so deduplication and state guarding live in exactly
// one place.
type ApplyAssignmentCommand struct { //nolint:recvcheck //using for validation
	messageID     string
	orderID       kernel.UUID
	courierID     kernel.UUID
	vehicleID     kernel.UUID
	originService string

	guard guard.ConstructorGuard
}

// NewApplyAssignmentCommand creates a command carrying an assignment outcome.
// The message identifier is the producer-generated one; it must survive
// redeliveries unchanged for deduplication to work.
func NewApplyAssignmentCommand(
	messageID string,
	orderID kernel.UUID,
	courierID kernel.UUID,
	vehicleID kernel.UUID,
	originService string,
) (ApplyAssignmentCommand, error) {
	cmd := ApplyAssignmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setMessageID(messageID),
		cmd.setIDs(orderID, courierID, vehicleID),
		cmd.setOriginService(originService),
	); err != nil {
		return ApplyAssignmentCommand{}, err
	}

	return cmd, nil
}

// NewApplyAssignmentCommandFromStrings parses wire-format identifiers and
// builds the command. Used at adapter boundaries.
func NewApplyAssignmentCommandFromStrings(
	messageID string,
	orderID string,
	courierID string,
	vehicleID string,
	originService string,
) (ApplyAssignmentCommand, error) {
	oid, err := kernel.UUIDFromString(orderID)
	if err != nil {
		return ApplyAssignmentCommand{}, err
	}
	cid, err := kernel.UUIDFromString(courierID)
	if err != nil {
		return ApplyAssignmentCommand{}, err
	}
	vid, err := kernel.UUIDFromString(vehicleID)
	if err != nil {
		return ApplyAssignmentCommand{}, err
	}

	return NewApplyAssignmentCommand(messageID, oid, cid, vid, originService)
}

// Validate ensures the command was created through the constructor.
func (c ApplyAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrApplyAssignmentCommandIsNotConstructed)
}

// MessageID returns the producer-generated message identifier.
func (c ApplyAssignmentCommand) MessageID() string {
	return c.messageID
}

// OrderID returns the order the assignment belongs to.
func (c ApplyAssignmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CourierID returns the selected courier.
func (c ApplyAssignmentCommand) CourierID() kernel.UUID {
	return c.courierID
}

// VehicleID returns the selected vehicle.
func (c ApplyAssignmentCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

// OriginService names the path the outcome arrived from.
func (c ApplyAssignmentCommand) OriginService() string {
	return c.originService
}

func (c *ApplyAssignmentCommand) setMessageID(messageID string) error {
	if messageID == "" {
		return ErrMessageIDIsRequired
	}

	c.messageID = messageID
	return nil
}

func (c *ApplyAssignmentCommand) setIDs(orderID, courierID, vehicleID kernel.UUID) error {
	if err := errors.Join(
		orderID.Validate(),
		courierID.Validate(),
		vehicleID.Validate(),
	); err != nil {
		return err
	}

	c.orderID = orderID
	c.courierID = courierID
	c.vehicleID = vehicleID
	return nil
}

func (c *ApplyAssignmentCommand) setOriginService(originService string) error {
	if originService == "" {
		return ErrOriginServiceIsRequired
	}

	c.originService = originService
	return nil
}
