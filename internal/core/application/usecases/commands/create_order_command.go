package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrCustomerIDIsRequired = errors.New("customer id is required")
	ErrWeightIsInvalid      = errors.New("weight must be greater than 0")
)

// CreateOrderCommand represents a request to register a new delivery order.
// Encapsulates the customer, route, classification, and package details.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	customerID    string
	origin        kernel.Address
	destination   kernel.Address
	modality      order.Modality
	deliveryType  order.DeliveryType
	weightKg      float64
	contactPhone  string
	recipientName string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new delivery order.
// Validates identifiers, addresses, classification values, and weight.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID string,
	origin kernel.Address,
	destination kernel.Address,
	modality order.Modality,
	deliveryType order.DeliveryType,
	weightKg float64,
	contactPhone string,
	recipientName string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setRoute(origin, destination),
		cmd.setClassification(modality, deliveryType),
		cmd.setWeight(weightKg),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.contactPhone = contactPhone
	cmd.recipientName = recipientName
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the identifier of the ordering customer.
func (c CreateOrderCommand) CustomerID() string {
	return c.customerID
}

// Origin returns the pickup address.
func (c CreateOrderCommand) Origin() kernel.Address {
	return c.origin
}

// Destination returns the delivery address.
func (c CreateOrderCommand) Destination() kernel.Address {
	return c.destination
}

// Modality returns the geographic delivery modality.
func (c CreateOrderCommand) Modality() order.Modality {
	return c.modality
}

// DeliveryType returns the commercial delivery type.
func (c CreateOrderCommand) DeliveryType() order.DeliveryType {
	return c.deliveryType
}

// WeightKg returns the package weight in kilograms.
func (c CreateOrderCommand) WeightKg() float64 {
	return c.weightKg
}

// ContactPhone returns the recipient's contact phone.
func (c CreateOrderCommand) ContactPhone() string {
	return c.contactPhone
}

// RecipientName returns the recipient's name.
func (c CreateOrderCommand) RecipientName() string {
	return c.recipientName
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID string) error {
	if customerID == "" {
		return ErrCustomerIDIsRequired
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setRoute(origin, destination kernel.Address) error {
	if err := errors.Join(origin.Validate(), destination.Validate()); err != nil {
		return err
	}

	c.origin = origin
	c.destination = destination
	return nil
}

func (c *CreateOrderCommand) setClassification(modality order.Modality, deliveryType order.DeliveryType) error {
	if err := errors.Join(modality.Validate(), deliveryType.Validate()); err != nil {
		return err
	}

	c.modality = modality
	c.deliveryType = deliveryType
	return nil
}

func (c *CreateOrderCommand) setWeight(weightKg float64) error {
	if weightKg <= 0 {
		return ErrWeightIsInvalid
	}

	c.weightKg = weightKg
	return nil
}
