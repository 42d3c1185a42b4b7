package order

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrInvoiceAlreadyAttached is returned when attaching an invoice to an order
	// that already holds one. The invoice reference is set at most once.
	ErrInvoiceAlreadyAttached = errs.NewDuplicateResourceError("invoiceId", "invoice already attached")
)

// Order represents a delivery order. It is the aggregate root that manages
// the order lifecycle from creation through assignment to completion.
//
// Order maintains these invariants:
//   - Must have a valid unique identifier, customer, addresses, and positive weight
//   - Status transitions follow the lifecycle graph in Status
//   - Courier and vehicle references are set only at or after assignment
//   - The invoice reference is set at most once
//   - Terminal states accept no further transitions
//
// The struct uses private fields to ensure encapsulation and maintains its
// invariants through validated methods. Instances must be created via
// NewOrder or RestoreOrder.
type Order struct {
	id            kernel.UUID
	customerID    string
	origin        kernel.Address
	destination   kernel.Address
	modality      Modality
	deliveryType  DeliveryType
	weightKg      float64
	contactPhone  string
	recipientName string

	courierID      *kernel.UUID
	vehicleID      *kernel.UUID
	invoiceID      *string
	calculatedFare *float64

	priority  int
	status    Status
	createdAt time.Time
	updatedAt time.Time

	guard guard.ConstructorGuard
}

// NewOrder creates a new Order in Pending status with validation.
// Priority is derived from the delivery type. The caller supplies the
// identifier so it can be generated before persistence and carried on events.
func NewOrder(
	id kernel.UUID,
	customerID string,
	origin kernel.Address,
	destination kernel.Address,
	modality Modality,
	deliveryType DeliveryType,
	weightKg float64,
	contactPhone string,
	recipientName string,
) (*Order, error) {
	now := time.Now().UTC()
	o := &Order{
		status:    Pending,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setOrigin(origin),
		o.setDestination(destination),
		o.setModality(modality),
		o.setDeliveryType(deliveryType),
		o.setWeight(weightKg),
		o.setContactPhone(contactPhone),
		o.setRecipientName(recipientName),
	); err != nil {
		return nil, err
	}

	o.priority = deliveryType.Priority()
	return o, nil
}

// RestoreOrder reconstructs an Order from persistent storage, preserving its
// lifecycle state, assignment references, and invoice data. The restored order
// behaves identically to one created through normal domain operations.
func RestoreOrder(
	id kernel.UUID,
	customerID string,
	origin kernel.Address,
	destination kernel.Address,
	modality Modality,
	deliveryType DeliveryType,
	weightKg float64,
	contactPhone string,
	recipientName string,
	courierID *kernel.UUID,
	vehicleID *kernel.UUID,
	invoiceID *string,
	calculatedFare *float64,
	priority int,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		createdAt: createdAt,
		updatedAt: updatedAt,
		priority:  priority,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setOrigin(origin),
		o.setDestination(destination),
		o.setModality(modality),
		o.setDeliveryType(deliveryType),
		o.setWeight(weightKg),
		o.setContactPhone(contactPhone),
		o.setRecipientName(recipientName),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	o.status = status
	o.courierID = courierID
	o.vehicleID = vehicleID
	o.invoiceID = invoiceID
	o.calculatedFare = calculatedFare
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// CustomerID returns the identifier of the customer that placed the order.
func (o *Order) CustomerID() string { return o.customerID }

// Origin returns the pickup address.
func (o *Order) Origin() kernel.Address { return o.origin }

// Destination returns the delivery address.
func (o *Order) Destination() kernel.Address { return o.destination }

// Modality returns the delivery class of the order.
func (o *Order) Modality() Modality { return o.modality }

// DeliveryType returns the requested service level.
func (o *Order) DeliveryType() DeliveryType { return o.deliveryType }

// WeightKg returns the package weight in kilograms.
func (o *Order) WeightKg() float64 { return o.weightKg }

// ContactPhone returns the recipient contact phone.
func (o *Order) ContactPhone() string { return o.contactPhone }

// RecipientName returns the recipient name.
func (o *Order) RecipientName() string { return o.recipientName }

// CourierID returns the assigned courier's ID, nil when unassigned.
func (o *Order) CourierID() *kernel.UUID { return o.courierID }

// VehicleID returns the assigned vehicle's ID, nil when unassigned.
func (o *Order) VehicleID() *kernel.UUID { return o.vehicleID }

// InvoiceID returns the billing invoice reference, nil while uninvoiced.
func (o *Order) InvoiceID() *string { return o.invoiceID }

// CalculatedFare returns the fare returned by billing, nil while uninvoiced.
func (o *Order) CalculatedFare() *float64 { return o.calculatedFare }

// Priority returns the dispatch priority of the order.
func (o *Order) Priority() int { return o.priority }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// CreatedAt returns the creation timestamp (UTC).
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns the last mutation timestamp (UTC).
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// EstimatedDistanceKm returns the great-circle distance between origin and
// destination. Used for fare estimation and carried on the creation event.
func (o *Order) EstimatedDistanceKm() float64 {
	return o.origin.Point().DistanceKm(o.destination.Point())
}

// IsAssigned reports whether the order currently holds a courier/vehicle pair.
func (o *Order) IsAssigned() bool {
	return o.courierID != nil && o.vehicleID != nil
}

// AssignFleet pairs the order with a courier and vehicle and transitions the
// status to Assigned. The transition is rejected when the current status does
// not allow it; in particular terminal orders reject a late assignment, which
// the caller must compensate by releasing the courier.
func (o *Order) AssignFleet(courierID, vehicleID kernel.UUID) error {
	if err := errors.Join(courierID.Validate(), vehicleID.Validate()); err != nil {
		return err
	}

	newStatus, err := o.status.TransitionTo(Assigned)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.courierID = &courierID
	o.vehicleID = &vehicleID
	o.touch()
	return nil
}

// AttachInvoice records the billing result on the order. The invoice reference
// is set at most once; a second attachment fails with ErrInvoiceAlreadyAttached.
func (o *Order) AttachInvoice(invoiceID string, fare float64) error {
	if invoiceID == "" {
		return errs.NewValueIsRequiredError("invoiceId")
	}
	if fare < 0 {
		return errs.NewValueIsInvalidErrorWithCause("calculatedFare",
			fmt.Errorf("%f is negative", fare))
	}
	if o.invoiceID != nil {
		return ErrInvoiceAlreadyAttached
	}

	o.invoiceID = &invoiceID
	o.calculatedFare = &fare
	o.touch()
	return nil
}

// ChangeStatus transitions the order along the lifecycle graph.
// Entering Assigned through this method is rejected unless the order already
// holds a courier/vehicle pair; assignment goes through AssignFleet.
func (o *Order) ChangeStatus(next Status) error {
	if next == Assigned && !o.IsAssigned() {
		return errs.NewInvalidStateTransitionErrorWithCause("order", o.status.String(), next.String(),
			errors.New("order has no courier assigned"))
	}

	newStatus, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch()
	return nil
}

// Cancel transitions the order to Cancelled. Terminal orders reject it.
func (o *Order) Cancel() error {
	return o.ChangeStatus(Cancelled)
}

func (o *Order) touch() {
	o.updatedAt = time.Now().UTC()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID string) error {
	if customerID == "" {
		return errs.NewValueIsRequiredError("customerId")
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setOrigin(origin kernel.Address) error {
	if err := origin.Validate(); err != nil {
		return err
	}
	o.origin = origin
	return nil
}

func (o *Order) setDestination(destination kernel.Address) error {
	if err := destination.Validate(); err != nil {
		return err
	}
	o.destination = destination
	return nil
}

func (o *Order) setModality(modality Modality) error {
	if err := modality.Validate(); err != nil {
		return err
	}
	o.modality = modality
	return nil
}

func (o *Order) setDeliveryType(deliveryType DeliveryType) error {
	if err := deliveryType.Validate(); err != nil {
		return err
	}
	o.deliveryType = deliveryType
	return nil
}

func (o *Order) setWeight(weightKg float64) error {
	if weightKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weight",
			fmt.Errorf("%f is not greater than 0", weightKg))
	}
	o.weightKg = weightKg
	return nil
}

func (o *Order) setContactPhone(contactPhone string) error {
	if contactPhone == "" {
		return errs.NewValueIsRequiredError("contactPhone")
	}
	o.contactPhone = contactPhone
	return nil
}

func (o *Order) setRecipientName(recipientName string) error {
	if recipientName == "" {
		return errs.NewValueIsRequiredError("recipientName")
	}
	o.recipientName = recipientName
	return nil
}
