// Package queries contains read-only operations over the persistence layer.
// Query handlers bypass the aggregates and read projections directly, per the
// CQRS split: no locking, no domain invariants, just rows shaped for callers.
package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves the full read model of one order.
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for a single order by identifier.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order identifier.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the full order read model, including assignment
// and billing references when present.
type GetOrderQueryResponse struct {
	ID             kernel.UUID
	CustomerID     string
	Status         string
	Modality       string
	DeliveryType   string
	Priority       int
	WeightKg       float64
	OriginAddress  string
	OriginCity     string
	DestAddress    string
	DestCity       string
	ContactPhone   string
	RecipientName  string
	CourierID      *kernel.UUID
	VehicleID      *kernel.UUID
	InvoiceID      *string
	CalculatedFare *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
