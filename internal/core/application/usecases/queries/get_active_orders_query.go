package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
	"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
)

// GetActiveOrdersQuery retrieves orders still in flight, optionally narrowed
// to one status or one customer. Terminal orders never appear in the result.
type GetActiveOrdersQuery struct { //nolint:recvcheck //using for validation
	statusFilter   string
	customerFilter string

	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery creates a query for in-flight orders. Both filters
// are optional; an empty string disables the corresponding filter. A non-empty
// status filter must name a known lifecycle status.
func NewGetActiveOrdersQuery(statusFilter, customerFilter string) (GetActiveOrdersQuery, error) {
	if statusFilter != "" {
		if _, err := order.StatusFromString(statusFilter); err != nil {
			return GetActiveOrdersQuery{}, err
		}
	}

	return GetActiveOrdersQuery{
		statusFilter:   statusFilter,
		customerFilter: customerFilter,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// StatusFilter returns the status to narrow to, or empty.
func (q GetActiveOrdersQuery) StatusFilter() string {
	return q.statusFilter
}

// CustomerFilter returns the customer to narrow to, or empty.
func (q GetActiveOrdersQuery) CustomerFilter() string {
	return q.customerFilter
}

// GetActiveOrdersQueryResponse is one row of the in-flight order list,
// shaped for dispatch dashboards.
type GetActiveOrdersQueryResponse struct {
	ID           kernel.UUID
	CustomerID   string
	Status       string
	Modality     string
	DeliveryType string
	Priority     int
	DestCity     string
	CourierID    *kernel.UUID
	CreatedAt    time.Time
}
