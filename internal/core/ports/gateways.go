package ports

import (
	"context"
)

// InvoiceRequest carries the order attributes the billing service needs to
// price a delivery.
type InvoiceRequest struct {
	OrderID      string
	CustomerID   string
	DeliveryType string
	Modality     string
	WeightKg     float64
	DistanceKm   float64
}

// Invoice is the billing service's answer: a fare and the document backing it.
type Invoice struct {
	InvoiceID string
	Fare      float64
}

// BillingGateway fronts the external billing service. Failures surface as
// errs.UpstreamUnavailableError; callers degrade gracefully.
type BillingGateway interface {
	CreateInvoice(ctx context.Context, request InvoiceRequest) (Invoice, error)
}

// AssignmentRequest asks the fleet service for a courier/vehicle pair able to
// serve an order.
type AssignmentRequest struct {
	OrderID      string
	Modality     string
	DeliveryType string
	WeightKg     float64
	OriginCity   string
	DestCity     string
	Priority     int
}

// AssignmentOffer is the fleet service's answer. Assigned is false when the
// service responded but had no capacity; the async path takes over in that
// case.
type AssignmentOffer struct {
	Assigned    bool
	CourierID   string
	VehicleID   string
	CourierName string
	Plate       string
}

// FleetGateway fronts the external fleet service for the synchronous
// assignment attempt. Failures surface as errs.UpstreamUnavailableError.
type FleetGateway interface {
	RequestAssignment(ctx context.Context, request AssignmentRequest) (AssignmentOffer, error)
}
