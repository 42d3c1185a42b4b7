package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/events"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
)

var (
	ErrCoverageNotSupported     = errors.New("destination is outside the coverage zones")
	ErrDeliveryTypeNotAvailable = errors.New("delivery type is not available for the destination")
)

// AssignmentApplier funnels every assignment outcome, synchronous or
// asynchronous, through the same idempotent apply operation.
type AssignmentApplier interface {
	Handle(ctx context.Context, cmd ApplyAssignmentCommand) error
}

// CreateOrderCommandHandler handles the business logic for order intake.
// Validates coverage, persists the order in PENDING, announces it on the bus,
// then attempts billing and synchronous assignment as best-effort steps: the
// order is accepted even when the external services are down.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	billing    ports.BillingGateway
	fleet      ports.FleetGateway
	applier    AssignmentApplier
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order intake operations.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	billing ports.BillingGateway,
	fleet ports.FleetGateway,
	applier AssignmentApplier,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		billing:    billing,
		fleet:      fleet,
		applier:    applier,
		logger:     logger.With("component", "create_order"),
	}
}

// Handle processes the order intake command and returns the accepted order.
// The returned snapshot reflects whatever the best-effort steps achieved:
// PENDING without a fare when billing was down, ASSIGNED when the synchronous
// fleet request succeeded.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	pattern := services.CoveragePattern(cmd.Modality(), cmd.Destination())
	if !services.IsValidCoverage(pattern) {
		return nil, ErrCoverageNotSupported
	}
	if !services.IsDeliveryTypeAvailable(cmd.DeliveryType(), pattern) {
		return nil, ErrDeliveryTypeNotAvailable
	}

	aggregate, err := order.NewOrder(
		cmd.OrderID(),
		cmd.CustomerID(),
		cmd.Origin(),
		cmd.Destination(),
		cmd.Modality(),
		cmd.DeliveryType(),
		cmd.WeightKg(),
		cmd.ContactPhone(),
		cmd.RecipientName(),
	)
	if err != nil {
		return nil, err
	}

	if err = h.persistNew(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = h.publisher.Publish(ctx, newOrderCreatedEvent(aggregate)); err != nil {
		h.logger.Warn("order created event not published",
			"order_id", aggregate.ID().String(), "error", err)
	}

	h.attachInvoice(ctx, aggregate)
	h.requestSyncAssignment(ctx, aggregate)

	return aggregate, nil
}

func (h CreateOrderCommandHandler) persistNew(ctx context.Context, aggregate *order.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// attachInvoice asks billing for a fare and stores it on the order. A billing
// outage leaves the order without a fare; it stays serviceable.
func (h CreateOrderCommandHandler) attachInvoice(ctx context.Context, aggregate *order.Order) {
	invoice, err := h.billing.CreateInvoice(ctx, ports.InvoiceRequest{
		OrderID:      aggregate.ID().String(),
		CustomerID:   aggregate.CustomerID(),
		DeliveryType: aggregate.DeliveryType().String(),
		Modality:     aggregate.Modality().String(),
		WeightKg:     aggregate.WeightKg(),
		DistanceKm:   aggregate.EstimatedDistanceKm(),
	})
	if err != nil {
		h.logger.Warn("billing unavailable, order accepted without fare",
			"order_id", aggregate.ID().String(), "error", err)
		return
	}

	if err = aggregate.AttachInvoice(invoice.InvoiceID, invoice.Fare); err != nil {
		h.logger.Warn("invoice not attached",
			"order_id", aggregate.ID().String(), "error", err)
		return
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		h.logger.Warn("invoice persistence failed",
			"order_id", aggregate.ID().String(), "error", err)
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		h.logger.Warn("invoice persistence failed",
			"order_id", aggregate.ID().String(), "error", err)
		return
	}

	if err = uow.Commit(ctx); err != nil {
		h.logger.Warn("invoice persistence failed",
			"order_id", aggregate.ID().String(), "error", err)
	}
}

// requestSyncAssignment tries the synchronous fleet path. Any outcome short of
// an accepted offer leaves the order in PENDING for the asynchronous path.
func (h CreateOrderCommandHandler) requestSyncAssignment(ctx context.Context, aggregate *order.Order) {
	offer, err := h.fleet.RequestAssignment(ctx, ports.AssignmentRequest{
		OrderID:      aggregate.ID().String(),
		Modality:     aggregate.Modality().String(),
		DeliveryType: aggregate.DeliveryType().String(),
		WeightKg:     aggregate.WeightKg(),
		OriginCity:   aggregate.Origin().City(),
		DestCity:     aggregate.Destination().City(),
		Priority:     aggregate.Priority(),
	})
	if err != nil {
		h.logger.Warn("fleet unavailable, order stays pending",
			"order_id", aggregate.ID().String(), "error", err)
		return
	}
	if !offer.Assigned {
		h.logger.Info("no fleet capacity, order stays pending",
			"order_id", aggregate.ID().String())
		return
	}

	applyCmd, err := NewApplyAssignmentCommandFromStrings(
		events.NewMessageID(),
		aggregate.ID().String(),
		offer.CourierID,
		offer.VehicleID,
		originSyncGateway,
	)
	if err != nil {
		h.logger.Warn("fleet offer rejected",
			"order_id", aggregate.ID().String(), "error", err)
		return
	}

	if err = h.applier.Handle(ctx, applyCmd); err != nil {
		h.logger.Warn("fleet offer not applied, order stays pending",
			"order_id", aggregate.ID().String(), "error", err)
		return
	}

	// Reflect the assignment on the snapshot handed back to the caller.
	courierID := applyCmd.CourierID()
	vehicleID := applyCmd.VehicleID()
	if err = aggregate.AssignFleet(courierID, vehicleID); err != nil {
		h.logger.Warn("assignment applied but snapshot is stale",
			"order_id", aggregate.ID().String(), "error", err)
	}
}

func newOrderCreatedEvent(aggregate *order.Order) events.OrderCreated {
	return events.OrderCreated{
		MessageID:           events.NewMessageID(),
		Timestamp:           time.Now().UTC(),
		OrderID:             aggregate.ID().String(),
		CustomerID:          aggregate.CustomerID(),
		Status:              aggregate.Status().String(),
		DeliveryType:        aggregate.DeliveryType().String(),
		Modality:            aggregate.Modality().String(),
		Priority:            aggregate.Priority(),
		WeightKg:            aggregate.WeightKg(),
		OriginAddress:       aggregate.Origin().String(),
		DestAddress:         aggregate.Destination().String(),
		OriginCity:          aggregate.Origin().City(),
		DestCity:            aggregate.Destination().City(),
		EstimatedDistanceKm: aggregate.EstimatedDistanceKm(),
		CalculatedFare:      aggregate.CalculatedFare(),
	}
}
