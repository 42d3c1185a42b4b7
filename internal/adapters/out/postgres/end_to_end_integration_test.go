package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/events"
	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// memoryPublisher records published events for assertions.
type memoryPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *memoryPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *memoryPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

type stubBilling struct {
	invoice ports.Invoice
}

func (s stubBilling) CreateInvoice(context.Context, ports.InvoiceRequest) (ports.Invoice, error) {
	return s.invoice, nil
}

type stubFleet struct {
	offer ports.AssignmentOffer
}

func (s stubFleet) RequestAssignment(context.Context, ports.AssignmentRequest) (ports.AssignmentOffer, error) {
	return s.offer, nil
}

type funcOrderUoWFactory func() commands.OrderUoW

func (f funcOrderUoWFactory) Create() commands.OrderUoW { return f() }

type funcUoWFactory func() commands.UoW

func (f funcUoWFactory) Create() commands.UoW { return f() }

// TestEndToEndOrderCreation drives the full intake pipeline against real
// persistence: billing attaches the invoice, the synchronous fleet offer is
// applied, the courier goes on route, and the read model reflects all of it.
func (suite *UnitOfWorkIntegrationTestSuite) TestEndToEndOrderCreation() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	vehicle, err := courier.NewVehicle(kernel.NewUUID(), "PCA-4821", courier.CategoryLight, 1000)
	suite.Require().NoError(err)
	chosen, err := courier.NewCourier(kernel.NewUUID(), "Carlos Vera", "URBAN-QUITO", courier.LicenseCar, vehicle)
	suite.Require().NoError(err)

	seedUow := suite.factory.Create()
	suite.Require().NoError(seedUow.Begin(ctx))
	suite.Require().NoError(seedUow.CourierRepository().Add(ctx, chosen))
	suite.Require().NoError(seedUow.Commit(ctx))

	orderFactory := funcOrderUoWFactory(func() commands.OrderUoW { return suite.factory.Create() })
	fullFactory := funcUoWFactory(func() commands.UoW { return suite.factory.Create() })

	publisher := &memoryPublisher{}
	applier := commands.NewApplyAssignmentCommandHandler(fullFactory, publisher, logger)
	handler := commands.NewCreateOrderCommandHandler(
		orderFactory,
		publisher,
		stubBilling{invoice: ports.Invoice{InvoiceID: "inv-1", Fare: 35.00}},
		stubFleet{offer: ports.AssignmentOffer{
			Assigned:    true,
			CourierID:   chosen.ID().String(),
			VehicleID:   vehicle.ID().String(),
			CourierName: "Carlos Vera",
			Plate:       "PCA-4821",
		}},
		applier,
		logger,
	)

	point, err := kernel.NewGeoPoint(-0.18, -78.47)
	suite.Require().NoError(err)
	origin, err := kernel.NewAddress("Av. Amazonas", "N12-34", "Quito", "Pichincha", point)
	suite.Require().NoError(err)
	destination, err := kernel.NewAddress("Av. 9 de Octubre", "N12-34", "Guayaquil", "Guayas", point)
	suite.Require().NoError(err)

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), "cli-1", origin, destination,
		order.ModalityNational, order.DeliveryTypeExpress, 2.5,
		"+593991234567", "Maria Lopez",
	)
	suite.Require().NoError(err)

	accepted, err := handler.Handle(ctx, cmd)
	suite.Require().NoError(err)
	suite.Require().NotNil(accepted)
	suite.Equal(order.Assigned, accepted.Status())

	// Read model agrees with the write side.
	query, err := queries.NewGetOrderQuery(accepted.ID())
	suite.Require().NoError(err)
	snapshot, err := queries.NewGetOrderQueryHandler(suite.db).Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal("cli-1", snapshot.CustomerID)
	suite.Equal(order.Assigned.String(), snapshot.Status)
	suite.Require().NotNil(snapshot.InvoiceID)
	suite.Equal("inv-1", *snapshot.InvoiceID)
	suite.Require().NotNil(snapshot.CalculatedFare)
	suite.InDelta(35.00, *snapshot.CalculatedFare, 0.001)
	suite.Require().NotNil(snapshot.CourierID)
	suite.True(snapshot.CourierID.IsEqual(chosen.ID()))
	suite.Require().NotNil(snapshot.VehicleID)
	suite.True(snapshot.VehicleID.IsEqual(vehicle.ID()))

	// Courier went on route and the assignment row exists.
	checkUow := suite.factory.Create()
	suite.Require().NoError(checkUow.Begin(ctx))
	storedCourier, err := checkUow.CourierRepository().Get(ctx, chosen.ID())
	suite.Require().NoError(err)
	suite.Equal(courier.StatusOnRoute, storedCourier.Status())

	assignment, err := checkUow.CourierRepository().GetAssignmentByOrder(ctx, accepted.ID())
	suite.Require().NoError(err)
	suite.True(assignment.CourierID().IsEqual(chosen.ID()))
	suite.Require().NoError(checkUow.Rollback(ctx))

	// The pipeline announced both the creation and the transition.
	var sawCreated bool
	var sawAssigned bool
	for _, event := range publisher.published() {
		switch e := event.(type) {
		case events.OrderCreated:
			sawCreated = true
			suite.Equal(accepted.ID().String(), e.OrderID)
			suite.Equal(order.Pending.String(), e.Status)
		case events.OrderStatusChanged:
			sawAssigned = true
			suite.Equal(order.Pending.String(), e.PreviousStatus)
			suite.Equal(order.Assigned.String(), e.NewStatus)
		}
	}
	suite.True(sawCreated)
	suite.True(sawAssigned)
}

// TestEndToEndDuplicateAssignmentIsNoOp redelivers the same assignment
// outcome and verifies the second apply changes nothing.
func (suite *UnitOfWorkIntegrationTestSuite) TestEndToEndDuplicateAssignmentIsNoOp() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	vehicle, err := courier.NewVehicle(kernel.NewUUID(), "GBA-1102", courier.CategoryLight, 800)
	suite.Require().NoError(err)
	chosen, err := courier.NewCourier(kernel.NewUUID(), "Lucia Mora", "URBAN-QUITO", courier.LicenseCar, vehicle)
	suite.Require().NoError(err)

	point, err := kernel.NewGeoPoint(-0.18, -78.47)
	suite.Require().NoError(err)
	origin, err := kernel.NewAddress("Av. Amazonas", "N12-34", "Quito", "Pichincha", point)
	suite.Require().NoError(err)
	destination, err := kernel.NewAddress("Av. 6 de Diciembre", "N12-34", "Quito", "Pichincha", point)
	suite.Require().NoError(err)

	aggregate, err := order.NewOrder(
		kernel.NewUUID(), "cli-2", origin, destination,
		order.ModalityUrbanFast, order.DeliveryTypeNormal, 1.0,
		"+593987654321", "Pedro Salas",
	)
	suite.Require().NoError(err)

	seedUow := suite.factory.Create()
	suite.Require().NoError(seedUow.Begin(ctx))
	suite.Require().NoError(seedUow.CourierRepository().Add(ctx, chosen))
	suite.Require().NoError(seedUow.OrderRepository().Add(ctx, aggregate))
	suite.Require().NoError(seedUow.Commit(ctx))

	publisher := &memoryPublisher{}
	fullFactory := funcUoWFactory(func() commands.UoW { return suite.factory.Create() })
	applier := commands.NewApplyAssignmentCommandHandler(fullFactory, publisher, logger)

	cmd, err := commands.NewApplyAssignmentCommandFromStrings(
		events.NewMessageID(),
		aggregate.ID().String(),
		chosen.ID().String(),
		vehicle.ID().String(),
		"fleet-service",
	)
	suite.Require().NoError(err)

	suite.Require().NoError(applier.Handle(ctx, cmd))
	firstEvents := len(publisher.published())

	// Same message again: consumed without effect.
	suite.Require().NoError(applier.Handle(ctx, cmd))
	suite.Equal(firstEvents, len(publisher.published()))

	query, err := queries.NewGetOrderQuery(aggregate.ID())
	suite.Require().NoError(err)
	snapshot, err := queries.NewGetOrderQueryHandler(suite.db).Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(order.Assigned.String(), snapshot.Status)
}
