package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/events"
	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInPendingStatus(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetByVehicle(ctx context.Context, vehicleID kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) AddAssignment(ctx context.Context, a *courier.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockCourierRepository) DeleteAssignment(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockCourierRepository) GetAssignmentByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) (*courier.Assignment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Assignment), args.Error(1)
}

type MockMessageLedger struct{ mock.Mock }

func (m *MockMessageLedger) IsProcessed(ctx context.Context, messageID string) (bool, error) {
	args := m.Called(ctx, messageID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMessageLedger) MarkProcessed(ctx context.Context, messageID, eventType string) error {
	args := m.Called(ctx, messageID, eventType)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

func (m *MockUoW) MessageLedger() ports.MessageLedger {
	args := m.Called()
	return args.Get(0).(ports.MessageLedger)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCourierUoWFactory struct{ mock.Mock }

func (m *MockCourierUoWFactory) Create() commands.CourierUoW {
	args := m.Called()
	return args.Get(0).(commands.CourierUoW)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockBillingGateway struct{ mock.Mock }

func (m *MockBillingGateway) CreateInvoice(
	ctx context.Context,
	request ports.InvoiceRequest,
) (ports.Invoice, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(ports.Invoice), args.Error(1)
}

type MockFleetGateway struct{ mock.Mock }

func (m *MockFleetGateway) RequestAssignment(
	ctx context.Context,
	request ports.AssignmentRequest,
) (ports.AssignmentOffer, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(ports.AssignmentOffer), args.Error(1)
}

type MockAssignmentApplier struct{ mock.Mock }

func (m *MockAssignmentApplier) Handle(ctx context.Context, cmd commands.ApplyAssignmentCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func mustAddress(t *testing.T, street, city, province string) kernel.Address {
	t.Helper()
	point, err := kernel.NewGeoPoint(-0.18, -78.47)
	require.NoError(t, err)
	address, err := kernel.NewAddress(street, "N12-34", city, province, point)
	require.NoError(t, err)
	return address
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	aggregate, err := order.NewOrder(
		kernel.NewUUID(),
		"cli-1",
		mustAddress(t, "Av. Amazonas", "Quito", "Pichincha"),
		mustAddress(t, "Av. 9 de Octubre", "Guayaquil", "Guayas"),
		order.ModalityNational,
		order.DeliveryTypeExpress,
		2.5,
		"+593990000000",
		"Ana Lopez",
	)
	require.NoError(t, err)
	return aggregate
}

func newAvailableCourier(t *testing.T, capacityKg float64) *courier.Courier {
	t.Helper()
	category := courier.CategoryLight
	license := courier.LicenseCar
	if capacityKg > courier.LightMaxLoadKg {
		category = courier.CategoryTruck
		license = courier.LicenseHeavy
	}
	vehicle, err := courier.NewVehicle(kernel.NewUUID(), "PBX-1234", category, capacityKg)
	require.NoError(t, err)
	aggregate, err := courier.NewCourier(kernel.NewUUID(), "Juan Perez", "URBAN-QUITO", license, vehicle)
	require.NoError(t, err)
	return aggregate
}
