package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
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

type MockOrderUoW struct {
	mock.Mock
}

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

type MockOrderUoWFactory struct {
	mock.Mock
}

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockRetryRequester struct {
	mock.Mock
}

func (m *MockRetryRequester) Handle(ctx context.Context, cmd commands.RetryAssignmentCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pendingOrder(t *testing.T) *order.Order {
	t.Helper()

	point, err := kernel.NewGeoPoint(-0.18, -78.47)
	require.NoError(t, err)
	origin, err := kernel.NewAddress("Av. Amazonas", "N12-34", "Quito", "Pichincha", point)
	require.NoError(t, err)
	destination, err := kernel.NewAddress("Av. 9 de Octubre", "N12-34", "Guayaquil", "Guayas", point)
	require.NoError(t, err)

	aggregate, err := order.NewOrder(
		kernel.NewUUID(), "cli-1", origin, destination,
		order.ModalityNational, order.DeliveryTypeExpress, 2.5,
		"+593991234567", "Maria Lopez",
	)
	require.NoError(t, err)
	return aggregate
}

func TestStalePendingSweepJob_Sweep(t *testing.T) {
	stale := pendingOrder(t)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetAllInPendingStatus", mock.Anything).Return([]*order.Order{stale}, nil)

	uow := new(MockOrderUoW)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", mock.Anything).Return(nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)

	retry := new(MockRetryRequester)
	retry.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RetryAssignmentCommand) bool {
		return cmd.OrderID().IsEqual(stale.ID()) && cmd.Requester() == sweepRequester
	})).Return(nil)

	job := NewStalePendingSweepJob(factory, retry, 0, discardLogger())

	err := job.sweep(context.Background())

	require.NoError(t, err)
	retry.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestStalePendingSweepJob_SkipsFreshOrders(t *testing.T) {
	fresh := pendingOrder(t)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetAllInPendingStatus", mock.Anything).Return([]*order.Order{fresh}, nil)

	uow := new(MockOrderUoW)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", mock.Anything).Return(nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)

	retry := new(MockRetryRequester)

	job := NewStalePendingSweepJob(factory, retry, time.Hour, discardLogger())

	err := job.sweep(context.Background())

	require.NoError(t, err)
	retry.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestStalePendingSweepJob_ToleratesRaceWithAssignment(t *testing.T) {
	stale := pendingOrder(t)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetAllInPendingStatus", mock.Anything).Return([]*order.Order{stale}, nil)

	uow := new(MockOrderUoW)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", mock.Anything).Return(nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)

	retry := new(MockRetryRequester)
	retry.On("Handle", mock.Anything, mock.Anything).Return(commands.ErrRetryNotPending)

	job := NewStalePendingSweepJob(factory, retry, 0, discardLogger())

	err := job.sweep(context.Background())

	assert.NoError(t, err)
	retry.AssertExpectations(t)
}
