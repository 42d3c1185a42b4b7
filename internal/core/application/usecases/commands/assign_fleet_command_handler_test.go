package commands_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/events"
	"orderflow/internal/core/domain/model/courier"
)

func TestAssignFleetCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	testOrder := newPendingOrder(t)
	testCourier := newAvailableCourier(t, 1000)

	cmd, err := commands.NewAssignFleetCommand(testOrder.ID(), "order-created")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	publisher := new(MockEventPublisher)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("GetAllAvailable", ctx).Return([]*courier.Courier{testCourier}, nil).Once(),
		courierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("Publish", ctx, mock.AnythingOfType("events.AssignmentCompleted")).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignFleetCommandHandler(factory, publisher, discardLogger())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Equal(t, courier.StatusOnRoute, testCourier.Status())

	published := publisher.Calls[0].Arguments[1].(events.AssignmentCompleted)
	require.Equal(t, testOrder.ID().String(), published.OrderID)
	require.Equal(t, testCourier.ID().String(), published.CourierID)
	require.Equal(t, testCourier.Vehicle().ID().String(), published.VehicleID)
	require.Equal(t, "ASSIGNED", published.ResultingStatus)
	require.Equal(t, "fleet-service", published.OriginService)
	courierRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAssignFleetCommandHandler_Handle_NoCapacity(t *testing.T) {
	ctx := t.Context()

	testOrder := newPendingOrder(t)
	cmd, err := commands.NewAssignFleetCommand(testOrder.ID(), "order-created")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	publisher := new(MockEventPublisher)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("GetAllAvailable", ctx).Return([]*courier.Courier{}, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignFleetCommandHandler(factory, publisher, discardLogger())
	err = handler.Handle(ctx, cmd)

	// No capacity ends the attempt quietly.
	require.NoError(t, err)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestAssignFleetCommandHandler_Handle_OrderNoLongerPending(t *testing.T) {
	ctx := t.Context()

	testOrder := newPendingOrder(t)
	other := newAvailableCourier(t, 1000)
	require.NoError(t, testOrder.AssignFleet(other.ID(), other.Vehicle().ID()))

	cmd, err := commands.NewAssignFleetCommand(testOrder.ID(), "retry")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	publisher := new(MockEventPublisher)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignFleetCommandHandler(factory, publisher, discardLogger())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	courierRepo.AssertNotCalled(t, "GetAllAvailable", mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestAssignFleetCommandHandler_Handle_PublishesOnlyAfterCommit(t *testing.T) {
	ctx := t.Context()

	testOrder := newPendingOrder(t)
	testCourier := newAvailableCourier(t, 1000)

	cmd, err := commands.NewAssignFleetCommand(testOrder.ID(), "order-created")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	publisher := new(MockEventPublisher)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("GetAllAvailable", ctx).Return([]*courier.Courier{testCourier}, nil).Once(),
		courierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("Publish", ctx, mock.AnythingOfType("events.AssignmentCompleted")).
			Return(errors.New("channel closed")).
			Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignFleetCommandHandler(factory, publisher, discardLogger())
	err = handler.Handle(ctx, cmd)

	// The committed marking survives a failed publish; the sweep job will
	// re-announce the still-pending order.
	require.NoError(t, err)
	require.Equal(t, courier.StatusOnRoute, testCourier.Status())
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestAssignFleetCommandHandler_Handle_CommitErrorSkipsPublish(t *testing.T) {
	ctx := t.Context()

	testOrder := newPendingOrder(t)
	testCourier := newAvailableCourier(t, 1000)

	cmd, err := commands.NewAssignFleetCommand(testOrder.ID(), "order-created")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	publisher := new(MockEventPublisher)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("GetAllAvailable", ctx).Return([]*courier.Courier{testCourier}, nil).Once(),
		courierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("connection reset")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignFleetCommandHandler(factory, publisher, discardLogger())
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
