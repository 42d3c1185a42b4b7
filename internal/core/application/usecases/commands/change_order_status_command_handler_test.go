package commands_test

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

func TestChangeOrderStatusCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	testOrder := newPendingOrder(t)
	testCourier := newAvailableCourier(t, 1000)
	require.NoError(t, testOrder.AssignFleet(testCourier.ID(), testCourier.Vehicle().ID()))

	cmd, err := commands.NewChangeOrderStatusCommand(testOrder.ID(), order.InTransit, "ops-user")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	publisher := new(MockEventPublisher)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	publisher.On("Publish", ctx, mock.AnythingOfType("events.OrderStatusChanged")).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeOrderStatusCommandHandler(factory, publisher, discardLogger())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Equal(t, order.InTransit, testOrder.Status())
	orderRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_CancelReleasesCourier(t *testing.T) {
	ctx := t.Context()

	testOrder := newPendingOrder(t)
	testCourier := newAvailableCourier(t, 1000)
	require.NoError(t, testOrder.AssignFleet(testCourier.ID(), testCourier.Vehicle().ID()))
	require.NoError(t, testCourier.MarkOnRoute())

	assignment, err := courier.NewAssignment(testOrder.ID(), testCourier.ID(), testCourier.Vehicle().ID())
	require.NoError(t, err)

	cmd, err := commands.NewChangeOrderStatusCommand(testOrder.ID(), order.Cancelled, "cli-1")
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
		courierRepo.On("GetAssignmentByOrder", ctx, testOrder.ID()).Return(assignment, nil).Once(),
		courierRepo.On("Get", ctx, testCourier.ID()).Return(testCourier, nil).Once(),
		courierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
		courierRepo.On("DeleteAssignment", ctx, testOrder.ID()).Return(nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	publisher.On("Publish", ctx, mock.AnythingOfType("events.OrderStatusChanged")).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeOrderStatusCommandHandler(factory, publisher, discardLogger())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Equal(t, order.Cancelled, testOrder.Status())
	require.True(t, testCourier.IsAvailable())
	courierRepo.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_CancelWithoutAssignmentRecordFallsBack(t *testing.T) {
	ctx := t.Context()

	testOrder := newPendingOrder(t)
	testCourier := newAvailableCourier(t, 1000)
	require.NoError(t, testOrder.AssignFleet(testCourier.ID(), testCourier.Vehicle().ID()))
	require.NoError(t, testCourier.MarkOnRoute())

	cmd, err := commands.NewChangeOrderStatusCommand(testOrder.ID(), order.Cancelled, "cli-1")
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
		courierRepo.On("GetAssignmentByOrder", ctx, testOrder.ID()).
			Return(nil, errs.NewObjectNotFoundError("assignment", testOrder.ID().String())).Once(),
		courierRepo.On("Get", ctx, testCourier.ID()).Return(testCourier, nil).Once(),
		courierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	publisher.On("Publish", ctx, mock.AnythingOfType("events.OrderStatusChanged")).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeOrderStatusCommandHandler(factory, publisher, discardLogger())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.True(t, testCourier.IsAvailable())
	courierRepo.AssertNotCalled(t, "DeleteAssignment", mock.Anything, mock.Anything)
}

func TestChangeOrderStatusCommandHandler_Handle_InvalidTransition(t *testing.T) {
	ctx := t.Context()

	testOrder := newPendingOrder(t)
	cmd, err := commands.NewChangeOrderStatusCommand(testOrder.ID(), order.InDistribution, "ops-user")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
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

	handler := commands.NewChangeOrderStatusCommandHandler(factory, publisher, discardLogger())
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	require.Equal(t, order.Pending, testOrder.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestChangeOrderStatusCommandHandler_Handle_TerminalOrderRejected(t *testing.T) {
	ctx := t.Context()

	testOrder := newPendingOrder(t)
	require.NoError(t, testOrder.ChangeStatus(order.Delivered))

	cmd, err := commands.NewChangeOrderStatusCommand(testOrder.ID(), order.Cancelled, "ops-user")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
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

	handler := commands.NewChangeOrderStatusCommandHandler(factory, publisher, discardLogger())
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	require.Equal(t, order.Delivered, testOrder.Status())
}

func TestChangeOrderStatusCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()

	factory := new(MockUoWFactory)
	publisher := new(MockEventPublisher)
	handler := commands.NewChangeOrderStatusCommandHandler(factory, publisher, discardLogger())

	err := handler.Handle(ctx, commands.ChangeOrderStatusCommand{})

	require.ErrorIs(t, err, commands.ErrChangeOrderStatusCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
