package commands_test

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/events"
)

func TestRetryAssignmentCommandHandler_Handle_CountsAttempts(t *testing.T) {
	ctx := t.Context()

	testOrder := newPendingOrder(t)
	cmd, err := commands.NewRetryAssignmentCommand(testOrder.ID(), "ops-user", "fleet was down")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	publisher := new(MockEventPublisher)

	uow.On("Begin", ctx).Return(nil).Twice()
	uow.On("OrderRepository").Return(orderRepo).Twice()
	orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Twice()
	uow.On("Rollback", ctx).Return(nil).Twice()
	publisher.On("Publish", ctx, mock.AnythingOfType("events.RetryAssignmentRequested")).Return(nil).Twice()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Twice()

	handler := commands.NewRetryAssignmentCommandHandler(factory, publisher, discardLogger())

	require.NoError(t, handler.Handle(ctx, cmd))
	require.NoError(t, handler.Handle(ctx, cmd))

	first := publisher.Calls[0].Arguments[1].(events.RetryAssignmentRequested)
	second := publisher.Calls[1].Arguments[1].(events.RetryAssignmentRequested)

	require.Equal(t, 1, first.AttemptNumber)
	require.Equal(t, 2, second.AttemptNumber)
	require.Equal(t, testOrder.ID().String(), first.OrderID)
	require.Equal(t, "ops-user", first.Requester)
	require.Equal(t, "fleet was down", first.Reason)
	require.NotEqual(t, first.MessageID, second.MessageID)
	publisher.AssertExpectations(t)
}

func TestRetryAssignmentCommandHandler_Handle_SharedCounterAcrossCopies(t *testing.T) {
	ctx := t.Context()

	testOrder := newPendingOrder(t)
	cmd, err := commands.NewRetryAssignmentCommand(testOrder.ID(), "ops-user", "fleet was down")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	publisher := new(MockEventPublisher)

	uow.On("Begin", ctx).Return(nil).Twice()
	uow.On("OrderRepository").Return(orderRepo).Twice()
	orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Twice()
	uow.On("Rollback", ctx).Return(nil).Twice()
	publisher.On("Publish", ctx, mock.AnythingOfType("events.RetryAssignmentRequested")).Return(nil).Twice()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Twice()

	// The composition root hands out copies of one constructed handler, so
	// the HTTP server and the sweep job must keep a single attempt sequence.
	handler := commands.NewRetryAssignmentCommandHandler(factory, publisher, discardLogger())
	serverCopy := handler
	sweepCopy := handler

	require.NoError(t, serverCopy.Handle(ctx, cmd))
	require.NoError(t, sweepCopy.Handle(ctx, cmd))

	first := publisher.Calls[0].Arguments[1].(events.RetryAssignmentRequested)
	second := publisher.Calls[1].Arguments[1].(events.RetryAssignmentRequested)

	require.Equal(t, 1, first.AttemptNumber)
	require.Equal(t, 2, second.AttemptNumber)
}

func TestRetryAssignmentCommandHandler_Handle_NotPending(t *testing.T) {
	ctx := t.Context()

	testOrder := newPendingOrder(t)
	assigned := newAvailableCourier(t, 1000)
	require.NoError(t, testOrder.AssignFleet(assigned.ID(), assigned.Vehicle().ID()))

	cmd, err := commands.NewRetryAssignmentCommand(testOrder.ID(), "ops-user", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	publisher := new(MockEventPublisher)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRetryAssignmentCommandHandler(factory, publisher, discardLogger())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrRetryNotPending)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestRetryAssignmentCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()

	factory := new(MockOrderUoWFactory)
	handler := commands.NewRetryAssignmentCommandHandler(factory, new(MockEventPublisher), discardLogger())

	err := handler.Handle(ctx, commands.RetryAssignmentCommand{})

	require.ErrorIs(t, err, commands.ErrRetryAssignmentCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
