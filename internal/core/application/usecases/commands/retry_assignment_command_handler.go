package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"orderflow/internal/core/domain/events"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// ErrRetryNotPending is returned when an assignment retry is requested for an
// order that already left PENDING.
var ErrRetryNotPending = errors.New("assignment retry is only valid while the order is pending")

const retryAttemptWindow = 24 * time.Hour

// RetryAssignmentCommandHandler re-announces a pending order to the fleet
// side. Attempt numbers are counted per order in a rolling window so
// operators can see how long an order has been starving.
type RetryAssignmentCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	attempts   *cache.Cache
	logger     *slog.Logger
}

// NewRetryAssignmentCommandHandler creates a handler for retry requests.
func NewRetryAssignmentCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) RetryAssignmentCommandHandler {
	return RetryAssignmentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		attempts:   cache.New(retryAttemptWindow, retryAttemptWindow),
		logger:     logger.With("component", "retry_assignment"),
	}
}

// Handle processes a retry request. Publishing the request is the whole
// operation, so a bus failure fails the command.
func (h RetryAssignmentCommandHandler) Handle(ctx context.Context, cmd RetryAssignmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := h.loadOrder(ctx, cmd)
	if err != nil {
		return err
	}

	if aggregate.Status() != order.Pending {
		return ErrRetryNotPending
	}

	event := events.RetryAssignmentRequested{
		MessageID:     events.NewMessageID(),
		Timestamp:     time.Now().UTC(),
		OrderID:       aggregate.ID().String(),
		CustomerID:    aggregate.CustomerID(),
		Requester:     cmd.Requester(),
		Modality:      aggregate.Modality().String(),
		DeliveryType:  aggregate.DeliveryType().String(),
		Priority:      aggregate.Priority(),
		WeightKg:      aggregate.WeightKg(),
		OriginCity:    aggregate.Origin().City(),
		DestCity:      aggregate.Destination().City(),
		AttemptNumber: h.nextAttempt(aggregate.ID().String()),
		Reason:        cmd.Reason(),
	}

	if err = h.publisher.Publish(ctx, event); err != nil {
		return err
	}

	h.logger.Info("assignment retry requested",
		"order_id", event.OrderID,
		"attempt", event.AttemptNumber,
		"requester", event.Requester)
	return nil
}

func (h RetryAssignmentCommandHandler) loadOrder(
	ctx context.Context,
	cmd RetryAssignmentCommand,
) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().Get(ctx, cmd.OrderID())
}

func (h RetryAssignmentCommandHandler) nextAttempt(orderID string) int {
	if err := h.attempts.Add(orderID, 1, cache.DefaultExpiration); err == nil {
		return 1
	}

	attempt, err := h.attempts.IncrementInt(orderID, 1)
	if err != nil {
		return 1
	}
	return attempt
}
