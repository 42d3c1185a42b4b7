package commands

import (
	"context"
	"log/slog"
)

// ReportCourierLocationCommandHandler records courier position reports.
// Telemetry arrives at least once and possibly out of order; reports older
// than the stored position are dropped, so redelivery is harmless and no
// ledger entry is needed.
type ReportCourierLocationCommandHandler struct {
	uowFactory CourierUoWFactory
	logger     *slog.Logger
}

// NewReportCourierLocationCommandHandler creates a handler for courier
// position reports.
func NewReportCourierLocationCommandHandler(
	uowFactory CourierUoWFactory,
	logger *slog.Logger,
) ReportCourierLocationCommandHandler {
	return ReportCourierLocationCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "report_courier_location"),
	}
}

// Handle processes a position report for a courier.
func (h ReportCourierLocationCommandHandler) Handle(ctx context.Context, cmd ReportCourierLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.CourierRepository()
	aggregate, err := repo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if last := aggregate.LastLocation(); last != nil && !cmd.ReportedAt().After(last.ReportedAt) {
		h.logger.Debug("stale location report dropped",
			"courier_id", cmd.CourierID().String(),
			"reported_at", cmd.ReportedAt())
		return nil
	}

	if err = aggregate.ReportLocation(cmd.Point(), cmd.ReportedAt()); err != nil {
		return err
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
