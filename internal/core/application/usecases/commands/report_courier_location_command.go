package commands

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrReportCourierLocationCommandIsNotConstructed = errors.New(
	"ReportCourierLocationCommand must be created via NewReportCourierLocationCommand constructor",
)

// ReportCourierLocationCommand records a position observation for a courier.
// Fed by the fleet telemetry stream.
type ReportCourierLocationCommand struct { //nolint:recvcheck //using for validation
	courierID  kernel.UUID
	point      kernel.GeoPoint
	reportedAt time.Time

	guard guard.ConstructorGuard
}

// NewReportCourierLocationCommand creates a command to record a courier
// position report.
func NewReportCourierLocationCommand(
	courierID kernel.UUID,
	point kernel.GeoPoint,
	reportedAt time.Time,
) (ReportCourierLocationCommand, error) {
	cmd := ReportCourierLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCourierID(courierID),
		cmd.setPoint(point),
		cmd.setReportedAt(reportedAt),
	); err != nil {
		return ReportCourierLocationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportCourierLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportCourierLocationCommandIsNotConstructed)
}

// CourierID returns the courier the report refers to.
func (c ReportCourierLocationCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Point returns the reported coordinates.
func (c ReportCourierLocationCommand) Point() kernel.GeoPoint {
	return c.point
}

// ReportedAt returns when the position was observed.
func (c ReportCourierLocationCommand) ReportedAt() time.Time {
	return c.reportedAt
}

func (c *ReportCourierLocationCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *ReportCourierLocationCommand) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	c.point = point
	return nil
}

func (c *ReportCourierLocationCommand) setReportedAt(reportedAt time.Time) error {
	if reportedAt.IsZero() {
		return errs.NewValueIsRequiredError("reportedAt")
	}

	c.reportedAt = reportedAt
	return nil
}
