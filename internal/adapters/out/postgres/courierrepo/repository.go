package courierrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

const uniqueViolationCode = "23505"

// GormCourierRepository implements CourierRepository using GORM.
type GormCourierRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB, tracker aggregateTracker) *GormCourierRepository {
	return &GormCourierRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new courier and its vehicle to the database.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.saveVehicle(ctx, dto.Vehicle); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Omit("Vehicle").Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing courier and its vehicle to the database.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.saveVehicle(ctx, dto.Vehicle); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("Vehicle").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a courier by ID with its vehicle.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	err := r.db.WithContext(ctx).Preload("Vehicle").First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByVehicle retrieves the courier a vehicle is bound to.
func (r *GormCourierRepository) GetByVehicle(ctx context.Context, vehicleID kernel.UUID) (*courier.Courier, error) {
	if err := vehicleID.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	err := r.db.WithContext(ctx).Preload("Vehicle").First(&dto, "vehicle_id = ?", vehicleID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("vehicle", vehicleID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAvailable retrieves couriers that can take a new order. The status
// filter runs in SQL; the vehicle availability rule runs on the aggregate so
// it stays in one place.
func (r *GormCourierRepository) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Order("name ASC").
		Find(&dtos, "status = ? AND active = ?", string(courier.StatusAvailable), true).Error
	if err != nil {
		return nil, err
	}

	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		if c.IsAvailable() {
			couriers = append(couriers, c)
		}
	}

	return couriers, nil
}

// AddAssignment records the order/courier/vehicle link. A second record for
// the same order surfaces as errs.DuplicateResourceError.
func (r *GormCourierRepository) AddAssignment(ctx context.Context, assignment *courier.Assignment) error {
	if err := assignment.Validate(); err != nil {
		return err
	}

	dto := assignmentFromDomain(assignment)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return errs.NewDuplicateResourceErrorWithCause(
				"orderId", assignment.OrderID().String(), err)
		}
		return err
	}

	return nil
}

// GetAssignmentByOrder retrieves the assignment record for an order.
func (r *GormCourierRepository) GetAssignmentByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) (*courier.Assignment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assignment", orderID.String())
		}
		return nil, err
	}

	return assignmentToDomain(dto)
}

// DeleteAssignment removes the assignment record for an order.
func (r *GormCourierRepository) DeleteAssignment(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Delete(&AssignmentDTO{}, "order_id = ?", orderID.Bytes()).Error
}

// saveVehicle upserts the vehicle row. Vehicles are shared reference data for
// couriers, so an existing row is refreshed rather than duplicated.
func (r *GormCourierRepository) saveVehicle(ctx context.Context, dto *VehicleDTO) error {
	if dto == nil {
		return nil
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(dto).Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
