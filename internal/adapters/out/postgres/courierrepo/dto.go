// Package courierrepo provides data transfer objects and mapping functions for
// courier persistence, covering the courier aggregate, its vehicle, and the
// order assignment records.
package courierrepo

import (
	"time"

	"github.com/google/uuid"

	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/kernel"
)

// CourierDTO represents the database structure for persisting courier aggregates.
type CourierDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string
	Status         string `gorm:"index"`
	Zone           string
	LicenseClass   string
	Active         bool
	VehicleID      *uuid.UUID  `gorm:"type:uuid"`
	Vehicle        *VehicleDTO `gorm:"foreignKey:VehicleID"`
	LastLat        *float64
	LastLng        *float64
	LastReportedAt *time.Time
}

// TableName specifies the database table name for courier entities.
func (CourierDTO) TableName() string {
	return "couriers"
}

// VehicleDTO represents the database structure for persisting vehicles.
type VehicleDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Plate          string    `gorm:"uniqueIndex"`
	Category       string
	Status         string
	LoadCapacityKg float64
}

// TableName specifies the database table name for vehicle entities.
func (VehicleDTO) TableName() string {
	return "vehicles"
}

// AssignmentDTO links an order to the courier/vehicle pair serving it. The
// order identifier is the primary key: one assignment per order, enforced by
// the database.
type AssignmentDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourierID uuid.UUID `gorm:"type:uuid;index"`
	VehicleID uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
}

// TableName specifies the database table name for assignment records.
func (AssignmentDTO) TableName() string {
	return "assignments"
}

func fromDomain(aggregate *courier.Courier) CourierDTO {
	dto := CourierDTO{
		ID:           aggregate.ID().Bytes(),
		Name:         aggregate.Name(),
		Status:       string(aggregate.Status()),
		Zone:         aggregate.Zone(),
		LicenseClass: string(aggregate.LicenseClass()),
		Active:       aggregate.IsActive(),
	}

	if vehicle := aggregate.Vehicle(); vehicle != nil {
		vehicleID := vehicle.ID().Bytes()
		dto.VehicleID = &vehicleID
		dto.Vehicle = &VehicleDTO{
			ID:             vehicleID,
			Plate:          vehicle.Plate(),
			Category:       string(vehicle.Category()),
			Status:         string(vehicle.Status()),
			LoadCapacityKg: vehicle.LoadCapacityKg(),
		}
	}

	if location := aggregate.LastLocation(); location != nil {
		lat := location.Point.Latitude()
		lng := location.Point.Longitude()
		reportedAt := location.ReportedAt
		dto.LastLat = &lat
		dto.LastLng = &lng
		dto.LastReportedAt = &reportedAt
	}

	return dto
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var vehicle *courier.Vehicle
	if dto.Vehicle != nil {
		vehicleID, vErr := kernel.UUIDFromBytes(dto.Vehicle.ID[:])
		if vErr != nil {
			return nil, vErr
		}

		vehicle, vErr = courier.RestoreVehicle(
			vehicleID,
			dto.Vehicle.Plate,
			courier.VehicleCategory(dto.Vehicle.Category),
			dto.Vehicle.LoadCapacityKg,
			courier.VehicleStatus(dto.Vehicle.Status),
		)
		if vErr != nil {
			return nil, vErr
		}
	}

	var lastLocation *courier.Location
	if dto.LastLat != nil && dto.LastLng != nil && dto.LastReportedAt != nil {
		point, pErr := kernel.NewGeoPoint(*dto.LastLat, *dto.LastLng)
		if pErr != nil {
			return nil, pErr
		}
		lastLocation = &courier.Location{
			Point:      point,
			ReportedAt: *dto.LastReportedAt,
		}
	}

	return courier.RestoreCourier(
		id,
		dto.Name,
		courier.CourierStatus(dto.Status),
		dto.Zone,
		courier.LicenseClass(dto.LicenseClass),
		vehicle,
		lastLocation,
		dto.Active,
	)
}

func assignmentFromDomain(assignment *courier.Assignment) AssignmentDTO {
	return AssignmentDTO{
		OrderID:   assignment.OrderID().Bytes(),
		CourierID: assignment.CourierID().Bytes(),
		VehicleID: assignment.VehicleID().Bytes(),
		CreatedAt: assignment.CreatedAt(),
	}
}

func assignmentToDomain(dto AssignmentDTO) (*courier.Assignment, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}
	vehicleID, err := kernel.UUIDFromBytes(dto.VehicleID[:])
	if err != nil {
		return nil, err
	}

	return courier.RestoreAssignment(orderID, courierID, vehicleID, dto.CreatedAt)
}
