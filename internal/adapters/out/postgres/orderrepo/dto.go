// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status is stored as its wire string so the read side and ad-hoc SQL stay
// legible; indexes cover the status scans and courier lookups the handlers do.
type OrderDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID     string     `gorm:"index"`
	Origin         AddressDTO `gorm:"embedded;embeddedPrefix:origin_"`
	Dest           AddressDTO `gorm:"embedded;embeddedPrefix:dest_"`
	Modality       string
	DeliveryType   string
	WeightKg       float64
	ContactPhone   string
	RecipientName  string
	CourierID      *uuid.UUID `gorm:"type:uuid;index"`
	VehicleID      *uuid.UUID `gorm:"type:uuid"`
	InvoiceID      *string
	CalculatedFare *float64
	Priority       int
	Status         string `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO represents an embedded address within the order table.
type AddressDTO struct {
	Street   string
	Number   string
	City     string
	Province string
	Lat      float64
	Lng      float64
}

func addressFromDomain(address kernel.Address) AddressDTO {
	return AddressDTO{
		Street:   address.Street(),
		Number:   address.Number(),
		City:     address.City(),
		Province: address.Province(),
		Lat:      address.Point().Latitude(),
		Lng:      address.Point().Longitude(),
	}
}

func addressToDomain(dto AddressDTO) (kernel.Address, error) {
	point, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return kernel.Address{}, err
	}

	return kernel.NewAddress(dto.Street, dto.Number, dto.City, dto.Province, point)
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var courierID, vehicleID *uuid.UUID
	if id := aggregate.CourierID(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}
	if id := aggregate.VehicleID(); id != nil {
		raw := id.Bytes()
		vehicleID = &raw
	}

	return OrderDTO{
		ID:             aggregate.ID().Bytes(),
		CustomerID:     aggregate.CustomerID(),
		Origin:         addressFromDomain(aggregate.Origin()),
		Dest:           addressFromDomain(aggregate.Destination()),
		Modality:       aggregate.Modality().String(),
		DeliveryType:   aggregate.DeliveryType().String(),
		WeightKg:       aggregate.WeightKg(),
		ContactPhone:   aggregate.ContactPhone(),
		RecipientName:  aggregate.RecipientName(),
		CourierID:      courierID,
		VehicleID:      vehicleID,
		InvoiceID:      aggregate.InvoiceID(),
		CalculatedFare: aggregate.CalculatedFare(),
		Priority:       aggregate.Priority(),
		Status:         aggregate.Status().String(),
		CreatedAt:      aggregate.CreatedAt(),
		UpdatedAt:      aggregate.UpdatedAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	origin, err := addressToDomain(dto.Origin)
	if err != nil {
		return nil, err
	}

	dest, err := addressToDomain(dto.Dest)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var courierID, vehicleID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}
	if dto.VehicleID != nil {
		vID, vehicleErr := kernel.UUIDFromBytes((*dto.VehicleID)[:])
		if vehicleErr != nil {
			return nil, vehicleErr
		}
		vehicleID = &vID
	}

	return order.RestoreOrder(
		id,
		dto.CustomerID,
		origin,
		dest,
		order.Modality(dto.Modality),
		order.DeliveryType(dto.DeliveryType),
		dto.WeightKg,
		dto.ContactPhone,
		dto.RecipientName,
		courierID,
		vehicleID,
		dto.InvoiceID,
		dto.CalculatedFare,
		dto.Priority,
		status,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
