package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// GetOrderQueryHandler reads a single order projection from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order lookups.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the lookup. Returns errs.ObjectNotFoundError when no order
// with the given identifier exists.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			status,
			modality,
			delivery_type,
			priority,
			weight_kg,
			origin_street, origin_number, origin_city,
			dest_street, dest_number, dest_city,
			contact_phone,
			recipient_name,
			courier_id,
			vehicle_id,
			invoice_id,
			calculated_fare,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().String()).Row()

	var (
		resp         GetOrderQueryResponse
		id           uuid.UUID
		originStreet string
		originNumber sql.NullString
		destStreet   string
		destNumber   sql.NullString
		courierID    uuid.NullUUID
		vehicleID    uuid.NullUUID
		invoiceID    sql.NullString
		fare         sql.NullFloat64
	)

	err := row.Scan(
		&id,
		&resp.CustomerID,
		&resp.Status,
		&resp.Modality,
		&resp.DeliveryType,
		&resp.Priority,
		&resp.WeightKg,
		&originStreet, &originNumber, &resp.OriginCity,
		&destStreet, &destNumber, &resp.DestCity,
		&resp.ContactPhone,
		&resp.RecipientName,
		&courierID,
		&vehicleID,
		&invoiceID,
		&fare,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderId", query.OrderID().String())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.OriginAddress = formatAddress(originStreet, originNumber.String, resp.OriginCity)
	resp.DestAddress = formatAddress(destStreet, destNumber.String, resp.DestCity)

	if courierID.Valid {
		cid, idErr := kernel.UUIDFromBytes(courierID.UUID[:])
		if idErr != nil {
			return GetOrderQueryResponse{}, idErr
		}
		resp.CourierID = &cid
	}
	if vehicleID.Valid {
		vid, idErr := kernel.UUIDFromBytes(vehicleID.UUID[:])
		if idErr != nil {
			return GetOrderQueryResponse{}, idErr
		}
		resp.VehicleID = &vid
	}
	if invoiceID.Valid {
		resp.InvoiceID = &invoiceID.String
	}
	if fare.Valid {
		resp.CalculatedFare = &fare.Float64
	}

	return resp, nil
}

func formatAddress(street, number, city string) string {
	if number == "" {
		return fmt.Sprintf("%s, %s", street, city)
	}
	return fmt.Sprintf("%s %s, %s", street, number, city)
}
