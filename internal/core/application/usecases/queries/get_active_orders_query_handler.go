package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// GetActiveOrdersQueryHandler lists in-flight orders from the database,
// highest priority first, oldest first within a priority.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for in-flight order lists.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the list query with the configured filters.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlQuery := `
		SELECT
			id,
			customer_id,
			status,
			modality,
			delivery_type,
			priority,
			dest_city,
			courier_id,
			created_at
		FROM orders
		WHERE status NOT IN (?, ?, ?)
	`
	args := []any{
		order.Delivered.String(),
		order.Cancelled.String(),
		order.Returned.String(),
	}

	if query.StatusFilter() != "" {
		sqlQuery += " AND status = ?"
		args = append(args, query.StatusFilter())
	}
	if query.CustomerFilter() != "" {
		sqlQuery += " AND customer_id = ?"
		args = append(args, query.CustomerFilter())
	}

	sqlQuery += " ORDER BY priority DESC, created_at ASC"

	rows, err := h.db.WithContext(ctx).Raw(sqlQuery, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetActiveOrdersQueryResponse, 0)

	for rows.Next() {
		var (
			resp      GetActiveOrdersQueryResponse
			id        uuid.UUID
			courierID uuid.NullUUID
		)

		err = rows.Scan(
			&id,
			&resp.CustomerID,
			&resp.Status,
			&resp.Modality,
			&resp.DeliveryType,
			&resp.Priority,
			&resp.DestCity,
			&courierID,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		resp.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}

		if courierID.Valid {
			cid, idErr := kernel.UUIDFromBytes(courierID.UUID[:])
			if idErr != nil {
				return nil, idErr
			}
			resp.CourierID = &cid
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
