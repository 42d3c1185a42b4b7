package postgres

import (
	"gorm.io/gorm"

	"orderflow/internal/adapters/out/postgres/courierrepo"
	"orderflow/internal/adapters/out/postgres/ledgerrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
)

// MigrateSchema creates or updates the tables for every persisted model.
func MigrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&courierrepo.VehicleDTO{},
		&courierrepo.CourierDTO{},
		&courierrepo.AssignmentDTO{},
		&ledgerrepo.ProcessedMessageDTO{},
	)
}
