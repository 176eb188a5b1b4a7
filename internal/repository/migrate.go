package repository

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates every table used by the salon.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel{},
		&serviceModel{},
		&bookingModel{},
		&contactModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// Partial index: at most one live booking per service and start instant.
	// Overlaps with other starts are rejected inside BookingRepository.Create.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_live_start
		ON bookings (service_id, start_time) WHERE cancelled = false`).Error; err != nil {
		return fmt.Errorf("create booking index: %w", err)
	}
	return nil
}
