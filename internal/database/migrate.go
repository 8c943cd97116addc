package database

import (
	"gorm.io/gorm"

	"github.com/yasuguerra/skyride-booking/internal/domain"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.AvailabilitySlot{},
	)
}
