package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yasuguerra/skyride-booking/internal/domain"
)

type GormSlotRepository struct{ db *gorm.DB }

func NewSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

// List returns slots intersecting [start, end], optionally filtered to one
// aircraft, ordered for stable output.
func (r *GormSlotRepository) List(ctx context.Context, aircraftID string, start, end time.Time) ([]domain.AvailabilitySlot, error) {
	query := r.db.WithContext(ctx).Model(&domain.AvailabilitySlot{}).
		Where("end_time >= ? AND start_time <= ?", start, end)
	if aircraftID != "" {
		query = query.Where("aircraft_id = ?", aircraftID)
	}
	var slots []domain.AvailabilitySlot
	if err := query.Order("aircraft_id asc").Order("start_time asc").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// Upsert updates the slot matching (aircraft_id, start, end) exactly, or
// creates a new one. A write that overlaps existing slots without matching
// one exactly is rejected with the conflicting rows attached.
func (r *GormSlotRepository) Upsert(ctx context.Context, slot domain.AvailabilitySlot) (domain.AvailabilitySlot, error) {
	var result domain.AvailabilitySlot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.AvailabilitySlot
		err := tx.Where("aircraft_id = ? AND start_time = ? AND end_time = ?", slot.AircraftID, slot.StartTime, slot.EndTime).
			First(&existing).Error
		switch {
		case err == nil:
			existing.Status = slot.Status
			existing.Source = slot.Source
			existing.Notes = slot.Notes
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			result = existing
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		var overlapping []domain.AvailabilitySlot
		if err := tx.Where("aircraft_id = ? AND start_time < ? AND end_time > ?", slot.AircraftID, slot.EndTime, slot.StartTime).
			Find(&overlapping).Error; err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return &domain.SlotOverlapError{Conflicts: overlapping}
		}

		slot.ID = uuid.NewString()
		if err := tx.Create(&slot).Error; err != nil {
			return err
		}
		result = slot
		return nil
	})
	if err != nil {
		return domain.AvailabilitySlot{}, err
	}
	return result, nil
}
