package domain

import "time"

// Base slot statuses persisted in schedule storage.
const (
	SlotStatusAvailable   = "AVAILABLE"
	SlotStatusBusy        = "BUSY"
	SlotStatusMaintenance = "MAINTENANCE"
)

// Effective status adds the live-lock overlay on top of the base statuses.
const EffectiveStatusOnHold = "ON_HOLD"

// Slot provenance.
const (
	SlotSourcePortal = "PORTAL"
	SlotSourceICS    = "ICS"
	SlotSourceGoogle = "GOOGLE"
)

type AvailabilitySlot struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	AircraftID string    `gorm:"size:64;not null;index:idx_slots_aircraft_time,priority:1" json:"aircraft_id"`
	StartTime  time.Time `gorm:"not null;index:idx_slots_aircraft_time,priority:2" json:"start_time"`
	EndTime    time.Time `gorm:"not null;index:idx_slots_aircraft_time,priority:3" json:"end_time"`
	Status     string    `gorm:"size:16;not null;default:AVAILABLE" json:"status"`
	Source     string    `gorm:"size:16;not null;default:PORTAL" json:"source"`
	Notes      string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ValidSlotStatus(s string) bool {
	switch s {
	case SlotStatusAvailable, SlotStatusBusy, SlotStatusMaintenance:
		return true
	}
	return false
}

func ValidSlotSource(s string) bool {
	switch s {
	case SlotSourcePortal, SlotSourceICS, SlotSourceGoogle:
		return true
	}
	return false
}

// Overlaps reports whether the slot intersects [start, end). Touching
// boundaries do not count as overlap.
func (s AvailabilitySlot) Overlaps(start, end time.Time) bool {
	return s.StartTime.Before(end) && s.EndTime.After(start)
}
