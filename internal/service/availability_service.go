package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/yasuguerra/skyride-booking/internal/domain"
)

// SlotRepository is the schedule storage the overlay reads and the ops
// endpoints write. Listing with an empty aircraftID spans the whole fleet.
type SlotRepository interface {
	List(ctx context.Context, aircraftID string, start, end time.Time) ([]domain.AvailabilitySlot, error)
	Upsert(ctx context.Context, slot domain.AvailabilitySlot) (domain.AvailabilitySlot, error)
}

// SlotView is a persisted slot with the live-lock overlay applied.
type SlotView struct {
	domain.AvailabilitySlot
	EffectiveStatus string               `json:"effective_status"`
	HoldInfo        *domain.HoldSnapshot `json:"hold_info,omitempty"`
}

type AvailabilitySummary struct {
	TotalSlots  int `json:"total_slots"`
	Available   int `json:"available"`
	Busy        int `json:"busy"`
	Maintenance int `json:"maintenance"`
	OnHold      int `json:"on_hold"`
}

type AvailabilityView struct {
	Slots   []SlotView          `json:"slots"`
	Summary AvailabilitySummary `json:"summary"`
}

// Decision reasons for CheckSlotAvailability, in priority order.
const (
	ReasonSlotConflict = "SLOT_CONFLICT"
	ReasonActiveHold   = "ACTIVE_HOLD"
)

type AvailabilityDecision struct {
	Available        bool                      `json:"available"`
	Reason           string                    `json:"reason,omitempty"`
	ConflictingSlots []domain.AvailabilitySlot `json:"conflicting_slots,omitempty"`
	HoldInfo         *domain.HoldSnapshot      `json:"hold_info,omitempty"`
	AvailableSlots   []domain.AvailabilitySlot `json:"available_slots,omitempty"`
}

// AvailabilityService merges persisted schedule slots with live lock state.
// It never mutates either store.
type AvailabilityService struct {
	slots  SlotRepository
	locks  LockStore
	logger *slog.Logger
}

func NewAvailabilityService(slots SlotRepository, locks LockStore, logger *slog.Logger) *AvailabilityService {
	return &AvailabilityService{slots: slots, locks: locks, logger: logger}
}

// GetAvailability returns slots intersecting [start, end] with the effective
// status overlay. A lock can only suppress availability, never restore it:
// BUSY and MAINTENANCE slots pass through untouched.
func (s *AvailabilityService) GetAvailability(ctx context.Context, aircraftID string, start, end time.Time) (AvailabilityView, error) {
	if aircraftID != "" && !listingIDRe.MatchString(aircraftID) {
		return AvailabilityView{}, &domain.ValidationError{Field: "aircraft_id", Reason: "must be 1-64 alphanumeric, dash or underscore characters"}
	}
	if !end.After(start) {
		return AvailabilityView{}, &domain.ValidationError{Field: "date_range", Reason: "end must be after start"}
	}

	slots, err := s.slots.List(ctx, aircraftID, start, end)
	if err != nil {
		return AvailabilityView{}, err
	}

	view := AvailabilityView{Slots: make([]SlotView, 0, len(slots))}
	holdsByAircraft := map[string]*domain.HoldSnapshot{}
	for _, slot := range slots {
		sv := SlotView{AvailabilitySlot: slot, EffectiveStatus: slot.Status}
		if slot.Status == domain.SlotStatusAvailable {
			hold, ok := holdsByAircraft[slot.AircraftID]
			if !ok {
				hold, err = s.activeHold(ctx, slot.AircraftID)
				if err != nil {
					return AvailabilityView{}, err
				}
				holdsByAircraft[slot.AircraftID] = hold
			}
			if hold != nil && holdCoversWindow(*hold, slot.StartTime, slot.EndTime) {
				sv.EffectiveStatus = domain.EffectiveStatusOnHold
				sv.HoldInfo = hold
			}
		}
		view.Slots = append(view.Slots, sv)

		view.Summary.TotalSlots++
		switch sv.EffectiveStatus {
		case domain.SlotStatusAvailable:
			view.Summary.Available++
		case domain.SlotStatusBusy:
			view.Summary.Busy++
		case domain.SlotStatusMaintenance:
			view.Summary.Maintenance++
		case domain.EffectiveStatusOnHold:
			view.Summary.OnHold++
		}
	}
	return view, nil
}

// CheckSlotAvailability evaluates a booking window. Schedule conflicts win
// over holds: a BUSY or MAINTENANCE slot blocks regardless of lock state.
func (s *AvailabilityService) CheckSlotAvailability(ctx context.Context, aircraftID string, start, end time.Time) (AvailabilityDecision, error) {
	if !listingIDRe.MatchString(aircraftID) {
		return AvailabilityDecision{}, &domain.ValidationError{Field: "aircraft_id", Reason: "must be 1-64 alphanumeric, dash or underscore characters"}
	}
	if !end.After(start) {
		return AvailabilityDecision{}, &domain.ValidationError{Field: "end", Reason: "must be after start"}
	}

	overlapping, err := s.slots.List(ctx, aircraftID, start, end)
	if err != nil {
		return AvailabilityDecision{}, err
	}

	var blocking, open []domain.AvailabilitySlot
	for _, slot := range overlapping {
		if !slot.Overlaps(start, end) {
			continue
		}
		switch slot.Status {
		case domain.SlotStatusBusy, domain.SlotStatusMaintenance:
			blocking = append(blocking, slot)
		case domain.SlotStatusAvailable:
			open = append(open, slot)
		}
	}
	if len(blocking) > 0 {
		return AvailabilityDecision{Available: false, Reason: ReasonSlotConflict, ConflictingSlots: blocking}, nil
	}

	hold, err := s.activeHold(ctx, aircraftID)
	if err != nil {
		return AvailabilityDecision{}, err
	}
	if hold != nil && holdCoversWindow(*hold, start, end) {
		return AvailabilityDecision{Available: false, Reason: ReasonActiveHold, HoldInfo: hold}, nil
	}

	return AvailabilityDecision{Available: true, AvailableSlots: open}, nil
}

func (s *AvailabilityService) activeHold(ctx context.Context, aircraftID string) (*domain.HoldSnapshot, error) {
	rec, err := s.locks.Read(ctx, aircraftID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	snapshot := rec.Record.Snapshot(rec.Remaining)
	return &snapshot, nil
}

// A hold claims the listing from now until it expires, so it blocks any
// window that begins before the expiry instant.
func holdCoversWindow(hold domain.HoldSnapshot, start, _ time.Time) bool {
	return hold.ExpiresAt.After(start)
}
