package domain

import (
	"errors"
	"fmt"
)

var (
	ErrHoldNotFound = errors.New("no active hold for listing")
	ErrSlotNotFound = errors.New("availability slot not found")
)

// ConflictError is the expected, recoverable outcome of losing an acquire
// race. It always carries the winner's snapshot so callers can poll or
// pick another listing instead of retrying blindly.
type ConflictError struct {
	Existing HoldSnapshot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("listing %s is already on hold", e.Existing.ListingID)
}

// SlotOverlapError rejects a slot write that would intersect existing slots
// without matching one exactly.
type SlotOverlapError struct {
	Conflicts []AvailabilitySlot
}

func (e *SlotOverlapError) Error() string {
	return fmt.Sprintf("slot overlaps %d existing slot(s)", len(e.Conflicts))
}

// ValidationError rejects malformed input before the store is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StoreUnavailableError means the lock store could not serve the request.
// It is fatal to the current request; the engine never retries locally.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("lock store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }
