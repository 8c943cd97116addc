package domain

import (
	"fmt"
	"time"
)

// Hold statuses as surfaced to API clients. EXPIRED is never returned
// directly: an expired hold is simply absent from the lock store.
const (
	HoldStatusActive    = "ACTIVE"
	HoldStatusReleased  = "RELEASED"
	HoldStatusConverted = "CONVERTED"
)

// HoldRecord is the payload stored under hold:{listing_id} in Redis.
// The store's native key expiry is the single source of truth for
// lifetime; TTLSeconds only records what was requested at creation.
type HoldRecord struct {
	Version    int    `json:"version"`
	ListingID  string `json:"listing_id"`
	CreatedAt  int64  `json:"created_at"`
	TTLSeconds int    `json:"ttl_seconds"`
}

const HoldRecordVersion = 1

// HoldSnapshot is a point-in-time view of an active hold. RemainingSeconds
// comes from the store's live TTL, never from a client-held clock.
type HoldSnapshot struct {
	HoldID           string    `json:"hold_id"`
	ListingID        string    `json:"listing_id"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	ExpiresAt        time.Time `json:"expires_at"`
	RemainingSeconds int       `json:"remaining_seconds"`
}

// HoldID derives the deterministic hold identifier from the record. Two
// callers racing into the same already-created lock observe the same id.
func (r HoldRecord) HoldID() string {
	return fmt.Sprintf("hold_%s_%d", r.ListingID, r.CreatedAt)
}

func (r HoldRecord) Snapshot(remaining time.Duration) HoldSnapshot {
	created := time.Unix(r.CreatedAt, 0).UTC()
	return HoldSnapshot{
		HoldID:           r.HoldID(),
		ListingID:        r.ListingID,
		Status:           HoldStatusActive,
		CreatedAt:        created,
		ExpiresAt:        created.Add(time.Duration(r.TTLSeconds) * time.Second),
		RemainingSeconds: int(remaining / time.Second),
	}
}
