package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/yasuguerra/skyride-booking/internal/domain"
	"github.com/yasuguerra/skyride-booking/internal/lockstore"
)

var listingIDRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_\-]{0,63}$`)

// LockStore is the synchronization primitive holds are built on. All four
// operations are single round trips against the shared store.
type LockStore interface {
	TryAcquire(ctx context.Context, listingID string, ttl time.Duration) (bool, error)
	Read(ctx context.Context, listingID string) (*lockstore.LockRecord, error)
	Release(ctx context.Context, listingID string) (bool, error)
	Exists(ctx context.Context, listingID string) (bool, error)
}

type CreateHoldInput struct {
	ListingID       string
	DurationMinutes int
	IdempotencyKey  string
}

type CreateHoldResult struct {
	Hold     domain.HoldSnapshot
	Replayed bool
}

type HoldStatusResult struct {
	HoldExists bool
	Hold       domain.HoldSnapshot
}

type HoldService struct {
	locks          LockStore
	cache          IdempotencyCache
	slots          SlotRepository
	logger         *slog.Logger
	defaultTTL     time.Duration
	maxTTL         time.Duration
	idempotencyTTL time.Duration
}

type HoldServiceOption func(*HoldService)

func WithDefaultHoldTTL(d time.Duration) HoldServiceOption {
	return func(s *HoldService) {
		if d > 0 {
			s.defaultTTL = d
		}
	}
}

func WithMaxHoldTTL(d time.Duration) HoldServiceOption {
	return func(s *HoldService) {
		if d > 0 {
			s.maxTTL = d
		}
	}
}

func WithIdempotencyTTL(d time.Duration) HoldServiceOption {
	return func(s *HoldService) {
		if d > 0 {
			s.idempotencyTTL = d
		}
	}
}

func NewHoldService(locks LockStore, cache IdempotencyCache, slots SlotRepository, logger *slog.Logger, opts ...HoldServiceOption) *HoldService {
	svc := &HoldService{
		locks:          locks,
		cache:          cache,
		slots:          slots,
		logger:         logger,
		defaultTTL:     24 * time.Hour,
		maxTTL:         72 * time.Hour,
		idempotencyTTL: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// CreateHold places an exclusive, time-bounded hold on a listing. With an
// idempotency key, a replay within the cache window returns the original
// response without touching the lock store again.
func (s *HoldService) CreateHold(ctx context.Context, in CreateHoldInput) (CreateHoldResult, error) {
	if !listingIDRe.MatchString(in.ListingID) {
		return CreateHoldResult{}, &domain.ValidationError{Field: "listing_id", Reason: "must be 1-64 alphanumeric, dash or underscore characters"}
	}
	ttl := s.defaultTTL
	if in.DurationMinutes != 0 {
		if in.DurationMinutes < 0 {
			return CreateHoldResult{}, &domain.ValidationError{Field: "duration_minutes", Reason: "must be positive"}
		}
		ttl = time.Duration(in.DurationMinutes) * time.Minute
	}
	if ttl > s.maxTTL {
		return CreateHoldResult{}, &domain.ValidationError{Field: "duration_minutes", Reason: fmt.Sprintf("exceeds maximum of %d minutes", int(s.maxTTL/time.Minute))}
	}

	var keyHash string
	if in.IdempotencyKey != "" {
		keyHash = HashIdempotencyKey(in.IdempotencyKey)
		cached, hit, err := s.cache.Lookup(ctx, keyHash)
		if err != nil {
			return CreateHoldResult{}, err
		}
		if hit {
			var snapshot domain.HoldSnapshot
			if err := json.Unmarshal(cached.Body, &snapshot); err != nil {
				return CreateHoldResult{}, fmt.Errorf("decode cached hold response: %w", err)
			}
			s.logger.InfoContext(ctx, "replaying cached hold response", "listing_id", snapshot.ListingID, "hold_id", snapshot.HoldID)
			return CreateHoldResult{Hold: snapshot, Replayed: true}, nil
		}
	}

	// Two attempts: if we lose the acquire but the winner expires before we
	// can read it back, the listing is genuinely free and one more try is
	// warranted. Anything beyond that is the caller's retry to make.
	for attempt := 0; attempt < 2; attempt++ {
		acquired, err := s.locks.TryAcquire(ctx, in.ListingID, ttl)
		if err != nil {
			return CreateHoldResult{}, err
		}
		rec, err := s.locks.Read(ctx, in.ListingID)
		if err != nil {
			return CreateHoldResult{}, err
		}
		if rec == nil {
			continue
		}
		snapshot := rec.Record.Snapshot(rec.Remaining)
		if !acquired {
			return CreateHoldResult{}, &domain.ConflictError{Existing: snapshot}
		}

		if keyHash != "" {
			body, err := json.Marshal(snapshot)
			if err != nil {
				return CreateHoldResult{}, fmt.Errorf("encode hold response: %w", err)
			}
			if err := s.cache.Store(ctx, keyHash, CachedResponse{StatusCode: 201, Body: body}, s.idempotencyTTL); err != nil {
				return CreateHoldResult{}, err
			}
		}
		s.logger.InfoContext(ctx, "hold created", "listing_id", in.ListingID, "hold_id", snapshot.HoldID, "ttl_seconds", rec.Record.TTLSeconds)
		return CreateHoldResult{Hold: snapshot}, nil
	}
	return CreateHoldResult{}, &domain.StoreUnavailableError{Op: "create_hold", Err: fmt.Errorf("lock for %s vanished during acquisition", in.ListingID)}
}

func (s *HoldService) GetHoldStatus(ctx context.Context, listingID string) (HoldStatusResult, error) {
	if !listingIDRe.MatchString(listingID) {
		return HoldStatusResult{}, &domain.ValidationError{Field: "listing_id", Reason: "must be 1-64 alphanumeric, dash or underscore characters"}
	}
	rec, err := s.locks.Read(ctx, listingID)
	if err != nil {
		return HoldStatusResult{}, err
	}
	if rec == nil {
		return HoldStatusResult{HoldExists: false}, nil
	}
	return HoldStatusResult{HoldExists: true, Hold: rec.Record.Snapshot(rec.Remaining)}, nil
}

// ReleaseHold deletes an active hold. Releasing a listing with no hold is a
// NotFound condition so callers can detect stale release attempts.
func (s *HoldService) ReleaseHold(ctx context.Context, listingID string) error {
	if !listingIDRe.MatchString(listingID) {
		return &domain.ValidationError{Field: "listing_id", Reason: "must be 1-64 alphanumeric, dash or underscore characters"}
	}
	existed, err := s.locks.Release(ctx, listingID)
	if err != nil {
		return err
	}
	if !existed {
		return domain.ErrHoldNotFound
	}
	s.logger.InfoContext(ctx, "hold released", "listing_id", listingID)
	return nil
}

// ConvertHold finalizes a booking: the BUSY slot is committed to schedule
// storage first, then the lock is deleted. If the release fails the lock
// simply expires while the slot already blocks new bookings, so the listing
// never reopens early.
func (s *HoldService) ConvertHold(ctx context.Context, listingID string, start, end time.Time) (domain.AvailabilitySlot, error) {
	if !listingIDRe.MatchString(listingID) {
		return domain.AvailabilitySlot{}, &domain.ValidationError{Field: "listing_id", Reason: "must be 1-64 alphanumeric, dash or underscore characters"}
	}
	if !end.After(start) {
		return domain.AvailabilitySlot{}, &domain.ValidationError{Field: "end", Reason: "must be after start"}
	}
	rec, err := s.locks.Read(ctx, listingID)
	if err != nil {
		return domain.AvailabilitySlot{}, err
	}
	if rec == nil {
		return domain.AvailabilitySlot{}, domain.ErrHoldNotFound
	}

	slot, err := s.slots.Upsert(ctx, domain.AvailabilitySlot{
		AircraftID: listingID,
		StartTime:  start.UTC(),
		EndTime:    end.UTC(),
		Status:     domain.SlotStatusBusy,
		Source:     domain.SlotSourcePortal,
		Notes:      fmt.Sprintf("converted from %s", rec.Record.HoldID()),
	})
	if err != nil {
		return domain.AvailabilitySlot{}, err
	}

	if _, err := s.locks.Release(ctx, listingID); err != nil {
		// The slot already blocks the window; the lock falls to its TTL.
		s.logger.WarnContext(ctx, "lock release after conversion failed, leaving lock to expire", "listing_id", listingID, "error", err)
	}
	s.logger.InfoContext(ctx, "hold converted", "listing_id", listingID, "hold_id", rec.Record.HoldID(), "slot_id", slot.ID)
	return slot, nil
}
