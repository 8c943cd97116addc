// Package lockstore wraps the shared Redis instance that acts as the single
// coordination point for hold acquisition. Every operation is one round trip;
// nothing is cached locally and nothing is retried here. Retries belong to
// callers, which is why the layer above carries idempotency keys.
package lockstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yasuguerra/skyride-booking/internal/domain"
)

// readHoldScript returns the stored record and its live TTL in one atomic
// step so remaining_seconds can never disagree with the value it came from.
var readHoldScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if not val then
  return false
end
local pttl = redis.call("PTTL", KEYS[1])
return {val, pttl}
`)

type LockRecord struct {
	Record    domain.HoldRecord
	Remaining time.Duration
}

type Store struct {
	client redis.UniversalClient
	prefix string
}

func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "hold"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(listingID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, listingID)
}

// TryAcquire creates the lock record only if no record exists, with native
// expiry after ttl. SET NX EX is a single conditional write, so among N
// concurrent callers exactly one observes true.
func (s *Store) TryAcquire(ctx context.Context, listingID string, ttl time.Duration) (bool, error) {
	record := domain.HoldRecord{
		Version:    domain.HoldRecordVersion,
		ListingID:  listingID,
		CreatedAt:  time.Now().UTC().Unix(),
		TTLSeconds: int(ttl / time.Second),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("marshal hold record: %w", err)
	}
	ok, err := s.client.SetNX(ctx, s.key(listingID), payload, ttl).Result()
	if err != nil {
		return false, &domain.StoreUnavailableError{Op: "try_acquire", Err: err}
	}
	return ok, nil
}

// Read returns the current lock record and its remaining lifetime, or
// (nil, nil) when no hold exists.
func (s *Store) Read(ctx context.Context, listingID string) (*LockRecord, error) {
	raw, err := readHoldScript.Run(ctx, s.client, []string{s.key(listingID)}).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StoreUnavailableError{Op: "read", Err: err}
	}
	values, ok := raw.([]interface{})
	if !ok || len(values) != 2 {
		return nil, &domain.StoreUnavailableError{Op: "read", Err: fmt.Errorf("unexpected script result %T", raw)}
	}
	var record domain.HoldRecord
	if err := json.Unmarshal([]byte(asString(values[0])), &record); err != nil {
		return nil, fmt.Errorf("unmarshal hold record: %w", err)
	}
	pttl, ok := values[1].(int64)
	if !ok {
		return nil, &domain.StoreUnavailableError{Op: "read", Err: fmt.Errorf("unexpected pttl type %T", values[1])}
	}
	remaining := time.Duration(pttl) * time.Millisecond
	if remaining < 0 {
		remaining = 0
	}
	return &LockRecord{Record: record, Remaining: remaining}, nil
}

// Release deletes the lock record and reports whether one existed, so stale
// release attempts surface as not-found instead of silent success.
func (s *Store) Release(ctx context.Context, listingID string) (bool, error) {
	deleted, err := s.client.Del(ctx, s.key(listingID)).Result()
	if err != nil {
		return false, &domain.StoreUnavailableError{Op: "release", Err: err}
	}
	return deleted > 0, nil
}

func (s *Store) Exists(ctx context.Context, listingID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(listingID)).Result()
	if err != nil {
		return false, &domain.StoreUnavailableError{Op: "exists", Err: err}
	}
	return n > 0, nil
}

func asString(v interface{}) string {
	switch typed := v.(type) {
	case string:
		return typed
	case []byte:
		return string(typed)
	default:
		return fmt.Sprint(v)
	}
}
