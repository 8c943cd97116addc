package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// CachedResponse is the exact payload a prior request produced. Replays
// return it byte for byte; only the replay flag differs on the wire.
type CachedResponse struct {
	StatusCode int
	Body       []byte
}

// IdempotencyCache stores the first response computed for a client key.
// Writes are first-writer-wins: the first writer's response is authoritative
// and later writers for the same key are ignored.
type IdempotencyCache interface {
	Lookup(ctx context.Context, keyHash string) (*CachedResponse, bool, error)
	Store(ctx context.Context, keyHash string, response CachedResponse, ttl time.Duration) error
}

// HashIdempotencyKey derives the storage key from the raw client token.
// The raw token is never persisted.
func HashIdempotencyKey(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}
