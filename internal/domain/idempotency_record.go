package domain

// IdempotencyRecord maps a hashed client key to the exact response body the
// original request produced. The raw Idempotency-Key is never persisted,
// only its SHA-256 hex digest.
type IdempotencyRecord struct {
	Version    int    `json:"version"`
	KeyHash    string `json:"key_hash"`
	StatusCode int    `json:"status_code"`
	Response   []byte `json:"response"`
	StoredAt   int64  `json:"stored_at"`
}

const IdempotencyRecordVersion = 1
