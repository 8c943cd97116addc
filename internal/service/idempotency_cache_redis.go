package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yasuguerra/skyride-booking/internal/domain"
)

type RedisIdempotencyCache struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisIdempotencyCache(client redis.UniversalClient, prefix string) *RedisIdempotencyCache {
	if prefix == "" {
		prefix = "idempotency"
	}
	return &RedisIdempotencyCache{client: client, prefix: prefix}
}

func (c *RedisIdempotencyCache) cacheKey(keyHash string) string {
	return fmt.Sprintf("%s:%s", c.prefix, keyHash)
}

func (c *RedisIdempotencyCache) Lookup(ctx context.Context, keyHash string) (*CachedResponse, bool, error) {
	raw, err := c.client.Get(ctx, c.cacheKey(keyHash)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &domain.StoreUnavailableError{Op: "idempotency_lookup", Err: err}
	}
	var record domain.IdempotencyRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, false, fmt.Errorf("unmarshal idempotency record: %w", err)
	}
	return &CachedResponse{StatusCode: record.StatusCode, Body: record.Response}, true, nil
}

func (c *RedisIdempotencyCache) Store(ctx context.Context, keyHash string, response CachedResponse, ttl time.Duration) error {
	record := domain.IdempotencyRecord{
		Version:    domain.IdempotencyRecordVersion,
		KeyHash:    keyHash,
		StatusCode: response.StatusCode,
		Response:   response.Body,
		StoredAt:   time.Now().UTC().Unix(),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal idempotency record: %w", err)
	}
	// SET NX keeps the first writer authoritative if two requests with the
	// same key complete concurrently.
	if err := c.client.SetNX(ctx, c.cacheKey(keyHash), payload, ttl).Err(); err != nil {
		return &domain.StoreUnavailableError{Op: "idempotency_store", Err: err}
	}
	return nil
}
