package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisSlidingWindowScript admits a request iff fewer than limit requests
// were admitted in the trailing window. Eviction, count and admission happen
// in one script so concurrent callers cannot overshoot the limit.
var redisSlidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local seq_key = KEYS[2]
local now_ms = tonumber(ARGV[1])
local window_ms = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call("ZREMRANGEBYSCORE", key, "-inf", now_ms - window_ms)
local count = redis.call("ZCARD", key)
if count >= limit then
  local retry_ms = window_ms
  local oldest = redis.call("ZRANGE", key, 0, 0, "WITHSCORES")
  if oldest and oldest[2] then
    retry_ms = math.ceil(tonumber(oldest[2]) + window_ms - now_ms)
    if retry_ms < 1 then
      retry_ms = 1
    end
  end
  return {0, retry_ms, 0}
end

local seq = redis.call("INCR", seq_key)
redis.call("ZADD", key, now_ms, tostring(now_ms) .. "-" .. tostring(seq))
redis.call("PEXPIRE", key, window_ms)
redis.call("PEXPIRE", seq_key, window_ms)
return {1, 0, limit - count - 1}
`)

type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
	Remaining  int
}

type RedisSlidingWindowLimiter struct {
	client redis.UniversalClient
	prefix string
	limit  int
	window time.Duration
}

func NewRedisSlidingWindowLimiter(client redis.UniversalClient, prefix string, limit int, window time.Duration) *RedisSlidingWindowLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisSlidingWindowLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

func (l *RedisSlidingWindowLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l.client == nil {
		return Decision{}, fmt.Errorf("redis client is nil")
	}
	if key == "" {
		key = "unknown"
	}
	storeKey := fmt.Sprintf("%s:%s", l.prefix, key)
	raw, err := redisSlidingWindowScript.Run(
		ctx,
		l.client,
		[]string{storeKey, storeKey + ":seq"},
		time.Now().UnixMilli(),
		int(l.window/time.Millisecond),
		l.limit,
	).Result()
	if err != nil {
		return Decision{}, err
	}
	values, ok := raw.([]interface{})
	if !ok || len(values) != 3 {
		return Decision{}, fmt.Errorf("unexpected redis script response type")
	}
	allowed, err := parseRedisInt64(values[0])
	if err != nil {
		return Decision{}, err
	}
	retryMS, err := parseRedisInt64(values[1])
	if err != nil {
		return Decision{}, err
	}
	remaining, err := parseRedisInt64(values[2])
	if err != nil {
		return Decision{}, err
	}
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:    allowed == 1,
		RetryAfter: time.Duration(retryMS) * time.Millisecond,
		Remaining:  int(remaining),
	}, nil
}

func parseRedisInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unexpected redis response type %T", v)
	}
}
