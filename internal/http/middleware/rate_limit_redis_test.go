package middleware

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newLimiterForTest(t *testing.T, limit int, window time.Duration) (*miniredis.Miniredis, *RedisSlidingWindowLimiter) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		m.Close()
	})
	return m, NewRedisSlidingWindowLimiter(client, "rl_test", limit, window)
}

func TestSlidingWindowAllowsUpToLimitThenDenies(t *testing.T) {
	_, limiter := newLimiterForTest(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := limiter.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !d.Allowed {
			t.Fatalf("request %d should be allowed: %+v", i, d)
		}
		if d.Remaining != 3-i-1 {
			t.Fatalf("request %d remaining=%d want=%d", i, d.Remaining, 3-i-1)
		}
	}

	d, err := limiter.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("allow over limit: %v", err)
	}
	if d.Allowed {
		t.Fatalf("expected denial over limit: %+v", d)
	}
	if d.RetryAfter <= 0 {
		t.Fatalf("expected positive retry-after, got %v", d.RetryAfter)
	}
}

func TestSlidingWindowIsPerClient(t *testing.T) {
	_, limiter := newLimiterForTest(t, 1, time.Minute)
	ctx := context.Background()

	if d, err := limiter.Allow(ctx, "10.0.0.1"); err != nil || !d.Allowed {
		t.Fatalf("first client first request: %+v err=%v", d, err)
	}
	if d, err := limiter.Allow(ctx, "10.0.0.2"); err != nil || !d.Allowed {
		t.Fatalf("second client must have its own window: %+v err=%v", d, err)
	}
	if d, err := limiter.Allow(ctx, "10.0.0.1"); err != nil || d.Allowed {
		t.Fatalf("first client second request should be denied: %+v err=%v", d, err)
	}
}

func TestSlidingWindowNilClientErrors(t *testing.T) {
	limiter := NewRedisSlidingWindowLimiter(nil, "", 0, 0)
	if _, err := limiter.Allow(context.Background(), "k"); err == nil {
		t.Fatal("expected nil client error")
	}
}

func TestSlidingWindowBackendError(t *testing.T) {
	badClient := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 20 * time.Millisecond, ReadTimeout: 20 * time.Millisecond, WriteTimeout: 20 * time.Millisecond})
	t.Cleanup(func() { _ = badClient.Close() })
	limiter := NewRedisSlidingWindowLimiter(badClient, "", 5, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := limiter.Allow(ctx, "k"); err == nil {
		t.Fatal("expected backend error")
	}
}
