package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yasuguerra/skyride-booking/internal/database"
	httpapi "github.com/yasuguerra/skyride-booking/internal/http"
	"github.com/yasuguerra/skyride-booking/internal/http/handler"
	"github.com/yasuguerra/skyride-booking/internal/http/middleware"
	"github.com/yasuguerra/skyride-booking/internal/lockstore"
	"github.com/yasuguerra/skyride-booking/internal/repository"
	"github.com/yasuguerra/skyride-booking/internal/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

type testServerOptions struct {
	rateLimitPerMin int
	holdDefaultTTL  time.Duration
}

type testServer struct {
	URL    string
	Redis  *miniredis.Miniredis
	Client *http.Client
}

func newTestServer(t *testing.T, opts testServerOptions) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	locks := lockstore.New(redisClient, "hold")
	cache := service.NewRedisIdempotencyCache(redisClient, "idempotency")
	slots := repository.NewSlotRepository(db)

	holdOpts := []service.HoldServiceOption{}
	if opts.holdDefaultTTL > 0 {
		holdOpts = append(holdOpts, service.WithDefaultHoldTTL(opts.holdDefaultTTL))
	}
	holds := service.NewHoldService(locks, cache, slots, logger, holdOpts...)
	availability := service.NewAvailabilityService(slots, locks, logger)

	limit := opts.rateLimitPerMin
	if limit == 0 {
		limit = 10000
	}
	limiter := middleware.NewRedisSlidingWindowLimiter(redisClient, "ratelimit", limit, time.Minute)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Holds:        handler.NewHoldHandler(holds, logger),
		Availability: handler.NewAvailabilityHandler(availability, logger),
		Slots:        handler.NewSlotHandler(slots, logger),
		Health:       handler.NewHealthHandler(redisClient, db, logger),
		RateLimit:    middleware.RateLimit(limiter, logger),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{URL: srv.URL, Redis: mr, Client: srv.Client()}
}

func doJSON(t *testing.T, client *http.Client, method, url string, payload any, headers map[string]string) (*http.Response, envelope) {
	t.Helper()
	resp, raw := doRaw(t, client, method, url, payload, headers)
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode envelope from %q: %v", raw, err)
	}
	return resp, env
}

func doRaw(t *testing.T, client *http.Client, method, url string, payload any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}
