package service

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yasuguerra/skyride-booking/internal/domain"
	"github.com/yasuguerra/skyride-booking/internal/lockstore"
	"github.com/yasuguerra/skyride-booking/internal/repository"
)

func newRedisForTest(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		m.Close()
	})
	return m, client
}

func newSlotRepoForTest(t *testing.T) *repository.GormSlotRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.AvailabilitySlot{}); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return repository.NewSlotRepository(db)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHoldServiceForTest(t *testing.T, opts ...HoldServiceOption) (*miniredis.Miniredis, *HoldService) {
	t.Helper()
	m, client := newRedisForTest(t)
	locks := lockstore.New(client, "hold")
	cache := NewRedisIdempotencyCache(client, "idempotency")
	svc := NewHoldService(locks, cache, newSlotRepoForTest(t), discardLogger(), opts...)
	return m, svc
}
