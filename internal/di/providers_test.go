package di

import (
	"testing"
	"time"

	"github.com/yasuguerra/skyride-booking/internal/config"
)

func TestProvideHTTPServer(t *testing.T) {
	cfg := &config.Config{HTTPPort: "9999"}
	srv := provideHTTPServer(cfg, nil)
	if srv.Addr != ":9999" {
		t.Fatalf("unexpected addr: %s", srv.Addr)
	}
	if srv.ReadTimeout.Seconds() != 10 {
		t.Fatalf("unexpected read timeout: %v", srv.ReadTimeout)
	}
}

func TestProvideLockStoreUsesConfiguredPrefix(t *testing.T) {
	cfg := &config.Config{HoldKeyPrefix: "hold"}
	store := provideLockStore(nil, cfg)
	if store == nil {
		t.Fatal("expected lock store")
	}
}

func TestProvideHoldServiceAppliesTTLs(t *testing.T) {
	cfg := &config.Config{
		HoldDefaultTTL: 30 * time.Minute,
		HoldMaxTTL:     2 * time.Hour,
		IdempotencyTTL: time.Hour,
	}
	svc := provideHoldService(nil, nil, nil, nil, cfg)
	if svc == nil {
		t.Fatal("expected hold service")
	}
}
