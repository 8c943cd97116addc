package integration

import (
	"net/http"
	"testing"
)

func TestRateLimitKicksInAfterBudget(t *testing.T) {
	ts := newTestServer(t, testServerOptions{rateLimitPerMin: 5})

	for i := 0; i < 5; i++ {
		resp, raw := doRaw(t, ts.Client, http.MethodGet, ts.URL+"/api/holds/jet-030", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d body=%s", i, resp.StatusCode, raw)
		}
	}

	resp, env := doJSON(t, ts.Client, http.MethodGet, ts.URL+"/api/holds/jet-030", nil, nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "RATE_LIMITED" {
		t.Fatalf("unexpected error: %+v", env.Error)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestHealthExemptFromRateLimit(t *testing.T) {
	ts := newTestServer(t, testServerOptions{rateLimitPerMin: 1})

	for i := 0; i < 10; i++ {
		resp, _ := doRaw(t, ts.Client, http.MethodGet, ts.URL+"/api/health", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("health request %d: expected 200, got %d", i, resp.StatusCode)
		}
	}
}
