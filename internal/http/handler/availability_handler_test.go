package handler

import (
	"testing"
	"time"
)

func TestParseDateRange(t *testing.T) {
	start, end, ok := parseDateRange("2026-09-01..2026-09-07")
	if !ok {
		t.Fatal("expected valid range")
	}
	if start != time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected start: %v", start)
	}
	if end != time.Date(2026, 9, 7, 23, 59, 59, 0, time.UTC) {
		t.Fatalf("expected end of last day inclusive, got %v", end)
	}

	// A single day range spans that whole day.
	start, end, ok = parseDateRange("2026-09-01..2026-09-01")
	if !ok || !end.After(start) {
		t.Fatalf("expected single day range to be valid: start=%v end=%v ok=%v", start, end, ok)
	}

	for _, bad := range []string{
		"",
		"2026-09-01",
		"2026-09-01..",
		"..2026-09-07",
		"2026-09-07..2026-09-01",
		"09/01/2026..09/07/2026",
	} {
		if _, _, ok := parseDateRange(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
