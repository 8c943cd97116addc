package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yasuguerra/skyride-booking/internal/http/response"
	"github.com/yasuguerra/skyride-booking/internal/service"
)

type AvailabilityHandler struct {
	svc    *service.AvailabilityService
	logger *slog.Logger
}

func NewAvailabilityHandler(svc *service.AvailabilityService, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc, logger: logger}
}

// Get handles GET /api/availability?aircraftId=&dateRange=YYYY-MM-DD..YYYY-MM-DD.
func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	aircraftID := strings.TrimSpace(r.URL.Query().Get("aircraftId"))
	dateRange := strings.TrimSpace(r.URL.Query().Get("dateRange"))
	start, end, ok := parseDateRange(dateRange)
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid date range, use YYYY-MM-DD..YYYY-MM-DD", nil)
		return
	}

	view, err := h.svc.GetAvailability(r.Context(), aircraftID, start, end)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{
		"aircraft_id": aircraftID,
		"date_range":  dateRange,
		"slots":       view.Slots,
		"summary":     view.Summary,
	})
}

// Check handles GET /api/availability/check?aircraftId=&start=&end= with
// RFC3339 timestamps.
func (h *AvailabilityHandler) Check(w http.ResponseWriter, r *http.Request) {
	aircraftID := strings.TrimSpace(r.URL.Query().Get("aircraftId"))
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid start, use RFC3339", nil)
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid end, use RFC3339", nil)
		return
	}

	decision, err := h.svc.CheckSlotAvailability(r.Context(), aircraftID, start, end)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, decision)
}

// parseDateRange interprets "YYYY-MM-DD..YYYY-MM-DD" as an inclusive day
// range: the end day runs to its last second, matching the portal's query
// semantics.
func parseDateRange(dateRange string) (time.Time, time.Time, bool) {
	parts := strings.SplitN(dateRange, "..", 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, false
	}
	start, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse("2006-01-02", parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end = end.Add(24*time.Hour - time.Second)
	if end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
