package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yasuguerra/skyride-booking/internal/domain"
	"github.com/yasuguerra/skyride-booking/internal/http/response"
	"github.com/yasuguerra/skyride-booking/internal/service"
)

// SlotHandler exposes the ops surface for schedule storage: the persisted
// slots the availability overlay reads.
type SlotHandler struct {
	slots  service.SlotRepository
	logger *slog.Logger
}

func NewSlotHandler(slots service.SlotRepository, logger *slog.Logger) *SlotHandler {
	return &SlotHandler{slots: slots, logger: logger}
}

// Upsert handles POST /api/ops/slots, keyed on (aircraftId, start, end).
func (h *SlotHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AircraftID string    `json:"aircraftId"`
		Start      time.Time `json:"start"`
		End        time.Time `json:"end"`
		Status     string    `json:"status"`
		Source     string    `json:"source"`
		Notes      string    `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if strings.TrimSpace(body.AircraftID) == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "aircraftId is required", nil)
		return
	}
	if !body.End.After(body.Start) {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "end must be after start", nil)
		return
	}
	if body.Status == "" {
		body.Status = domain.SlotStatusAvailable
	}
	if !domain.ValidSlotStatus(body.Status) {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "status must be AVAILABLE, BUSY or MAINTENANCE", nil)
		return
	}
	if body.Source == "" {
		body.Source = domain.SlotSourcePortal
	}
	if !domain.ValidSlotSource(body.Source) {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "source must be PORTAL, ICS or GOOGLE", nil)
		return
	}

	slot, err := h.slots.Upsert(r.Context(), domain.AvailabilitySlot{
		AircraftID: strings.TrimSpace(body.AircraftID),
		StartTime:  body.Start.UTC(),
		EndTime:    body.End.UTC(),
		Status:     body.Status,
		Source:     body.Source,
		Notes:      body.Notes,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, slot)
}

// List handles GET /api/ops/slots?aircraftId=&dateRange=.
func (h *SlotHandler) List(w http.ResponseWriter, r *http.Request) {
	aircraftID := strings.TrimSpace(r.URL.Query().Get("aircraftId"))
	dateRange := strings.TrimSpace(r.URL.Query().Get("dateRange"))
	start, end, ok := parseDateRange(dateRange)
	if !ok {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid date range, use YYYY-MM-DD..YYYY-MM-DD", nil)
		return
	}
	slots, err := h.slots.List(r.Context(), aircraftID, start, end)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"items": slots})
}
