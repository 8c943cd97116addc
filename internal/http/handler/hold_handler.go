package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yasuguerra/skyride-booking/internal/domain"
	"github.com/yasuguerra/skyride-booking/internal/http/response"
	"github.com/yasuguerra/skyride-booking/internal/service"
)

type HoldHandler struct {
	svc    *service.HoldService
	logger *slog.Logger
}

func NewHoldHandler(svc *service.HoldService, logger *slog.Logger) *HoldHandler {
	return &HoldHandler{svc: svc, logger: logger}
}

type holdResponse struct {
	HoldID           string    `json:"hold_id"`
	ListingID        string    `json:"listing_id"`
	Status           string    `json:"status"`
	ExpiresAt        time.Time `json:"expires_at"`
	RemainingSeconds int       `json:"remaining_seconds"`
	Replayed         bool      `json:"replayed"`
}

func holdResponseFrom(hold domain.HoldSnapshot, replayed bool) holdResponse {
	return holdResponse{
		HoldID:           hold.HoldID,
		ListingID:        hold.ListingID,
		Status:           hold.Status,
		ExpiresAt:        hold.ExpiresAt,
		RemainingSeconds: hold.RemainingSeconds,
		Replayed:         replayed,
	}
}

// Create handles POST /api/holds. A replayed request answers 200 with the
// original payload; a fresh hold answers 201.
func (h *HoldHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ListingID       string `json:"listing_id"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	result, err := h.svc.CreateHold(r.Context(), service.CreateHoldInput{
		ListingID:       body.ListingID,
		DurationMinutes: body.DurationMinutes,
		IdempotencyKey:  r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if result.Replayed {
		w.Header().Set("X-Idempotency-Replayed", "true")
		response.JSON(w, r, http.StatusOK, holdResponseFrom(result.Hold, true))
		return
	}
	response.JSON(w, r, http.StatusCreated, holdResponseFrom(result.Hold, false))
}

func (h *HoldHandler) Status(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingID")
	status, err := h.svc.GetHoldStatus(r.Context(), listingID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if !status.HoldExists {
		response.JSON(w, r, http.StatusOK, map[string]any{
			"hold_exists": false,
			"listing_id":  listingID,
		})
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{
		"hold_exists":       true,
		"hold_id":           status.Hold.HoldID,
		"listing_id":        status.Hold.ListingID,
		"status":            status.Hold.Status,
		"expires_at":        status.Hold.ExpiresAt,
		"remaining_seconds": status.Hold.RemainingSeconds,
	})
}

func (h *HoldHandler) Release(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingID")
	if err := h.svc.ReleaseHold(r.Context(), listingID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{
		"status":     domain.HoldStatusReleased,
		"listing_id": listingID,
	})
}

// Convert handles POST /api/ops/holds/{listingID}/convert: a finalized
// booking commits the BUSY slot before the lock is dropped.
func (h *HoldHandler) Convert(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingID")
	var body struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	slot, err := h.svc.ConvertHold(r.Context(), listingID, body.Start, body.End)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{
		"status":     domain.HoldStatusConverted,
		"listing_id": listingID,
		"slot":       slot,
	})
}
