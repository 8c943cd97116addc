package handler

import (
	"errors"
	"net/http"

	"github.com/yasuguerra/skyride-booking/internal/domain"
	"github.com/yasuguerra/skyride-booking/internal/http/response"
)

// writeDomainError maps the engine's error taxonomy onto the wire. Conflict
// and NotFound are expected business outcomes and keep their full context;
// store failures become opaque 500s.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		conflict    *domain.ConflictError
		overlap     *domain.SlotOverlapError
		validation  *domain.ValidationError
		unavailable *domain.StoreUnavailableError
	)
	switch {
	case errors.As(err, &conflict):
		response.Error(w, r, http.StatusConflict, "LISTING_ALREADY_ON_HOLD", conflict.Error(), map[string]any{
			"existing_hold": conflict.Existing,
		})
	case errors.As(err, &overlap):
		response.Error(w, r, http.StatusConflict, "CONFLICT", overlap.Error(), map[string]any{
			"conflicting_slots": overlap.Conflicts,
		})
	case errors.As(err, &validation):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", validation.Error(), nil)
	case errors.Is(err, domain.ErrHoldNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, domain.ErrSlotNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.As(err, &unavailable):
		response.Error(w, r, http.StatusInternalServerError, "STORE_UNAVAILABLE", "backing store unavailable", nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
