package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/yasuguerra/skyride-booking/internal/http/handler"
)

type RouterDeps struct {
	Holds        *handler.HoldHandler
	Availability *handler.AvailabilityHandler
	Slots        *handler.SlotHandler
	Health       *handler.HealthHandler
	RateLimit    func(http.Handler) http.Handler
}

func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	if deps.RateLimit != nil {
		r.Use(deps.RateLimit)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", deps.Health.Health)

		r.Post("/holds", deps.Holds.Create)
		r.Get("/holds/{listingID}", deps.Holds.Status)
		r.Delete("/holds/{listingID}", deps.Holds.Release)

		r.Get("/availability", deps.Availability.Get)
		r.Get("/availability/check", deps.Availability.Check)

		r.Route("/ops", func(r chi.Router) {
			r.Post("/slots", deps.Slots.Upsert)
			r.Get("/slots", deps.Slots.List)
			r.Post("/holds/{listingID}/convert", deps.Holds.Convert)
		})
	})
	return r
}
