package handler

import (
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yasuguerra/skyride-booking/internal/http/response"
)

type HealthHandler struct {
	redis  redis.UniversalClient
	db     *gorm.DB
	logger *slog.Logger
}

func NewHealthHandler(redisClient redis.UniversalClient, db *gorm.DB, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{redis: redisClient, db: db, logger: logger}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := "ok"
	deps := map[string]string{"redis": "ok", "database": "ok"}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		h.logger.ErrorContext(ctx, "redis health check failed", "error", err)
		deps["redis"] = "unavailable"
		status = "degraded"
	}
	if sqlDB, err := h.db.DB(); err != nil {
		deps["database"] = "unavailable"
		status = "degraded"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		h.logger.ErrorContext(ctx, "database health check failed", "error", err)
		deps["database"] = "unavailable"
		status = "degraded"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, r, code, map[string]any{
		"status":       status,
		"dependencies": deps,
	})
}
