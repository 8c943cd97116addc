package di

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yasuguerra/skyride-booking/internal/app"
	"github.com/yasuguerra/skyride-booking/internal/config"
	"github.com/yasuguerra/skyride-booking/internal/database"
	httpapi "github.com/yasuguerra/skyride-booking/internal/http"
	"github.com/yasuguerra/skyride-booking/internal/http/handler"
	"github.com/yasuguerra/skyride-booking/internal/http/middleware"
	"github.com/yasuguerra/skyride-booking/internal/lockstore"
	"github.com/yasuguerra/skyride-booking/internal/observability"
	"github.com/yasuguerra/skyride-booking/internal/repository"
	"github.com/yasuguerra/skyride-booking/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(provideLogger)

var RuntimeInfraSet = wire.NewSet(provideDB, provideRedis)

var RepositorySet = wire.NewSet(
	repository.NewSlotRepository,
	wire.Bind(new(service.SlotRepository), new(*repository.GormSlotRepository)),
)

var ServiceSet = wire.NewSet(
	provideLockStore,
	wire.Bind(new(service.LockStore), new(*lockstore.Store)),
	provideIdempotencyCache,
	wire.Bind(new(service.IdempotencyCache), new(*service.RedisIdempotencyCache)),
	provideHoldService,
	service.NewAvailabilityService,
)

var HTTPSet = wire.NewSet(
	handler.NewHoldHandler,
	handler.NewAvailabilityHandler,
	handler.NewSlotHandler,
	handler.NewHealthHandler,
	provideRateLimit,
	provideRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

func provideLogger(cfg *config.Config) *slog.Logger {
	return observability.NewLogger(cfg.Env, cfg.LogLevel)
}

func provideDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func provideRedis(cfg *config.Config) (redis.UniversalClient, error) {
	return database.OpenRedis(cfg)
}

func provideLockStore(client redis.UniversalClient, cfg *config.Config) *lockstore.Store {
	return lockstore.New(client, cfg.HoldKeyPrefix)
}

func provideIdempotencyCache(client redis.UniversalClient, cfg *config.Config) *service.RedisIdempotencyCache {
	return service.NewRedisIdempotencyCache(client, cfg.IdempotencyKeyPrefix)
}

func provideHoldService(locks service.LockStore, cache service.IdempotencyCache, slots service.SlotRepository, logger *slog.Logger, cfg *config.Config) *service.HoldService {
	return service.NewHoldService(locks, cache, slots, logger,
		service.WithDefaultHoldTTL(cfg.HoldDefaultTTL),
		service.WithMaxHoldTTL(cfg.HoldMaxTTL),
		service.WithIdempotencyTTL(cfg.IdempotencyTTL),
	)
}

func provideRateLimit(client redis.UniversalClient, cfg *config.Config, logger *slog.Logger) func(http.Handler) http.Handler {
	limiter := middleware.NewRedisSlidingWindowLimiter(client, "ratelimit", cfg.RateLimitPerMin, cfg.RateLimitWindow)
	return middleware.RateLimit(limiter, logger)
}

func provideRouter(holds *handler.HoldHandler, availability *handler.AvailabilityHandler, slots *handler.SlotHandler, health *handler.HealthHandler, rateLimit func(http.Handler) http.Handler) chi.Router {
	return httpapi.NewRouter(httpapi.RouterDeps{
		Holds:        holds,
		Availability: availability,
		Slots:        slots,
		Health:       health,
		RateLimit:    rateLimit,
	})
}

func provideHTTPServer(cfg *config.Config, r chi.Router) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
