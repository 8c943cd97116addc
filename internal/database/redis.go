package database

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yasuguerra/skyride-booking/internal/config"
)

func OpenRedis(cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}
