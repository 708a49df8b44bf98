package redisinfra

import (
	"context"
	"log/slog"

	"github.com/otp-auth-api/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewClient connects to Redis and verifies the connection with PING.
func NewClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("redis connection failed", "address", cfg.RedisAddr, "err", err)
		return nil, err
	}
	slog.Info("redis connection successful", "address", cfg.RedisAddr)
	return rdb, nil
}
