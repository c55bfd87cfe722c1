package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns nil, nil when REDIS_ADDR is unset; the Redis backed
// middlewares then pass requests through.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
