package database

import (
	"context"
	"fmt"
	"time"

	"github.com/climasgama/pos-terminal/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to redis and pings it once. Callers treat an error
// as "run without redis".
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 20,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Address, err)
	}

	config.GetLogger().WithField("addr", cfg.Address).Info("Successfully connected to redis")
	return client, nil
}
