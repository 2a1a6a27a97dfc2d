package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"recommender-workers/internal/common/camunda"
	"recommender-workers/internal/common/config"
	"recommender-workers/internal/common/database"
	"recommender-workers/internal/common/logger"
)

var dependencyRetry = &camunda.RetryConfig{
	MaxRetries: 15,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

// connectDatabase opens the configured SQL driver and waits until it answers
// a ping. sqlite databases get their schema created on first start.
func connectDatabase(ctx context.Context, cfg *config.Config, log logger.Logger) (*database.SQLClient, error) {
	var client *database.SQLClient
	err := camunda.Retry(ctx, dependencyRetry, log, "database connection", func(ctx context.Context) error {
		c, err := database.Open(cfg.Database)
		if err != nil {
			return err
		}
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := client.EnsureSchema(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Info("database connected", map[string]interface{}{"driver": client.Driver})
	return client, nil
}

func connectRedis(ctx context.Context, cfg *config.Config, log logger.Logger) (*database.RedisClient, error) {
	var client *database.RedisClient
	err := camunda.Retry(ctx, dependencyRetry, log, "redis connection", func(ctx context.Context) error {
		c, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("redis connected", map[string]interface{}{"address": cfg.Database.Redis.Address})
	return client, nil
}

func redisClientOrNil(c *database.RedisClient) *redis.Client {
	if c == nil {
		return nil
	}
	return c.GetClient()
}
