package db

import (
	"context"
	"fmt"
	"time"

	"prize_wheel/internal/config"
	"prize_wheel/internal/logger"
	"prize_wheel/internal/repository"

	redis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "prize_wheel:"

// OpenStore builds the recent winners store selected by STORE_DRIVER. rdb is
// the shared redis client, nil when REDIS_ADDR is unset or unreachable.
func OpenStore(ctx context.Context, cfg *config.Config, rdb *redis.Client) (repository.StateStore, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return repository.NewMemoryStore(), nil
	case config.StoreFile:
		store, err := repository.NewFileStore(cfg.StatePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorePostgres:
		return repository.NewPostgresStore(Connect(cfg.DatabaseURL)), nil
	case config.StoreRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis store selected but %s is unreachable", cfg.RedisAddr)
		}
		return repository.NewRedisStore(rdb, redisKeyPrefix), nil
	case config.StoreMongo:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		store, err := repository.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		logger.Info("mongo connected", "database", cfg.MongoDatabase)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
