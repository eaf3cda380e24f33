package bootstrap

import (
	"context"
	"fmt"

	"github.com/jonesrussell/north-cloud/media-scan/internal/config"
	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	infraredis "github.com/jonesrussell/north-cloud/media-scan/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

// SetupRedis connects to Redis when the cache store or the task tracker uses
// it. A Redis cache store cannot start without it; the tracker falls back to
// memory.
func SetupRedis(ctx context.Context, cfg *config.Config, log logger.Logger) (*goredis.Client, error) {
	required := cfg.Cache.Store == config.CacheStoreRedis
	if !required && !cfg.Redis.Enabled {
		return nil, nil
	}

	client, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		if required {
			return nil, fmt.Errorf("connect redis cache store: %w", err)
		}
		log.Warn("Redis not available, scraping tasks kept in memory",
			logger.String("redis_address", cfg.Redis.Address),
			logger.Error(err),
		)
		return nil, nil
	}

	log.Info("Redis connected",
		logger.String("redis_address", cfg.Redis.Address),
		logger.Int("redis_db", cfg.Redis.DB),
	)
	return client, nil
}
