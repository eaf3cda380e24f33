// Package redis builds the shared Redis client used by the cache store and
// the scraping task tracker.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/config"
	"github.com/redis/go-redis/v9"
)

// ErrEmptyAddress is returned when Redis address is not configured.
var ErrEmptyAddress = errors.New("redis address is required")

const (
	clientName     = "media-scan"
	connectTimeout = 5 * time.Second
	commandTimeout = 3 * time.Second
)

// NewClient dials Redis and pings it within connectTimeout.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   clientName,
		DialTimeout:  connectTimeout,
		ReadTimeout:  commandTimeout,
		WriteTimeout: commandTimeout,
	})

	if _, err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Address, err)
	}
	return client, nil
}

// Ping reports the round-trip latency of one PING.
func Ping(ctx context.Context, client *redis.Client) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	start := time.Now()
	if err := client.Ping(ctx).Err(); err != nil {
		return 0, fmt.Errorf("ping failed: %w", err)
	}
	return time.Since(start), nil
}
