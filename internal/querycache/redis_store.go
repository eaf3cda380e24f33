package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 200

// RedisStore shares cache entries between service replicas. Expiry is left
// to Redis: each entry lives for its staleness window plus gcTime.
type RedisStore struct {
	client *redis.Client
	prefix string
	gcTime time.Duration
}

func NewRedisStore(client *redis.Client, keyPrefix string, gcTime time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: keyPrefix + "cache:",
		gcTime: gcTime,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get: %w", err)
	}

	var e Entry
	if err = json.Unmarshal(raw, &e); err != nil {
		return Entry{}, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return e, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, e Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err = s.client.Set(ctx, s.prefix+key, raw, e.StaleAfter+s.gcTime).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) DeletePrefix(ctx context.Context, prefix Key) (int, error) {
	stem := prefixStem(prefix)
	base := s.prefix + escapeGlob(stem)

	patterns := []string{base + `\]`, base + ",*"}
	if len(prefix) == 0 {
		patterns = []string{base + "*"}
	}

	n := 0
	for _, pattern := range patterns {
		iter := s.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return n, fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) == 0 {
			continue
		}
		deleted, err := s.client.Del(ctx, keys...).Result()
		if err != nil {
			return n, fmt.Errorf("redis del: %w", err)
		}
		n += int(deleted)
	}
	return n, nil
}

// Sweep is a no-op: Redis expires entries itself.
func (s *RedisStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}

// Len is unknown for a shared store.
func (s *RedisStore) Len() int { return -1 }

var globReplacer = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

func escapeGlob(s string) string {
	return globReplacer.Replace(s)
}
