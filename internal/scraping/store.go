package scraping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists tracked tasks.
type Store interface {
	Save(ctx context.Context, t Task) error
	Get(ctx context.Context, id string) (Task, error)
	// List returns the most recent tasks first.
	List(ctx context.Context, limit int) ([]Task, error)
}

// DefaultRetention bounds how many tasks a store keeps.
const DefaultRetention = 100

// MemoryStore keeps the most recent tasks in process.
type MemoryStore struct {
	mu        sync.RWMutex
	tasks     map[string]Task
	retention int
}

func NewMemoryStore(retention int) *MemoryStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &MemoryStore{tasks: make(map[string]Task), retention: retention}
}

func (s *MemoryStore) Save(_ context.Context, t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[t.ID] = t
	if len(s.tasks) <= s.retention {
		return nil
	}
	for _, old := range sortedTasks(s.tasks)[s.retention:] {
		delete(s.tasks, old.ID)
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	return t, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := sortedTasks(s.tasks)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func sortedTasks(m map[string]Task) []Task {
	out := make([]Task, 0, len(m))
	for _, t := range m {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

const (
	taskKeyPrefix = "scraping:task:"
	indexKey      = "scraping:tasks"
	taskTTL       = 7 * 24 * time.Hour
)

// RedisStore keeps tasks as JSON values indexed by a sorted set on start
// time, so every service instance sees the same task list.
type RedisStore struct {
	client    *redis.Client
	prefix    string
	retention int
}

func NewRedisStore(client *redis.Client, keyPrefix string, retention int) *RedisStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &RedisStore{client: client, prefix: keyPrefix, retention: retention}
}

func (s *RedisStore) taskKey(id string) string { return s.prefix + taskKeyPrefix + id }
func (s *RedisStore) indexKey() string         { return s.prefix + indexKey }

func (s *RedisStore) Save(ctx context.Context, t Task) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.taskKey(t.ID), data, taskTTL)
	pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(t.StartedAt.UnixNano()), Member: t.ID})
	pipe.ZRemRangeByRank(ctx, s.indexKey(), 0, int64(-s.retention-1))
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Task, error) {
	data, err := s.client.Get(ctx, s.taskKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Task{}, ErrTaskNotFound
	}
	if err != nil {
		return Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	var t Task
	if err = json.Unmarshal(data, &t); err != nil {
		return Task{}, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return t, nil
}

func (s *RedisStore) List(ctx context.Context, limit int) ([]Task, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	tasks := make([]Task, 0, len(ids))
	for _, id := range ids {
		t, getErr := s.Get(ctx, id)
		if errors.Is(getErr, ErrTaskNotFound) {
			continue
		}
		if getErr != nil {
			return nil, getErr
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
