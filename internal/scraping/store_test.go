package scraping_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/media-scan/internal/scraping"
)

var base = time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)

func task(i int) scraping.Task {
	return scraping.Task{
		ID:        fmt.Sprintf("task-%02d", i),
		Type:      scraping.TypeHTML,
		Status:    scraping.StatusRunning,
		StartedAt: base.Add(time.Duration(i) * time.Minute),
	}
}

func exerciseStore(t *testing.T, s scraping.Store) {
	t.Helper()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Save(ctx, task(i)))
	}

	updated := task(2)
	updated.Status = scraping.StatusCompleted
	updated.ItemsCollected = 12
	require.NoError(t, s.Save(ctx, updated))

	got, err := s.Get(ctx, "task-02")
	require.NoError(t, err)
	assert.Equal(t, scraping.StatusCompleted, got.Status)
	assert.Equal(t, 12, got.ItemsCollected)

	_, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, scraping.ErrTaskNotFound)

	// Retention is three: the two oldest are gone, newest first.
	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	ids := make([]string, len(list))
	for i, tk := range list {
		ids[i] = tk.ID
	}
	assert.Equal(t, []string{"task-04", "task-03", "task-02"}, ids)

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	exerciseStore(t, scraping.NewMemoryStore(3))
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	exerciseStore(t, scraping.NewRedisStore(client, "media-scan:", 3))

	assert.True(t, mr.Exists("media-scan:scraping:task:task-04"))
	ttl := mr.TTL("media-scan:scraping:task:task-04")
	assert.Equal(t, 7*24*time.Hour, ttl)
}
