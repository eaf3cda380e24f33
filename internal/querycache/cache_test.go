package querycache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonesrussell/north-cloud/media-scan/internal/querycache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newCache(t *testing.T, store querycache.Store) (*querycache.Cache, *clock) {
	t.Helper()

	clk := &clock{t: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	c := querycache.New(store, querycache.Config{}, querycache.WithClock(clk.now))
	t.Cleanup(c.Wait)
	return c, clk
}

func counting(calls *atomic.Int32, value string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestFetch_FreshHitSkipsNetwork(t *testing.T) {
	t.Parallel()

	c, clk := newCache(t, querycache.NewMemoryStore())
	ctx := context.Background()
	var calls atomic.Int32
	q := querycache.Query[string]{Key: querycache.Key{"media"}, StaleAfter: 10 * time.Minute, Fn: counting(&calls, "v1")}

	got, err := querycache.Fetch(ctx, c, q)
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	clk.advance(9 * time.Minute)
	got, err = querycache.Fetch(ctx, c, q)
	require.NoError(t, err)
	assert.Equal(t, "v1", got)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_ConcurrentMissesShareOneCall(t *testing.T) {
	t.Parallel()

	c, _ := newCache(t, querycache.NewMemoryStore())
	release := make(chan struct{})
	var calls atomic.Int32
	q := querycache.Query[int]{
		Key:        querycache.Key{"stats", 30},
		StaleAfter: 5 * time.Minute,
		Fn: func(context.Context) (int, error) {
			calls.Add(1)
			<-release
			return 1200, nil
		},
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]int, callers)
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = querycache.Fetch(context.Background(), c, q)
		}()
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, 1200, r)
	}
}

func TestFetch_StaleServedThenRefreshed(t *testing.T) {
	t.Parallel()

	c, clk := newCache(t, querycache.NewMemoryStore())
	ctx := context.Background()
	var calls atomic.Int32
	value := atomic.Value{}
	value.Store("old")
	q := querycache.Query[string]{
		Key:        querycache.Key{"ranking", 30},
		StaleAfter: 5 * time.Minute,
		Fn: func(context.Context) (string, error) {
			calls.Add(1)
			return value.Load().(string), nil
		},
	}

	_, err := querycache.Fetch(ctx, c, q)
	require.NoError(t, err)

	value.Store("new")
	clk.advance(6 * time.Minute)

	got, err := querycache.Fetch(ctx, c, q)
	require.NoError(t, err)
	assert.Equal(t, "old", got, "stale value is served immediately")

	c.Wait()
	assert.Equal(t, int32(2), calls.Load())

	got, err = querycache.Fetch(ctx, c, q)
	require.NoError(t, err)
	assert.Equal(t, "new", got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInvalidate_NextReadRefetches(t *testing.T) {
	t.Parallel()

	c, _ := newCache(t, querycache.NewMemoryStore())
	ctx := context.Background()
	var listCalls, itemCalls, statsCalls atomic.Int32
	list := querycache.Query[string]{Key: querycache.Key{"media"}, StaleAfter: 10 * time.Minute, Fn: counting(&listCalls, "list")}
	item := querycache.Query[string]{Key: querycache.Key{"media", 1}, StaleAfter: 10 * time.Minute, Fn: counting(&itemCalls, "item")}
	stats := querycache.Query[string]{Key: querycache.Key{"stats", 30}, StaleAfter: 5 * time.Minute, Fn: counting(&statsCalls, "stats")}

	for _, q := range []querycache.Query[string]{list, item, stats} {
		_, err := querycache.Fetch(ctx, c, q)
		require.NoError(t, err)
	}

	require.NoError(t, c.Invalidate(ctx, querycache.Key{"media"}))

	for _, q := range []querycache.Query[string]{list, item, stats} {
		_, err := querycache.Fetch(ctx, c, q)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), listCalls.Load())
	assert.Equal(t, int32(2), itemCalls.Load())
	assert.Equal(t, int32(1), statsCalls.Load())
}

func TestInvalidate_InFlightFetchIsNotStored(t *testing.T) {
	t.Parallel()

	c, _ := newCache(t, querycache.NewMemoryStore())
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	q := querycache.Query[string]{
		Key:        querycache.Key{"media"},
		StaleAfter: 10 * time.Minute,
		Fn: func(context.Context) (string, error) {
			if calls.Add(1) == 1 {
				close(started)
				<-release
				return "before delete", nil
			}
			return "after delete", nil
		},
	}

	done := make(chan string)
	go func() {
		v, _ := querycache.Fetch(ctx, c, q)
		done <- v
	}()

	<-started
	require.NoError(t, c.Invalidate(ctx, querycache.Key{"media"}))
	close(release)
	assert.Equal(t, "before delete", <-done)

	got, err := querycache.Fetch(ctx, c, q)
	require.NoError(t, err)
	assert.Equal(t, "after delete", got)
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	c, _ := newCache(t, querycache.NewMemoryStore())
	ctx := context.Background()
	errBackend := errors.New("backend down")
	var calls atomic.Int32
	q := querycache.Query[string]{
		Key:        querycache.Key{"health"},
		StaleAfter: time.Minute,
		Fn: func(context.Context) (string, error) {
			if calls.Add(1) == 1 {
				return "", errBackend
			}
			return "healthy", nil
		},
	}

	_, err := querycache.Fetch(ctx, c, q)
	require.ErrorIs(t, err, errBackend)

	got, err := querycache.Fetch(ctx, c, q)
	require.NoError(t, err)
	assert.Equal(t, "healthy", got)
}

func TestSweep_RemovesUnreadEntries(t *testing.T) {
	t.Parallel()

	store := querycache.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, `["media"]`, querycache.Entry{Value: []byte(`1`)}))

	n, err := store.Sweep(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, store.Len())
}

func TestRedisStore_RoundTripAndPrefixDelete(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := querycache.NewRedisStore(client, "media-scan:", 10*time.Minute)
	c, _ := newCache(t, store)
	ctx := context.Background()

	var calls atomic.Int32
	for _, key := range []querycache.Key{{"articles", "recent", 7, 100}, {"articles", "media", 1, 100}, {"stats", 30}} {
		q := querycache.Query[string]{Key: key, StaleAfter: 3 * time.Minute, Fn: counting(&calls, "v")}
		_, err := querycache.Fetch(ctx, c, q)
		require.NoError(t, err)
		_, err = querycache.Fetch(ctx, c, q)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), calls.Load())

	ttl := mr.TTL(`media-scan:cache:["stats",30]`)
	assert.Equal(t, 13*time.Minute, ttl)

	n, err := store.DeletePrefix(ctx, querycache.Key{"articles"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, mr.Exists(`media-scan:cache:["stats",30]`))
}
