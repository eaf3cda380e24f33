// Package querycache is a keyed query cache with per-entry staleness,
// deduplicated fetches, stale-while-revalidate and prefix invalidation.
package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/telemetry"
	"golang.org/x/sync/singleflight"
)

const (
	defaultGCTime       = 10 * time.Minute
	defaultFetchTimeout = 30 * time.Second
)

// Config configures a Cache.
type Config struct {
	// GCTime is how long an unread entry is kept.
	GCTime        time.Duration
	SweepInterval time.Duration
	// FetchTimeout bounds fetches, which outlive the request that started them.
	FetchTimeout time.Duration
}

// Cache is safe for concurrent use.
type Cache struct {
	store   Store
	cfg     Config
	log     logger.Logger
	metrics *telemetry.Metrics
	now     func() time.Time

	group singleflight.Group

	mu       sync.Mutex
	inflight map[string]*flight
	bg       sync.WaitGroup
}

type flight struct {
	key         Key
	invalidated bool
}

// Option customizes a Cache.
type Option func(*Cache)

func WithLogger(log logger.Logger) Option {
	return func(c *Cache) { c.log = log }
}

func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

func withClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(store Store, cfg Config, opts ...Option) *Cache {
	if cfg.GCTime <= 0 {
		cfg.GCTime = defaultGCTime
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	c := &Cache{
		store:    store,
		cfg:      cfg,
		log:      logger.NewNop(),
		now:      time.Now,
		inflight: make(map[string]*flight),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query describes one cached read.
type Query[T any] struct {
	Key        Key
	StaleAfter time.Duration
	Fn         func(ctx context.Context) (T, error)
}

// Fetch returns a fresh entry without calling q.Fn, returns a stale entry
// while refreshing it in the background, and fetches synchronously on a miss.
// Errors are never cached.
func Fetch[T any](ctx context.Context, c *Cache, q Query[T]) (T, error) {
	var zero T
	ks := q.Key.String()
	resource := q.Key.Resource()
	load := encodeFn(q.Fn)

	entry, ok, err := c.store.Get(ctx, ks)
	if err != nil {
		c.log.Warn("Query cache read failed",
			logger.String("key", ks),
			logger.Error(err),
		)
		ok = false
	}

	if ok {
		out, decErr := decode[T](entry.Value)
		if decErr == nil {
			if entry.Fresh(c.now()) {
				c.metrics.RecordCacheLookup(resource, telemetry.CacheHit)
				return out, nil
			}
			c.metrics.RecordCacheLookup(resource, telemetry.CacheStale)
			c.revalidate(ctx, q.Key, ks, q.StaleAfter, load)
			return out, nil
		}
		c.log.Warn("Discarding undecodable cache entry",
			logger.String("key", ks),
			logger.Error(decErr),
		)
	}

	c.metrics.RecordCacheLookup(resource, telemetry.CacheMiss)
	ch := c.group.DoChan(ks, func() (any, error) {
		fetchCtx, cancel := c.fetchContext(ctx)
		defer cancel()
		return c.load(fetchCtx, q.Key, ks, q.StaleAfter, load)
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		raw, _ := res.Val.([]byte)
		return decode[T](raw)
	}
}

// Invalidate evicts every entry whose key starts with prefix. Fetches already
// in flight for those keys complete for their callers but are not stored.
func (c *Cache) Invalidate(ctx context.Context, prefix Key) error {
	stem := prefixStem(prefix)

	c.mu.Lock()
	for ks, fl := range c.inflight {
		if matchesStem(ks, stem) {
			fl.invalidated = true
			c.group.Forget(ks)
		}
	}
	c.mu.Unlock()

	n, err := c.store.DeletePrefix(ctx, prefix)
	if c.metrics != nil {
		c.metrics.CacheInvalidations.Inc()
	}
	if err != nil {
		return fmt.Errorf("invalidate %s: %w", prefix, err)
	}
	c.log.Debug("Query cache invalidated",
		logger.String("prefix", prefix.String()),
		logger.Int("evicted", n),
	)
	return nil
}

// InvalidateAll evicts each prefix, returning the joined errors.
func (c *Cache) InvalidateAll(ctx context.Context, prefixes ...Key) error {
	var errs []error
	for _, p := range prefixes {
		if err := c.Invalidate(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run sweeps entries unused for GCTime until ctx is done, then waits for
// background refreshes.
func (c *Cache) Run(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.bg.Wait()
			return
		case <-ticker.C:
			c.Sweep(ctx)
		}
	}
}

// Sweep removes entries not read within GCTime.
func (c *Cache) Sweep(ctx context.Context) {
	n, err := c.store.Sweep(ctx, c.now().Add(-c.cfg.GCTime))
	if err != nil {
		c.log.Warn("Query cache sweep failed", logger.Error(err))
		return
	}
	if n > 0 {
		c.log.Debug("Query cache swept", logger.Int("removed", n))
	}
	if size := c.store.Len(); c.metrics != nil && size >= 0 {
		c.metrics.CacheEntries.Set(float64(size))
	}
}

// Wait blocks until background refreshes finish. Used by tests and shutdown.
func (c *Cache) Wait() {
	c.bg.Wait()
}

func (c *Cache) fetchContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), c.cfg.FetchTimeout)
}

func (c *Cache) revalidate(ctx context.Context, key Key, ks string, staleAfter time.Duration, fn func(context.Context) ([]byte, error)) {
	c.mu.Lock()
	_, running := c.inflight[ks]
	c.mu.Unlock()
	if running {
		return
	}

	c.bg.Add(1)
	go func() {
		defer c.bg.Done()

		fetchCtx, cancel := c.fetchContext(ctx)
		defer cancel()

		_, err, _ := c.group.Do(ks, func() (any, error) {
			return c.load(fetchCtx, key, ks, staleAfter, fn)
		})
		if err != nil {
			c.log.Warn("Background revalidation failed",
				logger.String("key", ks),
				logger.Error(err),
			)
		}
	}()
}

func (c *Cache) load(ctx context.Context, key Key, ks string, staleAfter time.Duration, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	fl := &flight{key: key}
	c.mu.Lock()
	c.inflight[ks] = fl
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.inflight[ks] == fl {
			delete(c.inflight, ks)
		}
		c.mu.Unlock()
	}()

	raw, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	// the check and the write share the lock Invalidate marks flights under
	c.mu.Lock()
	defer c.mu.Unlock()
	if fl.invalidated {
		return raw, nil
	}

	entry := Entry{Value: raw, FetchedAt: c.now(), StaleAfter: staleAfter}
	if setErr := c.store.Set(ctx, ks, entry); setErr != nil {
		c.log.Warn("Query cache write failed",
			logger.String("key", ks),
			logger.Error(setErr),
		)
	}
	return raw, nil
}

func encodeFn[T any](fn func(context.Context) (T, error)) func(context.Context) ([]byte, error) {
	return func(ctx context.Context) ([]byte, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode query result: %w", err)
		}
		return raw, nil
	}
}

func decode[T any](raw []byte) (T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode cached value: %w", err)
	}
	return out, nil
}
