package circuitbreaker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errBackend = errors.New("backend down")
	errClient  = errors.New("bad request")
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newBreaker(clock *fakeClock) *circuitbreaker.Breaker {
	cfg := circuitbreaker.Config{
		FailureThreshold: 2,
		Timeout:          time.Minute,
		IsFailure:        func(err error) bool { return !errors.Is(err, errClient) },
	}
	return circuitbreaker.New(circuitbreaker.WithClock(cfg, clock.now))
}

func fail(err error) func(context.Context) error {
	return func(context.Context) error { return err }
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Now()}
	b := newBreaker(clock)
	ctx := context.Background()

	require.ErrorIs(t, b.Execute(ctx, fail(errBackend)), errBackend)
	assert.Equal(t, circuitbreaker.StateClosed, b.State())
	require.ErrorIs(t, b.Execute(ctx, fail(errBackend)), errBackend)
	assert.Equal(t, circuitbreaker.StateOpen, b.State())

	called := false
	err := b.Execute(ctx, func(context.Context) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreaker_IgnoresNonFailures(t *testing.T) {
	t.Parallel()

	b := newBreaker(&fakeClock{t: time.Now()})
	for i := 0; i < 5; i++ {
		_ = b.Execute(context.Background(), fail(errClient))
	}
	assert.Equal(t, circuitbreaker.StateClosed, b.State())
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Now()}
	b := newBreaker(clock)
	ctx := context.Background()

	_ = b.Execute(ctx, fail(errBackend))
	_ = b.Execute(ctx, fail(errBackend))
	require.Equal(t, circuitbreaker.StateOpen, b.State())

	clock.advance(time.Minute)
	require.NoError(t, b.Execute(ctx, fail(nil)))
	assert.Equal(t, circuitbreaker.StateClosed, b.State())
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Now()}
	b := newBreaker(clock)
	ctx := context.Background()

	_ = b.Execute(ctx, fail(errBackend))
	_ = b.Execute(ctx, fail(errBackend))
	clock.advance(time.Minute)

	require.ErrorIs(t, b.Execute(ctx, fail(errBackend)), errBackend)
	assert.Equal(t, circuitbreaker.StateOpen, b.State())
}

func TestBreaker_StateChangeCallback(t *testing.T) {
	t.Parallel()

	var changes []string
	b := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 1,
		OnStateChange: func(from, to circuitbreaker.State) {
			changes = append(changes, from.String()+"->"+to.String())
		},
	})
	_ = b.Execute(context.Background(), fail(errBackend))

	assert.Equal(t, []string{"closed->open"}, changes)
}
