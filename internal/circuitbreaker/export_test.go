package circuitbreaker

import "time"

// WithClock overrides the time source for tests.
func WithClock(cfg Config, now func() time.Time) Config {
	cfg.now = now
	return cfg
}
