package report

import "time"

// WithClock replaces the generator's time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}
