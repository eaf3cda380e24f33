package querycache

// WithClock overrides the cache time source for tests.
var WithClock = withClock
