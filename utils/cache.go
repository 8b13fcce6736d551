// utils/cache.go
package utils

import (
	"sync"
	"time"
)

// TTLCache is a single-slot cache for one expensive aggregate read.
// Staleness is bounded only by the TTL — writes never invalidate it.
// The clock is injectable so tests can control time without real delays.
type TTLCache[T any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	value T
	setAt time.Time
	valid bool
}

func NewTTLCache[T any](ttl time.Duration) *TTLCache[T] {
	return &TTLCache[T]{ttl: ttl, now: time.Now}
}

// WithClock replaces the cache's clock. Test use only.
func (c *TTLCache[T]) WithClock(now func() time.Time) *TTLCache[T] {
	c.now = now
	return c
}

// Get returns the cached value if it is younger than the TTL; otherwise it
// calls compute, stores the fresh value and returns it. A compute error
// leaves any previously cached value untouched.
func (c *TTLCache[T]) Get(compute func() (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.setAt) < c.ttl {
		return c.value, nil
	}

	value, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}

	c.value = value
	c.setAt = c.now()
	c.valid = true
	return value, nil
}

// Invalidate drops the cached value. Not used on the request path; handy in tests.
func (c *TTLCache[T]) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}
