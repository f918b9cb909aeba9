package utils

import (
	"sync"
	"time"
)

// Expiring holds a single value together with its expiry. Writes are
// last-writer-wins; readers never block a refresh.
type Expiring[T any] struct {
	mu     sync.RWMutex
	value  T
	expiry time.Time
	set    bool
	now    func() time.Time
}

func NewExpiring[T any]() *Expiring[T] {
	return &Expiring[T]{now: time.Now}
}

// WithClock replaces the time source.
func (e *Expiring[T]) WithClock(now func() time.Time) *Expiring[T] {
	e.now = now
	return e
}

// Get returns the value while it is unexpired.
func (e *Expiring[T]) Get() (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.set || !e.now().Before(e.expiry) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Stale returns the last stored value regardless of expiry.
func (e *Expiring[T]) Stale() (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.value, e.set
}

func (e *Expiring[T]) Set(v T, ttl time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = v
	e.expiry = e.now().Add(ttl)
	e.set = true
}

func (e *Expiring[T]) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.expiry = time.Time{}
}
