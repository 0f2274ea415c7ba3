package state

import (
	"sync"

	"github.com/odvcencio/furry-lens/lens"
)

// Computed is a read-only value derived from other refs. It recomputes when
// any dependency notifies and, with SetEqualFunc, skips notifying its own
// subscribers when the result did not change.
type Computed[T any] struct {
	store     *Store[T]
	compute   func() T
	scheduler Scheduler

	mu     sync.Mutex
	equal  lens.EqualFunc[T]
	unsubs []func()
}

// NewComputed derives a value from deps.
func NewComputed[T any](compute func() T, deps ...Subscribable) *Computed[T] {
	return NewComputedWithScheduler(nil, compute, deps...)
}

// NewComputedWithScheduler derives a value and runs recomputes through scheduler.
func NewComputedWithScheduler[T any](scheduler Scheduler, compute func() T, deps ...Subscribable) *Computed[T] {
	if compute == nil {
		compute = func() T {
			var zero T
			return zero
		}
	}
	c := &Computed[T]{
		store:     NewStore(compute()),
		compute:   compute,
		scheduler: scheduler,
	}
	for _, dep := range deps {
		if dep == nil {
			continue
		}
		if unsub := dep.Subscribe(c.enqueueRecompute); unsub != nil {
			c.unsubs = append(c.unsubs, unsub)
		}
	}
	return c
}

// SetEqualFunc configures the check used to suppress redundant notifications.
func (c *Computed[T]) SetEqualFunc(fn lens.EqualFunc[T]) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.equal = fn
	c.mu.Unlock()
}

// Get returns the last computed value.
func (c *Computed[T]) Get() T {
	if c == nil {
		var zero T
		return zero
	}
	return c.store.Get()
}

// On calls fn with each new computed value.
func (c *Computed[T]) On(fn func(T)) func() {
	if c == nil {
		return func() {}
	}
	return c.store.On(fn)
}

// Subscribe registers a listener for recompute notifications.
func (c *Computed[T]) Subscribe(fn func()) func() {
	if c == nil {
		return func() {}
	}
	return c.store.Subscribe(fn)
}

// SubscribeWithScheduler registers a listener using a scheduler.
func (c *Computed[T]) SubscribeWithScheduler(scheduler Scheduler, fn func()) func() {
	if c == nil {
		return func() {}
	}
	return c.store.SubscribeWithScheduler(scheduler, fn)
}

// Stop detaches from all dependencies. The last value stays readable.
func (c *Computed[T]) Stop() {
	if c == nil {
		return
	}
	c.mu.Lock()
	unsubs := c.unsubs
	c.unsubs = nil
	c.mu.Unlock()
	for _, unsub := range unsubs {
		unsub()
	}
}

func (c *Computed[T]) recompute() {
	next := c.compute()
	c.mu.Lock()
	equal := c.equal
	c.mu.Unlock()
	if equal != nil && equal(c.store.Get(), next) {
		return
	}
	c.store.Set(next)
}

func (c *Computed[T]) enqueueRecompute() {
	if c.scheduler == nil {
		c.recompute()
		return
	}
	c.scheduler.Schedule(c.recompute)
}
