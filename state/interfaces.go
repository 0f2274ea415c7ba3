package state

// Subscribable emits change notifications.
type Subscribable interface {
	Subscribe(fn func()) func()
}

// Readable exposes read-only reactive state.
type Readable[T any] interface {
	Subscribable
	Get() T
	SubscribeWithScheduler(scheduler Scheduler, fn func()) func()
}

// Writable exposes read/write reactive state.
type Writable[T any] interface {
	Readable[T]
	Set(value T)
	Modify(fn func(T) T)
}

// Ref is a live, writable binding into a Store. *Store and *View implement it.
type Ref[T any] interface {
	Writable[T]
	// On calls fn with the ref's value after every committed change to the
	// root store, whether or not this ref's value changed.
	On(fn func(T)) func()
	// Transaction runs fn on the root store so that all sets inside it
	// produce a single notification.
	Transaction(fn func())

	owner() hub
	project(snapshot any) T
}

// hub is the untyped side of a Store that every derived View talks to.
type hub interface {
	snapshot() any
	transaction(fn func())
	subscribe(fn func(snapshot any), scheduler Scheduler) func()
}
