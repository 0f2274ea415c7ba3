package state

import "github.com/odvcencio/furry-lens/lens"

var (
	_ Ref[int]      = (*Store[int])(nil)
	_ Ref[int]      = (*View[int])(nil)
	_ Readable[int] = (*Computed[int])(nil)
)

// View is a Ref derived from a parent ref. It stores nothing: Get evaluates
// the lens chain from the root value and Set pushes the change back up to
// the Store. Views are cheap and need no cleanup.
type View[T any] struct {
	hub hub
	get func(snapshot any) T
	set func(T)
}

// Via returns a view focusing l on the value of r.
func Via[T, U any](r Ref[T], l lens.Lens[T, U]) *View[U] {
	return &View[U]{
		hub: r.owner(),
		get: func(snapshot any) U {
			return l.Get(r.project(snapshot))
		},
		set: func(u U) {
			r.Set(l.Set(r.Get(), u))
		},
	}
}

// At returns a view of the struct field called name. It panics like lens.Field.
func At[A, S any](r Ref[S], name string) *View[A] {
	return Via(r, lens.Field[S, A](name))
}

// Key returns a view of the map entry for k. Setting None deletes the entry.
func Key[K comparable, V any](r Ref[map[K]V], k K) *View[lens.Option[V]] {
	return Via(r, lens.Key[K, V](k))
}

// Erase returns a view of r with its static type forgotten.
func Erase[T any](r Ref[T]) *View[any] {
	return Via(r, lens.Erase[T]())
}

// Substore builds a view on r's store from arbitrary get and set functions.
// Writes through it are batched like any other set; get is evaluated live
// rather than from the committed snapshot.
func Substore[T, U any](r Ref[T], get func() U, set func(U)) *View[U] {
	return &View[U]{
		hub: r.owner(),
		get: func(any) U { return get() },
		set: set,
	}
}

// Get returns the current value.
func (v *View[T]) Get() T {
	if v == nil {
		var zero T
		return zero
	}
	return v.get(v.hub.snapshot())
}

// Set writes value through the lens chain to the root store.
func (v *View[T]) Set(value T) {
	if v == nil {
		return
	}
	v.hub.transaction(func() {
		v.set(value)
	})
}

// Modify replaces the value with fn applied to it.
func (v *View[T]) Modify(fn func(T) T) {
	if v == nil || fn == nil {
		return
	}
	v.Set(fn(v.Get()))
}

// Transaction runs fn as one transaction on the root store.
func (v *View[T]) Transaction(fn func()) {
	if v == nil || fn == nil {
		return
	}
	v.hub.transaction(fn)
}

// On calls fn with this view's projection of every committed root value.
func (v *View[T]) On(fn func(T)) func() {
	if v == nil || fn == nil {
		return func() {}
	}
	return v.hub.subscribe(func(snapshot any) { fn(v.get(snapshot)) }, nil)
}

// Subscribe registers a listener for change notifications on the root store.
func (v *View[T]) Subscribe(fn func()) func() {
	return v.SubscribeWithScheduler(nil, fn)
}

// SubscribeWithScheduler registers a listener dispatched through scheduler.
func (v *View[T]) SubscribeWithScheduler(scheduler Scheduler, fn func()) func() {
	if v == nil || fn == nil {
		return func() {}
	}
	return v.hub.subscribe(func(any) { fn() }, scheduler)
}

func (v *View[T]) owner() hub {
	return v.hub
}

func (v *View[T]) project(snapshot any) T {
	return v.get(snapshot)
}
