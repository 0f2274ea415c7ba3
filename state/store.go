// Package state provides the root store and live views for lens-based state.
//
// A Store owns one value. Views derived from it with Via, At, Key and the
// collection helpers read and write that value through lenses, and every
// write, however deeply nested, ends in a single notification to the
// store's subscribers. Stores assume a single mutation context: callers must
// not drive one store from several goroutines at once.
package state

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Config configures a Store.
type Config struct {
	// Logger receives debug records about commits. Nil discards them.
	Logger *slog.Logger
	// Scheduler dispatches subscribers registered without an explicit one.
	// Nil delivers notifications inline when the outermost transaction ends.
	Scheduler Scheduler
}

type subscriber struct {
	id        int
	fn        func(snapshot any)
	scheduler Scheduler
}

// Store is the root of a tree of views. It is itself a Ref onto its whole value.
type Store[S any] struct {
	id     ulid.ULID
	logger *slog.Logger
	sched  Scheduler

	mu    sync.Mutex
	value S
	depth int
	dirty bool
	subs  []subscriber
	next  int
}

// NewStore creates a store holding initial.
func NewStore[S any](initial S) *Store[S] {
	return NewStoreWithConfig(initial, Config{})
}

// NewStoreWithConfig creates a store holding initial with the given config.
func NewStoreWithConfig[S any](initial S, cfg Config) *Store[S] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Store[S]{
		id:    ulid.Make(),
		sched: cfg.Scheduler,
		value: initial,
	}
	s.logger = logger.With(slog.String("store", s.id.String()))
	return s
}

// ID returns the store's unique identifier.
func (s *Store[S]) ID() string {
	if s == nil {
		return ""
	}
	return s.id.String()
}

// Get returns the current value.
func (s *Store[S]) Get() S {
	if s == nil {
		var zero S
		return zero
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set installs value and notifies subscribers once the outermost
// transaction ends.
func (s *Store[S]) Set(value S) {
	if s == nil {
		return
	}
	s.transaction(func() {
		s.mu.Lock()
		s.value = value
		s.dirty = true
		s.mu.Unlock()
	})
}

// Modify replaces the value with fn applied to it.
// Modify is not atomic with respect to other goroutines.
func (s *Store[S]) Modify(fn func(S) S) {
	if s == nil || fn == nil {
		return
	}
	s.Set(fn(s.Get()))
}

// Transaction runs fn so that every set inside it, on this store or any view
// of it, produces one notification. Nested transactions join the outermost.
// Reads inside fn observe the latest value.
func (s *Store[S]) Transaction(fn func()) {
	if s == nil || fn == nil {
		return
	}
	s.transaction(fn)
}

// On calls fn with the committed value after every notification.
func (s *Store[S]) On(fn func(S)) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	return s.subscribe(func(snapshot any) { fn(cast[S](snapshot)) }, nil)
}

// Subscribe registers a listener for change notifications.
func (s *Store[S]) Subscribe(fn func()) func() {
	return s.SubscribeWithScheduler(nil, fn)
}

// SubscribeWithScheduler registers a listener dispatched through scheduler.
// A nil scheduler falls back to the store's configured one.
func (s *Store[S]) SubscribeWithScheduler(scheduler Scheduler, fn func()) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	return s.subscribe(func(any) { fn() }, scheduler)
}

func (s *Store[S]) owner() hub {
	return s
}

func (s *Store[S]) project(snapshot any) S {
	return cast[S](snapshot)
}

func (s *Store[S]) snapshot() any {
	return s.Get()
}

func (s *Store[S]) subscribe(fn func(snapshot any), scheduler Scheduler) func() {
	if scheduler == nil {
		scheduler = s.sched
	}
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs = append(s.subs, subscriber{id: id, fn: fn, scheduler: scheduler})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool {
				return sub.id == id
			})
			s.mu.Unlock()
		})
	}
}

func (s *Store[S]) transaction(fn func()) {
	s.mu.Lock()
	s.depth++
	s.mu.Unlock()

	committed := false
	defer func() {
		s.mu.Lock()
		s.depth--
		if s.depth > 0 || !s.dirty {
			s.mu.Unlock()
			return
		}
		if !committed {
			s.mu.Unlock()
			s.logger.Debug("transaction aborted, notification pending")
			return
		}
		s.dirty = false
		value := s.value
		subs := slices.Clone(s.subs)
		s.mu.Unlock()

		s.logger.Debug("transaction committed", slog.Int("subscribers", len(subs)))
		notify(subs, value)
	}()

	fn()
	committed = true
}

func notify(subs []subscriber, snapshot any) {
	for _, sub := range subs {
		fn := sub.fn
		if sub.scheduler == nil {
			fn(snapshot)
			continue
		}
		sub.scheduler.Schedule(func() { fn(snapshot) })
	}
}

// cast unwraps a snapshot, mapping a nil interface to the zero value.
func cast[S any](snapshot any) S {
	v, _ := snapshot.(S)
	return v
}
