package state

import "sync"

// Subscriptions collects disposers so a consumer, such as a widget being
// unmounted, can drop all of its store subscriptions at once.
type Subscriptions struct {
	mu     sync.Mutex
	unsubs []func()
	sched  Scheduler
}

// NewSubscriptions creates a Subscriptions whose Observe uses scheduler.
func NewSubscriptions(scheduler Scheduler) *Subscriptions {
	return &Subscriptions{sched: scheduler}
}

// SetScheduler replaces the scheduler used by Observe.
func (s *Subscriptions) SetScheduler(scheduler Scheduler) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()
}

// Add tracks a disposer.
func (s *Subscriptions) Add(unsub func()) {
	if s == nil || unsub == nil {
		return
	}
	s.mu.Lock()
	s.unsubs = append(s.unsubs, unsub)
	s.mu.Unlock()
}

// Len returns the number of tracked disposers.
func (s *Subscriptions) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.unsubs)
}

// Subscribe registers fn on sub inline and tracks the disposer.
func (s *Subscriptions) Subscribe(sub Subscribable, fn func()) {
	if s == nil || sub == nil || fn == nil {
		return
	}
	s.Add(sub.Subscribe(fn))
}

// Observe registers fn on sub through the default scheduler and tracks the disposer.
func (s *Subscriptions) Observe(sub Subscribable, fn func()) {
	if s == nil || sub == nil || fn == nil {
		return
	}
	s.mu.Lock()
	scheduler := s.sched
	s.mu.Unlock()

	scheduled, ok := sub.(interface {
		SubscribeWithScheduler(Scheduler, func()) func()
	})
	if scheduler == nil || !ok {
		s.Add(sub.Subscribe(fn))
		return
	}
	s.Add(scheduled.SubscribeWithScheduler(scheduler, fn))
}

// Watch calls fn with r's value after every commit and tracks the disposer.
func Watch[T any](s *Subscriptions, r Ref[T], fn func(T)) {
	if s == nil || r == nil || fn == nil {
		return
	}
	s.Add(r.On(fn))
}

// Clear runs and forgets every tracked disposer.
func (s *Subscriptions) Clear() {
	if s == nil {
		return
	}
	s.mu.Lock()
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()
	for _, unsub := range unsubs {
		unsub()
	}
}
