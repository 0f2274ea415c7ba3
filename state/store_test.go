package state

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/odvcencio/furry-lens/lens"
)

var equateEmpty = cmpopts.EquateEmpty()

// recorder tracks the last committed root value and the number of notifications.
type recorder[S any] struct {
	t       *testing.T
	store   *Store[S]
	current S
	count   int
	want    int
}

func newRecorder[S any](t *testing.T, initial S) *recorder[S] {
	t.Helper()
	r := &recorder[S]{t: t, store: NewStore(initial), current: initial}
	r.store.On(func(s S) {
		r.current = s
		r.count++
	})
	return r
}

// after checks the committed value and that exactly n notifications fired since the last check.
func (r *recorder[S]) after(step string, want S, n int) {
	r.t.Helper()
	if diff := cmp.Diff(want, r.current, equateEmpty); diff != "" {
		r.t.Fatalf("after %s: unexpected state (-want +got):\n%s", step, diff)
	}
	r.want += n
	if r.count != r.want {
		r.t.Fatalf("after %s: expected %d notifications, got %d", step, r.want, r.count)
	}
}

type nested struct {
	D []int
	E int
}

type doc struct {
	A int
	B []int
	C nested
}

func TestStore_SetNotifiesOnce(t *testing.T) {
	r := newRecorder(t, doc{A: 1, B: []int{2, 3}})
	At[int](r.store, "A").Set(999)
	r.after("set", doc{A: 999, B: []int{2, 3}}, 1)
}

func TestStore_Modify(t *testing.T) {
	r := newRecorder(t, 1)
	r.store.Modify(func(v int) int { return v + 1 })
	r.after("modify", 2, 1)
	r.store.Modify(nil)
	r.after("nil modify", 2, 0)
}

func TestStore_TransactionBatches(t *testing.T) {
	r := newRecorder(t, doc{})
	a := At[int](r.store, "A")
	e := At[int](At[nested](r.store, "C"), "E")

	r.store.Transaction(func() {
		a.Set(1)
		if got := a.Get(); got != 1 {
			t.Fatalf("expected read inside transaction to see 1, got %d", got)
		}
		e.Transaction(func() {
			e.Set(2)
			a.Modify(func(v int) int { return v + 10 })
		})
		if r.count != 0 {
			t.Fatalf("expected no notification inside transaction, got %d", r.count)
		}
	})
	r.after("transaction", doc{A: 11, C: nested{E: 2}}, 1)

	r.store.Transaction(func() {})
	r.after("empty transaction", doc{A: 11, C: nested{E: 2}}, 0)
}

func TestStore_TransactionPanicKeepsNotificationPending(t *testing.T) {
	r := newRecorder(t, 0)
	func() {
		defer func() { _ = recover() }()
		r.store.Transaction(func() {
			r.store.Set(1)
			panic("boom")
		})
	}()
	if r.count != 0 {
		t.Fatalf("expected no notification for aborted transaction, got %d", r.count)
	}
	if got := r.store.Get(); got != 1 {
		t.Fatalf("expected installed value to stay, got %d", got)
	}
	r.store.Set(2)
	r.after("next commit", 2, 1)
}

func TestStore_SubscriberSetStartsNewTransaction(t *testing.T) {
	store := NewStore(0)
	var seen []int
	store.On(func(v int) {
		seen = append(seen, v)
		if v == 1 {
			store.Set(2)
		}
	})
	store.Set(1)
	if diff := cmp.Diff([]int{1, 2}, seen); diff != "" {
		t.Fatalf("unexpected notifications (-want +got):\n%s", diff)
	}
}

func TestStore_UnsubscribeDuringDelivery(t *testing.T) {
	store := NewStore(0)
	calls := 0
	var second func()
	store.Subscribe(func() {
		calls++
		second()
	})
	second = store.Subscribe(func() { calls++ })

	store.Set(1)
	if calls != 2 {
		t.Fatalf("expected in-flight delivery to reach both subscribers, got %d", calls)
	}
	store.Set(2)
	if calls != 3 {
		t.Fatalf("expected removed subscriber to be skipped, got %d", calls)
	}
}

func TestStore_Unsubscribe(t *testing.T) {
	r := newRecorder(t, doc{})
	a := At[int](r.store, "A")

	var seen int
	unsub := a.On(func(v int) { seen = v })
	a.Set(404)
	r.after("set", doc{A: 404}, 1)
	if seen != 404 {
		t.Fatalf("expected view subscriber to see 404, got %d", seen)
	}

	unsub()
	unsub()
	a.Set(405)
	r.after("set", doc{A: 405}, 1)
	if seen != 404 {
		t.Fatalf("expected no delivery after unsubscribe, got %d", seen)
	}
}

func TestStore_ViewOnFiresWithoutChange(t *testing.T) {
	store := NewStore(doc{})
	calls := 0
	At[int](store, "A").On(func(int) { calls++ })
	At[int](At[nested](store, "C"), "E").Set(1)
	if calls != 1 {
		t.Fatalf("expected view subscriber to fire on unrelated change, got %d", calls)
	}
}

func TestStore_SchedulerDefersDelivery(t *testing.T) {
	queue := NewQueue()
	store := NewStoreWithConfig(0, Config{Scheduler: queue})
	var seen []int
	store.On(func(v int) { seen = append(seen, v) })
	direct := 0
	store.SubscribeWithScheduler(DirectScheduler, func() { direct++ })

	store.Set(1)
	store.Set(2)
	if len(seen) != 0 || direct != 2 {
		t.Fatalf("expected queued delivery and 2 direct calls, got %v and %d", seen, direct)
	}
	if flushed := queue.Flush(); flushed != 2 {
		t.Fatalf("expected 2 queued notifications, got %d", flushed)
	}
	if diff := cmp.Diff([]int{1, 2}, seen); diff != "" {
		t.Fatalf("expected each commit's snapshot (-want +got):\n%s", diff)
	}
}

func TestStore_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := NewStoreWithConfig(0, Config{Logger: logger})
	store.Subscribe(func() {})
	store.Set(1)

	out := buf.String()
	if !strings.Contains(out, "transaction committed") || !strings.Contains(out, "store="+store.ID()) {
		t.Fatalf("expected commit record tagged with store id, got %q", out)
	}
	if !strings.Contains(out, "subscribers=1") {
		t.Fatalf("expected subscriber count, got %q", out)
	}
}

func TestStore_IDsAreUnique(t *testing.T) {
	if NewStore(0).ID() == NewStore(0).ID() {
		t.Fatalf("expected distinct store ids")
	}
}

func TestStore_OriginalValueUntouched(t *testing.T) {
	initial := doc{A: 1, B: []int{2, 3}, C: nested{D: []int{3, 4}, E: 4}}
	store := NewStore(initial)
	Each(At[[]int](store, "B"))[1].Set(lens.Some(882))
	At[int](At[nested](store, "C"), "E").Set(998)

	want := doc{A: 1, B: []int{2, 3}, C: nested{D: []int{3, 4}, E: 4}}
	if diff := cmp.Diff(want, initial); diff != "" {
		t.Fatalf("initial value was mutated (-want +got):\n%s", diff)
	}
}

func TestTransactionBatchingProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("k sets in one transaction notify once with the final value", prop.ForAll(
		func(k, depth int) bool {
			store := NewStore(-1)
			var seen []int
			store.On(func(v int) { seen = append(seen, v) })

			var run func(level int)
			run = func(level int) {
				store.Transaction(func() {
					if level > 0 {
						run(level - 1)
					}
					for v := range k {
						store.Set(v)
					}
				})
			}
			run(depth)
			return len(seen) == 1 && seen[0] == k-1
		},
		gen.IntRange(1, 10),
		gen.IntRange(0, 4),
	))

	properties.Property("unsubscribe is effective and idempotent", prop.ForAll(
		func(times int) bool {
			store := NewStore(0)
			calls := 0
			unsub := store.Subscribe(func() { calls++ })
			store.Set(1)
			for range times {
				unsub()
			}
			store.Set(2)
			return calls == 1
		},
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t)
}

func TestStore_NilReceiver(t *testing.T) {
	var store *Store[int]
	if store.Get() != 0 || store.ID() != "" {
		t.Fatalf("expected zero values from nil store")
	}
	store.Set(1)
	store.Modify(increment)
	store.Transaction(func() { t.Fatalf("nil store must not run transactions") })
	store.On(func(int) {})()
	store.Subscribe(func() {})()

	var view *View[int]
	if view.Get() != 0 {
		t.Fatalf("expected zero value from nil view")
	}
	view.Set(1)
	view.Modify(increment)
	view.Transaction(func() { t.Fatalf("nil view must not run transactions") })
	view.On(func(int) {})()
	view.Subscribe(func() {})()
}
