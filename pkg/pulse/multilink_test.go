package pulse

import (
	"errors"
	"testing"
)

func TestMultilink_InitialSynchronousInvocation(t *testing.T) {
	a := NewProperty(1)
	b := NewProperty("two")

	var calls [][]any
	ml, err := NewMultilink([]Dependency{a, b}, func(values []any) {
		calls = append(calls, values)
	})
	if err != nil {
		t.Fatalf("NewMultilink: %v", err)
	}
	defer func() { _ = ml.Detach() }()

	if len(calls) != 1 {
		t.Fatalf("observer called %d times at construction, want 1", len(calls))
	}
	if calls[0][0] != 1 || calls[0][1] != "two" {
		t.Fatalf("initial values = %v, want [1 two]", calls[0])
	}
}

func TestMultilink_LazySuppressesInitialInvocation(t *testing.T) {
	a := NewProperty(1)

	calls := 0
	ml, err := NewMultilink([]Dependency{a}, func([]any) { calls++ }, Lazy())
	if err != nil {
		t.Fatalf("NewMultilink: %v", err)
	}
	defer func() { _ = ml.Detach() }()

	if calls != 0 {
		t.Fatalf("lazy multilink invoked at construction")
	}
	if err := a.Set(2); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d after first change, want 1", calls)
	}
}

func TestMultilink_EmptyDependenciesRejected(t *testing.T) {
	if _, err := NewMultilink(nil, func([]any) {}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty deps error = %v, want ErrInvalidArgument", err)
	}
}

func TestMultilink_EachChangeInvokesWithAllCurrentValues(t *testing.T) {
	a := NewProperty(0)
	b := NewProperty(0)

	var calls [][]any
	ml, err := NewMultilink([]Dependency{a, b}, func(values []any) {
		calls = append(calls, values)
	}, Lazy())
	if err != nil {
		t.Fatalf("NewMultilink: %v", err)
	}
	defer func() { _ = ml.Detach() }()

	// No batching: two sequential sets are two invocations, each carrying
	// all values in dependency order.
	if err := a.Set(1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := b.Set(2); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(calls))
	}
	if calls[0][0] != 1 || calls[0][1] != 0 {
		t.Fatalf("first invocation values = %v, want [1 0]", calls[0])
	}
	if calls[1][0] != 1 || calls[1][1] != 2 {
		t.Fatalf("second invocation values = %v, want [1 2]", calls[1])
	}

	// Equality-suppressed set does not reach the observer.
	if err := a.Set(1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("suppressed set reached observer")
	}
}

func TestMultilink_DetachRemovesAllListeners(t *testing.T) {
	a := NewProperty(1)
	b := NewProperty(2)

	ml, err := NewMultilink([]Dependency{a, b}, func([]any) {})
	if err != nil {
		t.Fatalf("NewMultilink: %v", err)
	}

	if err := ml.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if a.changed().ListenerCount() != 0 || b.changed().ListenerCount() != 0 {
		t.Fatalf("dependency listeners remain after Detach")
	}
	if !ml.Detached() {
		t.Fatalf("Detached() = false after Detach")
	}

	if err := ml.Detach(); !errors.Is(err, ErrUseAfterDetach) {
		t.Fatalf("double Detach error = %v, want ErrUseAfterDetach", err)
	}
}

func TestMultilink_DetachFromInsideObserver(t *testing.T) {
	a := NewProperty(0)

	calls := 0
	var ml *Multilink
	ml, err := NewMultilink([]Dependency{a}, func([]any) {
		calls++
		if err := ml.Detach(); err != nil {
			t.Fatalf("Detach from observer: %v", err)
		}
	}, Lazy())
	if err != nil {
		t.Fatalf("NewMultilink: %v", err)
	}

	// The detach happens inside the notification triggered by this set;
	// the in-progress emission must complete without crashing.
	if err := a.Set(1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	if err := a.Set(2); err != nil {
		t.Fatalf("Set after detach: %v", err)
	}
	if calls != 1 {
		t.Fatalf("observer invoked after Detach")
	}
}
