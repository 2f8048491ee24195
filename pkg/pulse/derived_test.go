package pulse

import (
	"errors"
	"testing"
)

func TestDerived_SumRecomputesEagerly(t *testing.T) {
	a := NewProperty(1)
	b := NewProperty(2)

	sum, err := Derive2(a, b, func(x, y int) int { return x + y })
	if err != nil {
		t.Fatalf("Derive2: %v", err)
	}
	if got := sum.Get(); got != 3 {
		t.Fatalf("Get() immediately after construction = %d, want 3", got)
	}

	if err := a.Set(7); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := sum.Get(); got != 9 {
		t.Fatalf("Get() after a.Set(7) = %d, want 9", got)
	}
}

func TestDerived_EmptyDependenciesRejected(t *testing.T) {
	if _, err := NewDerived(nil, func([]any) int { return 0 }); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty deps error = %v, want ErrInvalidArgument", err)
	}
}

func TestDerived_SetAndResetAreInvalid(t *testing.T) {
	a := NewProperty(1)
	d, err := Derive1(a, func(x int) int { return x * 2 })
	if err != nil {
		t.Fatalf("Derive1: %v", err)
	}

	if err := d.Set(99); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("Set error = %v, want ErrInvalidOperation", err)
	}
	if err := d.Reset(); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("Reset error = %v, want ErrInvalidOperation", err)
	}
	if got := d.Get(); got != 2 {
		t.Fatalf("value disturbed by rejected mutation: %d", got)
	}
}

func TestDerived_RecomputeBeforeOwnNotification(t *testing.T) {
	a := NewProperty(1)
	d, err := Derive1(a, func(x int) int { return x * 10 })
	if err != nil {
		t.Fatalf("Derive1: %v", err)
	}

	// An external listener on the derived property must never observe a
	// caching gap: by the time the notification fires the value is current.
	if _, err := d.LazyLink(func(newValue int, _ *int) {
		if got := d.Get(); got != newValue {
			t.Fatalf("derived Get() = %d inside notification of %d", got, newValue)
		}
	}); err != nil {
		t.Fatalf("LazyLink: %v", err)
	}

	if err := a.Set(4); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := d.Get(); got != 40 {
		t.Fatalf("Get() = %d, want 40", got)
	}
}

func TestDerived_ChainsThroughDerived(t *testing.T) {
	a := NewProperty(2)
	doubled, err := Derive1(a, func(x int) int { return x * 2 })
	if err != nil {
		t.Fatalf("Derive1: %v", err)
	}
	quadrupled, err := Derive1[int, int](doubled, func(x int) int { return x * 2 })
	if err != nil {
		t.Fatalf("Derive1 over derived: %v", err)
	}

	if got := quadrupled.Get(); got != 8 {
		t.Fatalf("Get() = %d, want 8", got)
	}
	if err := a.Set(5); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := quadrupled.Get(); got != 20 {
		t.Fatalf("Get() after a.Set(5) = %d, want 20", got)
	}
}

func TestDerived_DisposeUnlinksDependencies(t *testing.T) {
	a := NewProperty(1)
	b := NewProperty(2)
	before := a.changed().ListenerCount() + b.changed().ListenerCount()

	d, err := Derive2(a, b, func(x, y int) int { return x + y })
	if err != nil {
		t.Fatalf("Derive2: %v", err)
	}
	if a.changed().ListenerCount()+b.changed().ListenerCount() != before+2 {
		t.Fatalf("dependency listeners not installed")
	}

	if err := d.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if got := a.changed().ListenerCount() + b.changed().ListenerCount(); got != before {
		t.Fatalf("leaked %d dependency listeners after Dispose", got-before)
	}

	// Dependencies stay fully usable.
	if err := a.Set(10); err != nil {
		t.Fatalf("Set after derived dispose: %v", err)
	}
}

func TestDerived_AndOrCombinators(t *testing.T) {
	a := NewBoolProperty(false)
	b := NewBoolProperty(false)
	c := NewBoolProperty(false)
	bools := []Observable[bool]{a, b, c}

	all, err := And(bools)
	if err != nil {
		t.Fatalf("And: %v", err)
	}
	anyOf, err := Or(bools)
	if err != nil {
		t.Fatalf("Or: %v", err)
	}

	if all.Get() || anyOf.Get() {
		t.Fatalf("And=%v Or=%v with all false, want false false", all.Get(), anyOf.Get())
	}

	if err := a.SetTrue(); err != nil {
		t.Fatalf("SetTrue: %v", err)
	}
	if all.Get() {
		t.Fatalf("And true after one of three")
	}
	if !anyOf.Get() {
		t.Fatalf("Or false after first true")
	}

	if err := b.SetTrue(); err != nil {
		t.Fatalf("SetTrue: %v", err)
	}
	if all.Get() {
		t.Fatalf("And true after two of three")
	}

	if err := c.SetTrue(); err != nil {
		t.Fatalf("SetTrue: %v", err)
	}
	if !all.Get() {
		t.Fatalf("And false after third true")
	}
}

func TestDerived_ValueEquals(t *testing.T) {
	a := NewProperty("x")
	b := NewProperty("y")

	eq, err := ValueEquals(a, b)
	if err != nil {
		t.Fatalf("ValueEquals: %v", err)
	}
	if eq.Get() {
		t.Fatalf("ValueEquals true for x/y")
	}

	if err := b.Set("x"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !eq.Get() {
		t.Fatalf("ValueEquals false for x/x")
	}
}
