// Package pulse provides observable value primitives for building reactive
// model layers.
//
// The package is built around four mechanisms: a multi-listener Emitter with
// reentrancy-safe notification, a mutable observable Property, a read-only
// Derived property recomputed from its dependencies, and a Multilink that
// fans one observer into several properties.
//
// # Core Types
//
// Property[T] is an observable value cell:
//
//	count := pulse.NewProperty(0)
//	l, _ := count.Link(func(newValue int, oldValue *int) {
//	    fmt.Println("count is", newValue)
//	})
//	count.Set(5)       // Notifies with (5, 0)
//	count.Reset()      // Back to 0
//	count.Unlink(l)
//
// Derived[T] is a read-only projection over other properties:
//
//	sum, _ := pulse.Derive2(a, b, func(x, y int) int { return x + y })
//	sum.Get()          // Always derivation(a, b); recomputed eagerly
//
// Multilink invokes one observer on every change to any dependency:
//
//	ml, _ := pulse.NewMultilink([]pulse.Dependency{a, b}, func(values []any) {
//	    fmt.Println("a or b changed:", values)
//	})
//	ml.Detach()
//
// Group indexes properties by name and supports bulk reset and bulk set:
//
//	g, _ := pulse.NewGroup(pulse.EntryDef{Name: "speed", Value: 0.0})
//	speed, _ := g.Entry("speed")
//	speed.Set(12.5)
//	g.ResetAll()
//
// # Reentrancy
//
// Notification is synchronous and reentrant. A listener may add or remove
// listeners (including itself) on the emitter that is currently notifying,
// and may set the very property whose change it is observing. Each emission
// iterates a defended snapshot of the listener list: the list as of emission
// start, with concurrent additions excluded and removals tolerated. Nested
// emissions fully unwind before the outer iteration resumes.
//
// # Concurrency
//
// The primitives are designed for single-goroutine, synchronous use; every
// Set, Emit and recompute runs to completion before returning. Internal
// locking makes cross-goroutine access safe, but ordering across goroutines
// is the caller's concern.
package pulse
