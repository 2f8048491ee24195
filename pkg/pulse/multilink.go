package pulse

import (
	"sync"

	"github.com/pulse-dev/pulse/internal/diag"
)

// MultilinkOption is a functional option for configuring multilinks.
type MultilinkOption func(*multilinkOptions)

type multilinkOptions struct {
	lazy bool
}

// Lazy suppresses the initial synchronous observer invocation normally
// performed at construction.
func Lazy() MultilinkOption {
	return func(o *multilinkOptions) {
		o.lazy = true
	}
}

// Multilink registers one observer against several dependencies. Any change
// to any dependency invokes the observer with the current values of all
// dependencies, in dependency order. There is no batching: N dependency
// changes yield N observer invocations (minus any suppressed by a
// dependency's own equality short-circuit).
//
// The dependencies are referenced, not owned; detaching the multilink is
// the caller's responsibility and must happen before the dependencies are
// disposed.
type Multilink struct {
	mu           sync.Mutex
	deps         []Dependency
	depListeners []*Listener[Change]
	observer     func(values []any)
	detached     bool
}

// NewMultilink installs one listener per dependency and, unless Lazy() is
// given, invokes observer once synchronously with the current values.
// Returns ErrInvalidArgument if deps is empty.
func NewMultilink(deps []Dependency, observer func(values []any), opts ...MultilinkOption) (*Multilink, error) {
	if len(deps) == 0 {
		return nil, ErrInvalidArgument
	}
	if observer == nil {
		return nil, ErrInvalidArgument
	}
	var options multilinkOptions
	for _, opt := range opts {
		opt(&options)
	}

	m := &Multilink{
		deps:         make([]Dependency, len(deps)),
		depListeners: make([]*Listener[Change], len(deps)),
		observer:     observer,
	}
	copy(m.deps, deps)

	for i, dep := range m.deps {
		l := NewListener(func(Change) {
			m.notify()
		})
		if err := dep.changed().AddListener(l); err != nil {
			// Roll back the listeners installed so far.
			for j := 0; j < i; j++ {
				_ = m.deps[j].changed().RemoveListener(m.depListeners[j])
			}
			return nil, err
		}
		m.depListeners[i] = l
	}

	if !options.lazy {
		m.notify()
	}
	return m, nil
}

// notify invokes the observer with all dependencies' current values.
func (m *Multilink) notify() {
	m.mu.Lock()
	if m.detached {
		// A dependency's in-progress emission may still deliver one
		// notification after Detach; drop it.
		m.mu.Unlock()
		return
	}
	deps := m.deps
	observer := m.observer
	m.mu.Unlock()

	values := make([]any, len(deps))
	for i, dep := range deps {
		values[i] = dep.AnyValue()
	}
	observer(values)
}

// Detach removes every installed dependency listener and nulls out the
// dependency and observer references; the multilink is unusable afterwards
// and a second Detach fails with ErrUseAfterDetach.
//
// Detach is safe to call from inside the observer itself: the dependency's
// in-progress emission keeps iterating its defended listener snapshot.
func (m *Multilink) Detach() error {
	m.mu.Lock()
	if m.detached {
		m.mu.Unlock()
		return ErrUseAfterDetach
	}
	m.detached = true
	deps := m.deps
	listeners := m.depListeners
	m.deps = nil
	m.depListeners = nil
	m.observer = nil
	m.mu.Unlock()

	for i, dep := range deps {
		if dep.isDisposed() {
			// The dependency was torn down while we still observed it.
			// Our listener is already gone; report the ordering bug.
			diag.DeadDependency(log(), dep.Name())
			continue
		}
		_ = dep.changed().RemoveListener(listeners[i])
	}
	return nil
}

// Detached reports whether Detach has been called.
func (m *Multilink) Detached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detached
}
