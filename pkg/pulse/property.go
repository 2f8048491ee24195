package pulse

import (
	"sync"

	"github.com/pulse-dev/pulse/internal/diag"
)

// Dependency is the type-erased view of an observable property, used by
// Multilink and Derived to work with dependencies of mixed value types.
// It is implemented by Property[T] and Derived[T].
type Dependency interface {
	// AnyValue returns the current value as an interface{}.
	AnyValue() any

	// Name returns the property's identity token, or "" if unnamed.
	Name() string

	// changed returns the property's owned change emitter.
	changed() *Emitter[Change]

	// isDisposed reports whether the property has been disposed.
	isDisposed() bool
}

// Property is a single observable value cell. Setting a value that differs
// from the current one (under the property's equality function) emits a
// change notification carrying the new and old values; equal values are a
// silent no-op.
//
// The change emitter is owned by the property and disposed with it.
type Property[T any] struct {
	mu sync.Mutex

	id      uint64
	value   T
	initial T

	// equal gates both notification and derived recomputation.
	// Nil means defaultEquals.
	equal func(T, T) bool

	// validator, if set, must accept every value passed to Set.
	validator func(T) bool

	// validValues, if set, restricts the domain to a fixed set of values.
	validValues []T

	opts     propertyOptions
	emitter  *Emitter[Change]
	disposed bool

	// readonly marks a derived property's value slot: the public Set and
	// Reset are refused, only the internal recompute path may assign.
	readonly bool
}

// NewProperty creates a property holding initial, which is also the value
// restored by Reset.
func NewProperty[T any](initial T, opts ...PropertyOption) *Property[T] {
	return &Property[T]{
		id:      nextID(),
		value:   initial,
		initial: initial,
		opts:    applyOptions(opts),
		emitter: NewEmitter[Change](),
	}
}

// WithEquals configures a custom equality function and returns the property
// for chaining. Use this for value types where the default comparison is
// wrong or too expensive. The function gates Set suppression and, through
// the change notification, derived recomputation.
func (p *Property[T]) WithEquals(fn func(T, T) bool) *Property[T] {
	p.mu.Lock()
	p.equal = fn
	p.mu.Unlock()
	return p
}

// WithValidator configures a predicate every value passed to Set must
// satisfy, and returns the property for chaining.
func (p *Property[T]) WithValidator(fn func(T) bool) *Property[T] {
	p.mu.Lock()
	p.validator = fn
	p.mu.Unlock()
	return p
}

// WithValidValues restricts the property's domain to a fixed set of legal
// values and returns the property for chaining.
func (p *Property[T]) WithValidValues(values ...T) *Property[T] {
	p.mu.Lock()
	p.validValues = values
	p.mu.Unlock()
	return p
}

// ID returns the unique identifier for this property.
func (p *Property[T]) ID() uint64 {
	return p.id
}

// Name returns the property's identity token, or "" if unnamed.
func (p *Property[T]) Name() string {
	return p.opts.name
}

// Units returns the property's unit annotation, or "".
func (p *Property[T]) Units() string {
	return p.opts.units
}

// StateType returns the attached StateType capability, or nil.
func (p *Property[T]) StateType() StateType {
	return p.opts.stateType
}

// Get returns the current value. Panics with ErrUseAfterDispose if the
// property has been disposed; reading a dead cell is a lifecycle bug, not
// a recoverable condition.
func (p *Property[T]) Get() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		panic(ErrUseAfterDispose)
	}
	return p.value
}

// AnyValue returns the current value as an interface{}.
// Implements the Dependency interface.
func (p *Property[T]) AnyValue() any {
	return p.Get()
}

// Set replaces the value. It returns a *ValidationError if the value fails
// the validator or valid-values check (the prior value is retained), and
// nil without notifying if the value equals the current one. Otherwise the
// value is committed first and the change notification fires after, so
// observers calling Get inside a listener see the new value.
func (p *Property[T]) Set(value T) error {
	return p.set(value, false)
}

// Reset restores the value captured at construction, subject to the same
// equality short-circuit as Set.
func (p *Property[T]) Reset() error {
	p.mu.Lock()
	initial := p.initial
	p.mu.Unlock()
	return p.set(initial, false)
}

// set is the internal mutation path. Derived recomputation passes
// internal=true to bypass the read-only guard.
func (p *Property[T]) set(value T, internal bool) error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return ErrUseAfterDispose
	}
	if p.readonly && !internal {
		p.mu.Unlock()
		return ErrInvalidOperation
	}
	if err := p.check(value); err != nil {
		p.mu.Unlock()
		return err
	}
	if p.equals(p.value, value) {
		p.mu.Unlock()
		return nil
	}
	old := p.value
	p.value = value
	em := p.emitter
	c := Change{Name: p.opts.name, New: value, Old: old, Units: p.opts.units}
	p.mu.Unlock()

	// Value is committed; notify without holding the lock so listeners can
	// read and even set this property reentrantly.
	_ = em.Emit(c)

	if c.Name != "" {
		if m := currentMonitor(); m != nil {
			m.PropertyChanged(c)
		}
	}
	return nil
}

// check applies the domain restriction and validator. Called with mu held.
func (p *Property[T]) check(value T) error {
	if p.validValues != nil {
		ok := false
		for _, v := range p.validValues {
			if p.equals(v, value) {
				ok = true
				break
			}
		}
		if !ok {
			return &ValidationError{Property: p.opts.name, Value: value, Reason: "not a member of the valid values"}
		}
	}
	if p.validator != nil && !p.validator(value) {
		return &ValidationError{Property: p.opts.name, Value: value, Reason: "validator rejected the value"}
	}
	return nil
}

// equals applies the configured or default equality function.
func (p *Property[T]) equals(a, b T) bool {
	if p.equal != nil {
		return p.equal(a, b)
	}
	return defaultEquals(a, b)
}

// Link registers an observer and immediately invokes it once, synchronously,
// with (currentValue, nil). The returned handle is used with Unlink.
func (p *Property[T]) Link(fn func(newValue T, oldValue *T)) (*Listener[Change], error) {
	return p.link(fn, false)
}

// LazyLink registers an observer without the immediate initial invocation.
func (p *Property[T]) LazyLink(fn func(newValue T, oldValue *T)) (*Listener[Change], error) {
	return p.link(fn, true)
}

func (p *Property[T]) link(fn func(newValue T, oldValue *T), lazy bool) (*Listener[Change], error) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return nil, ErrUseAfterDispose
	}
	em := p.emitter
	p.mu.Unlock()

	// Emitted changes always carry the committed prior value, so the old
	// pointer is always non-nil here, even when the prior value itself is
	// nil for an interface-typed property. Only the registration call
	// below passes a nil old pointer.
	l := NewListener(func(c Change) {
		newValue := castValue[T](c.New)
		oldValue := castValue[T](c.Old)
		fn(newValue, &oldValue)
	})
	if err := em.AddListener(l); err != nil {
		return nil, err
	}
	if !lazy {
		fn(p.Get(), nil)
	}
	return l, nil
}

// Unlink removes a listener handle previously returned by Link, LazyLink or
// Bind. Returns ErrUnknownListener if it is not registered.
func (p *Property[T]) Unlink(l *Listener[Change]) error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return ErrUseAfterDispose
	}
	em := p.emitter
	p.mu.Unlock()
	return em.RemoveListener(l)
}

// Bind links an observer that writes every value, including the current one
// immediately, through ptr. The returned handle detaches the binding via
// Unlink.
func (p *Property[T]) Bind(ptr *T) (*Listener[Change], error) {
	return p.Link(func(newValue T, _ *T) {
		*ptr = newValue
	})
}

// changed returns the owned change emitter.
// Implements the Dependency interface.
func (p *Property[T]) changed() *Emitter[Change] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.emitter
}

// isDisposed implements the Dependency interface.
func (p *Property[T]) isDisposed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disposed
}

// Dispose severs the property. Listeners still attached at dispose time are
// a leak in the caller (commonly a Derived or Multilink still observing this
// property); they are removed and a diagnostic is logged. Every subsequent
// read, write or link fails with ErrUseAfterDispose.
func (p *Property[T]) Dispose() error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return ErrUseAfterDispose
	}
	p.disposed = true
	em := p.emitter
	name := p.opts.name
	p.mu.Unlock()

	if n := em.ListenerCount(); n > 0 {
		diag.ListenerLeak(log(), name, n)
	}
	return em.Dispose()
}
