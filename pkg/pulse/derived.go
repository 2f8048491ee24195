package pulse

// Observable is the typed read surface shared by Property[T] and Derived[T].
type Observable[T any] interface {
	Dependency
	Get() T
}

// Derived is a read-only property whose value is always the result of
// applying a pure derivation to its dependencies' current values.
// Recomputation is eager: it happens synchronously inside a dependency's
// change notification, before the derived property's own notification
// fires, so no stale value is ever observable.
type Derived[T any] struct {
	prop *Property[T]
	ml   *Multilink
}

// NewDerived creates a derived property over deps. The derivation receives
// the dependencies' current values in dependency order. The value is
// computed synchronously during construction, so it is valid immediately.
// Returns ErrInvalidArgument if deps is empty.
func NewDerived[T any](deps []Dependency, derivation func(values []any) T, opts ...PropertyOption) (*Derived[T], error) {
	if len(deps) == 0 {
		return nil, ErrInvalidArgument
	}
	if derivation == nil {
		return nil, ErrInvalidArgument
	}

	var zero T
	d := &Derived[T]{
		prop: NewProperty(zero, opts...),
	}
	d.prop.readonly = true

	ml, err := NewMultilink(deps, func(values []any) {
		// Internal set path, bypassing the read-only guard.
		_ = d.prop.set(derivation(values), true)
	})
	if err != nil {
		_ = d.prop.Dispose()
		return nil, err
	}
	d.ml = ml
	return d, nil
}

// Derive1 creates a derived property over one typed dependency.
func Derive1[A, T any](a Observable[A], fn func(A) T, opts ...PropertyOption) (*Derived[T], error) {
	return NewDerived([]Dependency{a}, func(values []any) T {
		return fn(castValue[A](values[0]))
	}, opts...)
}

// Derive2 creates a derived property over two typed dependencies.
func Derive2[A, B, T any](a Observable[A], b Observable[B], fn func(A, B) T, opts ...PropertyOption) (*Derived[T], error) {
	return NewDerived([]Dependency{a, b}, func(values []any) T {
		return fn(castValue[A](values[0]), castValue[B](values[1]))
	}, opts...)
}

// Derive3 creates a derived property over three typed dependencies.
func Derive3[A, B, C, T any](a Observable[A], b Observable[B], c Observable[C], fn func(A, B, C) T, opts ...PropertyOption) (*Derived[T], error) {
	return NewDerived([]Dependency{a, b, c}, func(values []any) T {
		return fn(castValue[A](values[0]), castValue[B](values[1]), castValue[C](values[2]))
	}, opts...)
}

// Get returns the current derived value.
func (d *Derived[T]) Get() T {
	return d.prop.Get()
}

// AnyValue implements the Dependency interface.
func (d *Derived[T]) AnyValue() any {
	return d.prop.AnyValue()
}

// ID returns the unique identifier of the underlying value slot.
func (d *Derived[T]) ID() uint64 {
	return d.prop.ID()
}

// Name implements the Dependency interface.
func (d *Derived[T]) Name() string {
	return d.prop.Name()
}

// Units returns the unit annotation, or "".
func (d *Derived[T]) Units() string {
	return d.prop.Units()
}

// StateType returns the attached StateType capability, or nil.
func (d *Derived[T]) StateType() StateType {
	return d.prop.StateType()
}

// Set always fails with ErrInvalidOperation: a derived property is a
// read-only projection of its dependencies.
func (d *Derived[T]) Set(T) error {
	return ErrInvalidOperation
}

// Reset always fails with ErrInvalidOperation.
func (d *Derived[T]) Reset() error {
	return ErrInvalidOperation
}

// Link registers an observer and immediately invokes it with
// (currentValue, nil).
func (d *Derived[T]) Link(fn func(newValue T, oldValue *T)) (*Listener[Change], error) {
	return d.prop.Link(fn)
}

// LazyLink registers an observer without the initial invocation.
func (d *Derived[T]) LazyLink(fn func(newValue T, oldValue *T)) (*Listener[Change], error) {
	return d.prop.LazyLink(fn)
}

// Unlink removes a listener handle.
func (d *Derived[T]) Unlink(l *Listener[Change]) error {
	return d.prop.Unlink(l)
}

// changed implements the Dependency interface, allowing derived properties
// to be dependencies of further derived properties and multilinks.
func (d *Derived[T]) changed() *Emitter[Change] {
	return d.prop.changed()
}

// isDisposed implements the Dependency interface.
func (d *Derived[T]) isDisposed() bool {
	return d.prop.isDisposed()
}

// Dispose detaches the dependency listeners first, then disposes the
// underlying value slot. The order matters: disposing the value slot while
// the multilink is live would notify a dead observer.
func (d *Derived[T]) Dispose() error {
	if err := d.ml.Detach(); err != nil {
		return err
	}
	return d.prop.Dispose()
}

// And returns a derived property that is true while every dependency is
// true. Dependencies must be bool-typed observables.
func And(deps []Observable[bool], opts ...PropertyOption) (*Derived[bool], error) {
	return NewDerived(asDependencies(deps), func(values []any) bool {
		for _, v := range values {
			if !castValue[bool](v) {
				return false
			}
		}
		return true
	}, opts...)
}

// Or returns a derived property that is true while any dependency is true.
func Or(deps []Observable[bool], opts ...PropertyOption) (*Derived[bool], error) {
	return NewDerived(asDependencies(deps), func(values []any) bool {
		for _, v := range values {
			if castValue[bool](v) {
				return true
			}
		}
		return false
	}, opts...)
}

// ValueEquals returns a derived property tracking whether a's and b's
// current values are equal under the default equality rules.
func ValueEquals(a, b Dependency, opts ...PropertyOption) (*Derived[bool], error) {
	return NewDerived([]Dependency{a, b}, func(values []any) bool {
		return anyEquals(values[0], values[1])
	}, opts...)
}

func asDependencies(deps []Observable[bool]) []Dependency {
	out := make([]Dependency, len(deps))
	for i, d := range deps {
		out[i] = d
	}
	return out
}
