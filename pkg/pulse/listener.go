package pulse

// Listener is a registered callback handle for an Emitter.
//
// Go functions are not comparable, so the handle carries a unique ID that
// gives each registration a stable identity. Registering the same handle
// twice is a contract violation; wrapping the same func in two handles via
// NewListener yields two independent registrations.
type Listener[T any] struct {
	id uint64
	fn func(T)
}

// NewListener wraps fn in a listener handle with a fresh identity.
func NewListener[T any](fn func(T)) *Listener[T] {
	return &Listener[T]{id: nextID(), fn: fn}
}

// ID returns the unique identifier for this listener.
// Used for duplicate detection and removal.
func (l *Listener[T]) ID() uint64 {
	return l.id
}
