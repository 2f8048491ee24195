package pulse

import "sync"

// emitFrame tracks one in-progress emission. Until defended, snapshot
// aliases the emitter's live listener slice; the first mutation during the
// frame's lifetime copies it so the in-flight iteration keeps seeing the
// listener list as of emission start.
type emitFrame[T any] struct {
	snapshot []*Listener[T]
	defended bool
}

// Emitter is a multi-listener notification channel carrying one payload
// value per emission. Listeners are invoked synchronously in insertion
// order.
//
// Mutating the listener list from inside a listener is safe: the active
// emission keeps iterating its defended snapshot, so additions during an
// emission are excluded from it and removals are still invoked once more.
// This is the snapshot-on-mutate (copy-on-write listener list) pattern; it
// applies to any number of nested emissions, each of which completes before
// the enclosing iteration resumes.
type Emitter[T any] struct {
	mu        sync.Mutex
	listeners []*Listener[T]

	// frames is the stack of in-progress emissions, outermost first.
	frames []*emitFrame[T]

	disposed bool
}

// NewEmitter creates an emitter with no listeners.
func NewEmitter[T any]() *Emitter[T] {
	return &Emitter[T]{}
}

// defendFrames snapshots every undefended active frame. Called with mu held,
// before any mutation of the listener list.
func (e *Emitter[T]) defendFrames() {
	for _, f := range e.frames {
		if !f.defended {
			snap := make([]*Listener[T], len(f.snapshot))
			copy(snap, f.snapshot)
			f.snapshot = snap
			f.defended = true
		}
	}
}

// indexOf returns the listener's position, or -1. Called with mu held.
func (e *Emitter[T]) indexOf(l *Listener[T]) int {
	if l == nil {
		return -1
	}
	for i, existing := range e.listeners {
		if existing.id == l.id {
			return i
		}
	}
	return -1
}

// AddListener registers a listener handle. The handle must not already be
// registered; in-progress emissions do not see the addition.
func (e *Emitter[T]) AddListener(l *Listener[T]) error {
	if l == nil {
		return ErrInvalidArgument
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed {
		return ErrUseAfterDispose
	}
	if e.indexOf(l) >= 0 {
		return ErrDuplicateListener
	}

	e.defendFrames()
	e.listeners = append(e.listeners, l)
	return nil
}

// RemoveListener deregisters a listener handle. An emission already in
// progress still invokes the removed listener once more, because its frame
// is defended before the removal takes effect.
func (e *Emitter[T]) RemoveListener(l *Listener[T]) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed {
		return ErrUseAfterDispose
	}
	i := e.indexOf(l)
	if i < 0 {
		return ErrUnknownListener
	}

	e.defendFrames()
	e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
	return nil
}

// RemoveAllListeners removes every listener, one at a time through
// RemoveListener so frame defense applies to each removal.
func (e *Emitter[T]) RemoveAllListeners() {
	for {
		e.mu.Lock()
		if len(e.listeners) == 0 {
			e.mu.Unlock()
			return
		}
		l := e.listeners[len(e.listeners)-1]
		e.mu.Unlock()

		// Ignore a concurrent removal racing us to the same handle.
		_ = e.RemoveListener(l)
	}
}

// Emit invokes every registered listener with value, in insertion order.
// Listeners run without the emitter's lock held, so they may freely add or
// remove listeners or emit again; a nested Emit pushes its own frame and
// fully unwinds before this one's iteration resumes.
func (e *Emitter[T]) Emit(value T) error {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return ErrUseAfterDispose
	}
	f := &emitFrame[T]{snapshot: e.listeners}
	e.frames = append(e.frames, f)
	e.mu.Unlock()

	for i := 0; ; i++ {
		e.mu.Lock()
		if i >= len(f.snapshot) {
			e.mu.Unlock()
			break
		}
		fn := f.snapshot[i].fn
		e.mu.Unlock()

		fn(value)
	}

	e.mu.Lock()
	for j := len(e.frames) - 1; j >= 0; j-- {
		if e.frames[j] == f {
			e.frames = append(e.frames[:j], e.frames[j+1:]...)
			break
		}
	}
	e.mu.Unlock()
	return nil
}

// HasListener reports whether the handle is currently registered. The query
// methods stay callable after Dispose and report the emptied state.
func (e *Emitter[T]) HasListener(l *Listener[T]) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.indexOf(l) >= 0
}

// HasListeners reports whether any listener is registered.
func (e *Emitter[T]) HasListeners() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners) > 0
}

// ListenerCount returns the number of registered listeners.
func (e *Emitter[T]) ListenerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Dispose removes any remaining listeners and marks the emitter unusable:
// every later mutation or Emit fails with ErrUseAfterDispose. Disposing with
// listeners still attached is not an error; they are removed.
func (e *Emitter[T]) Dispose() error {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return ErrUseAfterDispose
	}
	e.mu.Unlock()

	e.RemoveAllListeners()

	e.mu.Lock()
	e.disposed = true
	e.mu.Unlock()
	return nil
}

// isDisposed reports the dispose flag.
func (e *Emitter[T]) isDisposed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed
}
