package pulse

import (
	"errors"
	"fmt"
)

// ErrDuplicateListener is returned when a listener handle is added to an
// emitter it is already registered with. This is a programmer error: the
// caller holds the handle and should not add it twice.
var ErrDuplicateListener = errors.New("pulse: listener already registered")

// ErrUnknownListener is returned when removing or unlinking a listener
// handle that is not registered.
var ErrUnknownListener = errors.New("pulse: listener not registered")

// ErrInvalidOperation is returned when mutating a read-only derived property.
// Derived values change only through recomputation from their dependencies.
var ErrInvalidOperation = errors.New("pulse: derived property is read-only")

// ErrDuplicateName is returned when adding a group entry under a name that
// is already present.
var ErrDuplicateName = errors.New("pulse: name already present in group")

// ErrUnknownName is returned when a group operation references a name with
// no backing entry, including use of a retracted entry handle.
var ErrUnknownName = errors.New("pulse: no entry with that name")

// ErrUseAfterDispose is returned when a disposed emitter or property is
// read, written, or linked to.
var ErrUseAfterDispose = errors.New("pulse: use after dispose")

// ErrUseAfterDetach is returned when a detached multilink is detached again.
var ErrUseAfterDetach = errors.New("pulse: multilink already detached")

// ErrInvalidArgument is returned for malformed construction arguments, such
// as an empty dependency list.
var ErrInvalidArgument = errors.New("pulse: invalid argument")

// ValidationError reports a value rejected by a property's validator or
// valid-values domain. The property retains its prior value.
type ValidationError struct {
	// Property is the property's registered name, or "" if unnamed.
	Property string

	// Value is the rejected value.
	Value any

	// Reason is a short description of the failed check.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("pulse: invalid value %v for property %q: %s", e.Value, e.Property, e.Reason)
	}
	return fmt.Sprintf("pulse: invalid value %v: %s", e.Value, e.Reason)
}
