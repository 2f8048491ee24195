// Package diag defines structured diagnostic records for lifecycle misuse
// that is reported rather than returned: the offending call has already
// succeeded by the time the condition is visible, so the record is logged
// with a code and a suggestion instead of surfacing an error.
package diag

import "log/slog"

// Category classifies a diagnostic.
type Category string

const (
	CategoryLifecycle Category = "lifecycle"
	CategoryLeak      Category = "leak"
)

// Record is a single diagnostic with a stable code, a short message and a
// fix suggestion.
type Record struct {
	// Code is a unique diagnostic identifier (e.g. "D001").
	Code string

	// Category is the diagnostic type.
	Category Category

	// Message is a short description of the condition.
	Message string

	// Suggestion is a hint on how to fix the condition.
	Suggestion string
}

// Emit logs the record at warn level with any extra attributes appended.
func Emit(l *slog.Logger, r Record, attrs ...any) {
	args := []any{
		slog.String("code", r.Code),
		slog.String("category", string(r.Category)),
		slog.String("suggestion", r.Suggestion),
	}
	args = append(args, attrs...)
	l.Warn(r.Message, args...)
}

// ListenerLeak reports listeners still attached to a property at dispose
// time. The usual cause is a Derived or Multilink that was never detached
// before its dependency was disposed.
func ListenerLeak(l *slog.Logger, property string, count int) {
	Emit(l, Record{
		Code:       "D001",
		Category:   CategoryLeak,
		Message:    "property disposed with listeners still attached",
		Suggestion: "detach multilinks and dispose derived properties before disposing their dependencies",
	},
		slog.String("property", property),
		slog.Int("listeners", count),
	)
}

// DeadDependency reports a detach that found one of its dependencies
// already disposed.
func DeadDependency(l *slog.Logger, property string) {
	Emit(l, Record{
		Code:       "D002",
		Category:   CategoryLifecycle,
		Message:    "dependency was disposed while still observed",
		Suggestion: "dispose observers before their dependencies",
	},
		slog.String("property", property),
	)
}
