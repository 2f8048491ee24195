package pulse

// Schema describes a property value's shape for capability queries by
// external state-inspection tooling.
type Schema struct {
	// Kind is the value kind, e.g. "number", "string", "boolean", "record".
	Kind string

	// Fields describes nested fields for record kinds, keyed by field name.
	Fields map[string]Schema
}

// StateType is an optional capability a property can carry for external
// collaborators that encode property values to and from a plain-data state
// representation. The core stores and exposes it untouched; it never calls
// these methods itself.
type StateType interface {
	// ToState encodes a live value into plain data (JSON-able).
	ToState(value any) (any, error)

	// FromState decodes plain data back into a live value.
	FromState(state any) (any, error)

	// Describe reports the value's schema.
	Describe() Schema
}
