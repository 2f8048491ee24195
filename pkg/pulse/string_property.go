package pulse

// StringProperty wraps Property[string]. Use WithValidValues to restrict it
// to an enumerated domain.
type StringProperty struct {
	*Property[string]
}

// NewStringProperty creates a StringProperty with the given initial value.
func NewStringProperty(initial string, opts ...PropertyOption) *StringProperty {
	return &StringProperty{NewProperty(initial, opts...)}
}

// IsEmpty reports whether the current value is the empty string.
func (s *StringProperty) IsEmpty() bool {
	return s.Get() == ""
}
