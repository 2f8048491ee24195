package pulse

// NumberProperty wraps Property[float64] with range validation and
// arithmetic convenience methods.
type NumberProperty struct {
	*Property[float64]
}

// NewNumberProperty creates a NumberProperty with the given initial value.
func NewNumberProperty(initial float64, opts ...PropertyOption) *NumberProperty {
	return &NumberProperty{NewProperty(initial, opts...)}
}

// WithRange restricts the property to the closed interval [min, max] and
// returns the property for chaining. Values outside the range fail Set with
// a *ValidationError.
func (n *NumberProperty) WithRange(min, max float64) *NumberProperty {
	n.WithValidator(func(v float64) bool {
		return v >= min && v <= max
	})
	return n
}

// Add adds delta to the current value.
func (n *NumberProperty) Add(delta float64) error {
	return n.Set(n.Get() + delta)
}

// Sub subtracts delta from the current value.
func (n *NumberProperty) Sub(delta float64) error {
	return n.Set(n.Get() - delta)
}
