package pulse

// BoolProperty wraps Property[bool] with convenience methods for boolean
// state.
type BoolProperty struct {
	*Property[bool]
}

// NewBoolProperty creates a BoolProperty with the given initial value.
func NewBoolProperty(initial bool, opts ...PropertyOption) *BoolProperty {
	return &BoolProperty{NewProperty(initial, opts...)}
}

// Toggle inverts the boolean value.
func (b *BoolProperty) Toggle() error {
	return b.Set(!b.Get())
}

// SetTrue sets the value to true.
func (b *BoolProperty) SetTrue() error {
	return b.Set(true)
}

// SetFalse sets the value to false.
func (b *BoolProperty) SetFalse() error {
	return b.Set(false)
}
