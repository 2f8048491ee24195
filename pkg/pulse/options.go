package pulse

// PropertyOption is a functional option for configuring properties.
type PropertyOption func(*propertyOptions)

// propertyOptions holds type-independent property configuration.
// Typed configuration (equality, validation) uses the chainable
// WithEquals/WithValidator/WithValidValues methods instead, which keep
// the value type.
type propertyOptions struct {
	// name is the property's stable identity token. Named properties are
	// reported to the global Monitor; unnamed ones are not.
	name string

	// units is the unit annotation carried in every Change payload.
	units string

	// stateType is the optional encode/decode capability for external
	// state tooling.
	stateType StateType
}

// WithName sets the property's stable identity token, used to route change
// events to instrumentation collaborators.
//
// Example:
//
//	voltage := pulse.NewProperty(0.0, pulse.WithName("circuit.voltage"))
func WithName(name string) PropertyOption {
	return func(o *propertyOptions) {
		o.name = name
	}
}

// WithUnits sets the unit annotation included in change payloads.
func WithUnits(units string) PropertyOption {
	return func(o *propertyOptions) {
		o.units = units
	}
}

// WithStateType attaches a StateType capability. The core stores it
// untouched for external collaborators to query.
func WithStateType(st StateType) PropertyOption {
	return func(o *propertyOptions) {
		o.stateType = st
	}
}

// applyOptions applies the given options and returns the resulting config.
func applyOptions(opts []PropertyOption) propertyOptions {
	var options propertyOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
