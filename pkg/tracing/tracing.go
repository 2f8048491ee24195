// Package tracing routes pulse property changes into OpenTelemetry as an
// external event log. Like pkg/metrics it is a collaborator on the
// pulse.Monitor hook; the core stays unaware of it.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pulse-dev/pulse/pkg/pulse"
)

// Default tracer name for pulse applications.
const defaultTracerName = "pulse"

// Config configures the OpenTelemetry monitor.
type Config struct {
	// TracerName is the name of the tracer (default: "pulse").
	TracerName string

	// IncludeValues includes old/new values as span attributes.
	// May contain sensitive information - disabled by default.
	IncludeValues bool

	// Filter determines which changes to trace.
	// Return true to trace the change, false to skip.
	// If nil, all changes are traced.
	Filter func(c pulse.Change) bool

	// AttributeExtractor extracts custom attributes from a change.
	// Called for each traced change.
	AttributeExtractor func(c pulse.Change) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// Option configures the OpenTelemetry monitor.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithIncludeValues enables recording old/new values in span attributes.
func WithIncludeValues(include bool) Option {
	return func(c *Config) {
		c.IncludeValues = include
	}
}

// WithFilter sets a filter function for changes.
func WithFilter(filter func(c pulse.Change) bool) Option {
	return func(c *Config) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(c pulse.Change) []attribute.KeyValue) Option {
	return func(c *Config) {
		c.AttributeExtractor = extractor
	}
}

func defaultConfig() Config {
	return Config{
		TracerName: defaultTracerName,
	}
}

// Monitor implements pulse.Monitor, emitting one span per property change
// with the property name, units and (optionally) the old and new values.
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it in
// your main() before installing the monitor:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//	pulse.SetMonitor(tracing.New())
type Monitor struct {
	config Config
}

// New creates a Monitor resolving its tracer from the global provider.
func New(opts ...Option) *Monitor {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)
	return &Monitor{config: config}
}

// PropertyChanged implements pulse.Monitor.
func (m *Monitor) PropertyChanged(c pulse.Change) {
	if m.config.Filter != nil && !m.config.Filter(c) {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("pulse.property", c.Name),
	}
	if c.Units != "" {
		attrs = append(attrs, attribute.String("pulse.units", c.Units))
	}
	if m.config.IncludeValues {
		attrs = append(attrs,
			attribute.String("pulse.new", fmt.Sprint(c.New)),
			attribute.String("pulse.old", fmt.Sprint(c.Old)),
		)
	}
	if m.config.AttributeExtractor != nil {
		attrs = append(attrs, m.config.AttributeExtractor(c)...)
	}

	_, span := m.config.tracer.Start(context.Background(), "pulse.property.change",
		trace.WithAttributes(attrs...))
	span.End()
}
