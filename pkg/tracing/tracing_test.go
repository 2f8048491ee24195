package tracing

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"

	"github.com/pulse-dev/pulse/pkg/pulse"
)

// captureTracer records the span names and start attributes it is asked for,
// returning the no-op span.
type captureTracer struct {
	embedded.Tracer
	names []string
	attrs []attribute.KeyValue
}

func (ct *captureTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	ct.names = append(ct.names, name)
	cfg := trace.NewSpanStartConfig(opts...)
	ct.attrs = append(ct.attrs, cfg.Attributes()...)
	return ctx, trace.SpanFromContext(ctx)
}

func findAttr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestMonitor_EmitsSpanWithAttributes(t *testing.T) {
	ct := &captureTracer{}
	m := New(
		WithIncludeValues(true),
		WithAttributeExtractor(func(c pulse.Change) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", c.Name)}
		}),
	)
	m.config.tracer = ct

	m.PropertyChanged(pulse.Change{Name: "motor.speed", New: 2.5, Old: 0.0, Units: "m/s"})

	if len(ct.names) != 1 || ct.names[0] != "pulse.property.change" {
		t.Fatalf("span names = %v, want one pulse.property.change", ct.names)
	}
	if v, ok := findAttr(ct.attrs, "pulse.property"); !ok || v.AsString() != "motor.speed" {
		t.Fatalf("pulse.property attribute = %v, %t", v.AsString(), ok)
	}
	if v, ok := findAttr(ct.attrs, "pulse.units"); !ok || v.AsString() != "m/s" {
		t.Fatalf("pulse.units attribute = %v, %t", v.AsString(), ok)
	}
	if v, ok := findAttr(ct.attrs, "pulse.new"); !ok || v.AsString() != "2.5" {
		t.Fatalf("pulse.new attribute = %v, %t", v.AsString(), ok)
	}
	if v, ok := findAttr(ct.attrs, "pulse.old"); !ok || v.AsString() != "0" {
		t.Fatalf("pulse.old attribute = %v, %t", v.AsString(), ok)
	}
	if v, ok := findAttr(ct.attrs, "test.attr"); !ok || v.AsString() != "motor.speed" {
		t.Fatalf("extractor attribute = %v, %t", v.AsString(), ok)
	}
}

func TestMonitor_DefaultsExcludeValuesAndEmptyUnits(t *testing.T) {
	ct := &captureTracer{}
	m := New()
	if m.config.TracerName != "pulse" {
		t.Fatalf("default tracer name = %q, want pulse", m.config.TracerName)
	}
	m.config.tracer = ct

	m.PropertyChanged(pulse.Change{Name: "label", New: "on", Old: "off"})

	if len(ct.names) != 1 {
		t.Fatalf("span count = %d, want 1", len(ct.names))
	}
	if _, ok := findAttr(ct.attrs, "pulse.new"); ok {
		t.Fatalf("pulse.new recorded without WithIncludeValues")
	}
	if _, ok := findAttr(ct.attrs, "pulse.old"); ok {
		t.Fatalf("pulse.old recorded without WithIncludeValues")
	}
	if _, ok := findAttr(ct.attrs, "pulse.units"); ok {
		t.Fatalf("pulse.units recorded for a unitless change")
	}
}

func TestMonitor_FilterSkipsTracing(t *testing.T) {
	ct := &captureTracer{}
	extractorCalls := 0
	m := New(
		WithFilter(func(c pulse.Change) bool { return c.Name != "noisy" }),
		WithAttributeExtractor(func(pulse.Change) []attribute.KeyValue {
			extractorCalls++
			return nil
		}),
	)
	m.config.tracer = ct

	m.PropertyChanged(pulse.Change{Name: "noisy", New: 1, Old: 0})
	if len(ct.names) != 0 {
		t.Fatalf("filtered change started a span: %v", ct.names)
	}
	if extractorCalls != 0 {
		t.Fatalf("extractor called for a filtered change")
	}

	m.PropertyChanged(pulse.Change{Name: "quiet", New: 1, Old: 0})
	if len(ct.names) != 1 {
		t.Fatalf("span count = %d after unfiltered change, want 1", len(ct.names))
	}
	if extractorCalls != 1 {
		t.Fatalf("extractor calls = %d, want 1", extractorCalls)
	}
}
