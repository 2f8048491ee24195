package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/pulse-dev/pulse/pkg/pulse"
)

func TestMonitor_CountsAndMirrorsNumericValues(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(WithRegistry(reg), WithNamespace("test"))

	pulse.SetMonitor(m)
	defer pulse.SetMonitor(nil)

	speed := pulse.NewProperty(0.0, pulse.WithName("speed"))
	label := pulse.NewProperty("idle", pulse.WithName("label"))

	if err := speed.Set(4.5); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := speed.Set(6.0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := label.Set("running"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if got := testutil.ToFloat64(m.changesTotal.WithLabelValues("speed")); got != 2 {
		t.Fatalf("speed changes counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.changesTotal.WithLabelValues("label")); got != 1 {
		t.Fatalf("label changes counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.value.WithLabelValues("speed")); got != 6.0 {
		t.Fatalf("speed value gauge = %v, want 6", got)
	}
}

func TestAsFloat(t *testing.T) {
	if v, ok := asFloat(3); !ok || v != 3 {
		t.Fatalf("asFloat(3) = %v, %v", v, ok)
	}
	if v, ok := asFloat(true); !ok || v != 1 {
		t.Fatalf("asFloat(true) = %v, %v", v, ok)
	}
	if _, ok := asFloat("nope"); ok {
		t.Fatalf("asFloat on string reported ok")
	}
}
