// Package metrics exposes pulse property activity as Prometheus metrics.
// It is an instrumentation collaborator: it consumes the structured change
// payload routed through the pulse.Monitor hook and never reaches into the
// core primitives.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pulse-dev/pulse/pkg/pulse"
)

// Config configures the Prometheus monitor.
type Config struct {
	// Namespace is the metrics namespace (default: "pulse").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus monitor.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "pulse",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Monitor implements pulse.Monitor, counting change notifications and
// mirroring numeric property values into a gauge.
//
// Metrics collected:
//   - pulse_property_changes_total: Counter of change notifications by property
//   - pulse_property_value: Gauge of the latest numeric value by property
//
// Example:
//
//	pulse.SetMonitor(metrics.New(metrics.WithNamespace("myapp")))
//	http.Handle("/metrics", promhttp.Handler())
type Monitor struct {
	changesTotal *prometheus.CounterVec
	value        *prometheus.GaugeVec
}

// New creates a Monitor registered with the configured registry.
func New(opts ...Option) *Monitor {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)
	return &Monitor{
		changesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "property_changes_total",
			Help:        "Total number of property change notifications",
			ConstLabels: config.ConstLabels,
		}, []string{"property"}),

		value: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "property_value",
			Help:        "Latest numeric value of a property",
			ConstLabels: config.ConstLabels,
		}, []string{"property"}),
	}
}

// PropertyChanged implements pulse.Monitor.
func (m *Monitor) PropertyChanged(c pulse.Change) {
	m.changesTotal.WithLabelValues(c.Name).Inc()
	if v, ok := asFloat(c.New); ok {
		m.value.WithLabelValues(c.Name).Set(v)
	}
}

// asFloat widens numeric change payloads for the value gauge.
// Non-numeric properties are counted but not mirrored.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
