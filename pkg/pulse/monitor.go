package pulse

import (
	"log/slog"
	"sync"
)

// Change is the structured payload delivered for every property change
// notification. Old is the committed prior value, which may itself be nil
// for interface-typed properties; Units is "" when the property has no
// units.
//
// The payload is shaped for external instrumentation collaborators that
// route change events into an event log keyed by the property's Name. The
// core itself never interprets it beyond delivery.
type Change struct {
	Name  string
	New   any
	Old   any
	Units string
}

// Monitor receives every change notification from properties it is
// registered with (or from all named properties, when registered globally
// via SetMonitor). Implementations live outside the core: see pkg/metrics
// and pkg/tracing.
type Monitor interface {
	PropertyChanged(c Change)
}

// CombineMonitors fans one change out to several monitors, in order.
// Nil entries are skipped.
func CombineMonitors(monitors ...Monitor) Monitor {
	return multiMonitor(monitors)
}

type multiMonitor []Monitor

func (mm multiMonitor) PropertyChanged(c Change) {
	for _, m := range mm {
		if m != nil {
			m.PropertyChanged(c)
		}
	}
}

var (
	monitorMu     sync.RWMutex
	globalMonitor Monitor

	loggerMu sync.RWMutex
	logger   *slog.Logger
)

// SetMonitor installs a process-wide monitor receiving changes from every
// named property. Pass nil to remove it. Unnamed properties are never
// reported globally; they have no stable identity token to route by.
func SetMonitor(m Monitor) {
	monitorMu.Lock()
	globalMonitor = m
	monitorMu.Unlock()
}

func currentMonitor() Monitor {
	monitorMu.RLock()
	defer monitorMu.RUnlock()
	return globalMonitor
}

// SetLogger sets the logger used for lifecycle diagnostics such as leak
// detection. If never called, slog.Default() is used.
func SetLogger(l *slog.Logger) {
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

func log() *slog.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l == nil {
		return slog.Default()
	}
	return l
}
