package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pulse-dev/pulse/pkg/metrics"
	"github.com/pulse-dev/pulse/pkg/pulse"
	"github.com/pulse-dev/pulse/pkg/tracing"
)

func demoCmd() *cobra.Command {
	var (
		addr     string
		interval time.Duration
		trace    bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run an instrumented thermostat model",
		Long: `Run a small reactive thermostat model built on pulse primitives.

The model walks a temperature reading toward a setpoint on a timer and
exposes its state over HTTP:

  GET /state    current property values as JSON
  GET /metrics  Prometheus metrics (property change counters and gauges)
  GET /healthz  liveness check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(addr, interval, trace)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "model update interval")
	cmd.Flags().BoolVar(&trace, "trace", false, "emit OpenTelemetry spans for property changes")

	return cmd
}

func runDemo(addr string, interval time.Duration, trace bool) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	pulse.SetLogger(logger)

	monitor := pulse.Monitor(metrics.New())
	if trace {
		monitor = pulse.CombineMonitors(monitor, tracing.New(tracing.WithIncludeValues(true)))
	}
	pulse.SetMonitor(monitor)
	defer pulse.SetMonitor(nil)

	model, err := newThermostat()
	if err != nil {
		return err
	}
	defer model.dispose()

	// Log every heating-state flip.
	heatingListener, err := model.heating.LazyLink(func(on bool, _ *bool) {
		logger.Info("heating changed", slog.Bool("on", on))
	})
	if err != nil {
		return err
	}
	defer func() { _ = model.heating.Unlink(heatingListener) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := chi.NewRouter()
	r.Get("/state", model.stateHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go model.run(ctx, interval)

	logger.Info("demo listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// thermostat is the demo model: two mutable properties and a derived
// heating flag that turns on while the reading is below the setpoint.
type thermostat struct {
	group    *pulse.Group
	setpoint *pulse.NumberProperty
	reading  *pulse.NumberProperty
	heating  *pulse.Derived[bool]
}

func newThermostat() (*thermostat, error) {
	t := &thermostat{
		setpoint: pulse.NewNumberProperty(21, pulse.WithName("thermostat.setpoint"), pulse.WithUnits("C")).WithRange(5, 35),
		reading:  pulse.NewNumberProperty(14, pulse.WithName("thermostat.reading"), pulse.WithUnits("C")),
	}

	heating, err := pulse.Derive2(t.setpoint.Property, t.reading.Property,
		func(setpoint, reading float64) bool { return reading < setpoint },
		pulse.WithName("thermostat.heating"))
	if err != nil {
		return nil, err
	}
	t.heating = heating

	group, err := pulse.NewGroup(
		pulse.EntryDef{Name: "mode", Value: "auto"},
		pulse.EntryDef{Name: "label", Value: "living room"},
	)
	if err != nil {
		return nil, err
	}
	t.group = group

	return t, nil
}

// run walks the reading toward the setpoint until ctx is done.
func (t *thermostat) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			target := t.setpoint.Get()
			current := t.reading.Get()
			step := 0.3 + rand.Float64()*0.4
			if current < target {
				current += step
			} else {
				current -= step
			}
			if err := t.reading.Set(current); err != nil {
				slog.Error("reading update failed", slog.Any("err", err))
			}
		}
	}
}

func (t *thermostat) stateHandler(w http.ResponseWriter, _ *http.Request) {
	state := map[string]any{
		"setpoint": t.setpoint.Get(),
		"reading":  t.reading.Get(),
		"heating":  t.heating.Get(),
	}
	for _, name := range t.group.Names() {
		entry, err := t.group.Entry(name)
		if err != nil {
			continue
		}
		if v, err := entry.Get(); err == nil {
			state[name] = v
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(state)
}

func (t *thermostat) dispose() {
	_ = t.heating.Dispose()
	_ = t.setpoint.Dispose()
	_ = t.reading.Dispose()
}
