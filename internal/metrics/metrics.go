// Package metrics exposes Prometheus counters describing module lifecycles,
// controller traffic and popup transitions.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	modulesCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "modbar",
		Name:      "modules_created_total",
		Help:      "Modules constructed successfully, by kind.",
	}, []string{"kind"})

	moduleFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "modbar",
		Name:      "module_failures_total",
		Help:      "Modules whose construction failed, by kind.",
	}, []string{"kind"})

	controllersRunning = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "modbar",
		Name:      "controllers_running",
		Help:      "Controllers that have not yet terminated.",
	})

	commands = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "modbar",
		Name:      "commands_total",
		Help:      "Commands received by controllers, by outcome.",
	}, []string{"outcome"})

	dropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "modbar",
		Name:      "messages_dropped_total",
		Help:      "UI to controller messages dropped because the channel was full or closed.",
	})

	popups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "modbar",
		Name:      "popup_transitions_total",
		Help:      "Popup visibility changes, by action.",
	}, []string{"action"})
)

func init() {
	registry.MustRegister(modulesCreated, moduleFailures, controllersRunning, commands, dropped, popups)
}

// Outcome labels for CommandHandled.
const (
	OutcomeScript  = "script"
	OutcomePopup   = "popup"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

func ModuleCreated(kind string) { modulesCreated.WithLabelValues(kind).Inc() }

func ModuleFailed(kind string) { moduleFailures.WithLabelValues(kind).Inc() }

func ControllerStarted() { controllersRunning.Inc() }

func ControllerTerminated() { controllersRunning.Dec() }

func CommandHandled(outcome string) { commands.WithLabelValues(outcome).Inc() }

func MessageDropped() { dropped.Inc() }

func PopupTransition(action string) { popups.WithLabelValues(action).Inc() }

// Registry returns the registry every collector is registered with.
func Registry() *prometheus.Registry {
	return registry
}

// Handler serves the metrics endpoint and a trivial health probe.
func Handler() http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Serve listens on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
