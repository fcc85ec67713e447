// Package metrics provides Prometheus metrics for the engine control
// surface and the streaming session lifecycle.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "obsnode",
		Subsystem: "control",
		Name:      "commands_total",
		Help:      "Control commands processed, by command and outcome",
	}, []string{"command", "outcome"})

	commandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "obsnode",
		Subsystem: "control",
		Name:      "command_duration_seconds",
		Help:      "Duration of asynchronous control commands",
		Buckets:   prometheus.DefBuckets,
	}, []string{"command"})

	engineInitialized = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "obsnode",
		Subsystem: "engine",
		Name:      "initialized",
		Help:      "Whether the engine core is initialized (1) or not (0)",
	})

	sessionState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "obsnode",
		Subsystem: "session",
		Name:      "state",
		Help:      "Current session state (1 on the active state, 0 elsewhere)",
	}, []string{"state"})

	sessionResources = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "obsnode",
		Subsystem: "session",
		Name:      "resources_live",
		Help:      "Live engine handles held by the session registry, by kind",
	}, []string{"kind"})
)

// Session states tracked by the state gauge.
var knownStates = []string{"idle", "starting", "running", "stopping"}

// ObserveCommand records one completed control command.
func ObserveCommand(command string, err error, duration time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	commandsTotal.WithLabelValues(command, outcome).Inc()
	commandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// SetEngineInitialized sets the engine up/down gauge.
func SetEngineInitialized(up bool) {
	if up {
		engineInitialized.Set(1)
	} else {
		engineInitialized.Set(0)
	}
}

// SetSessionState marks the current session state on the state gauge.
func SetSessionState(state string) {
	for _, s := range knownStates {
		v := 0.0
		if s == state {
			v = 1
		}
		sessionState.WithLabelValues(s).Set(v)
	}
}

// ResourceAcquired records one acquired session handle of the given kind.
func ResourceAcquired(kind string) {
	sessionResources.WithLabelValues(kind).Inc()
}

// ResourceReleased records one released session handle of the given kind.
func ResourceReleased(kind string) {
	sessionResources.WithLabelValues(kind).Dec()
}
