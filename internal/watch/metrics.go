package watch

import "github.com/prometheus/client_golang/prometheus"

var (
	rawEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "browsd",
		Subsystem: "watch",
		Name:      "raw_events_total",
		Help:      "Raw backend events received, by kind.",
	}, []string{"kind"})

	classifiedChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "browsd",
		Subsystem: "watch",
		Name:      "changes_total",
		Help:      "Semantic changes produced by the classifier, by op.",
	}, []string{"op"})

	protocolViolations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "browsd",
		Subsystem: "watch",
		Name:      "rename_protocol_violations_total",
		Help:      "Rename events that could not be paired and forced a rescan.",
	})

	backendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "browsd",
		Subsystem: "watch",
		Name:      "backend_errors_total",
		Help:      "Errors delivered by the watch backend and dropped.",
	})

	retargets = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "browsd",
		Subsystem: "watch",
		Name:      "retargets_total",
		Help:      "Watch target switches, by result.",
	}, []string{"result"})

	queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "browsd",
		Subsystem: "watch",
		Name:      "queue_depth",
		Help:      "Changes waiting to be applied by the UI.",
	})
)

// Collectors returns the package's metrics for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		rawEvents,
		classifiedChanges,
		protocolViolations,
		backendErrors,
		retargets,
		queueDepth,
	}
}
