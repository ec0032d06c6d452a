// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "registry_operations_total", Help: "Registry operations by name and outcome"},
		[]string{"operation", "outcome"},
	)
	Entities = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "registry_entities", Help: "Number of stored entities per kind"},
		[]string{"kind"},
	)
	PublishFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "registry_event_publish_failures_total", Help: "Events that could not be published"},
	)
)

// Register adds every collector to the default registry.  Call once at
// start-up.
func Register() {
	prometheus.MustRegister(Operations, Entities, PublishFailures)
}

// Observe counts one operation; outcome is "ok" when err is nil and the
// error's label otherwise.
func Observe(operation string, outcome string) {
	Operations.WithLabelValues(operation, outcome).Inc()
}
