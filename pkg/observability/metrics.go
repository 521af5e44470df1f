package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Delivery outcomes recorded per sink
const (
	OutcomeDelivered = "delivered"
	OutcomeSkipped   = "skipped"
	OutcomeDropped   = "dropped"
)

// Metrics holds the Prometheus collectors for sink delivery
type Metrics struct {
	registry *prometheus.Registry

	deliveries *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates collectors on a private registry so tests can build
// as many instances as they like
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	deliveries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_deliveries_total",
			Help:      "Item events handled per sink by outcome",
		},
		[]string{"sink", "event_type", "outcome"},
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sink_delivery_duration_seconds",
			Help:      "Time from listener start to sink acknowledgement",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"sink"},
	)

	registry.MustRegister(deliveries, duration)

	return &Metrics{
		registry:   registry,
		deliveries: deliveries,
		duration:   duration,
	}
}

// ObserveDelivery records one handled event. A nil receiver is a no-op
func (m *Metrics) ObserveDelivery(sink, eventType, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(sink, eventType, outcome).Inc()
	m.duration.WithLabelValues(sink).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
