// Package metrics holds the Prometheus metrics of a population run.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the metrics for one run on a private registry.
type Metrics struct {
	registry         *prometheus.Registry
	ClientsCreated   prometheus.Counter
	DocumentsCreated prometheus.Counter
	Generated        *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

// New creates and registers the run metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ClientsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "wealth_populate_clients_created_total",
			Help: "Total number of clients created by the run",
		}),
		DocumentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "wealth_populate_documents_created_total",
			Help: "Total number of documents created by the run",
		}),
		Generated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wealth_populate_generation_total",
			Help: "Documents generated, by content source",
		}, []string{"source"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wealth_populate_request_duration_seconds",
			Help:    "Latency of entity API calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// IncrementClientsCreated increments the clients created counter by 1.
func (m *Metrics) IncrementClientsCreated() {
	if m == nil {
		return
	}
	m.ClientsCreated.Inc()
}

// IncrementDocumentsCreated increments the documents created counter by 1.
func (m *Metrics) IncrementDocumentsCreated() {
	if m == nil {
		return
	}
	m.DocumentsCreated.Inc()
}

// RecordGenerated counts a document produced by source.
func (m *Metrics) RecordGenerated(source string) {
	if m == nil {
		return
	}
	m.Generated.WithLabelValues(source).Inc()
}

// ObserveRequest records the latency of an entity API call.
func (m *Metrics) ObserveRequest(endpoint string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// Push sends the registry to a Pushgateway under job, grouped by run id.
func (m *Metrics) Push(ctx context.Context, gatewayURL, job, runID string) error {
	return push.New(gatewayURL, job).
		Gatherer(m.registry).
		Grouping("run_id", runID).
		PushContext(ctx)
}
