// Package metrics owns the story builder Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Icon job outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeDiscarded = "discarded"
	OutcomeRejected  = "rejected"
)

// Metrics holds the collectors registered on a private registry so tests
// can build as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	iconJobs     *prometheus.CounterVec
	iconDuration *prometheus.HistogramVec
	queueDepth   prometheus.Gauge
	reorders     prometheus.Counter
}

// New builds a registry with process and Go runtime collectors plus the
// story builder collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		iconJobs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storybuilder_icon_jobs_total",
				Help: "Icon generation jobs by slot and outcome.",
			},
			[]string{"slot", "outcome"},
		),
		iconDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storybuilder_icon_job_duration_seconds",
				Help:    "Duration of icon generation jobs.",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			},
			[]string{"slot"},
		),
		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "storybuilder_icon_queue_depth",
			Help: "Icon jobs waiting for a worker.",
		}),
		reorders: factory.NewCounter(prometheus.CounterOpts{
			Name: "storybuilder_cycle_reorders_total",
			Help: "Try/Fail card reorders that changed a position.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and tooling.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveIconJob records one finished icon job.
func (m *Metrics) ObserveIconJob(slot, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.iconJobs.WithLabelValues(slot, outcome).Inc()
	if outcome == OutcomeRejected {
		return
	}
	m.iconDuration.WithLabelValues(slot).Observe(elapsed.Seconds())
}

// SetQueueDepth reports the number of queued icon jobs.
func (m *Metrics) SetQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(depth))
}

// IncReorders counts one Try/Fail reorder.
func (m *Metrics) IncReorders() {
	if m == nil {
		return
	}
	m.reorders.Inc()
}
