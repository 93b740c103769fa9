// Package metrics exposes Prometheus instrumentation for the answer resolver.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resolve outcomes recorded by Resolver.Observe.
const (
	OutcomeMatched  = "matched"
	OutcomeFallback = "fallback"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Resolver groups the answer resolver collectors. A nil *Resolver is a no-op.
type Resolver struct {
	registry *prometheus.Registry
	queries  *prometheus.CounterVec
	latency  prometheus.Histogram
	corpus   prometheus.Gauge
}

// NewResolver registers the resolver collectors plus Go runtime collectors on a fresh registry.
func NewResolver() *Resolver {
	registry := prometheus.NewRegistry()

	m := &Resolver{
		registry: registry,
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wave",
			Subsystem: "faq",
			Name:      "queries_total",
			Help:      "Answer resolver queries by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wave",
			Subsystem: "faq",
			Name:      "resolve_duration_seconds",
			Help:      "Time spent ranking a query against the corpus.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		corpus: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wave",
			Subsystem: "faq",
			Name:      "corpus_entries",
			Help:      "Number of question/answer pairs loaded at startup.",
		}),
	}

	registry.MustRegister(
		m.queries,
		m.latency,
		m.corpus,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe records one resolve call.
func (m *Resolver) Observe(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(outcome).Inc()
	m.latency.Observe(elapsed.Seconds())
}

// SetCorpusSize records the corpus size.
func (m *Resolver) SetCorpusSize(n int) {
	if m == nil {
		return
	}
	m.corpus.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Resolver) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Resolver) Registry() *prometheus.Registry {
	return m.registry
}
