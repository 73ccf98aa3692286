// Package metrics exposes explorer activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application. A nil *Registry records
// nothing.
type Registry struct {
	ExpansionsTotal   *prometheus.CounterVec
	ExpansionDuration prometheus.Histogram
	RenamesTotal      *prometheus.CounterVec
	RemovalsTotal     prometheus.Counter
	GraphNodes        prometheus.Gauge
	GraphEdges        prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.ExpansionsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikitrail_expansions_total",
			Help: "Expansions by outcome (ok, stale, error)",
		},
		[]string{"outcome"},
	)
	r.ExpansionDuration = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wikitrail_expansion_duration_seconds",
			Help:    "Time from expansion start to graph update, including the link source call",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)
	r.RenamesTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikitrail_renames_total",
			Help: "Rename protocol runs that changed the graph, by kind (renamed, merged)",
		},
		[]string{"kind"},
	)
	r.RemovalsTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "wikitrail_removals_total",
			Help: "Nodes removed",
		},
	)
	r.GraphNodes = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "wikitrail_graph_nodes",
			Help: "Nodes in the graph",
		},
	)
	r.GraphEdges = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "wikitrail_graph_edges",
			Help: "Edges in the graph",
		},
	)
	return r
}

// RecordExpansion records one expansion with its outcome and duration
func (r *Registry) RecordExpansion(outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	r.ExpansionsTotal.WithLabelValues(outcome).Inc()
	r.ExpansionDuration.Observe(duration.Seconds())
}

// RecordRename records a rename that changed the graph
func (r *Registry) RecordRename(kind string) {
	if r == nil {
		return
	}
	r.RenamesTotal.WithLabelValues(kind).Inc()
}

// RecordRemoval records a node removal
func (r *Registry) RecordRemoval() {
	if r == nil {
		return
	}
	r.RemovalsTotal.Inc()
}

// SetGraphSize updates the node and edge gauges
func (r *Registry) SetGraphSize(nodes, edges int) {
	if r == nil {
		return
	}
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
