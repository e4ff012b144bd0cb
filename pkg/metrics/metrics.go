// Package metrics exposes Prometheus instrumentation for the journey graph
// service: retrieval query counters and latencies, graph size gauges, and
// the data-quality anomaly counter that makes malformed-graph degradation
// visible to operators.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles all application metrics against a private Prometheus
// registry so tests can create isolated instances.
type Registry struct {
	registry *prometheus.Registry

	RetrievalQueriesTotal   *prometheus.CounterVec
	RetrievalQueryDuration  *prometheus.HistogramVec
	GraphNodes              *prometheus.GaugeVec
	GraphEdges              *prometheus.GaugeVec
	GraphAnomaliesTotal     *prometheus.CounterVec
	HTTPRequestsTotal       *prometheus.CounterVec
	HTTPRequestDuration     *prometheus.HistogramVec
	NaiveSearchesTotal      prometheus.Counter
	InsightGenerationsTotal *prometheus.CounterVec
}

// NewRegistry creates a registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.RetrievalQueriesTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "journeygraph_retrieval_queries_total",
			Help: "Total retrieval queries served, by intent",
		},
		[]string{"intent"},
	)

	r.RetrievalQueryDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "journeygraph_retrieval_query_duration_seconds",
			Help:    "Duration of retrieval queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"intent"},
	)

	r.GraphNodes = promauto.With(reg).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "journeygraph_graph_nodes",
			Help: "Number of nodes in the loaded graph, by kind",
		},
		[]string{"kind"},
	)

	r.GraphEdges = promauto.With(reg).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "journeygraph_graph_edges",
			Help: "Number of edges in the loaded graph, by type",
		},
		[]string{"type"},
	)

	r.GraphAnomaliesTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "journeygraph_graph_anomalies_total",
			Help: "Graph shape anomalies detected during validation, by kind",
		},
		[]string{"kind"},
	)

	r.HTTPRequestsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "journeygraph_http_requests_total",
			Help: "HTTP requests served, by route and status code",
		},
		[]string{"route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "journeygraph_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by route",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
		[]string{"route"},
	)

	r.NaiveSearchesTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "journeygraph_naive_searches_total",
			Help: "Total vector-baseline searches served",
		},
	)

	r.InsightGenerationsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "journeygraph_insight_generations_total",
			Help: "LLM insight generations, by result",
		},
		[]string{"result"}, // ok, error, disabled
	)

	return r
}

// SetGraphStats publishes node and edge counts after a graph load.
func (r *Registry) SetGraphStats(nodesByKind map[string]int, edgesByType map[string]int) {
	for kind, n := range nodesByKind {
		r.GraphNodes.WithLabelValues(kind).Set(float64(n))
	}
	for typ, n := range edgesByType {
		r.GraphEdges.WithLabelValues(typ).Set(float64(n))
	}
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
