// Package prometheus provides Prometheus instrumentation for ndpa services.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for an ndpa process.
type Metrics struct {
	registry *prometheus.Registry

	// Section lookups
	FindTotal    *prometheus.CounterVec
	FindDuration prometheus.Histogram

	// Agent runs
	AgentRequestsTotal *prometheus.CounterVec
	AgentDuration      *prometheus.HistogramVec
	ToolCallsTotal     *prometheus.CounterVec

	// Evaluation
	ScoreValue *prometheus.HistogramVec

	// HTTP
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a dedicated registry that also
// carries the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.FindTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ndpa_find_section_total",
			Help: "Total number of section lookups by match tier",
		},
		[]string{"tier"},
	)

	m.FindDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ndpa_find_section_duration_seconds",
			Help:    "Duration of section lookups in seconds",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		},
	)

	m.AgentRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ndpa_agent_requests_total",
			Help: "Total number of agent generations",
		},
		[]string{"agent", "status"},
	)

	m.AgentDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ndpa_agent_duration_seconds",
			Help:    "Duration of agent generations in seconds",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"agent"},
	)

	m.ToolCallsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ndpa_tool_calls_total",
			Help: "Total number of tool calls made by agents",
		},
		[]string{"agent", "tool"},
	)

	m.ScoreValue = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ndpa_score_value",
			Help:    "Distribution of evaluation scores",
			Buckets: []float64{0, .1, .2, .3, .4, .5, .6, .7, .8, .9, 1},
		},
		[]string{"scorer"},
	)

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ndpa_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"code", "method"},
	)

	m.HTTPDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ndpa_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	return m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Instrument wraps next with request counting and latency observation.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(m.HTTPRequestsTotal,
		promhttp.InstrumentHandlerDuration(m.HTTPDuration, next))
}
