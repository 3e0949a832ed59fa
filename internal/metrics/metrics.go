// Package metrics exposes Prometheus counters for tool calls, model requests
// and sessions, plus an optional HTTP exporter.
package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voice_agent"

const defaultReadHeaderTimeout = 10 * time.Second

var (
	toolInvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_invocations_total",
			Help:      "Total number of tool callback invocations",
		},
		[]string{"persona", "tool", "outcome"}, // outcome: ok, rejected, error, unknown
	)

	toolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "Duration of tool callback execution in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"persona", "tool"},
	)

	llmRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Total number of model requests",
		},
		[]string{"model", "status"}, // status: success, error
	)

	sessionsStartedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Total number of sessions started per persona",
		},
		[]string{"persona"},
	)

	allMetrics = []prometheus.Collector{
		toolInvocationsTotal,
		toolDuration,
		llmRequestsTotal,
		sessionsStartedTotal,
	}
)

// Tool outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
	OutcomeUnknown  = "unknown"
)

// RecordTool counts one tool invocation.
func RecordTool(persona, tool, outcome string, d time.Duration) {
	toolInvocationsTotal.WithLabelValues(persona, tool, outcome).Inc()
	toolDuration.WithLabelValues(persona, tool).Observe(d.Seconds())
}

// RecordLLMRequest counts one model request.
func RecordLLMRequest(model string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	llmRequestsTotal.WithLabelValues(model, status).Inc()
}

// RecordSessionStart counts a new session.
func RecordSessionStart(persona string) {
	sessionsStartedTotal.WithLabelValues(persona).Inc()
}

// Exporter serves Prometheus metrics over HTTP.
type Exporter struct {
	addr     string
	server   *http.Server
	registry *prometheus.Registry
	mu       sync.Mutex
	started  bool
}

// NewExporter creates an exporter with the agent metrics and Go runtime
// collectors registered.
func NewExporter(addr string) *Exporter {
	reg := prometheus.NewRegistry()
	for _, c := range allMetrics {
		reg.MustRegister(c)
	}
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Exporter{addr: addr, registry: reg}
}

// Handler returns the /metrics handler.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Start serves /metrics and blocks until shutdown.
// Returns http.ErrServerClosed when shut down gracefully.
func (e *Exporter) Start() error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())
	e.server = &http.Server{
		Addr:              e.addr,
		Handler:           mux,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}
	e.started = true
	srv := e.server
	e.mu.Unlock()

	return srv.ListenAndServe()
}

// Shutdown gracefully stops the exporter.
func (e *Exporter) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.server != nil && e.started {
		e.started = false
		return e.server.Shutdown(ctx)
	}
	return nil
}
