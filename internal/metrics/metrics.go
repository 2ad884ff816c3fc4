// Package metrics holds the Prometheus collectors of the service. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates the registry and the collectors.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	narratives      *prometheus.CounterVec
	fallbacks       *prometheus.CounterVec
	recordsSaved    prometheus.Counter
	recordsDeleted  prometheus.Counter
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	llmDuration     *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	narratives := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "devreport_narratives_total",
		Help: "Narrative texts produced, by kind and strategy",
	}, []string{"kind", "strategy"})

	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "devreport_narrative_fallbacks_total",
		Help: "External narrative failures answered by the deterministic writer",
	}, []string{"kind"})

	recordsSaved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "devreport_records_saved_total",
		Help: "Assessment records created or replaced",
	})

	recordsDeleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "devreport_records_deleted_total",
		Help: "Assessment records deleted",
	})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	llmDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devreport_llm_duration_seconds",
		Help:    "Duration of LLM completion calls",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 90},
	}, []string{"kind"})

	registry.MustRegister(narratives, fallbacks, recordsSaved, recordsDeleted, requestTotal, requestDuration, llmDuration)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		narratives:      narratives,
		fallbacks:       fallbacks,
		recordsSaved:    recordsSaved,
		recordsDeleted:  recordsDeleted,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		llmDuration:     llmDuration,
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// NarrativeProduced counts one narrative text.
func (m *Metrics) NarrativeProduced(kind, strategy string) {
	if m == nil {
		return
	}
	m.narratives.WithLabelValues(kind, strategy).Inc()
}

// NarrativeFallback counts one external failure.
func (m *Metrics) NarrativeFallback(kind string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(kind).Inc()
}

// ObserveLLM records the duration of one completion call.
func (m *Metrics) ObserveLLM(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.llmDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordSaved counts one persisted record.
func (m *Metrics) RecordSaved() {
	if m == nil {
		return
	}
	m.recordsSaved.Inc()
}

// RecordDeleted counts one deleted record.
func (m *Metrics) RecordDeleted() {
	if m == nil {
		return
	}
	m.recordsDeleted.Inc()
}

// ObserveHTTPRequest records request metrics.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	s := strconv.Itoa(status)
	m.requestTotal.WithLabelValues(method, path, s).Inc()
	m.requestDuration.WithLabelValues(method, path, s).Observe(d.Seconds())
}
