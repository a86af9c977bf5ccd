// Package metrics exposes Prometheus instrumentation for HTTP traffic and
// for the relation diffs the store applies.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "larder"

// Metrics owns a registry and the collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	relations *prometheus.CounterVec
	lines     *prometheus.CounterVec
	purchases *prometheus.CounterVec
}

// New builds a Metrics value with its own registry, including Go runtime
// and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		relations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relation_changes_total",
			Help:      "Members connected or disconnected by relation reconciliation.",
		}, []string{"relation", "op"}),
		lines: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recipe_line_changes_total",
			Help:      "Recipe lines created, updated or deleted by reconciliation.",
		}, []string{"op"}),
		purchases: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchase_changes_total",
			Help:      "Shop purchase entries created or deleted after menu changes.",
		}, []string{"op"}),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RelationReconciled counts connected and disconnected members of relation.
func (m *Metrics) RelationReconciled(relation string, connected, disconnected int) {
	m.relations.WithLabelValues(relation, "connect").Add(float64(connected))
	m.relations.WithLabelValues(relation, "disconnect").Add(float64(disconnected))
}

// LinesReconciled counts recipe line writes.
func (m *Metrics) LinesReconciled(created, updated, deleted int) {
	m.lines.WithLabelValues("create").Add(float64(created))
	m.lines.WithLabelValues("update").Add(float64(updated))
	m.lines.WithLabelValues("delete").Add(float64(deleted))
}

// PurchasesSynced counts purchase entries created and deleted.
func (m *Metrics) PurchasesSynced(created, deleted int) {
	m.purchases.WithLabelValues("create").Add(float64(created))
	m.purchases.WithLabelValues("delete").Add(float64(deleted))
}

// Middleware records request counts and latency labelled by the matched
// route template. It is meant for mux.Router.Use.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r)

		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(recorder.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusRecorder) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
