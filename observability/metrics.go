// Package observability holds the Prometheus registry, the HTTP metrics
// middleware and the invoice domain counters.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Serial allocation sources.
const (
	SerialReused    = "reused"
	SerialGenerated = "generated"
)

// Metrics collects Prometheus metrics for the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	serials         *prometheus.CounterVec
	mutations       *prometheus.CounterVec
	storageErrors   *prometheus.CounterVec
}

// NewMetrics initialises the registry with HTTP and domain metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invoicing_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "invoicing_http_request_duration_seconds",
		Help:    "HTTP request duration by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	serials := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invoicing_serial_numbers_allocated_total",
		Help: "Serial numbers handed out, by source.",
	}, []string{"source"})
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invoicing_invoice_mutations_total",
		Help: "Successful invoice mutations by operation.",
	}, []string{"op"})
	storageErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invoicing_storage_errors_total",
		Help: "Failed storage calls by kind.",
	}, []string{"kind"})
	registry.MustRegister(requests, duration, serials, mutations, storageErrors,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		serials:         serials,
		mutations:       mutations,
		storageErrors:   storageErrors,
	}
}

// Handler returns the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request count and latency per chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// SerialAllocated counts a serial number handed out from source.
func (m *Metrics) SerialAllocated(source string) {
	if m == nil {
		return
	}
	m.serials.WithLabelValues(source).Inc()
}

// InvoiceMutated counts a successful write such as "create" or "add_payment".
func (m *Metrics) InvoiceMutated(op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op).Inc()
}

// StorageFailed counts a failed storage call; kind is "timeout" or "error".
func (m *Metrics) StorageFailed(kind string) {
	if m == nil {
		return
	}
	m.storageErrors.WithLabelValues(kind).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
