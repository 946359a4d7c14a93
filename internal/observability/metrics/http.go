package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics collects request metrics for the console server and for the
// upstream calls the gateway makes to the document backend.
type HTTPMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	upstreamTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

func NewHTTPMetrics(service string) *HTTPMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "console",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "console",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "console",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	upstreamTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "console",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total requests sent to the document backend.",
		},
		[]string{"service", "resource", "status"},
	)
	upstreamDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "console",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Document backend request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "resource"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		upstreamTotal,
		upstreamDuration,
	)

	return &HTTPMetrics{
		registry:         registry,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestInFlight:  requestInFlight,
		upstreamTotal:    upstreamTotal,
		upstreamDuration: upstreamDuration,
	}
}

func (m *HTTPMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// RecordUpstream records one call to the document backend. A status of 0
// means the call produced no response at all.
func (m *HTTPMetrics) RecordUpstream(service, resource string, status int, duration time.Duration) {
	m.upstreamTotal.WithLabelValues(service, resource, strconv.Itoa(status)).Inc()
	m.upstreamDuration.WithLabelValues(service, resource).Observe(duration.Seconds())
}

// normalizePath collapses per-document paths to keep label cardinality bounded.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/documents/"):
		return "/api/documents/{id}"
	case strings.HasPrefix(path, "/api/extraction/"):
		return "/api/extraction/{id}"
	case strings.HasPrefix(path, "/api/audit/history/"):
		return "/api/audit/history/{id}"
	case strings.HasPrefix(path, "/api/audit/approve/"):
		return "/api/audit/approve/{id}"
	default:
		return path
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}
