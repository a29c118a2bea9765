// Package metrics exposes Prometheus instrumentation for the concert API.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akuan1997/concertweb/api/internal/public/application"
	"github.com/akuan1997/concertweb/api/internal/public/domain"
)

const namespace = "concert"

// unmatchedRoute labels requests that no chi route served, keeping label cardinality bounded.
const unmatchedRoute = "unmatched"

// Recorder owns a private registry with the HTTP and query metrics.
type Recorder struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	queryDuration       *prometheus.HistogramVec
	queryErrors         *prometheus.CounterVec
	queryRejections     *prometheus.CounterVec
}

var _ application.QueryObserver = (*Recorder)(nil)

// NewRecorder registers every metric on a fresh registry together with the Go and process collectors.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(registry)

	return &Recorder{
		registry: registry,
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		queryDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "Query service latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		queryErrors: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "errors_total",
			Help:      "Query service calls that failed in the store or service, by operation.",
		}, []string{"operation"}),
		queryRejections: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "rejected_total",
			Help:      "Query service calls rejected for invalid input or a missing concert, by operation and reason.",
		}, []string{"operation", "reason"}),
	}
}

// ObserveQuery implements application.QueryObserver. Validation and not-found
// outcomes are counted as rejections, never as errors.
func (r *Recorder) ObserveQuery(operation string, elapsed time.Duration, err error) {
	r.queryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrValidation):
		r.queryRejections.WithLabelValues(operation, "validation").Inc()
	case errors.Is(err, domain.ErrNotFound):
		r.queryRejections.WithLabelValues(operation, "not_found").Inc()
	default:
		r.queryErrors.WithLabelValues(operation).Inc()
	}
}

// Middleware records one sample per request, labelled with the matched chi route pattern.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

		next.ServeHTTP(ww, req)

		route := unmatchedRoute
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		r.httpRequests.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
		r.httpRequestDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
