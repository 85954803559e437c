// Package metrics exposes Prometheus instrumentation for service operations
// and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recipe-costing/internal/core"
)

const namespace = "recipe_costing"

// Recorder holds the collectors. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	requests   *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Service operations by name and result kind.",
		}, []string{"operation", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_rejections_total",
			Help:      "Sales rejected for insufficient stock, by ingredient.",
		}, []string{"ingredient_id"}),
	}
	reg.MustRegister(
		r.operations, r.latency, r.requests, r.rejections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Result maps err to the label used in operations_total.
func Result(err error) string {
	switch core.KindOf(err) {
	case nil:
		if err != nil {
			return "error"
		}
		return "ok"
	case core.ErrInvalidInput:
		return "invalid_input"
	case core.ErrNotFound:
		return "not_found"
	case core.ErrInsufficientStock:
		return "insufficient_stock"
	default:
		return "transaction_failure"
	}
}

// ObserveOperation records one service call.
func (r *Recorder) ObserveOperation(op string, err error, d time.Duration) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(op, Result(err)).Inc()
	r.latency.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveStockRejection counts a sale refused because of ingredientID.
func (r *Recorder) ObserveStockRejection(ingredientID string) {
	if r == nil {
		return
	}
	r.rejections.WithLabelValues(ingredientID).Inc()
}

// ObserveRequest records one HTTP response. route should be the router
// pattern, not the raw path, to keep label cardinality bounded.
func (r *Recorder) ObserveRequest(method, route string, status int) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }
