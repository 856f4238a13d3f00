package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the service's collectors on its own registry so tests can
// build as many as they like without colliding on the default one.
type Registry struct {
	reg *prometheus.Registry

	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec

	OrdersCreated     prometheus.Counter
	StatusTransitions *prometheus.CounterVec
	CodeCollisions    prometheus.Counter
}

func New(namespace string) *Registry {
	if namespace == "" {
		namespace = "storefront"
	}
	r := &Registry{reg: prometheus.NewRegistry()}

	r.Requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})
	r.LatencyMS = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"method", "route"})
	r.OrdersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Orders successfully created.",
	})
	r.StatusTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "status_transitions_total",
		Help:      "Applied order status changes.",
	}, []string{"from", "to"})
	r.CodeCollisions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "code_collisions_total",
		Help:      "Order inserts rejected by the unique code index and redrawn.",
	})

	r.reg.MustRegister(
		r.Requests, r.LatencyMS,
		r.OrdersCreated, r.StatusTransitions, r.CodeCollisions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler exposes this registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer for tests
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// OrderCreated, OrderTransitioned and CodeCollision are nil-safe so services
// can run without metrics.

func (r *Registry) OrderCreated() {
	if r != nil {
		r.OrdersCreated.Inc()
	}
}

func (r *Registry) OrderTransitioned(from, to string) {
	if r != nil {
		r.StatusTransitions.WithLabelValues(from, to).Inc()
	}
}

func (r *Registry) CodeCollision() {
	if r != nil {
		r.CodeCollisions.Inc()
	}
}
