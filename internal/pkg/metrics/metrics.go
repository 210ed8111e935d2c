// Package metrics exposes Prometheus instrumentation for the storefront.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Metrics owns a private registry so that several instances can live in one
// process, as they do in tests.
type Metrics struct {
	registry    *prometheus.Registry
	Requests    *prometheus.CounterVec
	LatencyMS   *prometheus.HistogramVec
	Transitions *prometheus.CounterVec
}

func New() *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route", "method"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "transitions_total",
		Help:      "Order status transitions that were stored.",
	}, []string{"from", "to"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		requests, latency, transitions,
	)

	return &Metrics{
		registry:    registry,
		Requests:    requests,
		LatencyMS:   latency,
		Transitions: transitions,
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.LatencyMS.WithLabelValues(route, method).Observe(float64(elapsed.Microseconds()) / 1000)
}

// OrderTransitioned counts a stored status change.
func (m *Metrics) OrderTransitioned(_ context.Context, _ kernel.TrackingID, from, to order.Status) {
	m.Transitions.WithLabelValues(from.String(), to.String()).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
