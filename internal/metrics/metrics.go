package metrics

import (
	"net/http" // Metrics endpoint

	"github.com/prometheus/client_golang/prometheus"          // Metric types
	"github.com/prometheus/client_golang/prometheus/promhttp" // Exposition handler
)

// Metrics holds the storefront collectors on a private registry
type Metrics struct {
	registry        *prometheus.Registry
	Requests        *prometheus.CounterVec
	LatencyMS       *prometheus.HistogramVec
	OrdersPlaced    *prometheus.CounterVec
	TrackingUpdates prometheus.Counter
	GatewayCalls    *prometheus.CounterVec
}

// New registers every collector
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "orders_placed_total",
			Help:      "Orders created, by payment status.",
		}, []string{"payment_status"}),
		TrackingUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "tracking_updates_total",
			Help:      "Tracking status changes recorded.",
		}),
		GatewayCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "gateway_calls_total",
			Help:      "Payment intent requests, by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.Requests, m.LatencyMS, m.OrdersPlaced, m.TrackingUpdates, m.GatewayCalls)
	return m
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// OrderPlaced counts a created order. Safe on a nil receiver.
func (m *Metrics) OrderPlaced(paymentStatus string) {
	if m == nil {
		return
	}
	m.OrdersPlaced.WithLabelValues(paymentStatus).Inc()
}

// TrackingUpdated counts a tracking change. Safe on a nil receiver.
func (m *Metrics) TrackingUpdated() {
	if m == nil {
		return
	}
	m.TrackingUpdates.Inc()
}

// GatewayCall counts a payment intent request by outcome. Safe on a nil receiver.
func (m *Metrics) GatewayCall(outcome string) {
	if m == nil {
		return
	}
	m.GatewayCalls.WithLabelValues(outcome).Inc()
}
