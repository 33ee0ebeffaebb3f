// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	Bookings      *prometheus.CounterVec
	SlotConflicts prometheus.Counter
	Notifications *prometheus.CounterVec
	NotifyDropped prometheus.Counter
}

// New registers all collectors on a private registry.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_operations_total",
			Help:      "Booking operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		SlotConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_slot_conflicts_total",
			Help:      "Requests refused because the slot overlaps an accepted booking.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by channel, kind and result.",
		}, []string{"channel", "kind", "result"}),
		NotifyDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dropped_total",
			Help:      "Notifications dropped because the queue was full.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.Bookings,
		m.SlotConflicts,
		m.Notifications,
		m.NotifyDropped,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Nil-safe recorders, so callers can run without metrics.

func (m *Metrics) BookingOutcome(operation, outcome string) {
	if m == nil {
		return
	}
	m.Bookings.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) SlotConflict() {
	if m == nil {
		return
	}
	m.SlotConflicts.Inc()
}

func (m *Metrics) Notification(channel, kind, result string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(channel, kind, result).Inc()
}

func (m *Metrics) NotificationDropped() {
	if m == nil {
		return
	}
	m.NotifyDropped.Inc()
}
