package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	checkinsTotal          *prometheus.CounterVec
	interventionsTotal     *prometheus.CounterVec
	webhookDeliveriesTotal *prometheus.CounterVec
	statusBroadcastsTotal  prometheus.Counter
	realtimeSessionsActive prometheus.Gauge
	requestsTotal          *prometheus.CounterVec
	latencySeconds         *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors used across the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		checkinsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "focus_checkins_total",
			Help: "Total number of daily check-ins recorded, by resulting status.",
		}, []string{"outcome"})

		interventionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "focus_interventions_total",
			Help: "Total number of intervention lifecycle operations.",
		}, []string{"action"})

		webhookDeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "focus_webhook_deliveries_total",
			Help: "Total number of review webhook delivery attempts, by result.",
		}, []string{"result"})

		statusBroadcastsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "focus_status_broadcasts_total",
			Help: "Total number of status update events broadcast to realtime sessions.",
		})

		realtimeSessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "focus_realtime_sessions_active",
			Help: "Number of websocket sessions currently joined to a student group.",
		})

		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		prometheus.MustRegister(
			checkinsTotal,
			interventionsTotal,
			webhookDeliveriesTotal,
			statusBroadcastsTotal,
			realtimeSessionsActive,
			requestsTotal,
			latencySeconds,
		)
	})
}

// CheckinsTotal exposes the check-in counter.
func CheckinsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return checkinsTotal
}

// InterventionsTotal exposes the intervention lifecycle counter.
func InterventionsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return interventionsTotal
}

// WebhookDeliveries exposes the webhook delivery counter.
func WebhookDeliveries() *prometheus.CounterVec {
	RegisterMetrics()
	return webhookDeliveriesTotal
}

// StatusBroadcasts exposes the broadcast counter.
func StatusBroadcasts() prometheus.Counter {
	RegisterMetrics()
	return statusBroadcastsTotal
}

// RealtimeSessions exposes the active-session gauge.
func RealtimeSessions() prometheus.Gauge {
	RegisterMetrics()
	return realtimeSessionsActive
}

// Requests exposes the request counter.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}
