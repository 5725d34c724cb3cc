package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CarrierRequestsTotal tracks the number of outbound API calls to UPS.
	CarrierRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ups_api_requests_total",
			Help: "Total number of UPS API requests made (by endpoint, method, and status).",
		},
		[]string{"endpoint", "method", "status"},
	)

	// CarrierRequestDuration measures the duration of outbound UPS API calls.
	CarrierRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ups_api_request_duration_seconds",
			Help:    "Duration of UPS API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"endpoint", "method"},
	)

	// TokenRefreshesTotal tracks OAuth token refresh attempts by result.
	TokenRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ups_token_refreshes_total",
			Help: "Number of UPS OAuth token refresh attempts (by result).",
		},
		[]string{"result"},
	)

	// NATSPublishErrors tracks NATS publish failures by subject.
	NATSPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_publish_errors_total",
			Help: "Number of NATS publish failures by subject.",
		},
		[]string{"subject"},
	)
)

// IncCarrierRequest increments the UPS API request counter.
func IncCarrierRequest(endpoint, method, status string) {
	CarrierRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

// IncTokenRefresh increments the token refresh counter; result is "ok" or "error".
func IncTokenRefresh(result string) {
	TokenRefreshesTotal.WithLabelValues(result).Inc()
}

// ObserveDuration records elapsed time since start into a HistogramVec or SummaryVec.
func ObserveDuration(v any, start time.Time, labels ...string) {
	duration := time.Since(start).Seconds()
	switch metric := v.(type) {
	case *prometheus.HistogramVec:
		metric.WithLabelValues(labels...).Observe(duration)
	case *prometheus.SummaryVec:
		metric.WithLabelValues(labels...).Observe(duration)
	}
}

// IncNATSPublishError increments the NATS publish error counter for the given subject.
func IncNATSPublishError(subject string) {
	NATSPublishErrors.WithLabelValues(subject).Inc()
}
