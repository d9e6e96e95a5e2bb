package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestRecorder receives one observation per outgoing API request.
type RequestRecorder interface {
	RecordRequest(method string, status int, duration time.Duration)
	RecordTransportError(method string)
}

// Metrics collects client request metrics in Prometheus.
type Metrics struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	transportErrors *prometheus.CounterVec
}

// NewMetrics registers the client collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_client_requests_total",
			Help: "API requests that received an HTTP response, by method and status.",
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "helpdesk_client_request_duration_seconds",
			Help:    "Latency of API requests that received an HTTP response.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		transportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_client_transport_errors_total",
			Help: "API requests that failed before a response was obtained.",
		}, []string{"method"}),
	}
	reg.MustRegister(m.requests, m.duration, m.transportErrors)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordTransportError increments the transport failure counter.
func (m *Metrics) RecordTransportError(method string) {
	if m == nil {
		return
	}
	m.transportErrors.WithLabelValues(method).Inc()
}
