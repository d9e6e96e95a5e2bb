package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ServerMetrics collects request metrics for the development backend.
type ServerMetrics struct {
	responses *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	errors    *prometheus.CounterVec
}

// NewServerMetrics registers the backend collectors on reg.
func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	m := &ServerMetrics{
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_mockapi_responses_total",
			Help: "Responses served by the development backend.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "helpdesk_mockapi_response_duration_seconds",
			Help:    "Handler latency of the development backend.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_mockapi_errors_total",
			Help: "Error responses by code.",
		}, []string{"method", "route", "code"}),
	}
	reg.MustRegister(m.responses, m.latency, m.errors)
	return m
}

// RecordResponse observes one served request.
func (m *ServerMetrics) RecordResponse(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.responses.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordError counts an error response.
func (m *ServerMetrics) RecordError(method, route, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, route, code).Inc()
}
