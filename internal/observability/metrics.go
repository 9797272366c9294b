package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce   sync.Once
	requestsTotal  *prometheus.CounterVec
	latencySeconds *prometheus.HistogramVec
	errorsTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors for the HTTP surface.
// The AI call collectors live next to their clients in pkg/ai.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contest",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "contest",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contest",
			Subsystem: "http",
			Name:      "request_errors_total",
			Help:      "Number of API requests answered with an error status.",
		}, []string{"method", "route", "status"})

		prometheus.MustRegister(requestsTotal, latencySeconds, errorsTotal)
	})
}

// HTTPRequests returns the request counter collector.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// HTTPLatency returns the request latency collector.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// HTTPErrors returns the request error counter collector.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}
