// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	resolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_url_resolutions_total",
			Help: "Request URLs resolved by the URL schema middleware",
		},
		[]string{"outcome", "action"},
	)

	resolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "community_url_resolution_duration_seconds",
			Help:    "Time spent resolving request URLs",
			Buckets: []float64{.00001, .000025, .00005, .0001, .00025, .0005, .001, .005},
		},
		[]string{"outcome"},
	)

	rateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"scope"},
	)

	publishErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_event_publish_errors_total",
			Help: "Analytics events that could not be published",
		},
		[]string{"topic"},
	)
)

// RecordResolution records one URL resolution and what the middleware did with it.
func RecordResolution(outcome, action string, elapsed time.Duration) {
	resolutionsTotal.WithLabelValues(outcome, action).Inc()
	resolutionDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// RecordRateLimited records a request rejected in scope.
func RecordRateLimited(scope string) {
	rateLimitedTotal.WithLabelValues(scope).Inc()
}

// RecordPublishError records an analytics event dropped on topic.
func RecordPublishError(topic string) {
	publishErrorsTotal.WithLabelValues(topic).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
