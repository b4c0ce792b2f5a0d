package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swasthya_http_requests_total",
			Help: "Total number of HTTP requests by route pattern and status class",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swasthya_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AdviceGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swasthya_advice_generations_total",
			Help: "Advice generations by category and outcome",
		},
		[]string{"category", "status"},
	)

	AdviceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swasthya_advice_generation_duration_seconds",
			Help:    "Duration of calls to the text-generation provider",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 90},
		},
		[]string{"status"},
	)

	SessionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swasthya_session_transitions_total",
			Help: "View-controller transitions by action and resulting step",
		},
		[]string{"action", "step"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swasthya_validation_failures_total",
			Help: "Form validation failures by field",
		},
		[]string{"field"},
	)
)
