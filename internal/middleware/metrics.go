package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/HammerMeetNail/swasthyasaathi/internal/metrics"
)

// HTTPMetrics records request counts and latency per route pattern. It must
// wrap the ServeMux directly so the matched pattern is visible afterwards.
type HTTPMetrics struct{}

func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{}
}

func (m *HTTPMetrics) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := newResponseRecorder(w)

		next.ServeHTTP(recorder, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(recorder.statusCode)).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
