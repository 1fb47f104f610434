package httpmetrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/envirosync/envirosync-backend/internal/observability/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := NormalizePath(r.URL.Path)

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path).Inc()
		metrics.HTTPRequestsInFlight.Inc()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		metrics.HTTPRequestsInFlight.Dec()
		statusClass := fmt.Sprintf("%dxx", rec.status/100)
		metrics.HTTPRequestDurationSeconds.
			WithLabelValues(r.Method, path, statusClass).
			Observe(time.Since(start).Seconds())
	})
}
