package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/teilomillet/summaryproxy/server/metrics"
)

// PrometheusMetrics middleware records HTTP metrics using Prometheus.
func PrometheusMetrics(m *metrics.Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path

			m.ActiveRequests.WithLabelValues(path).Inc()
			defer m.ActiveRequests.WithLabelValues(path).Dec()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}

			m.RequestsTotal.WithLabelValues(path, strconv.Itoa(code)).Inc()
			m.RequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())

			if code >= 500 {
				m.ErrorsTotal.WithLabelValues("server_error").Inc()
			} else if code >= 400 {
				m.ErrorsTotal.WithLabelValues("client_error").Inc()
			}
		})
	}
}
