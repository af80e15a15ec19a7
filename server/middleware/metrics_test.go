package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/teilomillet/summaryproxy/server/metrics"
	"github.com/teilomillet/summaryproxy/server/middleware"
)

func TestPrometheusMetrics(t *testing.T) {
	tests := []struct {
		name           string
		handler        http.HandlerFunc
		expectedCode   int
		expectedStatus string
		expectedError  string
	}{
		{
			name: "success request",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"summary":"ok"}`))
			},
			expectedCode:   http.StatusOK,
			expectedStatus: "200",
		},
		{
			name: "client error request",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusMethodNotAllowed)
			},
			expectedCode:   http.StatusMethodNotAllowed,
			expectedStatus: "405",
			expectedError:  "client_error",
		},
		{
			name: "server error request",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectedCode:   http.StatusInternalServerError,
			expectedStatus: "500",
			expectedError:  "server_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.NewMetrics()
			handler := middleware.PrometheusMetrics(m)(tt.handler)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/summarize", nil))

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/summarize", tt.expectedStatus)))
			assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveRequests.WithLabelValues("/summarize")))

			if tt.expectedError != "" {
				assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues(tt.expectedError)))
			} else {
				assert.Equal(t, 0, testutil.CollectAndCount(m.ErrorsTotal))
			}
		})
	}
}
