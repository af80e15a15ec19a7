// Package middleware provides the HTTP middleware wrapped around the
// summary handler.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/teilomillet/summaryproxy/errors"
)

// RequestID middleware reuses the caller's X-Request-ID or generates a new
// UUID, stores it in the request context and echoes it in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(errors.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(errors.RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
