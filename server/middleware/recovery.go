package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/teilomillet/summaryproxy/errors"
	"go.uber.org/zap"
)

// Recovery middleware recovers from panics, logs them with the stack and
// answers with a JSON internal error.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					requestID := RequestIDFromContext(r.Context())
					logger.Error("Panic recovered",
						zap.Any("error", rec),
						zap.ByteString("stack", debug.Stack()),
						zap.String("request_id", requestID),
					)

					errors.WriteError(w, errors.NewInternalError(
						requestID,
						fmt.Errorf("internal server error: %v", rec),
					))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
