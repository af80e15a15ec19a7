package errors

import "go.uber.org/zap"

// LogError logs an error with its context
func LogError(logger *zap.Logger, err error, requestID string) {
	var proxyErr *ProxyError
	if As(err, &proxyErr) {
		fields := []zap.Field{
			zap.String("error_type", string(proxyErr.Type)),
			zap.String("message", proxyErr.Message),
			zap.Int("code", proxyErr.Code),
			zap.String("request_id", requestID),
		}
		if proxyErr.err != nil {
			fields = append(fields, zap.Error(proxyErr.err))
		}
		logger.Error("request error", fields...)
		return
	}
	logger.Error("unexpected error",
		zap.Error(err),
		zap.String("request_id", requestID),
	)
}
