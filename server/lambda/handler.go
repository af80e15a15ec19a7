// Package lambda serves an http.Handler from AWS Lambda behind an API
// Gateway REST proxy integration.
package lambda

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/core"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/teilomillet/summaryproxy/errors"
)

// Handler is the Lambda function signature for API Gateway proxy events.
type Handler func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// NewHandler returns a Lambda handler that serves every event through h.
// Requests arriving without X-Request-ID take the API Gateway request ID.
func NewHandler(h http.Handler) Handler {
	return httpadapter.New(gatewayRequestID(h)).ProxyWithContext
}

func gatewayRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(errors.RequestIDHeader) == "" {
			if gw, ok := core.GetAPIGatewayContextFromContext(r.Context()); ok && gw.RequestID != "" {
				r.Header.Set(errors.RequestIDHeader, gw.RequestID)
			}
		}
		next.ServeHTTP(w, r)
	})
}
