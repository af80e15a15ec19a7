// Package errors provides the error handling used throughout summaryproxy.
// It includes typed proxy errors, JSON and plain-text response writers,
// request ID correlation and integrated logging with Uber's zap logger.
//
// The HTTP contract distinguishes two response styles:
//
//   - Caller mistakes (wrong method, missing input) are answered in plain text.
//   - Upstream and internal failures are answered with a JSON body of the
//     form {"error": "...", "details": "..."}.
//
// Basic usage:
//
//	// Plain-text rejection
//	errors.WriteText(w, errors.NewMissingInputError(requestID, err))
//
//	// JSON failure carrying the upstream error message
//	errors.WriteError(w, errors.NewUpstreamError(requestID, err))
package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// DefaultLogger is the default zap logger instance used throughout the package.
// It is initialized to a production configuration but can be overridden using SetLogger.
var DefaultLogger *zap.Logger

func init() {
	var err error
	DefaultLogger, err = zap.NewProduction()
	if err != nil {
		DefaultLogger = zap.NewNop()
	}
}

// SetLogger allows setting a custom zap logger instance.
// A nil logger is ignored so logging cannot be disabled by accident.
func SetLogger(logger *zap.Logger) {
	if logger != nil {
		DefaultLogger = logger
	}
}

// ErrorType represents the categories of failure the proxy reports.
type ErrorType string

const (
	// MethodNotAllowedError is returned for any request method other than POST
	MethodNotAllowedError ErrorType = "method_not_allowed"
	// MissingInputError is returned when the request carries no userQuery
	MissingInputError ErrorType = "missing_input"
	// UpstreamError covers every failure of the generation call
	UpstreamError ErrorType = "upstream_failure"
	// InternalError represents unexpected failures inside the proxy itself
	InternalError ErrorType = "internal_error"
)

// ProxyError is the error type returned by summaryproxy handlers. Its JSON
// form is the failure body of the HTTP contract; the remaining fields are
// kept for logging and status selection.
type ProxyError struct {
	// Type categorizes the error
	Type ErrorType `json:"-"`

	// Message is the fixed, caller-facing description
	Message string `json:"error"`

	// Details carries the underlying error message, if any
	Details string `json:"details,omitempty"`

	// Code is the HTTP status code
	Code int `json:"-"`

	// RequestID links the error to a specific request
	RequestID string `json:"-"`

	err error
}

// Error implements the error interface.
func (e *ProxyError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProxyError) Unwrap() error {
	return e.err
}

// Is matches on error type only, so errors.Is(err, &ProxyError{Type: UpstreamError})
// holds for any upstream failure.
func (e *ProxyError) Is(target error) bool {
	t, ok := target.(*ProxyError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WriteError writes err as a JSON response with its status code. Upstream
// failures always carry a details field, even when the upstream message is
// empty.
func WriteError(w http.ResponseWriter, err *ProxyError) {
	var body interface{} = err
	if err.Type == UpstreamError {
		body = ErrorResponse{Error: err.Message, Details: err.Details}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(body)
}

// WriteText writes the error message as a plain-text response. Unlike
// http.Error it does not append a trailing newline.
func WriteText(w http.ResponseWriter, err *ProxyError) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(err.Code)
	io.WriteString(w, err.Message)
}
