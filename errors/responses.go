// Package errors provides error response utilities.
package errors

import (
	"errors"
)

// RequestIDHeader is the header used to correlate requests, responses and logs.
const RequestIDHeader = "X-Request-ID"

// ErrorResponse is the JSON failure body returned to callers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// As is a wrapper around errors.As for better error type assertion
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Is is a wrapper around errors.Is
func Is(err, target error) bool {
	return errors.Is(err, target)
}
