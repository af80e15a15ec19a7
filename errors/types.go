package errors

import (
	"net/http"
)

// Fixed caller-facing messages.
const (
	MethodNotAllowedMessage = "Method Not Allowed"
	MissingInputMessage     = "Missing userQuery in request body."
	UpstreamFailureMessage  = "Failed to generate summary via Cloud Function."
	InternalErrorMessage    = "An internal error occurred"
)

// NewError creates a ProxyError with full control over its fields. Most
// callers want one of the specialized constructors below.
//
// Example:
//
//	err := NewError(InternalError, "encoding failed", 500, "req_123", "", encErr)
func NewError(errType ErrorType, message string, code int, requestID, details string, err error) *ProxyError {
	return &ProxyError{
		Type:      errType,
		Message:   message,
		Details:   details,
		Code:      code,
		RequestID: requestID,
		err:       err,
	}
}

// NewMethodNotAllowedError rejects a request that is not a POST.
func NewMethodNotAllowedError(requestID string) *ProxyError {
	return &ProxyError{
		Type:      MethodNotAllowedError,
		Message:   MethodNotAllowedMessage,
		Code:      http.StatusMethodNotAllowed,
		RequestID: requestID,
	}
}

// NewMissingInputError rejects a request whose body has no usable userQuery.
// err, when non-nil, records why the body could not be read and is never
// shown to the caller.
func NewMissingInputError(requestID string, err error) *ProxyError {
	return &ProxyError{
		Type:      MissingInputError,
		Message:   MissingInputMessage,
		Code:      http.StatusBadRequest,
		RequestID: requestID,
		err:       err,
	}
}

// NewUpstreamError reports a failed generation call. The upstream error
// message is passed through verbatim as Details.
//
// Example:
//
//	err := NewUpstreamError("req_123", errors.New("quota exceeded"))
//	// {"error":"Failed to generate summary via Cloud Function.","details":"quota exceeded"}
func NewUpstreamError(requestID string, err error) *ProxyError {
	var details string
	if err != nil {
		details = err.Error()
	}
	return &ProxyError{
		Type:      UpstreamError,
		Message:   UpstreamFailureMessage,
		Details:   details,
		Code:      http.StatusInternalServerError,
		RequestID: requestID,
		err:       err,
	}
}

// NewInternalError creates an internal server error for failures not covered
// by the other types, such as recovered panics.
func NewInternalError(requestID string, err error) *ProxyError {
	return &ProxyError{
		Type:      InternalError,
		Message:   InternalErrorMessage,
		Code:      http.StatusInternalServerError,
		RequestID: requestID,
		err:       err,
	}
}
