package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNewMethodNotAllowedError(t *testing.T) {
	err := NewMethodNotAllowedError("test-123")

	if err.Type != MethodNotAllowedError {
		t.Errorf("Expected error type %v, got %v", MethodNotAllowedError, err.Type)
	}
	if err.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected code %v, got %v", http.StatusMethodNotAllowed, err.Code)
	}
	if err.RequestID != "test-123" {
		t.Errorf("Expected requestID %v, got %v", "test-123", err.RequestID)
	}
}

func TestNewMissingInputError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewMissingInputError("test-456", cause)

	if err.Type != MissingInputError {
		t.Errorf("Expected error type %v, got %v", MissingInputError, err.Type)
	}
	if err.Message != "Missing userQuery in request body." {
		t.Errorf("Expected message %q, got %q", MissingInputMessage, err.Message)
	}
	if err.Code != http.StatusBadRequest {
		t.Errorf("Expected code %v, got %v", http.StatusBadRequest, err.Code)
	}
	if err.Details != "" {
		t.Errorf("Expected no details, got %q", err.Details)
	}
	if err.Unwrap() != cause {
		t.Errorf("Expected inner error %v, got %v", cause, err.Unwrap())
	}
}

func TestNewUpstreamError(t *testing.T) {
	err := NewUpstreamError("test-789", errors.New("quota exceeded"))

	if err.Type != UpstreamError {
		t.Errorf("Expected error type %v, got %v", UpstreamError, err.Type)
	}
	if err.Message != "Failed to generate summary via Cloud Function." {
		t.Errorf("Expected message %q, got %q", UpstreamFailureMessage, err.Message)
	}
	if err.Details != "quota exceeded" {
		t.Errorf("Expected details %q, got %q", "quota exceeded", err.Details)
	}
	if err.Code != http.StatusInternalServerError {
		t.Errorf("Expected code %v, got %v", http.StatusInternalServerError, err.Code)
	}
}

func TestNewUpstreamError_NilCause(t *testing.T) {
	err := NewUpstreamError("test", nil)
	if err.Details != "" {
		t.Errorf("Expected empty details, got %q", err.Details)
	}
}

func TestNewInternalError(t *testing.T) {
	err := NewInternalError("test", errors.New("boom"))

	if err.Type != InternalError {
		t.Errorf("Expected error type %v, got %v", InternalError, err.Type)
	}
	if err.Code != http.StatusInternalServerError {
		t.Errorf("Expected code %v, got %v", http.StatusInternalServerError, err.Code)
	}
}
