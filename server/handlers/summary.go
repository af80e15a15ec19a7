// Package handlers provides the HTTP handler that relays summary requests to
// the generation service.
//
// The handler follows these rules:
// 1. Only POST is served; everything else is rejected before the body is read
// 2. userQuery must be present and non-empty; nothing else is validated
// 3. Exactly one upstream call per accepted request, never retried or cached
// 4. Upstream failures are logged and reported with the upstream message
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teilomillet/summaryproxy/errors"
	"github.com/teilomillet/summaryproxy/server/metrics"
	"github.com/teilomillet/summaryproxy/server/middleware"
	"github.com/teilomillet/summaryproxy/server/upstream"
	"go.uber.org/zap"
)

var validate = validator.New()

// SummaryRequest is the body accepted by the handler.
type SummaryRequest struct {
	// SystemPrompt steers the generated output (optional)
	SystemPrompt string `json:"systemPrompt"`

	// UserQuery is the text to send to the model
	UserQuery string `json:"userQuery" validate:"required"`
}

// SummaryResponse is the success body.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// Summarizer performs the upstream generation call. *upstream.Client
// satisfies it.
type Summarizer interface {
	Summarize(ctx context.Context, systemPrompt, userQuery string) (*upstream.Summary, error)
}

// SummaryHandler serves summary requests.
type SummaryHandler struct {
	summarizer Summarizer
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewSummaryHandler creates a handler backed by summarizer. m may be nil, in
// which case no upstream metrics are recorded.
func NewSummaryHandler(summarizer Summarizer, logger *zap.Logger, m *metrics.Metrics) *SummaryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryHandler{
		summarizer: summarizer,
		logger:     logger,
		metrics:    m,
	}
}

// ServeHTTP implements http.Handler.
//
// Outcomes:
// - 405 plain text for any method other than POST
// - 400 plain text when userQuery is missing, empty or the body is unreadable
// - 200 {"summary": ...} when the upstream call succeeds, including the
//   empty-response fallback
// - 500 {"error": ..., "details": ...} when the upstream call fails
func (h *SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestIDFromContext(r.Context())

	if r.Method != http.MethodPost {
		errors.WriteText(w, errors.NewMethodNotAllowedError(requestID))
		return
	}

	req, err := decodeRequest(r)
	if err != nil {
		h.logger.Debug("Rejected request without userQuery",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		errors.WriteText(w, errors.NewMissingInputError(requestID, err))
		return
	}

	start := time.Now()
	summary, err := h.summarizer.Summarize(r.Context(), req.SystemPrompt, req.UserQuery)
	elapsed := time.Since(start)

	if err != nil {
		h.observe(metrics.OutcomeError, elapsed)
		proxyErr := errors.NewUpstreamError(requestID, err)
		errors.LogError(h.logger, proxyErr, requestID)
		errors.WriteError(w, proxyErr)
		return
	}

	if summary.Empty {
		h.observe(metrics.OutcomeEmpty, elapsed)
	} else {
		h.observe(metrics.OutcomeSuccess, elapsed)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(SummaryResponse{Summary: summary.Text}); err != nil {
		h.logger.Error("Failed to encode response",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
	}
}

func (h *SummaryHandler) observe(outcome string, elapsed time.Duration) {
	if h.metrics != nil {
		h.metrics.ObserveUpstream(outcome, elapsed.Seconds())
	}
}

// decodeRequest parses the JSON body and checks that userQuery is present.
// A null or empty userQuery decodes to "" and fails the required check.
// A non-string userQuery fails the decode and is reported the same way.
func decodeRequest(r *http.Request) (*SummaryRequest, error) {
	var req SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	return &req, nil
}
