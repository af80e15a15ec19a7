// Package upstream wraps the Gemini generation service. It builds the single
// request the proxy sends and extracts the text of the first candidate from
// whatever comes back.
package upstream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/teilomillet/summaryproxy/config"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// EmptyResponseText is returned as the summary when the upstream call
// succeeds but carries no text.
const EmptyResponseText = "Error: AI returned an empty response."

// ContentGenerator is the part of the Gemini models service the proxy uses.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewModels creates a Gemini API client from cfg and returns its models
// service. It is called once per process.
func NewModels(ctx context.Context, cfg config.UpstreamConfig) (*genai.Models, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			APIVersion: cfg.APIVersion,
		},
	}
	if cfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return client.Models, nil
}

// BuildRequest returns the contents and config for one generation call: the
// user query as the only content part and, when non-empty, the system prompt
// as the system instruction.
func BuildRequest(systemPrompt, userQuery string) ([]*genai.Content, *genai.GenerateContentConfig) {
	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: userQuery}}},
	}
	if systemPrompt == "" {
		return contents, nil
	}
	return contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}
}

// ExtractText returns the text of the first part of the first candidate.
// ok is false when any link of that chain is missing or the text is empty,
// in which case text is EmptyResponseText.
func ExtractText(resp *genai.GenerateContentResponse) (text string, ok bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return EmptyResponseText, false
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return EmptyResponseText, false
	}
	part := candidate.Content.Parts[0]
	if part == nil || part.Text == "" {
		return EmptyResponseText, false
	}
	return part.Text, true
}

// Summary is the outcome of a successful upstream call.
type Summary struct {
	// Text is the extracted text, or EmptyResponseText
	Text string
	// Empty reports that the fallback text was substituted
	Empty bool
}

// Client issues summary requests against a fixed model.
type Client struct {
	models ContentGenerator
	model  string
	logger *zap.Logger
}

// NewClient returns a Client sending every request to model through models.
func NewClient(models ContentGenerator, model string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		models: models,
		model:  model,
		logger: logger,
	}
}

// Model returns the model identifier requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// Summarize makes exactly one blocking generation call. The error, if any,
// is returned unchanged so its message can be reported to the caller as-is.
func (c *Client) Summarize(ctx context.Context, systemPrompt, userQuery string) (*Summary, error) {
	contents, cfg := BuildRequest(systemPrompt, userQuery)

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return nil, err
	}

	text, ok := ExtractText(resp)
	c.logger.Debug("Upstream call completed",
		zap.String("model", c.model),
		zap.Duration("duration", time.Since(start)),
		zap.Bool("empty", !ok),
		zap.Int("summary_length", len(text)),
	)
	return &Summary{Text: text, Empty: !ok}, nil
}
