package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teilomillet/summaryproxy/config"
	"github.com/teilomillet/summaryproxy/server/mocks"
	"go.uber.org/zap/zaptest"
	"google.golang.org/genai"
)

func TestBuildRequest(t *testing.T) {
	t.Run("with system prompt", func(t *testing.T) {
		contents, cfg := BuildRequest("You are a concise assistant", "Summarize this handover")

		require.Len(t, contents, 1)
		require.Len(t, contents[0].Parts, 1)
		assert.Equal(t, "Summarize this handover", contents[0].Parts[0].Text)
		assert.Empty(t, contents[0].Role)

		require.NotNil(t, cfg)
		require.NotNil(t, cfg.SystemInstruction)
		require.Len(t, cfg.SystemInstruction.Parts, 1)
		assert.Equal(t, "You are a concise assistant", cfg.SystemInstruction.Parts[0].Text)
	})

	t.Run("without system prompt", func(t *testing.T) {
		contents, cfg := BuildRequest("", "Summarize this handover")

		require.Len(t, contents, 1)
		assert.Equal(t, "Summarize this handover", contents[0].Parts[0].Text)
		assert.Nil(t, cfg)
	})
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name     string
		resp     *genai.GenerateContentResponse
		wantText string
		wantOK   bool
	}{
		{
			name:     "first candidate text",
			resp:     mocks.TextResponse("Summary text"),
			wantText: "Summary text",
			wantOK:   true,
		},
		{
			name: "only first part is used",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []*genai.Part{{Text: "first"}, {Text: "second"}}}},
				{Content: &genai.Content{Parts: []*genai.Part{{Text: "other candidate"}}}},
			}},
			wantText: "first",
			wantOK:   true,
		},
		{
			name:     "nil response",
			resp:     nil,
			wantText: EmptyResponseText,
		},
		{
			name:     "no candidates",
			resp:     &genai.GenerateContentResponse{Candidates: []*genai.Candidate{}},
			wantText: EmptyResponseText,
		},
		{
			name:     "nil candidate",
			resp:     &genai.GenerateContentResponse{Candidates: []*genai.Candidate{nil}},
			wantText: EmptyResponseText,
		},
		{
			name:     "no content",
			resp:     &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
			wantText: EmptyResponseText,
		},
		{
			name: "no parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{}},
			}},
			wantText: EmptyResponseText,
		},
		{
			name: "nil part",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []*genai.Part{nil}}},
			}},
			wantText: EmptyResponseText,
		},
		{
			name:     "empty text",
			resp:     mocks.TextResponse(""),
			wantText: EmptyResponseText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, ok := ExtractText(tt.resp)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestClientSummarize(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("passes model and request through", func(t *testing.T) {
		gen := mocks.NewMockGenerator(func(ctx context.Context, call mocks.GenerateCall) (*genai.GenerateContentResponse, error) {
			return mocks.TextResponse("Summary text"), nil
		})
		client := NewClient(gen, "gemini-test", logger)

		summary, err := client.Summarize(context.Background(), "sys", "query")
		require.NoError(t, err)
		assert.Equal(t, &Summary{Text: "Summary text"}, summary)

		calls := gen.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "gemini-test", calls[0].Model)
		assert.Equal(t, "query", calls[0].Contents[0].Parts[0].Text)
		assert.Equal(t, "sys", calls[0].Config.SystemInstruction.Parts[0].Text)
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		client := NewClient(mocks.NewMockGenerator(nil), "gemini-test", logger)

		summary, err := client.Summarize(context.Background(), "", "query")
		require.NoError(t, err)
		assert.Equal(t, EmptyResponseText, summary.Text)
		assert.True(t, summary.Empty)
	})

	t.Run("error is returned unchanged", func(t *testing.T) {
		upstreamErr := errors.New("quota exceeded")
		gen := mocks.NewMockGenerator(func(context.Context, mocks.GenerateCall) (*genai.GenerateContentResponse, error) {
			return nil, upstreamErr
		})
		client := NewClient(gen, "gemini-test", nil)

		summary, err := client.Summarize(context.Background(), "", "query")
		assert.Nil(t, summary)
		assert.Same(t, upstreamErr, err)
	})

	t.Run("no deduplication", func(t *testing.T) {
		gen := mocks.NewMockGenerator(nil)
		client := NewClient(gen, "gemini-test", logger)

		for i := 0; i < 3; i++ {
			_, err := client.Summarize(context.Background(), "same", "same")
			require.NoError(t, err)
		}
		assert.Equal(t, 3, gen.CallCount())
	})
}

// TestNewModels exercises the real Gemini SDK against a local server to pin
// the wire shape of the outbound request.
func TestNewModels(t *testing.T) {
	var gotBody map[string]interface{}
	var gotPath, gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(gotPath, "failing-model") {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
			return
		}
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Summary text"}]}}]}`))
	}))
	defer srv.Close()

	models, err := NewModels(context.Background(), config.UpstreamConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)

	client := NewClient(models, "gemini-2.0-flash", zaptest.NewLogger(t))

	summary, err := client.Summarize(context.Background(), "You are a concise assistant", "Summarize this handover")
	require.NoError(t, err)
	assert.Equal(t, "Summary text", summary.Text)

	assert.Contains(t, gotPath, "models/gemini-2.0-flash:generateContent")
	assert.Equal(t, "test-key", gotKey)

	contents := gotBody["contents"].([]interface{})
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]interface{})["parts"].([]interface{})
	assert.Equal(t, "Summarize this handover", parts[0].(map[string]interface{})["text"])

	instruction := gotBody["systemInstruction"].(map[string]interface{})
	sysParts := instruction["parts"].([]interface{})
	assert.Equal(t, "You are a concise assistant", sysParts[0].(map[string]interface{})["text"])

	failing := NewClient(models, "failing-model", nil)
	_, err = failing.Summarize(context.Background(), "", "Summarize this handover")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}
