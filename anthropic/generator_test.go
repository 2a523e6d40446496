package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T, status int, blocks []map[string]any) (*Generator, *[]map[string]any) {
	t.Helper()
	var requests []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests = append(requests, body)

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "invalid_request_error", "message": "bad"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"model":       DefaultModel,
			"content":     blocks,
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 10, "output_tokens": 5},
		})
	}))
	t.Cleanup(srv.Close)

	client := NewClient("test-key", srv.URL, option.WithMaxRetries(0))
	return NewGenerator(client, ""), &requests
}

func TestGenerator_Generate(t *testing.T) {
	gen, requests := newTestGenerator(t, http.StatusOK, []map[string]any{
		{"type": "text", "text": "Paris"},
		{"type": "text", "text": " is the capital."},
	})

	got, err := gen.Generate(context.Background(), "What is the capital of France?")

	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital.", got)
	require.Len(t, *requests, 1)
	assert.Equal(t, DefaultModel, (*requests)[0]["model"])
	assert.EqualValues(t, DefaultMaxTokens, (*requests)[0]["max_tokens"])
}

func TestGenerator_StructuredGenerate(t *testing.T) {
	gen, _ := newTestGenerator(t, http.StatusOK, []map[string]any{
		{"type": "text", "text": "```json\n{\"choice\": \"D\", \"explanation\": \"mostly off-topic\"}\n```"},
	})

	got, err := gen.StructuredGenerate(context.Background(), "Judge.", map[string]interface{}{"type": "object"})

	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"choice": "D", "explanation": "mostly off-topic"}, got)
}

func TestGenerator_EmptyResponse(t *testing.T) {
	gen, _ := newTestGenerator(t, http.StatusOK, []map[string]any{})

	_, err := gen.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerator_APIError(t *testing.T) {
	gen, _ := newTestGenerator(t, http.StatusBadRequest, nil)

	_, err := gen.Generate(context.Background(), "hi")
	assert.ErrorContains(t, err, "anthropic API error (400)")
}
