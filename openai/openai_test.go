package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer serves the two OpenAI endpoints the package uses.
func fakeServer(t *testing.T, chatContent string, embedding []float32, status int) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var requests []map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests = append(requests, body)

		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": chatContent}, "finish_reason": "stop"},
			},
		})
	})
	mux.HandleFunc("/v1/embeddings", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests = append(requests, body)

		w.Header().Set("Content-Type", "application/json")
		data := []map[string]any{}
		if embedding != nil {
			data = append(data, map[string]any{"object": "embedding", "index": 0, "embedding": embedding})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestGenerator_Generate(t *testing.T) {
	srv, requests := fakeServer(t, "Paris", nil, http.StatusOK)
	gen := NewGenerator(NewClient("test-key", srv.URL+"/v1"), "")

	got, err := gen.Generate(context.Background(), "What is the capital of France?")

	require.NoError(t, err)
	assert.Equal(t, "Paris", got)
	require.Len(t, *requests, 1)
	assert.Equal(t, string(DefaultModel), (*requests)[0]["model"])
	assert.Nil(t, (*requests)[0]["response_format"])
}

func TestGenerator_StructuredGenerate(t *testing.T) {
	srv, requests := fakeServer(t, `{"choice": "A", "explanation": "supported"}`, nil, http.StatusOK)
	gen := NewGenerator(NewClient("test-key", srv.URL+"/v1"), "gpt-4o")

	got, err := gen.StructuredGenerate(context.Background(), "Judge.", map[string]interface{}{"type": "object"})

	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"choice": "A", "explanation": "supported"}, got)
	require.Len(t, *requests, 1)
	assert.Equal(t, "gpt-4o", (*requests)[0]["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, (*requests)[0]["response_format"])
}

func TestGenerator_StructuredGenerate_NotJSON(t *testing.T) {
	srv, _ := fakeServer(t, "no json here", nil, http.StatusOK)
	gen := NewGenerator(NewClient("test-key", srv.URL+"/v1"), "")

	_, err := gen.StructuredGenerate(context.Background(), "Judge.", map[string]interface{}{"type": "object"})
	assert.Error(t, err)
}

func TestGenerator_ServerError(t *testing.T) {
	srv, _ := fakeServer(t, "", nil, http.StatusBadRequest)
	gen := NewGenerator(NewClient("test-key", srv.URL+"/v1"), "")

	_, err := gen.Generate(context.Background(), "hi")
	assert.ErrorContains(t, err, "failed to create chat completion")
}

func TestEmbedder_Embed(t *testing.T) {
	srv, requests := fakeServer(t, "", []float32{0.5, -0.25, 1}, http.StatusOK)
	emb := NewEmbedder(NewClient("test-key", srv.URL+"/v1"), "")

	got, err := emb.Embed(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -0.25, 1}, got)
	require.Len(t, *requests, 1)
	assert.Equal(t, string(DefaultEmbeddingModel), (*requests)[0]["model"])
}

func TestEmbedder_NoData(t *testing.T) {
	srv, _ := fakeServer(t, "", nil, http.StatusOK)
	emb := NewEmbedder(NewClient("test-key", srv.URL+"/v1"), "text-embedding-3-large")

	_, err := emb.Embed(context.Background(), "hello")
	assert.ErrorContains(t, err, "no embeddings returned")
}
