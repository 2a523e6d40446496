package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/datar-psa/evalscore/api"
)

// DefaultEmbeddingModel is used when NewEmbedder is given an empty model name
const DefaultEmbeddingModel = goopenai.SmallEmbedding3

// Embedder wraps a go-openai client to implement the Embedder interface
type Embedder struct {
	client    *goopenai.Client
	modelName goopenai.EmbeddingModel
}

// NewEmbedder creates a new OpenAI embedder
// modelName: the embedding model to use (e.g., "text-embedding-3-small")
func NewEmbedder(client *goopenai.Client, modelName string) *Embedder {
	model := goopenai.EmbeddingModel(modelName)
	if modelName == "" {
		model = DefaultEmbeddingModel
	}
	return &Embedder{
		client:    client,
		modelName: model,
	}
}

// Embed implements Embedder.Embed
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := e.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: []string{text},
		Model: e.modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	values := resp.Data[0].Embedding
	if len(values) == 0 {
		return nil, fmt.Errorf("empty embedding vector")
	}

	embedding := make([]float64, len(values))
	for i, v := range values {
		embedding[i] = float64(v)
	}
	return embedding, nil
}

// Verify that Embedder implements api.Embedder
var _ api.Embedder = (*Embedder)(nil)
