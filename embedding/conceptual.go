package embedding

import (
	"context"
	"fmt"
	"math"

	"github.com/datar-psa/evalscore/api"
)

// ConceptualSimilarityOptions configures the ConceptualSimilarity scorer
type ConceptualSimilarityOptions struct {
	// ClampCosine scores the raw cosine similarity with negatives clamped to 0.
	// By default the cosine range [-1, 1] is rescaled linearly to [0, 1].
	ClampCosine bool
}

// ConceptualSimilarity returns a scorer that measures how close in meaning the output is to
// the expected output, using the cosine similarity of their embeddings.
// Only Expected and Output are read from the inputs.
func ConceptualSimilarity(embedder api.Embedder, opts ConceptualSimilarityOptions) api.Scorer {
	return &conceptualSimilarityScorer{
		opts:     opts,
		embedder: embedder,
	}
}

type conceptualSimilarityScorer struct {
	opts     ConceptualSimilarityOptions
	embedder api.Embedder
}

func (s *conceptualSimilarityScorer) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     "ConceptualSimilarity",
		Metadata: make(map[string]any),
	}

	if in.Expected == "" {
		result.Error = api.ErrNoExpectedValue
		result.Score = 0
		return result
	}

	if s.embedder == nil {
		result.Error = fmt.Errorf("embedder is required")
		result.Score = 0
		return result
	}

	outputEmbed, err := s.embedder.Embed(ctx, in.Output)
	if err != nil {
		result.Error = fmt.Errorf("failed to embed output: %w", err)
		result.Score = 0
		return result
	}

	expectedEmbed, err := s.embedder.Embed(ctx, in.Expected)
	if err != nil {
		result.Error = fmt.Errorf("failed to embed expected: %w", err)
		result.Score = 0
		return result
	}

	if len(outputEmbed) != len(expectedEmbed) {
		result.Error = fmt.Errorf("embedding dimensions differ: %d vs %d", len(outputEmbed), len(expectedEmbed))
		result.Score = 0
		return result
	}

	similarity := cosineSimilarity(outputEmbed, expectedEmbed)

	var score float64
	if s.opts.ClampCosine {
		score = similarity
	} else {
		score = (similarity + 1.0) / 2.0
	}

	result.Score = math.Max(0, math.Min(1, score))
	result.Metadata["cosine_similarity"] = similarity
	result.Metadata["embedding_dim"] = len(outputEmbed)
	result.Metadata["clamp_cosine"] = s.opts.ClampCosine

	return result
}

// cosineSimilarity computes the cosine similarity between two vectors
// Returns a value between -1 and 1, where 1 means identical direction
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	normA = math.Sqrt(normA)
	normB = math.Sqrt(normB)

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (normA * normB)
}
