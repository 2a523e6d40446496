package heuristic

import (
	"context"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/datar-psa/evalscore/api"
)

// LevenshteinSimilarityOptions configures the LevenshteinSimilarity scorer
type LevenshteinSimilarityOptions struct {
	Normalization
}

// LevenshteinSimilarity returns a scorer that compares the output with the expected value by
// edit distance: 1 - distance/max(len(output), len(expected)), measured in runes.
// It is a model-free stand-in for conceptual similarity.
func LevenshteinSimilarity(opts LevenshteinSimilarityOptions) api.Scorer {
	return &levenshteinScorer{opts: opts}
}

type levenshteinScorer struct {
	opts LevenshteinSimilarityOptions
}

func (s *levenshteinScorer) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     "LevenshteinSimilarity",
		Metadata: make(map[string]any),
	}

	if in.Expected == "" {
		result.Error = api.ErrNoExpectedValue
		result.Score = 0
		return result
	}

	output := s.opts.apply(in.Output)
	expected := s.opts.apply(in.Expected)

	distance := levenshtein.ComputeDistance(output, expected)
	maxLen := max(utf8.RuneCountInString(output), utf8.RuneCountInString(expected))

	if maxLen == 0 {
		result.Score = 1.0
	} else {
		result.Score = 1.0 - float64(distance)/float64(maxLen)
	}

	s.opts.metadata(result.Metadata)
	result.Metadata["distance"] = distance

	return result
}
