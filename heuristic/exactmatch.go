package heuristic

import (
	"context"

	"github.com/datar-psa/evalscore/api"
)

// ExactMatchOptions configures the ExactMatch scorer
type ExactMatchOptions struct {
	Normalization
}

// ExactMatch returns a scorer that checks if the output exactly matches the expected value
func ExactMatch(opts ExactMatchOptions) api.Scorer {
	return &exactMatchScorer{opts: opts}
}

type exactMatchScorer struct {
	opts ExactMatchOptions
}

func (s *exactMatchScorer) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     "ExactMatch",
		Metadata: make(map[string]any),
	}

	if in.Expected == "" {
		result.Error = api.ErrNoExpectedValue
		result.Score = 0
		return result
	}

	if s.opts.apply(in.Output) == s.opts.apply(in.Expected) {
		result.Score = 1.0
	}

	s.opts.metadata(result.Metadata)
	result.Metadata["output_length"] = len(in.Output)
	result.Metadata["expected_length"] = len(in.Expected)

	return result
}
