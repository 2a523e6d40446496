package llmjudge

import (
	"context"
	"fmt"

	"github.com/datar-psa/evalscore/api"
)

// FactualConsistencyOptions configures the FactualConsistency scorer
type FactualConsistencyOptions struct {
	// StrictUnsupported treats claims that the context neither supports nor contradicts
	// as inconsistent instead of merely incomplete
	StrictUnsupported bool
}

// FactualConsistency returns a scorer that uses an LLM to evaluate whether the output
// is factually consistent with the supplied context.
// Only Context and Output are read from the inputs.
func FactualConsistency(llm api.LLMGenerator, opts FactualConsistencyOptions) api.Scorer {
	return &factualConsistencyScorer{
		opts: opts,
		llm:  llm,
	}
}

type factualConsistencyScorer struct {
	opts FactualConsistencyOptions
	llm  api.LLMGenerator
}

const factualConsistencyPromptTemplate = `You are checking whether a submitted answer is factually consistent with a reference context.

[BEGIN DATA]
************
[Context]: %s
************
[Submission]: %s
************
[END DATA]

Compare the factual content of the submission with the context. Ignore differences in style, grammar or punctuation.
%s
Select one option:
(A) Every claim in the submission is supported by the context.
(B) The submission is supported by the context apart from minor details that the context does not mention.
(C) The submission is partially supported; some claims cannot be verified from the context.
(D) Most claims in the submission are unsupported by the context.
(E) The submission contradicts the context.`

const strictUnsupportedInstruction = "Treat any claim the context does not mention as unsupported; do not give credit for plausible extrapolation.\n"

func (s *factualConsistencyScorer) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     "FactualConsistency",
		Metadata: make(map[string]any),
	}

	if in.Context == "" {
		result.Error = api.ErrNoContext
		result.Score = 0
		return result
	}

	if s.llm == nil {
		result.Error = fmt.Errorf("LLM generator is required")
		result.Score = 0
		return result
	}

	instruction := ""
	if s.opts.StrictUnsupported {
		instruction = strictUnsupportedInstruction
	}
	prompt := fmt.Sprintf(factualConsistencyPromptTemplate, in.Context, in.Output, instruction)

	schema := choiceSchema("Consistency of the submission with the context (A best, E contradiction)")

	response, err := s.llm.StructuredGenerate(ctx, prompt, schema)
	if err != nil {
		return returnError(&result, fmt.Errorf("%w: %v", api.ErrLLMGenerationFailed, err), nil)
	}

	if err := applyChoice(&result, response); err != nil {
		return returnError(&result, err, response)
	}
	result.Metadata["strict_unsupported"] = s.opts.StrictUnsupported

	return result
}
