package llmjudge

import (
	"context"
	"fmt"

	"github.com/datar-psa/evalscore/api"
)

// AnswerRelevancyOptions configures the AnswerRelevancy scorer
type AnswerRelevancyOptions struct{}

// AnswerRelevancy returns a scorer that uses an LLM to evaluate how directly the output
// answers the query. Correctness is not judged, only relevancy.
// Only Input (the query) and Output are read from the inputs.
func AnswerRelevancy(llm api.LLMGenerator, opts AnswerRelevancyOptions) api.Scorer {
	return &answerRelevancyScorer{
		opts: opts,
		llm:  llm,
	}
}

type answerRelevancyScorer struct {
	opts AnswerRelevancyOptions
	llm  api.LLMGenerator
}

const answerRelevancyPromptTemplate = `You are judging whether an answer is relevant to the question it responds to. Be deterministic and concise.

[BEGIN DATA]
************
[Question]: %s
************
[Answer]: %s
************
[END DATA]

Judge relevancy only. Do not judge whether the answer is correct.
Select one option:
(A) The answer directly and fully addresses the question.
(B) The answer addresses the question but includes some off-topic material.
(C) The answer is partially relevant; it misses an important part of the question.
(D) The answer is mostly off-topic with only a loose connection to the question.
(E) The answer does not address the question at all.`

func (s *answerRelevancyScorer) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     "AnswerRelevancy",
		Metadata: make(map[string]any),
	}

	if in.Input == "" {
		result.Error = api.ErrNoInput
		result.Score = 0
		return result
	}

	if s.llm == nil {
		result.Error = fmt.Errorf("LLM generator is required")
		result.Score = 0
		return result
	}

	prompt := fmt.Sprintf(answerRelevancyPromptTemplate, in.Input, in.Output)

	schema := choiceSchema("Relevancy of the answer to the question (A best, E irrelevant)")

	response, err := s.llm.StructuredGenerate(ctx, prompt, schema)
	if err != nil {
		return returnError(&result, fmt.Errorf("%w: %v", api.ErrLLMGenerationFailed, err), nil)
	}

	if err := applyChoice(&result, response); err != nil {
		return returnError(&result, err, response)
	}

	return result
}
