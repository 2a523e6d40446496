package evalscore

import (
	"github.com/datar-psa/evalscore/api"
	"github.com/datar-psa/evalscore/overall"
)

var (
	// ErrNoExpectedValue is returned when an expected value is required but not provided
	ErrNoExpectedValue = api.ErrNoExpectedValue
	// ErrNoContext is returned when a context is required but not provided
	ErrNoContext = api.ErrNoContext
	// ErrNoInput is returned when the query is required but not provided
	ErrNoInput = api.ErrNoInput
	// ErrLLMGenerationFailed is returned when LLM generation fails
	ErrLLMGenerationFailed = api.ErrLLMGenerationFailed
	// ErrNoSubMetrics is returned when a test case has none of context, query or expected output
	ErrNoSubMetrics = overall.ErrNoSubMetrics
	// ErrBelowMinimumScore is returned by overall score assertions that fail
	ErrBelowMinimumScore = overall.ErrBelowMinimumScore
)
