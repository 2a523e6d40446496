package overall

import (
	"context"
	"slices"

	"github.com/datar-psa/evalscore/api"
)

// AssertOverallScore builds a Metric with the given minimum score and asserts the test case
// assembled from the remaining arguments. Empty strings mean the field is absent.
func AssertOverallScore(ctx context.Context, d Delegates, query, output, expectedOutput, contextText string, minimumScore float64, opts ...Option) error {
	m, err := New(d, slices.Concat(opts, []Option{WithMinimumScore(minimumScore)})...)
	if err != nil {
		return err
	}
	return m.Assert(ctx, api.TestCase{
		Input:    query,
		Output:   output,
		Expected: expectedOutput,
		Context:  contextText,
	})
}
