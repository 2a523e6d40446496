// Package overalltest provides test helpers for code that evaluates test cases with
// the overall score metric.
package overalltest

import (
	"context"

	"github.com/stretchr/testify/require"

	"github.com/datar-psa/evalscore/api"
	"github.com/datar-psa/evalscore/overall"
)

// RequireOverallScore fails t immediately when tc does not pass m.
func RequireOverallScore(t require.TestingT, ctx context.Context, m *overall.Metric, tc api.TestCase) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	require.NoError(t, m.Assert(ctx, tc))
}
