package overall

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSubMetrics is returned when a test case has none of context, query or
	// expected output, so no sub-metric can be computed and the mean is undefined.
	ErrNoSubMetrics = errors.New("no sub-metric applies: test case has no context, query or expected output")

	// ErrBelowMinimumScore is matched by assertion failures.
	ErrBelowMinimumScore = errors.New("overall score below minimum score")

	// ErrDuplicateScorer is returned when two sub-metrics share a name.
	ErrDuplicateScorer = errors.New("duplicate sub-metric name")
)

// BelowMinimumScoreError reports a failed overall score assertion.
type BelowMinimumScoreError struct {
	Score        float64
	MinimumScore float64
}

func (e *BelowMinimumScoreError) Error() string {
	return fmt.Sprintf("%s is below the minimum score of %v - got %v", Name, e.MinimumScore, e.Score)
}

// Is reports whether target is ErrBelowMinimumScore.
func (e *BelowMinimumScoreError) Is(target error) bool {
	return target == ErrBelowMinimumScore
}
