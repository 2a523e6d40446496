// Package runner evaluates a dataset against the overall score with bounded concurrency.
package runner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/datar-psa/evalscore/dataset"
	"github.com/datar-psa/evalscore/log"
	"github.com/datar-psa/evalscore/overall"
)

// DefaultConcurrency is the number of cases evaluated at once when none is configured.
const DefaultConcurrency = 4

// Runner evaluates datasets. Metrics are taken from a cache keyed by minimum score so
// cases overriding the threshold share one metric per distinct value.
type Runner struct {
	metrics      *overall.Cache
	minimumScore float64
	concurrency  int
	logger       *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency bounds the number of cases evaluated at once. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n >= 1 {
			r.concurrency = n
		}
	}
}

// WithMinimumScore sets the threshold for cases without their own minimum_score.
func WithMinimumScore(score float64) Option {
	return func(r *Runner) {
		r.minimumScore = score
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// New creates a Runner drawing metrics from metrics.
func New(metrics *overall.Cache, opts ...Option) *Runner {
	r := &Runner{
		metrics:      metrics,
		minimumScore: overall.DefaultMinimumScore,
		concurrency:  DefaultConcurrency,
		logger:       log.Default,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CaseResult is the outcome of one case. Err is set when the case could not be scored.
type CaseResult struct {
	Name     string
	Result   overall.Result
	Err      error
	Duration time.Duration
}

// Passed reports whether the case was scored and met its threshold.
func (c CaseResult) Passed() bool {
	return c.Err == nil && c.Result.Success
}

// Run evaluates every case in ds. Scoring errors are recorded on the case and do not stop
// the run. Run only fails when a metric cannot be built or ctx ends; the partial report is
// returned alongside the error.
func (r *Runner) Run(ctx context.Context, ds *dataset.Dataset) (*Report, error) {
	results := make([]CaseResult, len(ds.Cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, c := range ds.Cases {
		minimum := r.minimumScore
		if c.MinimumScore != nil {
			minimum = *c.MinimumScore
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = CaseResult{Name: c.Name, Err: err}
				return err
			}

			m, err := r.metrics.Get(minimum)
			if err != nil {
				results[i] = CaseResult{Name: c.Name, Err: err}
				return fmt.Errorf("failed to build metric for minimum score %v: %w", minimum, err)
			}

			start := time.Now()
			res, err := m.Measure(gctx, c.TestCase)
			results[i] = CaseResult{
				Name:     c.Name,
				Result:   res,
				Err:      err,
				Duration: time.Since(start),
			}

			if err != nil {
				r.logger.Warn("case errored", zap.String("case", c.Name), zap.Error(err))
			} else {
				r.logger.Debug("case scored",
					zap.String("case", c.Name),
					zap.Float64("score", res.Score),
					zap.Bool("success", res.Success),
					zap.Duration("duration", results[i].Duration),
				)
			}
			return nil
		})
	}

	err := g.Wait()
	report := newReport(results)
	if err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}
