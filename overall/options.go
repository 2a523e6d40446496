package overall

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/datar-psa/evalscore/api"
)

// DefaultMinimumScore is the success threshold used when none is configured.
const DefaultMinimumScore = 0.5

// Option configures a Metric.
type Option func(*settings)

type settings struct {
	MinimumScore float64       `validate:"gte=0,lte=1"`
	Additional   []namedScorer `validate:"dive"`
	Sink         Sink          `validate:"-"`
	Tracer       trace.Tracer  `validate:"-"`
}

type namedScorer struct {
	Name   string     `validate:"required"`
	Scorer api.Scorer `validate:"required"`
}

// WithMinimumScore sets the threshold the overall score must exceed. It must be in [0, 1].
func WithMinimumScore(score float64) Option {
	return func(s *settings) {
		s.MinimumScore = score
	}
}

// WithSink sets where evaluation records are sent. Defaults to a ZapSink on log.Default.
func WithSink(sink Sink) Option {
	return func(s *settings) {
		s.Sink = sink
	}
}

// WithTracer sets the tracer used for Measure spans. Defaults to the global otel tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *settings) {
		s.Tracer = tracer
	}
}

// WithAdditionalScorer adds a sub-metric that is evaluated after the guarded sub-metrics
// and included in the mean under name. It only runs when at least one guarded sub-metric
// applies, so it never scores a test case on its own.
func WithAdditionalScorer(name string, scorer api.Scorer) Option {
	return func(s *settings) {
		s.Additional = append(s.Additional, namedScorer{Name: name, Scorer: scorer})
	}
}
