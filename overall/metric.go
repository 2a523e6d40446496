// Package overall combines factual consistency, answer relevancy and conceptual
// similarity into a single score: the mean of whichever sub-metrics the test case
// carries enough data for.
package overall

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/datar-psa/evalscore/api"
	"github.com/datar-psa/evalscore/log"
)

// Name is the display name of the aggregate metric.
const Name = "Overall Score"

// Sub-metric keys, in evaluation order.
const (
	KeyFactualConsistency   = "factual_consistency"
	KeyAnswerRelevancy      = "answer_relevancy"
	KeyConceptualSimilarity = "conceptual_similarity"
)

const tracerName = "github.com/datar-psa/evalscore/overall"

var validate = validator.New()

// Delegates are the sub-metric scorers the aggregate calls.
type Delegates struct {
	// FactualConsistency scores Output against Context.
	FactualConsistency api.Scorer `validate:"required"`
	// AnswerRelevancy scores Output against Input.
	AnswerRelevancy api.Scorer `validate:"required"`
	// ConceptualSimilarity scores Output against Expected.
	ConceptualSimilarity api.Scorer `validate:"required"`
}

// Result is the outcome of one Measure call.
type Result struct {
	Score        float64  `json:"score"`
	Success      bool     `json:"success"`
	MinimumScore float64  `json:"minimum_score"`
	Scores       ScoreMap `json:"scores"`
}

// Metric is the overall score aggregator. It is safe for concurrent use.
type Metric struct {
	delegates    Delegates
	minimumScore float64
	additional   []namedScorer
	sink         Sink
	tracer       trace.Tracer

	success atomic.Bool
}

// New creates a Metric calling the given delegates.
func New(d Delegates, opts ...Option) (*Metric, error) {
	if err := validate.Struct(d); err != nil {
		return nil, fmt.Errorf("invalid delegates: %w", err)
	}

	s := settings{
		MinimumScore: DefaultMinimumScore,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if s.Sink == nil {
		s.Sink = NewZapSink(log.Default)
	}
	if s.Tracer == nil {
		s.Tracer = otel.Tracer(tracerName)
	}

	seen := map[string]bool{
		KeyFactualConsistency:   true,
		KeyAnswerRelevancy:      true,
		KeyConceptualSimilarity: true,
	}
	for _, a := range s.Additional {
		if seen[a.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateScorer, a.Name)
		}
		seen[a.Name] = true
	}

	return &Metric{
		delegates:    d,
		minimumScore: s.MinimumScore,
		additional:   s.Additional,
		sink:         s.Sink,
		tracer:       s.Tracer,
	}, nil
}

// MinimumScore returns the success threshold.
func (m *Metric) MinimumScore() float64 { return m.minimumScore }

// Name returns the display name of the metric.
func (m *Metric) Name() string { return Name }

// IsSuccessful reports the outcome of the last Measure call that produced a score.
// It is false before any such call.
func (m *Metric) IsSuccessful() bool { return m.success.Load() }

type step struct {
	key    string
	scorer api.Scorer
	in     api.ScoreInputs
}

// steps returns the sub-metrics that apply to tc. Each delegate only sees the fields it needs.
// It returns nil when no guarded sub-metric applies; additional scorers are not counted.
func (m *Metric) steps(tc api.TestCase) []step {
	steps := make([]step, 0, 3+len(m.additional))
	if tc.Context != "" {
		steps = append(steps, step{
			key:    KeyFactualConsistency,
			scorer: m.delegates.FactualConsistency,
			in:     api.ScoreInputs{Context: tc.Context, Output: tc.Output},
		})
	}
	if tc.Input != "" {
		steps = append(steps, step{
			key:    KeyAnswerRelevancy,
			scorer: m.delegates.AnswerRelevancy,
			in:     api.ScoreInputs{Input: tc.Input, Output: tc.Output},
		})
	}
	if tc.Expected != "" {
		steps = append(steps, step{
			key:    KeyConceptualSimilarity,
			scorer: m.delegates.ConceptualSimilarity,
			in:     api.ScoreInputs{Expected: tc.Expected, Output: tc.Output},
		})
	}
	if len(steps) == 0 {
		return nil
	}
	for _, a := range m.additional {
		steps = append(steps, step{key: a.Name, scorer: a.Scorer, in: tc})
	}
	return steps
}

// Measure computes the overall score for tc. Delegates run sequentially in the order
// factual consistency, answer relevancy, conceptual similarity. The first delegate error
// is returned as is and no record is logged.
func (m *Metric) Measure(ctx context.Context, tc api.TestCase) (result Result, err error) {
	ctx, span := m.tracer.Start(ctx, "overall.Measure",
		trace.WithAttributes(
			attribute.Bool("overall.has_context", tc.Context != ""),
			attribute.Bool("overall.has_query", tc.Input != ""),
			attribute.Bool("overall.has_expected_output", tc.Expected != ""),
			attribute.Float64("overall.minimum_score", m.minimumScore),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	steps := m.steps(tc)
	if len(steps) == 0 {
		return Result{}, ErrNoSubMetrics
	}
	scores := make(ScoreMap, 0, len(steps))
	for _, st := range steps {
		sc := st.scorer.Score(ctx, st.in)
		if sc.Error != nil {
			span.SetAttributes(attribute.String("overall.failed_sub_metric", st.key))
			return Result{}, sc.Error
		}
		scores = append(scores, SubScore{Name: st.key, Score: sc.Score})
	}

	mean, _ := scores.Mean()
	success := mean > m.minimumScore
	m.success.Store(success)

	span.SetAttributes(
		attribute.Float64("overall.score", mean),
		attribute.Bool("overall.success", success),
		attribute.Int("overall.sub_metrics", scores.Len()),
	)

	m.sink.Log(ctx, Record{
		Success:        success,
		Score:          mean,
		MetricName:     Name,
		Query:          tc.Input,
		Output:         tc.Output,
		ExpectedOutput: tc.Expected,
		Context:        tc.Context,
		Metadata:       scores,
	})

	return Result{
		Score:        mean,
		Success:      success,
		MinimumScore: m.minimumScore,
		Scores:       scores,
	}, nil
}

// Score implements api.Scorer so the aggregate can be used wherever a single scorer is.
func (m *Metric) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     Name,
		Metadata: make(map[string]any),
	}

	r, err := m.Measure(ctx, in)
	if err != nil {
		result.Error = err
		return result
	}

	result.Score = r.Score
	result.Metadata["success"] = r.Success
	result.Metadata["minimum_score"] = r.MinimumScore
	for _, sub := range r.Scores {
		result.Metadata[sub.Name] = sub.Score
	}
	return result
}

// Assert measures tc and returns a *BelowMinimumScoreError when it does not pass.
func (m *Metric) Assert(ctx context.Context, tc api.TestCase) error {
	r, err := m.Measure(ctx, tc)
	if err != nil {
		return err
	}
	if !r.Success {
		return &BelowMinimumScoreError{Score: r.Score, MinimumScore: r.MinimumScore}
	}
	return nil
}
