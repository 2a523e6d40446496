package overall

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusSink records overall and sub-metric scores as Prometheus metrics.
type PrometheusSink struct {
	overallScore   *prometheus.HistogramVec
	results        *prometheus.CounterVec
	subMetricScore *prometheus.HistogramVec
}

// scoreBuckets cover [0, 1] in tenths.
var scoreBuckets = prometheus.LinearBuckets(0.1, 0.1, 10)

// NewPrometheusSink creates a PrometheusSink and registers its collectors with reg.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	factory := promauto.With(reg)
	return &PrometheusSink{
		overallScore: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evalscore_overall_score",
				Help:    "Distribution of aggregate scores per evaluated test case.",
				Buckets: scoreBuckets,
			},
			[]string{"metric"},
		),
		results: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evalscore_overall_results_total",
				Help: "Evaluated test cases by outcome.",
			},
			[]string{"metric", "success"},
		),
		subMetricScore: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evalscore_sub_metric_score",
				Help:    "Distribution of sub-metric scores feeding the aggregate.",
				Buckets: scoreBuckets,
			},
			[]string{"metric"},
		),
	}
}

// Log implements Sink.
func (p *PrometheusSink) Log(_ context.Context, rec Record) {
	p.overallScore.WithLabelValues(rec.MetricName).Observe(rec.Score)
	p.results.WithLabelValues(rec.MetricName, strconv.FormatBool(rec.Success)).Inc()
	for _, s := range rec.Metadata {
		p.subMetricScore.WithLabelValues(s.Name).Observe(s.Score)
	}
}
