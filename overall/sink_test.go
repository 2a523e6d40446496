package overall

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/datar-psa/evalscore/api"
)

func TestZapSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	f := newFixture(0.9, 0.2, 0)
	m, err := New(f.delegates(), WithSink(NewZapSink(zap.New(core))))
	require.NoError(t, err)

	_, err = m.Measure(context.Background(), api.TestCase{Input: "q", Output: "out", Context: "ctx"})
	require.NoError(t, err)

	entries := logs.FilterMessage("metric evaluated").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, Name, fields["metric_name"])
	assert.Equal(t, true, fields["success"])
	assert.InDelta(t, 0.55, fields["score"], 1e-12)
	assert.Equal(t, "q", fields["query"])
	assert.Equal(t, "out", fields["output"])
	assert.Equal(t, "", fields["expected_output"])
	assert.Equal(t, "ctx", fields["context"])
	assert.Equal(t, map[string]any{
		KeyFactualConsistency: 0.9,
		KeyAnswerRelevancy:    0.2,
	}, fields["metadata"])
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)

	_, err = m.Measure(context.Background(), api.TestCase{Input: "q", Output: "out"})
	require.NoError(t, err)
	entries = logs.FilterMessage("metric evaluated").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, false, entries[1].ContextMap()["success"])
}

func TestPrometheusSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := NewPrometheusSink(reg)

	sink.Log(context.Background(), Record{
		Success:    true,
		Score:      0.8,
		MetricName: Name,
		Metadata: ScoreMap{
			{Name: KeyFactualConsistency, Score: 0.9},
			{Name: KeyAnswerRelevancy, Score: 0.7},
		},
	})
	sink.Log(context.Background(), Record{
		Success:    false,
		Score:      0.1,
		MetricName: Name,
		Metadata:   ScoreMap{{Name: KeyConceptualSimilarity, Score: 0.1}},
	})
	sink.Log(context.Background(), Record{
		Success:    false,
		Score:      0.2,
		MetricName: Name,
		Metadata:   ScoreMap{{Name: KeyConceptualSimilarity, Score: 0.2}},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(sink.results.WithLabelValues(Name, "true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.results.WithLabelValues(Name, "false")))
	assert.Equal(t, 3, testutil.CollectAndCount(sink.subMetricScore, "evalscore_sub_metric_score"))
	assert.Equal(t, 1, testutil.CollectAndCount(sink.overallScore, "evalscore_overall_score"))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestMultiSink(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	var sink Sink = MultiSink{a, NopSink{}, b}

	rec := Record{Score: 0.4, MetricName: Name}
	sink.Log(context.Background(), rec)

	assert.Equal(t, []Record{rec}, a.records)
	assert.Equal(t, []Record{rec}, b.records)
}

func TestScoreMap(t *testing.T) {
	var empty ScoreMap
	_, ok := empty.Mean()
	assert.False(t, ok)
	assert.Equal(t, 0, empty.Len())

	m := ScoreMap{
		{Name: KeyAnswerRelevancy, Score: 0.25},
		{Name: KeyConceptualSimilarity, Score: 0.75},
	}
	mean, ok := m.Mean()
	assert.True(t, ok)
	assert.Equal(t, 0.5, mean)

	_, ok = m.Get(KeyFactualConsistency)
	assert.False(t, ok)
	assert.Equal(t, []string{KeyAnswerRelevancy, KeyConceptualSimilarity}, m.Names())
	assert.Equal(t, map[string]float64{KeyAnswerRelevancy: 0.25, KeyConceptualSimilarity: 0.75}, m.Map())
}
