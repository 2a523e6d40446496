package overall

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Record is the structured result of one Measure call.
type Record struct {
	Success        bool
	Score          float64
	MetricName     string
	Query          string
	Output         string
	ExpectedOutput string
	Context        string
	Metadata       ScoreMap
}

// Sink receives evaluation records.
type Sink interface {
	Log(ctx context.Context, rec Record)
}

// ZapSink writes records as structured zap entries.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink returns a sink logging to logger.
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

// Log implements Sink. Passing records are logged at info level, failing ones at warn.
func (s *ZapSink) Log(_ context.Context, rec Record) {
	level := zapcore.InfoLevel
	if !rec.Success {
		level = zapcore.WarnLevel
	}
	s.logger.Log(level, "metric evaluated",
		zap.String("metric_name", rec.MetricName),
		zap.Bool("success", rec.Success),
		zap.Float64("score", rec.Score),
		zap.Object("metadata", rec.Metadata),
		zap.String("query", rec.Query),
		zap.String("output", rec.Output),
		zap.String("expected_output", rec.ExpectedOutput),
		zap.String("context", rec.Context),
	)
}

// MultiSink fans records out to several sinks in order.
type MultiSink []Sink

// Log implements Sink.
func (m MultiSink) Log(ctx context.Context, rec Record) {
	for _, s := range m {
		s.Log(ctx, rec)
	}
}

// NopSink discards records.
type NopSink struct{}

// Log implements Sink.
func (NopSink) Log(context.Context, Record) {}
