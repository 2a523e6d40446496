package overall

import (
	"go.uber.org/zap/zapcore"
)

// SubScore is one named sub-metric score.
type SubScore struct {
	Name  string  `json:"name" yaml:"name"`
	Score float64 `json:"score" yaml:"score"`
}

// ScoreMap holds sub-metric scores in the order they were computed.
type ScoreMap []SubScore

// Len returns the number of collected scores.
func (m ScoreMap) Len() int { return len(m) }

// Get returns the score stored under name.
func (m ScoreMap) Get(name string) (float64, bool) {
	for _, s := range m {
		if s.Name == name {
			return s.Score, true
		}
	}
	return 0, false
}

// Names returns the metric names in insertion order.
func (m ScoreMap) Names() []string {
	names := make([]string, len(m))
	for i, s := range m {
		names[i] = s.Name
	}
	return names
}

// Mean returns the unweighted arithmetic mean. ok is false for an empty map.
func (m ScoreMap) Mean() (mean float64, ok bool) {
	if len(m) == 0 {
		return 0, false
	}
	var sum float64
	for _, s := range m {
		sum += s.Score
	}
	return sum / float64(len(m)), true
}

// Map returns the scores keyed by name.
func (m ScoreMap) Map() map[string]float64 {
	out := make(map[string]float64, len(m))
	for _, s := range m {
		out[s.Name] = s.Score
	}
	return out
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (m ScoreMap) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, s := range m {
		enc.AddFloat64(s.Name, s.Score)
	}
	return nil
}
