package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Report summarizes a run.
type Report struct {
	Results []CaseResult

	Total   int
	Passed  int
	Failed  int
	Errored int
	// MeanScore is the mean overall score of the cases that were scored.
	MeanScore float64
}

func newReport(results []CaseResult) *Report {
	r := &Report{Results: results, Total: len(results)}

	var sum float64
	scored := 0
	for _, c := range results {
		switch {
		case c.Err != nil:
			r.Errored++
		case c.Result.Success:
			r.Passed++
		default:
			r.Failed++
		}
		if c.Err == nil {
			sum += c.Result.Score
			scored++
		}
	}
	if scored > 0 {
		r.MeanScore = sum / float64(scored)
	}
	return r
}

// PassRate is the fraction of all cases that passed.
func (r *Report) PassRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total)
}

// OK reports whether every case passed.
func (r *Report) OK() bool {
	return r.Passed == r.Total
}

// WriteText writes a table of results followed by a summary line.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CASE\tSTATUS\tSCORE\tMIN\tSUB-METRICS")
	for _, c := range r.Results {
		if c.Err != nil {
			fmt.Fprintf(tw, "%s\tERROR\t-\t-\t%v\n", c.Name, c.Err)
			continue
		}
		status := "FAIL"
		if c.Result.Success {
			status = "PASS"
		}
		subs := make([]string, 0, c.Result.Scores.Len())
		for _, s := range c.Result.Scores {
			subs = append(subs, fmt.Sprintf("%s=%.3f", s.Name, s.Score))
		}
		fmt.Fprintf(tw, "%s\t%s\t%.3f\t%.2f\t%s\n", c.Name, status, c.Result.Score, c.Result.MinimumScore, strings.Join(subs, " "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d cases: %d passed, %d failed, %d errored (pass rate %.1f%%, mean score %.3f)\n",
		r.Total, r.Passed, r.Failed, r.Errored, r.PassRate()*100, r.MeanScore)
	return err
}

type jsonCase struct {
	Name         string             `json:"name"`
	Success      bool               `json:"success"`
	Score        *float64           `json:"score,omitempty"`
	MinimumScore *float64           `json:"minimum_score,omitempty"`
	Scores       map[string]float64 `json:"scores,omitempty"`
	Error        string             `json:"error,omitempty"`
	DurationMS   int64              `json:"duration_ms"`
}

type jsonReport struct {
	Total     int        `json:"total"`
	Passed    int        `json:"passed"`
	Failed    int        `json:"failed"`
	Errored   int        `json:"errored"`
	PassRate  float64    `json:"pass_rate"`
	MeanScore float64    `json:"mean_score"`
	Cases     []jsonCase `json:"cases"`
}

// WriteJSON writes the report as an indented JSON document.
func (r *Report) WriteJSON(w io.Writer) error {
	out := jsonReport{
		Total:     r.Total,
		Passed:    r.Passed,
		Failed:    r.Failed,
		Errored:   r.Errored,
		PassRate:  r.PassRate(),
		MeanScore: r.MeanScore,
		Cases:     make([]jsonCase, 0, len(r.Results)),
	}
	for _, c := range r.Results {
		jc := jsonCase{
			Name:       c.Name,
			DurationMS: c.Duration.Milliseconds(),
		}
		if c.Err != nil {
			jc.Error = c.Err.Error()
		} else {
			score, minimum := c.Result.Score, c.Result.MinimumScore
			jc.Success = c.Result.Success
			jc.Score = &score
			jc.MinimumScore = &minimum
			jc.Scores = c.Result.Scores.Map()
		}
		out.Cases = append(out.Cases, jc)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
