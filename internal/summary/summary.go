// Package summary computes and renders per-question aggregate statistics
// over a decoded survey table.
//
// Summaries are pure functions of a table's current columns: they may be
// recomputed at any time, are deterministic, and emit statistic names in a
// fixed, kind-defined order. Rendering offers an aligned text form for
// terminals and a CSV form for downstream tooling.
package summary

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"surveyetl/internal/survey"
)

// QuestionSummary pairs one question's output name with its ordered stats.
type QuestionSummary struct {
	Name  string
	Stats []survey.Stat
}

// Summarize runs every question's summarizer over its decoded column and
// returns the results in schema order.
func Summarize(t *survey.Table) []QuestionSummary {
	qs := t.Schema().Questions()
	out := make([]QuestionSummary, len(qs))
	for i, q := range qs {
		out[i] = QuestionSummary{
			Name:  q.Name(),
			Stats: q.Summarize(t.Column(q.Name())),
		}
	}
	return out
}

// Stats returns the summary for a single output name, or nil when the table
// has no such question.
func Stats(t *survey.Table, name string) []survey.Stat {
	for _, q := range t.Schema().Questions() {
		if q.Name() == name {
			return q.Summarize(t.Column(name))
		}
	}
	return nil
}

// RenderText formats summaries as an indented, aligned block per question.
func RenderText(sums []QuestionSummary) string {
	var b strings.Builder
	for _, s := range sums {
		fmt.Fprintf(&b, "%s\n", s.Name)
		width := 0
		for _, st := range s.Stats {
			if len(st.Name) > width {
				width = len(st.Name)
			}
		}
		for _, st := range s.Stats {
			fmt.Fprintf(&b, "  %-*s  %s\n", width, st.Name, st.Value)
		}
	}
	return b.String()
}

// RenderCSV formats summaries as question,statistic,value lines with a
// header row.
func RenderCSV(sums []QuestionSummary) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"question", "statistic", "value"}); err != nil {
		return "", err
	}
	for _, s := range sums {
		for _, st := range s.Stats {
			if err := w.Write([]string{s.Name, st.Name, st.Value}); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
