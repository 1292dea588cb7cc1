package summary_test

import (
	"reflect"
	"strings"
	"testing"

	"surveyetl/internal/summary"
	"surveyetl/internal/survey"
)

func parseFixture(t *testing.T) *survey.Table {
	t.Helper()
	qs := []survey.Question{
		survey.NewText("Name?", "name"),
		survey.NewInteger("Age", "age"),
		survey.NewBool("Agree?", "agree"),
	}
	rows := [][]string{
		{"#", "Name?", "Age", "Agree?", "Start Date (UTC)", "Submit Date (UTC)", "Network ID"},
		{"1", "Ada", "29", "1", "2021-01-01 10:00:00", "2021-01-01 10:05:00", "net-1"},
		{"2", "", "35", "0", "2021-01-02 09:00:00", "2021-01-02 09:09:00", "net-1"},
		{"3", "Grace", "", "", "2021-01-03 08:00:00", "2021-01-03 08:01:00", "net-2"},
	}
	table, err := survey.Parse(qs, rows)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return table
}

func TestSummarizeSchemaOrder(t *testing.T) {
	table := parseFixture(t)
	sums := summary.Summarize(table)

	wantOrder := []string{"ID", "name", "age", "agree", "Start Date", "End Date", "Network ID"}
	if len(sums) != len(wantOrder) {
		t.Fatalf("summaries = %d, want %d", len(sums), len(wantOrder))
	}
	for i, w := range wantOrder {
		if sums[i].Name != w {
			t.Fatalf("summary %d = %q, want %q", i, sums[i].Name, w)
		}
	}
}

func TestSummarizePerKindCounts(t *testing.T) {
	table := parseFixture(t)

	// Metadata counts every row; text counts only non-empty answers.
	assertStat(t, summary.Stats(table, "ID"), "Count", "3")
	assertStat(t, summary.Stats(table, "name"), "Count", "2")

	age := summary.Stats(table, "age")
	assertStat(t, age, "Count", "2")
	assertStat(t, age, "Min", "29")
	assertStat(t, age, "Mean", "32.0")
	assertStat(t, age, "Max", "35")

	agree := summary.Stats(table, "agree")
	assertStat(t, agree, "Count", "2")
	assertStat(t, agree, "Yes", "1")
	assertStat(t, agree, "No", "1")

	start := summary.Stats(table, "Start Date")
	assertStat(t, start, "Count", "3")
	assertStat(t, start, "Earliest", "2021-01-01 10:00:00")
	assertStat(t, start, "Latest", "2021-01-03 08:00:00")
}

func TestSummarizeIdempotent(t *testing.T) {
	table := parseFixture(t)
	a := summary.Summarize(table)
	b := summary.Summarize(table)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("summaries differ across identical calls:\n%v\n%v", a, b)
	}
}

func TestRenderText(t *testing.T) {
	table := parseFixture(t)
	out := summary.RenderText(summary.Summarize(table))

	for _, want := range []string{"age\n", "Mean", "32.0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCSV(t *testing.T) {
	table := parseFixture(t)
	out, err := summary.RenderCSV(summary.Summarize(table))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "question,statistic,value" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(out, "age,Mean,32.0") {
		t.Fatalf("output missing age mean:\n%s", out)
	}
}

func assertStat(t *testing.T, stats []survey.Stat, name, want string) {
	t.Helper()
	for _, s := range stats {
		if s.Name == name {
			if s.Value != want {
				t.Fatalf("stat %s = %q, want %q", name, s.Value, want)
			}
			return
		}
	}
	t.Fatalf("stat %s missing from %v", name, stats)
}
