package survey_test

import (
	"errors"
	"testing"
	"time"

	"surveyetl/internal/survey"
)

func TestParseFullScenario(t *testing.T) {
	rows := [][]string{
		{"#", "Age", "Start Date (UTC)", "Submit Date (UTC)", "Network ID"},
		{"1", "29", "2021-01-01 10:00:00", "2021-01-01 10:05:00", "net-1"},
	}
	table, err := survey.Parse([]survey.Question{survey.NewInteger("Age", "")}, rows)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if table.Len() != 1 {
		t.Fatalf("len = %d, want 1", table.Len())
	}
	if v := table.Column("ID")[0]; v != "1" {
		t.Fatalf("ID = %v, want \"1\"", v)
	}
	if v := table.Column("Age")[0]; v != int64(29) {
		t.Fatalf("Age = %v (%T), want 29", v, v)
	}
	start := table.Column("Start Date")[0].(time.Time)
	if !start.Equal(time.Date(2021, 1, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("Start Date = %v", start)
	}
	end := table.Column("End Date")[0].(time.Time)
	if !end.Equal(time.Date(2021, 1, 1, 10, 5, 0, 0, time.UTC)) {
		t.Fatalf("End Date = %v", end)
	}
	if v := table.Column("Network ID")[0]; v != "net-1" {
		t.Fatalf("Network ID = %v, want \"net-1\"", v)
	}

	stats := mustStats(t, table, "Age")
	assertStat(t, stats, "Count", "1")
	assertStat(t, stats, "Min", "29")
	assertStat(t, stats, "Mean", "29.0")
	assertStat(t, stats, "Max", "29")
}

func TestIngestRowShape(t *testing.T) {
	table := mustTable(t, []survey.Question{survey.NewInteger("Age", "")})

	err := table.Ingest([]string{"1", "29", "2021-01-01 10:00:00", "2021-01-01 10:05:00"})
	var se *survey.ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ShapeError, got %v", err)
	}
	if table.Len() != 0 {
		t.Fatalf("rejected row must leave the table unchanged, len=%d", table.Len())
	}
}

func TestIngestAtomicOnFatalDecode(t *testing.T) {
	table := mustTable(t, []survey.Question{survey.NewInteger("Age", "")})

	if err := table.Ingest(row("1", "29")); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if err := table.Ingest(row("2", "not a number")); err == nil {
		t.Fatalf("malformed integer cell must abort the row")
	}

	// The failed row must not have touched any column, including ones whose
	// questions decode before the failing one.
	if table.Len() != 1 {
		t.Fatalf("len = %d, want 1", table.Len())
	}
	for _, name := range table.Schema().Names() {
		if got := len(table.Column(name)); got != 1 {
			t.Fatalf("column %q has %d values, want 1", name, got)
		}
	}
}

func TestIngestLenientNumberContinues(t *testing.T) {
	table := mustTable(t, []survey.Question{survey.NewNumber("Years", "")})

	if err := table.Ingest(row("1", "about 12 years")); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if err := table.Ingest(row("2", "n/a")); err != nil {
		t.Fatalf("lenient decode must not abort: %v", err)
	}

	if table.Len() != 2 {
		t.Fatalf("len = %d, want 2", table.Len())
	}
	col := table.Column("Years")
	if col[0] != 12.0 {
		t.Fatalf("col[0] = %v, want 12.0", col[0])
	}
	if col[1] != nil {
		t.Fatalf("col[1] = %v, want nil", col[1])
	}

	diags := table.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("diagnostics = %d, want 1", len(diags))
	}
	if diags[0].Row != 2 || diags[0].Question != "Years" {
		t.Fatalf("diagnostic = %+v", diags[0])
	}
}

func TestIngestStrictNumberAborts(t *testing.T) {
	q := survey.NewNumber("Years", "")
	q.Strict = true
	table := mustTable(t, []survey.Question{q})

	if err := table.Ingest(row("1", "n/a")); err == nil {
		t.Fatalf("strict number decode must abort the row")
	}
	if table.Len() != 0 {
		t.Fatalf("len = %d, want 0", table.Len())
	}
}

func TestTableRow(t *testing.T) {
	table := mustTable(t, []survey.Question{survey.NewInteger("Age", "")})
	if err := table.Ingest(row("1", "29")); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	r := table.Row(0)
	if len(r) != 5 || r[0] != "1" || r[1] != int64(29) || r[4] != "net-1" {
		t.Fatalf("row = %v", r)
	}
}

func TestParseMultiChoiceEndToEnd(t *testing.T) {
	mc, err := survey.NewMultiChoice("Colors?", "colors", survey.Options("Red", "Blue"))
	if err != nil {
		t.Fatalf("NewMultiChoice: %v", err)
	}
	rows := [][]string{
		header("Red", "Blue"),
		row2("1", "Red", ""),
		row2("2", "", "Blue"),
	}
	table, err := survey.Parse([]survey.Question{mc}, rows)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	stats := mustStats(t, table, "colors")
	assertStat(t, stats, "Count", "2")
	assertStat(t, stats, "Red", "1")
	assertStat(t, stats, "Blue", "1")
}

// ---- helpers ----

func mustTable(t *testing.T, qs []survey.Question) *survey.Table {
	t.Helper()
	mid := make([]string, 0, len(qs))
	for _, q := range qs {
		mid = append(mid, q.Text())
	}
	s, err := survey.NewSchema(qs, header(mid...))
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return survey.NewTable(s)
}

// row builds a 5-column data row around one caller cell.
func row(id, cell string) []string {
	return []string{id, cell, "2021-01-01 10:00:00", "2021-01-01 10:05:00", "net-1"}
}

// row2 builds a 7-column data row around two caller cells.
func row2(id, a, b string) []string {
	return []string{id, a, b, "2021-01-01 10:00:00", "2021-01-01 10:05:00", "net-1"}
}

func mustStats(t *testing.T, table *survey.Table, name string) []survey.Stat {
	t.Helper()
	for _, q := range table.Schema().Questions() {
		if q.Name() == name {
			return q.Summarize(table.Column(name))
		}
	}
	t.Fatalf("no question named %q", name)
	return nil
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
