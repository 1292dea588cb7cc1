package csv_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	pcsv "surveyetl/internal/parser/csv"
)

func TestParseStripsBOMAndTrims(t *testing.T) {
	in := "\uFEFF#,Age\n 1 , 29 \n"
	p := pcsv.NewParser(pcsv.Options{TrimSpace: true})

	header, rows, err := p.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if header[0] != "#" || header[1] != "Age" {
		t.Fatalf("header = %q", header)
	}
	if len(rows) != 1 || rows[0][0] != "1" || rows[0][1] != "29" {
		t.Fatalf("rows = %q", rows)
	}
}

func TestParseKeepsRaggedRows(t *testing.T) {
	// Width enforcement is the schema's job; the tokenizer must hand ragged
	// rows through untouched.
	in := "a,b\n1,2\n3\n"
	_, rows, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 2 || len(rows[1]) != 1 {
		t.Fatalf("rows = %q", rows)
	}
}

func TestParseCustomDelimiter(t *testing.T) {
	in := "a;b\n1;2\n"
	header, rows, err := pcsv.NewParser(pcsv.Options{Comma: ';'}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(header) != 2 || rows[0][1] != "2" {
		t.Fatalf("header=%q rows=%q", header, rows)
	}
}

func TestParseQuotedCells(t *testing.T) {
	in := "q\n\"a, b\"\n"
	_, rows, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rows[0][0] != "a, b" {
		t.Fatalf("cell = %q", rows[0][0])
	}
}

func TestParseFixtureFile(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "responses.csv"))
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer f.Close()

	header, rows, err := pcsv.NewParser(pcsv.Options{TrimSpace: true}).Parse(f)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(header) != 6 || header[0] != "#" || header[5] != "Network ID" {
		t.Fatalf("header = %q", header)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[2][1] != "" || rows[2][2] != "Enterprise" {
		t.Fatalf("row 3 = %q", rows[2])
	}
}

func TestParseEmptyInput(t *testing.T) {
	if _, _, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader("")); err == nil {
		t.Fatalf("empty input must fail")
	}
}
