// Command surveysum parses a survey CSV export against a question
// declaration file and prints per-question summaries, without touching any
// storage backend.
//
// Example:
//
//	surveysum -csv responses.csv -survey survey.json -format csv
//
// The survey file holds just the "survey" section of a pipeline config:
//
//	{ "name": "onboarding", "questions": [ { "kind": "integer", "text": "Age" } ] }
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"surveyetl/internal/config"
	csvparser "surveyetl/internal/parser/csv"
	"surveyetl/internal/summary"
	"surveyetl/internal/survey"
)

func main() {
	var (
		csvPath    string
		surveyPath string
		format     string
		trim       bool
	)
	flag.StringVar(&csvPath, "csv", "", "survey export CSV path")
	flag.StringVar(&surveyPath, "survey", "", "survey declaration JSON path")
	flag.StringVar(&format, "format", "text", "output format: text or csv")
	flag.BoolVar(&trim, "trim", true, "trim edge whitespace from data cells")
	flag.Parse()

	if csvPath == "" || surveyPath == "" {
		fatalf("usage: surveysum -csv responses.csv -survey survey.json")
	}

	decl, err := loadSurvey(surveyPath)
	if err != nil {
		fatalf("%v", err)
	}
	questions, err := config.BuildQuestions(decl)
	if err != nil {
		fatalf("%v", err)
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fatalf("%v", err)
	}
	defer f.Close()

	header, rows, err := csvparser.NewParser(csvparser.Options{TrimSpace: trim}).Parse(f)
	if err != nil {
		fatalf("%v", err)
	}

	table, err := survey.Parse(questions, append([][]string{header}, rows...))
	if err != nil {
		fatalf("%v", err)
	}
	for _, d := range table.Diagnostics() {
		log.Printf("diagnostic: row %d question %q: %s", d.Row, d.Question, d.Message)
	}

	sums := summary.Summarize(table)
	switch format {
	case "text":
		fmt.Print(summary.RenderText(sums))
	case "csv":
		out, err := summary.RenderCSV(sums)
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Print(out)
	default:
		fatalf("unknown format %q", format)
	}
}

func loadSurvey(path string) (config.Survey, error) {
	var s config.Survey
	f, err := os.Open(path)
	if err != nil {
		return s, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return s, fmt.Errorf("survey %s: %w", path, err)
	}
	return s, nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
