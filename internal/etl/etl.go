// Package etl orchestrates one survey pipeline run end to end: open the
// source, tokenize it, build the schema from the header, ingest every data
// row into the typed table, compute summaries, and optionally load the
// flattened table into the configured storage backend.
//
// The decoding engine itself is strictly sequential; only the storage load
// runs concurrently with row production, via a bounded channel and an
// errgroup. The CLI layer stays thin: it decodes the pipeline file, picks a
// metrics backend, and calls Run.
package etl

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"surveyetl/internal/config"
	"surveyetl/internal/datasource"
	"surveyetl/internal/datasource/file"
	"surveyetl/internal/metrics"
	csvparser "surveyetl/internal/parser/csv"
	"surveyetl/internal/storage"
	"surveyetl/internal/summary"
	"surveyetl/internal/survey"
)

const (
	defaultBatchSize     = 500
	defaultChannelBuffer = 64
)

// Result carries the outcome of a completed run.
type Result struct {
	Table      *survey.Table
	Summaries  []summary.QuestionSummary
	Ingested   int
	Duplicates int   // rows skipped by de-duplication
	Inserted   int64 // rows reported inserted by the storage backend
}

// Function variables used to introduce test seams. In production these
// point to real implementations; tests can override them.
var (
	newRepositoryFn = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return storage.New(ctx, cfg)
	}

	openSourceFn = openSource
)

func openSource(spec config.Pipeline) (datasource.Source, error) {
	switch spec.Source.Kind {
	case "file":
		if spec.Source.File.Path == "" {
			return nil, fmt.Errorf("source: file path is required")
		}
		return file.NewLocal(spec.Source.File.Path), nil
	default:
		return nil, fmt.Errorf("source: unknown kind %q", spec.Source.Kind)
	}
}

// Run executes the pipeline described by spec and returns the completed
// table, its summaries, and load counts. Schema and fatal decode errors
// abort the run with no table in the result.
func Run(ctx context.Context, spec config.Pipeline) (*Result, error) {
	job := spec.Metrics.Job
	if job == "" {
		job = spec.Survey.Name
	}
	if job == "" {
		job = "survey"
	}

	questions, err := config.BuildQuestions(spec.Survey)
	if err != nil {
		return nil, err
	}

	// Tokenize.
	start := time.Now()
	header, rows, err := parseSource(ctx, spec)
	metrics.RecordStep(job, "parse", err, time.Since(start))
	if err != nil {
		return nil, err
	}

	var dups int
	if spec.Runtime.Dedup {
		rows, dups = dedupRows(rows)
		if dups > 0 {
			log.Printf("dedup: skipped %d duplicate rows", dups)
			metrics.RecordRows(job, "duplicates", int64(dups))
		}
	}

	// Decode.
	start = time.Now()
	schema, err := survey.NewSchema(questions, header)
	if err != nil {
		metrics.RecordStep(job, "ingest", err, time.Since(start))
		return nil, err
	}
	table := survey.NewTable(schema)
	for _, row := range rows {
		if err := table.Ingest(row); err != nil {
			metrics.RecordStep(job, "ingest", err, time.Since(start))
			return nil, err
		}
	}
	metrics.RecordStep(job, "ingest", nil, time.Since(start))
	metrics.RecordRows(job, "ingested", int64(table.Len()))
	metrics.RecordRows(job, "diagnostics", int64(len(table.Diagnostics())))
	for _, d := range table.Diagnostics() {
		log.Printf("diagnostic: row %d question %q: %s", d.Row, d.Question, d.Message)
	}

	res := &Result{
		Table:      table,
		Summaries:  summary.Summarize(table),
		Ingested:   table.Len(),
		Duplicates: dups,
	}

	// Load.
	if spec.Storage.Kind != "" {
		start = time.Now()
		inserted, err := load(ctx, spec, table)
		metrics.RecordStep(job, "load", err, time.Since(start))
		if err != nil {
			return nil, err
		}
		metrics.RecordRows(job, "inserted", inserted)
		res.Inserted = inserted
	}

	return res, nil
}

func parseSource(ctx context.Context, spec config.Pipeline) ([]string, [][]string, error) {
	src, err := openSourceFn(spec)
	if err != nil {
		return nil, nil, err
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	var comma rune
	if spec.Parser.Comma != "" {
		comma = []rune(spec.Parser.Comma)[0]
	}
	p := csvparser.NewParser(csvparser.Options{
		Comma:     comma,
		TrimSpace: spec.Parser.TrimSpace,
	})
	return p.Parse(rc)
}

// dedupRows drops exact duplicate rows, keeping first occurrences in order.
// Rows are keyed by an xxh3 hash of their cells, so memory stays flat even
// for wide exports.
func dedupRows(rows [][]string) ([][]string, int) {
	seen := make(map[uint64]struct{}, len(rows))
	out := rows[:0]
	dups := 0
	for _, row := range rows {
		h := xxh3.HashString(strings.Join(row, "\x1f"))
		if _, ok := seen[h]; ok {
			dups++
			continue
		}
		seen[h] = struct{}{}
		out = append(out, row)
	}
	return out, dups
}

// load flattens the table and streams it into the configured backend, with
// row production and batched copying running as separate errgroup stages.
func load(ctx context.Context, spec config.Pipeline, table *survey.Table) (int64, error) {
	repo, err := newRepositoryFn(ctx, storage.Config{
		Kind:  spec.Storage.Kind,
		DSN:   spec.Storage.DB.DSN,
		Table: spec.Storage.DB.Table,
	})
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	cols := storage.Columns(table.Schema())
	if spec.Storage.DB.AutoCreateTable {
		if err := repo.EnsureTable(ctx, cols); err != nil {
			return 0, err
		}
	}

	batchSize := spec.Runtime.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	buffer := spec.Runtime.ChannelBuffer
	if buffer <= 0 {
		buffer = defaultChannelBuffer
	}

	rowCh := make(chan []any, buffer)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(rowCh)
		for i := 0; i < table.Len(); i++ {
			select {
			case rowCh <- storage.RowValues(table, i):
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var inserted int64
	g.Go(func() error {
		n, err := storage.LoadBatches(gctx, storage.Names(cols), rowCh, batchSize, repo.CopyFrom)
		inserted = n
		return err
	})

	if err := g.Wait(); err != nil {
		return inserted, err
	}
	return inserted, nil
}
