package survey

import (
	"errors"
	"fmt"
)

// Diagnostic records a recoverable decode problem: the cell decoded to null
// instead of aborting the parse.
type Diagnostic struct {
	Row      int // 1-based data row number
	Question string
	Message  string
}

// Table is the column-oriented store built by decoding data rows against a
// Schema. All columns always have equal length and grow in lockstep, one
// element per ingested row; index i in every column belongs to the i-th
// ingested data row. Table has exactly one writer and is not synchronized;
// do not summarize concurrently with ingestion.
type Table struct {
	schema  *Schema
	columns map[string][]any
	rows    int
	diags   []Diagnostic
}

// NewTable creates an empty table for the given schema.
func NewTable(s *Schema) *Table {
	cols := make(map[string][]any, len(s.questions))
	for _, q := range s.questions {
		cols[q.Name()] = nil
	}
	return &Table{schema: s, columns: cols}
}

// Ingest decodes one data row and appends the resulting values. The row
// must be exactly as wide as the header (*ShapeError otherwise). Ingestion
// is atomic: every question's value is appended, or the row is rejected and
// the table is unchanged. Recoverable decode errors append nil and record a
// Diagnostic; fatal ones abort with the table unchanged.
func (t *Table) Ingest(row []string) error {
	if len(row) != t.schema.width {
		return &ShapeError{Row: t.rows + 1, Got: len(row), Want: t.schema.width}
	}

	vals := make([]any, len(t.schema.questions))
	var diags []Diagnostic
	for i, q := range t.schema.questions {
		sp := t.schema.spans[i]
		v, err := q.Decode(row[sp.Start:sp.End])
		if err != nil {
			var de *DecodeError
			if errors.As(err, &de) && de.Recoverable {
				diags = append(diags, Diagnostic{Row: t.rows + 1, Question: q.Name(), Message: de.Error()})
				vals[i] = nil
				continue
			}
			return fmt.Errorf("row %d: %w", t.rows+1, err)
		}
		vals[i] = v
	}

	for i, q := range t.schema.questions {
		t.columns[q.Name()] = append(t.columns[q.Name()], vals[i])
	}
	t.rows++
	t.diags = append(t.diags, diags...)
	return nil
}

// Schema returns the schema this table was built against.
func (t *Table) Schema() *Schema { return t.schema }

// Len returns the number of ingested rows.
func (t *Table) Len() int { return t.rows }

// Column returns the decoded column for an output name, or nil if the name
// is unknown. The returned slice is the live backing store; callers must
// not mutate it.
func (t *Table) Column(name string) []any { return t.columns[name] }

// Row materializes the i-th row in schema question order.
func (t *Table) Row(i int) []any {
	out := make([]any, len(t.schema.questions))
	for j, q := range t.schema.questions {
		out[j] = t.columns[q.Name()][i]
	}
	return out
}

// Diagnostics returns the recoverable decode problems seen so far, in
// ingestion order.
func (t *Table) Diagnostics() []Diagnostic { return append([]Diagnostic(nil), t.diags...) }

// Parse builds a schema from the first row and ingests the rest. It is the
// whole-export convenience path: on any schema or row error the table is
// discarded and only the error is returned.
func Parse(questions []Question, rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse: no header row")
	}
	schema, err := NewSchema(questions, rows[0])
	if err != nil {
		return nil, err
	}
	t := NewTable(schema)
	for _, row := range rows[1:] {
		if err := t.Ingest(row); err != nil {
			return nil, err
		}
	}
	return t, nil
}
