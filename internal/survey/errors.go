package survey

import "fmt"

// DefinitionError reports an invalid question or schema definition: a
// duplicate output name, an empty choice list, or a choice mapping whose
// short names and texts do not form a bijection. It is always fatal and is
// raised at construction time, before any row is seen.
type DefinitionError struct {
	Question string // output name of the offending question, if known
	Reason   string
}

func (e *DefinitionError) Error() string {
	if e.Question == "" {
		return fmt.Sprintf("survey definition: %s", e.Reason)
	}
	return fmt.Sprintf("survey definition: question %q: %s", e.Question, e.Reason)
}

// WidthError reports that the question widths do not tile the header row:
// either a question's span would run past the end of the header, or the
// questions together consume fewer columns than the header provides.
type WidthError struct {
	Question  string // empty when the header has unconsumed trailing columns
	Required  int
	Available int
}

func (e *WidthError) Error() string {
	if e.Question == "" {
		return fmt.Sprintf("schema width mismatch: questions consume %d of %d header columns", e.Required, e.Available)
	}
	return fmt.Sprintf("schema width mismatch: question %q needs %d columns, %d available", e.Question, e.Required, e.Available)
}

// HeaderError reports that the header cells assigned to a question did not
// validate. It carries the literal cells and the half-open column range so
// the mismatch can be diagnosed without re-reading the export.
type HeaderError struct {
	Question string // question text, not output name
	Start    int
	End      int
	Cells    []string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("could not confirm question %q for header columns %d through %d: got %q; check the question text or choice texts",
		e.Question, e.Start, e.End, e.Cells)
}

// ShapeError reports a data row whose cell count does not match the header.
// The row is rejected whole; no column is touched.
type ShapeError struct {
	Row  int // 1-based data row number
	Got  int
	Want int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("row %d: got %d cells, header has %d", e.Row, e.Got, e.Want)
}

// DecodeError reports a cell that failed to decode against its question's
// grammar. Recoverable decode errors (lenient number parsing) degrade to a
// null value plus a diagnostic; all others abort the parse.
type DecodeError struct {
	Question    string // output name
	Cell        string
	Recoverable bool
	Err         error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("question %q: cell %q: %v", e.Question, e.Cell, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
