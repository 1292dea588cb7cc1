// Package csv turns a survey export stream into a header row and clean data
// rows of string cells. Quoting and escaping are handled by encoding/csv;
// this package only normalizes what the decoding engine should never see:
// the UTF-8 BOM some exporters prepend and optional edge whitespace.
//
// The parser deliberately does not enforce a per-row cell count. Row shape
// is a schema concern and is enforced by the decoding engine, which owns the
// error taxonomy for it.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Options configures the parser. All fields are optional; zero values get
// sensible defaults.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing whitespace from each data cell.
	// Header cells are left untouched; the schema trims them itself during
	// validation.
	TrimSpace bool
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Parse consumes the whole stream and returns the header row followed by
// the data rows. The first row is required; an empty stream is an error.
func (p *Parser) Parse(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	// Width enforcement happens downstream, against the schema.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("read csv header: empty input")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv row %d: %w", len(rows)+1, err)
		}
		if p.opt.TrimSpace {
			for i, c := range row {
				row[i] = strings.TrimSpace(c)
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}
