package storage

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"surveyetl/internal/survey"
)

// ColumnKind is the backend-agnostic column type. Each backend maps it onto
// its own SQL type.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindInt
	KindReal
	KindBool
	KindTimestamp
)

// Column is one destination column of the flattened survey table.
type Column struct {
	Name string
	Kind ColumnKind
}

// Columns flattens a survey schema into destination columns: one column per
// question, except multi-choice questions, which expand into one boolean
// column per option ("<question>_<option>"). Names are normalized into
// lowercase ASCII identifiers.
func Columns(s *survey.Schema) []Column {
	var cols []Column
	for _, q := range s.Questions() {
		switch t := q.(type) {
		case *survey.MultiChoiceQuestion:
			base := NormalizeName(q.Name())
			for _, o := range t.Options() {
				cols = append(cols, Column{Name: base + "_" + NormalizeName(o.Name), Kind: KindBool})
			}
		default:
			cols = append(cols, Column{Name: NormalizeName(q.Name()), Kind: columnKind(q)})
		}
	}
	return cols
}

// Names returns the column names in order.
func Names(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

// RowValues materializes the i-th table row aligned to Columns(t.Schema()):
// multi-choice maps are expanded into per-option booleans in option order.
func RowValues(t *survey.Table, i int) []any {
	var out []any
	for _, q := range t.Schema().Questions() {
		v := t.Column(q.Name())[i]
		if mc, ok := q.(*survey.MultiChoiceQuestion); ok {
			checked, _ := v.(map[string]bool)
			for _, o := range mc.Options() {
				out = append(out, checked[o.Name])
			}
			continue
		}
		out = append(out, v)
	}
	return out
}

func columnKind(q survey.Question) ColumnKind {
	switch q.(type) {
	case *survey.IntegerQuestion:
		return KindInt
	case *survey.NumberQuestion:
		return KindReal
	case *survey.BoolQuestion:
		return KindBool
	case *survey.DateTimeQuestion:
		return KindTimestamp
	default:
		// metadata, text, single choice
		return KindText
	}
}

// NormalizeName converts arbitrary question or option text into a lowercase
// ASCII identifier suitable for SQL schemas:
//  1. lowercase
//  2. strip accents (NFD → remove Mn → NFC)
//  3. keep [a-z0-9_]; convert space/dash/dot to underscore; drop others
//  4. fallback to "col" if empty
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Decompose → remove nonspacing marks (accents) → recompose.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		default:
			// drop anything else
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "col"
	}
	return name
}
