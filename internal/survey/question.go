// Package survey converts raw tabular survey exports (a header row plus data
// rows of strings) into a strongly typed, column-oriented table, guided by an
// ordered schema of question descriptors.
//
// Each Question knows how many raw columns it consumes, how to confirm that
// its slice of the header row matches its declaration, how to decode raw
// cells into a typed value, and how to summarize its decoded column. The
// package is synchronous and single-writer by design: a Schema is built once
// from the header and is immutable, a Table grows one row at a time, and
// summaries are pure read-only passes.
package survey

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Layout is the timestamp format used by the exports: UTC, no offset.
const Layout = "2006-01-02 15:04:05"

// Stat is a single named, pre-formatted summary statistic. Summaries are
// returned as ordered slices so output is stable across runs.
type Stat struct {
	Name  string
	Value string
}

// Question is the atomic schema unit. Implementations are immutable after
// construction and carry only the configuration their kind needs.
type Question interface {
	// Text returns the canonical header text the export uses for this question.
	Text() string

	// Name returns the output key for the decoded column. Defaults to Text()
	// when no explicit name was given. Unique within a Schema.
	Name() string

	// Width returns the number of contiguous raw columns this question
	// consumes. It is 1 for every kind except multi-choice.
	Width() int

	// ValidateHeader reports whether the header cells assigned to this
	// question match its declaration.
	ValidateHeader(cells []string) bool

	// Decode converts the raw cells in this question's span into a typed
	// value, or nil for an absent answer. Decode failures are returned as
	// *DecodeError; only recoverable ones leave the parse running.
	Decode(cells []string) (any, error)

	// Summarize computes this kind's statistics over a full decoded column.
	Summarize(col []any) []Stat
}

// single carries the common state of all width-1 question kinds.
type single struct {
	text string
	name string
}

func newSingle(text, name string) single {
	if name == "" {
		name = text
	}
	return single{text: text, name: name}
}

func (q single) Text() string { return q.text }
func (q single) Name() string { return q.name }
func (q single) Width() int   { return 1 }

// ValidateHeader is exact match on trimmed text for all width-1 kinds.
func (q single) ValidateHeader(cells []string) bool {
	return len(cells) == 1 && strings.TrimSpace(cells[0]) == q.text
}

// ----------------------------------------------------------------------------
// Metadata
// ----------------------------------------------------------------------------

// MetadataQuestion holds export bookkeeping columns (response id, network
// id). Cells pass through unmodified and are never null, so its Count covers
// every ingested row.
type MetadataQuestion struct{ single }

// NewMetadata constructs a metadata question. name defaults to text.
func NewMetadata(text, name string) *MetadataQuestion {
	return &MetadataQuestion{newSingle(text, name)}
}

func (q *MetadataQuestion) Decode(cells []string) (any, error) {
	return cells[0], nil
}

func (q *MetadataQuestion) Summarize(col []any) []Stat {
	return []Stat{{"Count", strconv.Itoa(len(col))}}
}

// ----------------------------------------------------------------------------
// Text
// ----------------------------------------------------------------------------

// TextQuestion holds free-form text. The decoded value is never nil; an
// empty string simply does not count as an answer.
type TextQuestion struct{ single }

// NewText constructs a free-text question. name defaults to text.
func NewText(text, name string) *TextQuestion {
	return &TextQuestion{newSingle(text, name)}
}

func (q *TextQuestion) Decode(cells []string) (any, error) {
	return strings.TrimSpace(strings.Join(cells, "")), nil
}

func (q *TextQuestion) Summarize(col []any) []Stat {
	n := 0
	for _, v := range col {
		if s, ok := v.(string); ok && s != "" {
			n++
		}
	}
	return []Stat{{"Count", strconv.Itoa(n)}}
}

// ----------------------------------------------------------------------------
// Date/time
// ----------------------------------------------------------------------------

// DateTimeQuestion parses timestamps in Layout, interpreted as UTC.
type DateTimeQuestion struct{ single }

// NewDateTime constructs a timestamp question. name defaults to text.
func NewDateTime(text, name string) *DateTimeQuestion {
	return &DateTimeQuestion{newSingle(text, name)}
}

func (q *DateTimeQuestion) Decode(cells []string) (any, error) {
	s := strings.TrimSpace(cells[0])
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return nil, &DecodeError{Question: q.name, Cell: cells[0], Err: err}
	}
	return t, nil
}

func (q *DateTimeQuestion) Summarize(col []any) []Stat {
	var (
		n        int
		min, max time.Time
	)
	for _, v := range col {
		t, ok := v.(time.Time)
		if !ok {
			continue
		}
		if n == 0 || t.Before(min) {
			min = t
		}
		if n == 0 || t.After(max) {
			max = t
		}
		n++
	}
	stats := []Stat{{"Count", strconv.Itoa(n)}}
	if n > 0 {
		stats = append(stats,
			Stat{"Earliest", min.Format(Layout)},
			Stat{"Latest", max.Format(Layout)},
		)
	}
	return stats
}

// ----------------------------------------------------------------------------
// Integer
// ----------------------------------------------------------------------------

// IntegerQuestion parses decimal integers. Malformed cells are fatal.
type IntegerQuestion struct{ single }

// NewInteger constructs an integer question. name defaults to text.
func NewInteger(text, name string) *IntegerQuestion {
	return &IntegerQuestion{newSingle(text, name)}
}

// decodeInt is the shared integer grammar used by the integer and boolean
// kinds. Empty cells decode to an absent answer.
func decodeInt(name, cell string) (int64, bool, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, &DecodeError{Question: name, Cell: cell, Err: err}
	}
	return n, true, nil
}

func (q *IntegerQuestion) Decode(cells []string) (any, error) {
	n, ok, err := decodeInt(q.name, cells[0])
	if err != nil || !ok {
		return nil, err
	}
	return n, nil
}

func (q *IntegerQuestion) Summarize(col []any) []Stat {
	var (
		n        int
		sum      int64
		min, max int64
	)
	for _, v := range col {
		i, ok := v.(int64)
		if !ok {
			continue
		}
		if n == 0 || i < min {
			min = i
		}
		if n == 0 || i > max {
			max = i
		}
		sum += i
		n++
	}
	stats := []Stat{{"Count", strconv.Itoa(n)}}
	if n > 0 {
		mean := float64(sum) / float64(n)
		stats = append(stats,
			Stat{"Min", strconv.FormatInt(min, 10)},
			Stat{"Mean", strconv.FormatFloat(mean, 'f', 1, 64)},
			Stat{"Max", strconv.FormatInt(max, 10)},
		)
	}
	return stats
}

// ----------------------------------------------------------------------------
// Lenient number
// ----------------------------------------------------------------------------

// numberRE extracts the first decimal number from a cell, tolerating
// surrounding prose ("about 12 years" -> "12").
var numberRE = regexp.MustCompile(`[-+]?[0-9]+(?:\.[0-9]+)?`)

// NumberQuestion parses decimal numbers out of messy cells. By default a
// cell with no numeric substring decodes to null with a recoverable error,
// so ingestion continues; Strict makes such cells fatal like the integer
// kind. The policy is deliberately an explicit field rather than a side
// effect of the parsing function used.
type NumberQuestion struct {
	single
	Strict bool
}

// NewNumber constructs a lenient number question. name defaults to text.
func NewNumber(text, name string) *NumberQuestion {
	return &NumberQuestion{single: newSingle(text, name)}
}

func (q *NumberQuestion) Decode(cells []string) (any, error) {
	s := strings.TrimSpace(cells[0])
	if s == "" {
		return nil, nil
	}
	m := numberRE.FindString(s)
	if m == "" {
		return nil, &DecodeError{
			Question:    q.name,
			Cell:        cells[0],
			Recoverable: !q.Strict,
			Err:         fmt.Errorf("no numeric substring"),
		}
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil, &DecodeError{Question: q.name, Cell: cells[0], Recoverable: !q.Strict, Err: err}
	}
	return f, nil
}

func (q *NumberQuestion) Summarize(col []any) []Stat {
	var (
		n        int
		sum      float64
		min, max float64
	)
	for _, v := range col {
		f, ok := v.(float64)
		if !ok {
			continue
		}
		if n == 0 || f < min {
			min = f
		}
		if n == 0 || f > max {
			max = f
		}
		sum += f
		n++
	}
	stats := []Stat{{"Count", strconv.Itoa(n)}}
	if n > 0 {
		stats = append(stats,
			Stat{"Min", strconv.FormatFloat(min, 'g', -1, 64)},
			Stat{"Mean", strconv.FormatFloat(sum/float64(n), 'g', -1, 64)},
			Stat{"Max", strconv.FormatFloat(max, 'g', -1, 64)},
		)
	}
	return stats
}

// ----------------------------------------------------------------------------
// Boolean
// ----------------------------------------------------------------------------

// BoolQuestion parses an integer cell and coerces nonzero to true. It shares
// the integer grammar via decodeInt rather than specializing IntegerQuestion.
type BoolQuestion struct{ single }

// NewBool constructs a boolean question. name defaults to text.
func NewBool(text, name string) *BoolQuestion {
	return &BoolQuestion{newSingle(text, name)}
}

func (q *BoolQuestion) Decode(cells []string) (any, error) {
	n, ok, err := decodeInt(q.name, cells[0])
	if err != nil || !ok {
		return nil, err
	}
	return n != 0, nil
}

func (q *BoolQuestion) Summarize(col []any) []Stat {
	var n, yes int
	for _, v := range col {
		b, ok := v.(bool)
		if !ok {
			continue
		}
		if b {
			yes++
		}
		n++
	}
	return []Stat{
		{"Count", strconv.Itoa(n)},
		{"Yes", strconv.Itoa(yes)},
		{"No", strconv.Itoa(n - yes)},
	}
}

// ----------------------------------------------------------------------------
// Choice kinds
// ----------------------------------------------------------------------------

// Option is one selectable answer: Name is the short output identifier and
// Text is the long label the export prints in headers and cells.
type Option struct {
	Name string
	Text string
}

// Options builds an option list where each text serves as its own name,
// mirroring the list-form declaration accepted by the exports.
func Options(texts ...string) []Option {
	opts := make([]Option, len(texts))
	for i, t := range texts {
		opts[i] = Option{Name: t, Text: t}
	}
	return opts
}

// checkOptions enforces the bijection invariant: no two options may share a
// short name or a long text. Checked at construction so lookups cannot
// silently collide later.
func checkOptions(name string, options []Option) (map[string]string, error) {
	if len(options) == 0 {
		return nil, &DefinitionError{Question: name, Reason: "at least one option is required"}
	}
	byText := make(map[string]string, len(options))
	byName := make(map[string]struct{}, len(options))
	for _, o := range options {
		if _, dup := byName[o.Name]; dup {
			return nil, &DefinitionError{Question: name, Reason: fmt.Sprintf("duplicate option name %q", o.Name)}
		}
		if _, dup := byText[o.Text]; dup {
			return nil, &DefinitionError{Question: name, Reason: fmt.Sprintf("duplicate option text %q", o.Text)}
		}
		byName[o.Name] = struct{}{}
		byText[o.Text] = o.Name
	}
	return byText, nil
}

// ChoiceQuestion renders as one column holding the chosen option's long
// text, or blank for no answer. Decoding maps the long text back to the
// option's short name; an unknown text is fatal.
type ChoiceQuestion struct {
	single
	options []Option
	byText  map[string]string // long text -> short name
}

// NewChoice constructs a single-choice question. name defaults to text.
func NewChoice(text, name string, options []Option) (*ChoiceQuestion, error) {
	s := newSingle(text, name)
	byText, err := checkOptions(s.name, options)
	if err != nil {
		return nil, err
	}
	return &ChoiceQuestion{single: s, options: append([]Option(nil), options...), byText: byText}, nil
}

// Options returns the declared options in declaration order.
func (q *ChoiceQuestion) Options() []Option { return append([]Option(nil), q.options...) }

// OptionText reverse-maps a short option name to its long text.
func (q *ChoiceQuestion) OptionText(name string) (string, bool) {
	for _, o := range q.options {
		if o.Name == name {
			return o.Text, true
		}
	}
	return "", false
}

func (q *ChoiceQuestion) Decode(cells []string) (any, error) {
	s := strings.TrimSpace(cells[0])
	if s == "" {
		return nil, nil
	}
	name, ok := q.byText[s]
	if !ok {
		return nil, &DecodeError{Question: q.name, Cell: cells[0], Err: fmt.Errorf("unknown choice text")}
	}
	return name, nil
}

func (q *ChoiceQuestion) Summarize(col []any) []Stat {
	counts := make(map[string]int, len(q.options))
	n := 0
	for _, v := range col {
		s, ok := v.(string)
		if !ok {
			continue
		}
		counts[s]++
		n++
	}
	stats := make([]Stat, 0, len(q.options)+1)
	stats = append(stats, Stat{"Count", strconv.Itoa(n)})
	for _, o := range q.options {
		stats = append(stats, Stat{o.Name, strconv.Itoa(counts[o.Name])})
	}
	return stats
}

// MultiChoiceQuestion renders as one column per option, each holding the
// option's own long text when checked or blank otherwise. It consumes as
// many header columns as it has options, and tolerates the export reordering
// those columns as long as the header's option set matches exactly.
type MultiChoiceQuestion struct {
	single
	options []Option
	byText  map[string]string
}

// NewMultiChoice constructs a multi-choice question. name defaults to text.
func NewMultiChoice(text, name string, options []Option) (*MultiChoiceQuestion, error) {
	s := newSingle(text, name)
	byText, err := checkOptions(s.name, options)
	if err != nil {
		return nil, err
	}
	return &MultiChoiceQuestion{single: s, options: append([]Option(nil), options...), byText: byText}, nil
}

// Options returns the declared options in declaration order.
func (q *MultiChoiceQuestion) Options() []Option { return append([]Option(nil), q.options...) }

func (q *MultiChoiceQuestion) Width() int { return len(q.options) }

// ValidateHeader requires the set of trimmed header cells in the span to
// equal the set of option texts, independent of column order.
func (q *MultiChoiceQuestion) ValidateHeader(cells []string) bool {
	if len(cells) != len(q.options) {
		return false
	}
	got := make([]string, len(cells))
	for i, c := range cells {
		got[i] = strings.TrimSpace(c)
	}
	want := make([]string, len(q.options))
	for i, o := range q.options {
		want[i] = o.Text
	}
	sort.Strings(got)
	sort.Strings(want)
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// Decode returns a map of option short name to checked. An option counts as
// checked when any non-empty cell in the span carries its long text, which
// keeps decoding correct even when the export reordered the span's columns.
// The value is never nil as a whole.
func (q *MultiChoiceQuestion) Decode(cells []string) (any, error) {
	present := make(map[string]struct{}, len(cells))
	for _, c := range cells {
		if s := strings.TrimSpace(c); s != "" {
			present[s] = struct{}{}
		}
	}
	checked := make(map[string]bool, len(q.options))
	for _, o := range q.options {
		_, ok := present[o.Text]
		checked[o.Name] = ok
	}
	return checked, nil
}

func (q *MultiChoiceQuestion) Summarize(col []any) []Stat {
	counts := make(map[string]int, len(q.options))
	n := 0
	for _, v := range col {
		m, ok := v.(map[string]bool)
		if !ok {
			continue
		}
		hit := false
		for name, checked := range m {
			if checked {
				counts[name]++
				hit = true
			}
		}
		if hit {
			n++
		}
	}
	stats := make([]Stat, 0, len(q.options)+1)
	stats = append(stats, Stat{"Count", strconv.Itoa(n)})
	for _, o := range q.options {
		stats = append(stats, Stat{o.Name, strconv.Itoa(counts[o.Name])})
	}
	return stats
}
