package survey

// Fixed bookkeeping questions present in every export. They are immutable
// values constructed once and injected into every Schema at assembly time:
// the response id leads, and the two timestamps plus the network id trail
// the caller-supplied questions.
var (
	ResponseID Question = NewMetadata("#", "ID")
	StartDate  Question = NewDateTime("Start Date (UTC)", "Start Date")
	EndDate    Question = NewDateTime("Submit Date (UTC)", "End Date")
	NetworkID  Question = NewMetadata("Network ID", "")
)

// Span is the half-open range of raw columns a question consumes.
type Span struct {
	Start int
	End   int
}

// Schema is the ordered question sequence together with its column mapping.
// It is built once from the header row and never mutated; construction
// either fully succeeds or fails with no partial schema.
type Schema struct {
	questions []Question
	spans     []Span
	width     int
}

// NewSchema assembles the full question sequence (response id, the given
// questions, then start date, end date and network id), assigns each
// question a contiguous span of header columns, and validates the header
// cells in every span. The spans must exactly tile the header: running past
// the end or leaving trailing columns unconsumed is a *WidthError, and a
// span whose cells do not validate is a *HeaderError.
func NewSchema(questions []Question, header []string) (*Schema, error) {
	all := make([]Question, 0, len(questions)+4)
	all = append(all, ResponseID)
	all = append(all, questions...)
	all = append(all, StartDate, EndDate, NetworkID)

	seen := make(map[string]struct{}, len(all))
	for _, q := range all {
		if _, dup := seen[q.Name()]; dup {
			return nil, &DefinitionError{Question: q.Name(), Reason: "duplicate output name"}
		}
		seen[q.Name()] = struct{}{}
	}

	spans := make([]Span, len(all))
	next := 0
	for i, q := range all {
		end := next + q.Width()
		if end > len(header) {
			return nil, &WidthError{Question: q.Text(), Required: q.Width(), Available: len(header) - next}
		}
		spans[i] = Span{Start: next, End: end}
		if !q.ValidateHeader(header[next:end]) {
			return nil, &HeaderError{Question: q.Text(), Start: next, End: end, Cells: append([]string(nil), header[next:end]...)}
		}
		next = end
	}
	if next != len(header) {
		// Trailing header columns no question consumes are an error, not noise.
		return nil, &WidthError{Required: next, Available: len(header)}
	}

	return &Schema{questions: all, spans: spans, width: len(header)}, nil
}

// Questions returns the full ordered question sequence, fixed bookkeeping
// questions included.
func (s *Schema) Questions() []Question { return append([]Question(nil), s.questions...) }

// Span returns the column range assigned to the i-th question.
func (s *Schema) Span(i int) Span { return s.spans[i] }

// Width returns the header column count the schema was built against.
func (s *Schema) Width() int { return s.width }

// Names returns the output names in question order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.questions))
	for i, q := range s.questions {
		names[i] = q.Name()
	}
	return names
}
