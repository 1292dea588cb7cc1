package survey_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"surveyetl/internal/survey"
)

func TestBoolDecode(t *testing.T) {
	q := survey.NewBool("Agree?", "agree")

	cases := []struct {
		cell string
		want any
	}{
		{"0", false},
		{"1", true},
		{"7", true},
		{"", nil},
		{"  ", nil},
	}
	for _, c := range cases {
		got, err := q.Decode([]string{c.cell})
		if err != nil {
			t.Fatalf("decode %q: %v", c.cell, err)
		}
		if got != c.want {
			t.Fatalf("decode %q = %v, want %v", c.cell, got, c.want)
		}
	}

	if _, err := q.Decode([]string{"yes"}); err == nil {
		t.Fatalf("decode %q: expected error", "yes")
	}
}

func TestIntegerDecodeMalformedIsFatal(t *testing.T) {
	q := survey.NewInteger("Age", "")
	_, err := q.Decode([]string{"abc"})
	var de *survey.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
	if de.Recoverable {
		t.Fatalf("integer decode errors must not be recoverable")
	}
}

func TestNumberDecodeLenient(t *testing.T) {
	q := survey.NewNumber("Years", "")

	got, err := q.Decode([]string{"about 12 years"})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != 12.0 {
		t.Fatalf("got %v, want 12.0", got)
	}

	got, err = q.Decode([]string{"-3.5 degrees"})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != -3.5 {
		t.Fatalf("got %v, want -3.5", got)
	}

	_, err = q.Decode([]string{"n/a"})
	var de *survey.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
	if !de.Recoverable {
		t.Fatalf("lenient number decode errors must be recoverable")
	}
}

func TestNumberDecodeStrict(t *testing.T) {
	q := survey.NewNumber("Years", "")
	q.Strict = true
	_, err := q.Decode([]string{"n/a"})
	var de *survey.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
	if de.Recoverable {
		t.Fatalf("strict number decode errors must not be recoverable")
	}
}

func TestDateTimeDecode(t *testing.T) {
	q := survey.NewDateTime("Start Date (UTC)", "Start Date")

	got, err := q.Decode([]string{"2021-01-01 10:00:00"})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := time.Date(2021, 1, 1, 10, 0, 0, 0, time.UTC)
	if !got.(time.Time).Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if got, err := q.Decode([]string{""}); err != nil || got != nil {
		t.Fatalf("empty cell: got (%v, %v), want (nil, nil)", got, err)
	}
	if _, err := q.Decode([]string{"01.02.2021"}); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
}

func TestChoiceBijection(t *testing.T) {
	opts := []survey.Option{{Name: "r", Text: "Red"}, {Name: "b", Text: "Blue"}}
	q, err := survey.NewChoice("Color?", "color", opts)
	if err != nil {
		t.Fatalf("NewChoice: %v", err)
	}

	// Decode the long text, reverse-map the short name, get the text back.
	v, err := q.Decode([]string{"Red"})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	text, ok := q.OptionText(v.(string))
	if !ok || text != "Red" {
		t.Fatalf("round trip: got (%q, %v), want (\"Red\", true)", text, ok)
	}

	if _, err := q.Decode([]string{"Green"}); err == nil {
		t.Fatalf("unknown choice text must be fatal")
	}
	if v, err := q.Decode([]string{""}); err != nil || v != nil {
		t.Fatalf("empty cell: got (%v, %v), want (nil, nil)", v, err)
	}
}

func TestChoiceDuplicateOptionRejected(t *testing.T) {
	var defErr *survey.DefinitionError

	_, err := survey.NewChoice("Color?", "color", []survey.Option{
		{Name: "a", Text: "Red"}, {Name: "b", Text: "Red"},
	})
	if !errors.As(err, &defErr) {
		t.Fatalf("duplicate text: expected *DefinitionError, got %v", err)
	}

	_, err = survey.NewMultiChoice("Color?", "color", []survey.Option{
		{Name: "a", Text: "Red"}, {Name: "a", Text: "Blue"},
	})
	if !errors.As(err, &defErr) {
		t.Fatalf("duplicate name: expected *DefinitionError, got %v", err)
	}
}

func TestMultiChoiceDecode(t *testing.T) {
	q, err := survey.NewMultiChoice("Colors?", "colors", survey.Options("Red", "Blue"))
	if err != nil {
		t.Fatalf("NewMultiChoice: %v", err)
	}
	if q.Width() != 2 {
		t.Fatalf("width = %d, want 2", q.Width())
	}

	v, err := q.Decode([]string{"Red", ""})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]bool{"Red": true, "Blue": false}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %v, want %v", v, want)
	}

	// The whole value is never null, even with nothing checked.
	v, err = q.Decode([]string{"", ""})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(v, map[string]bool{"Red": false, "Blue": false}) {
		t.Fatalf("got %v, want all false", v)
	}
}

func TestMultiChoiceHeaderSetMatch(t *testing.T) {
	q, err := survey.NewMultiChoice("Colors?", "colors", survey.Options("Red", "Blue"))
	if err != nil {
		t.Fatalf("NewMultiChoice: %v", err)
	}

	if !q.ValidateHeader([]string{"Red", "Blue"}) {
		t.Fatalf("declaration order must validate")
	}
	if !q.ValidateHeader([]string{" Blue ", "Red"}) {
		t.Fatalf("reordered span with edge whitespace must validate")
	}
	if q.ValidateHeader([]string{"Red", "Green"}) {
		t.Fatalf("wrong option set must not validate")
	}
	if q.ValidateHeader([]string{"Red"}) {
		t.Fatalf("short span must not validate")
	}
}

func TestSingleHeaderTrimmedExactMatch(t *testing.T) {
	q := survey.NewText("Name?", "")
	if !q.ValidateHeader([]string{"  Name?  "}) {
		t.Fatalf("trimmed match must validate")
	}
	if q.ValidateHeader([]string{"name?"}) {
		t.Fatalf("case difference must not validate")
	}
}

func TestNameDefaultsToText(t *testing.T) {
	if got := survey.NewText("Name?", "").Name(); got != "Name?" {
		t.Fatalf("Name() = %q, want %q", got, "Name?")
	}
	if got := survey.NewText("Name?", "who").Name(); got != "who" {
		t.Fatalf("Name() = %q, want %q", got, "who")
	}
}
