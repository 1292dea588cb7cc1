package config

import (
	"fmt"

	"surveyetl/internal/survey"
)

// BuildQuestions materializes the declared questions into schema units. The
// choice-kind bijection invariants are enforced here, at construction, so a
// bad declaration fails before any data is read.
func BuildQuestions(s Survey) ([]survey.Question, error) {
	out := make([]survey.Question, 0, len(s.Questions))
	for i, def := range s.Questions {
		if def.Text == "" {
			return nil, fmt.Errorf("survey config: question %d: text is required", i)
		}
		q, err := buildQuestion(def)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func buildQuestion(def QuestionDef) (survey.Question, error) {
	switch def.Kind {
	case "text":
		return survey.NewText(def.Text, def.Name), nil
	case "metadata":
		return survey.NewMetadata(def.Text, def.Name), nil
	case "datetime":
		return survey.NewDateTime(def.Text, def.Name), nil
	case "integer":
		return survey.NewInteger(def.Text, def.Name), nil
	case "number":
		q := survey.NewNumber(def.Text, def.Name)
		q.Strict = def.Strict
		return q, nil
	case "bool":
		return survey.NewBool(def.Text, def.Name), nil
	case "choice":
		return survey.NewChoice(def.Text, def.Name, options(def.Choices))
	case "multichoice":
		return survey.NewMultiChoice(def.Text, def.Name, options(def.Choices))
	default:
		return nil, fmt.Errorf("survey config: question %q: unknown kind %q", def.Text, def.Kind)
	}
}

func options(defs []ChoiceDef) []survey.Option {
	opts := make([]survey.Option, len(defs))
	for i, d := range defs {
		opts[i] = survey.Option{Name: d.Name, Text: d.Text}
	}
	return opts
}
