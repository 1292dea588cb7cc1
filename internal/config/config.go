// Package config defines the canonical, JSON-serializable configuration
// model for the survey ETL application. Field names in Go mirror the JSON
// structure used in pipeline files, and decoding is performed by the
// standard library.
//
// Example (trimmed):
//
//	{
//	  "source":  { "kind": "file", "file": { "path": "responses.csv" } },
//	  "parser":  { "kind": "csv", "trim_space": true },
//	  "survey":  { "name": "onboarding", "questions": [
//	    { "kind": "integer", "text": "Age" },
//	    { "kind": "multichoice", "text": "Colors?", "name": "colors",
//	      "choices": [ {"name": "r", "text": "Red"}, "Blue" ] }
//	  ]},
//	  "storage": { "kind": "sqlite", "db": { "dsn": "survey.db", "table": "responses" } }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Source describes where the export comes from (currently "file").
	Source Source `json:"source"`

	// Parser configures the CSV tokenizer.
	Parser Parser `json:"parser"`

	// Survey declares the caller-supplied questions, in export order. The
	// fixed bookkeeping questions (response id, timestamps, network id) are
	// injected by the engine and must not be listed here.
	Survey Survey `json:"survey"`

	// Storage selects the sink for the decoded table. Optional; when the
	// kind is empty the run stops after summaries.
	Storage Storage `json:"storage"`

	// Metrics selects an optional metrics backend.
	Metrics Metrics `json:"metrics"`

	// Runtime controls batching, buffering, and de-duplication.
	Runtime Runtime `json:"runtime"`
}

// Source identifies the data source.
type Source struct {
	Kind string     `json:"kind"`
	File SourceFile `json:"file"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	Path string `json:"path"`
}

// Parser configures the CSV tokenizer.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind"`

	// Comma is the field delimiter as a one-rune string. Default ",".
	Comma string `json:"comma"`

	// TrimSpace trims edge whitespace from data cells.
	TrimSpace bool `json:"trim_space"`
}

// Survey declares the questions of one export.
type Survey struct {
	Name      string        `json:"name"`
	Questions []QuestionDef `json:"questions"`
}

// QuestionDef declares one question. Kind is one of "text", "integer",
// "number", "bool", "datetime", "choice", "multichoice".
type QuestionDef struct {
	Kind string `json:"kind"`

	// Text is the canonical header text.
	Text string `json:"text"`

	// Name is the output key; defaults to Text when empty.
	Name string `json:"name,omitempty"`

	// Strict applies to the "number" kind only: when true, a cell with no
	// numeric substring aborts the parse instead of decoding to null.
	Strict bool `json:"strict,omitempty"`

	// Choices applies to the choice kinds.
	Choices []ChoiceDef `json:"choices,omitempty"`
}

// ChoiceDef declares one selectable option. In JSON it is either an object
// {"name": ..., "text": ...} or a bare string, in which case the text serves
// as its own name (list-form declaration).
type ChoiceDef struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// UnmarshalJSON accepts both the object and the bare-string form.
func (c *ChoiceDef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Name, c.Text = s, s
		return nil
	}
	type plain ChoiceDef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = ChoiceDef(p)
	if c.Name == "" {
		c.Name = c.Text
	}
	return nil
}

// Storage selects the sink used to persist the decoded table.
type Storage struct {
	// Kind selects the storage implementation: "postgres", "mssql", "sqlite".
	Kind string `json:"kind"`

	// DB configures the selected backend.
	DB DBConfig `json:"db"`
}

// DBConfig configures a database sink.
type DBConfig struct {
	// DSN is the connection string for the backend's driver.
	DSN string `json:"dsn"`

	// Table is the destination table name (fully qualified where the
	// backend supports it, e.g. "public.responses").
	Table string `json:"table"`

	// AutoCreateTable runs the backend's CREATE TABLE bootstrap derived
	// from the survey schema before loading.
	AutoCreateTable bool `json:"auto_create_table"`
}

// Metrics selects an optional metrics backend: "prompush" or "datadog".
type Metrics struct {
	Kind string `json:"kind"`

	// GatewayURL is the Pushgateway base URL ("prompush" kind).
	GatewayURL string `json:"gateway_url"`

	// Addr is the DogStatsD address ("datadog" kind).
	Addr string `json:"addr"`

	// Namespace is an optional metric name prefix ("datadog" kind).
	Namespace string `json:"namespace"`

	// Job is the logical job name; defaults to the survey name.
	Job string `json:"job"`
}

// Runtime controls batching, buffering, and de-duplication for a run.
type Runtime struct {
	BatchSize     int  `json:"batch_size"`
	ChannelBuffer int  `json:"channel_buffer"`
	Dedup         bool `json:"dedup"`
}

// Load reads and decodes a pipeline file. Unknown JSON fields are rejected
// so typos in pipeline files fail loudly.
func Load(path string) (Pipeline, error) {
	var p Pipeline
	f, err := os.Open(path)
	if err != nil {
		return p, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return p, fmt.Errorf("config %s: %w", path, err)
	}
	return p, nil
}
