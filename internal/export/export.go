package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/coe/internal/batch"
	"github.com/san-kum/coe/internal/orbit"
)

// Input echoes the state vector a record was computed from.
type Input struct {
	R  []float64 `json:"r" yaml:"r"`
	V  []float64 `json:"v" yaml:"v"`
	Mu float64   `json:"mu" yaml:"mu"`
}

// Record is one serialized case. Elements is nil when the case failed.
type Record struct {
	Name     string          `json:"name" yaml:"name"`
	Input    Input           `json:"input" yaml:"input"`
	Elements *orbit.Elements `json:"elements" yaml:"elements"`
	Error    string          `json:"error,omitempty" yaml:"error,omitempty"`
}

func FromOutcome(o batch.Outcome) Record {
	rec := Record{
		Name:  o.Case.Name,
		Input: Input{R: o.Case.R, V: o.Case.V, Mu: o.Case.Mu},
	}
	switch {
	case o.Err != nil:
		rec.Error = o.Err.Error()
	case o.Skipped:
		rec.Error = "skipped"
	default:
		el := o.Elements
		rec.Elements = &el
	}
	return rec
}

func FromOutcomes(outcomes []batch.Outcome) []Record {
	records := make([]Record, len(outcomes))
	for i, o := range outcomes {
		records[i] = FromOutcome(o)
	}
	return records
}

// payload picks the document shape: a lone successful record is written as
// the bare element mapping, anything else as a list of records.
func payload(records []Record) interface{} {
	if len(records) == 1 && records[0].Elements != nil {
		return records[0].Elements
	}
	return records
}

// WriteYAML writes full-precision values with absent elements as null.
func WriteYAML(w io.Writer, records []Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(payload(records)); err != nil {
		return err
	}
	return enc.Close()
}

func WriteJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload(records))
}

// Format names accepted by Write.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

func Write(w io.Writer, format string, records []Record) error {
	switch format {
	case FormatYAML:
		return WriteYAML(w, records)
	case FormatJSON:
		return WriteJSON(w, records)
	default:
		return fmt.Errorf("export: unknown format %q", format)
	}
}

// FormatForPath infers the format from a file extension, defaulting to YAML.
func FormatForPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

func WriteFile(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := Write(file, FormatForPath(path), records); err != nil {
		return err
	}
	return file.Close()
}
