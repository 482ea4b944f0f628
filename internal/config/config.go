package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/coe/internal/orbit"
)

const (
	DefaultPath      = "config.yaml"
	DefaultBody      = "earth"
	DefaultTolerance = 1e-3
)

var ErrNoCases = errors.New("config: no state vectors found")

// File is a case file. Three layouts are accepted: a list under "cases", the
// same list under "test_cases", or a single "state_vector" block. Top-level
// mu/body apply to every case that does not set its own.
type File struct {
	Mu          *float64     `yaml:"mu,omitempty"`
	Body        string       `yaml:"body,omitempty"`
	StateVector *StateVector `yaml:"state_vector,omitempty"`
	Cases       []Case       `yaml:"cases,omitempty"`
	TestCases   []Case       `yaml:"test_cases,omitempty"`
}

type StateVector struct {
	Position []float64 `yaml:"position"`
	Velocity []float64 `yaml:"velocity"`
	Mu       *float64  `yaml:"mu,omitempty"`
	Body     string    `yaml:"body,omitempty"`
}

// Case is one raw record. R and V are passed to orbit.Validate untouched.
type Case struct {
	Name     string             `yaml:"name,omitempty"`
	R        []float64          `yaml:"r"`
	V        []float64          `yaml:"v"`
	Mu       *float64           `yaml:"mu,omitempty"`
	Body     string             `yaml:"body,omitempty"`
	Expected map[string]float64 `yaml:"expected,omitempty"`
}

// Resolved is a case with its gravitational parameter settled.
type Resolved struct {
	Index     int
	Name      string
	R, V      []float64
	Mu        float64
	Expected  map[string]float64
	Tolerance float64
}

// ParseError wraps a YAML syntax or type error.
type ParseError struct {
	Path string
	Line int // 0 when the decoder did not report one
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("config: parse %s: line %d: %s", e.Path, e.Line, stripYAMLPrefix(e.Err))
	}
	return fmt.Sprintf("config: parse %s: %s", e.Path, stripYAMLPrefix(e.Err))
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var lineRe = regexp.MustCompile(`line (\d+)`)
var yamlPrefixRe = regexp.MustCompile(`^yaml: (unmarshal errors:\s*)?(line \d+: )?`)

func stripYAMLPrefix(err error) string {
	return yamlPrefixRe.ReplaceAllString(err.Error(), "")
}

func newParseError(path string, err error) *ParseError {
	pe := &ParseError{Path: path, Err: err}
	if m := lineRe.FindStringSubmatch(err.Error()); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
	}
	return pe
}

// DefaultFile is the template written by "coe init".
func DefaultFile() *File {
	return &File{
		Body: DefaultBody,
		Cases: []Case{
			{
				Name: "vallado-2-5",
				R:    []float64{6524.834, 6862.875, 6448.296},
				V:    []float64{4.901327, 5.533756, -1.976341},
			},
			{
				Name: "circular-leo",
				R:    []float64{7000, 0, 0},
				V:    []float64{0, 7.546053290107541, 0},
			},
		},
	}
}

// Load reads a case file. A missing file yields the os error unchanged.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

func Parse(name string, data []byte) (*File, error) {
	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, newParseError(name, err)
	}
	return f, nil
}

func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Resolve flattens the file into cases with mu resolved in the order: case mu,
// case body, file mu, file body, orbit.DefaultMu.
func (f *File) Resolve() ([]Resolved, error) {
	var raw []Case
	raw = append(raw, f.Cases...)
	raw = append(raw, f.TestCases...)
	if sv := f.StateVector; sv != nil {
		raw = append(raw, Case{Name: "state_vector", R: sv.Position, V: sv.Velocity, Mu: sv.Mu, Body: sv.Body})
	}
	if len(raw) == 0 {
		return nil, ErrNoCases
	}

	fileMu, err := f.defaultMu()
	if err != nil {
		return nil, err
	}

	out := make([]Resolved, 0, len(raw))
	for i, c := range raw {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("case-%d", i+1)
		}

		mu := fileMu
		switch {
		case c.Mu != nil:
			mu = *c.Mu
		case c.Body != "":
			b, ok := GetBody(c.Body)
			if !ok {
				return nil, fmt.Errorf("config: case %q: unknown body %q", name, c.Body)
			}
			mu = b.Mu
		}

		tol := DefaultTolerance
		var expected map[string]float64
		if len(c.Expected) > 0 {
			expected = make(map[string]float64, len(c.Expected))
			for k, v := range c.Expected {
				if k == "tolerance" {
					tol = v
					continue
				}
				expected[k] = v
			}
		}

		out = append(out, Resolved{
			Index:     i,
			Name:      name,
			R:         c.R,
			V:         c.V,
			Mu:        mu,
			Expected:  expected,
			Tolerance: tol,
		})
	}
	return out, nil
}

func (f *File) defaultMu() (float64, error) {
	if f.Mu != nil {
		return *f.Mu, nil
	}
	if f.Body != "" {
		b, ok := GetBody(f.Body)
		if !ok {
			return 0, fmt.Errorf("config: unknown body %q", f.Body)
		}
		return b.Mu, nil
	}
	return orbit.DefaultMu, nil
}
