package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/coe/internal/export"
	"github.com/san-kum/coe/internal/orbit"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Strict    bool      `json:"strict"`
	Policy    string    `json:"policy"`
	Cases     int       `json:"cases"`
	Failures  int       `json:"failures"`
}

// Row is one line of elements.csv. Values holds nil for undefined elements
// and is nil entirely for failed cases.
type Row struct {
	Name   string
	Input  export.Input
	Values map[string]*float64
	Error  string
}

var inputColumns = []string{"name", "rx", "ry", "rz", "vx", "vy", "vz", "mu"}

func header() []string {
	h := append([]string{}, inputColumns...)
	h = append(h, orbit.Keys...)
	return append(h, "error")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Save writes metadata.json and elements.csv under a fresh run directory.
func (s *Store) Save(source string, strict bool, policy string, records []export.Record) (string, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	failures := 0
	for _, r := range records {
		if r.Error != "" {
			failures++
		}
	}

	meta := RunMetadata{
		ID:        runID,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Strict:    strict,
		Policy:    policy,
		Cases:     len(records),
		Failures:  failures,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "elements.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(header()); err != nil {
		return "", err
	}

	for _, r := range records {
		row := []string{r.Name}
		for i := 0; i < 3; i++ {
			row = append(row, component(r.Input.R, i))
		}
		for i := 0; i < 3; i++ {
			row = append(row, component(r.Input.V, i))
		}
		row = append(row, formatFloat(r.Input.Mu))

		for _, k := range orbit.Keys {
			cell := ""
			if r.Elements != nil {
				if v, ok := r.Elements.Get(k).Get(); ok {
					cell = formatFloat(v)
				}
			}
			row = append(row, cell)
		}
		row = append(row, r.Error)

		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return runID, nil
}

// component tolerates malformed input vectors, which are saved as given.
func component(v []float64, i int) string {
	if i >= len(v) {
		return ""
	}
	return formatFloat(v[i])
}

// List returns saved runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadRows(runID string) ([]Row, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "elements.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Row{}, nil
	}

	nIn := len(inputColumns)
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(header()) {
			return nil, fmt.Errorf("storage: %s: malformed row %q", runID, rec)
		}

		row := Row{Name: rec[0], Error: rec[len(rec)-1]}
		row.Input.R = parseVector(rec[1:4])
		row.Input.V = parseVector(rec[4:7])
		row.Input.Mu, _ = strconv.ParseFloat(rec[7], 64)

		if row.Error == "" {
			row.Values = make(map[string]*float64, len(orbit.Keys))
			for i, k := range orbit.Keys {
				row.Values[k] = parseCell(rec[nIn+i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseVector(cells []string) []float64 {
	v := make([]float64, 0, len(cells))
	for _, c := range cells {
		if p := parseCell(c); p != nil {
			v = append(v, *p)
		}
	}
	return v
}

func parseCell(c string) *float64 {
	if c == "" {
		return nil
	}
	v, err := strconv.ParseFloat(c, 64)
	if err != nil {
		return nil
	}
	return &v
}
