package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/coe/internal/export"
	"github.com/san-kum/coe/internal/orbit"
)

func sampleRecords(t *testing.T) []export.Record {
	t.Helper()
	el, err := orbit.ComputeRaw([]float64{7000, 0, 0}, []float64{0, 8, 0}, orbit.MuEarth)
	if err != nil {
		t.Fatal(err)
	}
	return []export.Record{
		{
			Name:     "equatorial",
			Input:    export.Input{R: []float64{7000, 0, 0}, V: []float64{0, 8, 0}, Mu: orbit.MuEarth},
			Elements: &el,
		},
		{
			Name:  "broken",
			Input: export.Input{R: []float64{7000, 0}, V: []float64{0, 8, 0}, Mu: orbit.MuEarth},
			Error: "orbit: position must have exactly 3 components (got 2)",
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	records := sampleRecords(t)
	runID, err := st.Save("cases.yaml", true, "skip-bad", records)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Source != "cases.yaml" {
		t.Errorf("expected source 'cases.yaml', got '%s'", meta.Source)
	}
	if meta.Cases != 2 || meta.Failures != 1 {
		t.Errorf("expected 2 cases / 1 failure, got %d / %d", meta.Cases, meta.Failures)
	}
	if !meta.Strict || meta.Policy != "skip-bad" {
		t.Errorf("unexpected flags: %+v", meta)
	}

	rows, err := st.LoadRows(runID)
	if err != nil {
		t.Fatalf("load rows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Name != "equatorial" || first.Error != "" {
		t.Errorf("unexpected first row: %+v", first)
	}
	if len(first.Values) != len(orbit.Keys) {
		t.Fatalf("expected %d values, got %d", len(orbit.Keys), len(first.Values))
	}
	if first.Values[orbit.KeyRAAN] != nil {
		t.Errorf("raan should be undefined, got %v", *first.Values[orbit.KeyRAAN])
	}
	want := records[0].Elements.Map()
	for _, k := range orbit.Keys {
		if (want[k] == nil) != (first.Values[k] == nil) {
			t.Errorf("%s: definedness mismatch", k)
			continue
		}
		if want[k] != nil && *want[k] != *first.Values[k] {
			t.Errorf("%s: got %v, want %v (full precision)", k, *first.Values[k], *want[k])
		}
	}
	if first.Input.Mu != orbit.MuEarth || len(first.Input.R) != 3 {
		t.Errorf("input not restored: %+v", first.Input)
	}

	second := rows[1]
	if second.Values != nil || second.Error == "" {
		t.Errorf("failed row should carry error only: %+v", second)
	}
	if len(second.Input.R) != 2 {
		t.Errorf("malformed input should be kept as given, got %v", second.Input.R)
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("expected empty list, got %v, %v", runs, err)
	}

	first, err := st.Save("a.yaml", false, "fail-fast", sampleRecords(t))
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	second, err := st.Save("b.yaml", false, "fail-fast", sampleRecords(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("expected newest first, got %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreLoad_NotFound(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadRows("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}
