package manifest

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/distillprep/distillprep/internal/dataset"
	"github.com/distillprep/distillprep/pkg/models"
)

func TestManifestRoundTrip(t *testing.T) {
	spec, err := dataset.Lookup("cqa")
	if err != nil {
		t.Fatal(err)
	}

	m := New(spec)
	if m.RunID == "" {
		t.Error("RunID is empty")
	}
	m.SplitCounts[models.SplitTrain] = 9741
	m.SplitCounts[models.SplitTest] = 1221
	m.Chunks = []models.ChunkInfo{
		{Split: models.SplitTrain, Index: 0, Records: 1000},
		{Split: models.SplitTrain, Index: 1, Records: 741},
	}

	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := Write(path, m, slog.Default()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.RunID != m.RunID || loaded.Dataset != "cqa" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.TotalRecords() != 10962 {
		t.Errorf("TotalRecords() = %d, want 10962", loaded.TotalRecords())
	}
	if len(loaded.Chunks) != 2 {
		t.Errorf("loaded %d chunks, want 2", len(loaded.Chunks))
	}
}

func TestWriteLeavesNoTempFile(t *testing.T) {
	spec, err := dataset.Lookup("svamp")
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	if err := Write(path, New(spec), slog.Default()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after write")
	}
}

func TestMatchesDetectsSpecChange(t *testing.T) {
	cqa, err := dataset.Lookup("cqa")
	if err != nil {
		t.Fatal(err)
	}
	svamp, err := dataset.Lookup("svamp")
	if err != nil {
		t.Fatal(err)
	}

	m := New(cqa)
	if !Matches(m, cqa) {
		t.Error("Matches() = false for the manifest's own spec")
	}
	if Matches(m, svamp) {
		t.Error("Matches() = true for a different spec")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("Load() expected error for missing manifest")
	}
}
