package store

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/distillprep/distillprep/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), slog.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestSplitRoundTrip(t *testing.T) {
	s := newTestStore(t)

	rows := []models.Row{
		{"question": "Where do cats sleep?", "answer": "house", "id": "q1"},
		{"question": "What is 2+2?", "answer": "4", "id": "q2"},
	}

	if err := s.WriteSplit("cqa", models.SplitTrain, rows); err != nil {
		t.Fatalf("WriteSplit() error = %v", err)
	}

	got, err := s.ReadSplit("cqa", models.SplitTrain)
	if err != nil {
		t.Fatalf("ReadSplit() error = %v", err)
	}

	if len(got) != len(rows) {
		t.Fatalf("ReadSplit() returned %d rows, want %d", len(got), len(rows))
	}
	for i, row := range rows {
		for k, v := range row {
			if got[i][k] != v {
				t.Errorf("row %d column %q = %v, want %v", i, k, got[i][k], v)
			}
		}
	}
}

func TestReadSplitMissingFileFails(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.ReadSplit("cqa", models.SplitTest); err == nil {
		t.Error("ReadSplit() expected error for missing split file")
	}
}

func TestPaths(t *testing.T) {
	s := newTestStore(t)
	root := s.Root()

	if got, want := s.SplitPath("cqa", models.SplitTrain), filepath.Join(root, "cqa", "cqa_train.json"); got != want {
		t.Errorf("SplitPath() = %q, want %q", got, want)
	}
	if got, want := s.LLMDir("svamp"), filepath.Join(root, "svamp", "llm"); got != want {
		t.Errorf("LLMDir() = %q, want %q", got, want)
	}
	if got, want := s.GPTPredsPath("esnli", models.SplitValid), filepath.Join(root, "gpt-neox", "esnli", "valid.json"); got != want {
		t.Errorf("GPTPredsPath() = %q, want %q", got, want)
	}
	if got, want := s.ManifestPath("anli1"), filepath.Join(root, "anli1", "manifest.json"); got != want {
		t.Errorf("ManifestPath() = %q, want %q", got, want)
	}
}

func TestValidateDatasetName(t *testing.T) {
	valid := []string{"cqa", "anli1", "hendrycks_math", "OpenR1-Math-220k", "svamp"}
	for _, name := range valid {
		if err := ValidateDatasetName(name); err != nil {
			t.Errorf("ValidateDatasetName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "../etc", "a/b", `a\b`, "/abs", "name with spaces", ".."}
	for _, name := range invalid {
		if err := ValidateDatasetName(name); err == nil {
			t.Errorf("ValidateDatasetName(%q) = nil, want error", name)
		}
	}
}
