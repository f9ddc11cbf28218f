package chunk

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/distillprep/distillprep/pkg/models"
)

func TestWriteSplitsIntoFixedSizeChunks(t *testing.T) {
	dir := t.TempDir()

	items := make([]string, 1200)
	for i := range items {
		items[i] = fmt.Sprintf("rationale %d", i)
	}

	chunks, err := Write(dir, models.SplitTrain, items, 500)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if len(chunks) != 3 {
		t.Fatalf("wrote %d chunks, want 3", len(chunks))
	}
	wantSizes := []int{500, 500, 200}
	for i, info := range chunks {
		if info.Index != i {
			t.Errorf("chunk %d has index %d", i, info.Index)
		}
		if info.Records != wantSizes[i] {
			t.Errorf("chunk %d has %d records, want %d", i, info.Records, wantSizes[i])
		}
	}

	// Reconcatenating in index order reproduces the original sequence
	var roundTrip []string
	for i := range chunks {
		part, err := Read(Path(dir, models.SplitTrain, i))
		if err != nil {
			t.Fatalf("Read(chunk %d) error = %v", i, err)
		}
		roundTrip = append(roundTrip, part...)
	}
	if len(roundTrip) != len(items) {
		t.Fatalf("round trip has %d items, want %d", len(roundTrip), len(items))
	}
	for i := range items {
		if roundTrip[i] != items[i] {
			t.Fatalf("round trip item %d = %q, want %q", i, roundTrip[i], items[i])
		}
	}
}

func TestWriteEmptyInputWritesNothing(t *testing.T) {
	dir := t.TempDir()

	chunks, err := Write(dir, models.SplitTest, nil, 500)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("wrote %d chunks, want 0", len(chunks))
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		n, size, want int
	}{
		{0, 500, 0},
		{1, 500, 1},
		{500, 500, 1},
		{501, 500, 2},
		{1200, 500, 3},
	}
	for _, tt := range tests {
		if got := Count(tt.n, tt.size); got != tt.want {
			t.Errorf("Count(%d, %d) = %d, want %d", tt.n, tt.size, got, tt.want)
		}
	}
}

func TestReadReencodesNonStringEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "train_CoT_0.json")

	// Mixed chunk: a plain output and a nested candidate list
	content := `["plain output", [["candidate one", "candidate two"]]]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	outputs, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(outputs) != 2 {
		t.Fatalf("Read() returned %d outputs, want 2", len(outputs))
	}
	if outputs[0] != "plain output" {
		t.Errorf("outputs[0] = %q", outputs[0])
	}
	if outputs[1] != `[["candidate one","candidate two"]]` {
		t.Errorf("outputs[1] = %q", outputs[1])
	}
}

func TestPath(t *testing.T) {
	got := Path("datasets/cqa/llm", models.SplitTest, 1)
	want := filepath.Join("datasets", "cqa", "llm", "test_CoT_1.json")
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}
