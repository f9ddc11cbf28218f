package convert

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/distillprep/distillprep/internal/chunk"
	"github.com/distillprep/distillprep/internal/config"
	"github.com/distillprep/distillprep/internal/metrics"
	"github.com/distillprep/distillprep/internal/store"
	"github.com/distillprep/distillprep/pkg/models"
)

func newTestConverter(t *testing.T, chunkSize int) (*Converter, *store.Store) {
	t.Helper()
	logger := slog.Default()
	st, err := store.New(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	cfg := config.ConvertConfig{ChunkSize: chunkSize, Subject: "algebra"}
	return New(st, cfg, metrics.NewCollector(logger), logger), st
}

func writeShard(t *testing.T, st *store.Store, split models.SplitName, name string, items []map[string]any) {
	t.Helper()
	dir := filepath.Join(st.DatasetDir(DatasetName), string(split))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(items)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		t.Fatal(err)
	}
}

func problem(input, process string, label any) map[string]any {
	return map[string]any{"input": input, "process": process, "label": label}
}

func TestRunCombinesShardsAndChunksRationales(t *testing.T) {
	c, st := newTestConverter(t, 2)

	// Shard names chosen out of order to check filename sorting
	writeShard(t, st, models.SplitTrain, "shard_1.json", []map[string]any{
		problem("q3", "steps for q3", 3),
		problem("q4", "", 4), // empty process is excluded from CoT chunks
	})
	writeShard(t, st, models.SplitTrain, "shard_0.json", []map[string]any{
		problem("q1", "steps for q1", 1),
		problem("q2", "steps for q2", 2),
	})
	writeShard(t, st, models.SplitTest, "shard_0.json", []map[string]any{
		problem("t1", "steps for t1", "x+1"),
	})

	stats, inventory, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.TrainRecords != 4 || stats.TestRecords != 1 {
		t.Errorf("stats = %+v, want 4 train / 1 test records", stats)
	}
	if stats.TrainCoT != 3 || stats.TestCoT != 1 {
		t.Errorf("stats = %+v, want 3 train / 1 test rationales", stats)
	}
	if stats.TrainChunks != 2 || stats.TestChunks != 1 {
		t.Errorf("stats = %+v, want 2 train / 1 test chunks", stats)
	}
	if len(inventory) != 3 {
		t.Errorf("inventory has %d chunks, want 3", len(inventory))
	}

	// Combined file keeps all records in shard filename order
	combined := filepath.Join(st.DatasetDir(DatasetName), "algebra_train.json")
	data, err := os.ReadFile(combined)
	if err != nil {
		t.Fatalf("failed to read combined file: %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("failed to decode combined file: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("combined file has %d records, want 4", len(records))
	}
	if records[0]["input"] != "q1" || records[3]["input"] != "q4" {
		t.Errorf("records out of order: first %v, last %v", records[0]["input"], records[3]["input"])
	}
	if records[1]["process"] != "steps for q2" {
		t.Errorf("records[1].process = %v", records[1]["process"])
	}

	// Chunk files carry only the non-empty rationales, split at chunk size
	first, err := chunk.Read(chunk.Path(st.LLMDir(DatasetName), models.SplitTrain, 0))
	if err != nil {
		t.Fatalf("chunk.Read() error = %v", err)
	}
	if len(first) != 2 || first[0] != "steps for q1" {
		t.Errorf("first chunk = %v", first)
	}
	second, err := chunk.Read(chunk.Path(st.LLMDir(DatasetName), models.SplitTrain, 1))
	if err != nil {
		t.Fatalf("chunk.Read() error = %v", err)
	}
	if len(second) != 1 || second[0] != "steps for q3" {
		t.Errorf("second chunk = %v", second)
	}
}

func TestRunMissingShardsFatal(t *testing.T) {
	c, _ := newTestConverter(t, 500)
	if _, _, err := c.Run(context.Background()); err == nil {
		t.Fatal("Run() expected error when shard directories are missing")
	}
}

func TestRunEmptyShardDirFatal(t *testing.T) {
	c, st := newTestConverter(t, 500)
	dir := filepath.Join(st.DatasetDir(DatasetName), "train")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.Run(context.Background()); err == nil {
		t.Fatal("Run() expected error for a shard directory with no shards")
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	c, st := newTestConverter(t, 500)
	writeShard(t, st, models.SplitTrain, "shard_0.json", []map[string]any{
		problem("q1", "steps", 1),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := c.Run(ctx); err == nil {
		t.Fatal("Run() expected error for canceled context")
	}
}
