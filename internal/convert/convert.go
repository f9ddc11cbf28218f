// Package convert implements the bulk converter for the algebra shards:
// per-file JSON shards under <root>/hendrycks_math/{train,test}/ are
// concatenated into one combined file per split, and the gold process
// rationales are re-split into fixed-size CoT chunk files.
package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/distillprep/distillprep/internal/chunk"
	"github.com/distillprep/distillprep/internal/config"
	"github.com/distillprep/distillprep/internal/metrics"
	"github.com/distillprep/distillprep/internal/store"
	"github.com/distillprep/distillprep/pkg/models"
)

// DatasetName is the dataset directory the converter operates on
const DatasetName = "hendrycks_math"

// Converter combines algebra shards and writes CoT chunk files
type Converter struct {
	store     *store.Store
	cfg       config.ConvertConfig
	collector *metrics.Collector
	logger    *slog.Logger
}

// New creates a converter over the store's hendrycks_math directory
func New(st *store.Store, cfg config.ConvertConfig, collector *metrics.Collector, logger *slog.Logger) *Converter {
	return &Converter{
		store:     st,
		cfg:       cfg,
		collector: collector,
		logger:    logger.With("component", "convert"),
	}
}

// Run converts both splits: shard concatenation first, then CoT chunking.
// The context is checked between shards so Ctrl-C interrupts cleanly.
// Returns the run stats and the inventory of written chunk files.
func (c *Converter) Run(ctx context.Context) (models.ConvertStats, []models.ChunkInfo, error) {
	stats := models.ConvertStats{StartTime: time.Now()}

	var inventory []models.ChunkInfo
	for _, split := range []models.SplitName{models.SplitTrain, models.SplitTest} {
		records, err := c.combineShards(ctx, split)
		if err != nil {
			return stats, nil, err
		}

		written, cot, err := c.writeCoTChunks(split, records)
		if err != nil {
			return stats, nil, err
		}
		inventory = append(inventory, written...)

		switch split {
		case models.SplitTrain:
			stats.TrainRecords = len(records)
			stats.TrainCoT = cot
			stats.TrainChunks = len(written)
		case models.SplitTest:
			stats.TestRecords = len(records)
			stats.TestCoT = cot
			stats.TestChunks = len(written)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	c.logger.Info("Conversion complete",
		"train_records", stats.TrainRecords,
		"test_records", stats.TestRecords,
		"train_chunks", stats.TrainChunks,
		"test_chunks", stats.TestChunks,
		"duration", stats.Duration)
	return stats, inventory, nil
}

// shardRecord is the shape the converter keeps from each shard item. The
// process rationale defaults to empty when a shard omits it; the label keeps
// its source type until the dataset loader coerces it.
type shardRecord struct {
	Input   string `json:"input"`
	Process string `json:"process"`
	Label   any    `json:"label"`
}

// combineShards reads every shard of one split in filename order and writes
// the combined "<subject>_<split>.json" array
func (c *Converter) combineShards(ctx context.Context, split models.SplitName) ([]shardRecord, error) {
	shardDir := filepath.Join(c.store.DatasetDir(DatasetName), string(split))
	entries, err := os.ReadDir(shardDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s shards: %w", split, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no %s shards found in %s", split, shardDir)
	}
	sort.Strings(names)

	bar := progressbar.Default(int64(len(names)), fmt.Sprintf("Combining %s shards", split))
	var records []shardRecord
	for _, name := range names {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		path := filepath.Join(shardDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read shard %s: %w", path, err)
		}
		var items []shardRecord
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("failed to decode shard %s: %w", path, err)
		}
		records = append(records, items...)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	combined := filepath.Join(c.store.DatasetDir(DatasetName),
		fmt.Sprintf("%s_%s.json", c.cfg.Subject, split))
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal combined %s split: %w", split, err)
	}
	if err := os.WriteFile(combined, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write combined split file: %w", err)
	}

	c.logger.Info("Combined shards",
		"split", split,
		"shards", len(names),
		"records", len(records),
		"path", combined)
	c.collector.RecordFetched(DatasetName, string(split), len(records))
	return records, nil
}

// writeCoTChunks extracts the non-empty process rationales and writes them
// as fixed-size chunk files under the dataset's llm directory
func (c *Converter) writeCoTChunks(split models.SplitName, records []shardRecord) ([]models.ChunkInfo, int, error) {
	rationales := make([]string, 0, len(records))
	for _, record := range records {
		if record.Process != "" {
			rationales = append(rationales, record.Process)
		}
	}

	written, err := chunk.Write(c.store.LLMDir(DatasetName), split, rationales, c.cfg.ChunkSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to write %s CoT chunks: %w", split, err)
	}
	for range written {
		c.collector.RecordChunkWrite(DatasetName, string(split))
	}

	c.logger.Info("Wrote CoT chunks",
		"split", split,
		"rationales", len(rationales),
		"chunks", len(written),
		"chunk_size", c.cfg.ChunkSize)
	return written, len(rationales), nil
}
