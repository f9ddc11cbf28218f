package dataset

import (
	"context"
	"fmt"

	"github.com/distillprep/distillprep/internal/chunk"
	"github.com/distillprep/distillprep/internal/hub"
	"github.com/distillprep/distillprep/internal/metrics"
	"github.com/distillprep/distillprep/internal/parser"
	"github.com/distillprep/distillprep/pkg/models"
)

// Fetch obtains the dataset's source-shaped splits. The default path
// downloads every configured hub file per split; datasets with a custom
// Fetch (local files, runtime splitting) use that instead.
func (l *Loader) Fetch(ctx context.Context) (models.RawSplits, error) {
	if l.spec.Fetch != nil {
		return l.spec.Fetch(ctx, l)
	}
	if l.spec.SourceRepo == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoSource, l.spec.Name)
	}

	raw := make(models.RawSplits, len(l.spec.SourceFiles))
	for _, split := range l.spec.splits() {
		files, ok := l.spec.SourceFiles[split]
		if !ok {
			continue
		}

		var rows []models.Row
		for _, f := range files {
			fileRows, err := l.hub.FetchRows(ctx, l.spec.SourceRepo, l.spec.SourceRevision, f)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch %s split %s: %w", l.spec.Name, split, err)
			}
			rows = append(rows, fileRows...)
		}

		l.logger.Info("Fetched source split",
			"split", split,
			"source_split", l.spec.SplitMap[split],
			"records", len(rows))
		l.collector.RecordFetched(l.spec.Name, string(split), len(rows))
		raw[split] = rows
	}

	return raw, nil
}

// Persist writes each split's source-shaped rows to its split file
func (l *Loader) Persist(raw models.RawSplits) error {
	for _, split := range l.spec.splits() {
		rows, ok := raw[split]
		if !ok {
			continue
		}
		if err := l.store.WriteSplit(l.spec.Name, split, rows); err != nil {
			return err
		}
	}
	return nil
}

// ReloadAndSubsample reads the persisted split files back, normalizes them,
// and restricts the train split to the configured batch index ranges. Ranges
// beyond the split's length are dropped, not padded or wrapped.
func (l *Loader) ReloadAndSubsample() (models.Splits, error) {
	splits := make(models.Splits, 3)
	for _, split := range l.spec.splits() {
		rows, err := l.readSplitRows(split)
		if err != nil {
			return nil, err
		}
		records, err := l.spec.Normalize(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize %s split %s: %w", l.spec.Name, split, err)
		}
		splits[split] = records
	}

	if !l.spec.DynamicChunks {
		splits[models.SplitTrain] = l.subsampleTrain(splits[models.SplitTrain])
	}

	return splits, nil
}

func (l *Loader) readSplitRows(split models.SplitName) ([]models.Row, error) {
	if l.spec.SplitFile != nil {
		return hub.ReadJSONRows(l.spec.SplitFile(l.store, split))
	}
	return l.store.ReadSplit(l.spec.Name, split)
}

// subsampleTrain keeps the records selected by the train batch index list:
// each index idx contributes the range [idx*batch, (idx+1)*batch), and
// out-of-range positions are silently clipped
func (l *Loader) subsampleTrain(train []models.Record) []models.Record {
	numTrain := len(train)
	kept := make([]models.Record, 0, len(l.spec.TrainBatches)*l.spec.BatchSize)
	for _, idx := range l.spec.TrainBatches {
		for i := idx * l.spec.BatchSize; i < (idx+1)*l.spec.BatchSize; i++ {
			if i < numTrain {
				kept = append(kept, train[i])
			}
		}
	}
	return kept
}

// LoadLLMPreds reads the chunked teacher-output files of one split in
// ascending index order and parses each output with the dataset's LLM
// parser. A parse error from the boxed family is fatal; marker-family
// placeholders are counted but kept, preserving positional alignment with
// the split's records.
func (l *Loader) LoadLLMPreds(split models.SplitName) ([]models.ParsedOutput, models.PredStats, error) {
	idxs, err := l.chunkIdxs(split)
	if err != nil {
		return nil, models.PredStats{}, err
	}

	dir := l.store.LLMDir(l.spec.Name)
	stats := models.PredStats{Dataset: l.spec.Name, Split: split, Kind: "llm"}
	var pairs []models.ParsedOutput
	for _, idx := range idxs {
		outputs, err := chunk.Read(chunk.Path(dir, split, idx))
		if err != nil {
			return nil, stats, err
		}
		stats.ChunksRead++

		for _, output := range outputs {
			pair, err := l.parseOne(l.spec.ParseLLM, output, "llm", &stats)
			if err != nil {
				return nil, stats, err
			}
			pairs = append(pairs, pair)
		}
	}

	l.logger.Info("Loaded LLM predictions",
		"split", split,
		"chunks", stats.ChunksRead,
		"outputs", stats.Outputs,
		"placeholders", stats.Placeholders)
	return pairs, stats, nil
}

// LoadGPTPreds reads the single gpt-neox predictions file of one split and
// parses each output with the dataset's GPT parser
func (l *Loader) LoadGPTPreds(split models.SplitName) ([]models.ParsedOutput, models.PredStats, error) {
	stats := models.PredStats{Dataset: l.spec.Name, Split: split, Kind: "gpt"}
	if l.spec.ParseGPT == nil {
		return nil, stats, fmt.Errorf("dataset %s has no gpt-neox predictions", l.spec.Name)
	}

	outputs, err := chunk.Read(l.store.GPTPredsPath(l.spec.Name, split))
	if err != nil {
		return nil, stats, err
	}
	stats.ChunksRead = 1

	pairs := make([]models.ParsedOutput, 0, len(outputs))
	for _, output := range outputs {
		pair, err := l.parseOne(l.spec.ParseGPT, output, "gpt", &stats)
		if err != nil {
			return nil, stats, err
		}
		pairs = append(pairs, pair)
	}

	l.logger.Info("Loaded gpt-neox predictions",
		"split", split,
		"outputs", stats.Outputs,
		"placeholders", stats.Placeholders)
	return pairs, stats, nil
}

func (l *Loader) parseOne(parse parser.Func, output, kind string, stats *models.PredStats) (models.ParsedOutput, error) {
	rationale, label, err := parse(output)
	if err != nil {
		l.collector.RecordParse(l.spec.Name, kind, metrics.ParseError)
		return models.ParsedOutput{}, fmt.Errorf("failed to parse %s output %d of %s/%s: %w",
			kind, stats.Outputs, l.spec.Name, stats.Split, err)
	}

	pair := models.ParsedOutput{Rationale: rationale, Label: label}
	stats.Outputs++
	if pair.IsPlaceholder() {
		stats.Placeholders++
		l.collector.RecordParse(l.spec.Name, kind, metrics.ParsePlaceholder)
	} else {
		l.collector.RecordParse(l.spec.Name, kind, metrics.ParseOK)
	}
	return pair, nil
}

func (l *Loader) chunkIdxs(split models.SplitName) ([]int, error) {
	if l.spec.DynamicChunks {
		return dynamicChunkIdxs(l.store.LLMDir(l.spec.Name), split)
	}
	return l.spec.batchesFor(split), nil
}
