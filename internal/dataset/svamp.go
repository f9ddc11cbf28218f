package dataset

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/distillprep/distillprep/internal/hub"
	"github.com/distillprep/distillprep/internal/parser"
	"github.com/distillprep/distillprep/pkg/models"
)

// svampTrainSize is the fixed train partition of the 1000-problem corpus
const svampTrainSize = 800

// svampSpec is the SVAMP arithmetic word-problem corpus, distributed as one
// local SVAMP.json file and split 800/200 with a seed-0 permutation
func svampSpec() *Spec {
	return &Spec{
		Name: "svamp",
		SplitMap: map[models.SplitName]string{
			models.SplitTrain: "train",
			models.SplitTest:  "test",
		},
		BatchSize:    500,
		TrainBatches: batchRange(2),
		TestBatches:  batchRange(1),
		Normalize:    normalizeInputLabel,
		ParseLLM:     parser.ParseEquationLLM,
		ParseGPT:     parser.ParseEquationGPT,
		Fetch:        fetchSVAMP,
	}
}

// fetchSVAMP reads the local SVAMP.json corpus, formats each problem as
// body+question with its equation label, and partitions it deterministically
func fetchSVAMP(_ context.Context, l *Loader) (models.RawSplits, error) {
	path := filepath.Join(l.store.DatasetDir(l.spec.Name), "SVAMP.json")
	source, err := hub.ReadJSONRows(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (place SVAMP.json under the dataset directory): %v",
			ErrNoSource, l.spec.Name, err)
	}

	rows := make([]models.Row, len(source))
	for i, row := range source {
		body, err := stringField(row, "Body")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		question, err := stringField(row, "Question")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		equation, err := stringField(row, "Equation")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = models.Row{
			"input": body + "\n" + question,
			"label": equation,
		}
	}

	// Deterministic seed-0 permutation, then a fixed 800/rest partition
	perm := rand.New(rand.NewSource(0)).Perm(len(rows))
	cut := svampTrainSize
	if cut > len(rows) {
		cut = len(rows)
	}
	train := make([]models.Row, 0, cut)
	test := make([]models.Row, 0, len(rows)-cut)
	for i, p := range perm {
		if i < cut {
			train = append(train, rows[p])
		} else {
			test = append(test, rows[p])
		}
	}

	l.logger.Info("Partitioned local corpus", "train", len(train), "test", len(test))
	l.collector.RecordFetched(l.spec.Name, string(models.SplitTrain), len(train))
	l.collector.RecordFetched(l.spec.Name, string(models.SplitTest), len(test))

	return models.RawSplits{
		models.SplitTrain: train,
		models.SplitTest:  test,
	}, nil
}

// normalizeInputLabel keeps exactly the input and label columns, dropping
// everything else the source carries
func normalizeInputLabel(rows []models.Row) ([]models.Record, error) {
	records := make([]models.Record, len(rows))
	for i, row := range rows {
		input, err := stringField(row, "input")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		label, err := stringField(row, "label")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		records[i] = models.Record{Input: input, Label: label}
	}
	return records, nil
}
