package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/distillprep/distillprep/internal/parser"
	"github.com/distillprep/distillprep/pkg/models"
)

// asdivSpec is the ASDiv diverse word-problem corpus. Its split files are
// distributed out of band, so fetch is unsupported; reload and prediction
// loading work once the files are in place.
func asdivSpec() *Spec {
	return &Spec{
		Name: "asdiv",
		SplitMap: map[models.SplitName]string{
			models.SplitTrain: "train",
			models.SplitTest:  "test",
		},
		BatchSize:    1000,
		TrainBatches: batchRange(3),
		TestBatches:  batchRange(1),
		Normalize:    normalizeASDiv,
		ParseLLM:     parser.ParseEquationLLM,
		// No gpt-neox runs exist for this dataset
		ParseGPT: nil,
		Fetch:    fetchASDiv,
	}
}

func fetchASDiv(_ context.Context, l *Loader) (models.RawSplits, error) {
	return nil, fmt.Errorf("%w: %s (split files are distributed out of band)", ErrNoSource, l.spec.Name)
}

// normalizeASDiv joins body and question into the prompt; the label is the
// leading token of the answer field, which strips the unit annotation
// ("72 (cookies)" becomes "72")
func normalizeASDiv(rows []models.Row) ([]models.Record, error) {
	records := make([]models.Record, len(rows))
	for i, row := range rows {
		body, err := stringField(row, "Body")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		question, err := stringField(row, "Question")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		answer, err := stringField(row, "Answer")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		label, _, _ := strings.Cut(answer, " ")
		records[i] = models.Record{
			Input: body + "\n" + question,
			Label: label,
		}
	}
	return records, nil
}
