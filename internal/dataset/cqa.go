package dataset

import (
	"fmt"

	"github.com/distillprep/distillprep/internal/parser"
	"github.com/distillprep/distillprep/pkg/models"
)

// cqaSpec is CommonsenseQA via the cos_e v1.11 release, which pairs each
// question with five answer choices and a gold answer
func cqaSpec() *Spec {
	return &Spec{
		Name:           "cqa",
		SourceRepo:     "cos_e",
		SourceRevision: "refs/convert/parquet",
		SplitMap: map[models.SplitName]string{
			models.SplitTrain: "train",
			models.SplitTest:  "validation",
		},
		SourceFiles: map[models.SplitName][]string{
			models.SplitTrain: {"v1.11/train/0000.parquet"},
			models.SplitTest:  {"v1.11/validation/0000.parquet"},
		},
		BatchSize:    1000,
		TrainBatches: batchRange(10),
		TestBatches:  batchRange(2),
		Normalize:    normalizeCQA,
		ParseLLM:     parser.ParseChoiceLLM,
		ParseGPT:     parser.ParseChoiceGPT,
	}
}

// normalizeCQA renders the question and its five lettered choices as one
// prompt; the label is the gold answer text
func normalizeCQA(rows []models.Row) ([]models.Record, error) {
	records := make([]models.Record, len(rows))
	for i, row := range rows {
		question, err := stringField(row, "question")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		choices, err := listField(row, "choices")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if len(choices) != 5 {
			return nil, fmt.Errorf("row %d: expected 5 answer choices, got %d", i, len(choices))
		}
		answer, err := stringField(row, "answer")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		records[i] = models.Record{
			Input: fmt.Sprintf("%s\nAnswer Choices:\n(a) %s\n(b) %s\n(c) %s\n(d) %s\n(e) %s",
				question, choices[0], choices[1], choices[2], choices[3], choices[4]),
			Label: answer,
		}
	}
	return records, nil
}
