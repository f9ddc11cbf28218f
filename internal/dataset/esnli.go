package dataset

import (
	"fmt"

	"github.com/distillprep/distillprep/internal/parser"
	"github.com/distillprep/distillprep/pkg/models"
)

// esnliSpec is e-SNLI: SNLI premise/hypothesis pairs with 0/1/2 entailment
// labels and human explanations (which normalization drops)
func esnliSpec() *Spec {
	return &Spec{
		Name:           "esnli",
		SourceRepo:     "esnli",
		SourceRevision: "refs/convert/parquet",
		HasValid:       true,
		SplitMap: map[models.SplitName]string{
			models.SplitTrain: "train",
			models.SplitValid: "validation",
			models.SplitTest:  "test",
		},
		SourceFiles: map[models.SplitName][]string{
			models.SplitTrain: {
				"plain_text/train/0000.parquet",
				"plain_text/train/0001.parquet",
			},
			models.SplitValid: {"plain_text/validation/0000.parquet"},
			models.SplitTest:  {"plain_text/test/0000.parquet"},
		},
		BatchSize:    5500,
		TrainBatches: batchRange(100),
		TestBatches:  batchRange(2),
		ValidBatches: batchRange(2),
		Normalize:    normalizeNLI,
		ParseLLM:     parser.ParseEntailLLM,
		ParseGPT:     parser.ParseEntailGPT,
	}
}

// normalizeNLI joins premise and hypothesis into the prompt and recodes the
// 0/1/2 label to its class name. Extra source columns (explanations,
// annotator ids) are dropped.
func normalizeNLI(rows []models.Row) ([]models.Record, error) {
	records := make([]models.Record, len(rows))
	for i, row := range rows {
		premise, err := stringField(row, "premise")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		hypothesis, err := stringField(row, "hypothesis")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		labelValue, ok := row["label"]
		if !ok {
			return nil, fmt.Errorf("row %d: missing column %q", i, "label")
		}
		label, err := classLabel(labelValue)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		records[i] = models.Record{
			Input: premise + "\n" + hypothesis,
			Label: label,
		}
	}
	return records, nil
}
