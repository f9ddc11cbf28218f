package dataset

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/distillprep/distillprep/internal/hub"
	"github.com/distillprep/distillprep/internal/parser"
	"github.com/distillprep/distillprep/internal/store"
	"github.com/distillprep/distillprep/pkg/models"
)

// hendrycksMathSpec is the algebra subject of the MATH benchmark. Its split
// files (algebra_train.json, algebra_test.json) are produced by the bulk
// converter, so fetch and reload both read those instead of downloading.
func hendrycksMathSpec() *Spec {
	return &Spec{
		Name: "hendrycks_math",
		SplitMap: map[models.SplitName]string{
			models.SplitTrain: "train",
			models.SplitTest:  "test",
		},
		BatchSize:    500,
		TrainBatches: batchRange(15),
		TestBatches:  batchRange(10),
		Normalize:    normalizeInputLabel,
		ParseLLM:     parser.ParseNumericLLM,
		ParseGPT:     parser.ParseNumericGPT,
		Fetch:        fetchAlgebra,
		SplitFile:    algebraSplitFile,
	}
}

// algebraSplitFile points at the converter's combined split files, which
// keep the source subject name rather than the dataset name
func algebraSplitFile(st *store.Store, split models.SplitName) string {
	return filepath.Join(st.DatasetDir("hendrycks_math"), fmt.Sprintf("algebra_%s.json", split))
}

// fetchAlgebra reads the converter-produced split files and keeps only the
// input and label columns (labels are coerced to text; the gold process
// rationale lives in the chunk files instead)
func fetchAlgebra(_ context.Context, l *Loader) (models.RawSplits, error) {
	raw := make(models.RawSplits, 2)
	for _, split := range l.spec.splits() {
		path := algebraSplitFile(l.store, split)
		source, err := hub.ReadJSONRows(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s (run the converter first): %v", ErrNoSource, l.spec.Name, err)
		}

		rows := make([]models.Row, len(source))
		for i, row := range source {
			input, err := stringField(row, "input")
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", split, i, err)
			}
			label, err := stringField(row, "label")
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", split, i, err)
			}
			rows[i] = models.Row{"input": input, "label": label}
		}

		l.collector.RecordFetched(l.spec.Name, string(split), len(rows))
		raw[split] = rows
	}
	return raw, nil
}
