package dataset

import (
	"github.com/distillprep/distillprep/internal/parser"
	"github.com/distillprep/distillprep/pkg/models"
)

// anli1Spec is round 1 of Adversarial NLI. The source names its splits
// train_r1/dev_r1/test_r1; normalization is shared with e-SNLI (the uid and
// reason columns are dropped along the way).
func anli1Spec() *Spec {
	return &Spec{
		Name:           "anli1",
		SourceRepo:     "anli",
		SourceRevision: "refs/convert/parquet",
		HasValid:       true,
		SplitMap: map[models.SplitName]string{
			models.SplitTrain: "train_r1",
			models.SplitValid: "dev_r1",
			models.SplitTest:  "test_r1",
		},
		SourceFiles: map[models.SplitName][]string{
			models.SplitTrain: {"plain_text/train_r1/0000.parquet"},
			models.SplitValid: {"plain_text/dev_r1/0000.parquet"},
			models.SplitTest:  {"plain_text/test_r1/0000.parquet"},
		},
		BatchSize:    5000,
		TrainBatches: batchRange(4),
		TestBatches:  batchRange(1),
		ValidBatches: batchRange(1),
		Normalize:    normalizeNLI,
		ParseLLM:     parser.ParseNLILLM,
		ParseGPT:     parser.ParseNLIGPT,
	}
}
