package dataset

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/distillprep/distillprep/internal/parser"
	"github.com/distillprep/distillprep/pkg/models"
)

const (
	// openR1TestFraction and openR1SplitSeed define the deterministic
	// train/test partition of the single source split
	openR1TestFraction = 0.05
	openR1SplitSeed    = 42
)

// openR1MathSpec is the OpenR1-Math-220k reasoning corpus. The source ships
// one train split; the test partition is carved out at fetch time with a
// fixed seed. Chunk counts depend on the corpus size, so chunk files are
// enumerated on disk rather than configured.
func openR1MathSpec() *Spec {
	files := make([]string, 10)
	for i := range files {
		files[i] = fmt.Sprintf("all/train-%05d-of-00010.parquet", i)
	}

	return &Spec{
		Name:           "OpenR1-Math-220k",
		SourceRepo:     "open-r1/OpenR1-Math-220k",
		SourceRevision: "main",
		SplitMap: map[models.SplitName]string{
			models.SplitTrain: "train",
			models.SplitTest:  "test",
		},
		SourceFiles: map[models.SplitName][]string{
			models.SplitTrain: files,
		},
		BatchSize:     500,
		DynamicChunks: true,
		Normalize:     normalizeInputLabel,
		ParseLLM:      parser.ParseBoxed,
		ParseGPT:      parser.ParseBoxed,
		Fetch:         fetchOpenR1,
	}
}

// fetchOpenR1 downloads every source shard, formats each problem with its
// solution and final answer as the label, and carves out a deterministic
// test fraction
func fetchOpenR1(ctx context.Context, l *Loader) (models.RawSplits, error) {
	var source []models.Row
	for _, f := range l.spec.SourceFiles[models.SplitTrain] {
		rows, err := l.hub.FetchRows(ctx, l.spec.SourceRepo, l.spec.SourceRevision, f)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s shard %s: %w", l.spec.Name, f, err)
		}
		source = append(source, rows...)
	}

	formatted := make([]models.Row, len(source))
	for i, row := range source {
		problem, err := stringField(row, "problem")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		solution, err := stringField(row, "solution")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		answer, err := stringField(row, "answer")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		formatted[i] = models.Row{
			"input": problem,
			"label": fmt.Sprintf("%s\nAnswer: %s", solution, answer),
		}
	}

	perm := rand.New(rand.NewSource(openR1SplitSeed)).Perm(len(formatted))
	numTest := int(float64(len(formatted)) * openR1TestFraction)
	test := make([]models.Row, 0, numTest)
	train := make([]models.Row, 0, len(formatted)-numTest)
	for i, p := range perm {
		if i < numTest {
			test = append(test, formatted[p])
		} else {
			train = append(train, formatted[p])
		}
	}

	l.logger.Info("Partitioned source corpus",
		"records", len(formatted),
		"train", len(train),
		"test", len(test),
		"test_fraction", openR1TestFraction)
	l.collector.RecordFetched(l.spec.Name, string(models.SplitTrain), len(train))
	l.collector.RecordFetched(l.spec.Name, string(models.SplitTest), len(test))

	return models.RawSplits{
		models.SplitTrain: train,
		models.SplitTest:  test,
	}, nil
}
