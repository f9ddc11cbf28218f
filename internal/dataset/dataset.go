// Package dataset implements the per-dataset loaders: fetch source splits,
// normalize them into {input, label} records, persist and reload them with
// train subsampling, and load chunked teacher predictions through the
// dataset's output parsers.
//
// Each supported dataset is described by an immutable Spec collected in a
// registry; there is no subclassing, just a strategy bundle per name.
package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/distillprep/distillprep/internal/chunk"
	"github.com/distillprep/distillprep/internal/metrics"
	"github.com/distillprep/distillprep/internal/parser"
	"github.com/distillprep/distillprep/internal/store"
	"github.com/distillprep/distillprep/pkg/models"
)

// HubFetcher downloads one dataset file and decodes it into source-shaped
// rows. Satisfied by *hub.Client.
type HubFetcher interface {
	FetchRows(ctx context.Context, repo, revision, remotePath string) ([]models.Row, error)
}

// FetchFunc obtains a dataset's source-shaped splits. Datasets without a
// plain per-split hub layout (local files, runtime train/test splitting)
// supply their own.
type FetchFunc func(ctx context.Context, l *Loader) (models.RawSplits, error)

// NormalizeFunc maps source-shaped rows to normalized records, pruning
// source-specific columns and recoding categorical labels
type NormalizeFunc func(rows []models.Row) ([]models.Record, error)

// Spec is the immutable configuration of one supported dataset
type Spec struct {
	// Name is the dataset directory name under the data root
	Name string
	// SourceRepo and SourceRevision identify the hub dataset; empty for
	// local-source datasets
	SourceRepo     string
	SourceRevision string
	// HasValid marks datasets with a validation split
	HasValid bool
	// SplitMap maps canonical split names to the source's split names
	SplitMap map[models.SplitName]string
	// SourceFiles lists the hub files backing each canonical split
	SourceFiles map[models.SplitName][]string

	// BatchSize is the chunk-file size; the batch index lists select which
	// chunk files belong to each split
	BatchSize    int
	TrainBatches []int
	TestBatches  []int
	ValidBatches []int
	// DynamicChunks enumerates chunk files on disk instead of using the
	// static batch lists, and disables train clipping. Used by datasets
	// whose size is only known after fetching.
	DynamicChunks bool

	Normalize NormalizeFunc
	// ParseLLM and ParseGPT extract (rationale, label) from one teacher
	// output. ParseGPT may be nil when the dataset has no gpt-neox runs.
	ParseLLM parser.Func
	ParseGPT parser.Func
	// Fetch overrides the default hub download. Nil means: download every
	// SourceFiles entry per split.
	Fetch FetchFunc
	// SplitFile overrides the reload path for a split. Nil means the
	// standard "<root>/<name>/<name>_<split>.json" layout.
	SplitFile func(st *store.Store, split models.SplitName) string
}

func (s *Spec) batchesFor(split models.SplitName) []int {
	switch split {
	case models.SplitTrain:
		return s.TrainBatches
	case models.SplitTest:
		return s.TestBatches
	case models.SplitValid:
		return s.ValidBatches
	default:
		return nil
	}
}

// splits returns the canonical splits this dataset carries, in a fixed order
func (s *Spec) splits() []models.SplitName {
	splits := []models.SplitName{models.SplitTrain, models.SplitTest}
	if s.HasValid {
		splits = append(splits, models.SplitValid)
	}
	return splits
}

// Loader binds one dataset spec to the data store and hub client
type Loader struct {
	spec      *Spec
	store     *store.Store
	hub       HubFetcher
	collector *metrics.Collector
	logger    *slog.Logger
}

// New creates a loader for one dataset
func New(spec *Spec, st *store.Store, hub HubFetcher, collector *metrics.Collector, logger *slog.Logger) *Loader {
	return &Loader{
		spec:      spec,
		store:     st,
		hub:       hub,
		collector: collector,
		logger:    logger.With("dataset", spec.Name),
	}
}

// Spec returns the loader's dataset configuration
func (l *Loader) Spec() *Spec {
	return l.spec
}

// batchRange is the index list [0, n)
func batchRange(n int) []int {
	idxs := make([]int, n)
	for i := range idxs {
		idxs[i] = i
	}
	return idxs
}

// dynamicChunkIdxs enumerates consecutive chunk files on disk starting at
// index 0. At least one must exist.
func dynamicChunkIdxs(dir string, split models.SplitName) ([]int, error) {
	var idxs []int
	for i := 0; ; i++ {
		if _, err := os.Stat(chunk.Path(dir, split, i)); err != nil {
			if os.IsNotExist(err) {
				break
			}
			return nil, fmt.Errorf("failed to stat chunk file: %w", err)
		}
		idxs = append(idxs, i)
	}
	if len(idxs) == 0 {
		return nil, fmt.Errorf("no chunk files for split %s in %s", split, dir)
	}
	return idxs, nil
}
