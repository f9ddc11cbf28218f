package models

import "time"

// SplitName identifies a canonical dataset partition
type SplitName string

const (
	// SplitTrain is the training partition
	SplitTrain SplitName = "train"
	// SplitTest is the held-out evaluation partition
	SplitTest SplitName = "test"
	// SplitValid is the optional validation partition
	SplitValid SplitName = "valid"
)

// Record is a normalized dataset example. Process is the gold rationale and
// is only present for the algebra family.
type Record struct {
	Input   string `json:"input"`
	Label   string `json:"label"`
	Process string `json:"process,omitempty"`
}

// Row is a source-shaped example as fetched, before normalization removes
// dataset-specific columns
type Row map[string]any

// RawSplits holds source-shaped examples keyed by canonical split name
type RawSplits map[SplitName][]Row

// Splits holds normalized examples keyed by canonical split name
type Splits map[SplitName][]Record

// ParsedOutput is a (rationale, label) pair extracted from one teacher-model
// output string
type ParsedOutput struct {
	Rationale string `json:"rationale"`
	Label     string `json:"label"`
}

// IsPlaceholder reports whether the pair is the "ungradeable output" marker
// returned when no expected answer pattern was found
func (p ParsedOutput) IsPlaceholder() bool {
	return (p.Rationale == " " && p.Label == " ") ||
		(p.Rationale == "" && p.Label == "")
}

// PredStats summarizes one prediction-loading pass over chunked teacher outputs
type PredStats struct {
	Dataset      string
	Split        SplitName
	Kind         string
	ChunksRead   int
	Outputs      int
	Placeholders int
}

// ConvertStats summarizes one bulk-conversion run over algebra shards
type ConvertStats struct {
	StartTime    time.Time
	EndTime      time.Time
	TrainRecords int
	TestRecords  int
	TrainCoT     int
	TestCoT      int
	TrainChunks  int
	TestChunks   int
	Duration     time.Duration
}
