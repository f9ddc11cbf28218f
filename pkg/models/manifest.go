package models

import "time"

// Manifest records what a fetch or convert run produced for one dataset.
// It is written next to the split files and read back by `distillprep inspect`.
type Manifest struct {
	RunID       string             `json:"run_id"`
	Dataset     string             `json:"dataset"`
	CreatedAt   time.Time          `json:"created_at"`
	LastSavedAt time.Time          `json:"last_saved_at"`
	SpecHash    string             `json:"spec_hash"`
	SplitCounts map[SplitName]int  `json:"split_counts"`
	Chunks      []ChunkInfo        `json:"chunks,omitempty"`
}

// ChunkInfo describes one persisted chunk file
type ChunkInfo struct {
	Split   SplitName `json:"split"`
	Index   int       `json:"index"`
	Records int       `json:"records"`
}

// TotalRecords sums the per-split record counts
func (m *Manifest) TotalRecords() int {
	total := 0
	for _, n := range m.SplitCounts {
		total += n
	}
	return total
}
