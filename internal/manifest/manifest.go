// Package manifest records what a fetch or convert run produced for one
// dataset: run id, per-split record counts, chunk inventory, and a hash of
// the dataset configuration so a stale manifest is detectable after the
// configuration changes.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/distillprep/distillprep/internal/dataset"
	"github.com/distillprep/distillprep/pkg/models"
)

// New creates a manifest for one run over a dataset
func New(spec *dataset.Spec) *models.Manifest {
	now := time.Now()
	return &models.Manifest{
		RunID:       uuid.New().String(),
		Dataset:     spec.Name,
		CreatedAt:   now,
		LastSavedAt: now,
		SpecHash:    computeSpecHash(spec),
		SplitCounts: make(map[models.SplitName]int),
	}
}

// Write persists the manifest atomically (temp file, then rename)
func Write(path string, m *models.Manifest, logger *slog.Logger) error {
	m.LastSavedAt = time.Now()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp manifest: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename manifest: %w", err)
	}

	logger.Debug("Manifest saved", "path", path, "dataset", m.Dataset, "records", m.TotalRecords())
	return nil
}

// Load reads a manifest from disk
func Load(path string) (*models.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m models.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Matches reports whether the manifest was produced under the same dataset
// configuration
func Matches(m *models.Manifest, spec *dataset.Spec) bool {
	return m.SpecHash == computeSpecHash(spec)
}

func computeSpecHash(spec *dataset.Spec) string {
	// Hash the fields that change what a run produces
	data := fmt.Sprintf("%s:%d:%d:%d:%d:%t",
		spec.Name,
		spec.BatchSize,
		len(spec.TrainBatches),
		len(spec.TestBatches),
		len(spec.ValidBatches),
		spec.DynamicChunks)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash[:8]) // First 8 bytes
}
