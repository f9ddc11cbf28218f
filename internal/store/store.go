// Package store manages the on-disk dataset layout:
//
//	<root>/<name>/<name>_{train,test,valid}.json   normalized split files (JSON lines)
//	<root>/<name>/llm/{split}_CoT_<i>.json         chunked teacher outputs
//	<root>/<name>/manifest.json                    fetch/convert run manifest
//	<root>/gpt-neox/<name>/<split>.json            gpt-neox predictions
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/distillprep/distillprep/pkg/models"
)

// Store resolves paths under the dataset root and persists split files
type Store struct {
	root   string
	logger *slog.Logger
}

// New creates a store rooted at root, creating the directory if needed
func New(root string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data root: %w", err)
	}
	return &Store{root: root, logger: logger}, nil
}

// Root returns the dataset root directory
func (s *Store) Root() string {
	return s.root
}

// DatasetDir returns the directory holding one dataset's files
func (s *Store) DatasetDir(name string) string {
	return filepath.Join(s.root, name)
}

// SplitPath returns the split file path, e.g. "<root>/cqa/cqa_train.json"
func (s *Store) SplitPath(name string, split models.SplitName) string {
	return filepath.Join(s.root, name, fmt.Sprintf("%s_%s.json", name, split))
}

// LLMDir returns the directory holding a dataset's chunked teacher outputs
func (s *Store) LLMDir(name string) string {
	return filepath.Join(s.root, name, "llm")
}

// GPTPredsPath returns the gpt-neox predictions file for a split
func (s *Store) GPTPredsPath(name string, split models.SplitName) string {
	return filepath.Join(s.root, "gpt-neox", name, fmt.Sprintf("%s.json", split))
}

// ManifestPath returns the manifest file path for a dataset
func (s *Store) ManifestPath(name string) string {
	return filepath.Join(s.root, name, "manifest.json")
}

// LogPath returns the run log file path under the data root
func (s *Store) LogPath() string {
	return filepath.Join(s.root, "distillprep.log")
}

// WriteSplit persists source-shaped rows as one JSON-lines file per split
func (s *Store) WriteSplit(name string, split models.SplitName, rows []models.Row) error {
	if err := os.MkdirAll(s.DatasetDir(name), 0755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	path := s.SplitPath(name, split)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create split file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for i, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to marshal row %d of %s/%s: %w", i, name, split, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write split file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush split file: %w", err)
	}

	s.logger.Info("Wrote split file", "dataset", name, "split", split, "records", len(rows), "path", path)
	return nil
}

// ReadSplit loads one split file back into source-shaped rows
func (s *Store) ReadSplit(name string, split models.SplitName) ([]models.Row, error) {
	path := s.SplitPath(name, split)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open split file: %w", err)
	}
	defer file.Close()

	var rows []models.Row
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var row models.Row
		if err := json.Unmarshal(scanner.Bytes(), &row); err != nil {
			return nil, fmt.Errorf("failed to decode line %d of %s: %w", line, path, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read split file %s: %w", path, err)
	}

	return rows, nil
}
