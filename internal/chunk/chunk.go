// Package chunk reads and writes fixed-size, index-numbered batches of
// teacher outputs or rationales. Chunking bounds per-file memory and lets
// downstream loads reprocess a split partially.
package chunk

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/distillprep/distillprep/pkg/models"
)

// Path returns the chunk file path for a split and chunk index,
// e.g. "<dir>/train_CoT_0.json"
func Path(dir string, split models.SplitName, index int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_CoT_%d.json", split, index))
}

// Count returns the number of chunk files needed for n items at the given
// chunk size
func Count(n, size int) int {
	if n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Write persists items as consecutive chunk files of at most size entries
// each, starting at index 0. Returns the inventory of written chunks.
func Write(dir string, split models.SplitName, items []string, size int) ([]models.ChunkInfo, error) {
	if size < 1 {
		return nil, fmt.Errorf("chunk size must be at least 1 (got %d)", size)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create chunk directory: %w", err)
	}

	var chunks []models.ChunkInfo
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		index := start / size

		data, err := json.MarshalIndent(items[start:end], "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal chunk %d: %w", index, err)
		}
		path := Path(dir, split, index)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write chunk file %s: %w", path, err)
		}

		chunks = append(chunks, models.ChunkInfo{
			Split:   split,
			Index:   index,
			Records: end - start,
		})
	}

	return chunks, nil
}

// Read loads one chunk file as a list of output strings. Entries that are
// not JSON strings (older chunk files carry nested candidate lists) are
// re-serialized so the parser's candidate extraction can decode them.
func Read(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chunk file: %w", err)
	}

	var entries []any
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode chunk file %s: %w", path, err)
	}

	outputs := make([]string, 0, len(entries))
	for i, entry := range entries {
		switch v := entry.(type) {
		case string:
			outputs = append(outputs, v)
		default:
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to re-encode entry %d of %s: %w", i, path, err)
			}
			outputs = append(outputs, string(raw))
		}
	}

	return outputs, nil
}
