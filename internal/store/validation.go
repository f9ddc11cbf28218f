package store

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Dataset names are simple identifiers, e.g. "cqa", "anli1",
// "hendrycks_math", "OpenR1-Math-220k"
var datasetNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateDatasetName validates a dataset name used to build paths under the
// data root. It rejects:
//   - path traversal attempts (..)
//   - absolute paths
//   - path separators (dataset name must be a simple directory name)
//   - names outside the expected identifier format
//
// This prevents CWE-22 (Improper Limitation of a Pathname to a Restricted Directory)
func ValidateDatasetName(name string) error {
	if name == "" {
		return fmt.Errorf("dataset name cannot be empty")
	}

	if strings.Contains(name, "..") {
		return fmt.Errorf("invalid dataset name: contains '..' (path traversal attempt)")
	}

	if filepath.IsAbs(name) {
		return fmt.Errorf("invalid dataset name: must be relative path")
	}

	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("invalid dataset name: must be directory name without path separators")
	}

	if !datasetNameRegex.MatchString(name) {
		return fmt.Errorf("invalid dataset name format: %q", name)
	}

	return nil
}
