package dataset

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownDataset signals a dataset name with no registered spec
var ErrUnknownDataset = errors.New("unknown dataset")

// ErrNoSource signals a dataset that cannot be fetched (its source files are
// produced by another tool or distributed out of band)
var ErrNoSource = errors.New("dataset has no fetchable source")

var registry = map[string]*Spec{
	"cqa":              cqaSpec(),
	"svamp":            svampSpec(),
	"asdiv":            asdivSpec(),
	"esnli":            esnliSpec(),
	"anli1":            anli1Spec(),
	"hendrycks_math":   hendrycksMathSpec(),
	"OpenR1-Math-220k": openR1MathSpec(),
}

// Lookup returns the spec registered under name
func Lookup(name string) (*Spec, error) {
	spec, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownDataset, name, Names())
	}
	return spec, nil
}

// Names lists the registered dataset names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
