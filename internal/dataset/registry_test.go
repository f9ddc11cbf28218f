package dataset

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{
		"cqa", "svamp", "asdiv", "esnli", "anli1", "hendrycks_math", "OpenR1-Math-220k",
	} {
		t.Run(name, func(t *testing.T) {
			spec, err := Lookup(name)
			if err != nil {
				t.Fatalf("Lookup(%q) error = %v", name, err)
			}
			if spec.Name != name {
				t.Errorf("spec.Name = %q, want %q", spec.Name, name)
			}
			if spec.BatchSize < 1 {
				t.Errorf("spec.BatchSize = %d", spec.BatchSize)
			}
			if spec.Normalize == nil || spec.ParseLLM == nil {
				t.Error("spec is missing its normalize or parse function")
			}
			if !spec.DynamicChunks && len(spec.TrainBatches) == 0 {
				t.Error("spec has neither static train batches nor dynamic chunks")
			}
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("gsm8k"); !errors.Is(err, ErrUnknownDataset) {
		t.Errorf("Lookup(gsm8k) error = %v, want ErrUnknownDataset", err)
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) != 7 {
		t.Fatalf("Names() has %d entries, want 7", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Names() not sorted: %q before %q", names[i-1], names[i])
		}
	}
}

func TestValidBatchesOnlyWithValidSplit(t *testing.T) {
	for _, name := range Names() {
		spec, err := Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		if spec.HasValid && len(spec.ValidBatches) == 0 {
			t.Errorf("%s: has a valid split but no valid batches", name)
		}
		if !spec.HasValid && len(spec.ValidBatches) != 0 {
			t.Errorf("%s: valid batches configured without a valid split", name)
		}
	}
}
