package dataset

import (
	"fmt"
	"strconv"
)

// stringField reads one column as text. Numeric values are rendered without
// a trailing ".0" so integer labels survive a float-typed JSON decode.
func stringField(row map[string]any, key string) (string, error) {
	v, ok := row[key]
	if !ok {
		return "", fmt.Errorf("missing column %q", key)
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("column %q has unsupported type %T", key, v)
	}
}

// listField reads one column as a list of strings (hub parquet decodes list
// columns to []any)
func listField(row map[string]any, key string) ([]string, error) {
	v, ok := row[key]
	if !ok {
		return nil, fmt.Errorf("missing column %q", key)
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("column %q has unsupported type %T", key, v)
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("column %q element %d has unsupported type %T", key, i, item)
		}
		out[i] = s
	}
	return out, nil
}

// classLabel recodes a 0/1/2 NLI label to its class name. Labels already in
// text form pass through unchanged.
func classLabel(v any) (string, error) {
	var idx int64
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		idx = int64(t)
	case int64:
		idx = t
	default:
		return "", fmt.Errorf("label has unsupported type %T", v)
	}

	switch idx {
	case 0:
		return "entailment", nil
	case 1:
		return "neutral", nil
	case 2:
		return "contradiction", nil
	default:
		return "", fmt.Errorf("label index %d out of range", idx)
	}
}
