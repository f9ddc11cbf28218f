package parser

import (
	"encoding/json"
	"fmt"
)

// ExtractCandidate selects the canonical completion from a teacher output
// that may be a JSON-encoded list, nested list, or dict of candidates.
//
// Decode cases, in order:
//  1. list: take the first top-level element; if that element is itself a
//     list, take its first element
//  2. dict: take a "content" or "text" field, else re-serialize the dict
//  3. plain string (or undecodable input): returned unchanged
func ExtractCandidate(output string) string {
	var data any
	if err := json.Unmarshal([]byte(output), &data); err != nil {
		return output
	}

	switch v := data.(type) {
	case []any:
		if len(v) == 0 {
			return ""
		}
		switch first := v[0].(type) {
		case []any:
			if len(first) == 0 {
				return ""
			}
			return coerceString(first[0])
		case string:
			return first
		default:
			return coerceString(v[0])
		}
	case string:
		return v
	case map[string]any:
		return candidateFromDict(v)
	default:
		return fmt.Sprint(v)
	}
}

func candidateFromDict(dict map[string]any) string {
	if s, ok := dict["content"].(string); ok && s != "" {
		return s
	}
	if s, ok := dict["text"].(string); ok && s != "" {
		return s
	}
	return coerceString(dict)
}

// coerceString renders a decoded JSON value as text; non-strings are
// re-serialized so downstream pattern matching still sees something
func coerceString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
