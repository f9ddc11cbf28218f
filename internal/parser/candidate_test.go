package parser

import "testing"

func TestExtractCandidate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text passes through",
			input:    "just a completion with no JSON framing",
			expected: "just a completion with no JSON framing",
		},
		{
			name:     "json string decodes",
			input:    `"a quoted completion"`,
			expected: "a quoted completion",
		},
		{
			name:     "list takes first element",
			input:    `["first candidate", "second candidate"]`,
			expected: "first candidate",
		},
		{
			name:     "nested list takes first of first",
			input:    `[["inner first", "inner second"], ["other"]]`,
			expected: "inner first",
		},
		{
			name:     "empty list yields empty string",
			input:    `[]`,
			expected: "",
		},
		{
			name:     "empty inner list yields empty string",
			input:    `[[]]`,
			expected: "",
		},
		{
			name:     "dict prefers content field",
			input:    `{"content": "from content", "text": "from text"}`,
			expected: "from content",
		},
		{
			name:     "dict falls back to text field",
			input:    `{"text": "from text", "role": "assistant"}`,
			expected: "from text",
		},
		{
			name:     "dict without known fields is re-serialized",
			input:    `{"role": "assistant"}`,
			expected: `{"role":"assistant"}`,
		},
		{
			name:     "list of dicts is re-serialized",
			input:    `[{"role": "assistant"}]`,
			expected: `{"role":"assistant"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractCandidate(tt.input)
			if result != tt.expected {
				t.Errorf("ExtractCandidate() = %q, want %q", result, tt.expected)
			}
		})
	}
}
