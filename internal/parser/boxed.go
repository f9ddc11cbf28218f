package parser

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Patterns for math-proof style outputs, tried in order
var (
	finalBoxedRegex = regexp.MustCompile(`(?is)Final Answer.*?\\boxed\{([^}]*)\}`)
	boxedRegex      = regexp.MustCompile(`\\boxed\{([^}]*)\}`)
	answerLineRegex = regexp.MustCompile(`Answer:\s*([^\n]+)`)
)

const outputPreviewLen = 200

// ParseBoxed parses a math CoT output. The candidate completion is selected
// first (the output may be a JSON-encoded list of candidates), then the label
// is taken from, in order: the "Final Answer" boxed expression, the last
// boxed expression anywhere in the text, or the text after the last bare
// "Answer:" marker.
//
// Unlike the marker family this fails hard when nothing matches: at this
// dataset's scale a silent placeholder would corrupt downstream accuracy.
func ParseBoxed(output string) (string, string, error) {
	raw := ExtractCandidate(output)

	if loc := finalBoxedRegex.FindStringSubmatchIndex(raw); loc != nil {
		label := strings.TrimSpace(raw[loc[2]:loc[3]])
		rationale := trimRight(raw[:loc[0]])
		return rationale, label, nil
	}

	if locs := boxedRegex.FindAllStringSubmatchIndex(raw, -1); len(locs) > 0 {
		last := locs[len(locs)-1]
		label := strings.TrimSpace(raw[last[2]:last[3]])
		rationale := trimRight(raw[:last[0]])
		return rationale, label, nil
	}

	if locs := answerLineRegex.FindAllStringSubmatchIndex(raw, -1); len(locs) > 0 {
		last := locs[len(locs)-1]
		label := strings.TrimSpace(raw[last[2]:last[3]])
		rationale := trimRight(raw[:last[0]])
		slog.Warn("Parsed label from bare Answer: marker, output may not follow the boxed format",
			"label", label)
		return rationale, label, nil
	}

	return "", "", fmt.Errorf("%w: no Final Answer, \\boxed{} or Answer: marker in %q",
		ErrUnparsable, preview(output))
}

func preview(s string) string {
	if len(s) <= outputPreviewLen {
		return s
	}
	return s[:outputPreviewLen] + "..."
}
