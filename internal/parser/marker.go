package parser

import (
	"regexp"
	"strings"
)

// Turn-boundary and connective markers produced by the few-shot prompting
// templates. "Q:" / "Premise:" open the next few-shot example; the connective
// phrases separate a rationale from its final answer.
const (
	markerQuestion   = "Q:"
	markerPremise    = "Premise:"
	markerSoAnswer   = "So the answer is"
	markerTheAnswer  = "The answer is"
	markerAnswer     = "Answer:"
	markerAnswerText = "Answer: "
)

// Precompiled patterns for label cleanup
var (
	// Multiple-choice letter, e.g. "(c)" in "So the answer is (c) cats."
	choiceLetterRegex = regexp.MustCompile(`\(.\)`)
	// Parenthesized equation, e.g. "( 53.0 - 5.0 )"
	equationRegex = regexp.MustCompile(`\(.*\)`)
)

// ParseChoiceLLM parses a multiple-choice CoT output: truncate at the next
// few-shot question, split rationale from answer at "So the answer is", and
// keep the answer text after its "(x)" letter, dropping a trailing period.
func ParseChoiceLLM(output string) (string, string, error) {
	return parseChoice(output, false)
}

// ParseChoiceGPT is ParseChoiceLLM with leading whitespace also trimmed from
// the rationale, matching the gpt-neox prompting template
func ParseChoiceGPT(output string) (string, string, error) {
	return parseChoice(output, true)
}

func parseChoice(output string, trimLeading bool) (string, string, error) {
	head, _, _ := strings.Cut(output, markerQuestion)
	head = trimRight(head)
	if trimLeading {
		head = trimLeft(head)
	}

	rationale, rest, ok := strings.Cut(head, markerSoAnswer)
	if !ok {
		return Placeholder, Placeholder, nil
	}
	rationale = trimRight(rationale)

	return rationale, cleanChoiceLabel(rest), nil
}

// cleanChoiceLabel extracts the answer text following the "(x)" letter group
// and drops a trailing period. Returns the placeholder when the letter group
// is missing or nothing follows it.
func cleanChoiceLabel(raw string) string {
	parts := choiceLetterRegex.Split(raw, 2)
	if len(parts) < 2 {
		return Placeholder
	}
	label := strings.TrimSpace(parts[1])
	if label == "" {
		return Placeholder
	}
	if strings.HasSuffix(label, ".") {
		label = label[:len(label)-1]
	}
	return label
}

// ParseNumericLLM parses an arithmetic/algebra CoT output where the answer is
// free text after "The answer is". A trailing period is dropped.
func ParseNumericLLM(output string) (string, string, error) {
	rationale, label, ok := splitAtConnective(output, false)
	if !ok {
		return Placeholder, Placeholder, nil
	}
	if strings.HasSuffix(label, ".") {
		label = label[:len(label)-1]
	}
	return rationale, label, nil
}

// ParseNumericGPT is the gpt-neox variant of ParseNumericLLM: leading
// whitespace is trimmed and the trailing period is kept
func ParseNumericGPT(output string) (string, string, error) {
	rationale, label, ok := splitAtConnective(output, true)
	if !ok {
		return Placeholder, Placeholder, nil
	}
	return rationale, label, nil
}

// ParseEquationLLM parses a word-problem CoT output whose label is a
// parenthesized equation, e.g. "The answer is ( 53.0 - 5.0 )."
func ParseEquationLLM(output string) (string, string, error) {
	return parseEquation(output, false)
}

// ParseEquationGPT is the gpt-neox variant of ParseEquationLLM
func ParseEquationGPT(output string) (string, string, error) {
	return parseEquation(output, true)
}

func parseEquation(output string, trimLeading bool) (string, string, error) {
	rationale, rest, ok := splitAtConnective(output, trimLeading)
	if !ok {
		return Placeholder, Placeholder, nil
	}
	label := equationRegex.FindString(rest)
	if label == "" {
		label = Placeholder
	}
	return rationale, label, nil
}

// splitAtConnective truncates at the next few-shot question and splits the
// remainder at "The answer is". The label side is returned stripped.
func splitAtConnective(output string, trimLeading bool) (rationale, label string, ok bool) {
	head, _, _ := strings.Cut(output, markerQuestion)
	head = trimRight(head)
	if trimLeading {
		head = trimLeft(head)
	}

	rationale, label, ok = strings.Cut(head, markerTheAnswer)
	if !ok {
		return "", "", false
	}
	return trimRight(rationale), strings.TrimSpace(label), true
}

// ParseEntailLLM parses an entailment-style output of the form
// "<rationale>\nAnswer: <class>\nPremise: ...". The rationale is everything
// before "Answer:"; a missing class yields a placeholder label while the
// rationale is still returned.
func ParseEntailLLM(output string) (string, string, error) {
	return parseEntail(output, false)
}

// ParseEntailGPT is ParseEntailLLM with leading whitespace trimmed from the
// rationale
func ParseEntailGPT(output string) (string, string, error) {
	return parseEntail(output, true)
}

func parseEntail(output string, trimLeading bool) (string, string, error) {
	rationale, _, _ := strings.Cut(output, markerAnswer)
	rationale = trimRight(rationale)
	if trimLeading {
		rationale = trimLeft(rationale)
	}

	_, rest, ok := strings.Cut(output, markerAnswerText)
	if !ok {
		return rationale, Placeholder, nil
	}
	// The class ends at the next few-shot premise or the next answer marker,
	// whichever comes first
	if idx := strings.Index(rest, markerAnswerText); idx >= 0 {
		rest = rest[:idx]
	}
	label, _, _ := strings.Cut(rest, "Premise")
	return rationale, trimRight(label), nil
}

// ParseNLILLM parses an ANLI-style output: truncate at the next few-shot
// premise, split at "So the answer is", and drop the closing period from the
// label. Failures yield empty strings rather than the usual single-space
// placeholder, matching the observed behavior of this family.
func ParseNLILLM(output string) (string, string, error) {
	head, _, _ := strings.Cut(output, markerPremise)
	head = trimRight(head)

	rationale, label, ok := strings.Cut(head, markerSoAnswer)
	if !ok {
		return "", "", nil
	}
	return trimRight(rationale), dropLastRune(trimLeft(label)), nil
}

// ParseNLIGPT is ParseNLILLM with a fallback to the "The answer is"
// connective, which some gpt-neox completions use instead
func ParseNLIGPT(output string) (string, string, error) {
	head, _, _ := strings.Cut(output, markerPremise)
	head = trimLeft(trimRight(head))

	rationale, label, ok := strings.Cut(head, markerSoAnswer)
	if !ok {
		rationale, label, ok = strings.Cut(head, markerTheAnswer)
	}
	if !ok {
		return "", "", nil
	}
	return trimRight(rationale), dropLastRune(trimLeft(label)), nil
}
