package parser

import (
	"errors"
	"strings"
	"unicode"
)

// Func extracts a (rationale, label) pair from one raw teacher-model output
// string. Marker-family parsers never fail; they return the placeholder pair
// when no expected answer pattern is found. The boxed family returns an error
// instead, because silently empty labels would be too lossy at that dataset's
// scale.
type Func func(output string) (rationale, label string, err error)

// ErrUnparsable signals a teacher output that matched none of the expected
// answer patterns for its dataset family
var ErrUnparsable = errors.New("unparsable teacher output")

// Placeholder is the bland pair returned for ungradeable outputs by most
// dataset variants
const Placeholder = " "

func trimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

func trimLeft(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

// dropLastRune removes the final rune, mirroring a Python [:-1] slice that is
// a no-op on empty strings
func dropLastRune(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return string(runes[:len(runes)-1])
}
