package store

import (
	"strings"
	"unicode"

	"github.com/SemClone/binarysniffer/internal/normalize"
)

// minConfidence and maxConfidence clip an ingested pattern's confidence
// into [0.5, 1.0] (spec.md §4.4 "Accepted patterns retain the original
// confidence ... clipped to [0.5, 1.0]").
const (
	minConfidence = 0.5
	maxConfidence = 1.0
)

// primitiveTypes is checked by the Pattern Validator's third rejection
// rule (spec.md §4.4): primitive type names are too generic to be useful
// patterns.
var primitiveTypes = map[string]struct{}{
	"int8": {}, "int16": {}, "int32": {}, "int64": {},
	"uint8": {}, "uint16": {}, "uint32": {}, "uint64": {},
	"float32": {}, "float64": {}, "bool": {}, "byte": {}, "rune": {},
	"char": {}, "short": {}, "long": {}, "double": {}, "float": {},
	"string": {}, "void": {}, "int": {}, "uint": {},
}

// validatePattern applies the four rejection rules of spec.md §4.4, in
// order, and reports why a pattern was rejected (empty reason means
// accepted). seenInFile is the set of patterns already accepted from the
// same signature file, used for rule 4 (exact intra-file duplicates).
func validatePattern(text string, seenInFile map[string]struct{}) (reject string) {
	switch {
	case !meetsLengthInvariant(text):
		return "shorter than 6 characters (no library-prefix allowance)"
	case isGenericStopWord(text):
		return "matches the generic programming-token stop-set"
	case isPrimitiveOrGenericWord(text):
		return "primitive type name or all-lowercase word with no structure"
	}
	if _, dup := seenInFile[text]; dup {
		return "exact duplicate of another pattern already accepted from this signature file"
	}
	return ""
}

// meetsLengthInvariant mirrors the root package's invariant (spec.md §3,
// §4.4): a pattern must be at least 6 characters, or end in "_" and be at
// least 4 characters.
func meetsLengthInvariant(text string) bool {
	n := len(text)
	if n >= 6 {
		return true
	}
	return n >= 4 && strings.HasSuffix(text, "_")
}

func isGenericStopWord(text string) bool {
	for _, r := range text {
		if r == '_' || r > unicode.MaxASCII {
			return false
		}
	}
	_, ok := normalize.StopList[strings.ToLower(text)]
	return ok
}

// isPrimitiveOrGenericWord rejects primitive type names, and any
// all-letters lowercase word that carries none of the structural markers
// (underscore, slash, colon, mixed case) that make a token distinctive
// enough to be a useful pattern (spec.md §4.4).
func isPrimitiveOrGenericWord(text string) bool {
	lower := strings.ToLower(text)
	if _, ok := primitiveTypes[lower]; ok {
		return true
	}
	if strings.ContainsAny(text, "_/:") {
		return false
	}
	if text != lower {
		return false // mixed case is distinctive enough
	}
	for _, r := range text {
		if !unicode.IsLower(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// clipConfidence implements the [0.5, 1.0] clip (spec.md §4.4).
func clipConfidence(c float64) float64 {
	switch {
	case c < minConfidence:
		return minConfidence
	case c > maxConfidence:
		return maxConfidence
	default:
		return c
	}
}
