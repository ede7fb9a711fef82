package binarysniffer

// PatternContext is an optional hint on what kind of lexical feature a
// [Pattern] was extracted from (spec.md §3).
type PatternContext string

const (
	ContextPrefix        PatternContext = "prefix"
	ContextFunction      PatternContext = "function"
	ContextVersionString PatternContext = "version_string"
	ContextConstant      PatternContext = "constant"
	ContextResource      PatternContext = "resource"
	ContextManifestClass PatternContext = "manifest_class"
)

// Pattern is a literal byte/UTF-8 string attached to exactly one component
// (spec.md §3, invariant 1).
type Pattern struct {
	ID          string
	ComponentID string
	Text        string
	Confidence  float64
	Context     PatternContext
}

// minPatternLength and prefixAllowanceLength implement the Pattern
// Validator's length invariant (spec.md §3, §4.4, §8 property 5): a pattern
// must be at least 6 characters, unless it ends in "_" and is at least 4
// characters (the "library-prefix allowance").
const (
	minPatternLength      = 6
	prefixAllowanceLength = 4
)

// meetsLengthInvariant reports whether text satisfies the minimum-length
// invariant for patterns, independent of the stop-word/primitive-type
// rejection rules applied at ingest (see internal/store's validator).
func meetsLengthInvariant(text string) bool {
	n := len(text)
	if n >= minPatternLength {
		return true
	}
	if n >= prefixAllowanceLength && len(text) > 0 && text[len(text)-1] == '_' {
		return true
	}
	return false
}
