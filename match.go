package binarysniffer

// MatchMethod records which layer of the matcher contributed a
// [ComponentMatch] (spec.md §4.7).
type MatchMethod string

const (
	MethodDirect      MatchMethod = "direct"
	MethodFuzzy       MatchMethod = "fuzzy"
	MethodDirectFuzzy MatchMethod = "direct+fuzzy"
)

// Evidence carries the supporting detail behind a [ComponentMatch]
// (spec.md §3 "Analysis Result").
type Evidence struct {
	PatternCount   int
	Patterns       []string
	SourcePaths    []string
	FuzzyDistance  int
	HasFuzzyDist   bool
}

// ComponentMatch is one unified, scored hit against a [Component]
// (spec.md §3, §4.7). A component appears at most once per result
// (spec.md §3 invariant 4).
type ComponentMatch struct {
	Component   Component
	Confidence  float64
	MatchMethod MatchMethod
	Evidence    Evidence
}

// DisplayName delegates to the underlying Component (spec.md §4.7).
func (m ComponentMatch) DisplayName() string { return m.Component.DisplayName() }
