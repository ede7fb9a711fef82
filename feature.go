package binarysniffer

// Feature is a single deduplicated string extracted from an input, the
// matcher's unit of work (GLOSSARY). SourcePath is set when the feature was
// extracted from a member of an archive, used as match evidence
// (spec.md §4.2 "member:<object-name>", §8 scenario 2).
type Feature struct {
	Text       string
	SourcePath string
}

// FeatureSet is a deduplicated, insertion-ordered sequence of [Feature]s
// owned by one analysis call (spec.md §3). Ordering is significant: it is
// the backbone of the engine's determinism guarantee (spec.md §5).
type FeatureSet struct {
	Features []Feature
	// Truncated is set when the Normalizer's cap discarded trailing
	// features (spec.md §4.3 rule 5, §7 ResourceExceeded).
	Truncated bool
}

// Len reports the number of features currently held.
func (fs *FeatureSet) Len() int { return len(fs.Features) }

// PayloadSize returns the total byte length of the canonicalized feature
// text, the quantity the Fuzzy Matcher's 256-byte minimum is measured
// against (spec.md §4.6, §8 property 7).
func (fs *FeatureSet) PayloadSize() int {
	n := 0
	for _, f := range fs.Features {
		n += len(f.Text)
	}
	return n
}
