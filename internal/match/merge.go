package match

import "sort"

// Merged is one component's unified match, before the engine façade
// resolves it against a component row and builds the public
// binarysniffer.ComponentMatch (spec.md §4.7). match can't import the
// root package directly without an import cycle (the root package
// imports match), so Merged is the hand-off shape instead.
type Merged struct {
	ComponentID   string
	Confidence    float64
	Method        string // "direct", "fuzzy", or "direct+fuzzy"
	PatternCount  int
	Patterns      []string
	FuzzyDistance int
	HasFuzzyDist  bool
}

// Merge unifies Direct and Fuzzy Matcher output into one list, ordered
// per spec.md §4.7's final ordering (confidence descending, then
// component name ascending — name ordering is deferred to the caller,
// which has the component rows; Merge sorts by id as a stable
// placeholder the caller is expected to re-sort by display name).
func Merge(direct []DirectHit, fuzzy []FuzzyHit) []Merged {
	byID := make(map[string]*Merged)
	order := []string{}

	get := func(id string) *Merged {
		m, ok := byID[id]
		if !ok {
			m = &Merged{ComponentID: id}
			byID[id] = m
			order = append(order, id)
		}
		return m
	}

	for _, d := range direct {
		m := get(d.ComponentID)
		m.Confidence = d.Confidence
		m.Method = "direct"
		m.PatternCount = d.HitCount
		m.Patterns = d.Patterns
	}
	for _, f := range fuzzy {
		m := get(f.ComponentID)
		if m.Method == "direct" {
			m.Method = "direct+fuzzy"
		} else {
			m.Method = "fuzzy"
		}
		if f.Confidence > m.Confidence {
			m.Confidence = f.Confidence
		}
		m.FuzzyDistance = f.Distance
		m.HasFuzzyDist = true
	}

	out := make([]Merged, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].ComponentID < out[j].ComponentID
	})
	return out
}
