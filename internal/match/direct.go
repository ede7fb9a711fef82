// Package match implements the Direct and Fuzzy Matchers and the Result
// Merger (spec.md §4.5-§4.7).
package match

import (
	"context"
	"fmt"
	"sort"

	"github.com/SemClone/binarysniffer/internal/normalize"
	"github.com/SemClone/binarysniffer/internal/store"
)

// minContainsLength is spec.md §4.5 step 2's "feature length is >= 8"
// gate for the more expensive contains lookup.
const minContainsLength = 8

// subWeightFactor is spec.md §4.5 step 2's w_sub = 0.7 x pattern.confidence.
const subWeightFactor = 0.7

// DirectOptions configures the Direct Matcher (subset of the façade's
// Options relevant to this stage).
type DirectOptions struct {
	Threshold  float64
	MinMatches int
	// NativeOnly is set when the file's top-level container is a native
	// executable/library, or a ZIP whose only member is one (spec.md §4.5
	// step 4 context filter).
	NativeOnly bool
}

// DirectHit is one component's raw Direct Matcher output, prior to the
// Result Merger.
type DirectHit struct {
	ComponentID string
	HitCount    int
	Confidence  float64
	Patterns    []string
}

// mobileEcosystems is the set the context filter drops when NativeOnly is
// set (spec.md §4.5 step 4).
var mobileEcosystems = map[string]struct{}{
	"android": {},
	"ios":     {},
}

// Direct runs the Direct Matcher (spec.md §4.5) over a normalized feature
// set, against a signature store. Features are consumed in the order
// given, which must already be the Normalizer's first-seen-stable order
// (spec.md §5 per-file ordering guarantee) — Direct never re-sorts them.
func Direct(ctx context.Context, s store.Store, features []normalize.Normalized, opts DirectOptions) ([]DirectHit, error) {
	type agg struct {
		score    float64
		patterns map[string]struct{}
	}
	totals := make(map[string]*agg)
	order := []string{} // first-seen component order, for stable aggregation only

	addWeight := func(componentID, patternText string, weight float64) {
		a, ok := totals[componentID]
		if !ok {
			a = &agg{patterns: make(map[string]struct{})}
			totals[componentID] = a
			order = append(order, componentID)
		}
		if _, dup := a.patterns[patternText]; dup {
			return
		}
		a.patterns[patternText] = struct{}{}
		a.score += weight
	}

	for _, f := range features {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		exact, err := s.LookupExact(ctx, f.Text)
		if err != nil {
			return nil, fmt.Errorf("match: direct lookup_exact: %w", err)
		}
		for _, hit := range exact {
			addWeight(hit.ComponentID, f.Text, hit.Confidence)
		}

		if len(f.Text) >= minContainsLength {
			contains, err := s.LookupContains(ctx, f.Text)
			if err != nil {
				return nil, fmt.Errorf("match: direct lookup_contains: %w", err)
			}
			for _, hit := range contains {
				addWeight(hit.ComponentID, hit.Pattern, subWeightFactor*hit.Confidence)
			}
		}
	}

	hits := make([]DirectHit, 0, len(order))
	names := make(map[string]string, len(order))
	for _, id := range order {
		a := totals[id]
		comp, err := s.GetComponent(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("match: resolving component %s: %w", id, err)
		}
		names[id] = comp.Name
		if opts.NativeOnly {
			if _, mobile := mobileEcosystems[comp.Ecosystem]; mobile {
				continue
			}
		}
		hitCount := len(a.patterns)
		if hitCount < max(1, opts.MinMatches) {
			continue
		}
		denom := float64(3)
		if v := 0.15 * float64(comp.PatternCount); v > denom {
			denom = v
		}
		confidence := a.score / denom
		if confidence > 1.0 {
			confidence = 1.0
		}
		if confidence < opts.Threshold {
			continue
		}
		patterns := make([]string, 0, len(a.patterns))
		for p := range a.patterns {
			patterns = append(patterns, p)
		}
		sort.Strings(patterns)
		hits = append(hits, DirectHit{
			ComponentID: id,
			HitCount:    hitCount,
			Confidence:  confidence,
			Patterns:    patterns,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Confidence != hits[j].Confidence {
			return hits[i].Confidence > hits[j].Confidence
		}
		if hits[i].HitCount != hits[j].HitCount {
			return hits[i].HitCount > hits[j].HitCount
		}
		if ni, nj := names[hits[i].ComponentID], names[hits[j].ComponentID]; ni != nj {
			return ni < nj
		}
		return hits[i].ComponentID < hits[j].ComponentID
	})

	return hits, nil
}
