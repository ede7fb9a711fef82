package match

import (
	"context"
	"fmt"
	"sort"

	"github.com/SemClone/binarysniffer/internal/lsh"
	"github.com/SemClone/binarysniffer/internal/normalize"
	"github.com/SemClone/binarysniffer/internal/store"
)

// FuzzyOptions configures the Fuzzy Matcher (spec.md §4.6).
type FuzzyOptions struct {
	Enabled   bool
	Threshold int // default 70, spec.md §6
}

// FuzzyHit is one component's Fuzzy Matcher output.
type FuzzyHit struct {
	ComponentID string
	Distance    int
	Confidence  float64
}

// Fuzzy runs the Fuzzy Matcher (spec.md §4.6) over a normalized feature
// set, against the store's LSH digests. Returns (nil, nil) when the
// feature corpus is below lsh.MinCorpusBytes or fuzzy matching is
// disabled — spec.md §4.6 step 1's "otherwise the fuzzy matcher emits
// nothing".
func Fuzzy(ctx context.Context, s store.Store, features []normalize.Normalized, opts FuzzyOptions) ([]FuzzyHit, error) {
	if !opts.Enabled {
		return nil, nil
	}

	texts := make([]string, len(features))
	for i, f := range features {
		texts[i] = f.Text
	}
	digest, ok := lsh.Digest(texts)
	if !ok {
		return nil, nil
	}

	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = 70
	}

	var hits []FuzzyHit
	err := s.Digests(ctx, func(d store.Digest) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		distance := lsh.Distance(digest, d.Bytes)
		if distance >= threshold {
			return nil
		}
		hits = append(hits, FuzzyHit{
			ComponentID: d.ComponentID,
			Distance:    distance,
			Confidence:  lsh.Confidence(distance),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("match: fuzzy digest scan: %w", err)
	}

	// spec.md §4.6 step 4: "Emit at most one (best-distance) result per
	// component" — Digests already streams one row per component
	// (lsh_digests.component_id is the primary key), so no further
	// dedup is needed; just impose the deterministic order.
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ComponentID < hits[j].ComponentID
	})
	return hits, nil
}
