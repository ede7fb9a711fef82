package store

import (
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// containsIndex backs [Store.LookupContains] (spec.md §4.4): "Backed by an
// n-gram (length 3) inverted index built at ingest time; falsely-positive
// candidates are verified with a literal contains check." This is a direct
// implementation of that description: every stored pattern of length >= 3
// contributes its distinct 3-byte substrings ("trigrams") to an inverted
// index, and a lookup only has to check the small set of patterns sharing
// at least one trigram with the haystack before falling back to a literal
// strings.Contains verification.
//
// Patterns change rarely (only at import time), so the index is rebuilt
// wholesale on [RebuildIndices]; a small LRU caches the verified hit list
// for recently-seen haystacks, honoring spec.md §5's memory bound
// ("n-gram auxiliary index for contains-lookups (lazy, LRU-evicted)").
type containsIndex struct {
	mu       sync.RWMutex
	trigrams map[string][]int // trigram -> indices into patterns
	patterns []patternRef
	cache    *lru.Cache[string, []ContainsHit]
}

type patternRef struct {
	text        string
	componentID string
	confidence  float64
}

const containsCacheSize = 4096

func newContainsIndex() *containsIndex {
	cache, _ := lru.New[string, []ContainsHit](containsCacheSize)
	return &containsIndex{cache: cache}
}

// build replaces the trigram index with one built over refs. Patterns
// shorter than 3 bytes are skipped: they can never be the target of a
// substring query restricted to features of length >= 8 (spec.md §4.5
// step 2), and have no trigram to index on.
func (c *containsIndex) build(refs []patternRef) error {
	kept := make([]patternRef, 0, len(refs))
	trigrams := make(map[string][]int)
	for _, r := range refs {
		if len(r.text) < 3 {
			continue
		}
		idx := len(kept)
		kept = append(kept, r)
		seen := make(map[string]struct{})
		for i := 0; i+3 <= len(r.text); i++ {
			tri := r.text[i : i+3]
			if _, dup := seen[tri]; dup {
				continue
			}
			seen[tri] = struct{}{}
			trigrams[tri] = append(trigrams[tri], idx)
		}
	}
	c.mu.Lock()
	c.trigrams = trigrams
	c.patterns = kept
	c.cache.Purge()
	c.mu.Unlock()
	return nil
}

// lookup finds every stored pattern contained in s: every trigram of s is
// used to gather candidate pattern indices, each candidate is verified with
// a literal strings.Contains check (spec.md §4.4 "falsely-positive
// candidates are verified with a literal contains check"), and the result
// is deduplicated by pattern text.
func (c *containsIndex) lookup(s string) []ContainsHit {
	c.mu.RLock()
	if v, ok := c.cache.Get(s); ok {
		c.mu.RUnlock()
		return v
	}
	trigrams := c.trigrams
	patterns := c.patterns
	c.mu.RUnlock()
	if len(trigrams) == 0 || len(patterns) == 0 {
		return nil
	}

	candidateSet := make(map[int]struct{})
	for i := 0; i+3 <= len(s); i++ {
		for _, idx := range trigrams[s[i:i+3]] {
			candidateSet[idx] = struct{}{}
		}
	}
	// Visit candidates in a stable order (spec.md §9 "hash-table iteration"
	// invariant): map range order is not reproducible across runs.
	candidates := make([]int, 0, len(candidateSet))
	for idx := range candidateSet {
		candidates = append(candidates, idx)
	}
	sort.Ints(candidates)

	var hits []ContainsHit
	for _, idx := range candidates {
		ref := patterns[idx]
		if strings.Contains(s, ref.text) {
			hits = append(hits, ContainsHit{
				ComponentID: ref.componentID,
				Pattern:     ref.text,
				Confidence:  ref.confidence,
			})
		}
	}

	c.mu.Lock()
	c.cache.Add(s, hits)
	c.mu.Unlock()
	return hits
}
