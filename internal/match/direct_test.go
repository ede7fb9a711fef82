package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SemClone/binarysniffer/internal/normalize"
	"github.com/SemClone/binarysniffer/internal/store"
)

type fakeStore struct {
	store.Store
	exact     map[string][]store.ExactHit
	contains  map[string][]store.ContainsHit
	rows      map[string]store.ComponentRow
}

func (f *fakeStore) LookupExact(_ context.Context, s string) ([]store.ExactHit, error) {
	return f.exact[s], nil
}

func (f *fakeStore) LookupContains(_ context.Context, s string) ([]store.ContainsHit, error) {
	return f.contains[s], nil
}

func (f *fakeStore) GetComponent(_ context.Context, id string) (store.ComponentRow, error) {
	return f.rows[id], nil
}

func newFixtureStore() *fakeStore {
	return &fakeStore{
		exact: map[string][]store.ExactHit{
			"libpng_version_string": {{ComponentID: "libpng", Confidence: 0.95}},
		},
		contains: map[string][]store.ContainsHit{},
		rows: map[string]store.ComponentRow{
			"libpng": {ID: "libpng", Name: "libpng", Ecosystem: "native", PatternCount: 4},
		},
	}
}

func TestDirectExactHit(t *testing.T) {
	s := newFixtureStore()
	features := []normalize.Normalized{{Text: "libpng_version_string"}}
	hits, err := Direct(context.Background(), s, features, DirectOptions{Threshold: 0.1, MinMatches: 1})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "libpng", hits[0].ComponentID)
}

func TestDirectDropsBelowThreshold(t *testing.T) {
	s := newFixtureStore()
	features := []normalize.Normalized{{Text: "libpng_version_string"}}
	hits, err := Direct(context.Background(), s, features, DirectOptions{Threshold: 0.99, MinMatches: 1})
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestDirectContextFilterDropsMobile(t *testing.T) {
	s := newFixtureStore()
	s.rows["libpng"] = store.ComponentRow{ID: "libpng", Name: "libpng", Ecosystem: "android", PatternCount: 4}
	features := []normalize.Normalized{{Text: "libpng_version_string"}}
	hits, err := Direct(context.Background(), s, features, DirectOptions{Threshold: 0.1, MinMatches: 1, NativeOnly: true})
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestDirectContainsRequiresMinLength(t *testing.T) {
	s := newFixtureStore()
	s.contains["shrt"] = []store.ContainsHit{{ComponentID: "libpng", Pattern: "shrt", Confidence: 0.9}}
	features := []normalize.Normalized{{Text: "shrt"}}
	hits, err := Direct(context.Background(), s, features, DirectOptions{Threshold: 0.1, MinMatches: 1})
	require.NoError(t, err)
	require.Empty(t, hits, "feature shorter than 8 bytes must not trigger lookup_contains")
}

func TestDirectDeterministicOrdering(t *testing.T) {
	s := newFixtureStore()
	s.rows["zzz"] = store.ComponentRow{ID: "zzz", Name: "zzz", Ecosystem: "native", PatternCount: 4}
	s.exact["zzz_marker_token"] = []store.ExactHit{{ComponentID: "zzz", Confidence: 0.95}}
	features := []normalize.Normalized{{Text: "libpng_version_string"}, {Text: "zzz_marker_token"}}
	hits, err := Direct(context.Background(), s, features, DirectOptions{Threshold: 0.1, MinMatches: 1})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	// Equal confidence and hit count: tie-break is lexicographic component name.
	require.Equal(t, "libpng", hits[0].ComponentID)
	require.Equal(t, "zzz", hits[1].ComponentID)
}
