package match

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/SemClone/binarysniffer/internal/lsh"
	"github.com/SemClone/binarysniffer/internal/normalize"
	"github.com/SemClone/binarysniffer/internal/store"
	"github.com/SemClone/binarysniffer/internal/store/storemock"
)

func corpusFeatures(n int) []normalize.Normalized {
	out := make([]normalize.Normalized, n)
	for i := range out {
		out[i] = normalize.Normalized{Text: fmt.Sprintf("distinct_filler_token_%02d_xyz", i)}
	}
	return out
}

func TestFuzzyDisabledEmitsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := storemock.NewMockStore(ctrl)
	// No Digests call expected: disabled short-circuits before touching the store.

	hits, err := Fuzzy(context.Background(), s, corpusFeatures(20), FuzzyOptions{Enabled: false})
	require.NoError(t, err)
	require.Nil(t, hits)
}

func TestFuzzyBelowMinCorpusEmitsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := storemock.NewMockStore(ctrl)

	hits, err := Fuzzy(context.Background(), s, corpusFeatures(1), FuzzyOptions{Enabled: true, Threshold: 70})
	require.NoError(t, err)
	require.Nil(t, hits)
}

func TestFuzzyMatchesWithinThreshold(t *testing.T) {
	features := corpusFeatures(40)
	texts := make([]string, len(features))
	for i, f := range features {
		texts[i] = f.Text
	}
	digest, ok := lsh.Digest(texts)
	require.True(t, ok)

	far := make([]byte, len(digest))
	for i := range far {
		far[i] = digest[i] ^ 0xFF
	}

	ctrl := gomock.NewController(t)
	s := storemock.NewMockStore(ctrl)
	s.EXPECT().Digests(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(store.Digest) error) error {
			if err := fn(store.Digest{ComponentID: "near", Bytes: digest}); err != nil {
				return err
			}
			return fn(store.Digest{ComponentID: "far", Bytes: far})
		},
	)

	hits, err := Fuzzy(context.Background(), s, features, FuzzyOptions{Enabled: true, Threshold: 70})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "near", hits[0].ComponentID)
	require.Equal(t, 0, hits[0].Distance)
	require.InDelta(t, 1.0, hits[0].Confidence, 0.001)
}

func TestFuzzyDefaultsThresholdWhenUnset(t *testing.T) {
	features := corpusFeatures(40)
	texts := make([]string, len(features))
	for i, f := range features {
		texts[i] = f.Text
	}
	digest, ok := lsh.Digest(texts)
	require.True(t, ok)

	ctrl := gomock.NewController(t)
	s := storemock.NewMockStore(ctrl)
	s.EXPECT().Digests(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(store.Digest) error) error {
			return fn(store.Digest{ComponentID: "exact", Bytes: digest})
		},
	)

	hits, err := Fuzzy(context.Background(), s, features, FuzzyOptions{Enabled: true})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "exact", hits[0].ComponentID)
}
