package lsh

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func bigFeatureSet(n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, strings.Repeat("feature_token_", 3)+string(rune('a'+i%26)))
	}
	return out
}

func TestDigestRequiresMinimumCorpus(t *testing.T) {
	_, ok := Digest([]string{"short"})
	require.False(t, ok)
}

func TestDigestIsDeterministic(t *testing.T) {
	features := bigFeatureSet(40)
	d1, ok1 := Digest(features)
	d2, ok2 := Digest(features)
	require.True(t, ok1)
	require.True(t, ok2)
	require.Equal(t, d1, d2)
	require.Len(t, d1, DigestSize)
}

func TestDistanceZeroForIdenticalDigests(t *testing.T) {
	features := bigFeatureSet(40)
	d, ok := Digest(features)
	require.True(t, ok)
	require.Equal(t, 0, Distance(d, d))
}

func TestDistanceMismatchedLengthIsMaximal(t *testing.T) {
	require.Equal(t, bitCount, Distance([]byte{0x00}, []byte{0x00, 0x01}))
}

func TestConfidenceBreakpoints(t *testing.T) {
	require.Equal(t, 1.00, Confidence(0))
	require.Equal(t, 0.92, Confidence(30))
	require.Equal(t, 0.78, Confidence(70))
	require.Equal(t, 0.60, Confidence(100))
	require.InDelta(t, 0.85, Confidence(50), 0.01)
}

func TestConfidenceMonotonicallyDecreases(t *testing.T) {
	prev := Confidence(0)
	for d := 1; d <= 100; d += 5 {
		cur := Confidence(d)
		require.LessOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestSimilarFeatureSetsAreClose(t *testing.T) {
	base := bigFeatureSet(60)
	altered := append([]string{}, base...)
	altered[0] = "a_completely_different_token_xyz"
	d1, ok1 := Digest(base)
	d2, ok2 := Digest(altered)
	require.True(t, ok1)
	require.True(t, ok2)
	require.Less(t, Distance(d1, d2), bitCount/4)
}
