package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePatternLength(t *testing.T) {
	seen := map[string]struct{}{}
	require.NotEmpty(t, validatePattern("abc", seen))
	require.NotEmpty(t, validatePattern("av_", seen), "3 chars, too short even with underscore allowance")
}

func TestValidatePatternPrefixAllowance(t *testing.T) {
	seen := map[string]struct{}{}
	require.NotEmpty(t, validatePattern("ab_", seen), "3 chars, too short even with underscore")
	require.Empty(t, validatePattern("avc_", seen), "4 chars ending in _ is allowed")
}

func TestValidatePatternStopWord(t *testing.T) {
	seen := map[string]struct{}{}
	require.NotEmpty(t, validatePattern("buffer", seen))
	require.Empty(t, validatePattern("av_codec", seen))
}

func TestValidatePatternPrimitive(t *testing.T) {
	seen := map[string]struct{}{}
	require.NotEmpty(t, validatePattern("int32", seen))
	require.NotEmpty(t, validatePattern("genericword", seen))
	require.Empty(t, validatePattern("libpng_version", seen))
	require.Empty(t, validatePattern("PNGReadStruct", seen))
}

func TestValidatePatternDuplicate(t *testing.T) {
	seen := map[string]struct{}{"x264_encoder_open": {}}
	require.NotEmpty(t, validatePattern("x264_encoder_open", seen))
}

func TestClipConfidence(t *testing.T) {
	require.Equal(t, 0.5, clipConfidence(0.1))
	require.Equal(t, 1.0, clipConfidence(1.5))
	require.Equal(t, 0.9, clipConfidence(0.9))
}
