package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeSignatureFileAcceptsPatternsKey(t *testing.T) {
	r := strings.NewReader(`{
		"component": {"name": "libpng", "version": "1.6.37", "ecosystem": "native"},
		"patterns": [{"pattern": "png_create_read_struct", "confidence": 0.9}]
	}`)
	doc, err := DecodeSignatureFile(r)
	require.NoError(t, err)
	require.Equal(t, "libpng", doc.Component.Name)
	require.Len(t, doc.Patterns, 1)
}

func TestDecodeSignatureFileAcceptsSignaturesKeyAlias(t *testing.T) {
	r := strings.NewReader(`{
		"component": {"name": "libpng", "version": "1.6.37"},
		"signatures": [{"pattern": "png_create_read_struct", "confidence": 0.9}]
	}`)
	doc, err := DecodeSignatureFile(r)
	require.NoError(t, err)
	require.Len(t, doc.Signatures, 1)
}

func TestValidateSignatureFilePrefersSignaturesOverPatterns(t *testing.T) {
	doc := SignatureFile{}
	doc.Component.Name = "libpng"
	doc.Signatures = []rawPattern{{Pattern: "png_create_read_struct", Confidence: 0.9}}
	doc.Patterns = []rawPattern{{Pattern: "should_be_ignored_entirely"}}

	accepted, rejected, err := validateSignatureFile(doc)
	require.NoError(t, err)
	require.Zero(t, rejected)
	require.Len(t, accepted, 1)
	require.Equal(t, "png_create_read_struct", accepted[0].Text)
}

func TestValidateSignatureFileDropsIntraFileDuplicates(t *testing.T) {
	doc := SignatureFile{}
	doc.Component.Name = "libpng"
	doc.Patterns = []rawPattern{
		{Pattern: "png_create_read_struct", Confidence: 0.9},
		{Pattern: "png_create_read_struct", Confidence: 0.8},
	}
	accepted, rejected, err := validateSignatureFile(doc)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	require.Equal(t, 1, rejected)
}

func TestValidateSignatureFileFallsBackToMetadataConfidence(t *testing.T) {
	doc := SignatureFile{}
	doc.Component.Name = "libpng"
	doc.Metadata.ConfidenceThreshold = 0.7
	doc.Patterns = []rawPattern{{Pattern: "png_create_read_struct"}}

	accepted, _, err := validateSignatureFile(doc)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	require.Equal(t, 0.7, accepted[0].Confidence)
}

func TestOrderVersionsUsesSemverWhenPossible(t *testing.T) {
	require.Equal(t, -1, orderVersions("1.2.0", "1.10.0"), "lexical order would wrongly put 1.10.0 before 1.2.0")
	require.Equal(t, 1, orderVersions("2.0.0", "1.9.9"))
}

func TestOrderVersionsFallsBackToLexicalForNonSemver(t *testing.T) {
	require.Equal(t, -1, orderVersions("r100", "r200"))
}
