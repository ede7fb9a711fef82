package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRPMLead(t *testing.T, nvr string) []byte {
	t.Helper()
	lead := make([]byte, rpmLeadSize)
	copy(lead, rpmLeadMagic)
	copy(lead[rpmLeadNameOff:], nvr)
	return lead
}

func TestIsRPMDetectsLeadMagic(t *testing.T) {
	assert.True(t, isRPM(buildRPMLead(t, "foo-1.0-1")))
	assert.False(t, isRPM([]byte("not an rpm")))
}

func TestSplitRPMNVR(t *testing.T) {
	name, verRel, ok := splitRPMNVR("openssl-libs-1.1.1-2.el8")
	require.True(t, ok)
	assert.Equal(t, "openssl-libs", name)
	assert.Equal(t, "1.1.1-2.el8", verRel)
}

func TestSplitRPMNVRRejectsTooFewComponents(t *testing.T) {
	_, _, ok := splitRPMNVR("nodash")
	assert.False(t, ok)
}

func TestRpmFeaturesEmitsPackageAndVersion(t *testing.T) {
	data := buildRPMLead(t, "mylib-2.3.4-1")
	feats := rpmFeatures(data, "mylib.rpm")
	texts := rawTexts(feats)
	assert.Contains(t, texts, "rpm-package:mylib")
	found := false
	for _, txt := range texts {
		if len(txt) > len("rpm-version:mylib-") && txt[:len("rpm-version:mylib-")] == "rpm-version:mylib-" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSniffRPM(t *testing.T) {
	data := buildRPMLead(t, "foo-1.0-1")
	assert.Equal(t, TypeRPM, Sniff("foo.rpm", data))
}
