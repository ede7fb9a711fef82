package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestFeaturesUnrecognizedNameReturnsNil(t *testing.T) {
	assert.Nil(t, manifestFeatures("somefile.txt", []byte("irrelevant")))
}

func TestAndroidManifestFeaturesDecodesPackageAttr(t *testing.T) {
	xml := `<?xml version="1.0"?><manifest package="com.example.app"></manifest>`
	feats := manifestFeatures("AndroidManifest.xml", []byte(xml))
	require.Len(t, feats, 1)
	assert.Equal(t, "bundle-id:com.example.app", feats[0].Text)
}

func TestAndroidManifestFeaturesFallsBackToStrings(t *testing.T) {
	feats := manifestFeatures("AndroidManifest.xml", []byte("\x00\x00not_valid_xml_content\x00\x00"))
	assert.NotEmpty(t, feats)
}

func TestJavaManifestFeaturesExtractsImplementationFields(t *testing.T) {
	mf := "Manifest-Version: 1.0\nImplementation-Title: mylib\nImplementation-Version: 2.3.4\n"
	feats := manifestFeatures("META-INF/MANIFEST.MF", []byte(mf))
	texts := rawTexts(feats)
	assert.Contains(t, texts, "Implementation-Title:mylib")
	assert.Contains(t, texts, "Implementation-Version:2.3.4")
}

func TestInfoPlistFeaturesExtractsBundleID(t *testing.T) {
	plist := `<plist><dict><key>CFBundleIdentifier</key><string>com.example.ios</string></dict></plist>`
	feats := manifestFeatures("Info.plist", []byte(plist))
	require.Len(t, feats, 1)
	assert.Equal(t, "bundle-id:com.example.ios", feats[0].Text)
}

func TestPomFeaturesBuildsMavenPURL(t *testing.T) {
	pom := `<project><groupId>org.example</groupId><artifactId>mylib</artifactId><version>1.2.3</version></project>`
	feats := manifestFeatures("mylib-1.2.3.pom", []byte(pom))
	require.Len(t, feats, 1)
	assert.Equal(t, "pkg:maven/org.example/mylib@1.2.3", feats[0].Text)
}

func TestDebControlFeaturesExtractsPackageAndVersion(t *testing.T) {
	control := "Package: mylib\nVersion: 1.2.3-1\nArchitecture: amd64\n"
	feats := manifestFeatures("control.tar.gz/control", []byte(control))
	texts := rawTexts(feats)
	assert.Contains(t, texts, "deb-package:mylib")
	assert.Contains(t, texts, "deb-version:mylib-1.2.3-1")
}

func TestWheelMetadataFeaturesBuildsPyPIPURL(t *testing.T) {
	meta := "Metadata-Version: 2.1\nName: mypkg\nVersion: 0.9.0\n"
	feats := manifestFeatures("METADATA", []byte(meta))
	require.Len(t, feats, 1)
	assert.Equal(t, "pkg:pypi/mypkg@0.9.0", feats[0].Text)
}
