package extract

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"regexp"
	"strings"

	debversion "github.com/knqyf263/go-deb-version"
	packageurl "github.com/package-url/packageurl-go"

	"github.com/SemClone/binarysniffer/internal/normalize"
)

// manifestFeatures recognizes spec.md §4.2's manifest shapes
// (AndroidManifest.xml, META-INF/MANIFEST.MF, Info.plist, *.pom, wheel
// METADATA) by archive-relative member name, and emits the
// package-identifier synthetic features the store is likely to hit.
// Returns nil when name isn't a recognized manifest, telling the caller
// to fall through to ordinary dispatch.
func manifestFeatures(name string, data []byte) []normalize.Raw {
	base := name
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	switch {
	case base == "AndroidManifest.xml":
		return androidManifestFeatures(data, name)
	case base == "MANIFEST.MF":
		return javaManifestFeatures(data, name)
	case base == "Info.plist":
		return infoPlistFeatures(data, name)
	case strings.HasSuffix(base, ".pom"):
		return pomFeatures(data, name)
	case base == "METADATA":
		return wheelMetadataFeatures(data, name)
	case base == "control":
		return debControlFeatures(data, name)
	}
	return nil
}

// debControlFeatures parses a Debian package's control file (the member
// found inside a .deb's control.tar.* once unwrapped by the archive
// walker) for its Package/Version fields, normalizing the version with
// go-deb-version the same way claircore's debian matcher does.
func debControlFeatures(data []byte, sourcePath string) []normalize.Raw {
	var pkg, ver string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		k, v, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(k) {
		case "Package":
			pkg = strings.TrimSpace(v)
		case "Version":
			ver = strings.TrimSpace(v)
		}
	}
	if pkg == "" {
		return nil
	}
	out := []normalize.Raw{{Text: "deb-package:" + pkg, SourcePath: sourcePath}}
	if ver != "" {
		if dv, err := debversion.NewVersion(ver); err == nil {
			out = append(out, normalize.Raw{Text: "deb-version:" + pkg + "-" + dv.String(), SourcePath: sourcePath})
		}
	}
	return out
}

type androidManifestXML struct {
	Package string `xml:"package,attr"`
}

// androidManifestFeatures does a best-effort decode of AndroidManifest.xml.
// A real APK ships this in Android's binary XML format, which needs a
// dedicated binary-XML decoder no example repo in the pack provides; when
// decoding as text XML fails (the common case for a real device APK), the
// binary string scanner still recovers the package name as a plain
// printable run, so nothing is lost, only the structured
// "bundle-id:"-tagged feature.
func androidManifestFeatures(data []byte, sourcePath string) []normalize.Raw {
	var m androidManifestXML
	if err := xml.Unmarshal(data, &m); err == nil && m.Package != "" {
		return []normalize.Raw{{Text: "bundle-id:" + m.Package, SourcePath: sourcePath}}
	}
	return stringFeatures(data, sourcePath)
}

func javaManifestFeatures(data []byte, sourcePath string) []normalize.Raw {
	var out []normalize.Raw
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		switch k {
		case "Implementation-Title", "Implementation-Version", "Bundle-SymbolicName", "Bundle-Version":
			if v != "" {
				out = append(out, normalize.Raw{Text: k + ":" + v, SourcePath: sourcePath})
			}
		}
	}
	return out
}

var bundleIDRe = regexp.MustCompile(`CFBundleIdentifier</key>\s*<string>([^<]+)</string>`)

// infoPlistFeatures pulls CFBundleIdentifier out of an Info.plist via a
// regex rather than a full plist decoder: the pack carries no plist
// library, and Info.plist is overwhelmingly shipped as the same XML
// format this input uses (binary plist is comparatively rare for app
// bundle identity), so a targeted regex is proportionate — see
// DESIGN.md.
func infoPlistFeatures(data []byte, sourcePath string) []normalize.Raw {
	m := bundleIDRe.FindSubmatch(data)
	if m == nil {
		return stringFeatures(data, sourcePath)
	}
	return []normalize.Raw{{Text: "bundle-id:" + string(m[1]), SourcePath: sourcePath}}
}

type pomXML struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

// pomFeatures decodes a Maven POM and emits a canonical PURL feature
// (spec.md §4.2 "maven:groupId:artifactId:version"), grounded on
// claircore's java/purl.go PackageURL construction.
func pomFeatures(data []byte, sourcePath string) []normalize.Raw {
	var p pomXML
	if err := xml.Unmarshal(data, &p); err != nil || p.ArtifactID == "" {
		return nil
	}
	purl := packageurl.PackageURL{
		Type:      "maven",
		Namespace: p.GroupID,
		Name:      p.ArtifactID,
		Version:   p.Version,
	}
	return []normalize.Raw{{Text: purl.String(), SourcePath: sourcePath}}
}

var (
	wheelNameRe    = regexp.MustCompile(`(?m)^Name:\s*(\S+)`)
	wheelVersionRe = regexp.MustCompile(`(?m)^Version:\s*(\S+)`)
)

// wheelMetadataFeatures decodes a Python wheel's METADATA file (RFC822
// key:value format) and emits a pypi PURL.
func wheelMetadataFeatures(data []byte, sourcePath string) []normalize.Raw {
	name := wheelNameRe.FindSubmatch(data)
	version := wheelVersionRe.FindSubmatch(data)
	if name == nil {
		return nil
	}
	purl := packageurl.PackageURL{Type: "pypi", Name: string(name[1])}
	if version != nil {
		purl.Version = string(version[1])
	}
	return []normalize.Raw{{Text: purl.String(), SourcePath: sourcePath}}
}
