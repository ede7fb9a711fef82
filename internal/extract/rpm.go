package extract

import (
	"strings"

	rpmversion "github.com/knqyf263/go-rpm-version"

	"github.com/SemClone/binarysniffer/internal/normalize"
)

// RPM package parsing (spec.md §4.2's archive-extractor family). No example
// repo parses the RPM header-tag format directly, so this reads the one
// piece of the binary layout simple enough to hand-roll: the fixed 96-byte
// "lead" at the start of every RPM, whose 66-byte name field historically
// carries "<name>-<version>-<release>" for backward compatibility with
// pre-header RPM readers. Everything past the lead (signature header,
// header, cpio payload) falls back to the generic binary string scan
// rather than a full header-tag parse — see DESIGN.md.
const (
	rpmLeadSize    = 96
	rpmLeadNameOff = 10
	rpmLeadNameLen = 66
)

var rpmLeadMagic = []byte{0xed, 0xab, 0xee, 0xdb}

func isRPM(data []byte) bool {
	return magicPrefix(data, rpmLeadMagic)
}

// rpmFeatures extracts the package name/version-release from the RPM
// lead, normalizes the version with go-rpm-version, and otherwise treats
// the rest of the file as an opaque binary blob for the string scanner.
func rpmFeatures(data []byte, sourcePath string) []normalize.Raw {
	var out []normalize.Raw
	if len(data) >= rpmLeadSize {
		nvr := strings.TrimRight(string(data[rpmLeadNameOff:rpmLeadNameOff+rpmLeadNameLen]), "\x00")
		if name, verRel, ok := splitRPMNVR(nvr); ok {
			out = append(out, normalize.Raw{Text: "rpm-package:" + name, SourcePath: sourcePath})
			v := rpmversion.NewVersion(verRel)
			out = append(out, normalize.Raw{Text: "rpm-version:" + name + "-" + v.String(), SourcePath: sourcePath})
		}
	}
	return append(out, stringFeatures(data, sourcePath)...)
}

// splitRPMNVR splits a "name-version-release" string on its last two
// hyphens, since an RPM name may itself contain hyphens but the version
// and release components conventionally don't.
func splitRPMNVR(nvr string) (name, verRel string, ok bool) {
	i := strings.LastIndexByte(nvr, '-')
	if i < 0 {
		return "", "", false
	}
	j := strings.LastIndexByte(nvr[:i], '-')
	if j < 0 {
		return "", "", false
	}
	return nvr[:j], nvr[j+1:], true
}
