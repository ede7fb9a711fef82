package extract

import (
	"bytes"
	"path/filepath"
	"strings"
)

var sourceExtensions = map[string]struct{}{
	".c": {}, ".h": {}, ".cc": {}, ".cpp": {}, ".hpp": {}, ".py": {}, ".java": {},
	".kt": {}, ".go": {}, ".rs": {}, ".js": {}, ".ts": {}, ".cs": {}, ".swift": {},
	".rb": {}, ".php": {}, ".m": {},
}

// Sniff classifies one file by magic-number sniff first, extension
// second, and a last-resort generic-binary path (spec.md §4.1).
func Sniff(name string, data []byte) FileType {
	switch {
	case magicPrefix(data, []byte("\x7fELF")):
		return TypeELF
	case magicPrefix(data, []byte("MZ")):
		return TypePE
	case isMachO(data):
		return TypeMachO
	case isRPM(data):
		return TypeRPM
	case magicPrefix(data, []byte("!<arch>\n")):
		if isDebControl(data) {
			return TypeDeb
		}
		return TypeAR
	case magicPrefix(data, []byte("dex\n")):
		return TypeDEX
	case magicPrefix(data, []byte("PK\x03\x04")), magicPrefix(data, []byte("PK\x05\x06")):
		return TypeZip
	case magicPrefix(data, []byte{0x1f, 0x8b}):
		return TypeGzip
	case magicPrefix(data, []byte("BZh")):
		return TypeBzip2
	case magicPrefix(data, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}):
		return TypeXz
	case magicPrefix(data, []byte{0x28, 0xb5, 0x2f, 0xfd}):
		return TypeZstd
	case magicPrefix(data, []byte{'7', 'z', 0xbc, 0xaf, 0x27, 0x1c}):
		return TypeSevenZip
	case magicPrefix(data, []byte("Rar!\x1a\x07\x00")), magicPrefix(data, []byte("Rar!\x1a\x07\x01\x00")):
		return TypeRar
	case isCPIO(data):
		return TypeCPIO
	case isTar(data):
		return TypeTar
	}

	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := sourceExtensions[ext]; ok {
		return TypeSource
	}

	return TypeGeneric
}

// isMachO checks both 32/64-bit and fat-binary magic, big- and
// little-endian.
func isMachO(data []byte) bool {
	magics := [][]byte{
		{0xfe, 0xed, 0xfa, 0xce}, {0xce, 0xfa, 0xed, 0xfe}, // 32-bit
		{0xfe, 0xed, 0xfa, 0xcf}, {0xcf, 0xfa, 0xed, 0xfe}, // 64-bit
		{0xca, 0xfe, 0xba, 0xbe}, {0xbe, 0xba, 0xfe, 0xca}, // fat
	}
	for _, m := range magics {
		if magicPrefix(data, m) {
			return true
		}
	}
	return false
}

// isTar sniffs the "ustar" magic at its fixed header offset, rather than
// relying on the extension, since a tar stream has no leading magic byte.
func isTar(data []byte) bool {
	const (
		ustarOffset = 257
		ustarLen    = 5
	)
	if len(data) < ustarOffset+ustarLen {
		return false
	}
	return bytes.HasPrefix(data[ustarOffset:], []byte("ustar"))
}

// isCPIO recognizes the cpio(1) magic numbers: the two ASCII "newc"
// variants (with and without a trailing CRC), the ASCII "odc" header
// ("070707"), and the classic binary header, big- and little-endian.
func isCPIO(data []byte) bool {
	switch {
	case magicPrefix(data, []byte("070701")), magicPrefix(data, []byte("070702")), magicPrefix(data, []byte("070707")):
		return true
	case magicPrefix(data, []byte{0xc7, 0x71}), magicPrefix(data, []byte{0x71, 0xc7}):
		return true
	}
	return false
}

// isDebControl distinguishes a Debian package (ar wrapper whose first
// member is debian-binary) from a generic AR static library.
func isDebControl(data []byte) bool {
	const arMagicLen = 8
	if len(data) < arMagicLen+16 {
		return false
	}
	name := strings.TrimRight(string(data[arMagicLen:arMagicLen+16]), " ")
	return name == "debian-binary"
}
