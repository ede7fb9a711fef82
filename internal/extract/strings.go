package extract

import (
	"unicode"
	"unicode/utf8"

	xunicode "golang.org/x/text/encoding/unicode"

	"github.com/SemClone/binarysniffer/internal/normalize"
)

// minRunLength and maxStringLength are spec.md §4.2's binary string
// scanner defaults ("minimum run length 4, maximum string length 512").
const (
	minRunLength    = 4
	maxStringLength = 512
	hardCapStrings  = 50000 // spec.md §4.2: "hard cap 50,000 strings per file"
)

// stringFeatures scans data for printable ASCII and UTF-16LE runs
// (spec.md §4.2 "Binary strings"), annotating each with sourcePath.
func stringFeatures(data []byte, sourcePath string) []normalize.Raw {
	var out []normalize.Raw
	out = append(out, scanASCII(data, sourcePath)...)
	if len(out) < hardCapStrings {
		out = append(out, scanUTF16LE(data, sourcePath)...)
	}
	if len(out) > hardCapStrings {
		out = out[:hardCapStrings]
	}
	return out
}

func scanASCII(data []byte, sourcePath string) []normalize.Raw {
	var out []normalize.Raw
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		if end-start >= minRunLength {
			s := string(data[start:min(end, start+maxStringLength)])
			out = append(out, normalize.Raw{Text: s, SourcePath: sourcePath})
		}
		start = -1
	}
	for i, b := range data {
		if len(out) >= hardCapStrings {
			return out
		}
		if isPrintableByte(b) {
			if start < 0 {
				start = i
			}
		} else {
			flush(i)
		}
	}
	flush(len(data))
	return out
}

func isPrintableByte(b byte) bool {
	return b == '\t' || (b >= 0x20 && b < 0x7f)
}

// utf16LEDecoder decodes raw UTF-16LE bytes to UTF-8 without assuming a
// byte-order mark, matching the headerless string tables found in PE
// resources and similar binary formats.
var utf16LEDecoder = xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM).NewDecoder()

// scanUTF16LE decodes data as UTF-16LE and extracts runs of printable
// runes (spec.md §4.2 "Binary strings ... ASCII and UTF-16LE"). Bytes
// that don't round-trip as valid UTF-16LE break the current run rather
// than aborting the scan, since random binary data frequently
// misinterprets as isolated surrogate code units.
func scanUTF16LE(data []byte, sourcePath string) []normalize.Raw {
	if len(data) < 2 {
		return nil
	}
	decoded, err := utf16LEDecoder.Bytes(data)
	if err != nil || len(decoded) == 0 {
		return nil
	}

	var out []normalize.Raw
	var run []rune
	flush := func() {
		if len(run) >= minRunLength {
			s := string(run)
			if len(s) > maxStringLength {
				s = truncateUTF8(s, maxStringLength)
			}
			out = append(out, normalize.Raw{Text: s, SourcePath: sourcePath})
		}
		run = nil
	}
	for _, r := range string(decoded) {
		if len(out) >= hardCapStrings {
			return out
		}
		if r == utf8.RuneError || !unicode.IsPrint(r) {
			flush()
			continue
		}
		run = append(run, r)
	}
	flush()
	return out
}

func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	b := s[:n]
	for len(b) > 0 && !utf8.ValidString(b) {
		b = b[:len(b)-1]
	}
	return b
}
