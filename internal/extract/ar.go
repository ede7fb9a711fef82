package extract

import (
	"strconv"
	"strings"

	"github.com/SemClone/binarysniffer/internal/normalize"
)

// AR static library parsing (spec.md §4.2: "For AR static libraries, each
// member object is parsed individually; emitted features are annotated
// with member:<object-name>"). No example repo in the pack carries an AR
// parser (Debian packages are unwrapped elsewhere in the teacher without
// touching the ar(1) layout directly) — the format itself is a fixed
// 60-byte-header-per-member layout simple enough that hand-rolling it is
// the only reasonable option; see DESIGN.md.

const (
	arMagic       = "!<arch>\n"
	arHeaderSize  = 60
	arNameWidth   = 16
	arSizeOffset  = 48
	arSizeWidth   = 10
)

type arEntry struct {
	name string
	data []byte
}

func parseAR(data []byte) []arEntry {
	if !strings.HasPrefix(string(data), arMagic) {
		return nil
	}
	var out []arEntry
	off := len(arMagic)
	for off+arHeaderSize <= len(data) {
		header := data[off : off+arHeaderSize]
		name := strings.TrimRight(string(header[:arNameWidth]), " /")
		sizeStr := strings.TrimSpace(string(header[arSizeOffset : arSizeOffset+arSizeWidth]))
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size < 0 {
			break
		}
		start := off + arHeaderSize
		end := start + size
		if end > len(data) {
			break
		}
		if name != "" && name != "/" && name != "//" {
			out = append(out, arEntry{name: name, data: data[start:end]})
		}
		off = end
		if size%2 == 1 {
			off++ // members are 2-byte aligned
		}
	}
	return out
}

// arMembers extracts features from every object member of an AR static
// library, running the binary string scanner (and, when the member
// itself is an ELF relocatable, the symbol extractor) over each, and
// annotating every feature with "member:<object-name>" per spec.md §4.2.
func arMembers(data []byte, sourcePath string) ([]normalize.Raw, error) {
	entries := parseAR(data)
	var out []normalize.Raw
	for _, e := range entries {
		tag := "member:" + e.name
		memberPath := sourcePath
		if memberPath != "" {
			memberPath += "/" + tag
		} else {
			memberPath = tag
		}
		if Sniff(e.name, e.data) == TypeELF {
			if feats, err := elfSymbols(e.data, memberPath); err == nil {
				out = append(out, feats...)
			}
		}
		out = append(out, stringFeatures(e.data, memberPath)...)
	}
	return out, nil
}

// arListMembers adapts parseAR to the archive walker's generic member
// shape, for when an AR file is routed through Walk instead of the
// dedicated arMembers path (e.g. a static library found while recursing
// into a larger archive).
func arListMembers(data []byte) ([]member, error) {
	entries := parseAR(data)
	out := make([]member, 0, len(entries))
	for _, e := range entries {
		out = append(out, member{name: e.name, data: e.data})
	}
	return out, nil
}
