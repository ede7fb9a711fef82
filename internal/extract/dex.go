package extract

import (
	"encoding/binary"

	"github.com/SemClone/binarysniffer/internal/normalize"
)

// Minimal Android DEX parsing (spec.md §4.2 "For DEX, extracts the string
// table, the type-name table, and method-name table"). No example repo
// in the pack parses the DEX format; the header layout is a small, fixed
// set of offsets well-defined by the Dalvik executable format
// specification, hand-rolled here the same way ar.go hand-rolls the AR
// layout — see DESIGN.md.

const (
	dexStringIDsSizeOff = 56
	dexStringIDsOff     = 60
	dexTypeIDsSizeOff   = 64
	dexTypeIDsOff       = 68
	dexMethodIDsSizeOff = 88
	dexMethodIDsOff     = 92
)

func le32(data []byte, off int) uint32 {
	if off+4 > len(data) {
		return 0
	}
	return binary.LittleEndian.Uint32(data[off : off+4])
}

// dexStringTable parses the DEX string_ids table: each entry is a uint32
// offset to a ULEB128-encoded UTF-16 length followed by MUTF-8 bytes.
func dexStringTable(data []byte) []string {
	count := le32(data, dexStringIDsSizeOff)
	tableOff := le32(data, dexStringIDsOff)
	out := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		idOff := int(tableOff) + int(i)*4
		strOff := int(le32(data, idOff))
		if strOff <= 0 || strOff >= len(data) {
			out = append(out, "")
			continue
		}
		_, n := decodeULEB128(data[strOff:])
		start := strOff + n
		end := start
		for end < len(data) && data[end] != 0 {
			end++
		}
		out = append(out, string(data[start:end]))
	}
	return out
}

func decodeULEB128(b []byte) (value uint32, width int) {
	var shift uint
	for i := 0; i < len(b) && i < 5; i++ {
		v := b[i]
		value |= uint32(v&0x7f) << shift
		width++
		if v&0x80 == 0 {
			break
		}
		shift += 7
	}
	return value, width
}

// dexStrings extracts the DEX string table, the type-name table (each
// type_id is an index into strings), and the method-name table (each
// method_id's name_idx is an index into strings too) as separate
// features — all annotated with sourcePath.
func dexStrings(data []byte, sourcePath string) ([]normalize.Raw, error) {
	strs := dexStringTable(data)
	var out []normalize.Raw
	for _, s := range strs {
		if s != "" {
			out = append(out, normalize.Raw{Text: s, SourcePath: sourcePath})
		}
	}

	typeCount := le32(data, dexTypeIDsSizeOff)
	typeOff := le32(data, dexTypeIDsOff)
	for i := uint32(0); i < typeCount; i++ {
		idx := le32(data, int(typeOff)+int(i)*4)
		if int(idx) < len(strs) && strs[idx] != "" {
			out = append(out, normalize.Raw{Text: strs[idx], SourcePath: sourcePath})
		}
	}

	methodCount := le32(data, dexMethodIDsSizeOff)
	methodOff := le32(data, dexMethodIDsOff)
	for i := uint32(0); i < methodCount; i++ {
		entryOff := int(methodOff) + int(i)*8
		nameIdx := le32(data, entryOff+4)
		if int(nameIdx) < len(strs) && strs[nameIdx] != "" {
			out = append(out, normalize.Raw{Text: strs[nameIdx], SourcePath: sourcePath})
		}
	}

	return out, nil
}
