package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/encoding/unicode"

	"github.com/SemClone/binarysniffer/internal/normalize"
)

func TestScanASCIIFindsPrintableRuns(t *testing.T) {
	data := []byte("\x00\x00libpng_read_info\x00\x00ab\x00longer_symbol_name\x00")
	feats := scanASCII(data, "test.bin")
	texts := rawTexts(feats)
	assert.Contains(t, texts, "libpng_read_info")
	assert.Contains(t, texts, "longer_symbol_name")
	assert.NotContains(t, texts, "ab") // below minRunLength
}

func TestScanASCIITruncatesLongRuns(t *testing.T) {
	long := make([]byte, maxStringLength+100)
	for i := range long {
		long[i] = 'a'
	}
	feats := scanASCII(long, "test.bin")
	assert.Len(t, feats, 1)
	assert.LessOrEqual(t, len(feats[0].Text), maxStringLength)
}

func TestScanUTF16LEDecodesEncodedText(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	encoded, err := enc.Bytes([]byte("decoded_wide_string"))
	assert.NoError(t, err)

	feats := scanUTF16LE(encoded, "test.bin")
	assert.Contains(t, rawTexts(feats), "decoded_wide_string")
}

func TestScanUTF16LEShortInputReturnsNil(t *testing.T) {
	assert.Nil(t, scanUTF16LE([]byte{0x01}, "test.bin"))
}

func TestStringFeaturesHardCap(t *testing.T) {
	var data []byte
	for i := 0; i < hardCapStrings+1000; i++ {
		data = append(data, []byte("symbolxxxx\x00")...)
	}
	feats := stringFeatures(data, "test.bin")
	assert.LessOrEqual(t, len(feats), hardCapStrings)
}

func rawTexts(feats []normalize.Raw) []string {
	out := make([]string, len(feats))
	for i, f := range feats {
		out[i] = f.Text
	}
	return out
}
