package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildAR assembles a minimal valid ar(1) archive from name/content pairs,
// padding each header field the way the real format does.
func buildAR(t *testing.T, members [][2]string) []byte {
	t.Helper()
	var buf []byte
	buf = append(buf, []byte(arMagic)...)
	for _, m := range members {
		name, content := m[0], m[1]
		header := make([]byte, arHeaderSize)
		copy(header, padRight(name, arNameWidth))
		copy(header[arSizeOffset:], padRight(itoaTest(len(content)), arSizeWidth))
		buf = append(buf, header...)
		buf = append(buf, []byte(content)...)
		if len(content)%2 == 1 {
			buf = append(buf, 0)
		}
	}
	return buf
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}

func itoaTest(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestParseARTwoMembers(t *testing.T) {
	data := buildAR(t, [][2]string{
		{"foo.o", "hello world content"},
		{"bar.o", "another object file body"},
	})
	entries := parseAR(data)
	require.Len(t, entries, 2)
	assert.Equal(t, "foo.o", entries[0].name)
	assert.Equal(t, "hello world content", string(entries[0].data))
	assert.Equal(t, "bar.o", entries[1].name)
}

func TestParseARRejectsBadMagic(t *testing.T) {
	assert.Nil(t, parseAR([]byte("not an ar file")))
}

func TestArMembersTagsWithMemberName(t *testing.T) {
	data := buildAR(t, [][2]string{{"thing.o", "some_symbol_text_here"}})
	feats, err := arMembers(data, "lib.a")
	require.NoError(t, err)
	found := false
	for _, f := range feats {
		if strings.Contains(f.SourcePath, "member:thing.o") {
			found = true
		}
	}
	assert.True(t, found)
}
