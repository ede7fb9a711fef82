package extract

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildCPIO writes a minimal "newc" cpio archive containing files in the
// given order, terminated by the standard TRAILER!!! entry.
func buildCPIO(t *testing.T, files map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writeEntry := func(name, content string) {
		nameBytes := append([]byte(name), 0)
		header := fmt.Sprintf("070701%08x%08x%08x%08x%08x%08x%08x%08x%08x%08x%08x%08x%08x",
			0, 0, 0, 0, 0, 0, len(content), 0, 0, 0, 0, len(nameBytes), 0)
		require.Len(t, header, cpioNewcHeaderLen)
		buf.WriteString(header)
		buf.Write(nameBytes)
		padToAlign(&buf)
		buf.WriteString(content)
		padToAlign(&buf)
	}
	for _, name := range order {
		writeEntry(name, files[name])
	}
	writeEntry("TRAILER!!!", "")
	return buf.Bytes()
}

func padToAlign(buf *bytes.Buffer) {
	for buf.Len()%4 != 0 {
		buf.WriteByte(0)
	}
}

func TestParseCPIOListsMembersInArchiveOrder(t *testing.T) {
	data := buildCPIO(t, map[string]string{
		"a.txt": "alpha content here",
		"b.txt": "beta content here, a bit longer",
	}, []string{"a.txt", "b.txt"})

	members, err := parseCPIO(data)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "a.txt", members[0].name)
	assert.Equal(t, "alpha content here", string(members[0].data))
	assert.Equal(t, "b.txt", members[1].name)
	assert.Equal(t, "beta content here, a bit longer", string(members[1].data))
}

func TestParseCPIOExcludesTrailerEntry(t *testing.T) {
	data := buildCPIO(t, map[string]string{"only.txt": "content"}, []string{"only.txt"})
	members, err := parseCPIO(data)
	require.NoError(t, err)
	for _, m := range members {
		assert.NotEqual(t, "TRAILER!!!", m.name)
	}
}

func TestWalkExtractsCPIOMembers(t *testing.T) {
	data := buildCPIO(t, map[string]string{
		"strings.txt": "a_printable_string_value_inside_cpio",
	}, []string{"strings.txt"})

	feats, err := Walk(t.Context(), TypeCPIO, data, "a.cpio", 0, DefaultLimits())
	require.NoError(t, err)
	assert.NotEmpty(t, feats)
}
