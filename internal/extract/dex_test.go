package extract

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMinimalDEX assembles a byte buffer with just enough of a DEX
// header and a string_ids table to exercise dexStringTable: one string
// "Lcom/example/Foo;" stored as a ULEB128 length prefix followed by
// MUTF-8 bytes (plain ASCII here, identical to UTF-8 for this test).
func buildMinimalDEX(t *testing.T) []byte {
	t.Helper()
	str := "Lcom/example/Foo;"
	header := make([]byte, 112)
	copy(header, "dex\n035\x00")

	stringIDsOff := len(header)
	stringData := stringIDsOff + 4 // one string_id entry (uint32 offset)

	binary.LittleEndian.PutUint32(header[dexStringIDsSizeOff:], 1)
	binary.LittleEndian.PutUint32(header[dexStringIDsOff:], uint32(stringIDsOff))

	buf := append([]byte{}, header...)
	idEntry := make([]byte, 4)
	binary.LittleEndian.PutUint32(idEntry, uint32(stringData))
	buf = append(buf, idEntry...)
	buf = append(buf, byte(len(str))) // ULEB128 length, fits in one byte
	buf = append(buf, []byte(str)...)
	buf = append(buf, 0) // NUL terminator
	return buf
}

func TestDexStringTableDecodesMUTF8(t *testing.T) {
	data := buildMinimalDEX(t)
	strs := dexStringTable(data)
	require.Len(t, strs, 1)
	assert.Equal(t, "Lcom/example/Foo;", strs[0])
}

func TestDecodeULEB128SingleByte(t *testing.T) {
	v, n := decodeULEB128([]byte{0x7f})
	assert.Equal(t, uint32(0x7f), v)
	assert.Equal(t, 1, n)
}

func TestDecodeULEB128MultiByte(t *testing.T) {
	v, n := decodeULEB128([]byte{0x80, 0x01})
	assert.Equal(t, uint32(128), v)
	assert.Equal(t, 2, n)
}

func TestDexStringsEmitsStringTable(t *testing.T) {
	data := buildMinimalDEX(t)
	feats, err := dexStrings(data, "classes.dex")
	require.NoError(t, err)
	found := false
	for _, f := range feats {
		if f.Text == "Lcom/example/Foo;" {
			found = true
		}
	}
	assert.True(t, found)
}
