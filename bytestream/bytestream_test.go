package bytestream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWrite(t *testing.T) {
	bs := New()
	_ = bs.WriteByte(0x01)
	bs.WriteBytes([]byte{0x02, 0x03, 0x04})

	assert.Equal(t, "01020304", bs.HexData())

	b, err := bs.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), b)

	buf, err := bs.ReadBytes(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x03}, buf)

	assert.Equal(t, []byte{0x04}, bs.Leftover())
}

func TestReadPastEnd(t *testing.T) {
	bs := From([]byte{0xaa})

	_, err := bs.ReadBytes(3)
	require.Error(t, err)

	var streamErr *StreamError
	require.ErrorAs(t, err, &streamErr)
	assert.Equal(t, 3, streamErr.Wanted)
	assert.Equal(t, 1, streamErr.Available)

	// the failed read did not advance the cursor
	b, err := bs.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0xaa), b)

	_, err = bs.ReadByte()
	require.Error(t, err)
}

func TestFromHex(t *testing.T) {
	bs, err := FromHex("DEADbeef")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, bs.Data())

	_, err = FromHex("abc")
	require.Error(t, err)

	_, err = FromHex("zz")
	require.Error(t, err)
}

func TestClear(t *testing.T) {
	bs := From([]byte{1, 2, 3})
	_, err := bs.ReadByte()
	require.NoError(t, err)

	bs.Clear()
	assert.Empty(t, bs.Data())
	assert.Empty(t, bs.Leftover())
}
