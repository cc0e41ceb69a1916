package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digigaia/kudu-go/bytestream"
)

func TestVarUint32Sizes(t *testing.T) {
	cases := []struct {
		value uint32
		size  int
	}{
		{0, 1},
		{127, 1},
		{128, 2},
		{16383, 2},
		{16384, 3},
		{^uint32(0), 5},
	}

	for _, c := range cases {
		bs := bytestream.New()
		WriteVarUint32(bs, c.value)
		assert.Len(t, bs.Data(), c.size, "value %d", c.value)

		decoded, err := ReadVarUint32(bs)
		require.NoError(t, err)
		assert.Equal(t, c.value, decoded)
	}
}

func TestVarUint32KnownBytes(t *testing.T) {
	bs := bytestream.New()
	WriteVarUint32(bs, 300)
	assert.Equal(t, []byte{0xac, 0x02}, bs.Data())
}

func TestVarUint32RejectsOverlongEncoding(t *testing.T) {
	// a 6th byte would be needed, which can never happen for 32 bits
	bs := bytestream.From([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01})
	_, err := ReadVarUint32(bs)
	require.Error(t, err)
}

func TestVarUint32TruncatedInput(t *testing.T) {
	bs := bytestream.From([]byte{0x80})
	_, err := ReadVarUint32(bs)
	require.Error(t, err)
}

func TestVarInt32ZigZag(t *testing.T) {
	cases := []struct {
		value int32
		wire  []byte
	}{
		{0, []byte{0x00}},
		{-1, []byte{0x01}},
		{1, []byte{0x02}},
		{-2, []byte{0x03}},
		{2147483647, []byte{0xfe, 0xff, 0xff, 0xff, 0x0f}},
		{-2147483648, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}

	for _, c := range cases {
		bs := bytestream.New()
		WriteVarInt32(bs, c.value)
		assert.Equal(t, c.wire, bs.Data(), "value %d", c.value)

		decoded, err := ReadVarInt32(bs)
		require.NoError(t, err)
		assert.Equal(t, c.value, decoded)
	}
}
