// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"fmt"

	"github.com/digigaia/kudu-go/bytestream"
)

// WriteVarUint32 appends n in LEB128 form, 7 bits per byte with the high bit
// as continuation marker. Values below 128 take a single byte.
func WriteVarUint32(bs *bytestream.ByteStream, n uint32) {
	for {
		if n>>7 != 0 {
			_ = bs.WriteByte(byte(0x80 | (n & 0x7f)))
			n >>= 7
		} else {
			_ = bs.WriteByte(byte(n))
			break
		}
	}
}

// ReadVarUint32 reads a LEB128 value. A 32-bit value fits in at most 5
// bytes, so a 5th byte carrying a continuation bit is rejected.
func ReadVarUint32(bs *bytestream.ByteStream) (uint32, error) {
	var result uint32
	for i := 0; ; i++ {
		if i >= 5 {
			return 0, fmt.Errorf("varuint32 longer than 5 bytes")
		}
		b, err := bs.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			break
		}
	}
	return result, nil
}

// WriteVarInt32 appends n using zigzag encoding over LEB128.
func WriteVarInt32(bs *bytestream.ByteStream, n int32) {
	WriteVarUint32(bs, uint32((n<<1)^(n>>31)))
}

func ReadVarInt32(bs *bytestream.ByteStream) (int32, error) {
	n, err := ReadVarUint32(bs)
	if err != nil {
		return 0, err
	}
	return int32(n>>1) ^ -int32(n&1), nil
}
