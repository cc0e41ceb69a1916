// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

// Package bytestream provides the byte buffer underlying the ABI codec:
// writes append at the end, reads advance a cursor from the front.
package bytestream

import (
	"encoding/hex"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// StreamError is returned when a read runs past the end of the stream.
type StreamError struct {
	Wanted    int
	Available int
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream ended, tried to read %d byte(s) but only %d available", e.Wanted, e.Available)
}

// HexError is returned when constructing a stream from an invalid hex string.
type HexError struct {
	Message string
}

func (e *HexError) Error() string {
	return e.Message
}

// ByteStream owns a growable byte buffer and a read cursor. Writes are
// infallible appends, reads are fallible and never seek backwards. A stream
// must not be shared between goroutines during a single encode or decode.
type ByteStream struct {
	data    []byte
	readPos int
}

func New() *ByteStream {
	return &ByteStream{}
}

// From takes ownership of the given buffer and sets the cursor at the start.
func From(data []byte) *ByteStream {
	return &ByteStream{data: data}
}

// FromHex builds a stream from a hex string, upper or lower case. The string
// must have an even number of characters and contain only hex digits.
func FromHex(s string) (*ByteStream, error) {
	if len(s)%2 != 0 {
		return nil, &HexError{Message: "odd number of chars in hex representation"}
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, &HexError{Message: fmt.Sprintf("invalid hex character: %v", err)}
	}
	return From(data), nil
}

// Data returns the full underlying buffer, including already-read bytes.
func (bs *ByteStream) Data() []byte {
	return bs.data
}

// Pop detaches and returns the underlying buffer, leaving the stream empty.
func (bs *ByteStream) Pop() []byte {
	data := bs.data
	bs.data = nil
	bs.readPos = 0
	return data
}

// Clear resets both the buffer and the read cursor.
func (bs *ByteStream) Clear() {
	bs.data = bs.data[:0]
	bs.readPos = 0
}

// HexData returns the full buffer as a lowercase hex string.
func (bs *ByteStream) HexData() string {
	return hex.EncodeToString(bs.data)
}

// Leftover returns the unread tail of the stream. The binary-extension rules
// use it to detect the end of a struct.
func (bs *ByteStream) Leftover() []byte {
	return bs.data[bs.readPos:]
}

// WriteByte appends a single byte. It never fails; the error return only
// satisfies io.ByteWriter.
func (bs *ByteStream) WriteByte(b byte) error {
	bs.data = append(bs.data, b)
	return nil
}

func (bs *ByteStream) WriteBytes(buf []byte) {
	bs.data = append(bs.data, buf...)
}

func (bs *ByteStream) ReadByte() (byte, error) {
	if bs.readPos == len(bs.data) {
		return 0, &StreamError{Wanted: 1, Available: 0}
	}
	b := bs.data[bs.readPos]
	log.Tracef("read 1 byte - hex: %02x", b)
	bs.readPos++
	return b, nil
}

// ReadBytes returns a view of the next n bytes and advances the cursor. The
// returned slice aliases the stream buffer and is only valid until the next
// write.
func (bs *ByteStream) ReadBytes(n int) ([]byte, error) {
	if bs.readPos+n > len(bs.data) {
		return nil, &StreamError{Wanted: n, Available: len(bs.data) - bs.readPos}
	}
	result := bs.data[bs.readPos : bs.readPos+n]
	log.Tracef("read %d bytes - hex: %x", n, result)
	bs.readPos += n
	return result, nil
}
