// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

// Package base58check implements the checksummed base58 encoding used by
// Antelope key and signature strings. The checksum is the first 4 bytes of
// RIPEMD-160 over the payload followed by an optional key-type suffix
// (e.g. "K1", "R1").
package base58check

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/decred/base58"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // the Antelope key-string format mandates RIPEMD-160
)

func checksum(payload []byte, suffix string) []byte {
	h := ripemd160.New()
	h.Write(payload)
	h.Write([]byte(suffix))
	return h.Sum(nil)[:4]
}

// Encode returns the base58 string of payload followed by its 4-byte
// ripemd160 checksum.
func Encode(payload []byte, suffix string) string {
	return base58.Encode(append(append([]byte{}, payload...), checksum(payload, suffix)...))
}

// Decode parses a base58 string, verifies the trailing 4-byte ripemd160
// checksum and returns the payload without it.
func Decode(s string, suffix string) ([]byte, error) {
	decoded := base58.Decode(s)
	if len(decoded) == 0 && len(s) != 0 {
		return nil, fmt.Errorf("invalid base58 string %q", s)
	}
	if len(decoded) < 5 {
		return nil, fmt.Errorf("base58 string %q too short to carry a checksum", s)
	}
	payload := decoded[:len(decoded)-4]
	if !bytes.Equal(decoded[len(decoded)-4:], checksum(payload, suffix)) {
		return nil, fmt.Errorf("checksum mismatch in base58 string %q", s)
	}
	return payload, nil
}

// DecodeSha256Check parses a base58 string whose trailing 4-byte checksum is
// a double SHA-256, the scheme used by legacy WIF private keys.
func DecodeSha256Check(s string) ([]byte, error) {
	decoded := base58.Decode(s)
	if len(decoded) == 0 && len(s) != 0 {
		return nil, fmt.Errorf("invalid base58 string %q", s)
	}
	if len(decoded) < 5 {
		return nil, fmt.Errorf("base58 string %q too short to carry a checksum", s)
	}
	payload := decoded[:len(decoded)-4]
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	if !bytes.Equal(decoded[len(decoded)-4:], second[:4]) {
		return nil, fmt.Errorf("checksum mismatch in base58 string %q", s)
	}
	return payload, nil
}
