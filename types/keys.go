// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"fmt"
	"strings"

	"github.com/digigaia/kudu-go/bytestream"
	"github.com/digigaia/kudu-go/crypto/base58check"
)

// KeyType is the curve/scheme family of a key or signature: secp256k1,
// secp256r1 or WebAuthn. It is the leading tag byte of the binary form and
// the middle component of the text form (PUB_K1_..., SIG_R1_...).
type KeyType byte

const (
	KeyTypeK1 KeyType = 0
	KeyTypeR1 KeyType = 1
	KeyTypeWA KeyType = 2
)

func (kt KeyType) String() string {
	switch kt {
	case KeyTypeK1:
		return "K1"
	case KeyTypeR1:
		return "R1"
	case KeyTypeWA:
		return "WA"
	}
	return "??"
}

func keyTypeFromString(s string) (KeyType, error) {
	switch s {
	case "K1":
		return KeyTypeK1, nil
	case "R1":
		return KeyTypeR1, nil
	case "WA":
		return KeyTypeWA, nil
	}
	return 0, fmt.Errorf("unknown key type: %q", s)
}

const compressedPubKeyLen = 33
const ecdsaSignatureLen = 65

// PublicKey holds a key-family tag and the family-defined key body. For K1
// and R1 the body is the 33-byte compressed point; for WA it is the
// compressed point, a user-presence byte and the length-prefixed relying
// party id.
type PublicKey struct {
	Type KeyType
	Data []byte
}

// PublicKeyFromString parses the canonical PUB_XX_ form as well as the
// legacy EOS form.
func PublicKeyFromString(s string) (*PublicKey, error) {
	if strings.HasPrefix(s, "PUB_") && len(s) > 7 {
		kt, err := keyTypeFromString(s[4:6])
		if err != nil {
			return nil, fmt.Errorf("invalid public key %q: %w", s, err)
		}
		data, err := base58check.Decode(s[7:], kt.String())
		if err != nil {
			return nil, fmt.Errorf("invalid public key %q: %w", s, err)
		}
		return newPublicKey(kt, data)
	}
	if strings.HasPrefix(s, "EOS") {
		// legacy K1 form without a key-type suffix in the checksum
		data, err := base58check.Decode(s[3:], "")
		if err != nil {
			return nil, fmt.Errorf("invalid public key %q: %w", s, err)
		}
		return newPublicKey(KeyTypeK1, data)
	}
	return nil, fmt.Errorf("public key %q has neither PUB_ nor EOS prefix", s)
}

func newPublicKey(kt KeyType, data []byte) (*PublicKey, error) {
	if kt != KeyTypeWA && len(data) != compressedPubKeyLen {
		return nil, fmt.Errorf("%s public key payload must be %d bytes, got %d", kt, compressedPubKeyLen, len(data))
	}
	return &PublicKey{Type: kt, Data: data}, nil
}

func (k *PublicKey) String() string {
	return "PUB_" + k.Type.String() + "_" + base58check.Encode(k.Data, k.Type.String())
}

func (k *PublicKey) Pack(bs *bytestream.ByteStream) {
	_ = bs.WriteByte(byte(k.Type))
	bs.WriteBytes(k.Data)
}

func UnpackPublicKey(bs *bytestream.ByteStream) (*PublicKey, error) {
	tag, err := bs.ReadByte()
	if err != nil {
		return nil, err
	}
	switch KeyType(tag) {
	case KeyTypeK1, KeyTypeR1:
		data, err := bs.ReadBytes(compressedPubKeyLen)
		if err != nil {
			return nil, err
		}
		return &PublicKey{Type: KeyType(tag), Data: append([]byte{}, data...)}, nil
	case KeyTypeWA:
		// compressed point, user presence byte, then the relying party id
		fixed, err := bs.ReadBytes(compressedPubKeyLen + 1)
		if err != nil {
			return nil, err
		}
		data := append([]byte{}, fixed...)
		data, err = appendVarBytes(data, bs)
		if err != nil {
			return nil, err
		}
		return &PublicKey{Type: KeyTypeWA, Data: data}, nil
	}
	return nil, fmt.Errorf("unknown public key tag: %d", tag)
}

// Signature holds a key-family tag and the family-defined signature body.
// For K1 and R1 the body is the 65-byte recoverable ECDSA signature; for WA
// it additionally carries the length-prefixed authenticator data and client
// JSON.
type Signature struct {
	Type KeyType
	Data []byte
}

func SignatureFromString(s string) (*Signature, error) {
	if !strings.HasPrefix(s, "SIG_") || len(s) <= 7 {
		return nil, fmt.Errorf("signature %q does not have a SIG_XX_ prefix", s)
	}
	kt, err := keyTypeFromString(s[4:6])
	if err != nil {
		return nil, fmt.Errorf("invalid signature %q: %w", s, err)
	}
	data, err := base58check.Decode(s[7:], kt.String())
	if err != nil {
		return nil, fmt.Errorf("invalid signature %q: %w", s, err)
	}
	if kt != KeyTypeWA && len(data) != ecdsaSignatureLen {
		return nil, fmt.Errorf("%s signature payload must be %d bytes, got %d", kt, ecdsaSignatureLen, len(data))
	}
	return &Signature{Type: kt, Data: data}, nil
}

func (s *Signature) String() string {
	return "SIG_" + s.Type.String() + "_" + base58check.Encode(s.Data, s.Type.String())
}

func (s *Signature) Pack(bs *bytestream.ByteStream) {
	_ = bs.WriteByte(byte(s.Type))
	bs.WriteBytes(s.Data)
}

func UnpackSignature(bs *bytestream.ByteStream) (*Signature, error) {
	tag, err := bs.ReadByte()
	if err != nil {
		return nil, err
	}
	switch KeyType(tag) {
	case KeyTypeK1, KeyTypeR1:
		data, err := bs.ReadBytes(ecdsaSignatureLen)
		if err != nil {
			return nil, err
		}
		return &Signature{Type: KeyType(tag), Data: append([]byte{}, data...)}, nil
	case KeyTypeWA:
		// signature, then authenticator data and client JSON, each
		// length-prefixed
		fixed, err := bs.ReadBytes(ecdsaSignatureLen)
		if err != nil {
			return nil, err
		}
		data := append([]byte{}, fixed...)
		for i := 0; i < 2; i++ {
			data, err = appendVarBytes(data, bs)
			if err != nil {
				return nil, err
			}
		}
		return &Signature{Type: KeyTypeWA, Data: data}, nil
	}
	return nil, fmt.Errorf("unknown signature tag: %d", tag)
}

// PrivateKey holds a key-family tag and the 32-byte secret. WebAuthn has no
// extractable private keys.
type PrivateKey struct {
	Type KeyType
	Data []byte
}

// PrivateKeyFromString parses the canonical PVT_XX_ form as well as the
// legacy WIF form (base58 with a double-sha256 checksum and a 0x80 version
// byte).
func PrivateKeyFromString(s string) (*PrivateKey, error) {
	if strings.HasPrefix(s, "PVT_") && len(s) > 7 {
		kt, err := keyTypeFromString(s[4:6])
		if err != nil || kt == KeyTypeWA {
			return nil, fmt.Errorf("invalid private key %q", s)
		}
		data, err := base58check.Decode(s[7:], kt.String())
		if err != nil {
			return nil, fmt.Errorf("invalid private key %q: %w", s, err)
		}
		if len(data) != 32 {
			return nil, fmt.Errorf("private key payload must be 32 bytes, got %d", len(data))
		}
		return &PrivateKey{Type: kt, Data: data}, nil
	}

	payload, err := base58check.DecodeSha256Check(s)
	if err != nil {
		return nil, fmt.Errorf("invalid private key %q: %w", s, err)
	}
	if len(payload) == 34 && payload[33] == 0x01 {
		payload = payload[:33] // drop the WIF compression marker
	}
	if len(payload) != 33 || payload[0] != 0x80 {
		return nil, fmt.Errorf("invalid WIF private key %q", s)
	}
	return &PrivateKey{Type: KeyTypeK1, Data: payload[1:]}, nil
}

func (k *PrivateKey) String() string {
	return "PVT_" + k.Type.String() + "_" + base58check.Encode(k.Data, k.Type.String())
}

func (k *PrivateKey) Pack(bs *bytestream.ByteStream) {
	_ = bs.WriteByte(byte(k.Type))
	bs.WriteBytes(k.Data)
}

func UnpackPrivateKey(bs *bytestream.ByteStream) (*PrivateKey, error) {
	tag, err := bs.ReadByte()
	if err != nil {
		return nil, err
	}
	if KeyType(tag) != KeyTypeK1 && KeyType(tag) != KeyTypeR1 {
		return nil, fmt.Errorf("unknown private key tag: %d", tag)
	}
	data, err := bs.ReadBytes(32)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{Type: KeyType(tag), Data: append([]byte{}, data...)}, nil
}

// appendVarBytes reads a varuint32 length-prefixed chunk and appends the
// prefix and the chunk verbatim to dst, preserving the wire form.
func appendVarBytes(dst []byte, bs *bytestream.ByteStream) ([]byte, error) {
	n, err := ReadVarUint32(bs)
	if err != nil {
		return nil, err
	}
	if int(n) > len(bs.Leftover()) {
		return nil, fmt.Errorf("length prefix %d exceeds remaining stream size %d", n, len(bs.Leftover()))
	}
	chunk, err := bs.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	var prefix bytestream.ByteStream
	WriteVarUint32(&prefix, n)
	dst = append(dst, prefix.Data()...)
	return append(dst, chunk...), nil
}
