// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/digigaia/kudu-go/bytestream"
	"github.com/digigaia/kudu-go/jsonval"
)

// Value is a typed Antelope value: one of the built-in types together with
// its in-memory representation. Values are built either from a JSON variant
// (FromVariant) or from the binary wire form (Unpack), and converted the
// other way with Variant and Pack.
type Value struct {
	typ Type
	v   any
}

func (v Value) Type() Type {
	return v.typ
}

// -----------------------------------------------------------------------------
//     JSON variant -> Value
// -----------------------------------------------------------------------------

// FromVariant converts a JSON value into a typed Value, validating ranges
// and formats. Decoders accept natural alternatives to the canonical form:
// integers may arrive as strings, bytes as hex in either case.
func FromVariant(t Type, variant any) (Value, error) {
	var v any
	var err error

	switch t {
	case BoolType:
		b, ok := variant.(bool)
		if !ok {
			return Value{}, incompatible(t, variant)
		}
		v = b
	case Int8Type:
		v, err = intFromVariant[int8](t, variant, 8)
	case Int16Type:
		v, err = intFromVariant[int16](t, variant, 16)
	case Int32Type:
		v, err = intFromVariant[int32](t, variant, 32)
	case Int64Type:
		v, err = intFromVariant[int64](t, variant, 64)
	case Uint8Type:
		v, err = uintFromVariant[uint8](t, variant, 8)
	case Uint16Type:
		v, err = uintFromVariant[uint16](t, variant, 16)
	case Uint32Type:
		v, err = uintFromVariant[uint32](t, variant, 32)
	case Uint64Type:
		v, err = uintFromVariant[uint64](t, variant, 64)
	case Int128Type:
		v, err = bigIntFromVariant(t, variant, true)
	case Uint128Type:
		v, err = bigIntFromVariant(t, variant, false)
	case VarInt32Type:
		v, err = intFromVariant[int32](t, variant, 32)
	case VarUint32Type:
		v, err = uintFromVariant[uint32](t, variant, 32)
	case Float32Type:
		f, ferr := floatFromVariant(t, variant, 32)
		v, err = float32(f), ferr
	case Float64Type:
		v, err = floatFromVariant(t, variant, 64)
	case Float128Type:
		s, ok := variant.(string)
		if !ok {
			return Value{}, incompatible(t, variant)
		}
		v, err = Float128FromString(s)
	case BytesType:
		s, ok := variant.(string)
		if !ok {
			return Value{}, incompatible(t, variant)
		}
		v, err = hex.DecodeString(s)
	case StringType:
		s, ok := variant.(string)
		if !ok {
			return Value{}, incompatible(t, variant)
		}
		v = s
	case TimePointType:
		v, err = stringOrInt(variant, func(s string) (any, error) { return TimePointFromString(s) },
			func(n int64) any { return TimePoint(n) })
	case TimePointSecType:
		v, err = stringOrInt(variant, func(s string) (any, error) { return TimePointSecFromString(s) },
			func(n int64) any { return TimePointSec(n) })
	case BlockTimestampType:
		v, err = stringOrInt(variant, func(s string) (any, error) { return BlockTimestampFromString(s) },
			func(n int64) any { return BlockTimestamp(n) })
	case Checksum160Type:
		v, err = stringValue(t, variant, func(s string) (any, error) { return Checksum160FromString(s) })
	case Checksum256Type:
		v, err = stringValue(t, variant, func(s string) (any, error) { return Checksum256FromString(s) })
	case Checksum512Type:
		v, err = stringValue(t, variant, func(s string) (any, error) { return Checksum512FromString(s) })
	case PublicKeyType:
		v, err = stringValue(t, variant, func(s string) (any, error) { return PublicKeyFromString(s) })
	case PrivateKeyType:
		v, err = stringValue(t, variant, func(s string) (any, error) { return PrivateKeyFromString(s) })
	case SignatureType:
		v, err = stringValue(t, variant, func(s string) (any, error) { return SignatureFromString(s) })
	case NameType:
		v, err = stringValue(t, variant, func(s string) (any, error) { return NameFromString(s) })
	case SymbolType:
		v, err = stringValue(t, variant, func(s string) (any, error) { return SymbolFromString(s) })
	case SymbolCodeType:
		s, ok := variant.(string)
		if !ok {
			return Value{}, incompatible(t, variant)
		}
		var code uint64
		code, err = SymbolCodeFromString(s)
		v = SymbolCode(code)
	case AssetType:
		v, err = stringValue(t, variant, func(s string) (any, error) { return AssetFromString(s) })
	case ExtendedAssetType:
		v, err = extendedAssetFromVariant(variant)
	default:
		return Value{}, fmt.Errorf("unknown type: %v", t)
	}

	if err != nil {
		return Value{}, err
	}
	return Value{typ: t, v: v}, nil
}

func incompatible(t Type, variant any) error {
	return fmt.Errorf("cannot convert given variant %v to type %q", variant, t)
}

func variantNumberString(variant any) (string, bool) {
	switch x := variant.(type) {
	case json.Number:
		return x.String(), true
	case string:
		return x, true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	}
	return "", false
}

func intFromVariant[T int8 | int16 | int32 | int64](t Type, variant any, bits int) (T, error) {
	s, ok := variantNumberString(variant)
	if !ok {
		return 0, incompatible(t, variant)
	}
	n, err := strconv.ParseInt(s, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to %s: %w", s, t, err)
	}
	return T(n), nil
}

func uintFromVariant[T uint8 | uint16 | uint32 | uint64](t Type, variant any, bits int) (T, error) {
	s, ok := variantNumberString(variant)
	if !ok {
		return 0, incompatible(t, variant)
	}
	n, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to %s: %w", s, t, err)
	}
	return T(n), nil
}

var (
	minInt128  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxInt128  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

func bigIntFromVariant(t Type, variant any, signed bool) (*big.Int, error) {
	s, ok := variantNumberString(variant)
	if !ok {
		return nil, incompatible(t, variant)
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("cannot convert %q to %s", s, t)
	}
	if signed {
		if n.Cmp(minInt128) < 0 || n.Cmp(maxInt128) > 0 {
			return nil, fmt.Errorf("%q out of range for %s", s, t)
		}
	} else {
		if n.Sign() < 0 || n.Cmp(maxUint128) > 0 {
			return nil, fmt.Errorf("%q out of range for %s", s, t)
		}
	}
	return n, nil
}

func floatFromVariant(t Type, variant any, bits int) (float64, error) {
	s, ok := variantNumberString(variant)
	if !ok {
		return 0, incompatible(t, variant)
	}
	f, err := strconv.ParseFloat(s, bits)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to %s: %w", s, t, err)
	}
	return f, nil
}

func stringValue(t Type, variant any, parse func(string) (any, error)) (any, error) {
	s, ok := variant.(string)
	if !ok {
		return nil, incompatible(t, variant)
	}
	return parse(s)
}

// stringOrInt admits the canonical textual form as well as the raw integer
// representation for time types.
func stringOrInt(variant any, fromString func(string) (any, error), fromInt func(int64) any) (any, error) {
	switch x := variant.(type) {
	case string:
		return fromString(x)
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return nil, err
		}
		return fromInt(n), nil
	case int64:
		return fromInt(x), nil
	case uint64:
		return fromInt(int64(x)), nil
	}
	return nil, fmt.Errorf("cannot convert %v to a timestamp", variant)
}

func extendedAssetFromVariant(variant any) (ExtendedAsset, error) {
	obj, ok := variant.(jsonval.Object)
	if !ok {
		return ExtendedAsset{}, incompatible(ExtendedAssetType, variant)
	}
	quantityVar, ok := obj.Get("quantity")
	if !ok {
		return ExtendedAsset{}, fmt.Errorf("extended_asset is missing the quantity field")
	}
	contractVar, ok := obj.Get("contract")
	if !ok {
		return ExtendedAsset{}, fmt.Errorf("extended_asset is missing the contract field")
	}
	quantityStr, ok := quantityVar.(string)
	if !ok {
		return ExtendedAsset{}, incompatible(AssetType, quantityVar)
	}
	contractStr, ok := contractVar.(string)
	if !ok {
		return ExtendedAsset{}, incompatible(NameType, contractVar)
	}
	quantity, err := AssetFromString(quantityStr)
	if err != nil {
		return ExtendedAsset{}, err
	}
	contract, err := NameFromString(contractStr)
	if err != nil {
		return ExtendedAsset{}, err
	}
	return ExtendedAsset{Quantity: quantity, Contract: contract}, nil
}

// -----------------------------------------------------------------------------
//     Value -> binary
// -----------------------------------------------------------------------------

// Pack appends the canonical binary form to the stream. Values are
// validated at construction, so packing cannot fail.
func (v Value) Pack(bs *bytestream.ByteStream) {
	switch v.typ {
	case BoolType:
		if v.v.(bool) {
			_ = bs.WriteByte(1)
		} else {
			_ = bs.WriteByte(0)
		}
	case Int8Type:
		_ = bs.WriteByte(byte(v.v.(int8)))
	case Uint8Type:
		_ = bs.WriteByte(v.v.(uint8))
	case Int16Type:
		writeUint(bs, uint64(uint16(v.v.(int16))), 2)
	case Uint16Type:
		writeUint(bs, uint64(v.v.(uint16)), 2)
	case Int32Type:
		writeUint(bs, uint64(uint32(v.v.(int32))), 4)
	case Uint32Type:
		writeUint(bs, uint64(v.v.(uint32)), 4)
	case Int64Type:
		writeUint(bs, uint64(v.v.(int64)), 8)
	case Uint64Type:
		writeUint(bs, v.v.(uint64), 8)
	case Int128Type:
		bs.WriteBytes(bigIntToLE16(v.v.(*big.Int)))
	case Uint128Type:
		bs.WriteBytes(bigIntToLE16(v.v.(*big.Int)))
	case VarInt32Type:
		WriteVarInt32(bs, v.v.(int32))
	case VarUint32Type:
		WriteVarUint32(bs, v.v.(uint32))
	case Float32Type:
		writeUint(bs, uint64(math.Float32bits(v.v.(float32))), 4)
	case Float64Type:
		writeUint(bs, math.Float64bits(v.v.(float64)), 8)
	case Float128Type:
		f := v.v.(Float128)
		bs.WriteBytes(f[:])
	case BytesType:
		b := v.v.([]byte)
		WriteVarUint32(bs, uint32(len(b)))
		bs.WriteBytes(b)
	case StringType:
		s := v.v.(string)
		WriteVarUint32(bs, uint32(len(s)))
		bs.WriteBytes([]byte(s))
	case TimePointType:
		writeUint(bs, uint64(v.v.(TimePoint)), 8)
	case TimePointSecType:
		writeUint(bs, uint64(v.v.(TimePointSec)), 4)
	case BlockTimestampType:
		writeUint(bs, uint64(v.v.(BlockTimestamp)), 4)
	case Checksum160Type:
		c := v.v.(Checksum160)
		bs.WriteBytes(c[:])
	case Checksum256Type:
		c := v.v.(Checksum256)
		bs.WriteBytes(c[:])
	case Checksum512Type:
		c := v.v.(Checksum512)
		bs.WriteBytes(c[:])
	case PublicKeyType:
		v.v.(*PublicKey).Pack(bs)
	case PrivateKeyType:
		v.v.(*PrivateKey).Pack(bs)
	case SignatureType:
		v.v.(*Signature).Pack(bs)
	case NameType:
		writeUint(bs, v.v.(Name).Uint64(), 8)
	case SymbolType:
		writeUint(bs, v.v.(Symbol).Uint64(), 8)
	case SymbolCodeType:
		writeUint(bs, uint64(v.v.(SymbolCode)), 8)
	case AssetType:
		a := v.v.(Asset)
		writeUint(bs, uint64(a.Amount()), 8)
		writeUint(bs, a.Symbol().Uint64(), 8)
	case ExtendedAssetType:
		ea := v.v.(ExtendedAsset)
		writeUint(bs, uint64(ea.Quantity.Amount()), 8)
		writeUint(bs, ea.Quantity.Symbol().Uint64(), 8)
		writeUint(bs, ea.Contract.Uint64(), 8)
	}
}

func writeUint(bs *bytestream.ByteStream, n uint64, size int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	bs.WriteBytes(buf[:size])
}

// bigIntToLE16 converts a range-checked 128-bit integer to its 16-byte
// little-endian two's complement form.
func bigIntToLE16(n *big.Int) []byte {
	tmp := n
	if n.Sign() < 0 {
		tmp = new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), 128), n)
	}
	var be [16]byte
	tmp.FillBytes(be[:])
	le := make([]byte, 16)
	for i := 0; i < 16; i++ {
		le[i] = be[15-i]
	}
	return le
}

// -----------------------------------------------------------------------------
//     binary -> Value
// -----------------------------------------------------------------------------

// Unpack reads the canonical binary form of the given type from the stream.
func Unpack(t Type, bs *bytestream.ByteStream) (Value, error) {
	var v any

	switch t {
	case BoolType:
		b, err := bs.ReadByte()
		if err != nil {
			return Value{}, err
		}
		switch b {
		case 0:
			v = false
		case 1:
			v = true
		default:
			return Value{}, fmt.Errorf("invalid bool byte: %d", b)
		}
	case Int8Type:
		b, err := bs.ReadByte()
		if err != nil {
			return Value{}, err
		}
		v = int8(b)
	case Uint8Type:
		b, err := bs.ReadByte()
		if err != nil {
			return Value{}, err
		}
		v = b
	case Int16Type:
		n, err := readUint(bs, 2)
		if err != nil {
			return Value{}, err
		}
		v = int16(n)
	case Uint16Type:
		n, err := readUint(bs, 2)
		if err != nil {
			return Value{}, err
		}
		v = uint16(n)
	case Int32Type:
		n, err := readUint(bs, 4)
		if err != nil {
			return Value{}, err
		}
		v = int32(n)
	case Uint32Type:
		n, err := readUint(bs, 4)
		if err != nil {
			return Value{}, err
		}
		v = uint32(n)
	case Int64Type:
		n, err := readUint(bs, 8)
		if err != nil {
			return Value{}, err
		}
		v = int64(n)
	case Uint64Type:
		n, err := readUint(bs, 8)
		if err != nil {
			return Value{}, err
		}
		v = n
	case Int128Type, Uint128Type:
		buf, err := bs.ReadBytes(16)
		if err != nil {
			return Value{}, err
		}
		v = leToBigInt(buf, t == Int128Type)
	case VarInt32Type:
		n, err := ReadVarInt32(bs)
		if err != nil {
			return Value{}, err
		}
		v = n
	case VarUint32Type:
		n, err := ReadVarUint32(bs)
		if err != nil {
			return Value{}, err
		}
		v = n
	case Float32Type:
		n, err := readUint(bs, 4)
		if err != nil {
			return Value{}, err
		}
		v = math.Float32frombits(uint32(n))
	case Float64Type:
		n, err := readUint(bs, 8)
		if err != nil {
			return Value{}, err
		}
		v = math.Float64frombits(n)
	case Float128Type:
		buf, err := bs.ReadBytes(16)
		if err != nil {
			return Value{}, err
		}
		var f Float128
		copy(f[:], buf)
		v = f
	case BytesType:
		b, err := readVarBytes(bs)
		if err != nil {
			return Value{}, err
		}
		v = b
	case StringType:
		b, err := readVarBytes(bs)
		if err != nil {
			return Value{}, err
		}
		v = string(b)
	case TimePointType:
		n, err := readUint(bs, 8)
		if err != nil {
			return Value{}, err
		}
		v = TimePoint(n)
	case TimePointSecType:
		n, err := readUint(bs, 4)
		if err != nil {
			return Value{}, err
		}
		v = TimePointSec(n)
	case BlockTimestampType:
		n, err := readUint(bs, 4)
		if err != nil {
			return Value{}, err
		}
		v = BlockTimestamp(n)
	case Checksum160Type:
		buf, err := bs.ReadBytes(20)
		if err != nil {
			return Value{}, err
		}
		var c Checksum160
		copy(c[:], buf)
		v = c
	case Checksum256Type:
		buf, err := bs.ReadBytes(32)
		if err != nil {
			return Value{}, err
		}
		var c Checksum256
		copy(c[:], buf)
		v = c
	case Checksum512Type:
		buf, err := bs.ReadBytes(64)
		if err != nil {
			return Value{}, err
		}
		var c Checksum512
		copy(c[:], buf)
		v = c
	case PublicKeyType:
		key, err := UnpackPublicKey(bs)
		if err != nil {
			return Value{}, err
		}
		v = key
	case PrivateKeyType:
		key, err := UnpackPrivateKey(bs)
		if err != nil {
			return Value{}, err
		}
		v = key
	case SignatureType:
		sig, err := UnpackSignature(bs)
		if err != nil {
			return Value{}, err
		}
		v = sig
	case NameType:
		n, err := readUint(bs, 8)
		if err != nil {
			return Value{}, err
		}
		v = NameFromUint64(n)
	case SymbolType:
		n, err := readUint(bs, 8)
		if err != nil {
			return Value{}, err
		}
		v = SymbolFromUint64(n)
	case SymbolCodeType:
		n, err := readUint(bs, 8)
		if err != nil {
			return Value{}, err
		}
		v = SymbolCode(n)
	case AssetType:
		a, err := unpackAsset(bs)
		if err != nil {
			return Value{}, err
		}
		v = a
	case ExtendedAssetType:
		a, err := unpackAsset(bs)
		if err != nil {
			return Value{}, err
		}
		n, err := readUint(bs, 8)
		if err != nil {
			return Value{}, err
		}
		v = ExtendedAsset{Quantity: a, Contract: NameFromUint64(n)}
	default:
		return Value{}, fmt.Errorf("unknown type: %v", t)
	}

	return Value{typ: t, v: v}, nil
}

func readUint(bs *bytestream.ByteStream, size int) (uint64, error) {
	buf, err := bs.ReadBytes(size)
	if err != nil {
		return 0, err
	}
	var full [8]byte
	copy(full[:], buf)
	return binary.LittleEndian.Uint64(full[:]), nil
}

// readVarBytes reads a varuint32 length prefix, validates it against the
// remaining stream size, then reads that many bytes.
func readVarBytes(bs *bytestream.ByteStream) ([]byte, error) {
	n, err := ReadVarUint32(bs)
	if err != nil {
		return nil, err
	}
	if int(n) > len(bs.Leftover()) {
		return nil, fmt.Errorf("length prefix %d exceeds remaining stream size %d", n, len(bs.Leftover()))
	}
	buf, err := bs.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	return append([]byte{}, buf...), nil
}

func leToBigInt(le []byte, signed bool) *big.Int {
	var be [16]byte
	for i := 0; i < 16; i++ {
		be[i] = le[15-i]
	}
	n := new(big.Int).SetBytes(be[:])
	if signed && be[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	return n
}

func unpackAsset(bs *bytestream.ByteStream) (Asset, error) {
	amount, err := readUint(bs, 8)
	if err != nil {
		return Asset{}, err
	}
	sym, err := readUint(bs, 8)
	if err != nil {
		return Asset{}, err
	}
	return Asset{amount: int64(amount), symbol: SymbolFromUint64(sym)}, nil
}

// -----------------------------------------------------------------------------
//     Value -> JSON variant
// -----------------------------------------------------------------------------

// Variant converts the value to its canonical JSON form: small integers and
// 64-bit integers are plain numbers, 128-bit integers are quoted strings,
// and the domain types use their textual representations.
func (v Value) Variant() any {
	switch v.typ {
	case BoolType:
		return v.v.(bool)
	case Int8Type:
		return int64(v.v.(int8))
	case Int16Type:
		return int64(v.v.(int16))
	case Int32Type:
		return int64(v.v.(int32))
	case Int64Type:
		return v.v.(int64)
	case Uint8Type:
		return uint64(v.v.(uint8))
	case Uint16Type:
		return uint64(v.v.(uint16))
	case Uint32Type:
		return uint64(v.v.(uint32))
	case Uint64Type:
		return v.v.(uint64)
	case Int128Type, Uint128Type:
		return v.v.(*big.Int)
	case VarInt32Type:
		return int64(v.v.(int32))
	case VarUint32Type:
		return uint64(v.v.(uint32))
	case Float32Type:
		return v.v.(float32)
	case Float64Type:
		return v.v.(float64)
	case Float128Type:
		return v.v.(Float128).String()
	case BytesType:
		return hex.EncodeToString(v.v.([]byte))
	case StringType:
		return v.v.(string)
	case TimePointType:
		return v.v.(TimePoint).String()
	case TimePointSecType:
		return v.v.(TimePointSec).String()
	case BlockTimestampType:
		return v.v.(BlockTimestamp).String()
	case Checksum160Type:
		return v.v.(Checksum160).String()
	case Checksum256Type:
		return v.v.(Checksum256).String()
	case Checksum512Type:
		return v.v.(Checksum512).String()
	case PublicKeyType:
		return v.v.(*PublicKey).String()
	case PrivateKeyType:
		return v.v.(*PrivateKey).String()
	case SignatureType:
		return v.v.(*Signature).String()
	case NameType:
		return v.v.(Name).String()
	case SymbolType:
		return v.v.(Symbol).String()
	case SymbolCodeType:
		return v.v.(SymbolCode).String()
	case AssetType:
		return v.v.(Asset).String()
	case ExtendedAssetType:
		ea := v.v.(ExtendedAsset)
		return jsonval.Object{
			{Key: "quantity", Value: ea.Quantity.String()},
			{Key: "contract", Value: ea.Contract.String()},
		}
	}
	return nil
}
