// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

// Package types implements the Antelope built-in types: their canonical
// binary layout, their textual forms and their JSON conversions.
package types

// Type identifies one of the built-in Antelope types. TypeByName maps an
// ABI type name to its Type; the compiled ABI does not store the resolved
// Type, so the encoder and decoder look the name up on every call.
type Type int

const (
	BoolType Type = iota
	Int8Type
	Int16Type
	Int32Type
	Int64Type
	Int128Type
	Uint8Type
	Uint16Type
	Uint32Type
	Uint64Type
	Uint128Type
	VarInt32Type
	VarUint32Type
	Float32Type
	Float64Type
	Float128Type
	BytesType
	StringType
	TimePointType
	TimePointSecType
	BlockTimestampType
	Checksum160Type
	Checksum256Type
	Checksum512Type
	PublicKeyType
	PrivateKeyType
	SignatureType
	NameType
	SymbolCodeType
	SymbolType
	AssetType
	ExtendedAssetType
)

var typeNames = map[Type]string{
	BoolType:           "bool",
	Int8Type:           "int8",
	Int16Type:          "int16",
	Int32Type:          "int32",
	Int64Type:          "int64",
	Int128Type:         "int128",
	Uint8Type:          "uint8",
	Uint16Type:         "uint16",
	Uint32Type:         "uint32",
	Uint64Type:         "uint64",
	Uint128Type:        "uint128",
	VarInt32Type:       "varint32",
	VarUint32Type:      "varuint32",
	Float32Type:        "float32",
	Float64Type:        "float64",
	Float128Type:       "float128",
	BytesType:          "bytes",
	StringType:         "string",
	TimePointType:      "time_point",
	TimePointSecType:   "time_point_sec",
	BlockTimestampType: "block_timestamp_type",
	Checksum160Type:    "checksum160",
	Checksum256Type:    "checksum256",
	Checksum512Type:    "checksum512",
	PublicKeyType:      "public_key",
	PrivateKeyType:     "private_key",
	SignatureType:      "signature",
	NameType:           "name",
	SymbolCodeType:     "symbol_code",
	SymbolType:         "symbol",
	AssetType:          "asset",
	ExtendedAssetType:  "extended_asset",
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		m[name] = t
	}
	return m
}()

func (t Type) String() string {
	return typeNames[t]
}

// TypeByName resolves a built-in type from its ABI name.
func TypeByName(name string) (Type, bool) {
	t, ok := typesByName[name]
	return t, ok
}
