// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

// Package abi implements the schema-driven codec: parsing and compiling
// ABI definitions, and converting values between their JSON and binary
// forms under the guidance of a compiled schema.
package abi

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/digigaia/kudu-go/bytestream"
	"github.com/digigaia/kudu-go/jsonval"
)

// Definition is a parsed, not yet compiled ABI. Its layout mirrors the
// JSON schema served by `/v1/chain/get_abi`; unknown keys are ignored.
type Definition struct {
	Version          string             `json:"version"`
	Types            []TypeDef          `json:"types,omitempty"`
	Structs          []StructDef        `json:"structs,omitempty"`
	Actions          []ActionDef        `json:"actions,omitempty"`
	Tables           []TableDef         `json:"tables,omitempty"`
	RicardianClauses []ClausePair       `json:"ricardian_clauses,omitempty"`
	ErrorMessages    []ErrorMessage     `json:"error_messages,omitempty"`
	Variants         []VariantDef       `json:"variants,omitempty"`
	ActionResults    []ActionResult     `json:"action_results,omitempty"`
	KvTables         map[string]KvTable `json:"kv_tables,omitempty"`
}

// TypeDef declares an alias: NewTypeName can be used wherever Type can.
type TypeDef struct {
	NewTypeName string `json:"new_type_name"`
	Type        string `json:"type"`
}

type FieldDef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type StructDef struct {
	Name   string     `json:"name"`
	Base   string     `json:"base"`
	Fields []FieldDef `json:"fields"`
}

type ActionDef struct {
	Name              string `json:"name"`
	Type              string `json:"type"`
	RicardianContract string `json:"ricardian_contract"`
}

type TableDef struct {
	Name      string   `json:"name"`
	IndexType string   `json:"index_type"`
	KeyNames  []string `json:"key_names,omitempty"`
	KeyTypes  []string `json:"key_types,omitempty"`
	Type      string   `json:"type"`
}

type ClausePair struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

type ErrorMessage struct {
	ErrorCode uint64 `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

// VariantDef declares a sum type: a value is one of the listed types,
// discriminated on the wire by a varuint32 tag indexing this list.
type VariantDef struct {
	Name  string   `json:"name"`
	Types []string `json:"types"`
}

type ActionResult struct {
	Name       string `json:"name"`
	ResultType string `json:"result_type"`
}

type KvTable struct {
	Type             string                  `json:"type"`
	PrimaryIndex     KvTableIndex            `json:"primary_index"`
	SecondaryIndices map[string]KvTableIndex `json:"secondary_indices,omitempty"`
}

type KvTableIndex struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

// DefinitionFromJSON parses an ABI from its JSON text and validates the
// version string.
func DefinitionFromJSON(s string) (*Definition, error) {
	var def Definition
	if err := json.Unmarshal([]byte(s), &def); err != nil {
		return nil, fmt.Errorf("cannot deserialize ABI definition from JSON: %w", err)
	}
	if err := checkVersion(def.Version); err != nil {
		return nil, err
	}
	return &def, nil
}

func checkVersion(version string) error {
	if !strings.HasPrefix(version, "eosio::abi/1.") {
		return &VersionError{Version: version}
	}
	return nil
}

// schemaABI lazily compiles the embedded ABI schema, which describes the
// binary layout of ABI definitions themselves.
var schemaABI = sync.OnceValues(func() (*ABI, error) {
	def, err := DefinitionFromJSON(ABISchema)
	if err != nil {
		return nil, err
	}
	return NewABI(def)
})

// DefinitionFromBinary decodes an ABI from its binary form, as stored
// on-chain, by running the codec against the embedded ABI schema.
func DefinitionFromBinary(data []byte) (*Definition, error) {
	schema, err := schemaABI()
	if err != nil {
		return nil, err
	}
	bs := bytestream.From(data)
	v, err := schema.DecodeVariant(bs, "abi_def")
	if err != nil {
		return nil, err
	}
	text, err := jsonval.Marshal(v)
	if err != nil {
		return nil, err
	}
	return DefinitionFromJSON(text)
}

// DefinitionFromHexABI decodes an ABI from the hex form of its binary
// representation.
func DefinitionFromHexABI(s string) (*Definition, error) {
	bs, err := bytestream.FromHex(s)
	if err != nil {
		return nil, fmt.Errorf("cannot decode hex representation for hex ABI: %w", err)
	}
	return DefinitionFromBinary(bs.Data())
}
