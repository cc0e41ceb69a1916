package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRejectsUnknownVersion(t *testing.T) {
	for _, version := range []string{"", "eosio::abi/2.0", "totally-not-an-abi"} {
		_, err := NewABI(&Definition{Version: version})
		require.Error(t, err, version)
		var versionErr *VersionError
		assert.ErrorAs(t, err, &versionErr)
	}
}

func TestRejectsAliasCycle(t *testing.T) {
	_, err := NewABIFromJSON(`{
		"version": "eosio::abi/1.2",
		"types": [
			{ "new_type_name": "a", "type": "b" },
			{ "new_type_name": "b", "type": "a" }
		]
	}`)
	require.Error(t, err)
	var integrityErr *IntegrityError
	assert.ErrorAs(t, err, &integrityErr)
}

func TestRejectsSelfAlias(t *testing.T) {
	_, err := NewABIFromJSON(`{
		"version": "eosio::abi/1.2",
		"types": [
			{ "new_type_name": "a", "type": "a" }
		]
	}`)
	require.Error(t, err)
}

func TestRejectsStructInheritanceCycle(t *testing.T) {
	_, err := NewABIFromJSON(`{
		"version": "eosio::abi/1.2",
		"structs": [
			{ "name": "a", "base": "b", "fields": [] },
			{ "name": "b", "base": "a", "fields": [] }
		]
	}`)
	require.Error(t, err)
	var integrityErr *IntegrityError
	assert.ErrorAs(t, err, &integrityErr)
}

func TestRejectsUnknownBase(t *testing.T) {
	_, err := NewABIFromJSON(`{
		"version": "eosio::abi/1.2",
		"structs": [
			{ "name": "a", "base": "ghost", "fields": [] }
		]
	}`)
	require.Error(t, err)
}

func TestRejectsUnresolvedFieldType(t *testing.T) {
	_, err := NewABIFromJSON(`{
		"version": "eosio::abi/1.2",
		"structs": [
			{ "name": "a", "base": "", "fields": [
				{ "name": "x", "type": "mystery[]" }
			] }
		]
	}`)
	require.Error(t, err)
}

func TestRejectsFieldShadowing(t *testing.T) {
	// a derived struct re-declaring a base field name is malformed
	_, err := NewABIFromJSON(`{
		"version": "eosio::abi/1.2",
		"structs": [
			{ "name": "base", "base": "", "fields": [
				{ "name": "x", "type": "uint8" }
			] },
			{ "name": "derived", "base": "base", "fields": [
				{ "name": "x", "type": "string" }
			] }
		]
	}`)
	require.Error(t, err)
	var integrityErr *IntegrityError
	assert.ErrorAs(t, err, &integrityErr)
}

func TestRejectsNonTrailingBinaryExtension(t *testing.T) {
	_, err := NewABIFromJSON(`{
		"version": "eosio::abi/1.2",
		"structs": [
			{ "name": "a", "base": "", "fields": [
				{ "name": "x", "type": "uint8$" },
				{ "name": "y", "type": "uint8" }
			] }
		]
	}`)
	require.Error(t, err)
}

func TestRejectsEmptyVariant(t *testing.T) {
	_, err := NewABIFromJSON(`{
		"version": "eosio::abi/1.2",
		"variants": [
			{ "name": "v", "types": [] }
		]
	}`)
	require.Error(t, err)
}

func TestRejectsUnresolvedVariantBranch(t *testing.T) {
	_, err := NewABIFromJSON(`{
		"version": "eosio::abi/1.2",
		"variants": [
			{ "name": "v", "types": ["uint8", "ghost"] }
		]
	}`)
	require.Error(t, err)
}

func TestSelfRecursiveStructCompiles(t *testing.T) {
	// recursion through an optional is legal; only unbounded walks are
	// stopped, at runtime, by the depth counter
	_, err := NewABIFromJSON(`{
		"version": "eosio::abi/1.2",
		"structs": [
			{ "name": "node", "base": "", "fields": [
				{ "name": "value", "type": "uint32" },
				{ "name": "next", "type": "node?" }
			] }
		]
	}`)
	require.NoError(t, err)
}
