package abi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digigaia/kudu-go/bytestream"
	"github.com/digigaia/kudu-go/jsonval"
)

func emptyABI(t *testing.T) *ABI {
	t.Helper()
	a, err := NewABI(&Definition{Version: "eosio::abi/1.2"})
	require.NoError(t, err)
	return a
}

func compile(t *testing.T, text string) *ABI {
	t.Helper()
	a, err := NewABIFromJSON(text)
	require.NoError(t, err)
	return a
}

func encodeToHex(t *testing.T, a *ABI, typename, jsonText string) string {
	t.Helper()
	v, err := jsonval.Parse(jsonText)
	require.NoError(t, err)
	ds := bytestream.New()
	require.NoError(t, a.EncodeVariant(ds, typename, v))
	return ds.HexData()
}

func decodeToJSON(t *testing.T, a *ABI, typename, hexText string) string {
	t.Helper()
	bs, err := bytestream.FromHex(hexText)
	require.NoError(t, err)
	v, err := a.DecodeVariant(bs, typename)
	require.NoError(t, err)
	assert.Empty(t, bs.Leftover())
	out, err := jsonval.Marshal(v)
	require.NoError(t, err)
	return out
}

func TestEncodeArray(t *testing.T) {
	a := emptyABI(t)
	assert.Equal(t, "0303666f6f036261720362617a",
		encodeToHex(t, a, "string[]", `["foo","bar","baz"]`))
}

func TestDecodeArray(t *testing.T) {
	a := emptyABI(t)
	assert.Equal(t, `["foo","bar","baz"]`,
		decodeToJSON(t, a, "string[]", "0303666f6f036261720362617a"))
}

const inheritanceABI = `{
	"version": "eosio::abi/1.2",
	"structs": [
		{
			"name": "foo",
			"base": "",
			"fields": [
				{ "name": "one", "type": "string" },
				{ "name": "two", "type": "int8" }
			]
		},
		{
			"name": "bar",
			"base": "foo",
			"fields": [
				{ "name": "three", "type": "name?" },
				{ "name": "four", "type": "string[]?" }
			]
		}
	]
}`

func TestEncodeStructWithBase(t *testing.T) {
	a := compile(t, inheritanceABI)
	obj := `{"one":"one","two":2,"three":"two","four":["f","o","u","r"]}`
	assert.Equal(t, "036f6e65020100000000000028cf01040166016f01750172",
		encodeToHex(t, a, "bar", obj))
}

func TestDecodeStructWithBase(t *testing.T) {
	a := compile(t, inheritanceABI)
	assert.Equal(t, `{"one":"one","two":2,"three":"two","four":["f","o","u","r"]}`,
		decodeToJSON(t, a, "bar", "036f6e65020100000000000028cf01040166016f01750172"))
}

func TestEncodeOptional(t *testing.T) {
	a := compile(t, inheritanceABI)

	// null optionals encode as a single 0 byte
	assert.Equal(t, "036f6e65020000",
		encodeToHex(t, a, "bar", `{"one":"one","two":2,"three":null,"four":null}`))
}

func TestDecodeOptionalFlagStrict(t *testing.T) {
	a := emptyABI(t)
	bs := bytestream.From([]byte{0x02})
	_, err := a.DecodeVariant(bs, "int8?")
	require.Error(t, err)
}

func TestMissingRequiredField(t *testing.T) {
	a := compile(t, inheritanceABI)
	v, err := jsonval.Parse(`{"one":"one"}`)
	require.NoError(t, err)
	err = a.EncodeVariant(bytestream.New(), "bar", v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing field")
}

func TestNullForNonOptionalField(t *testing.T) {
	a := compile(t, inheritanceABI)
	v, err := jsonval.Parse(`{"one":null,"two":2,"three":null,"four":null}`)
	require.NoError(t, err)
	err = a.EncodeVariant(bytestream.New(), "bar", v)
	require.Error(t, err)
}

func TestSizedArray(t *testing.T) {
	a := emptyABI(t)

	assert.Equal(t, "010203", encodeToHex(t, a, "uint8[3]", `[1,2,3]`))
	assert.Equal(t, `[1,2,3]`, decodeToJSON(t, a, "uint8[3]", "010203"))

	v, err := jsonval.Parse(`[1,2]`)
	require.NoError(t, err)
	err = a.EncodeVariant(bytestream.New(), "uint8[3]", v)
	require.Error(t, err)
}

const variantABI = `{
	"version": "eosio::abi/1.2",
	"variants": [
		{ "name": "number_or_string", "types": ["uint32", "string"] }
	]
}`

func TestVariantEncodeDecode(t *testing.T) {
	a := compile(t, variantABI)

	assert.Equal(t, "002a000000", encodeToHex(t, a, "number_or_string", `["uint32",42]`))
	assert.Equal(t, "0103666f6f", encodeToHex(t, a, "number_or_string", `["string","foo"]`))

	assert.Equal(t, `["uint32",42]`, decodeToJSON(t, a, "number_or_string", "002a000000"))
	assert.Equal(t, `["string","foo"]`, decodeToJSON(t, a, "number_or_string", "0103666f6f"))
}

func TestVariantRejectsUnknownBranch(t *testing.T) {
	a := compile(t, variantABI)

	v, err := jsonval.Parse(`["name","eosio"]`)
	require.NoError(t, err)
	err = a.EncodeVariant(bytestream.New(), "number_or_string", v)
	require.Error(t, err)
}

func TestVariantRejectsTagOutOfRange(t *testing.T) {
	a := compile(t, variantABI)

	bs := bytestream.From([]byte{0x02, 0x00})
	_, err := a.DecodeVariant(bs, "number_or_string")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discriminant")
}

const binExtensionABI = `{
	"version": "eosio::abi/1.2",
	"structs": [
		{
			"name": "upgraded",
			"base": "",
			"fields": [
				{ "name": "first", "type": "uint8" },
				{ "name": "a", "type": "uint8$" },
				{ "name": "b", "type": "uint8$" },
				{ "name": "c", "type": "uint8$" }
			]
		}
	]
}`

func TestBinaryExtensionEncode(t *testing.T) {
	a := compile(t, binExtensionABI)

	assert.Equal(t, "01", encodeToHex(t, a, "upgraded", `{"first":1}`))
	assert.Equal(t, "0102", encodeToHex(t, a, "upgraded", `{"first":1,"a":2}`))
	assert.Equal(t, "010203", encodeToHex(t, a, "upgraded", `{"first":1,"a":2,"b":3}`))
	assert.Equal(t, "01020304", encodeToHex(t, a, "upgraded", `{"first":1,"a":2,"b":3,"c":4}`))
}

func TestBinaryExtensionPresenceIsMonotone(t *testing.T) {
	a := compile(t, binExtensionABI)

	// providing b while omitting a is rejected
	v, err := jsonval.Parse(`{"first":1,"b":3}`)
	require.NoError(t, err)
	err = a.EncodeVariant(bytestream.New(), "upgraded", v)
	require.Error(t, err)
}

func TestBinaryExtensionDecodeStopsAtEnd(t *testing.T) {
	a := compile(t, binExtensionABI)

	assert.Equal(t, `{"first":1}`, decodeToJSON(t, a, "upgraded", "01"))
	assert.Equal(t, `{"first":1,"a":2}`, decodeToJSON(t, a, "upgraded", "0102"))
	assert.Equal(t, `{"first":1,"a":2,"b":3,"c":4}`, decodeToJSON(t, a, "upgraded", "01020304"))
}

const aliasABI = `{
	"version": "eosio::abi/1.2",
	"types": [
		{ "new_type_name": "account_name", "type": "name" },
		{ "new_type_name": "account", "type": "account_name" }
	],
	"structs": [
		{
			"name": "grant",
			"base": "",
			"fields": [
				{ "name": "who", "type": "account" }
			]
		}
	]
}`

func TestAliasChainsResolve(t *testing.T) {
	a := compile(t, aliasABI)

	assert.Equal(t, "0000000000ea3055", encodeToHex(t, a, "account", `"eosio"`))
	assert.Equal(t, `{"who":"eosio"}`, decodeToJSON(t, a, "grant", "0000000000ea3055"))
}

func TestRoundTripTokenTransfer(t *testing.T) {
	a := compile(t, EosioTokenABI)

	obj := `{"from":"alice","to":"bob","quantity":"1.0000 EOS","memo":"hi"}`
	hexData := encodeToHex(t, a, "transfer", obj)
	assert.Equal(t, obj, decodeToJSON(t, a, "transfer", hexData))
}

func TestDecodeLeavesTrailingBytes(t *testing.T) {
	a := emptyABI(t)

	bs, err := bytestream.FromHex("2a00ff")
	require.NoError(t, err)
	v, err := a.DecodeVariant(bs, "uint8")
	require.NoError(t, err)
	assert.NotNil(t, v)
	// the decoder itself does not fail on trailing bytes; callers check
	assert.Len(t, bs.Leftover(), 2)
}

func TestEncodeUnknownType(t *testing.T) {
	a := emptyABI(t)
	v, err := jsonval.Parse(`1`)
	require.NoError(t, err)
	err = a.EncodeVariant(bytestream.New(), "mystery", v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestRecursionDepthBounded(t *testing.T) {
	a := emptyABI(t)

	deep := strings.Repeat("[]", maxRecursionDepth+2)
	v, err := jsonval.Parse(`[]`)
	require.NoError(t, err)

	nested := v
	for i := 0; i < maxRecursionDepth+1; i++ {
		nested = []any{nested}
	}
	err = a.EncodeVariant(bytestream.New(), "uint8"+deep, nested)
	require.Error(t, err)
}
