package jsonval

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreservesOrder(t *testing.T) {
	v, err := Parse(`{"zulu":1,"alpha":2,"mike":[true,null,"x"]}`)
	require.NoError(t, err)

	obj, ok := v.(Object)
	require.True(t, ok)
	assert.Equal(t, "zulu", obj[0].Key)
	assert.Equal(t, "alpha", obj[1].Key)
	assert.Equal(t, "mike", obj[2].Key)

	out, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"zulu":1,"alpha":2,"mike":[true,null,"x"]}`, out)
}

func TestParseBigIntegersSurvive(t *testing.T) {
	v, err := Parse(`{"n":18446744073709551615}`)
	require.NoError(t, err)

	out, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"n":18446744073709551615}`, out)
}

func TestMarshalNumbers(t *testing.T) {
	out, err := Marshal(uint64(18446744073709551615))
	require.NoError(t, err)
	assert.Equal(t, "18446744073709551615", out)

	out, err = Marshal(int64(-42))
	require.NoError(t, err)
	assert.Equal(t, "-42", out)

	// 128-bit values are quoted, 64-bit values are not
	n := new(big.Int)
	n.SetString("340282366920938463463374607431768211455", 10)
	out, err = Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, `"340282366920938463463374607431768211455"`, out)
}

func TestMarshalFloats(t *testing.T) {
	// no scientific notation
	out, err := Marshal(float64(1e21))
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000000", out)

	// no trailing ".0" on integral floats
	out, err = Marshal(float64(1.0))
	require.NoError(t, err)
	assert.Equal(t, "1", out)

	out, err = Marshal(float64(0.125))
	require.NoError(t, err)
	assert.Equal(t, "0.125", out)

	out, err = Marshal(float32(0.5))
	require.NoError(t, err)
	assert.Equal(t, "0.5", out)
}

func TestObjectGetSet(t *testing.T) {
	obj := Object{}
	obj = obj.Set("a", int64(1))
	obj = obj.Set("b", int64(2))
	obj = obj.Set("a", int64(3))

	v, ok := obj.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(3), v)

	_, ok = obj.Get("missing")
	assert.False(t, ok)

	assert.Len(t, obj, 2)
}
