package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/digigaia/kudu-go/jsonval"
)

func mustParse(t *testing.T, s string) any {
	t.Helper()
	v, err := jsonval.Parse(s)
	require.NoError(t, err)
	return v
}

func marshalVariant(v any) (string, error) {
	return jsonval.Marshal(v)
}
