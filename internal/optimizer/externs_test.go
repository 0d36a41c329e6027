package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseExternsDecodesNestedExportsForm(t *testing.T) {
	catalog, err := ParseExterns("externs", []byte(`{"m":{"exports":{"K":{"type":"const","value":"v"}}}}`))
	require.NoError(t, err)

	v, ok := catalog["m"]["K"]
	require.True(t, ok)
	require.Equal(t, ExternConst, v.Kind)
	require.Equal(t, "v", v.Literal)
}

func TestParseExternsDecodesShorthandForm(t *testing.T) {
	catalog, err := ParseExterns("externs", []byte(`{"m":{"K":{"type":"const","value":1}}}`))
	require.NoError(t, err)

	v, ok := catalog["m"]["K"]
	require.True(t, ok)
	require.Equal(t, ExternConst, v.Kind)
	require.Equal(t, float64(1), v.Literal)
}

func TestParseExternsFunctionAndNamespace(t *testing.T) {
	catalog, err := ParseExterns("externs", []byte(`{
		"m": {
			"exports": {
				"f": {"type": "function", "arguments": [{"hoist": true}, {"scope": true}]},
				"ns": {"type": "namespace", "members": {
					"FOO": {"type": "const", "value": "bar"}
				}}
			}
		}
	}`))
	require.NoError(t, err)

	f := catalog["m"]["f"]
	require.Equal(t, ExternFunction, f.Kind)
	require.Equal(t, []ArgSpec{{Hoist: true}, {Scope: true}}, f.Arguments)

	ns := catalog["m"]["ns"]
	require.Equal(t, ExternNamespace, ns.Kind)
	require.Equal(t, "bar", ns.Members["FOO"].Literal)
}

func TestParseExternsMalformedJSONIsRejected(t *testing.T) {
	_, err := ParseExterns("externs", []byte(`{not json`))
	require.Error(t, err)
	var formatErr *ExternsFormatError
	require.ErrorAs(t, err, &formatErr)
}

