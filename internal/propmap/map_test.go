package propmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDecodesKeyValuePairsIgnoringCommentsAndBlankLines(t *testing.T) {
	m, err := Parse([]byte("# comment\n\n_secret=a\n; another comment\n_other = b \n"))
	require.NoError(t, err)

	v, ok := m.Get("_secret")
	require.True(t, ok)
	require.Equal(t, "a", v)

	v, ok = m.Get("_other")
	require.True(t, ok)
	require.Equal(t, "b", v, "surrounding whitespace around key and value must be trimmed")
}

func TestParseRejectsLineWithoutEquals(t *testing.T) {
	_, err := Parse([]byte("a=b\nnotakeyvalueline"))
	require.Error(t, err)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, 2, fe.Line)
}

func TestParseRejectsDuplicateKeyAndLeavesNoPartialState(t *testing.T) {
	m, err := Parse([]byte("a=b\na=c"))
	require.Error(t, err)
	require.Nil(t, m)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
}

func TestParseRejectsEmptyKey(t *testing.T) {
	_, err := Parse([]byte("=value"))
	require.Error(t, err)
}

func TestParseRejectsDuplicateRenamedValueAcrossDifferentKeys(t *testing.T) {
	_, err := Parse([]byte("a_=x\nb_=x"))
	require.Error(t, err)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, 2, fe.Line)
}

func TestParseRejectsRenamedValueCollidingWithReservedWord(t *testing.T) {
	_, err := Parse([]byte("a_=in"))
	require.Error(t, err)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, 1, fe.Line)
}

func TestSerializeIsSortedByKeyWithTrailingNewlines(t *testing.T) {
	m := NewMap()
	m.Set("zeta", "z")
	m.Set("alpha", "a")

	out := m.Serialize()
	require.Equal(t, "alpha=a\nzeta=z\n", string(out))
}

func TestHasValueFindsAnyAssignedRenamedName(t *testing.T) {
	m := NewMap()
	m.Set("orig", "x")

	require.True(t, m.HasValue("x"))
	require.False(t, m.HasValue("y"))
}

func TestSerializeRoundTripsThroughParse(t *testing.T) {
	m := NewMap()
	m.Set("foo", "a")
	m.Set("bar", "b")

	reparsed, err := Parse(m.Serialize())
	require.NoError(t, err)

	v, ok := reparsed.Get("foo")
	require.True(t, ok)
	require.Equal(t, "a", v)
}
