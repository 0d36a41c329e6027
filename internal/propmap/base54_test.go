package propmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBase54GeneratesSingleLetterNamesFirst(t *testing.T) {
	require.Equal(t, "a", base54(0))
	require.Equal(t, "b", base54(1))
	require.Equal(t, "z", base54(25))
	require.Equal(t, "A", base54(26))
	require.Equal(t, "$", base54(53))
}

func TestBase54WrapsToTwoCharacterNamesAfterTheHeadAlphabetIsExhausted(t *testing.T) {
	require.Equal(t, "aa", base54(54))
}

func TestBase54NamesAreUniqueAcrossASequence(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 2000; i++ {
		name := base54(i)
		require.False(t, seen[name], "base54(%d) collided with an earlier name: %q", i, name)
		seen[name] = true
	}
}
