package optimizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGlobalsChainsStaticMemberAccess(t *testing.T) {
	// Scenario S3: Array.isArray(x); Array.from(y); both share the one
	// Array alias, each static member getting its own alias in turn.
	ast := parseOK(t, "Array.isArray(x); Array.from(y);")
	table := BuildGlobalsTable([]string{"js"}, true, false)
	Globals(ast, table)
	out := print(ast)

	require.Contains(t, out, "const _GLOBAL_1 = Array;")
	require.Contains(t, out, "const _GLOBAL_2 = _GLOBAL_1.isArray;")
	require.Contains(t, out, "const _GLOBAL_3 = _GLOBAL_1.from;")
	require.Contains(t, out, "_GLOBAL_2(x);")
	require.Contains(t, out, "_GLOBAL_3(y);")
}

func TestGlobalsSharesOneSingletonInstance(t *testing.T) {
	// Scenario S4: two `new TextEncoder()` sites collapse to one shared
	// instance.
	ast := parseOK(t, `new TextEncoder().encode("a"); new TextEncoder().encode("b");`)
	table := BuildGlobalsTable([]string{"js"}, false, true)
	Globals(ast, table)
	out := print(ast)

	require.Contains(t, out, "const _SINGLETON_1 = new TextEncoder();")
	require.Contains(t, out, `_SINGLETON_1.encode("a");`)
	require.Contains(t, out, `_SINGLETON_1.encode("b");`)
	require.Equal(t, 1, strings.Count(out, "new TextEncoder()")) // only the one construction site remains
}

func TestGlobalsHoistDisabledLeavesPlainReferenceAlone(t *testing.T) {
	ast := parseOK(t, "Array.isArray(x);")
	table := BuildGlobalsTable([]string{"js"}, false, false)
	Globals(ast, table)
	out := print(ast)

	require.Equal(t, "Array.isArray(x);\n", out)
}

func TestGlobalsShadowedBindingIsNotRewritten(t *testing.T) {
	// Boundary case: a local declaration named "Array" resolves its own
	// references, so free (unresolved) identifier matching never fires.
	ast := parseOK(t, "const Array = []; Array.push(1);")
	table := BuildGlobalsTable([]string{"js"}, true, false)
	Globals(ast, table)
	out := print(ast)

	require.Equal(t, "const Array = [];\nArray.push(1);\n", out)
}

func TestGlobalsWindowAndGlobalThisAreAlwaysRecognized(t *testing.T) {
	table := BuildGlobalsTable(nil, true, false)
	ast := parseOK(t, "const x = window;")
	Globals(ast, table)
	out := print(ast)

	require.Contains(t, out, "const _GLOBAL_1 = window;")
	require.Contains(t, out, "const x = _GLOBAL_1;")
}
