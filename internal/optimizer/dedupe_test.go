package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDedupeMergesStructurallyEqualSites(t *testing.T) {
	ast := parseOK(t, oveoImport+`
const a = dedupe(1 + 2);
const b = dedupe(1 + 2);
`)
	bindings := CollectIntrinsics(ast)
	Dedupe(ast, bindings, true)
	out := print(ast)

	require.Contains(t, out, "const _DEDUPE_a = 1 + 2;")
	require.Contains(t, out, "const a = _DEDUPE_a;")
	require.Contains(t, out, "const b = _DEDUPE_a;")
	require.NotContains(t, out, "dedupe(")
}

func TestDedupeLoneCallJustUnwraps(t *testing.T) {
	ast := parseOK(t, oveoImport+"\nconst a = dedupe(1 + 2);\n")
	bindings := CollectIntrinsics(ast)
	Dedupe(ast, bindings, true)
	out := print(ast)

	require.Equal(t, oveoImportPrinted+"const a = 1 + 2;\n", out)
}

func TestDedupeDisabledStillStripsExplicitCallsButDoesNotMerge(t *testing.T) {
	// spec.md §8 invariant 1: disabling an optimization still strips its
	// intrinsic wrapper to the bare argument, it just never lifts it.
	ast := parseOK(t, oveoImport+`
const a = dedupe(1 + 2);
const b = dedupe(1 + 2);
`)
	bindings := CollectIntrinsics(ast)
	Dedupe(ast, bindings, false)
	out := print(ast)

	require.NotContains(t, out, "dedupe(")
	require.NotContains(t, out, "_DEDUPE_")
	require.Contains(t, out, "const a = 1 + 2;")
	require.Contains(t, out, "const b = 1 + 2;")
}

func TestDedupeMergesOveoMarkedSites(t *testing.T) {
	// Simulates the chunk phase reparsing module-phase output that
	// hoist.go wrapped in the __oveo__ wire marker: no explicit dedupe()
	// call is present, only the marker, and it must still be recognized.
	ast := parseOK(t, `
const a = __oveo__(1 + 2, 1);
const b = __oveo__(1 + 2, 1);
`)
	Dedupe(ast, IntrinsicBindings{}, true)
	out := print(ast)

	require.Contains(t, out, "const _DEDUPE_a = 1 + 2;")
	require.Contains(t, out, "const a = _DEDUPE_a;")
	require.Contains(t, out, "const b = _DEDUPE_a;")
	require.NotContains(t, out, "__oveo__(")
}

func TestDedupeDistinctValuesAreNotMerged(t *testing.T) {
	ast := parseOK(t, oveoImport+`
const a = dedupe(1 + 2);
const b = dedupe(3 + 4);
`)
	bindings := CollectIntrinsics(ast)
	Dedupe(ast, bindings, true)
	out := print(ast)

	require.NotContains(t, out, "_DEDUPE_")
	require.Contains(t, out, "const a = 1 + 2;")
	require.Contains(t, out, "const b = 3 + 4;")
}
