package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHoistLiftsPureExpressionToTopLevelConst(t *testing.T) {
	// The argument must be one of the qualifying expression types
	// (spec.md §4.2's type gate); an arrow function is the simplest one.
	ast := parseOK(t, oveoImport+"\nconst x = hoist(() => 1 + 2);\n")
	bindings := CollectIntrinsics(ast)
	Hoist(ast, bindings, ModuleBindings{}, true)
	out := print(ast)

	require.Contains(t, out, "__oveo__(() => 1 + 2, 1)")
	require.Contains(t, out, "const x = _HOIST_a;")
	require.NotContains(t, out, "hoist(")
}

func TestHoistClimbsOutOfConditionalBoundary(t *testing.T) {
	ast := parseOK(t, oveoImport+`
if (cond) {
  const z = hoist(() => 1 + 2);
}
`)
	bindings := CollectIntrinsics(ast)
	Hoist(ast, bindings, ModuleBindings{}, true)
	out := print(ast)

	// The hoisted value has no free variables tying it to the if-block,
	// so the conditional-boundary climb continues past it all the way
	// to the program's own (always-hoist) root scope, rather than
	// leaving the declaration stranded inside the block it was lifted
	// out of.
	require.Equal(t, "const _HOIST_a = __oveo__(() => 1 + 2, 1);\nif (cond) {\n  const z = _HOIST_a;\n}\n", out)
}

func TestHoistSkipsDisqualifiedExpressionType(t *testing.T) {
	// Type gate (spec.md §4.2): a plain binary expression is not one of
	// the seven hoistable shapes, so the call collapses to its bare
	// argument without ever being lifted, even with Hoist enabled.
	ast := parseOK(t, oveoImport+"\nconst x = hoist(1 + 2);\n")
	bindings := CollectIntrinsics(ast)
	Hoist(ast, bindings, ModuleBindings{}, true)
	out := print(ast)

	require.NotContains(t, out, "hoist(")
	require.NotContains(t, out, "__oveo__(")
	require.NotContains(t, out, "_HOIST_")
	require.Contains(t, out, "const x = 1 + 2;\n")
}

func TestHoistParenthesizedArgumentOptsOut(t *testing.T) {
	// Boundary case (spec.md §8): wrapping hoist's argument in an extra
	// pair of parens opts it out of lifting — the call still collapses
	// away (so no reference to the about-to-be-stripped "oveo" import
	// survives), but the value is left exactly where it was written.
	ast := parseOK(t, oveoImport+"\nconst x = hoist((1 + 2));\n")
	bindings := CollectIntrinsics(ast)
	Hoist(ast, bindings, ModuleBindings{}, true)
	out := print(ast)

	require.NotContains(t, out, "hoist(")
	require.NotContains(t, out, "__oveo__(")
	require.Contains(t, out, "const x = (1 + 2);\n")
}

func TestHoistScopeAnnotationMarksFunctionBodyAsTarget(t *testing.T) {
	ast := parseOK(t, oveoImport+`
const f = scope(function () {
  const x = hoist(() => 1 + 2);
});
`)
	bindings := CollectIntrinsics(ast)
	Hoist(ast, bindings, ModuleBindings{}, true)
	out := print(ast)

	require.NotContains(t, out, "scope(")
	require.Contains(t, out, "const f = function () {\n  const _HOIST_a = __oveo__(() => 1 + 2, 1);\n")
}

func TestHoistDisabledStillUnwrapsIntrinsicCallWithoutLifting(t *testing.T) {
	// spec.md §8 invariant 1: disabling a pass only removes its intrinsic
	// wrapper, it never leaves a call referencing the about-to-be-stripped
	// "oveo" import in the output.
	ast := parseOK(t, oveoImport+"\nconst x = hoist(1 + 2);\n")
	bindings := CollectIntrinsics(ast)
	Hoist(ast, bindings, ModuleBindings{}, false)
	out := print(ast)

	require.NotContains(t, out, "hoist(")
	require.NotContains(t, out, "__oveo__(")
	require.Contains(t, out, "const x = 1 + 2;\n")
}

func TestHoistDedupeIntrinsicAnnotatesForChunkPhase(t *testing.T) {
	ast := parseOK(t, oveoImport+"\nconst x = dedupe(1 + 2);\n")
	bindings := CollectIntrinsics(ast)
	Hoist(ast, bindings, ModuleBindings{}, true)
	out := print(ast)

	require.NotContains(t, out, "dedupe(")
	require.Contains(t, out, "const x = __oveo__(1 + 2, 1);\n")
}

func TestHoistExternFunctionHoistsOnlyTheFlaggedArgumentPosition(t *testing.T) {
	// spec.md §4.1/§4.2 step 1: an extern function's per-argument
	// ArgSpec flags only the designated call.Args[i], never the call's
	// own return value — arg 0 is plain, arg 1 is flagged hoist.
	ast := parseOK(t, `import {f} from "m"; f(a, () => 1 + 2);`)
	bindings := CollectIntrinsics(ast)
	catalog := ExternsCatalog{"m": {"f": {Kind: ExternFunction, Arguments: []ArgSpec{{}, {Hoist: true}}}}}
	moduleBindings := ResolveModuleExterns(ast, catalog)
	Hoist(ast, bindings, moduleBindings, true)
	out := print(ast)

	require.Contains(t, out, "const _HOIST_a = __oveo__(() => 1 + 2, 1);")
	require.Contains(t, out, "f(a, _HOIST_a);")
}

func TestHoistExternFunctionMarksOnlyTheFlaggedArgumentAsScopeTarget(t *testing.T) {
	// The scope-target marking comes entirely from the extern descriptor's
	// per-argument flag here, not from an explicit scope() call.
	ast := parseOK(t, oveoImport+`
import {f} from "m";
f(function () { const x = hoist(() => 1 + 2); });
`)
	bindings := CollectIntrinsics(ast)
	catalog := ExternsCatalog{"m": {"f": {Kind: ExternFunction, Arguments: []ArgSpec{{Scope: true}}}}}
	moduleBindings := ResolveModuleExterns(ast, catalog)
	Hoist(ast, bindings, moduleBindings, true)
	out := print(ast)

	require.Contains(t, out, "f(function () {\n  const _HOIST_a = __oveo__(() => 1 + 2, 1);\n")
}

func TestHoistKeyIntrinsicAnnotatesForChunkPhase(t *testing.T) {
	ast := parseOK(t, oveoImport+`
const x = obj[key("secret")];
`)
	bindings := CollectIntrinsics(ast)
	Hoist(ast, bindings, ModuleBindings{}, true)
	out := print(ast)

	require.NotContains(t, out, "key(")
	require.Contains(t, out, `const x = obj[__oveo__("secret", 2)];`)
}
