package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInlineExternsSubstitutesConstAndPrunesImport(t *testing.T) {
	// Scenario S5: import {K} from "m"; log(K); -> log("v"); with the
	// import removed entirely (K was its only specifier).
	ast := parseOK(t, `import {K} from "m"; log(K);`)
	catalog := ExternsCatalog{"m": {"K": {Kind: ExternConst, Literal: "v"}}}
	bindings := ResolveModuleExterns(ast, catalog)
	InlineExterns(ast, bindings)
	out := print(ast)

	require.Equal(t, "log(\"v\");\n", out)
}

func TestInlineExternsKeepsImportWhenAnotherSpecifierStillUsed(t *testing.T) {
	ast := parseOK(t, `import {K, other} from "m"; log(K); other();`)
	catalog := ExternsCatalog{"m": {"K": {Kind: ExternConst, Literal: "v"}}}
	bindings := ResolveModuleExterns(ast, catalog)
	InlineExterns(ast, bindings)
	out := print(ast)

	require.Contains(t, out, `import { other } from "m";`)
	require.Contains(t, out, `log("v");`)
	require.NotContains(t, out, "K")
}

func TestInlineExternsLeavesFunctionAndNamespaceExternsUntouched(t *testing.T) {
	// A Function/Namespace extern reference isn't a literal to inline —
	// it must be left alone, and the import kept as still-used.
	ast := parseOK(t, `import {f} from "m"; f();`)
	catalog := ExternsCatalog{"m": {"f": {Kind: ExternFunction}}}
	bindings := ResolveModuleExterns(ast, catalog)
	InlineExterns(ast, bindings)
	out := print(ast)

	require.Equal(t, "import { f } from \"m\";\nf();\n", out)
}

func TestInlineExternsResolvesNamespaceMemberChain(t *testing.T) {
	ast := parseOK(t, `import * as ns from "m"; log(ns.K);`)
	catalog := ExternsCatalog{"m": {"K": {Kind: ExternConst, Literal: "v"}}}
	bindings := ResolveModuleExterns(ast, catalog)
	InlineExterns(ast, bindings)
	out := print(ast)

	require.Equal(t, "log(\"v\");\n", out)
}
