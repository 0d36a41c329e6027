package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRewriteImportMetaURLResolvesRelativeAsset(t *testing.T) {
	ast := parseOK(t, `const u = new URL("./a.wasm", import.meta.url).href;`)
	RewriteImportMetaURL(ast, "https://cdn.example.com/assets/")
	out := print(ast)

	require.Equal(t, `const u = "https://cdn.example.com/assets/a.wasm";`+"\n", out)
}

func TestRewriteImportMetaURLLeavesUnrelatedNewURLAlone(t *testing.T) {
	ast := parseOK(t, `const u = new URL("./a.wasm", someOtherBase).href;`)
	RewriteImportMetaURL(ast, "https://cdn.example.com/assets/")
	out := print(ast)

	require.Equal(t, `const u = new URL("./a.wasm", someOtherBase).href;`+"\n", out)
}

func TestRunChunkPassesOrdersURLRewriteBeforeDedupe(t *testing.T) {
	ast := parseOK(t, `
const a = __oveo__(new URL("./a.wasm", import.meta.url).href, 1);
const b = __oveo__(new URL("./a.wasm", import.meta.url).href, 1);
`)
	RunChunkPasses(ast, IntrinsicBindings{}, ChunkOptions{Dedupe: true, URLBase: "https://cdn.example.com/"})
	out := print(ast)

	require.Contains(t, out, `const _DEDUPE_a = "https://cdn.example.com/a.wasm";`)
	require.Contains(t, out, "const a = _DEDUPE_a;")
	require.Contains(t, out, "const b = _DEDUPE_a;")
}

func TestRunChunkPassesSkipsDisabledPasses(t *testing.T) {
	ast := parseOK(t, "Array.isArray(x);")
	RunChunkPasses(ast, IntrinsicBindings{}, ChunkOptions{})
	out := print(ast)

	require.Equal(t, "Array.isArray(x);\n", out)
}
