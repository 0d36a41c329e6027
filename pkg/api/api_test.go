package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const oveoImport = `import {hoist, scope, dedupe, key} from "oveo";`

func TestTransformHoistsAndStripsIntrinsicImport(t *testing.T) {
	// The hoisted argument must be one of the type-gate's qualifying
	// shapes (spec.md §4.2); an arrow function is the simplest one.
	o := New(Options{Hoist: true})
	res, warnings, err := o.Transform(oveoImport+"\nconst x = hoist(() => 1 + 2);\n", JS)
	require.NoError(t, err)
	require.Nil(t, warnings)
	require.NotContains(t, res.Code, `from "oveo"`)
	require.Contains(t, res.Code, "__oveo__(() => 1 + 2, 1)")
}

func TestTransformWithoutHoistStillUnwrapsIntrinsicCall(t *testing.T) {
	// With Hoist off, the call site still collapses to its bare argument
	// (spec.md §8 invariant 1) even though the value is never relocated —
	// only the lift itself is skipped.
	o := New(Options{})
	res, _, err := o.Transform(oveoImport+"\nconst x = hoist(1 + 2);\n", JS)
	require.NoError(t, err)
	require.NotContains(t, res.Code, `from "oveo"`)
	require.NotContains(t, res.Code, "hoist(")
	require.Contains(t, res.Code, "const x = 1 + 2;")
}

func TestTransformReturnsParseErrorOnSyntaxError(t *testing.T) {
	o := New(Options{})
	_, _, err := o.Transform("const x = ;", JS)
	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestTransformInlinesRegisteredExternConst(t *testing.T) {
	o := New(Options{Externs: ExternsOptions{InlineConstValues: true}})
	err := o.ImportExterns([]byte(`{"m":{"exports":{"K":{"type":"const","value":"v"}}}}`))
	require.NoError(t, err)

	res, _, err := o.Transform(`import {K} from "m"; log(K);`, JS)
	require.NoError(t, err)
	require.Equal(t, "log(\"v\");\n", res.Code)
}

func TestImportExternsRejectsMalformedDescriptor(t *testing.T) {
	o := New(Options{})
	err := o.ImportExterns([]byte(`{not json`))
	require.Error(t, err)
	var externsErr *ExternsFormatError
	require.ErrorAs(t, err, &externsErr)
}

func TestRenderChunkDedupesAndRewritesGlobals(t *testing.T) {
	o := New(Options{
		Dedupe: true,
		Globals: GlobalsOptions{
			Include: []string{"js"},
			Hoist:   true,
		},
	})
	res, _, err := o.RenderChunk(`
const a = __oveo__(Array.isArray(x), 1);
const b = __oveo__(Array.isArray(x), 1);
`)
	require.NoError(t, err)
	require.Contains(t, res.Code, "_GLOBAL_")
	require.Contains(t, res.Code, "_DEDUPE_")
	require.NotContains(t, res.Code, "__oveo__(")
}

func TestRenderChunkReturnsParseErrorOnSyntaxError(t *testing.T) {
	o := New(Options{})
	_, _, err := o.RenderChunk("const x = ;")
	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestRenderChunkRewritesImportMetaURL(t *testing.T) {
	o := New(Options{URL: "https://cdn.example.com/"})
	res, _, err := o.RenderChunk(`const u = new URL("./a.wasm", import.meta.url).href;`)
	require.NoError(t, err)
	require.Equal(t, `const u = "https://cdn.example.com/a.wasm";`+"\n", res.Code)
}

func TestPropertyMapRoundTripOnlyUpdatesWhenDirty(t *testing.T) {
	o := New(Options{RenameProperties: RenamePropertiesOptions{Enabled: true, Pattern: "^_"}})

	res, _, err := o.RenderChunk(`const obj = {_secret: 1};`)
	require.NoError(t, err)
	require.NotContains(t, res.Code, "_secret")

	first := o.UpdatePropertyMap()
	require.NotNil(t, first, "a fresh allocation must mark the map dirty")

	second := o.UpdatePropertyMap()
	require.Nil(t, second, "no new names were allocated since the last update")

	exported := o.ExportPropertyMap()
	require.Equal(t, first, exported, "export must always reflect current state regardless of the dirty flag")
}

func TestImportPropertyMapRejectsMalformedInputAndKeepsPriorState(t *testing.T) {
	o := New(Options{RenameProperties: RenamePropertiesOptions{Enabled: true, Pattern: "^_"}})
	_, _, err := o.RenderChunk(`const obj = {_secret: 1};`)
	require.NoError(t, err)
	before := o.ExportPropertyMap()

	err = o.ImportPropertyMap([]byte("ok=value\nthislinehasnoequals"))
	require.Error(t, err)
	var mapErr *PropertyMapFormatError
	require.ErrorAs(t, err, &mapErr)

	require.Equal(t, before, o.ExportPropertyMap(), "a rejected import must not mutate existing state")
}
