package optimizer

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/localvoid/oveo/internal/propmap"
)

func TestRenamePropertiesAllocatesFreshNamesDeterministically(t *testing.T) {
	// Scenario S6: every syntactic spelling of a matched property name —
	// object-literal key, member access, computed string-literal index,
	// class member — shares the one allocated name.
	ast := parseOK(t, `
const obj = {_secret: 1};
obj._secret;
obj["_secret"];
class C { _secret() {} }
`)
	pattern := regexp.MustCompile(`^_`)
	allocator := propmap.NewAllocator(propmap.NewMap())
	RenameProperties(ast, pattern, allocator)
	out := print(ast)

	require.NotContains(t, out, "_secret")
	require.Contains(t, out, "const obj = { a: 1 };")
	require.Contains(t, out, "obj.a;")
	require.Contains(t, out, `obj["a"];`)
	require.Contains(t, out, "a() {")
	require.True(t, allocator.Dirty())
}

func TestRenamePropertiesSkipsPrivateMembers(t *testing.T) {
	ast := parseOK(t, `class C { #secret() { return this.#secret; } }`)
	pattern := regexp.MustCompile(`^#?secret$`)
	allocator := propmap.NewAllocator(propmap.NewMap())
	RenameProperties(ast, pattern, allocator)
	out := print(ast)

	require.Contains(t, out, "#secret")
	require.False(t, allocator.Dirty())
}

func TestRenamePropertiesPrefersExistingMapEntryOverPattern(t *testing.T) {
	m := propmap.NewMap()
	m.Set("_secret", "zzz")
	allocator := propmap.NewAllocator(m)

	ast := parseOK(t, `const obj = {_secret: 1};`)
	pattern := regexp.MustCompile(`^_`)
	RenameProperties(ast, pattern, allocator)
	out := print(ast)

	require.Contains(t, out, "const obj = { zzz: 1 };")
	require.False(t, allocator.Dirty(), "reusing an existing map entry allocates nothing new")
}

func TestRenamePropertiesUnwrapsKeyAnnotationAndRenamesStringLiteral(t *testing.T) {
	// The key() intrinsic (SPEC_FULL.md §4/§9): the module phase wraps a
	// dynamic computed-member argument as `__oveo__("secret", 2)`; the
	// chunk phase renames it exactly like any other matched property name.
	ast := parseOK(t, `const x = obj[__oveo__("secret", 2)];`)
	pattern := regexp.MustCompile(`^secret$`)
	allocator := propmap.NewAllocator(propmap.NewMap())
	RenameProperties(ast, pattern, allocator)
	out := print(ast)

	require.NotContains(t, out, "__oveo__")
	require.Contains(t, out, `const x = obj["a"];`)
	require.True(t, allocator.Dirty())
}

func TestRenamePropertiesKeyAnnotationWithNonLiteralArgumentLosesMarkerOnly(t *testing.T) {
	// A non-string-literal key() argument (e.g. a variable) carries no
	// literal name to rename, so the annotation marker is simply dropped.
	ast := parseOK(t, `const x = obj[__oveo__(dynamicName, 2)];`)
	pattern := regexp.MustCompile(`.*`)
	allocator := propmap.NewAllocator(propmap.NewMap())
	RenameProperties(ast, pattern, allocator)
	out := print(ast)

	require.NotContains(t, out, "__oveo__")
	require.Contains(t, out, `const x = obj[dynamicName];`)
	require.False(t, allocator.Dirty())
}

func TestRenamePropertiesNonMatchingNameIsLeftAlone(t *testing.T) {
	ast := parseOK(t, `const obj = {keep: 1}; obj.keep;`)
	pattern := regexp.MustCompile(`^_`)
	allocator := propmap.NewAllocator(propmap.NewMap())
	RenameProperties(ast, pattern, allocator)
	out := print(ast)

	require.Equal(t, "const obj = { keep: 1 };\nobj.keep;\n", out)
	require.False(t, allocator.Dirty())
}
