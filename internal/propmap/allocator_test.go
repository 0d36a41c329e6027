package propmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocatorHandsOutNamesInBase54Order(t *testing.T) {
	a := NewAllocator(NewMap())

	require.Equal(t, "a", a.Rename("one"))
	require.Equal(t, "b", a.Rename("two"))
	require.Equal(t, "c", a.Rename("three"))
}

func TestAllocatorReusesExistingMapEntryWithoutMarkingDirty(t *testing.T) {
	m := NewMap()
	m.Set("one", "zzz")
	a := NewAllocator(m)

	require.Equal(t, "zzz", a.Rename("one"))
	require.False(t, a.Dirty())
}

func TestAllocatorSkipsReservedWords(t *testing.T) {
	// The first reserved word in base54 order is "if" (base54(332)), and
	// the last two-letter one is "is" (base54(1034)). Allocate 2000
	// distinct names, well past all of them, and confirm no reserved word
	// is ever handed out.
	a := NewAllocator(NewMap())
	seen := map[string]bool{}
	for i := 0; i < 2000; i++ {
		name := a.Rename("p" + base54(i))
		require.False(t, reserved[name], "allocator must never hand out a reserved word, got %q", name)
		seen[name] = true
	}
}

func TestAllocatorNeverReassignsAValueAlreadyPresentInTheImportedMap(t *testing.T) {
	m := NewMap()
	m.Set("existing", "a")
	a := NewAllocator(m)

	got := a.Rename("fresh")
	require.NotEqual(t, "a", got, "the allocator must treat every value already in the imported map as used")
	require.True(t, a.Dirty())
}

func TestAllocatorClearDirtyResetsFlag(t *testing.T) {
	a := NewAllocator(NewMap())
	a.Rename("one")
	require.True(t, a.Dirty())

	a.ClearDirty()
	require.False(t, a.Dirty())
}
