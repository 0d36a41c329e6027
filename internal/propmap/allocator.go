package propmap

// reserved lists short identifier-like words the allocator must never
// hand out even though they're valid JS property names, because a
// rename target this short colliding with a real keyword-shaped
// property elsewhere in a consuming codebase (`obj.in`, `obj.let`, a
// TS contextual keyword, ...) is exactly the kind of surprising output
// a persistent map is supposed to avoid. Ported verbatim from
// original_source/crates/oveo/src/property_names/mod.rs's add_keywords.
var reserved = map[string]bool{
	"as": true, "do": true, "if": true, "in": true, "is": true, "of": true,
	"any": true, "for": true, "get": true, "let": true, "new": true, "out": true,
	"set": true, "try": true, "var": true, "case": true, "else": true, "enum": true,
	"from": true, "meta": true, "null": true, "this": true, "true": true, "type": true,
	"void": true, "with": true,
}

// Allocator hands out fresh base54 short names disjoint from every
// value already present in the map, from reserved, and from its own
// prior allocations (spec.md §3's "Property renamer state").
type Allocator struct {
	Map   *Map
	dirty bool
	used  map[string]bool
	next  int
}

func NewAllocator(m *Map) *Allocator {
	a := &Allocator{Map: m, used: map[string]bool{}}
	for w := range reserved {
		a.used[w] = true
	}
	for k := range m.entries {
		a.used[m.entries[k]] = true
	}
	return a
}

// Rename returns the renamed name for original, allocating and
// recording a fresh one (setting the dirty flag) if the map doesn't
// already have an entry.
func (a *Allocator) Rename(original string) string {
	if v, ok := a.Map.Get(original); ok {
		return v
	}
	for {
		name := base54(a.next)
		a.next++
		if a.used[name] {
			continue
		}
		a.used[name] = true
		a.Map.Set(original, name)
		a.dirty = true
		return name
	}
}

// Dirty reports whether any new entry was allocated since the map was
// imported (or since the allocator was constructed, for a fresh map).
func (a *Allocator) Dirty() bool { return a.dirty }

// ClearDirty resets the dirty flag, called after updatePropertyMap has
// serialized the current state.
func (a *Allocator) ClearDirty() { a.dirty = false }
